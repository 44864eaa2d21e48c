package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// narrowCellLimit caps cell width outside wide mode so tables stay
// readable on a normal terminal.
const narrowCellLimit = 60

// TableFormatter renders data as an aligned text table.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format renders a Table directly, or converts a slice of structs, a
// single struct or a map into one. Anything else falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch t := data.(type) {
	case *Table:
		return t.render(w, f.NoHeaders)
	case Table:
		return t.render(w, f.NoHeaders)
	}

	table, err := f.toTable(data)
	if err != nil {
		return (&JSONFormatter{}).Format(w, data)
	}
	return table.render(w, f.NoHeaders)
}

func (f *TableFormatter) toTable(data any) (*Table, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return &Table{}, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return f.sliceToTable(v)
	case reflect.Struct:
		return f.structToTable(v)
	case reflect.Map:
		return f.mapToTable(v)
	default:
		return nil, fmt.Errorf("cannot tabulate %s", v.Kind())
	}
}

func (f *TableFormatter) sliceToTable(v reflect.Value) (*Table, error) {
	table := &Table{}
	if v.Len() == 0 {
		return table, nil
	}

	first := reflect.Indirect(v.Index(0))
	if first.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot tabulate slice of %s", first.Kind())
	}

	cols := f.visibleColumns(first.Type())
	for _, col := range cols {
		table.Headers = append(table.Headers, col.header)
	}

	for i := 0; i < v.Len(); i++ {
		elem := reflect.Indirect(v.Index(i))
		row := make([]string, 0, len(cols))
		for _, col := range cols {
			row = append(row, f.cell(elem.Field(col.index)))
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func (f *TableFormatter) structToTable(v reflect.Value) (*Table, error) {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}
	for _, col := range f.visibleColumns(v.Type()) {
		table.AddRow(strings.ToLower(col.header), f.cell(v.Field(col.index)))
	}
	return table, nil
}

func (f *TableFormatter) mapToTable(v reflect.Value) (*Table, error) {
	table := &Table{Headers: []string{"KEY", "VALUE"}}
	for _, key := range v.MapKeys() {
		table.AddRow(f.cell(key), f.cell(v.MapIndex(key)))
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i][0] < table.Rows[j][0]
	})
	return table, nil
}

type column struct {
	header string
	index  int
}

// visibleColumns selects exported struct fields honoring the table and
// json tags.
func (f *TableFormatter) visibleColumns(t reflect.Type) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		switch field.Tag.Get("table") {
		case "-":
			continue
		case "wide":
			if !f.Wide {
				continue
			}
		}

		name := field.Name
		if jsonTag, _, _ := strings.Cut(field.Tag.Get("json"), ","); jsonTag != "" && jsonTag != "-" {
			name = jsonTag
		}
		cols = append(cols, column{header: strings.ToUpper(name), index: i})
	}
	return cols
}

// cell formats a single value for display.
func (f *TableFormatter) cell(v reflect.Value) string {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}

	if v.Type() == reflect.TypeOf(time.Time{}) {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04")
	}

	var s string
	switch v.Kind() {
	case reflect.String:
		s = v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s = fmt.Sprintf("%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s = fmt.Sprintf("%d", v.Uint())
	case reflect.Float32, reflect.Float64:
		s = fmt.Sprintf("%.2f", v.Float())
	case reflect.Bool:
		s = fmt.Sprintf("%t", v.Bool())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		s = fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		s = fmt.Sprintf("{%d keys}", v.Len())
	default:
		s = fmt.Sprintf("%v", v.Interface())
	}

	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if !f.Wide && len(s) > narrowCellLimit {
		s = s[:narrowCellLimit-3] + "..."
	}
	return s
}

// Table holds tabular data assembled by hand or via reflection.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table with headers.
func (t *Table) Render(w io.Writer) error {
	return t.render(w, false)
}

func (t *Table) render(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}
