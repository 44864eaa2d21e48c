package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
		{"", "", true},
		{"JSON", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatterSelection(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("FormatJSON did not yield a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("FormatYAML did not yield a YAMLFormatter")
	}
	tf, ok := NewFormatter(FormatTable, true).(*TableFormatter)
	if !ok {
		t.Fatal("FormatTable did not yield a TableFormatter")
	}
	if !tf.Wide {
		t.Error("wide flag not propagated to TableFormatter")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"summary": "all clear", "count": 2}

	if err := (&JSONFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["summary"] != "all clear" {
		t.Errorf("summary = %v", decoded["summary"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("output is not indented")
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := struct {
		Summary string `yaml:"summary"`
		Count   int    `yaml:"count"`
	}{Summary: "low iron", Count: 3}

	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "summary: low iron") {
		t.Errorf("missing summary line in %q", out)
	}
	if !strings.Contains(out, "count: 3") {
		t.Errorf("missing count line in %q", out)
	}
}
