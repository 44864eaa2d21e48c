// Package output renders command results for vitalis-cli.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: tabwriter-based table rendering with wide mode
//   - json.go: indented JSON output
//   - yaml.go: YAML output
//   - spinner.go: progress animation for uploads and analysis waits
//
// Table rendering reads struct tags: `table:"-"` hides a column and
// `table:"wide"` shows it only in wide mode. Column headers come from
// the json tag when present.
package output
