// Package output renders command results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned tables from structs, with wide-only columns
//   - json.go, yaml.go: machine-readable output for scripting
//   - spinner.go: activity indicator while waiting on the backend
//
// Struct fields are named by their json tag. A `table:"-"` tag hides a
// field from tables and `table:"wide"` shows it only with --wide.
package output
