// Package preflight provides readiness checks for the filesystem paths the
// intake service depends on. The server runs them at startup and the CLI
// status command reuses them for display.
package preflight
