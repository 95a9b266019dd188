// Package main provides the hiercte command line tool.
//
// The CLI supports:
//   - convert: Rewrite CONNECT BY queries in SQL scripts as WITH RECURSIVE
//   - verify: Check converted scripts with the PostgreSQL grammar and,
//     optionally, EXPLAIN against a live database
//   - config show: Print the effective configuration
//   - version: Print build information
//
// Usage:
//
//	hiercte [flags] <command>
//
// Only verify with --db or verify.explain set needs database access.
package main

func main() {
	Execute()
}
