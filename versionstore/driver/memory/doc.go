// Package memory provides a [journal.VersionStore] that keeps the schema
// version in memory.
//
// It is intended to be used as a reference implementation, and is used
// throughout various test suites.
package memory
