// Package filejournal is a store of append-only binary journals, kept as one
// file per journal within a single directory.
//
// Use [Open] to create a store configured from options and the environment,
// or use the [journal] package directly to supply each collaborator
// explicitly.
package filejournal
