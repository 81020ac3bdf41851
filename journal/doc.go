// Package journal stores named, append-only journals of opaque binary records
// on the local file system.
//
// Each journal is kept in its own file within a single journal directory. The
// file consists of a sequence of records, each encoded as a 4-byte big-endian
// length followed by that many bytes of payload.
//
// The journal directory is created lazily by the first operation that needs
// it. At that time the schema version persisted in a [VersionStore] is compared
// to [SchemaVersion]; if they differ, all existing journals are discarded.
package journal
