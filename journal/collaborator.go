package journal

import "context"

const (
	// SchemaVersion is the version of the on-disk record format. Journals
	// written under any other version are discarded.
	SchemaVersion = 1

	// DirectoryName is the name of the directory that contains the journal
	// files.
	DirectoryName = "journal"

	// VersionNamespace is the default namespace in which the schema version is
	// persisted.
	VersionNamespace = "JOURNAL_SP"

	// VersionKey is the default key under which the schema version is
	// persisted.
	VersionKey = "JOURNAL_SCHEMA"
)

// A DirectoryProvisioner allocates directories in which a [Store] keeps its
// files.
type DirectoryProvisioner interface {
	// Directory returns the path of the directory with the given name,
	// creating it if necessary.
	Directory(ctx context.Context, name string) (string, error)
}

// A VersionStore persists the schema version of the journal files.
type VersionStore interface {
	// LoadVersion returns the persisted schema version.
	//
	// It returns 0 if no version has been persisted.
	LoadVersion(ctx context.Context) (int, error)

	// SaveVersion persists the schema version.
	SaveVersion(ctx context.Context, v int) error
}

// An Executor runs tasks in the background.
type Executor interface {
	// Execute schedules fn for execution.
	//
	// key identifies the journal that fn operates upon, or is empty if fn
	// operates on the entire store. An implementation may use the key to
	// serialize tasks that operate on the same journal.
	//
	// It returns an error if fn can not be scheduled, in which case fn is
	// never called.
	Execute(ctx context.Context, key string, fn func()) error
}
