package journal

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// A Mutation is an ordered list of operations to apply to a single journal.
//
// Operations are applied in order. Processing stops at the first operation that
// fails. The effects of any operations that were applied before the failure
// are retained; a mutation is not a transaction.
type Mutation struct {
	// Journal is the name of the journal to mutate.
	Journal string

	// Operations is the list of operations to apply.
	Operations []Operation
}

// NewMutation returns a mutation that applies the given operations to the
// named journal.
func NewMutation(journal string, ops ...Operation) Mutation {
	return Mutation{
		Journal:    journal,
		Operations: ops,
	}
}

// OperationType is an enumeration of the types of [Operation].
type OperationType uint8

const (
	// AppendOperation is an operation that appends a record to the journal.
	AppendOperation OperationType = iota + 1

	// CopyOperation is an operation that copies the entire journal to another
	// journal, replacing any existing content of the destination.
	CopyOperation

	// DeleteOperation is an operation that deletes the journal.
	DeleteOperation
)

func (t OperationType) String() string {
	switch t {
	case AppendOperation:
		return "append"
	case CopyOperation:
		return "copy"
	case DeleteOperation:
		return "delete"
	default:
		return fmt.Sprintf("unrecognized(%d)", uint8(t))
	}
}

// An Operation is a single change to a journal.
type Operation struct {
	Type OperationType

	// Record is the record to append. It is used by [AppendOperation].
	Record []byte

	// Destination is the name of the journal to copy to. It is used by
	// [CopyOperation].
	Destination string
}

// Append returns an operation that appends rec to the end of the journal.
//
// The journal is created if it does not already exist.
func Append(rec []byte) Operation {
	return Operation{
		Type:   AppendOperation,
		Record: slices.Clone(rec),
	}
}

// Copy returns an operation that copies the journal to the destination
// journal, which is created or overwritten.
//
// If the journal does not exist, it is created empty before being copied.
func Copy(destination string) Operation {
	return Operation{
		Type:        CopyOperation,
		Destination: destination,
	}
}

// Delete returns an operation that deletes the journal.
//
// Deleting a journal that does not exist is not an error.
func Delete() Operation {
	return Operation{
		Type: DeleteOperation,
	}
}
