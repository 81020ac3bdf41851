package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName indicates that a journal name can not be mapped to a
	// filename.
	ErrInvalidName = errors.New("invalid journal name")

	// ErrCorruptJournal indicates that a journal file does not contain a valid
	// sequence of records.
	ErrCorruptJournal = errors.New("journal is corrupt")

	// ErrRecordTooLarge is returned when attempting to append a record that is
	// larger than [MaxRecordSize].
	ErrRecordTooLarge = fmt.Errorf("record exceeds maximum size of %d bytes", MaxRecordSize)
)

// InvalidNameError is returned by operations that are given a journal name
// that can not be mapped to a filename.
type InvalidNameError struct {
	Name string
}

func (e InvalidNameError) Error() string {
	return fmt.Sprintf("%q is not a valid journal name", e.Name)
}

// Is returns true if target is [ErrInvalidName].
func (e InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// CorruptJournalError is returned when a journal file can not be decoded.
type CorruptJournalError struct {
	// Journal is the name of the corrupt journal.
	Journal string

	// Offset is the byte offset of the record header at which decoding
	// failed.
	Offset int64

	// Length is the record length declared by the header at Offset. It is zero
	// if the header itself is incomplete.
	Length uint32

	// Reason describes the inconsistency.
	Reason string
}

func (e *CorruptJournalError) Error() string {
	return fmt.Sprintf(
		"%q journal is corrupt at offset %d: %s",
		e.Journal,
		e.Offset,
		e.Reason,
	)
}

// Is returns true if target is [ErrCorruptJournal].
func (e *CorruptJournalError) Is(target error) bool {
	return target == ErrCorruptJournal
}
