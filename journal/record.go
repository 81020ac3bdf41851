package journal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxRecordSize is the maximum size of a single record, in bytes.
const MaxRecordSize = 1_000_000

// headerSize is the size of the length prefix that precedes each record.
const headerSize = 4

// AppendRecord writes rec to w as a single length-prefixed record.
//
// The header and payload are written with a single call to w.Write().
func AppendRecord(w io.Writer, rec []byte) error {
	if len(rec) > MaxRecordSize {
		return ErrRecordTooLarge
	}

	buf := make([]byte, headerSize+len(rec))
	binary.BigEndian.PutUint32(buf, uint32(len(rec)))
	copy(buf[headerSize:], rec)

	_, err := w.Write(buf)
	return err
}

// ReadRecords decodes every record in r, in order.
//
// It returns a [*CorruptJournalError] if r does not contain a whole number of
// well-formed records. No records are returned in that case.
func ReadRecords(r io.Reader) ([][]byte, error) {
	var (
		reader  = bufio.NewReader(r)
		header  [headerSize]byte
		offset  int64
		records [][]byte
	)

	for {
		if _, err := io.ReadFull(reader, header[:]); err != nil {
			if err == io.EOF {
				return records, nil
			}

			if err == io.ErrUnexpectedEOF {
				return nil, &CorruptJournalError{
					Offset: offset,
					Reason: "incomplete record header",
				}
			}

			return nil, err
		}

		n := binary.BigEndian.Uint32(header[:])

		if n > MaxRecordSize {
			return nil, &CorruptJournalError{
				Offset: offset,
				Length: n,
				Reason: fmt.Sprintf("record length %d is outside the range [0, %d]", n, MaxRecordSize),
			}
		}

		rec := make([]byte, n)
		if _, err := io.ReadFull(reader, rec); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, &CorruptJournalError{
					Offset: offset,
					Length: n,
					Reason: fmt.Sprintf("record declares %d bytes but fewer are available", n),
				}
			}

			return nil, err
		}

		records = append(records, rec)
		offset += headerSize + int64(n)
	}
}
