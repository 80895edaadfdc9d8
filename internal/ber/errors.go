package ber

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedHeader     = errors.New("ber: truncated header")
	ErrTagOverflow         = errors.New("ber: tag number overflow")
	ErrTagEncoding         = errors.New("ber: non-canonical high tag number encoding")
	ErrLengthOverflow      = errors.New("ber: length overflow")
	ErrLengthEncoding      = errors.New("ber: reserved length octet")
	ErrIndefinitePrimitive = errors.New("ber: indefinite length on primitive encoding")
	ErrLengthOverrun       = errors.New("ber: declared length exceeds enclosing range")
	ErrUnterminated        = errors.New("ber: unterminated indefinite length value")
	ErrTooDeep             = errors.New("ber: nesting too deep")
	ErrNoRecords           = errors.New("ber: no recoverable record boundary")
)

// StructuralError locates a grammar failure in the scanned buffer.
type StructuralError struct {
	Offset int
	Depth  int
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("ber: structural error at offset %d depth %d: %v", e.Offset, e.Depth, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }
