package primitive

import (
	"errors"
	"fmt"
)

var (
	ErrSize     = errors.New("primitive: size constraint violated")
	ErrRange    = errors.New("primitive: value out of range")
	ErrEncoding = errors.New("primitive: invalid encoding")
)

// ConstraintError reports why a decoder rejected its input.
type ConstraintError struct {
	Decoder string
	Err     error
	Detail  string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Decoder, e.Err.Error(), e.Detail)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func constraint(decoder string, err error, format string, args ...any) error {
	return &ConstraintError{Decoder: decoder, Err: err, Detail: fmt.Sprintf(format, args...)}
}
