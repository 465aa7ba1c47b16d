package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingMapping marks a lookup that found nothing: a relation without
	// a cluster, a part without a slot, a word without a lemma. Callers skip
	// the affected question or part.
	ErrMissingMapping = errors.New("missing mapping")
	// ErrMalformedInput marks an input file that does not follow its format.
	ErrMalformedInput = errors.New("malformed input")
)

// MalformedError locates a malformed line in an input file
type MalformedError struct {
	File string
	Line int
	Msg  string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, ErrMalformedInput.Error(), e.Msg)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedInput
}

// Malformedf builds a MalformedError for file:line
func Malformedf(file string, line int, format string, args ...any) *MalformedError {
	return &MalformedError{
		File: file,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	}
}
