package climb

import "fmt"

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field == "" {
		return "invalid input: " + msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UnknownGradeError indicates a grade label that is not part of the scale
// it was ranked against.
type UnknownGradeError struct {
	Grade string
	Scale string
}

func (e *UnknownGradeError) Error() string {
	return fmt.Sprintf("unknown grade %q for scale %s", e.Grade, e.Scale)
}

// PersistenceError wraps a failed read or write against the climb store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IndexError reports a position outside the in-progress climb list.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("climb %d out of range (have %d)", e.Index, e.Len)
}
