package filter

import (
	"errors"
	"fmt"
)

// ErrEmptyExpression is returned when a blank expression is compiled
var ErrEmptyExpression = errors.New("empty expression")

// CompilationError reports an expression that expr rejected. Position is the
// 1-based column of the offending token, or -1 when expr did not report one.
type CompilationError struct {
	Expression string
	Reason     string
	Position   int
	Err        error
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("cannot compile filter %q: %s", e.Expression, e.Reason)
	if e.Position >= 0 {
		msg += fmt.Sprintf(" (column %d)", e.Position)
	}
	return msg
}

func (e *CompilationError) Unwrap() error { return e.Err }

// EvaluationError reports a runtime failure of a compiled filter on one
// record. RecordID carries the record's "id" field when present.
type EvaluationError struct {
	Expression string
	RecordID   any
	Reason     string
	Err        error
}

func (e *EvaluationError) Error() string {
	target := "record"
	if e.RecordID != nil {
		target = fmt.Sprintf("record %v", e.RecordID)
	}
	return fmt.Sprintf("filter %q failed on %s: %s", e.Expression, target, e.Reason)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
