package registrar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNilSessionClient signals a nil diagnostic session client
var ErrNilSessionClient = errors.New("nil session client")

// ErrEmptyEntryID signals a submission without an entry identifier
var ErrEmptyEntryID = errors.New("empty entry ID")

// ErrAlreadySubmitted signals a second submission for the same entry
var ErrAlreadySubmitted = errors.New("custom metric entry already submitted")

// ErrSubmissionInProgress signals a submission racing an in-flight one for the same entry
var ErrSubmissionInProgress = errors.New("custom metric entry submission in progress")

// FieldFailure is one failed field rule
type FieldFailure struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field rule a custom metric definition failed
type ValidationError struct {
	Failures []FieldFailure
}

// Error returns the error string
func (err *ValidationError) Error() string {
	parts := make([]string, 0, len(err.Failures))
	for _, failure := range err.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", failure.Field, failure.Reason))
	}

	return "invalid custom metric definition: " + strings.Join(parts, "; ")
}
