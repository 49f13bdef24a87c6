package academic

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedReply = errors.New("academic: unexpected reply")
	ErrSubjectNotFound = errors.New("academic: subject not in report")
	ErrExamNotAllowed  = errors.New("academic: exam can only be requested for subjects awaiting exam")
)

// ServerError is an ERRO reply. Message is shown to the user verbatim.
type ServerError struct {
	Command string
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ValidationError blocks a request before anything is sent.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("academic: invalid %s %q: %s", e.Field, e.Value, e.Message)
}

func unexpected(command, tag string) error {
	return fmt.Errorf("%w: %s answered %s", ErrUnexpectedReply, command, tag)
}
