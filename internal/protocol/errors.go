package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyReply    = errors.New("protocol: empty reply")
	ErrReplyTooLarge = errors.New("protocol: reply exceeds read limit")
	ErrEmptyCommand  = errors.New("protocol: empty command name")
	ErrInvalidArg    = errors.New("protocol: invalid command argument")
)

// UnknownReplyError reports a reply whose type tag is not part of the protocol.
type UnknownReplyError struct {
	Type string
	Raw  string
}

func (e *UnknownReplyError) Error() string {
	return fmt.Sprintf("protocol: unknown reply type %q", e.Type)
}

// RowError reports a DADOS row that does not carry the fields a command needs.
type RowError struct {
	Command string
	Index   int
	Got     int
	Want    int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("protocol: %s row[%d] has %d fields, want at least %d", e.Command, e.Index, e.Got, e.Want)
}
