package protocol

import "strings"

// Decode parses one raw reply. Every input maps to exactly one outcome: a
// Response, ErrEmptyReply, or an *UnknownReplyError.
func Decode(raw string) (Response, error) {
	if raw == "" {
		return nil, ErrEmptyReply
	}
	tag, rest, _ := strings.Cut(raw, fieldSep)

	switch tag {
	case TagError:
		if rest == "" {
			rest = unspecifiedError
		}
		return ErrorReply{Message: rest}, nil
	case TagEmpty:
		return EmptyReply{}, nil
	case TagData:
		return DataReply{Rows: parseRows(rest)}, nil
	case TagSuccess:
		return SuccessReply{Message: rest}, nil
	case TagComputed:
		return ComputedReply{Message: rest}, nil
	default:
		return nil, &UnknownReplyError{Type: tag, Raw: raw}
	}
}

func parseRows(payload string) [][]string {
	if payload == "" {
		return [][]string{}
	}
	items := strings.Split(payload, rowSep)
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, strings.Split(item, fieldSep))
	}
	return rows
}

// RequireFields checks that every row carries at least want fields.
func RequireFields(command string, rows [][]string, want int) error {
	for i, row := range rows {
		if len(row) < want {
			return &RowError{Command: command, Index: i, Got: len(row), Want: want}
		}
	}
	return nil
}
