package protocol

import "strings"

// Encode renders r in wire form. Decode(Encode(r)) yields r for every reply
// whose fields contain no separators.
func Encode(r Response) string {
	switch v := r.(type) {
	case ErrorReply:
		return TagError + fieldSep + v.Message
	case EmptyReply:
		return TagEmpty + fieldSep
	case DataReply:
		rows := make([]string, 0, len(v.Rows))
		for _, row := range v.Rows {
			rows = append(rows, strings.Join(row, fieldSep))
		}
		return TagData + fieldSep + strings.Join(rows, rowSep)
	case SuccessReply:
		return TagSuccess + fieldSep + v.Message
	case ComputedReply:
		return TagComputed + fieldSep + v.Message
	default:
		return ""
	}
}
