package protocol

// Reply type tags as they appear on the wire.
const (
	TagError    = "ERRO"
	TagEmpty    = "VAZIO"
	TagData     = "DADOS"
	TagSuccess  = "SUCESSO"
	TagComputed = "IA_RESULTADO"
)

const (
	fieldSep = ";"
	rowSep   = "|"

	unspecifiedError = "Erro não especificado."
)

// Response is one decoded server reply. The set of implementations is closed:
// ErrorReply, EmptyReply, DataReply, SuccessReply and ComputedReply.
type Response interface {
	isResponse()
}

// ErrorReply carries an explicit failure message from the server.
type ErrorReply struct {
	Message string
}

// EmptyReply means the server had nothing to list.
type EmptyReply struct{}

// DataReply carries ordered rows of ordered string fields.
type DataReply struct {
	Rows [][]string
}

// SuccessReply carries the server's confirmation message verbatim.
type SuccessReply struct {
	Message string
}

// ComputedReply carries the result of a server-side analysis verbatim.
type ComputedReply struct {
	Message string
}

func (ErrorReply) isResponse()    {}
func (EmptyReply) isResponse()    {}
func (DataReply) isResponse()     {}
func (SuccessReply) isResponse()  {}
func (ComputedReply) isResponse() {}

// TagOf returns the wire tag for r.
func TagOf(r Response) string {
	switch r.(type) {
	case ErrorReply:
		return TagError
	case EmptyReply:
		return TagEmpty
	case DataReply:
		return TagData
	case SuccessReply:
		return TagSuccess
	case ComputedReply:
		return TagComputed
	default:
		return ""
	}
}
