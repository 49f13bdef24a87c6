// Package academic exposes the records server as typed operations.
//
// Every method maps to one wire command (RecordGrades and the report
// workflows issue several). Inputs are validated before any request is sent.
// ERRO replies surface as *ServerError with the server's message.
package academic

import (
	"context"
	"strconv"
	"strings"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/observability"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/protocol"
	"github.com/rs/zerolog"
)

// Caller is satisfied by transport.Client and transport.Worker.
type Caller interface {
	Do(ctx context.Context, cmd protocol.Command) (protocol.Response, error)
}

type Service struct {
	caller Caller
	log    zerolog.Logger
}

func New(caller Caller) *Service {
	return &Service{caller: caller, log: observability.Component("academic")}
}

func (s *Service) call(ctx context.Context, name string, args ...string) (protocol.Response, error) {
	cmd, err := protocol.NewCommand(name, args...)
	if err != nil {
		return nil, err
	}
	return s.caller.Do(ctx, cmd)
}

// rows runs a list command. VAZIO yields no rows.
func (s *Service) rows(ctx context.Context, want int, name string, args ...string) ([][]string, error) {
	resp, err := s.call(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	switch r := resp.(type) {
	case protocol.DataReply:
		if err := protocol.RequireFields(name, r.Rows, want); err != nil {
			return nil, err
		}
		return r.Rows, nil
	case protocol.EmptyReply:
		return nil, nil
	case protocol.ErrorReply:
		return nil, &ServerError{Command: name, Message: r.Message}
	case protocol.SuccessReply, protocol.ComputedReply:
		return nil, unexpected(name, protocol.TagOf(resp))
	default:
		return nil, unexpected(name, protocol.TagOf(resp))
	}
}

// mutate runs a command that answers SUCESSO and returns its message.
func (s *Service) mutate(ctx context.Context, name string, args ...string) (string, error) {
	resp, err := s.call(ctx, name, args...)
	if err != nil {
		return "", err
	}
	switch r := resp.(type) {
	case protocol.SuccessReply:
		s.log.Info().Str("command", name).Msg(r.Message)
		return r.Message, nil
	case protocol.ErrorReply:
		s.log.Warn().Str("command", name).Str("reason", r.Message).Msg("server rejected command")
		return "", &ServerError{Command: name, Message: r.Message}
	case protocol.EmptyReply, protocol.DataReply, protocol.ComputedReply:
		return "", unexpected(name, protocol.TagOf(resp))
	default:
		return "", unexpected(name, protocol.TagOf(resp))
	}
}

func mapRows[T any](rows [][]string, fn func([]string) T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, fn(row))
	}
	return out
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Value: value, Message: "required"}
	}
	if strings.ContainsAny(value, ";|\r\n") {
		return &ValidationError{Field: field, Value: value, Message: "must not contain ';', '|' or line breaks"}
	}
	return nil
}

// requireID accepts positive integers, the only ids the server issues.
func requireID(field, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return &ValidationError{Field: field, Value: value, Message: "must be a positive integer"}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
