// Package fakeserver runs an in-process records server for tests. It reads
// one command per connection until the client half-closes, then writes the
// handler's reply and closes.
package fakeserver

import (
	"io"
	"net"
	"sync"
	"testing"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/protocol"
)

// Handler returns the raw reply for one received command line.
type Handler func(raw string) string

type Server struct {
	ln      net.Listener
	handler Handler

	mu       sync.Mutex
	received []string
	wg       sync.WaitGroup
}

// Start listens on a loopback port and stops when the test ends.
func Start(t *testing.T, handler Handler) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &Server{ln: ln, handler: handler}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

// Routes answers by command name. Unknown commands get an ERRO reply.
func Routes(replies map[string]string) Handler {
	return func(raw string) string {
		cmd, err := protocol.ParseCommand(raw)
		if err != nil {
			return "ERRO;comando invalido"
		}
		if reply, ok := replies[cmd.Name()]; ok {
			return reply
		}
		return "ERRO;Comando desconhecido."
	}
}

// Encoded answers every command with the same decoded response.
func Encoded(r protocol.Response) Handler {
	wire := protocol.Encode(r)
	return func(string) string { return wire }
}

func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Received returns the command lines seen so far, in arrival order.
func (s *Server) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.received))
	copy(out, s.received)
	return out
}

func (s *Server) Close() {
	_ = s.ln.Close()
	s.wg.Wait()
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	raw, err := io.ReadAll(conn)
	if err != nil {
		return
	}
	line := string(raw)
	s.mu.Lock()
	s.received = append(s.received, line)
	s.mu.Unlock()
	_, _ = io.WriteString(conn, s.handler(line))
}
