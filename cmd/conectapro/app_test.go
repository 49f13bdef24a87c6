package main

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/academic"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/accounts"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/auth"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/protocol"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/testutil/fakeserver"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/testutil/testlog"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/transport"
)

func newStore(t *testing.T) *accounts.Store {
	t.Helper()
	return accounts.NewStore(filepath.Join(t.TempDir(), "usuarios.csv"))
}

// runScript drives the app with one answer per line and returns its output.
func runScript(t *testing.T, addr string, store *accounts.Store, lines ...string) string {
	t.Helper()
	opts := transport.DefaultOptions()
	opts.Addr = addr
	client := transport.NewClient(opts)
	records := academic.New(client)

	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	app := NewApp(context.Background(), in, &out, Deps{
		Records:    records,
		Auth:       auth.NewAuthenticator(store, records),
		Store:      store,
		ServerAddr: client.Addr(),
	})
	if err := app.Run(); err != nil {
		t.Fatalf("run: %v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func receivedContains(srv *fakeserver.Server, want string) bool {
	for _, raw := range srv.Received() {
		if strings.Contains(raw, want) {
			return true
		}
	}
	return false
}

func TestRunExitAndEndOfInput(t *testing.T) {
	testlog.Start(t)
	srv := fakeserver.Start(t, fakeserver.Routes(nil))
	store := newStore(t)

	for name, script := range map[string][]string{
		"exit": {"3"},
		"eof":  {},
	} {
		t.Run(name, func(t *testing.T) {
			out := runScript(t, srv.Addr(), store, script...)
			if !strings.Contains(out, "Até logo.") {
				t.Fatalf("expected farewell, got:\n%s", out)
			}
		})
	}
}

func TestAdminAddCourseWritesAuditLog(t *testing.T) {
	testlog.Start(t)
	srv := fakeserver.Start(t, fakeserver.Routes(map[string]string{
		protocol.CmdAddCourse: "SUCESSO;Curso 'Engenharia' cadastrado com ID 1.",
		protocol.CmdLog:       "SUCESSO;Log registrado.",
	}))
	store := newStore(t)

	out := runScript(t, srv.Addr(), store,
		"1", "admin", "admin", // login
		"2", "2", "Engenharia", // gestão acadêmica > adicionar curso
		"b", "b", "3",
	)
	if !strings.Contains(out, "Sucesso: Curso 'Engenharia' cadastrado com ID 1.") {
		t.Fatalf("missing success message:\n%s", out)
	}
	if !receivedContains(srv, "CADASTRAR_CURSO;Engenharia") {
		t.Fatalf("course command not sent: %v", srv.Received())
	}
	if !receivedContains(srv, "Admin adicionou o curso 'Engenharia'") {
		t.Fatalf("audit log not sent: %v", srv.Received())
	}
}

func TestAdminAuthorizesPendingStudent(t *testing.T) {
	testlog.Start(t)
	srv := fakeserver.Start(t, fakeserver.Routes(map[string]string{
		protocol.CmdLog: "SUCESSO;Log registrado.",
	}))
	store := newStore(t)
	if err := store.Register("Ana Souza", "123456", accounts.RoleStudent, accounts.StatusPending); err != nil {
		t.Fatalf("register: %v", err)
	}

	out := runScript(t, srv.Addr(), store,
		"1", "admin", "admin",
		"4", "2", "1", // autorizações > autorizar > primeiro pendente
		"b", "b", "3",
	)
	if !strings.Contains(out, "Acesso de 'Ana Souza' autorizado.") {
		t.Fatalf("missing authorization message:\n%s", out)
	}
	pending, err := store.Pending()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty queue, got %+v", pending)
	}
	if !receivedContains(srv, "Admin autorizou o acesso do aluno: Ana Souza") {
		t.Fatalf("audit log not sent: %v", srv.Received())
	}
}

func TestPendingStudentCannotLogIn(t *testing.T) {
	testlog.Start(t)
	srv := fakeserver.Start(t, fakeserver.Routes(nil))
	store := newStore(t)
	if err := store.Register("Bruno", "654321", accounts.RoleStudent, accounts.StatusPending); err != nil {
		t.Fatalf("register: %v", err)
	}

	out := runScript(t, srv.Addr(), store, "1", "Bruno", "654321", "3")
	if !strings.Contains(out, "Acesso pendente") {
		t.Fatalf("expected pending message:\n%s", out)
	}
	if len(srv.Received()) != 0 {
		t.Fatalf("pending login must not reach the server: %v", srv.Received())
	}
}

func TestStudentBoletimAndExamRequest(t *testing.T) {
	testlog.Start(t)
	srv := fakeserver.Start(t, fakeserver.Routes(map[string]string{
		protocol.CmdListStudents: "DADOS;1;Ana Souza;20;RA12345678;ana@x.com;3",
		protocol.CmdListGrades:   "DADOS;1;10;NP1;8|1;10;NP2;8|1;10;PIM;6|1;20;NP1;4|1;20;NP2;4|1;20;PIM;4",
		protocol.CmdListSubjects: "DADOS;10;Redes;1;Carla;EAD|20;Banco de Dados;1;Carla;EAD",
		protocol.CmdLog:          "SUCESSO;Log registrado.",
	}))
	store := newStore(t)
	if err := store.Register("Ana Souza", "123456", accounts.RoleStudent, accounts.StatusActive); err != nil {
		t.Fatalf("register: %v", err)
	}

	out := runScript(t, srv.Addr(), store,
		"1", "Ana Souza", "123456",
		"2", "1", // solicitar exame > Banco de Dados
		"b", "3",
	)
	for _, want := range []string{"Redes", "7.60", "Aprovado", "Banco de Dados", "Exame", "Solicitação de exame para 'Banco de Dados' enviada."} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if !receivedContains(srv, "O aluno 'Ana Souza' solicitou exame para 'Banco de Dados'") {
		t.Fatalf("exam request not logged: %v", srv.Received())
	}
}

func TestRefusedConnectionIsReported(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	out := runScript(t, addr, newStore(t),
		"1", "admin", "admin",
		"1", // dashboard
		"b", "3",
	)
	if !strings.Contains(out, "Erro de conexão") {
		t.Fatalf("expected connection error:\n%s", out)
	}
	if !strings.Contains(out, "Total de usuários: 0") {
		t.Fatalf("local counts should still print:\n%s", out)
	}
}
