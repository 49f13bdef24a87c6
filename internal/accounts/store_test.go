package accounts

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/testutil/testlog"
)

func newStore(t *testing.T, seed string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usuarios.csv")
	if seed != "" {
		if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return NewStore(path)
}

func TestSuperAdminIsImplicit(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "")

	acct, ok, err := s.VerifyLogin("admin", "admin")
	if err != nil || !ok {
		t.Fatalf("super admin login failed: ok=%v err=%v", ok, err)
	}
	if acct.Role != RoleAdmin || acct.Status != StatusActive {
		t.Fatalf("unexpected super admin %#v", acct)
	}
	if _, ok, _ := s.VerifyLogin("admin", "wrong"); ok {
		t.Fatalf("wrong password accepted")
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatalf("super admin must not be persisted")
	}
	if err := s.Delete("admin"); !errors.Is(err, ErrProtectedAccount) {
		t.Fatalf("expected ErrProtectedAccount, got %v", err)
	}
	if err := s.Register("admin", "x", RoleTeacher, StatusActive); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegisterThenVerifyLogin(t *testing.T) {
	testlog.Start(t)

	tests := []struct {
		name       string
		status     Status
		wantStatus Status
	}{
		{name: "defaulted", status: "", wantStatus: StatusActive},
		{name: "pending", status: StatusPending, wantStatus: StatusPending},
		{name: "active", status: StatusActive, wantStatus: StatusActive},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t, "")
			if err := s.Register("ana", "pw", RoleStudent, tc.status); err != nil {
				t.Fatalf("register: %v", err)
			}
			acct, ok, err := s.VerifyLogin("ana", "pw")
			if err != nil || !ok {
				t.Fatalf("verify: ok=%v err=%v", ok, err)
			}
			if acct.Role != RoleStudent || acct.Status != tc.wantStatus {
				t.Fatalf("got %s/%s", acct.Role, acct.Status)
			}
		})
	}
}

func TestRegisterDuplicateLeavesStoreUnchanged(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "ana;pw;Aluno;ativo\nbruno;pw2;Professor;ativo\n")

	before, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rawBefore, _ := os.ReadFile(s.Path())

	if err := s.Register("ana", "other", RoleTeacher, StatusActive); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	after, _ := s.List()
	rawAfter, _ := os.ReadFile(s.Path())
	if !reflect.DeepEqual(before, after) || string(rawBefore) != string(rawAfter) {
		t.Fatalf("store changed after duplicate register")
	}

	if err := s.Register("Ana", "pw", RoleStudent, StatusActive); err != nil {
		t.Fatalf("usernames are case-sensitive: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "")

	tests := []struct {
		name  string
		user  string
		pass  string
		role  Role
		field string
	}{
		{name: "empty username", user: " ", pass: "pw", role: RoleStudent, field: "username"},
		{name: "empty password", user: "ana", pass: "", role: RoleStudent, field: "password"},
		{name: "separator", user: "a;b", pass: "pw", role: RoleStudent, field: "username"},
		{name: "newline", user: "ana", pass: "p\nw", role: RoleStudent, field: "password"},
		{name: "unknown role", user: "ana", pass: "pw", role: "Reitor", field: "role"},
		{name: "leading space", user: " bob", pass: "pw", role: RoleTeacher, field: "username"},
		{name: "trailing space", user: "bob", pass: "pw ", role: RoleTeacher, field: "password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Register(tc.user, tc.pass, tc.role, StatusActive)
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected validation error on %s, got %v", tc.field, err)
			}
		})
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatalf("validation failures must not touch the file")
	}
}

func TestListDefaultsAndShortLines(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "ana;pw;Aluno\n\nbruno;pw2\ncarla;pw3;Professor;pendente\n")

	got, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []Account{
		{Username: "ana", Password: "pw", Role: RoleStudent, Status: StatusActive},
		{Username: "bruno", Password: "pw2", Role: "", Status: StatusActive},
		{Username: "carla", Password: "pw3", Role: RoleTeacher, Status: StatusPending},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list mismatch:\n got %#v\nwant %#v", got, want)
	}
	if _, ok, _ := s.VerifyLogin("ana", "pw"); ok {
		t.Fatalf("lines with fewer than four fields must not log in")
	}
}

func TestDeleteRemovesAllMatches(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "ana;pw;Aluno;ativo\nbruno;pw;Professor;ativo\nana;pw2;Aluno;pendente\n")

	if err := s.Delete("ana"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := s.List()
	if len(got) != 1 || got[0].Username != "bruno" {
		t.Fatalf("unexpected accounts after delete: %#v", got)
	}
	if err := s.Delete("nobody"); err != nil {
		t.Fatalf("deleting an absent user is not an error: %v", err)
	}
}

func TestAuthorizeFirstMatchOnly(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "ana;pw;Aluno;pendente\nana;pw2;Aluno;pendente\n")

	if err := s.Authorize("ana"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	got, _ := s.List()
	if got[0].Status != StatusActive || got[1].Status != StatusPending {
		t.Fatalf("unexpected statuses: %#v", got)
	}
	if err := s.Authorize("ghost"); err != nil {
		t.Fatalf("authorizing an absent user is a no-op: %v", err)
	}
}

func TestAuthorizeAbsentUserLeavesAccountsUnchanged(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "ana;pw;Aluno;pendente\nbruno;pw2;Professor;ativo\n")

	before, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := s.Authorize("ghost"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	after, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("accounts changed:\n got %#v\nwant %#v", after, before)
	}
	if _, ok, _ := s.VerifyLogin("ghost", ""); ok {
		t.Fatalf("authorize must not create accounts")
	}
}

func TestPaddedUsernameCannotBypassDuplicateCheck(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "")

	if err := s.Register("bob", "pw", RoleTeacher, StatusActive); err != nil {
		t.Fatalf("register: %v", err)
	}
	var ve *ValidationError
	if err := s.Register(" bob", "pw2", RoleTeacher, StatusActive); !errors.As(err, &ve) {
		t.Fatalf("expected validation error for padded username, got %v", err)
	}
	got, _ := s.List()
	if len(got) != 1 {
		t.Fatalf("expected one account, got %#v", got)
	}
	acct, ok, err := s.VerifyLogin("bob", "pw")
	if err != nil || !ok || acct.Role != RoleTeacher || acct.Status != StatusActive {
		t.Fatalf("unexpected login result: %#v ok=%v err=%v", acct, ok, err)
	}
}

func TestPendingRejectAndCounts(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, strings.Join([]string{
		"ana;pw;Aluno;pendente",
		"bruno;pw;Professor;pendente",
		"carla;pw;Aluno;ativo",
		"davi;pw;Professor;ativo",
		"",
	}, "\n"))

	pending, err := s.Pending()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Username != "ana" {
		t.Fatalf("pending queue holds only student requests: %#v", pending)
	}

	counts, _ := s.Counts()
	if counts != (Counts{Total: 4, Teachers: 2, Students: 2}) {
		t.Fatalf("unexpected counts %#v", counts)
	}

	if err := s.Reject("ana"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := s.Reject("carla"); err != nil {
		t.Fatalf("reject active: %v", err)
	}
	teachers, _ := s.ByRole(RoleTeacher)
	students, _ := s.ByRole(RoleStudent)
	if len(teachers) != 2 || len(students) != 1 || students[0].Username != "carla" {
		t.Fatalf("reject must only drop pending accounts: %#v %#v", teachers, students)
	}
}

func TestMutationsLeaveNoTempFiles(t *testing.T) {
	testlog.Start(t)
	s := newStore(t, "")

	for _, name := range []string{"a", "b", "c"} {
		if err := s.Register(name, "pw", RoleStudent, StatusPending); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	_ = s.Authorize("b")
	_ = s.Delete("a")

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "usuarios.csv" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected files left behind: %v", names)
	}
	raw, _ := os.ReadFile(s.Path())
	if string(raw) != "b;pw;Aluno;ativo\nc;pw;Aluno;pendente\n" {
		t.Fatalf("unexpected file contents %q", raw)
	}
}
