// Package accounts is the local credential store.
//
// One account per line, fields joined by ';':
//
//	username;password;role;status
//
// Every operation reads the whole file fresh. Mutations rewrite the whole
// file through a temp file and rename. The store assumes a single writer
// process; within a process a mutex serializes mutations.
package accounts

import (
	"errors"
	"fmt"
	"strings"
)

// SuperAdmin is the implicit administrator. It is never written to disk and
// cannot be deleted.
const (
	SuperAdmin         = "admin"
	superAdminPassword = "admin"
)

var (
	ErrAlreadyExists    = errors.New("accounts: user already exists")
	ErrProtectedAccount = errors.New("accounts: account is protected")
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleTeacher Role = "Professor"
	RoleStudent Role = "Aluno"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// Label is the display name used by menus.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleTeacher:
		return "Professor"
	case RoleStudent:
		return "Aluno"
	default:
		return string(r)
	}
}

type Status string

const (
	StatusActive  Status = "ativo"
	StatusPending Status = "pendente"
)

type Account struct {
	Username string
	Password string
	Role     Role
	Status   Status
}

func (a Account) Active() bool {
	return a.Status == StatusActive
}

// ValidationError reports a field that cannot be stored.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("accounts: invalid %s %q: %s", e.Field, e.Value, e.Message)
}

func validate(a Account) error {
	fields := []struct {
		name  string
		value string
	}{
		{"username", a.Username},
		{"password", a.Password},
		{"role", string(a.Role)},
		{"status", string(a.Status)},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Value: f.value, Message: "required"}
		}
		if strings.ContainsAny(f.value, ";\r\n") {
			return &ValidationError{Field: f.name, Value: f.value, Message: "must not contain ';' or line breaks"}
		}
		// parseLine trims each stored line, so padding would not survive a reload.
		if strings.TrimSpace(f.value) != f.value {
			return &ValidationError{Field: f.name, Value: f.value, Message: "must not start or end with whitespace"}
		}
	}
	if !a.Role.Valid() {
		return &ValidationError{Field: "role", Value: string(a.Role), Message: "unknown role"}
	}
	if a.Status != StatusActive && a.Status != StatusPending {
		return &ValidationError{Field: "status", Value: string(a.Status), Message: "unknown status"}
	}
	return nil
}

func (a Account) line() string {
	return strings.Join([]string{a.Username, a.Password, string(a.Role), string(a.Status)}, ";")
}

// record is one stored line. complete is false for lines with fewer than
// four fields; those are listed but never match a login.
type record struct {
	Account
	complete bool
}

func parseLine(line string) (record, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return record{}, false
	}
	parts := strings.Split(line, ";")
	rec := record{complete: len(parts) >= 4}
	rec.Username = parts[0]
	if len(parts) > 1 {
		rec.Password = parts[1]
	}
	if len(parts) > 2 {
		rec.Role = Role(parts[2])
	}
	rec.Status = StatusActive
	if len(parts) > 3 && parts[3] != "" {
		rec.Status = Status(parts[3])
	}
	return rec, true
}
