// Package auth turns local credentials into an explicit Session.
//
// It combines the credential store with the student lookup on the records
// server. Sessions are plain values passed to whoever needs them; there is
// no ambient login state.
package auth

import (
	"errors"
	"time"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/academic"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/accounts"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized         = errors.New("auth: unauthorized")
	ErrPendingAuthorization = errors.New("auth: account awaiting administrator authorization")
	ErrStudentNotFound      = errors.New("auth: student record not found on server")
	ErrAccountNotCreated    = errors.New("auth: student saved on server but login was not created")
)

// Session is the logged-in identity. Student fields are empty for staff.
type Session struct {
	Token       uuid.UUID
	Username    string
	Role        accounts.Role
	StudentID   string
	StudentName string
	ClassID     string
	StartedAt   time.Time
}

// DisplayName is the student name for students and the username otherwise.
func (s Session) DisplayName() string {
	if s.StudentName != "" {
		return s.StudentName
	}
	return s.Username
}

// Actor is the audit identity for this session.
func (s Session) Actor() academic.Actor {
	return academic.Actor{Role: s.Role, Name: s.DisplayName()}
}

// RequireRole fails with ErrUnauthorized unless the session holds one of roles.
func (s Session) RequireRole(roles ...accounts.Role) error {
	if s.Token == uuid.Nil {
		return ErrUnauthorized
	}
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return ErrUnauthorized
}
