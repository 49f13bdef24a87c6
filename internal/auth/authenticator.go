package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/academic"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/accounts"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/observability"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Records is the part of the records server the login and account
// workflows need. *academic.Service satisfies it.
type Records interface {
	StudentByName(ctx context.Context, name string) (academic.Student, bool, error)
	AddStudent(ctx context.Context, f academic.StudentForm) (string, error)
	LogAction(ctx context.Context, actor academic.Actor, action string) error
}

type Authenticator struct {
	store   *accounts.Store
	records Records
	now     func() time.Time
	log     zerolog.Logger
}

func NewAuthenticator(store *accounts.Store, records Records) *Authenticator {
	return &Authenticator{
		store:   store,
		records: records,
		now:     time.Now,
		log:     observability.Component("auth"),
	}
}

// Login verifies credentials locally. Students are then resolved on the
// server by name to fill in their record and class.
func (a *Authenticator) Login(ctx context.Context, username, password string) (Session, error) {
	acct, ok, err := a.store.VerifyLogin(username, password)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		a.log.Info().Str("user", username).Msg("login rejected")
		return Session{}, ErrUnauthorized
	}
	switch acct.Status {
	case accounts.StatusActive:
	case accounts.StatusPending:
		return Session{}, ErrPendingAuthorization
	default:
		return Session{}, ErrUnauthorized
	}

	sess := Session{
		Token:     uuid.New(),
		Username:  acct.Username,
		Role:      acct.Role,
		StartedAt: a.now(),
	}
	switch acct.Role {
	case accounts.RoleAdmin, accounts.RoleTeacher:
	case accounts.RoleStudent:
		st, found, err := a.records.StudentByName(ctx, acct.Username)
		if err != nil {
			return Session{}, err
		}
		if !found {
			return Session{}, ErrStudentNotFound
		}
		sess.StudentID = st.ID
		sess.StudentName = st.Name
		sess.ClassID = st.ClassID
	default:
		return Session{}, ErrUnauthorized
	}

	a.log.Info().
		Str("user", sess.Username).
		Str("role", string(sess.Role)).
		Str("session", sess.Token.String()).
		Msg("login")
	return sess, nil
}

// RequestAccess is self-service registration: a pending student account.
func (a *Authenticator) RequestAccess(username, password string) error {
	return a.store.Register(username, password, accounts.RoleStudent, accounts.StatusPending)
}

// RegisterTeacher creates an active teacher login.
func (a *Authenticator) RegisterTeacher(ctx context.Context, admin Session, username, password string) error {
	if err := admin.RequireRole(accounts.RoleAdmin); err != nil {
		return err
	}
	if err := a.store.Register(username, password, accounts.RoleTeacher, accounts.StatusActive); err != nil {
		return err
	}
	a.audit(ctx, admin, fmt.Sprintf("registrou o usuario (Professor): %s", username))
	return nil
}

// Authorize activates a pending account.
func (a *Authenticator) Authorize(ctx context.Context, admin Session, username string) error {
	if err := admin.RequireRole(accounts.RoleAdmin); err != nil {
		return err
	}
	if err := a.store.Authorize(username); err != nil {
		return err
	}
	a.audit(ctx, admin, fmt.Sprintf("autorizou o acesso do aluno: %s", username))
	return nil
}

// Reject drops a pending access request.
func (a *Authenticator) Reject(ctx context.Context, admin Session, username string) error {
	if err := admin.RequireRole(accounts.RoleAdmin); err != nil {
		return err
	}
	if err := a.store.Reject(username); err != nil {
		return err
	}
	a.audit(ctx, admin, fmt.Sprintf("recusou o acesso do aluno: %s", username))
	return nil
}

func (a *Authenticator) DeleteUser(ctx context.Context, admin Session, username string) error {
	if err := admin.RequireRole(accounts.RoleAdmin); err != nil {
		return err
	}
	if err := a.store.Delete(username); err != nil {
		return err
	}
	a.audit(ctx, admin, fmt.Sprintf("excluiu o usuario: %s", username))
	return nil
}

// EnrollStudent saves the student on the server, then creates a pending
// login named after the student with the first CPF digits as password.
// A login failure after a successful enrollment returns the server message
// together with ErrAccountNotCreated.
func (a *Authenticator) EnrollStudent(ctx context.Context, staff Session, f academic.StudentForm) (string, error) {
	if err := staff.RequireRole(accounts.RoleTeacher, accounts.RoleAdmin); err != nil {
		return "", err
	}
	if err := f.Validate(); err != nil {
		return "", err
	}
	msg, err := a.records.AddStudent(ctx, f)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(f.Name)
	if err := a.store.Register(name, f.InitialPassword(), accounts.RoleStudent, accounts.StatusPending); err != nil {
		return msg, fmt.Errorf("%w: %w", ErrAccountNotCreated, err)
	}
	a.audit(ctx, staff, fmt.Sprintf("cadastrou o aluno '%s' (acesso pendente).", name))
	return msg, nil
}

// audit failures are logged by the records layer and never undo the action.
func (a *Authenticator) audit(ctx context.Context, s Session, action string) {
	_ = a.records.LogAction(ctx, s.Actor(), action)
}
