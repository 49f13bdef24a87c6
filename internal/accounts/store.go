package accounts

import (
	"bufio"
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/observability"
	"github.com/rs/zerolog"
)

type Store struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		log:  observability.Component("accounts").With().Str("file", path).Logger(),
	}
}

func (s *Store) Path() string {
	return s.path
}

// VerifyLogin checks the super-admin first, then the first stored account
// whose username and password both match.
func (s *Store) VerifyLogin(username, password string) (Account, bool, error) {
	if username == SuperAdmin && equal(password, superAdminPassword) {
		return Account{Username: SuperAdmin, Password: superAdminPassword, Role: RoleAdmin, Status: StatusActive}, true, nil
	}
	recs, err := s.read()
	if err != nil {
		return Account{}, false, err
	}
	for _, rec := range recs {
		if !rec.complete {
			continue
		}
		if rec.Username == username && equal(rec.Password, password) {
			return rec.Account, true, nil
		}
	}
	return Account{}, false, nil
}

// Register appends a new account. An empty status defaults to active.
func (s *Store) Register(username, password string, role Role, status Status) (err error) {
	defer func() { observability.RecordAccountMutation("register", err) }()
	if status == "" {
		status = StatusActive
	}
	acct := Account{Username: username, Password: password, Role: role, Status: status}
	if err := validate(acct); err != nil {
		return err
	}
	if username == SuperAdmin {
		return ErrAlreadyExists
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.Username == username {
			return ErrAlreadyExists
		}
	}
	recs = append(recs, record{Account: acct, complete: true})
	if err := s.write(recs); err != nil {
		return err
	}
	s.log.Info().Str("user", username).Str("role", string(role)).Str("status", string(status)).Msg("account registered")
	return nil
}

// List returns every stored account in file order.
func (s *Store) List() ([]Account, error) {
	recs, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]Account, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Account)
	}
	return out, nil
}

func (s *Store) ByRole(role Role) ([]Account, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []Account
	for _, a := range all {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

// Pending is the authorization queue: student accounts awaiting approval.
func (s *Store) Pending() ([]Account, error) {
	students, err := s.ByRole(RoleStudent)
	if err != nil {
		return nil, err
	}
	var out []Account
	for _, a := range students {
		if a.Status == StatusPending {
			out = append(out, a)
		}
	}
	return out, nil
}

type Counts struct {
	Total    int
	Teachers int
	Students int
}

func (s *Store) Counts() (Counts, error) {
	all, err := s.List()
	if err != nil {
		return Counts{}, err
	}
	c := Counts{Total: len(all)}
	for _, a := range all {
		switch a.Role {
		case RoleTeacher:
			c.Teachers++
		case RoleStudent:
			c.Students++
		}
	}
	return c, nil
}

// Delete removes every account with username.
func (s *Store) Delete(username string) (err error) {
	defer func() { observability.RecordAccountMutation("delete", err) }()
	if username == SuperAdmin {
		return ErrProtectedAccount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return err
	}
	kept := recs[:0]
	removed := 0
	for _, rec := range recs {
		if rec.Username == username {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	if err := s.write(kept); err != nil {
		return err
	}
	s.log.Info().Str("user", username).Int("removed", removed).Msg("account deleted")
	return nil
}

// Authorize activates the first account named username. Absent or already
// active accounts are not an error.
func (s *Store) Authorize(username string) (err error) {
	defer func() { observability.RecordAccountMutation("authorize", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return err
	}
	for i := range recs {
		if recs[i].Username == username {
			recs[i].Status = StatusActive
			break
		}
	}
	if err := s.write(recs); err != nil {
		return err
	}
	s.log.Info().Str("user", username).Msg("account authorized")
	return nil
}

// Reject drops a pending account. Active accounts are left alone.
func (s *Store) Reject(username string) (err error) {
	defer func() { observability.RecordAccountMutation("reject", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return err
	}
	kept := recs[:0]
	for _, rec := range recs {
		if rec.Username == username && rec.Status == StatusPending {
			continue
		}
		kept = append(kept, rec)
	}
	if err := s.write(kept); err != nil {
		return err
	}
	s.log.Info().Str("user", username).Msg("account request rejected")
	return nil
}

func (s *Store) read() ([]record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("accounts: read %s: %w", s.path, err)
	}
	var recs []record
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if rec, ok := parseLine(sc.Text()); ok {
			recs = append(recs, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("accounts: scan %s: %w", s.path, err)
	}
	return recs, nil
}

// write replaces the file atomically: temp file in the same directory,
// fsync, rename.
func (s *Store) write(recs []record) error {
	var buf bytes.Buffer
	for _, rec := range recs {
		buf.WriteString(rec.line())
		buf.WriteByte('\n')
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("accounts: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("accounts: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("accounts: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("accounts: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("accounts: replace %s: %w", s.path, err)
	}
	return nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
