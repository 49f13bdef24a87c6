package academic

import (
	"context"
	"fmt"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/accounts"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/boletim"
)

// Boletim fetches grades, then subjects, and computes the student's report.
// The two snapshots are independent reads; nothing is cached between calls.
func (s *Service) Boletim(ctx context.Context, studentID string) ([]boletim.Line, error) {
	grades, err := s.Grades(ctx)
	if err != nil {
		return nil, err
	}
	subjects, err := s.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	return boletim.Compute(studentID, grades, subjects), nil
}

// RequestExam records an exam request for subjectID in the audit log. It is
// only accepted while the freshly computed status for the subject is
// awaiting exam.
func (s *Service) RequestExam(ctx context.Context, studentID, studentName, subjectID string) (boletim.Line, error) {
	lines, err := s.Boletim(ctx, studentID)
	if err != nil {
		return boletim.Line{}, err
	}
	line, ok := boletim.Find(lines, subjectID)
	if !ok {
		return boletim.Line{}, fmt.Errorf("%w: id %s", ErrSubjectNotFound, subjectID)
	}
	if line.Status != boletim.ExamPending {
		return line, fmt.Errorf("%w: %q is %s", ErrExamNotAllowed, line.SubjectName, line.Status)
	}
	actor := Actor{Role: accounts.RoleStudent, Name: studentName}
	if err := s.LogAction(ctx, actor, fmt.Sprintf("solicitou exame para '%s'", line.SubjectName)); err != nil {
		return line, err
	}
	return line, nil
}

// Actor prefixes audit entries with who performed them.
type Actor struct {
	Role accounts.Role
	Name string
}

func (a Actor) prefix() string {
	switch a.Role {
	case accounts.RoleAdmin:
		return "Admin"
	case accounts.RoleStudent:
		return fmt.Sprintf("O aluno '%s'", a.Name)
	default:
		return fmt.Sprintf("Professor '%s'", a.Name)
	}
}

// LogAction writes "<actor> <action>" to the audit log.
func (s *Service) LogAction(ctx context.Context, actor Actor, action string) error {
	_, err := s.Log(ctx, actor.prefix()+" "+action)
	if err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit log not recorded")
	}
	return err
}
