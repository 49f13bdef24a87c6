package academic

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/boletim"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/protocol"
)

const minCPFDigits = 6

func (s *Service) AddCourse(ctx context.Context, name string) (string, error) {
	if err := requireText("course name", name); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdAddCourse, strings.TrimSpace(name))
}

func (s *Service) DeleteCourse(ctx context.Context, id string) (string, error) {
	if err := requireID("course id", id); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdDeleteCourse, strings.TrimSpace(id))
}

type SubjectForm struct {
	Name     string
	CourseID string
	Teacher  string
	Modality string
}

func (s *Service) AddSubject(ctx context.Context, f SubjectForm) (string, error) {
	if err := firstErr(
		requireText("subject name", f.Name),
		requireID("course id", f.CourseID),
		requireText("teacher", f.Teacher),
		requireText("modality", f.Modality),
	); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdAddSubject,
		strings.TrimSpace(f.Name), strings.TrimSpace(f.CourseID), strings.TrimSpace(f.Teacher), strings.TrimSpace(f.Modality))
}

func (s *Service) AddClass(ctx context.Context, term, teacher string) (string, error) {
	if err := firstErr(requireText("term", term), requireText("teacher", teacher)); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdAddClass, strings.TrimSpace(term), strings.TrimSpace(teacher))
}

func (s *Service) DeleteClass(ctx context.Context, id string) (string, error) {
	if err := requireID("class id", id); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdDeleteClass, strings.TrimSpace(id))
}

// StudentForm is the enrollment input. CPF stays local: it seeds the
// student's initial password and is never sent to the server.
type StudentForm struct {
	Name    string
	Age     string
	Email   string
	CPF     string
	ClassID string
}

func (f StudentForm) Validate() error {
	if err := firstErr(
		requireText("name", f.Name),
		requireText("age", f.Age),
		requireText("email", f.Email),
		requireText("cpf", f.CPF),
		requireID("class id", f.ClassID),
	); err != nil {
		return err
	}
	if age, err := strconv.Atoi(strings.TrimSpace(f.Age)); err != nil || age <= 0 {
		return &ValidationError{Field: "age", Value: f.Age, Message: "must be a positive integer"}
	}
	cpf := strings.TrimSpace(f.CPF)
	for _, r := range cpf {
		if r < '0' || r > '9' {
			return &ValidationError{Field: "cpf", Value: f.CPF, Message: "digits only"}
		}
	}
	if len(cpf) < minCPFDigits {
		return &ValidationError{Field: "cpf", Value: f.CPF, Message: fmt.Sprintf("needs at least %d digits", minCPFDigits)}
	}
	return nil
}

// InitialPassword is the first six CPF digits.
func (f StudentForm) InitialPassword() string {
	return strings.TrimSpace(f.CPF)[:minCPFDigits]
}

func (s *Service) AddStudent(ctx context.Context, f StudentForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdAddStudent,
		strings.TrimSpace(f.Name), strings.TrimSpace(f.Age), strings.TrimSpace(f.Email), strings.TrimSpace(f.ClassID))
}

func (s *Service) DeleteStudent(ctx context.Context, id string) (string, error) {
	if err := requireID("student id", id); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdDeleteStudent, strings.TrimSpace(id))
}

func (s *Service) AddActivity(ctx context.Context, classID, title, dueDate string) (string, error) {
	if err := firstErr(
		requireID("class id", classID),
		requireText("title", title),
		requireText("due date", dueDate),
	); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdAddActivity, strings.TrimSpace(classID), strings.TrimSpace(title), strings.TrimSpace(dueDate))
}

// gradeArgs validates one grade and normalizes its value to a '.' decimal.
func gradeArgs(studentID, subjectID, kind, value string) ([]string, error) {
	if err := firstErr(requireID("student id", studentID), requireID("subject id", subjectID)); err != nil {
		return nil, err
	}
	k, ok := boletim.ParseKind(kind)
	if !ok {
		return nil, &ValidationError{Field: "kind", Value: kind, Message: "must be NP1, NP2, PIM or EXAME"}
	}
	v, err := boletim.ParseGradeValue(value)
	if err != nil {
		return nil, &ValidationError{Field: "value", Value: value, Message: "not a number"}
	}
	if v < 0 || v > 10 {
		return nil, &ValidationError{Field: "value", Value: value, Message: "must be between 0 and 10"}
	}
	return []string{
		strings.TrimSpace(studentID),
		strings.TrimSpace(subjectID),
		string(k),
		strconv.FormatFloat(v, 'f', -1, 64),
	}, nil
}

func (s *Service) RecordGrade(ctx context.Context, studentID, subjectID, kind, value string) (string, error) {
	args, err := gradeArgs(studentID, subjectID, kind, value)
	if err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdRecordGrade, args...)
}

type GradeResult struct {
	Kind    boletim.Kind
	Message string
	Err     error
}

// RecordGrades sends one CADASTRAR_NOTA per non-empty value, in kind order.
// Every value is validated before the first command goes out; server or
// transport failures are collected per kind and joined.
func (s *Service) RecordGrades(ctx context.Context, studentID, subjectID string, values map[boletim.Kind]string) ([]GradeResult, error) {
	var pending [][]string
	var kinds []boletim.Kind
	for _, k := range boletim.Kinds {
		v, ok := values[k]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		args, err := gradeArgs(studentID, subjectID, string(k), v)
		if err != nil {
			return nil, err
		}
		pending = append(pending, args)
		kinds = append(kinds, k)
	}
	if len(pending) == 0 {
		return nil, &ValidationError{Field: "grades", Message: "at least one grade is required"}
	}

	results := make([]GradeResult, 0, len(pending))
	var errs []error
	for i, args := range pending {
		msg, err := s.mutate(ctx, protocol.CmdRecordGrade, args...)
		results = append(results, GradeResult{Kind: kinds[i], Message: msg, Err: err})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kinds[i], err))
		}
	}
	return results, errors.Join(errs...)
}

func (s *Service) PostMessage(ctx context.Context, classID, date, text string) (string, error) {
	if err := firstErr(requireID("class id", classID), requireText("date", date), requireText("message", text)); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdPostMessage, strings.TrimSpace(classID), strings.TrimSpace(date), strings.TrimSpace(text))
}

func (s *Service) RecordLesson(ctx context.Context, classID, date, content, attendees string) (string, error) {
	if err := firstErr(
		requireID("class id", classID),
		requireText("date", date),
		requireText("content", content),
		requireText("attendees", attendees),
	); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdRecordLesson,
		strings.TrimSpace(classID), strings.TrimSpace(date), strings.TrimSpace(content), strings.TrimSpace(attendees))
}

func (s *Service) Backup(ctx context.Context) (string, error) {
	return s.mutate(ctx, protocol.CmdBackup)
}

func (s *Service) ClearGrades(ctx context.Context) (string, error) {
	return s.mutate(ctx, protocol.CmdClearGrades)
}

func (s *Service) ClearMessages(ctx context.Context) (string, error) {
	return s.mutate(ctx, protocol.CmdClearMessages)
}

func (s *Service) ClearLogs(ctx context.Context) (string, error) {
	return s.mutate(ctx, protocol.CmdClearLogs)
}

// Log appends text to the server's audit log.
func (s *Service) Log(ctx context.Context, text string) (string, error) {
	if err := requireText("log text", text); err != nil {
		return "", err
	}
	return s.mutate(ctx, protocol.CmdLog, text)
}

// noRisk is the analysis payload when no student is below the bar.
const noRisk = "NENHUM"

// AnalyzePerformance returns the ids of students with a grade below 5,
// first occurrence order, without duplicates.
func (s *Service) AnalyzePerformance(ctx context.Context) ([]string, error) {
	resp, err := s.call(ctx, protocol.CmdAnalyze)
	if err != nil {
		return nil, err
	}
	switch r := resp.(type) {
	case protocol.ComputedReply:
		payload := strings.TrimSpace(r.Message)
		if payload == "" || payload == noRisk {
			return nil, nil
		}
		seen := make(map[string]bool)
		var ids []string
		for _, id := range strings.Split(payload, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		return ids, nil
	case protocol.ErrorReply:
		return nil, &ServerError{Command: protocol.CmdAnalyze, Message: r.Message}
	default:
		return nil, unexpected(protocol.CmdAnalyze, protocol.TagOf(resp))
	}
}
