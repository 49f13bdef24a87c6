package academic

import (
	"context"
	"strings"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/protocol"
)

func (s *Service) Courses(ctx context.Context) ([]Course, error) {
	rows, err := s.rows(ctx, 2, protocol.CmdListCourses)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, courseFrom), nil
}

func (s *Service) Subjects(ctx context.Context) ([]Subject, error) {
	rows, err := s.rows(ctx, 5, protocol.CmdListSubjects)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, subjectFrom), nil
}

func (s *Service) Classes(ctx context.Context) ([]Class, error) {
	rows, err := s.rows(ctx, 3, protocol.CmdListClasses)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, classFrom), nil
}

func (s *Service) Students(ctx context.Context) ([]Student, error) {
	rows, err := s.rows(ctx, 6, protocol.CmdListStudents)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, studentFrom), nil
}

func (s *Service) Activities(ctx context.Context) ([]Activity, error) {
	rows, err := s.rows(ctx, 4, protocol.CmdListActivities)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, activityFrom), nil
}

func (s *Service) Grades(ctx context.Context) ([]Grade, error) {
	rows, err := s.rows(ctx, 4, protocol.CmdListGrades)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, gradeFrom), nil
}

func (s *Service) Messages(ctx context.Context) ([]Message, error) {
	rows, err := s.rows(ctx, 3, protocol.CmdListMessages)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, messageFrom), nil
}

// Logs returns the audit log in server order, oldest first.
func (s *Service) Logs(ctx context.Context) ([]LogEntry, error) {
	rows, err := s.rows(ctx, 2, protocol.CmdListLogs)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, logFrom), nil
}

func (s *Service) Diary(ctx context.Context, classID string) ([]DiaryEntry, error) {
	if err := requireID("class id", classID); err != nil {
		return nil, err
	}
	rows, err := s.rows(ctx, 3, protocol.CmdListDiary, strings.TrimSpace(classID))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, diaryFrom), nil
}

// ClassMessages filters the message board to one class.
func (s *Service) ClassMessages(ctx context.Context, classID string) ([]Message, error) {
	all, err := s.Messages(ctx)
	if err != nil {
		return nil, err
	}
	var out []Message
	for _, m := range all {
		if m.ClassID == classID {
			out = append(out, m)
		}
	}
	return out, nil
}

// StudentByName finds a student by case-insensitive name. Login accounts
// for students are named after the student record.
func (s *Service) StudentByName(ctx context.Context, name string) (Student, bool, error) {
	students, err := s.Students(ctx)
	if err != nil {
		return Student{}, false, err
	}
	for _, st := range students {
		if strings.EqualFold(st.Name, name) {
			return st, true, nil
		}
	}
	return Student{}, false, nil
}

type ClassCount struct {
	ClassID  string
	Students int
}

type Overview struct {
	Classes          int
	Students         int
	StudentsPerClass []ClassCount
}

// Dashboard summarizes classes and enrollment.
func (s *Service) Dashboard(ctx context.Context) (Overview, error) {
	classes, err := s.Classes(ctx)
	if err != nil {
		return Overview{}, err
	}
	students, err := s.Students(ctx)
	if err != nil {
		return Overview{}, err
	}
	ov := Overview{Classes: len(classes), Students: len(students)}
	index := make(map[string]int)
	for _, st := range students {
		i, ok := index[st.ClassID]
		if !ok {
			i = len(ov.StudentsPerClass)
			index[st.ClassID] = i
			ov.StudentsPerClass = append(ov.StudentsPerClass, ClassCount{ClassID: st.ClassID})
		}
		ov.StudentsPerClass[i].Students++
	}
	return ov, nil
}
