// Package boletim turns raw grade records into a per-subject report.
package boletim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrInvalidGrade = errors.New("boletim: invalid grade value")

type Kind string

const (
	KindNP1  Kind = "NP1"
	KindNP2  Kind = "NP2"
	KindPIM  Kind = "PIM"
	KindExam Kind = "EXAME"
)

// Kinds lists every grade kind in display order.
var Kinds = []Kind{KindNP1, KindNP2, KindPIM, KindExam}

func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// GradeEntry is one grade row as the server returns it. Value stays raw so
// the decimal separator is resolved in one place.
type GradeEntry struct {
	StudentID string
	SubjectID string
	Kind      Kind
	Value     string
}

type SubjectRecord struct {
	ID       string
	Name     string
	CourseID string
	Teacher  string
	Modality string
}

const (
	weightNP1 = 0.4
	weightNP2 = 0.4
	weightPIM = 0.2

	approvalAverage = 7.0
	examAverage     = 5.0

	// tolerance keeps 0.4*7+0.4*7+0.2*7 on the approved side of 7.0.
	tolerance = 1e-9
)

type Status int

const (
	InProgress Status = iota
	Approved
	ExamPending
	ApprovedByExam
	Failed
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "Cursando"
	case Approved:
		return "Aprovado"
	case ExamPending:
		return "Exame"
	case ApprovedByExam:
		return "Aprovado (Exame)"
	case Failed:
		return "Reprovado (DP)"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsTerminal reports whether no further grade can change the outcome.
func (s Status) IsTerminal() bool {
	return s == Approved || s == ApprovedByExam || s == Failed
}

type Line struct {
	SubjectID   string
	SubjectName string
	NP1         float64
	NP2         float64
	PIM         float64
	Average     float64
	Status      Status
}

// Format renders the line the way the report table shows it.
func (l Line) Format() []string {
	return []string{
		l.SubjectName,
		strconv.FormatFloat(l.NP1, 'f', 1, 64),
		strconv.FormatFloat(l.NP2, 'f', 1, 64),
		strconv.FormatFloat(l.PIM, 'f', 1, 64),
		strconv.FormatFloat(l.Average, 'f', 2, 64),
		l.Status.String(),
	}
}

// PlaceholderName names a subject missing from the subject snapshot.
func PlaceholderName(subjectID string) string {
	return "Matéria ID " + subjectID
}

// ParseGradeValue accepts digits with at most one '.' or ',' separator.
func ParseGradeValue(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	digits, seps := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',':
			seps++
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, raw)
		}
	}
	if digits == 0 || seps > 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, raw)
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, raw)
	}
	return v, nil
}

// Average is the weighted term average.
func Average(np1, np2, pim float64) float64 {
	return np1*weightNP1 + np2*weightNP2 + pim*weightPIM
}

// Evaluate derives the line values from one subject's kind→value mapping.
func Evaluate(grades map[Kind]float64) (np1, np2, pim, average float64, status Status) {
	np1, np2, pim = grades[KindNP1], grades[KindNP2], grades[KindPIM]
	average = Average(np1, np2, pim)
	if _, ok := grades[KindPIM]; !ok {
		return np1, np2, pim, average, InProgress
	}
	if average >= approvalAverage-tolerance {
		return np1, np2, pim, average, Approved
	}
	exam, ok := grades[KindExam]
	if !ok {
		return np1, np2, pim, average, ExamPending
	}
	if (average+exam)/2 >= examAverage-tolerance {
		return np1, np2, pim, average, ApprovedByExam
	}
	return np1, np2, pim, average, Failed
}

// Compute builds the report for studentID. Rows follow the order in which
// each subject first appears in grades; a later grade of the same kind wins.
// Entries whose value does not parse are skipped and logged.
func Compute(studentID string, grades []GradeEntry, subjects []SubjectRecord) []Line {
	names := make(map[string]string, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
	}

	var order []string
	bySubject := make(map[string]map[Kind]float64)
	for _, g := range grades {
		if g.StudentID != studentID {
			continue
		}
		// Subjects are ordered by first appearance, parseable or not.
		m, ok := bySubject[g.SubjectID]
		if !ok {
			m = make(map[Kind]float64, len(Kinds))
			bySubject[g.SubjectID] = m
			order = append(order, g.SubjectID)
		}
		v, err := ParseGradeValue(g.Value)
		if err != nil {
			log.Warn().Err(err).
				Str("student", g.StudentID).
				Str("subject", g.SubjectID).
				Str("kind", string(g.Kind)).
				Msg("skipping grade")
			continue
		}
		m[g.Kind] = v
	}

	lines := make([]Line, 0, len(order))
	for _, id := range order {
		np1, np2, pim, avg, status := Evaluate(bySubject[id])
		name, ok := names[id]
		if !ok {
			name = PlaceholderName(id)
		}
		lines = append(lines, Line{
			SubjectID:   id,
			SubjectName: name,
			NP1:         np1,
			NP2:         np2,
			PIM:         pim,
			Average:     avg,
			Status:      status,
		})
	}
	return lines
}

// Find returns the line for subjectID.
func Find(lines []Line, subjectID string) (Line, bool) {
	for _, l := range lines {
		if l.SubjectID == subjectID {
			return l, true
		}
	}
	return Line{}, false
}
