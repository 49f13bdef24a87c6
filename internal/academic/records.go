package academic

import (
	"strings"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/boletim"
)

type Course struct {
	ID   string
	Name string
}

type Class struct {
	ID      string
	Term    string
	Teacher string
}

type Student struct {
	ID         string
	Name       string
	Age        string
	Enrollment string
	Email      string
	ClassID    string
}

type Activity struct {
	ID      string
	ClassID string
	Title   string
	DueDate string
}

type DiaryEntry struct {
	Date      string
	Content   string
	Attendees string
}

type Message struct {
	ClassID string
	Date    string
	Text    string
}

type LogEntry struct {
	Timestamp string
	Text      string
}

// Subjects and grades are the aggregator's own record types.
type (
	Subject = boletim.SubjectRecord
	Grade   = boletim.GradeEntry
)

// tail rejoins trailing free text that itself contained ';'.
func tail(row []string, from int) string {
	return strings.Join(row[from:], ";")
}

func courseFrom(row []string) Course {
	return Course{ID: row[0], Name: row[1]}
}

func classFrom(row []string) Class {
	return Class{ID: row[0], Term: row[1], Teacher: row[2]}
}

func studentFrom(row []string) Student {
	return Student{ID: row[0], Name: row[1], Age: row[2], Enrollment: row[3], Email: row[4], ClassID: row[5]}
}

func subjectFrom(row []string) Subject {
	return Subject{ID: row[0], Name: row[1], CourseID: row[2], Teacher: row[3], Modality: row[4]}
}

func activityFrom(row []string) Activity {
	return Activity{ID: row[0], ClassID: row[1], Title: row[2], DueDate: row[3]}
}

func gradeFrom(row []string) Grade {
	return Grade{StudentID: row[0], SubjectID: row[1], Kind: boletim.Kind(row[2]), Value: row[3]}
}

func diaryFrom(row []string) DiaryEntry {
	return DiaryEntry{Date: row[0], Content: row[1], Attendees: tail(row, 2)}
}

func messageFrom(row []string) Message {
	return Message{ClassID: row[0], Date: row[1], Text: tail(row, 2)}
}

func logFrom(row []string) LogEntry {
	return LogEntry{Timestamp: row[0], Text: tail(row, 1)}
}
