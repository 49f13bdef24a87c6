package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/academic"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/auth"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/boletim"
)

func (a *App) runTeacher(sess auth.Session) error {
	return a.runMenu(fmt.Sprintf("Painel do Professor (%s)", sess.DisplayName()), []menuItem{
		{"Alunos", func() error { return a.runTeacherStudents(sess) }},
		{"Atividades", func() error { return a.runTeacherActivities(sess) }},
		{"Lançar notas", a.recordGrades},
		{"Mural de avisos", func() error { return a.runTeacherMessages(sess) }},
		{"Diário de turma", a.runDiary},
	})
}

func (a *App) runTeacherStudents(sess auth.Session) error {
	return a.runMenu("Alunos", []menuItem{
		{"Listar alunos", a.listStudents},
		{"Cadastrar aluno", func() error {
			var f academic.StudentForm
			var err error
			if f.Name, err = a.promptRequired("Nome completo"); err != nil {
				return err
			}
			if f.Age, err = a.promptRequired("Idade"); err != nil {
				return err
			}
			if f.Email, err = a.promptRequired("Email"); err != nil {
				return err
			}
			if f.CPF, err = a.promptRequired("CPF (apenas números)"); err != nil {
				return err
			}
			if f.ClassID, err = a.promptRequired("ID da turma"); err != nil {
				return err
			}
			msg, err := a.auth.EnrollStudent(a.ctx, sess, f)
			if err != nil {
				if errors.Is(err, auth.ErrAccountNotCreated) {
					a.done(msg)
					fmt.Fprintln(a.out, "Aviso: o aluno foi salvo no servidor, mas o login não pôde ser criado.")
				}
				return err
			}
			a.done(msg)
			fmt.Fprintf(a.out, "Login criado com status pendente. Senha inicial: %s\n", f.InitialPassword())
			return nil
		}},
		{"Excluir aluno", func() error {
			id, err := a.promptRequired("ID do aluno")
			if err != nil {
				return err
			}
			ok, err := a.confirm(fmt.Sprintf("Excluir o aluno ID %s?", id))
			if err != nil || !ok {
				return err
			}
			msg, err := a.records.DeleteStudent(a.ctx, id)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("excluiu o aluno ID %s", id))
			return nil
		}},
	})
}

func (a *App) runTeacherActivities(sess auth.Session) error {
	return a.runMenu("Atividades", []menuItem{
		{"Listar atividades", a.listActivities},
		{"Adicionar atividade", func() error {
			classID, err := a.promptRequired("ID da turma")
			if err != nil {
				return err
			}
			title, err := a.promptRequired("Título")
			if err != nil {
				return err
			}
			due, err := a.promptRequired("Data de entrega")
			if err != nil {
				return err
			}
			msg, err := a.records.AddActivity(a.ctx, classID, title, due)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("adicionou a atividade '%s'", title))
			return nil
		}},
	})
}

// recordGrades asks for every kind; blank answers are skipped.
func (a *App) recordGrades() error {
	studentID, err := a.promptRequired("ID do aluno")
	if err != nil {
		return err
	}
	subjectID, err := a.promptRequired("ID da matéria")
	if err != nil {
		return err
	}
	values := make(map[boletim.Kind]string, len(boletim.Kinds))
	for _, k := range boletim.Kinds {
		v, err := a.promptLine(fmt.Sprintf("%s (vazio para pular)", k))
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) != "" {
			values[k] = v
		}
	}
	results, err := a.records.RecordGrades(a.ctx, studentID, subjectID, values)
	for _, r := range results {
		if r.Err == nil {
			fmt.Fprintf(a.out, "%s: %s\n", r.Kind, r.Message)
		}
	}
	return err
}

func (a *App) runTeacherMessages(sess auth.Session) error {
	return a.runMenu("Mural de Avisos", []menuItem{
		{"Ver mural", a.listMessages},
		{"Postar mensagem", func() error {
			classID, err := a.promptRequired("ID da turma")
			if err != nil {
				return err
			}
			date, err := a.promptRequired("Data")
			if err != nil {
				return err
			}
			text, err := a.promptRequired("Mensagem")
			if err != nil {
				return err
			}
			msg, err := a.records.PostMessage(a.ctx, classID, date, text)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("postou uma mensagem para a turma %s", classID))
			return nil
		}},
	})
}

func (a *App) runDiary() error {
	return a.runMenu("Diário de Turma", []menuItem{
		{"Registrar aula", func() error {
			classID, err := a.promptRequired("ID da turma")
			if err != nil {
				return err
			}
			date, err := a.promptRequired("Data da aula")
			if err != nil {
				return err
			}
			content, err := a.promptRequired("Conteúdo")
			if err != nil {
				return err
			}
			attendees, err := a.promptRequired("Presentes")
			if err != nil {
				return err
			}
			msg, err := a.records.RecordLesson(a.ctx, classID, date, content, attendees)
			if err != nil {
				return err
			}
			a.done(msg)
			return nil
		}},
		{"Consultar diário", func() error {
			classID, err := a.promptRequired("ID da turma")
			if err != nil {
				return err
			}
			return a.showDiary(classID)
		}},
	})
}

func (a *App) showDiary(classID string) error {
	entries, err := a.records.Diary(a.ctx, classID)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Date, e.Content, e.Attendees})
	}
	a.table("Nenhum diário encontrado para a turma.", []string{"Data", "Conteúdo", "Presentes"}, rows)
	return nil
}
