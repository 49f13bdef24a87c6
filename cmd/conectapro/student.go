package main

import (
	"errors"
	"fmt"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/academic"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/auth"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/boletim"
)

func (a *App) runStudent(sess auth.Session) error {
	return a.runMenu(fmt.Sprintf("Portal do Aluno (%s)", sess.StudentName), []menuItem{
		{"Boletim", func() error {
			_, err := a.showBoletim(sess)
			return err
		}},
		{"Solicitar exame", func() error { return a.requestExam(sess) }},
		{"Mural da turma", func() error {
			msgs, err := a.records.ClassMessages(a.ctx, sess.ClassID)
			if err != nil {
				return err
			}
			a.messageTable(msgs, false)
			return nil
		}},
		{"Atividades da turma", func() error {
			all, err := a.records.Activities(a.ctx)
			if err != nil {
				return err
			}
			var mine []academic.Activity
			for _, act := range all {
				if act.ClassID == sess.ClassID {
					mine = append(mine, act)
				}
			}
			a.activityTable(mine)
			return nil
		}},
	})
}

func (a *App) showBoletim(sess auth.Session) ([]boletim.Line, error) {
	lines, err := a.records.Boletim(a.ctx, sess.StudentID)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, l.Format())
	}
	a.table("Nenhuma nota lançada.", []string{"Matéria", "NP1", "NP2", "PIM", "Média", "Situação"}, rows)
	return lines, nil
}

// requestExam offers only subjects currently awaiting exam; the status is
// recomputed by the records service when the request is sent.
func (a *App) requestExam(sess auth.Session) error {
	lines, err := a.showBoletim(sess)
	if err != nil {
		return err
	}
	var eligible []boletim.Line
	for _, l := range lines {
		if l.Status == boletim.ExamPending {
			eligible = append(eligible, l)
		}
	}
	if len(eligible) == 0 {
		fmt.Fprintln(a.out, "Nenhuma matéria em situação de exame.")
		return nil
	}
	for i, l := range eligible {
		fmt.Fprintf(a.out, "  %d) %s (média %.2f)\n", i+1, l.SubjectName, l.Average)
	}
	choice, err := a.promptInt("Matéria", 1, len(eligible), true, false)
	if err != nil {
		return err
	}
	line, err := a.records.RequestExam(a.ctx, sess.StudentID, sess.StudentName, eligible[choice-1].SubjectID)
	switch {
	case errors.Is(err, academic.ErrExamNotAllowed):
		fmt.Fprintf(a.out, "Exame não disponível: situação atual %s.\n", line.Status)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(a.out, "Solicitação de exame para '%s' enviada.\n", line.SubjectName)
	return nil
}
