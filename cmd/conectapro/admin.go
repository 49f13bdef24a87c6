package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/academic"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/auth"
)

func (a *App) runAdmin(sess auth.Session) error {
	return a.runMenu("Painel do Administrador", []menuItem{
		{"Dashboard", a.showDashboard},
		{"Gestão acadêmica", func() error { return a.runAcademicAdmin(sess) }},
		{"Usuários", func() error { return a.runUsers(sess) }},
		{"Autorizações pendentes", func() error { return a.runAuthorizations(sess) }},
		{"Visualizar dados", a.runViewData},
		{"Sistema", func() error { return a.runSystem(sess) }},
	})
}

func (a *App) showDashboard() error {
	counts, err := a.store.Counts()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total de usuários: %d\n", counts.Total)
	fmt.Fprintf(a.out, "Professores: %d\n", counts.Teachers)
	fmt.Fprintf(a.out, "Alunos (usuários): %d\n", counts.Students)

	ov, err := a.records.Dashboard(a.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total de turmas: %d\n", ov.Classes)
	fmt.Fprintf(a.out, "Alunos matriculados: %d\n", ov.Students)
	if len(ov.StudentsPerClass) == 0 {
		fmt.Fprintln(a.out, "Sem dados de alunos para a distribuição por turma.")
		return nil
	}
	fmt.Fprintln(a.out, "Distribuição de alunos por turma:")
	for _, c := range ov.StudentsPerClass {
		fmt.Fprintf(a.out, "  turma %-6s %s %d\n", c.ClassID, strings.Repeat("#", c.Students), c.Students)
	}
	return nil
}

// audit records an action in the server log; failures only get logged.
func (a *App) audit(sess auth.Session, action string) {
	_ = a.records.LogAction(a.ctx, sess.Actor(), action)
}

func (a *App) runAcademicAdmin(sess auth.Session) error {
	return a.runMenu("Gestão Acadêmica", []menuItem{
		{"Listar cursos", a.listCourses},
		{"Adicionar curso", func() error {
			name, err := a.promptRequired("Nome do curso")
			if err != nil {
				return err
			}
			msg, err := a.records.AddCourse(a.ctx, name)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("adicionou o curso '%s'", name))
			return nil
		}},
		{"Excluir curso", func() error {
			id, err := a.promptRequired("ID do curso")
			if err != nil {
				return err
			}
			msg, err := a.records.DeleteCourse(a.ctx, id)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("excluiu o curso ID %s", id))
			return nil
		}},
		{"Listar matérias", a.listSubjects},
		{"Adicionar matéria", func() error {
			var f academic.SubjectForm
			var err error
			if f.Name, err = a.promptRequired("Nome da matéria"); err != nil {
				return err
			}
			if f.CourseID, err = a.promptRequired("ID do curso"); err != nil {
				return err
			}
			if f.Teacher, err = a.promptRequired("Professor"); err != nil {
				return err
			}
			if f.Modality, err = a.promptRequired("Modalidade (Presencial/EAD)"); err != nil {
				return err
			}
			msg, err := a.records.AddSubject(a.ctx, f)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("adicionou a matéria '%s'", f.Name))
			return nil
		}},
		{"Listar turmas", a.listClasses},
		{"Adicionar turma", func() error {
			term, err := a.promptRequired("Data da turma (ex: 2025-2)")
			if err != nil {
				return err
			}
			teacher, err := a.promptRequired("Professor responsável")
			if err != nil {
				return err
			}
			msg, err := a.records.AddClass(a.ctx, term, teacher)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("adicionou a turma de '%s'", term))
			return nil
		}},
		{"Excluir turma", func() error {
			id, err := a.promptRequired("ID da turma")
			if err != nil {
				return err
			}
			msg, err := a.records.DeleteClass(a.ctx, id)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("excluiu a turma ID: %s", id))
			return nil
		}},
	})
}

func (a *App) runUsers(sess auth.Session) error {
	return a.runMenu("Gestão de Usuários", []menuItem{
		{"Listar usuários", func() error {
			all, err := a.store.List()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(all))
			for _, u := range all {
				rows = append(rows, []string{u.Username, u.Role.Label(), string(u.Status)})
			}
			a.table("Nenhum usuário cadastrado.", []string{"Usuário", "Perfil", "Status"}, rows)
			return nil
		}},
		{"Registrar professor", func() error {
			user, err := a.promptRequired("Usuário")
			if err != nil {
				return err
			}
			pass, err := a.promptRequired("Senha")
			if err != nil {
				return err
			}
			if err := a.auth.RegisterTeacher(a.ctx, sess, user, pass); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Usuário registrado com sucesso.")
			return nil
		}},
		{"Excluir usuário", func() error {
			user, err := a.promptRequired("Usuário")
			if err != nil {
				return err
			}
			ok, err := a.confirm(fmt.Sprintf("Excluir o usuário '%s'?", user))
			if err != nil || !ok {
				return err
			}
			if err := a.auth.DeleteUser(a.ctx, sess, user); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Usuário excluído.")
			return nil
		}},
	})
}

func (a *App) runAuthorizations(sess auth.Session) error {
	return a.runMenu("Autorizações", []menuItem{
		{"Listar solicitações pendentes", func() error {
			pending, err := a.store.Pending()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(pending))
			for _, u := range pending {
				rows = append(rows, []string{u.Username, u.Role.Label()})
			}
			a.table("Nenhuma solicitação pendente.", []string{"Usuário", "Perfil"}, rows)
			return nil
		}},
		{"Autorizar", func() error {
			user, err := a.pickPending()
			if err != nil {
				return err
			}
			if err := a.auth.Authorize(a.ctx, sess, user); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Acesso de '%s' autorizado.\n", user)
			return nil
		}},
		{"Recusar", func() error {
			user, err := a.pickPending()
			if err != nil {
				return err
			}
			if err := a.auth.Reject(a.ctx, sess, user); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Solicitação de '%s' recusada.\n", user)
			return nil
		}},
	})
}

// pickPending lists the queue and asks for one entry by number.
func (a *App) pickPending() (string, error) {
	pending, err := a.store.Pending()
	if err != nil {
		return "", err
	}
	if len(pending) == 0 {
		fmt.Fprintln(a.out, "Nenhuma solicitação pendente.")
		return "", ErrNavigateBack
	}
	for i, u := range pending {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, u.Username)
	}
	choice, err := a.promptInt("Selecione", 1, len(pending), true, false)
	if err != nil {
		return "", err
	}
	return pending[choice-1].Username, nil
}

func (a *App) runViewData() error {
	return a.runMenu("Visualizar Dados", []menuItem{
		{"Alunos", a.listStudents},
		{"Atividades", a.listActivities},
		{"Notas", a.listGrades},
		{"Mural de avisos", a.listMessages},
		{"Diário de turma", func() error {
			id, err := a.promptRequired("ID da turma")
			if err != nil {
				return err
			}
			return a.showDiary(id)
		}},
	})
}

func (a *App) runSystem(sess auth.Session) error {
	wipe := func(label, what string, run func() (string, error)) menuItem {
		return menuItem{label, func() error {
			ok, err := a.confirm(fmt.Sprintf("TEM CERTEZA que deseja apagar TODOS os dados de %s? Esta ação é irreversível.", what))
			if err != nil || !ok {
				return err
			}
			msg, err := run()
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, fmt.Sprintf("limpou o arquivo de %s.", what))
			return nil
		}}
	}
	return a.runMenu("Sistema", []menuItem{
		{"Realizar backup", func() error {
			ok, err := a.confirm("Deseja solicitar um backup de todos os dados do servidor?")
			if err != nil || !ok {
				return err
			}
			msg, err := a.records.Backup(a.ctx)
			if err != nil {
				return err
			}
			a.done(msg)
			a.audit(sess, "realizou um backup do sistema.")
			return nil
		}},
		wipe("Limpar notas", "NOTAS", func() (string, error) { return a.records.ClearGrades(a.ctx) }),
		wipe("Limpar mural de avisos", "MENSAGENS", func() (string, error) { return a.records.ClearMessages(a.ctx) }),
		wipe("Limpar log de atividades", "LOGS", func() (string, error) { return a.records.ClearLogs(a.ctx) }),
		{"Log de atividades", a.listLogs},
		{"Análise de desempenho", a.analyze},
	})
}

func (a *App) listLogs() error {
	entries, err := a.records.Logs(a.ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range slices.Backward(entries) {
		rows = append(rows, []string{e.Timestamp, e.Text})
	}
	a.table("Nenhum log encontrado.", []string{"Data e hora", "Ação registrada"}, rows)
	return nil
}

func (a *App) analyze() error {
	ids, err := a.records.AnalyzePerformance(a.ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "Nenhum aluno em risco.")
		return nil
	}
	fmt.Fprintf(a.out, "Alunos em risco (nota abaixo de 5): %s\n", strings.Join(ids, ", "))
	return nil
}

func (a *App) listCourses() error {
	courses, err := a.records.Courses(a.ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{c.ID, c.Name})
	}
	a.table("Nenhum curso cadastrado.", []string{"ID", "Nome"}, rows)
	return nil
}

func (a *App) listSubjects() error {
	subjects, err := a.records.Subjects(a.ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, []string{s.ID, s.Name, s.CourseID, s.Teacher, s.Modality})
	}
	a.table("Nenhuma matéria cadastrada.", []string{"ID", "Nome", "Curso", "Professor", "Modalidade"}, rows)
	return nil
}

func (a *App) listClasses() error {
	classes, err := a.records.Classes(a.ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, []string{c.ID, c.Term, c.Teacher})
	}
	a.table("Nenhuma turma cadastrada.", []string{"ID", "Data da turma", "Professor responsável"}, rows)
	return nil
}

func (a *App) listStudents() error {
	students, err := a.records.Students(a.ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{s.ID, s.Name, s.Age, s.Enrollment, s.Email, s.ClassID})
	}
	a.table("Nenhum aluno cadastrado.", []string{"ID", "Nome", "Idade", "Matrícula", "Email", "Turma"}, rows)
	return nil
}

func (a *App) listActivities() error {
	activities, err := a.records.Activities(a.ctx)
	if err != nil {
		return err
	}
	a.activityTable(activities)
	return nil
}

func (a *App) activityTable(activities []academic.Activity) {
	rows := make([][]string, 0, len(activities))
	for _, act := range activities {
		rows = append(rows, []string{act.ID, act.ClassID, act.Title, act.DueDate})
	}
	a.table("Nenhuma atividade cadastrada.", []string{"ID", "Turma", "Título", "Entrega"}, rows)
}

func (a *App) listGrades() error {
	grades, err := a.records.Grades(a.ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, []string{g.StudentID, g.SubjectID, string(g.Kind), g.Value})
	}
	a.table("Nenhuma nota cadastrada.", []string{"Aluno", "Matéria", "Tipo", "Valor"}, rows)
	return nil
}

func (a *App) listMessages() error {
	msgs, err := a.records.Messages(a.ctx)
	if err != nil {
		return err
	}
	a.messageTable(msgs, true)
	return nil
}

func (a *App) messageTable(msgs []academic.Message, withClass bool) {
	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		if withClass {
			rows = append(rows, []string{m.ClassID, m.Date, m.Text})
		} else {
			rows = append(rows, []string{m.Date, m.Text})
		}
	}
	headers := []string{"Data", "Mensagem"}
	if withClass {
		headers = append([]string{"Turma"}, headers...)
	}
	a.table("Nenhuma mensagem no mural.", headers, rows)
}
