package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/accounts"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/auth"
)

func (a *App) runLogin() error {
	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "ConectaPro")
		fmt.Fprintf(a.out, "  servidor: %s\n", a.serverAddr)
		fmt.Fprintln(a.out, "  1) Entrar")
		fmt.Fprintln(a.out, "  2) Solicitar acesso (aluno)")
		fmt.Fprintln(a.out, "  3) Sair")

		choice, err := a.promptInt("Escolha", 1, 3, false, true)
		if err != nil {
			return err
		}
		a.clearIfEnabled()
		switch choice {
		case 1:
			sess, err := a.login()
			if err != nil {
				if errors.Is(err, ErrNavigateBack) {
					continue
				}
				if isInputErr(err) {
					return err
				}
				a.reportLogin(err)
				continue
			}
			if err := a.runSession(sess); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Sessão encerrada.")
		case 2:
			if err := a.requestAccess(); err != nil {
				if errors.Is(err, ErrNavigateBack) {
					continue
				}
				if isInputErr(err) {
					return err
				}
				a.report(err)
			}
		case 3:
			return ErrNavigateExit
		}
	}
}

func (a *App) login() (auth.Session, error) {
	user, err := a.promptRequired("Usuário")
	if err != nil {
		return auth.Session{}, err
	}
	pass, err := a.promptRequired("Senha")
	if err != nil {
		return auth.Session{}, err
	}
	return a.auth.Login(a.ctx, user, pass)
}

func (a *App) reportLogin(err error) {
	switch {
	case errors.Is(err, auth.ErrPendingAuthorization):
		fmt.Fprintln(a.out, "Acesso pendente: sua conta está aguardando autorização de um administrador.")
	case errors.Is(err, auth.ErrUnauthorized):
		fmt.Fprintln(a.out, "Erro de login: usuário ou senha inválidos.")
	case errors.Is(err, auth.ErrStudentNotFound):
		fmt.Fprintln(a.out, "Erro: dados do aluno não encontrados no servidor.")
	default:
		a.report(err)
	}
}

func (a *App) requestAccess() error {
	user, err := a.promptRequired("Nome completo (usuário)")
	if err != nil {
		return err
	}
	pass, err := a.promptRequired("Senha")
	if err != nil {
		return err
	}
	if err := a.auth.RequestAccess(user, pass); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Solicitação registrada. Aguarde a autorização de um administrador.")
	return nil
}

// runSession dispatches to the role menu. Going back from it logs out.
func (a *App) runSession(sess auth.Session) error {
	switch sess.Role {
	case accounts.RoleAdmin:
		return a.runAdmin(sess)
	case accounts.RoleTeacher:
		return a.runTeacher(sess)
	case accounts.RoleStudent:
		return a.runStudent(sess)
	default:
		return auth.ErrUnauthorized
	}
}

func isInputErr(err error) bool {
	return errors.Is(err, ErrNavigateExit) || errors.Is(err, io.EOF)
}
