package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/academic"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/accounts"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/auth"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/observability"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/protocol"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/transport"
	"github.com/rs/zerolog"
)

var (
	// ErrNavigateBack signals caller-intent to return to the previous menu.
	ErrNavigateBack = errors.New("navigate back")
	// ErrNavigateExit signals caller-intent to exit the interactive client.
	ErrNavigateExit = errors.New("navigate exit")
)

type Deps struct {
	Records    *academic.Service
	Auth       *auth.Authenticator
	Store      *accounts.Store
	ServerAddr string
}

// App is the interactive terminal client. All login state lives in the
// auth.Session handed to each role menu.
type App struct {
	ctx         context.Context
	in          *bufio.Reader
	out         io.Writer
	records     *academic.Service
	auth        *auth.Authenticator
	store       *accounts.Store
	serverAddr  string
	clearScreen bool
	log         zerolog.Logger
}

func NewApp(ctx context.Context, in *bufio.Reader, out io.Writer, deps Deps) *App {
	return &App{
		ctx:        ctx,
		in:         in,
		out:        out,
		records:    deps.Records,
		auth:       deps.Auth,
		store:      deps.Store,
		serverAddr: deps.ServerAddr,
		log:        observability.Component("client"),
	}
}

// Run executes the login loop until the user exits or input ends.
func (a *App) Run() error {
	err := a.runLogin()
	if errors.Is(err, ErrNavigateExit) || errors.Is(err, io.EOF) {
		fmt.Fprintln(a.out, "Até logo.")
		return nil
	}
	return err
}

type menuItem struct {
	label string
	run   func() error
}

// runMenu shows items plus a trailing back entry. It returns nil when the
// user goes back and ErrNavigateExit or input errors unchanged.
func (a *App) runMenu(title string, items []menuItem) error {
	back := len(items) + 1
	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, title)
		for i, item := range items {
			fmt.Fprintf(a.out, "  %d) %s\n", i+1, item.label)
		}
		fmt.Fprintf(a.out, "  %d) Voltar\n", back)

		choice, err := a.promptInt("Escolha", 1, back, true, true)
		if err != nil {
			if errors.Is(err, ErrNavigateBack) {
				return nil
			}
			return err
		}
		a.clearIfEnabled()
		if choice == back {
			return nil
		}
		if err := items[choice-1].run(); err != nil {
			switch {
			case errors.Is(err, ErrNavigateBack):
				continue
			case errors.Is(err, ErrNavigateExit), errors.Is(err, io.EOF):
				return err
			default:
				a.report(err)
			}
		}
	}
}

// report prints a user-facing message for err.
func (a *App) report(err error) {
	var (
		serverErr  *academic.ServerError
		inputErr   *academic.ValidationError
		accountErr *accounts.ValidationError
		unknown    *protocol.UnknownReplyError
	)
	a.log.Warn().Err(err).Msg("action failed")
	switch {
	case transport.IsRefused(err):
		fmt.Fprintf(a.out, "Erro de conexão: não foi possível conectar ao servidor em %s. Verifique se o servidor está em execução.\n", a.serverAddr)
	case errors.As(err, &serverErr):
		fmt.Fprintf(a.out, "Erro do servidor: %s\n", serverErr.Message)
	case errors.As(err, &inputErr):
		fmt.Fprintf(a.out, "Dados inválidos (%s): %s\n", inputErr.Field, inputErr.Message)
	case errors.As(err, &accountErr):
		fmt.Fprintf(a.out, "Dados inválidos (%s): %s\n", accountErr.Field, accountErr.Message)
	case errors.Is(err, accounts.ErrAlreadyExists):
		fmt.Fprintln(a.out, "Usuário já existe.")
	case errors.Is(err, accounts.ErrProtectedAccount):
		fmt.Fprintln(a.out, "Não é possível excluir o administrador padrão.")
	case errors.Is(err, protocol.ErrEmptyReply):
		fmt.Fprintln(a.out, "Erro de comunicação: o servidor retornou uma resposta vazia.")
	case errors.Is(err, protocol.ErrReplyTooLarge):
		fmt.Fprintln(a.out, "Erro de comunicação: resposta do servidor excede o limite configurado.")
	case errors.As(err, &unknown):
		fmt.Fprintf(a.out, "Aviso: resposta desconhecida do servidor: %s\n", unknown.Raw)
	case errors.Is(err, transport.ErrWorkerBusy):
		fmt.Fprintln(a.out, "Aguarde: ainda há uma requisição em andamento.")
	default:
		fmt.Fprintf(a.out, "Erro: %v\n", err)
	}
}

func (a *App) clearIfEnabled() {
	if !a.clearScreen {
		return
	}
	fmt.Fprint(a.out, "\033[H\033[2J")
}

func (a *App) promptLine(label string) (string, error) {
	if strings.TrimSpace(label) != "" {
		fmt.Fprintf(a.out, "%s: ", label)
	}
	line, err := a.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptRequired re-asks until a non-blank answer or "b" to go back.
func (a *App) promptRequired(label string) (string, error) {
	for {
		line, err := a.promptLine(label)
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimSpace(line)
		if strings.EqualFold(trimmed, "b") {
			return "", ErrNavigateBack
		}
		if trimmed != "" {
			return trimmed, nil
		}
		fmt.Fprintln(a.out, "Campo obrigatório.")
	}
}

func (a *App) promptInt(label string, min int, max int, allowBack bool, allowExit bool) (int, error) {
	for {
		rangePrompt := fmt.Sprintf("%s [%d-%d", label, min, max)
		if allowBack {
			rangePrompt += "|back|b"
		}
		if allowExit {
			rangePrompt += "|exit|e"
		}
		rangePrompt += "]"
		line, err := a.promptLine(rangePrompt)
		if err != nil {
			return 0, err
		}
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if allowBack && (trimmed == "back" || trimmed == "b") {
			return 0, ErrNavigateBack
		}
		if allowExit && (trimmed == "exit" || trimmed == "e") {
			return 0, ErrNavigateExit
		}
		v, err := strconv.Atoi(trimmed)
		if err != nil || v < min || v > max {
			fmt.Fprintln(a.out, "Opção inválida.")
			continue
		}
		return v, nil
	}
}

// confirm asks a yes/no question; anything but s/sim is no.
func (a *App) confirm(question string) (bool, error) {
	line, err := a.promptLine(question + " [s/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// table prints rows under headers, or empty when there are none.
func (a *App) table(empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// done prints a server success message.
func (a *App) done(msg string) {
	fmt.Fprintf(a.out, "Sucesso: %s\n", msg)
}
