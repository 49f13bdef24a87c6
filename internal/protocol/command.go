package protocol

import (
	"fmt"
	"strings"
)

// Command names understood by the records server.
const (
	CmdListStudents   = "LISTAR_ALUNOS"
	CmdListClasses    = "LISTAR_TURMAS"
	CmdListCourses    = "LISTAR_CURSOS"
	CmdListSubjects   = "LISTAR_MATERIAS"
	CmdListActivities = "LISTAR_ATIVIDADES"
	CmdListGrades     = "LISTAR_NOTAS_TODOS"
	CmdListMessages   = "LISTAR_MENSAGENS"
	CmdListLogs       = "LISTAR_LOGS"
	CmdListDiary      = "LISTAR_DIARIO"

	CmdAddCourse     = "CADASTRAR_CURSO"
	CmdDeleteCourse  = "EXCLUIR_CURSO"
	CmdAddSubject    = "CADASTRAR_MATERIA"
	CmdAddClass      = "CADASTRAR_TURMA"
	CmdDeleteClass   = "EXCLUIR_TURMA"
	CmdAddStudent    = "CADASTRAR_ALUNO"
	CmdDeleteStudent = "EXCLUIR_ALUNO"
	CmdAddActivity   = "CADASTRAR_ATIVIDADE"
	CmdRecordGrade   = "CADASTRAR_NOTA"
	CmdPostMessage   = "POSTAR_MENSAGEM"
	CmdRecordLesson  = "REGISTRAR_AULA"

	CmdBackup        = "BACKUP"
	CmdClearGrades   = "LIMPAR_NOTAS"
	CmdClearMessages = "LIMPAR_MENSAGENS"
	CmdClearLogs     = "LIMPAR_LOGS"
	CmdLog           = "LOG"
	CmdAnalyze       = "ANALISAR_IA"
)

// Command is one immutable request line: NAME[;ARG1;ARG2;...].
type Command struct {
	name string
	args []string
}

// NewCommand validates name and args and builds a Command. Arguments may not
// carry the field or row separators, nor line breaks, since the server has no
// escaping.
func NewCommand(name string, args ...string) (Command, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Command{}, ErrEmptyCommand
	}
	if strings.ContainsAny(name, ";|\r\n") {
		return Command{}, fmt.Errorf("%w: command name %q", ErrInvalidArg, name)
	}
	out := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, ";|\r\n") {
			return Command{}, fmt.Errorf("%w: %s arg[%d] contains a reserved separator", ErrInvalidArg, name, i)
		}
		out[i] = arg
	}
	return Command{name: name, args: out}, nil
}

// MustCommand is NewCommand for fixed, argument-free commands.
func MustCommand(name string, args ...string) Command {
	cmd, err := NewCommand(name, args...)
	if err != nil {
		panic(err)
	}
	return cmd
}

func (c Command) Name() string { return c.name }

// Args returns a copy of the command arguments.
func (c Command) Args() []string {
	out := make([]string, len(c.args))
	copy(out, c.args)
	return out
}

// String renders the wire form.
func (c Command) String() string {
	if len(c.args) == 0 {
		return c.name
	}
	return c.name + fieldSep + strings.Join(c.args, fieldSep)
}

// ParseCommand splits a raw request line back into a Command. It is used by
// test servers; clients build commands with NewCommand.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	name, rest, found := strings.Cut(line, fieldSep)
	if strings.TrimSpace(name) == "" {
		return Command{}, ErrEmptyCommand
	}
	if !found {
		return Command{name: name}, nil
	}
	return Command{name: name, args: strings.Split(rest, fieldSep)}, nil
}
