package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewCommandString(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
		want string
	}{
		{name: "no args", cmd: CmdListStudents, want: "LISTAR_ALUNOS"},
		{name: "one arg", cmd: CmdListDiary, args: []string{"42"}, want: "LISTAR_DIARIO;42"},
		{name: "many args", cmd: CmdRecordGrade, args: []string{"1001", "7", "NP1", "8,5"}, want: "CADASTRAR_NOTA;1001;7;NP1;8,5"},
		{name: "empty arg kept", cmd: CmdLog, args: []string{""}, want: "LOG;"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := NewCommand(tc.cmd, tc.args...)
			if err != nil {
				t.Fatalf("new command: %v", err)
			}
			if cmd.String() != tc.want {
				t.Fatalf("got %q want %q", cmd.String(), tc.want)
			}
		})
	}
}

func TestNewCommandRejectsSeparators(t *testing.T) {
	for _, arg := range []string{"a;b", "a|b", "a\nb", "a\rb"} {
		if _, err := NewCommand(CmdAddCourse, arg); !errors.Is(err, ErrInvalidArg) {
			t.Fatalf("arg %q: expected ErrInvalidArg, got %v", arg, err)
		}
	}
	if _, err := NewCommand("  "); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
}

func TestCommandArgsAreCopied(t *testing.T) {
	args := []string{"Redes"}
	cmd, err := NewCommand(CmdAddCourse, args...)
	if err != nil {
		t.Fatalf("new command: %v", err)
	}
	args[0] = "mutated"
	got := cmd.Args()
	got[0] = "also mutated"
	if cmd.String() != "CADASTRAR_CURSO;Redes" {
		t.Fatalf("command mutated through caller slices: %q", cmd.String())
	}
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("CADASTRAR_TURMA;2025-2;prof.ana\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Name() != CmdAddClass {
		t.Fatalf("unexpected name %q", cmd.Name())
	}
	if !reflect.DeepEqual(cmd.Args(), []string{"2025-2", "prof.ana"}) {
		t.Fatalf("unexpected args %q", cmd.Args())
	}
	bare, err := ParseCommand("BACKUP")
	if err != nil || bare.Name() != CmdBackup || len(bare.Args()) != 0 {
		t.Fatalf("unexpected bare parse: %+v err=%v", bare, err)
	}
}
