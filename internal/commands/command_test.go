package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/atm/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent p:high due:2030-01-01", TypeAdd},
		{"done 2", TypeDone},
		{"delete selected", TypeDelete},
		{"move 3 1", TypeMove},
		{"edit #1 p:low", TypeEdit},
		{"due . none", TypeDue},
		{"theme dark", TypeTheme},
		{"THEME", TypeTheme},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("/add Pay rent every:monthly p:HIGH due:2030-01-31 at 10:30")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Title != "Pay rent at 10:30" {
		t.Fatalf("unexpected title: %q", a.Title)
	}
	if a.Priority != model.PriorityHigh || a.Recurring != model.RecurrenceMonthly {
		t.Fatalf("unexpected options: %+v", a)
	}
	if a.Deadline == nil || *a.Deadline != "2030-01-31" {
		t.Fatalf("unexpected deadline: %v", a.Deadline)
	}

	cmd, err = Parse("add plain")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Deadline != nil || cmd.Add.Priority != model.PriorityNone {
		t.Fatalf("expected bare add, got %+v", cmd.Add)
	}
}

func TestParseEditBuildsPatch(t *testing.T) {
	cmd, err := Parse("edit 2 New title due:none every:none")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	e := cmd.Edit
	if e.Target.Index != 2 || e.Target.Selected {
		t.Fatalf("unexpected target: %+v", e.Target)
	}
	if e.Patch.Title == nil || *e.Patch.Title != "New title" {
		t.Fatalf("unexpected title patch: %v", e.Patch.Title)
	}
	if e.Patch.Deadline == nil || *e.Patch.Deadline != "" {
		t.Fatal("expected deadline clear")
	}
	if e.Patch.Recurring == nil || *e.Patch.Recurring != model.RecurrenceNone {
		t.Fatal("expected recurrence clear")
	}
	if e.Patch.Priority != nil || e.Patch.Completed != nil {
		t.Fatal("untouched fields must stay nil")
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	inputs := []string{
		"add",
		"add p:high",
		"add x p:urgent",
		"add x due:2030-02-30",
		"add x every:yearly",
		"done",
		"done 0",
		"done first",
		"move 1",
		"edit 1",
		"due 1",
		"theme sepia",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	_, err = Parse("  / ")
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestTargetResolve(t *testing.T) {
	tasks := []model.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if id, ok := (Target{Index: 2}).Resolve(tasks, 0); !ok || id != "b" {
		t.Fatalf("index resolve got %q ok=%v", id, ok)
	}
	if id, ok := (Target{Selected: true}).Resolve(tasks, 2); !ok || id != "c" {
		t.Fatalf("selected resolve got %q ok=%v", id, ok)
	}
	if _, ok := (Target{Index: 4}).Resolve(tasks, 0); ok {
		t.Fatal("expected out of range")
	}
	if _, ok := (Target{Selected: true}).Resolve(nil, 0); ok {
		t.Fatal("expected empty list to resolve nothing")
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}

	cmd, _ = Parse("move 3 1")
	_, err = Execute(cmd, Handlers{
		Move: func(m MoveArgs) (Result, error) {
			if m.From.Index != 3 || m.To.Index != 1 {
				t.Fatalf("unexpected move: %+v", m)
			}
			return Result{}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute move failed: %v", err)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("done 1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
