package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/atm/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
	TypeMove   Type = "move"
	TypeEdit   Type = "edit"
	TypeDue    Type = "due"
	TypeTheme  Type = "theme"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Target names a row: "selected" or a 1-based position in the list.
type Target struct {
	Selected bool
	Index    int
}

func (t Target) String() string {
	if t.Selected {
		return "selected"
	}
	return strconv.Itoa(t.Index)
}

// Resolve maps the target onto a task id given the list and the cursor.
func (t Target) Resolve(tasks []model.Task, cursor int) (string, bool) {
	i := cursor
	if !t.Selected {
		i = t.Index - 1
	}
	if i < 0 || i >= len(tasks) {
		return "", false
	}
	return tasks[i].ID, true
}

type AddArgs struct {
	Title     string
	Priority  model.Priority
	Deadline  *string
	Recurring model.Recurrence
}

type EditArgs struct {
	Target Target
	Patch  model.Patch
}

type DueArgs struct {
	Target   Target
	Deadline *string
}

type MoveArgs struct {
	From Target
	To   Target
}

type ThemeArgs struct {
	Theme string // "light", "dark", or "" to toggle
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *Target
	Move   *MoveArgs
	Edit   *EditArgs
	Due    *DueArgs
	Theme  *ThemeArgs
}

// Parse reads one palette line. Options use key:value tokens anywhere in
// the argument list: p:high, due:2030-01-01 (due:none clears), every:weekly.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeDelete:
		return parseTargetOnly(input, Type(head), args)
	case TypeMove:
		return parseMove(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeDue:
		return parseDue(input, args)
	case TypeTheme:
		return parseTheme(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

type options struct {
	words     []string
	priority  *model.Priority
	deadline  *string
	recurring *model.Recurrence
}

func parseOptions(args []string) (options, error) {
	var o options
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			o.words = append(o.words, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "p", "priority":
			p, err := model.ParsePriority(value)
			if err != nil {
				return o, invalid("priority %q: want high, medium or low", value)
			}
			o.priority = &p
		case "due":
			d, err := parseDeadline(value)
			if err != nil {
				return o, err
			}
			o.deadline = &d
		case "every", "repeat":
			r, err := model.ParseRecurrence(value)
			if err != nil {
				return o, invalid("recurrence %q: want daily, weekly, monthly or none", value)
			}
			o.recurring = &r
		default:
			o.words = append(o.words, arg)
		}
	}
	return o, nil
}

// parseDeadline returns "" for none, which clears a deadline in a Patch.
func parseDeadline(value string) (string, error) {
	if strings.EqualFold(value, "none") || value == "" {
		return "", nil
	}
	if _, err := model.ParseDate(value); err != nil {
		return "", invalid("deadline %q: want YYYY-MM-DD", value)
	}
	return value, nil
}

func parseTarget(arg string) (Target, error) {
	if strings.EqualFold(arg, "selected") || arg == "." {
		return Target{Selected: true}, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || n < 1 {
		return Target{}, invalid("target %q: want a row number or selected", arg)
	}
	return Target{Index: n}, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	o, err := parseOptions(args)
	if err != nil {
		return Command{}, err
	}
	title := strings.TrimSpace(strings.Join(o.words, " "))
	if title == "" {
		return Command{}, invalid("add requires a title")
	}
	a := &AddArgs{Title: title}
	if o.priority != nil {
		a.Priority = *o.priority
	}
	if o.deadline != nil && *o.deadline != "" {
		a.Deadline = o.deadline
	}
	if o.recurring != nil {
		a.Recurring = *o.recurring
	}
	return Command{Type: TypeAdd, Raw: raw, Add: a}, nil
}

func parseTargetOnly(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires exactly one target", typ)
	}
	target, err := parseTarget(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: typ, Raw: raw, Target: &target}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("move requires a source and a destination")
	}
	from, err := parseTarget(args[0])
	if err != nil {
		return Command{}, err
	}
	to, err := parseTarget(args[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{From: from, To: to}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("edit requires a target and at least one change")
	}
	target, err := parseTarget(args[0])
	if err != nil {
		return Command{}, err
	}
	o, err := parseOptions(args[1:])
	if err != nil {
		return Command{}, err
	}
	var patch model.Patch
	if title := strings.TrimSpace(strings.Join(o.words, " ")); title != "" {
		patch.Title = &title
	}
	patch.Priority = o.priority
	patch.Deadline = o.deadline
	patch.Recurring = o.recurring
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Target: target, Patch: patch}}, nil
}

func parseDue(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("due requires a target and a date")
	}
	target, err := parseTarget(args[0])
	if err != nil {
		return Command{}, err
	}
	d, err := parseDeadline(args[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeDue, Raw: raw, Due: &DueArgs{Target: target, Deadline: &d}}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) > 1 {
		return Command{}, invalid("theme takes at most one argument")
	}
	theme := ""
	if len(args) == 1 {
		theme = strings.ToLower(args[0])
		switch theme {
		case "light", "dark":
		case "toggle":
			theme = ""
		default:
			return Command{}, invalid("theme %q: want light, dark or toggle", args[0])
		}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Theme: theme}}, nil
}
