package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

const ReminderTitle = "Task Reminder"

type Permission string

const (
	PermissionDefault     Permission = "default"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionUnavailable Permission = "unavailable"
)

type Notification struct {
	TaskID string
	Title  string
	Body   string
	At     time.Time
}

// Reminder builds the alert shown for a task that is due soon.
func Reminder(taskID, taskTitle string, at time.Time) Notification {
	return Notification{
		TaskID: taskID,
		Title:  ReminderTitle,
		Body:   fmt.Sprintf("Task: \"%s\" is due soon!", taskTitle),
		At:     at,
	}
}

// Notifier is the host capability that shows alerts.
type Notifier interface {
	Permission() Permission
	RequestPermission() Permission
	Send(Notification) error
}

type Noop struct{}

func (Noop) Permission() Permission        { return PermissionUnavailable }
func (Noop) RequestPermission() Permission { return PermissionUnavailable }
func (Noop) Send(Notification) error       { return nil }

// ExecDesktop shells out to notify-send on Linux and osascript on macOS.
type ExecDesktop struct {
	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
}

func NewExecDesktop() *ExecDesktop {
	return &ExecDesktop{
		lookPath: exec.LookPath,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (d *ExecDesktop) binary() string {
	switch runtime.GOOS {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func (d *ExecDesktop) Permission() Permission {
	bin := d.binary()
	if bin == "" {
		return PermissionUnavailable
	}
	if _, err := d.lookPath(bin); err != nil {
		return PermissionUnavailable
	}
	return PermissionGranted
}

// RequestPermission has nothing to prompt for on a desktop; availability
// of the helper binary is the permission.
func (d *ExecDesktop) RequestPermission() Permission {
	return d.Permission()
}

func (d *ExecDesktop) Send(n Notification) error {
	switch d.binary() {
	case "notify-send":
		return d.run("notify-send", n.Title, n.Body)
	case "osascript":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return d.run("osascript", "-e", script)
	default:
		return nil
	}
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escapeAppleScript quotes s for use inside an AppleScript string literal.
func escapeAppleScript(s string) string {
	return appleScriptEscaper.Replace(s)
}

// Gate asks for permission once per session and drops alerts silently
// when the host has not granted it.
type Gate struct {
	mu         sync.Mutex
	notifier   Notifier
	permission Permission
	requested  bool
}

func NewGate(n Notifier) *Gate {
	if n == nil {
		n = Noop{}
	}
	return &Gate{notifier: n, permission: PermissionDefault}
}

// RequestOnce prompts the host only while permission is still undecided.
func (g *Gate) RequestOnce() Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.requested {
		return g.permission
	}
	g.requested = true
	current := g.notifier.Permission()
	if current == PermissionDefault {
		current = g.notifier.RequestPermission()
	}
	g.permission = current
	return current
}

// Reset forgets the request so the next session asks again.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requested = false
	g.permission = PermissionDefault
}

func (g *Gate) Permission() Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.permission
}

// Deliver sends n if permission is granted. Delivery is best-effort; only
// a failing Send on a granted host returns an error.
func (g *Gate) Deliver(n Notification) error {
	if g.Permission() != PermissionGranted {
		return nil
	}
	return g.notifier.Send(n)
}
