package update

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/atm/internal/notify"
	"github.com/sandeepkv93/atm/internal/scheduler"
)

const reminderLogSize = 5

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

// deliverCmd hands n to the host notifier off the update loop; the
// notifier may shell out and block.
func deliverCmd(gate *notify.Gate, n notify.Notification) tea.Cmd {
	return func() tea.Msg {
		if err := gate.Deliver(n); err != nil {
			log.Printf("reminder for task %s not delivered: %v", n.TaskID, err)
			return NotificationFailedMsg{TaskID: n.TaskID, Err: err}
		}
		return nil
	}
}

// handleReminder logs a fired reminder and returns the command that
// delivers it, provided its task still belongs to the active user and is
// open. Events left over from a previous session are dropped.
func (m Model) handleReminder(ev scheduler.ReminderEvent) (Model, tea.Cmd) {
	s, active := m.store()
	if !active {
		return m, nil
	}
	t, found := s.Get(ev.TaskID)
	if !found || t.Completed {
		return m, nil
	}
	n := notify.Reminder(ev.TaskID, ev.Title, ev.TriggerAt)
	m.ReminderLog = append(m.ReminderLog, n)
	if len(m.ReminderLog) > reminderLogSize {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-reminderLogSize:]
	}
	m.Status = info(n.Body)
	return m, deliverCmd(m.sessions.Gate(), n)
}

func (m Model) renderReminderLog() string {
	if len(m.ReminderLog) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.ReminderLog)+1)
	lines = append(lines, "reminders:")
	for _, n := range m.ReminderLog {
		lines = append(lines, fmt.Sprintf("%s %s", n.At.Format("15:04"), n.Body))
	}
	return strings.Join(lines, "\n")
}
