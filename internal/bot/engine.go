// internal/bot/engine.go
package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskbot/internal/models"
	"taskbot/internal/session"
	"taskbot/internal/storage"
)

// Reply is one outbound unit: text, optionally rendered as Markdown,
// with either a reply keyboard of option labels or a request to remove
// the current keyboard. The transport decides how to present it.
type Reply struct {
	Text           string
	Markdown       bool
	Keyboard       [][]string
	RemoveKeyboard bool
}

// Engine is the transport-agnostic core: it takes classified inbound
// messages (command or free text) for a user and produces at most one
// Reply, mutating the task store and the dialogue state as it goes.
type Engine struct {
	store    *storage.Store
	sessions *session.Manager
	now      func() time.Time
}

func NewEngine(store *storage.Store, sessions *session.Manager) *Engine {
	return &Engine{
		store:    store,
		sessions: sessions,
		now:      time.Now,
	}
}

// HandleCommand dispatches one of the fixed commands. Commands route
// here directly regardless of any open dialogue; /add and /cancel are
// the only ones that touch it on purpose, /complete and /delete replace
// it with their own pending state.
func (e *Engine) HandleCommand(userID int64, command, firstName string) Reply {
	switch command {
	case "start":
		return Reply{Text: welcomeMessage(firstName)}
	case "help":
		return Reply{Text: msgHelp, Markdown: true}
	case "add":
		e.sessions.Set(userID, session.State{Phase: session.CollectingText})
		return Reply{Text: msgAskText}
	case "list":
		return e.renderList(userID)
	case "complete":
		return e.startComplete(userID)
	case "delete":
		return e.startDelete(userID)
	case "cancel":
		e.sessions.Reset(userID)
		return Reply{Text: msgCancelled, RemoveKeyboard: true}
	default:
		return Reply{Text: msgUnknown}
	}
}

// HandleText dispatches a free-form message by the user's current
// dialogue phase.
func (e *Engine) HandleText(userID int64, text string) Reply {
	st := e.sessions.Get(userID)

	switch st.Phase {
	case session.CollectingText:
		if strings.TrimSpace(text) == "" {
			return Reply{Text: msgAskText}
		}
		st.Draft.Text = text
		st.Phase = session.CollectingPriority
		e.sessions.Set(userID, st)
		return Reply{Text: msgAskPriority, Keyboard: priorityKeyboard()}

	case session.CollectingPriority:
		p := models.Priority(text)
		if !p.IsValid() {
			return Reply{Text: msgBadPriority}
		}
		st.Draft.Priority = string(p)
		st.Phase = session.CollectingReminder
		e.sessions.Set(userID, st)
		return Reply{Text: msgAskReminder, Keyboard: reminderKeyboard()}

	case session.CollectingReminder:
		// Anything that is not a known offset label means "no
		// reminder"; the reminder step never rejects input.
		reminder := models.ReminderTime(text, e.now())
		task := e.store.Add(userID, st.Draft.Text, models.Priority(st.Draft.Priority), reminder)
		e.sessions.Reset(userID)
		return Reply{Text: createdSummary(task), RemoveKeyboard: true}

	case session.AwaitingComplete:
		return e.resolvePending(userID, text, true)

	case session.AwaitingDelete:
		return e.resolvePending(userID, text, false)

	default:
		return Reply{Text: msgUnknown}
	}
}

func (e *Engine) startComplete(userID int64) Reply {
	var active []models.Task
	for _, t := range e.store.Tasks(userID) {
		if !t.Completed {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return Reply{Text: msgNoActiveTasks}
	}

	var b strings.Builder
	b.WriteString(msgChooseComplete)
	b.WriteString("\n\n")
	for _, t := range active {
		fmt.Fprintf(&b, "#%d: %s (%s)\n", t.ID, t.Text, t.Priority)
	}
	b.WriteString("\n")
	b.WriteString(msgSendNumber)

	e.sessions.Set(userID, session.State{Phase: session.AwaitingComplete})
	return Reply{Text: b.String()}
}

func (e *Engine) startDelete(userID int64) Reply {
	tasks := e.store.Tasks(userID)
	if len(tasks) == 0 {
		return Reply{Text: msgNoTasksToDelete}
	}

	var b strings.Builder
	b.WriteString(msgChooseDelete)
	b.WriteString("\n\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "%s #%d: %s (%s)\n", statusMark(t), t.ID, t.Text, t.Priority)
	}
	b.WriteString("\n")
	b.WriteString(msgSendNumber)

	e.sessions.Set(userID, session.State{Phase: session.AwaitingDelete})
	return Reply{Text: b.String()}
}

// resolvePending interprets the next message after /complete or
// /delete. A non-number keeps the pending state so the user can retry;
// any parsed number consumes it, found or not.
func (e *Engine) resolvePending(userID int64, text string, complete bool) Reply {
	taskID, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return Reply{Text: msgBadNumber}
	}

	e.sessions.Reset(userID)

	if complete {
		if e.store.Complete(userID, taskID) {
			return Reply{Text: fmt.Sprintf("✅ Задача #%d отмечена как выполненная!", taskID)}
		}
	} else {
		if e.store.Delete(userID, taskID) {
			return Reply{Text: fmt.Sprintf("🗑 Задача #%d удалена!", taskID)}
		}
	}
	return Reply{Text: fmt.Sprintf("❌ Задача #%d не найдена.", taskID)}
}

func (e *Engine) renderList(userID int64) Reply {
	buckets := e.store.ByPriority(userID)

	total := 0
	for _, tasks := range buckets {
		total += len(tasks)
	}
	if total == 0 {
		return Reply{Text: msgNoTasks}
	}

	var b strings.Builder
	b.WriteString("📋 *Ваши задачи:*\n\n")
	for _, p := range models.Priorities() {
		tasks := buckets[p]
		if len(tasks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "*%s*\n", p)
		for _, t := range tasks {
			fmt.Fprintf(&b, "%s #%d: %s\n", statusMark(t), t.ID, t.Text)
			if t.Reminder != "" {
				fmt.Fprintf(&b, "   ⏰ Напоминание: %s\n", t.Reminder)
			}
		}
		b.WriteString("\n")
	}

	// Последние пять выполненных, в конце списка.
	var completed []models.Task
	for _, t := range e.store.Tasks(userID) {
		if t.Completed {
			completed = append(completed, t)
		}
	}
	if len(completed) > 0 {
		if len(completed) > 5 {
			completed = completed[len(completed)-5:]
		}
		b.WriteString("*✅ Выполненные:*\n")
		for _, t := range completed {
			fmt.Fprintf(&b, "✅ #%d: %s\n", t.ID, t.Text)
		}
	}

	return Reply{Text: strings.TrimRight(b.String(), "\n"), Markdown: true}
}

func statusMark(t models.Task) string {
	if t.Completed {
		return "✅"
	}
	return "⏹"
}

func createdSummary(t models.Task) string {
	var b strings.Builder
	b.WriteString("✅ Задача создана!\n\n")
	fmt.Fprintf(&b, "📝 %s\n", t.Text)
	fmt.Fprintf(&b, "🎯 Приоритет: %s\n", t.Priority)
	fmt.Fprintf(&b, "📅 Создана: %s\n", t.CreatedAt)
	if t.Reminder != "" {
		fmt.Fprintf(&b, "⏰ Напоминание: %s", t.Reminder)
	}
	return strings.TrimRight(b.String(), "\n")
}
