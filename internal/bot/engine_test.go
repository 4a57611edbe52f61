package bot

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskbot/internal/models"
	"taskbot/internal/session"
	"taskbot/internal/storage"
)

const userID = int64(4242)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store := storage.NewStore(filepath.Join(t.TempDir(), "tasks_data.json"))
	e := NewEngine(store, session.NewManager())
	e.now = func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	}
	return e
}

// Runs the creation dialogue from /add through to the created task.
func createTask(t *testing.T, e *Engine, text string, priority models.Priority, reminder string) Reply {
	t.Helper()
	e.HandleCommand(userID, "add", "")
	e.HandleText(userID, text)
	e.HandleText(userID, string(priority))
	return e.HandleText(userID, reminder)
}

func TestCreationDialogue(t *testing.T) {
	e := newTestEngine(t)

	r := e.HandleCommand(userID, "add", "")
	if !strings.Contains(r.Text, "Введите описание") {
		t.Errorf("/add reply = %q", r.Text)
	}

	r = e.HandleText(userID, "Купить молоко")
	if len(r.Keyboard) != 3 || r.Keyboard[0][0] != string(models.PriorityHigh) {
		t.Errorf("priority keyboard = %v", r.Keyboard)
	}

	// The priority step is strict: off-keyboard input re-prompts and
	// keeps the dialogue where it was.
	r = e.HandleText(userID, "суперважно")
	if r.Text != msgBadPriority {
		t.Errorf("bad priority reply = %q", r.Text)
	}

	r = e.HandleText(userID, string(models.PriorityMedium))
	if len(r.Keyboard) != 3 || r.Keyboard[2][0] != models.ReminderNone {
		t.Errorf("reminder keyboard = %v", r.Keyboard)
	}

	r = e.HandleText(userID, models.ReminderHour)
	if !strings.Contains(r.Text, "Задача создана") {
		t.Fatalf("creation summary = %q", r.Text)
	}
	if !r.RemoveKeyboard {
		t.Error("keyboard not removed after creation")
	}

	tasks := e.store.Tasks(userID)
	if len(tasks) != 1 {
		t.Fatalf("store has %d tasks", len(tasks))
	}
	task := tasks[0]
	if task.ID != 1 || task.Text != "Купить молоко" || task.Priority != models.PriorityMedium {
		t.Errorf("created task = %+v", task)
	}
	if task.Completed {
		t.Error("created task already completed")
	}
	if task.Reminder != "2025-03-10 13:00:00" {
		t.Errorf("reminder = %q, want now+1h", task.Reminder)
	}
}

// The reminder step, unlike the priority step, accepts anything:
// an unrecognized label quietly becomes "no reminder".
func TestCreationDialogue_UnknownReminderLabel(t *testing.T) {
	e := newTestEngine(t)
	createTask(t, e, "без будильника", models.PriorityLow, "разбуди как-нибудь")

	tasks := e.store.Tasks(userID)
	if len(tasks) != 1 {
		t.Fatalf("store has %d tasks", len(tasks))
	}
	if tasks[0].Reminder != "" {
		t.Errorf("reminder = %q, want none", tasks[0].Reminder)
	}
}

func TestCreationDialogue_RestartDiscardsDraft(t *testing.T) {
	e := newTestEngine(t)

	e.HandleCommand(userID, "add", "")
	e.HandleText(userID, "первый черновик")
	e.HandleText(userID, string(models.PriorityHigh))

	// A second /add mid-dialogue starts over; nothing from the first
	// draft may survive.
	e.HandleCommand(userID, "add", "")
	e.HandleText(userID, "второй черновик")
	e.HandleText(userID, string(models.PriorityLow))
	e.HandleText(userID, models.ReminderNone)

	tasks := e.store.Tasks(userID)
	if len(tasks) != 1 {
		t.Fatalf("store has %d tasks", len(tasks))
	}
	if tasks[0].Text != "второй черновик" || tasks[0].Priority != models.PriorityLow {
		t.Errorf("task carried over prior draft: %+v", tasks[0])
	}
}

func TestCancel(t *testing.T) {
	e := newTestEngine(t)

	e.HandleCommand(userID, "add", "")
	e.HandleText(userID, "что-то")

	r := e.HandleCommand(userID, "cancel", "")
	if r.Text != msgCancelled || !r.RemoveKeyboard {
		t.Errorf("cancel reply = %+v", r)
	}

	// The dialogue is gone: free text now hits the idle fallback and
	// no task was created.
	if r := e.HandleText(userID, string(models.PriorityHigh)); r.Text != msgUnknown {
		t.Errorf("post-cancel text reply = %q", r.Text)
	}
	if tasks := e.store.Tasks(userID); len(tasks) != 0 {
		t.Errorf("cancelled dialogue created tasks: %+v", tasks)
	}
}

func TestComplete_EmptyState(t *testing.T) {
	e := newTestEngine(t)

	if r := e.HandleCommand(userID, "complete", ""); r.Text != msgNoActiveTasks {
		t.Errorf("reply = %q", r.Text)
	}
	// No pending state was armed: a number goes to the idle fallback.
	if r := e.HandleText(userID, "1"); r.Text != msgUnknown {
		t.Errorf("number after empty /complete = %q", r.Text)
	}
}

func TestComplete_Flow(t *testing.T) {
	e := newTestEngine(t)
	createTask(t, e, "А", models.PriorityHigh, models.ReminderNone)
	createTask(t, e, "Б", models.PriorityLow, models.ReminderNone)

	r := e.HandleCommand(userID, "complete", "")
	if !strings.Contains(r.Text, "#1: А") || !strings.Contains(r.Text, "#2: Б") {
		t.Errorf("pick list = %q", r.Text)
	}

	r = e.HandleText(userID, " 2 ")
	if !strings.Contains(r.Text, "#2 отмечена как выполненная") {
		t.Errorf("complete reply = %q", r.Text)
	}
	if tasks := e.store.Tasks(userID); !tasks[1].Completed || tasks[0].Completed {
		t.Errorf("tasks = %+v", tasks)
	}

	// One resolution per activation: the next number is plain text.
	if r := e.HandleText(userID, "1"); r.Text != msgUnknown {
		t.Errorf("second number resolved: %q", r.Text)
	}
}

func TestComplete_BadNumberKeepsPending(t *testing.T) {
	e := newTestEngine(t)
	createTask(t, e, "А", models.PriorityHigh, models.ReminderNone)

	e.HandleCommand(userID, "complete", "")
	if r := e.HandleText(userID, "первая"); r.Text != msgBadNumber {
		t.Errorf("parse failure reply = %q", r.Text)
	}
	// Retrying with a number still resolves.
	if r := e.HandleText(userID, "1"); !strings.Contains(r.Text, "выполненная") {
		t.Errorf("retry reply = %q", r.Text)
	}
}

func TestComplete_NotFoundConsumesPending(t *testing.T) {
	e := newTestEngine(t)
	createTask(t, e, "А", models.PriorityHigh, models.ReminderNone)

	e.HandleCommand(userID, "complete", "")
	if r := e.HandleText(userID, "99"); !strings.Contains(r.Text, "#99 не найдена") {
		t.Errorf("not-found reply = %q", r.Text)
	}
	// Not-found still consumed the one attempt.
	if r := e.HandleText(userID, "1"); r.Text != msgUnknown {
		t.Errorf("pending survived not-found: %q", r.Text)
	}
	if tasks := e.store.Tasks(userID); tasks[0].Completed {
		t.Error("not-found completed something")
	}
}

func TestComplete_ListsOnlyActive(t *testing.T) {
	e := newTestEngine(t)
	createTask(t, e, "сделана", models.PriorityHigh, models.ReminderNone)
	createTask(t, e, "в работе", models.PriorityHigh, models.ReminderNone)
	e.store.Complete(userID, 1)

	r := e.HandleCommand(userID, "complete", "")
	if strings.Contains(r.Text, "сделана") {
		t.Errorf("completed task offered for completion: %q", r.Text)
	}
}

func TestDelete_Flow(t *testing.T) {
	e := newTestEngine(t)
	createTask(t, e, "А", models.PriorityHigh, models.ReminderNone)
	createTask(t, e, "Б", models.PriorityLow, models.ReminderNone)
	e.store.Complete(userID, 1)

	// Deletion offers every task, completed ones marked.
	r := e.HandleCommand(userID, "delete", "")
	if !strings.Contains(r.Text, "✅ #1: А") || !strings.Contains(r.Text, "⏹ #2: Б") {
		t.Errorf("pick list = %q", r.Text)
	}

	if r := e.HandleText(userID, "1"); !strings.Contains(r.Text, "#1 удалена") {
		t.Errorf("delete reply = %q", r.Text)
	}
	tasks := e.store.Tasks(userID)
	if len(tasks) != 1 || tasks[0].ID != 2 {
		t.Errorf("tasks after delete = %+v", tasks)
	}
}

func TestDelete_EmptyState(t *testing.T) {
	e := newTestEngine(t)
	if r := e.HandleCommand(userID, "delete", ""); r.Text != msgNoTasksToDelete {
		t.Errorf("reply = %q", r.Text)
	}
}

func TestList(t *testing.T) {
	e := newTestEngine(t)

	if r := e.HandleCommand(userID, "list", ""); r.Text != msgNoTasks {
		t.Errorf("empty list reply = %q", r.Text)
	}

	createTask(t, e, "горит", models.PriorityHigh, models.ReminderHour)
	createTask(t, e, "обычная", models.PriorityMedium, models.ReminderNone)
	createTask(t, e, "готова", models.PriorityMedium, models.ReminderNone)
	e.store.Complete(userID, 3)

	r := e.HandleCommand(userID, "list", "")
	if !r.Markdown {
		t.Error("list not marked for Markdown")
	}
	for _, want := range []string{
		"*" + string(models.PriorityHigh) + "*",
		"⏹ #1: горит",
		"⏰ Напоминание: 2025-03-10 13:00:00",
		"⏹ #2: обычная",
		"*✅ Выполненные:*",
		"✅ #3: готова",
	} {
		if !strings.Contains(r.Text, want) {
			t.Errorf("list missing %q:\n%s", want, r.Text)
		}
	}
	// The grouped section never shows completed tasks.
	if strings.Contains(r.Text, "⏹ #3") {
		t.Errorf("completed task in grouped section:\n%s", r.Text)
	}
	// Empty priority groups are omitted from the rendering.
	if strings.Contains(r.Text, string(models.PriorityLow)) {
		t.Errorf("empty priority group rendered:\n%s", r.Text)
	}
}

func TestList_CompletedCappedAtFive(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 7; i++ {
		createTask(t, e, "з"+strings.Repeat("!", i+1), models.PriorityLow, models.ReminderNone)
	}
	for id := 1; id <= 6; id++ {
		e.store.Complete(userID, id)
	}

	r := e.HandleCommand(userID, "list", "")
	if strings.Contains(r.Text, "✅ #1:") {
		t.Errorf("oldest completed task shown, cap broken:\n%s", r.Text)
	}
	for id := 2; id <= 6; id++ {
		if !strings.Contains(r.Text, fmt.Sprintf("✅ #%d:", id)) {
			t.Errorf("completed #%d missing:\n%s", id, r.Text)
		}
	}
}

func TestStartAndHelp(t *testing.T) {
	e := newTestEngine(t)

	r := e.HandleCommand(userID, "start", "Ира")
	if !strings.Contains(r.Text, "Привет, Ира!") {
		t.Errorf("welcome = %q", r.Text)
	}

	r = e.HandleCommand(userID, "help", "")
	if !r.Markdown || !strings.Contains(r.Text, "Доступные команды") {
		t.Errorf("help = %+v", r)
	}
}

func TestUnknownCommandAndIdleText(t *testing.T) {
	e := newTestEngine(t)

	if r := e.HandleCommand(userID, "settings", ""); r.Text != msgUnknown {
		t.Errorf("unknown command reply = %q", r.Text)
	}
	if r := e.HandleText(userID, "просто сообщение"); r.Text != msgUnknown {
		t.Errorf("idle text reply = %q", r.Text)
	}
}

// A /complete issued mid-dialogue replaces the dialogue: the user holds
// one state at a time.
func TestCommandMidDialogueReplacesIt(t *testing.T) {
	e := newTestEngine(t)
	createTask(t, e, "есть", models.PriorityHigh, models.ReminderNone)

	e.HandleCommand(userID, "add", "")
	e.HandleText(userID, "недописанная")

	r := e.HandleCommand(userID, "complete", "")
	if !strings.Contains(r.Text, "#1: есть") {
		t.Fatalf("pick list = %q", r.Text)
	}
	if r := e.HandleText(userID, "1"); !strings.Contains(r.Text, "выполненная") {
		t.Errorf("resolver reply = %q", r.Text)
	}
	// The abandoned draft produced nothing.
	if tasks := e.store.Tasks(userID); len(tasks) != 1 {
		t.Errorf("tasks = %+v", tasks)
	}
}
