// internal/models/task.go
package models

import "time"

// TimeLayout is the timestamp format used in the data file and in all
// user-visible dates.
const TimeLayout = "2006-01-02 15:04:05"

// Priority is the task priority as shown to the user. The glyph is part
// of the value: that is exactly what the keyboard sends back and what
// gets persisted.
type Priority string

const (
	PriorityHigh   Priority = "🔴 Высокий"
	PriorityMedium Priority = "🟡 Средний"
	PriorityLow    Priority = "🟢 Низкий"
)

// Priorities returns the three priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Task represents a single tracked task. ID is unique within one user's
// list only; Text, Priority, CreatedAt and ID never change after
// creation, Completed only goes false -> true.
type Task struct {
	ID        int      `json:"id"`
	Text      string   `json:"text"`
	Priority  Priority `json:"priority"`
	CreatedAt string   `json:"created_at"`
	Completed bool     `json:"completed"`
	Reminder  string   `json:"reminder,omitempty"`
}

// Reminder offset labels, as offered on the reminder keyboard.
const (
	ReminderHour  = "Через 1 час"
	ReminderThree = "Через 3 часа"
	ReminderDay   = "Завтра"
	ReminderWeek  = "Через неделю"
	ReminderNone  = "Без напоминания"
)

var reminderOffsets = map[string]time.Duration{
	ReminderHour:  time.Hour,
	ReminderThree: 3 * time.Hour,
	ReminderDay:   24 * time.Hour,
	ReminderWeek:  7 * 24 * time.Hour,
}

// ReminderOptions returns the offset labels in display order plus the
// no-reminder label.
func ReminderOptions() []string {
	return []string{ReminderHour, ReminderThree, ReminderDay, ReminderWeek, ReminderNone}
}

// ReminderTime resolves an offset label against now. Anything that is
// not one of the four offset labels means "no reminder" and yields an
// empty string; the reminder step accepts any input.
func ReminderTime(label string, now time.Time) string {
	d, ok := reminderOffsets[label]
	if !ok {
		return ""
	}
	return now.Add(d).Format(TimeLayout)
}
