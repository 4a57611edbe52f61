// internal/storage/store.go
package storage

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"taskbot/internal/models"
)

// UserTasks is one user's entry in the data file.
type UserTasks struct {
	Tasks []models.Task `json:"tasks"`
}

// Store keeps every user's task list in memory and mirrors each
// mutation to a single JSON file. The file maps the decimal string form
// of the user id to that user's entry; keys are converted back to int64
// on load. Saving is best effort: a failed write is logged and the
// in-memory state stays ahead of the file until the next successful
// write.
type Store struct {
	mu    sync.Mutex
	path  string
	users map[int64]*UserTasks
	now   func() time.Time
}

// NewStore loads the data file at path. A missing file or a file that
// does not parse yields an empty store; neither aborts startup.
func NewStore(path string) *Store {
	s := &Store{
		path:  path,
		users: make(map[int64]*UserTasks),
		now:   time.Now,
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[store] read %s: %v", s.path, err)
		}
		return
	}

	raw := make(map[string]*UserTasks)
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("[store] parse %s: %v", s.path, err)
		return
	}

	for key, entry := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			log.Printf("[store] skip bad user key %q in %s", key, s.path)
			continue
		}
		if entry == nil {
			entry = &UserTasks{}
		}
		s.users[id] = entry
	}
}

// save writes the whole mapping through a temp file and an atomic
// rename, so a crash mid-write never leaves a half-written data file.
// Caller must hold s.mu.
func (s *Store) save() {
	raw := make(map[string]*UserTasks, len(s.users))
	for id, entry := range s.users {
		raw[strconv.FormatInt(id, 10)] = entry
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		log.Printf("[store] marshal: %v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		log.Printf("[store] write %s: %v", tmp, err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("[store] rename %s: %v", tmp, err)
	}
}

// userEntry returns the user's entry, materializing an empty one on
// first access. Caller must hold s.mu.
func (s *Store) userEntry(userID int64) *UserTasks {
	entry, ok := s.users[userID]
	if !ok {
		entry = &UserTasks{}
		s.users[userID] = entry
	}
	return entry
}

// Tasks returns a copy of the user's task list in insertion order.
func (s *Store) Tasks(userID int64) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.userEntry(userID)
	out := make([]models.Task, len(entry.Tasks))
	copy(out, entry.Tasks)
	return out
}

// Add appends a new task for the user and persists. The id is the
// current list length plus one: deletions do not renumber survivors, so
// after a deletion a new id can collide with an existing one. That
// matches the historical data files and is deliberately kept.
func (s *Store) Add(userID int64, text string, priority models.Priority, reminder string) models.Task {
	if priority == "" {
		priority = models.PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	task := models.Task{
		ID:        len(entry.Tasks) + 1,
		Text:      text,
		Priority:  priority,
		CreatedAt: s.now().Format(models.TimeLayout),
		Reminder:  reminder,
	}
	entry.Tasks = append(entry.Tasks, task)
	s.save()
	return task
}

// Complete marks the task with the given id done. Completing an already
// completed task is a no-op success. Returns false when the id is not
// in the user's list; nothing is written in that case.
func (s *Store) Complete(userID int64, taskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	for i := range entry.Tasks {
		if entry.Tasks[i].ID == taskID {
			entry.Tasks[i].Completed = true
			s.save()
			return true
		}
	}
	return false
}

// Delete removes the task with the given id. Returns false when the id
// is not in the user's list; nothing is written in that case.
func (s *Store) Delete(userID int64, taskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	kept := entry.Tasks[:0]
	for _, t := range entry.Tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(entry.Tasks) {
		return false
	}
	entry.Tasks = kept
	s.save()
	return true
}

// ByPriority buckets the user's incomplete tasks by priority,
// preserving list order within each bucket. All three buckets are
// always present; completed tasks never appear here.
func (s *Store) ByPriority(userID int64) map[models.Priority][]models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	buckets := make(map[models.Priority][]models.Task, 3)
	for _, p := range models.Priorities() {
		buckets[p] = []models.Task{}
	}
	for _, t := range s.userEntry(userID).Tasks {
		if t.Completed {
			continue
		}
		p := t.Priority
		if p == "" {
			p = models.PriorityMedium
		}
		// Unknown priorities from a hand-edited file are left out of
		// the grouped view rather than guessed at.
		if !p.IsValid() {
			continue
		}
		buckets[p] = append(buckets[p], t)
	}
	return buckets
}
