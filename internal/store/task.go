package store

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"studyhub/internal/apperr"
	"studyhub/internal/models"
	"studyhub/internal/validation"
)

type taskInput struct {
	Name string `json:"name" validate:"notblank"`
}

// TaskStore keeps to-do items. Stored order is insertion order; List applies
// the display order on every call.
type TaskStore struct {
	tasks []models.Task
	newID func() uuid.UUID
}

// NewTaskStore returns an empty to-do list.
func NewTaskStore() *TaskStore {
	return &TaskStore{newID: uuid.New}
}

// Add appends a pending task.
func (s *TaskStore) Add(name string, deadline models.Date) (models.Task, error) {
	if err := validation.Struct(taskInput{Name: name}); err != nil {
		return models.Task{}, err
	}
	if deadline.IsZero() {
		return models.Task{}, validation.Required("deadline")
	}
	t := models.Task{
		ID:       s.newID(),
		Name:     strings.TrimSpace(name),
		Status:   models.TaskPending,
		Deadline: deadline,
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// List returns pending tasks before completed ones, each group by deadline.
// Ties keep insertion order.
func (s *TaskStore) List() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed() != b.Completed() {
			return !a.Completed()
		}
		return a.Deadline.Before(b.Deadline)
	})
	return out
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Get fetches a task by id.
func (s *TaskStore) Get(id uuid.UUID) (models.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Task{}, apperr.NewNotFoundError("task", id)
	}
	return s.tasks[idx], nil
}

// Complete marks a task done. Completing a done task changes nothing.
func (s *TaskStore) Complete(id uuid.UUID) (models.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Task{}, apperr.NewNotFoundError("task", id)
	}
	s.tasks[idx].Status = models.TaskCompleted
	return s.tasks[idx], nil
}

// Delete removes the task if present and returns the sorted remainder.
func (s *TaskStore) Delete(id uuid.UUID) []models.Task {
	if idx := s.indexOf(id); idx >= 0 {
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	}
	return s.List()
}

func (s *TaskStore) indexOf(id uuid.UUID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
