package session

import (
	"github.com/google/uuid"

	"studyhub/internal/store"
)

// State is everything a running app holds in memory. The host owns one
// State and passes it by reference; nothing here is safe for concurrent use.
type State struct {
	Courses  *store.CourseStore
	Tasks    *store.TaskStore
	Feedback *store.FeedbackStore
	Editing  *EditState
}

// New returns a State with empty stores.
func New() *State {
	return &State{
		Courses:  store.NewCourseStore(),
		Tasks:    store.NewTaskStore(),
		Feedback: store.NewFeedbackStore(),
		Editing:  NewEditState(),
	}
}

// EditState tracks which courses are open in edit mode. It is UI state and
// never part of a course record.
type EditState struct {
	flags map[uuid.UUID]bool
}

func NewEditState() *EditState {
	return &EditState{flags: make(map[uuid.UUID]bool)}
}

// Begin puts a course in edit mode.
func (e *EditState) Begin(id uuid.UUID) {
	e.flags[id] = true
}

// Cancel leaves edit mode.
func (e *EditState) Cancel(id uuid.UUID) {
	e.flags[id] = false
}

// Forget drops any flag kept for a deleted course.
func (e *EditState) Forget(id uuid.UUID) {
	delete(e.flags, id)
}

// IsEditing reports whether the course is in edit mode.
func (e *EditState) IsEditing(id uuid.UUID) bool {
	return e.flags[id]
}
