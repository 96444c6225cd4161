package store

import (
	"strings"

	"github.com/google/uuid"

	"studyhub/internal/apperr"
	"studyhub/internal/models"
	"studyhub/internal/validation"
)

type courseInput struct {
	Name string `json:"name" validate:"notblank"`
}

// CourseStore keeps the course list in insertion order. It is not safe for
// concurrent use; the host serializes access.
type CourseStore struct {
	courses []models.Course
	newID   func() uuid.UUID
}

// NewCourseStore returns an empty course list.
func NewCourseStore() *CourseStore {
	return &CourseStore{newID: uuid.New}
}

// Add appends a course with a fresh id.
func (s *CourseStore) Add(name, description string) (models.Course, error) {
	if err := validation.Struct(courseInput{Name: name}); err != nil {
		return models.Course{}, err
	}
	c := models.Course{
		ID:          s.newID(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	s.courses = append(s.courses, c)
	return c, nil
}

// List returns a copy of all courses in insertion order.
func (s *CourseStore) List() []models.Course {
	out := make([]models.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// Len returns the number of courses.
func (s *CourseStore) Len() int {
	return len(s.courses)
}

// Get fetches a single course by id.
func (s *CourseStore) Get(id uuid.UUID) (models.Course, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Course{}, apperr.NewNotFoundError("course", id)
	}
	return s.courses[idx], nil
}

// Update renames a course and replaces its description in place.
func (s *CourseStore) Update(id uuid.UUID, name, description string) (models.Course, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Course{}, apperr.NewNotFoundError("course", id)
	}
	if err := validation.Struct(courseInput{Name: name}); err != nil {
		return models.Course{}, err
	}
	s.courses[idx].Name = strings.TrimSpace(name)
	s.courses[idx].Description = strings.TrimSpace(description)
	return s.courses[idx], nil
}

// Delete removes the course if present and returns the remaining list.
// Unknown ids are ignored.
func (s *CourseStore) Delete(id uuid.UUID) []models.Course {
	if idx := s.indexOf(id); idx >= 0 {
		s.courses = append(s.courses[:idx], s.courses[idx+1:]...)
	}
	return s.List()
}

func (s *CourseStore) indexOf(id uuid.UUID) int {
	for i, c := range s.courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}
