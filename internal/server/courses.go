package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhub/internal/models"
)

type courseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// courseView is a course plus its edit-mode flag.
type courseView struct {
	models.Course
	Editing bool `json:"editing"`
}

func (s *Server) courseViews(courses []models.Course) []courseView {
	views := make([]courseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, s.courseView(c))
	}
	return views
}

func (s *Server) courseView(c models.Course) courseView {
	return courseView{Course: c, Editing: s.state.Editing.IsEditing(c.ID)}
}

// handleListCourses returns all courses in the order they were added.
func (s *Server) handleListCourses(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"courses": s.courseViews(s.state.Courses.List())})
}

// handleCreateCourse adds a course.
func (s *Server) handleCreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	course, err := s.state.Courses.Add(req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.record(c, models.StoreCourse, "add", course.ID.String(), course.Name)
	respondSuccess(c, http.StatusCreated, gin.H{"course": s.courseView(course)})
}

// handleGetCourse fetches one course.
func (s *Server) handleGetCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := s.state.Courses.Get(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"course": s.courseView(course)})
}

// handleUpdateCourse saves an edited course and leaves edit mode.
func (s *Server) handleUpdateCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	course, err := s.state.Courses.Update(id, req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.state.Editing.Cancel(id)
	s.record(c, models.StoreCourse, "update", id.String(), course.Name)
	respondSuccess(c, http.StatusOK, gin.H{"course": s.courseView(course)})
}

// handleDeleteCourse removes a course. Unknown ids succeed without changes.
func (s *Server) handleDeleteCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	before := s.state.Courses.Len()
	courses := s.state.Courses.Delete(id)
	s.state.Editing.Forget(id)
	if len(courses) < before {
		s.record(c, models.StoreCourse, "delete", id.String(), "")
	}
	respondSuccess(c, http.StatusOK, gin.H{"courses": s.courseViews(courses)})
}

// handleBeginEdit switches a course into edit mode.
func (s *Server) handleBeginEdit(c *gin.Context) {
	s.toggleEdit(c, true)
}

// handleCancelEdit leaves edit mode without saving.
func (s *Server) handleCancelEdit(c *gin.Context) {
	s.toggleEdit(c, false)
}

func (s *Server) toggleEdit(c *gin.Context, editing bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := s.state.Courses.Get(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if editing {
		s.state.Editing.Begin(id)
	} else {
		s.state.Editing.Cancel(id)
	}
	respondSuccess(c, http.StatusOK, gin.H{"course": s.courseView(course)})
}
