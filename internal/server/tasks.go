package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhub/internal/models"
	"studyhub/internal/store"
)

type taskRequest struct {
	Name     string      `json:"name"`
	Deadline models.Date `json:"deadline"`
}

// taskView is a task plus its urgency for the requested day.
type taskView struct {
	models.Task
	Urgency models.Urgency `json:"urgency"`
}

func taskViews(tasks []models.Task, today models.Date) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView{Task: t, Urgency: store.Urgency(t, today)})
	}
	return views
}

// handleListTasks returns tasks pending-first, each group by deadline.
func (s *Server) handleListTasks(c *gin.Context) {
	today, ok := s.today(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"today": today,
		"tasks": taskViews(s.state.Tasks.List(), today),
	})
}

// handleCreateTask adds a pending task and returns any planning advice.
func (s *Server) handleCreateTask(c *gin.Context) {
	today, ok := s.today(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.state.Tasks.Add(req.Name, req.Deadline)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.record(c, models.StoreTask, "add", task.ID.String(), task.Name)

	body := gin.H{"task": taskView{Task: task, Urgency: store.Urgency(task, today)}}
	if suggestion := store.Suggest(task.Name); suggestion != "" {
		body["suggestion"] = suggestion
	}
	respondSuccess(c, http.StatusCreated, body)
}

// handleCompleteTask marks a task done. Repeats succeed without a journal entry.
func (s *Server) handleCompleteTask(c *gin.Context) {
	today, ok := s.today(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	before, err := s.state.Tasks.Get(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	task, err := s.state.Tasks.Complete(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !before.Completed() {
		s.record(c, models.StoreTask, "complete", id.String(), task.Name)
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": taskView{Task: task, Urgency: store.Urgency(task, today)}})
}

// handleDeleteTask removes a task. Unknown ids succeed without changes.
func (s *Server) handleDeleteTask(c *gin.Context) {
	today, ok := s.today(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	before := s.state.Tasks.Len()
	tasks := s.state.Tasks.Delete(id)
	if len(tasks) < before {
		s.record(c, models.StoreTask, "delete", id.String(), "")
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": taskViews(tasks, today)})
}
