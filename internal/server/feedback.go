package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhub/internal/models"
)

type feedbackRequest struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// handleListFeedback returns all feedback with per-sentiment counts.
func (s *Server) handleListFeedback(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{
		"feedback": s.state.Feedback.List(),
		"tally":    s.state.Feedback.Tally(),
	})
}

// handleCreateFeedback stores a feedback entry with its sentiment.
func (s *Server) handleCreateFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	fb, err := s.state.Feedback.Add(req.Subject, req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.record(c, models.StoreFeedback, "add", "", fb.Subject+": "+string(fb.Sentiment))
	respondSuccess(c, http.StatusCreated, gin.H{"feedback": fb})
}
