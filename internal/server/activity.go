package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studyhub/internal/models"
	"studyhub/internal/report"
)

// handleListActivity returns the newest journal entries, optionally for one
// store.
func (s *Server) handleListActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	storeName := c.Query("store")
	switch storeName {
	case "", models.StoreCourse, models.StoreTask, models.StoreFeedback:
	default:
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("unknown store %q", storeName))
		return
	}

	if s.journal == nil {
		respondSuccess(c, http.StatusOK, gin.H{"activity": []models.Activity{}})
		return
	}
	activity, err := s.journal.ListActivity(c.Request.Context(), storeName, limit)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"activity": activity})
}

// handleReport downloads a snapshot of the session as PDF or CSV.
func (s *Server) handleReport(c *gin.Context) {
	today, ok := s.today(c)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", report.FormatPDF)
	if format != report.FormatPDF && format != report.FormatCSV {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("unknown format %q", format))
		return
	}

	out, err := s.exporter.Export(format, today)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="studyhub-%s.%s"`, today, format))
	c.Data(http.StatusOK, report.ContentType(format), out)
}
