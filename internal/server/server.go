package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"studyhub/internal/apperr"
	"studyhub/internal/models"
	"studyhub/internal/report"
	"studyhub/internal/session"
)

// Journal records applied mutations. It is optional.
type Journal interface {
	RecordActivity(ctx context.Context, a models.Activity) (models.Activity, error)
	ListActivity(ctx context.Context, store string, limit int) ([]models.Activity, error)
}

// Config holds host settings that are not part of the session state.
type Config struct {
	StaticDir string
	// Location decides which calendar day "today" is when the client does
	// not send one. Defaults to time.Local.
	Location *time.Location
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Server is the HTTP host of the course, task and feedback widgets.
type Server struct {
	engine   *gin.Engine
	state    *session.State
	journal  Journal
	exporter *report.Exporter
	logger   *slog.Logger
	cfg      Config

	// mu serializes API calls so one user action completes before the next.
	mu sync.Mutex
}

// New constructs the HTTP server with routes and middleware configured.
func New(state *session.State, journal Journal, logger *slog.Logger, cfg Config) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))

	srv := &Server{
		engine:   router,
		state:    state,
		journal:  journal,
		exporter: report.NewExporter(state),
		logger:   logger,
		cfg:      cfg,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler wraps the engine with CORS for the given origins. An empty list
// allows any origin.
func (s *Server) Handler(origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.engine)
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.GET("/healthz", s.handleHealth)

	serial := api.Group("", s.serialize)
	{
		courses := serial.Group("/courses")
		{
			courses.GET("", s.handleListCourses)
			courses.POST("", s.handleCreateCourse)
			courses.GET(":id", s.handleGetCourse)
			courses.PUT(":id", s.handleUpdateCourse)
			courses.DELETE(":id", s.handleDeleteCourse)
			courses.POST(":id/edit", s.handleBeginEdit)
			courses.DELETE(":id/edit", s.handleCancelEdit)
		}

		tasks := serial.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.POST(":id/complete", s.handleCompleteTask)
			tasks.DELETE(":id", s.handleDeleteTask)
		}

		serial.GET("/feedback", s.handleListFeedback)
		serial.POST("/feedback", s.handleCreateFeedback)

		serial.GET("/activity", s.handleListActivity)
		serial.GET("/report", s.handleReport)
	}

	s.mountStatic()
}

// serialize lets a single request touch the session state at a time.
func (s *Server) serialize(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Next()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// today returns the client-supplied reference day, or the server's.
func (s *Server) today(c *gin.Context) (models.Date, bool) {
	if raw := c.Query("today"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return models.Date{}, false
		}
		return d, true
	}
	return models.DateOf(s.cfg.Now().In(s.cfg.Location)), true
}

// parseID converts a path parameter to a UUID with error handling.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return uuid.Nil, false
	}
	return id, true
}

// record appends to the journal. Failures are logged and never surface to
// the client, since the mutation already happened.
func (s *Server) record(c *gin.Context, store, action, recordID, summary string) {
	if s.journal == nil {
		return
	}
	_, err := s.journal.RecordActivity(c.Request.Context(), models.Activity{
		Store:    store,
		Action:   action,
		RecordID: recordID,
		Summary:  summary,
	})
	if err != nil {
		s.logger.Warn("journal write failed", slog.String("store", store), slog.String("action", action), slog.String("error", err.Error()))
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail responds with the status matching a domain error.
func (s *Server) fail(c *gin.Context, err error) {
	s.respondError(c, statusFor(err), err)
}

// respondError logs the error and returns a JSON payload. Client mistakes
// are expected from stale UIs and only logged at warn level.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	attrs := []any{slog.String("path", c.FullPath()), slog.Int("status", status), slog.String("error", err.Error())}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
	} else {
		s.logger.Warn("request rejected", attrs...)
	}

	body := gin.H{"error": err.Error()}
	if fields := apperr.Fields(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(status, body)
}

// respondSuccess writes payload as JSON, or only the status when it is nil.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
