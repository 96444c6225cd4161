package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/models"
	"studyhub/internal/session"
	"studyhub/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, time.October, 10, 15, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Server, *session.State) {
	t.Helper()
	journal, err := sqlite.Open(sqlite.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	state := session.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(state, journal, logger, Config{
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	return srv, state
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error  string `json:"error"`
	Fields []struct {
		Field string `json:"field"`
		Error string `json:"error"`
	} `json:"fields"`
}

type courseBody struct {
	Course courseView `json:"course"`
}

type coursesBody struct {
	Courses []courseView `json:"courses"`
}

type taskBody struct {
	Task       taskView `json:"task"`
	Suggestion string   `json:"suggestion"`
}

type tasksBody struct {
	Today string     `json:"today"`
	Tasks []taskView `json:"tasks"`
}

func TestHealth(t *testing.T) {
	srv, _ := setup(t)
	rec := do(t, srv, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCourseLifecycle(t *testing.T) {
	srv, state := setup(t)

	rec := do(t, srv, http.MethodPost, "/api/courses", courseRequest{Name: " Networks ", Description: "TCP/IP"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[courseBody](t, rec).Course
	assert.Equal(t, "Networks", created.Name)
	assert.False(t, created.Editing)

	path := "/api/courses/" + created.ID.String()

	rec = do(t, srv, http.MethodPost, path+"/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[courseBody](t, rec).Course.Editing)

	rec = do(t, srv, http.MethodGet, "/api/courses", nil)
	list := decode[coursesBody](t, rec).Courses
	require.Len(t, list, 1)
	assert.True(t, list[0].Editing)

	rec = do(t, srv, http.MethodPut, path, courseRequest{Name: "Computer Networks", Description: "layers"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[courseBody](t, rec).Course
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Computer Networks", updated.Name)
	assert.False(t, updated.Editing)

	rec = do(t, srv, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "layers", decode[courseBody](t, rec).Course.Description)

	rec = do(t, srv, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[coursesBody](t, rec).Courses)
	assert.Zero(t, state.Courses.Len())

	// deleting again is a no-op
	rec = do(t, srv, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseEditCancel(t *testing.T) {
	srv, state := setup(t)
	course, err := state.Courses.Add("Ethics", "")
	require.NoError(t, err)
	path := "/api/courses/" + course.ID.String() + "/edit"

	do(t, srv, http.MethodPost, path, nil)
	rec := do(t, srv, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[courseBody](t, rec).Course.Editing)
	assert.False(t, state.Editing.IsEditing(course.ID))

	rec = do(t, srv, http.MethodPost, "/api/courses/"+uuid.NewString()+"/edit", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseErrors(t *testing.T) {
	srv, state := setup(t)

	rec := do(t, srv, http.MethodPost, "/api/courses", courseRequest{Name: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "name cannot be empty", body.Error)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "name", body.Fields[0].Field)
	assert.Zero(t, state.Courses.Len())

	rec = do(t, srv, http.MethodPut, "/api/courses/"+uuid.NewString(), courseRequest{Name: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/courses/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/courses", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	raw := httptest.NewRecorder()
	srv.Engine().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestTaskFlow(t *testing.T) {
	srv, _ := setup(t)

	rec := do(t, srv, http.MethodPost, "/api/tasks", map[string]string{"name": "Physics exam", "deadline": "2024-10-10"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	exam := decode[taskBody](t, rec)
	assert.Equal(t, "Start revision 5 days earlier!", exam.Suggestion)
	assert.Equal(t, models.TaskPending, exam.Task.Status)
	assert.Equal(t, "Due in 0 days", exam.Task.Urgency.Label)
	assert.Equal(t, models.ColorOrange, exam.Task.Urgency.Color)

	rec = do(t, srv, http.MethodPost, "/api/tasks", map[string]string{"name": "Groceries", "deadline": "2024-10-09"})
	require.Equal(t, http.StatusCreated, rec.Code)
	groceries := decode[taskBody](t, rec)
	assert.Empty(t, groceries.Suggestion)
	assert.Equal(t, "Overdue!", groceries.Task.Urgency.Label)

	rec = do(t, srv, http.MethodPost, "/api/tasks/"+groceries.Task.ID.String()+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Completed", decode[taskBody](t, rec).Task.Urgency.Label)

	rec = do(t, srv, http.MethodGet, "/api/tasks", nil)
	list := decode[tasksBody](t, rec)
	assert.Equal(t, "2024-10-10", list.Today)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, exam.Task.ID, list.Tasks[0].ID)
	assert.Equal(t, groceries.Task.ID, list.Tasks[1].ID)

	// client supplied reference day
	rec = do(t, srv, http.MethodGet, "/api/tasks?today=2024-10-05", nil)
	list = decode[tasksBody](t, rec)
	assert.Equal(t, "Due in 5 days", list.Tasks[0].Urgency.Label)
	assert.Equal(t, models.ColorGreen, list.Tasks[0].Urgency.Color)

	rec = do(t, srv, http.MethodDelete, "/api/tasks/"+exam.Task.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[tasksBody](t, rec).Tasks, 1)
}

func TestTaskErrors(t *testing.T) {
	srv, state := setup(t)

	rec := do(t, srv, http.MethodPost, "/api/tasks", map[string]string{"name": "", "deadline": "2024-10-10"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/tasks", map[string]string{"name": "Essay"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "deadline is required", decode[errorBody](t, rec).Error)

	rec = do(t, srv, http.MethodPost, "/api/tasks", map[string]string{"name": "Essay", "deadline": "10/10/2024"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/tasks?today=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/tasks/"+uuid.NewString()+"/complete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Zero(t, state.Tasks.Len())
}

func TestFeedbackFlow(t *testing.T) {
	srv, _ := setup(t)

	rec := do(t, srv, http.MethodPost, "/api/feedback", feedbackRequest{Subject: "Statistics", Text: "The lecture was clear and easy"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Feedback models.Feedback `json:"feedback"`
	}](t, rec)
	assert.Equal(t, models.SentimentPositive, created.Feedback.Sentiment)

	rec = do(t, srv, http.MethodPost, "/api/feedback", feedbackRequest{Subject: "Statistics", Text: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text cannot be empty", decode[errorBody](t, rec).Error)

	rec = do(t, srv, http.MethodGet, "/api/feedback", nil)
	list := decode[struct {
		Feedback []models.Feedback        `json:"feedback"`
		Tally    map[models.Sentiment]int `json:"tally"`
	}](t, rec)
	require.Len(t, list.Feedback, 1)
	assert.Equal(t, 1, list.Tally[models.SentimentPositive])
	assert.Equal(t, 0, list.Tally[models.SentimentNegative])
}

func TestActivityJournal(t *testing.T) {
	srv, _ := setup(t)

	rec := do(t, srv, http.MethodPost, "/api/courses", courseRequest{Name: "Logic"})
	course := decode[courseBody](t, rec).Course
	do(t, srv, http.MethodPost, "/api/courses", courseRequest{Name: ""})
	do(t, srv, http.MethodPost, "/api/feedback", feedbackRequest{Subject: "Logic", Text: "boring"})
	do(t, srv, http.MethodDelete, "/api/courses/"+course.ID.String(), nil)
	do(t, srv, http.MethodDelete, "/api/courses/"+course.ID.String(), nil)

	type activityBody struct {
		Activity []models.Activity `json:"activity"`
	}

	rec = do(t, srv, http.MethodGet, "/api/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[activityBody](t, rec).Activity
	require.Len(t, all, 3)
	assert.Equal(t, "delete", all[0].Action)
	assert.Equal(t, models.StoreFeedback, all[1].Store)
	assert.Equal(t, "Logic: Negative", all[1].Summary)
	assert.Equal(t, course.ID.String(), all[2].RecordID)

	rec = do(t, srv, http.MethodGet, "/api/activity?store=course&limit=1", nil)
	limited := decode[activityBody](t, rec).Activity
	require.Len(t, limited, 1)
	assert.Equal(t, "delete", limited[0].Action)

	rec = do(t, srv, http.MethodGet, "/api/activity?store=grades", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/activity?limit=-3", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteTaskJournalsOnce(t *testing.T) {
	srv, state := setup(t)
	task, err := state.Tasks.Add("Lab write-up", models.NewDate(2024, time.October, 12))
	require.NoError(t, err)
	path := "/api/tasks/" + task.ID.String() + "/complete"

	for i := 0; i < 2; i++ {
		rec := do(t, srv, http.MethodPost, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.TaskCompleted, decode[taskBody](t, rec).Task.Status)
	}

	rec := do(t, srv, http.MethodGet, "/api/activity?store=task", nil)
	activity := decode[struct {
		Activity []models.Activity `json:"activity"`
	}](t, rec).Activity
	require.Len(t, activity, 1)
	assert.Equal(t, "complete", activity[0].Action)
}

func TestActivityWithoutJournal(t *testing.T) {
	srv := New(session.New(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)), Config{})
	rec := do(t, srv, http.MethodPost, "/api/courses", courseRequest{Name: "Art"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"activity":[]}`, rec.Body.String())
}

func TestReport(t *testing.T) {
	srv, state := setup(t)
	_, err := state.Courses.Add("Geometry", "")
	require.NoError(t, err)

	rec := do(t, srv, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "studyhub-2024-10-10.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = do(t, srv, http.MethodGet, "/api/report?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Geometry")

	rec = do(t, srv, http.MethodGet, "/api/report?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	srv, _ := setup(t)
	rec := do(t, srv, http.MethodGet, "/api/grades", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"endpoint not found"}`, rec.Body.String())
}

func TestStaticFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>hub</html>"), 0o600))

	srv := New(session.New(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)), Config{StaticDir: dir})

	rec := do(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hub")

	rec = do(t, srv, http.MethodGet, "/courses/anything", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hub")

	rec = do(t, srv, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSHandler(t *testing.T) {
	srv, _ := setup(t)
	h := srv.Handler([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
