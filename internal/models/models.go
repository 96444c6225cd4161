package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is a single entry of the course list.
type Course struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// TaskStatus is the lifecycle state of a to-do item. The only transition is
// Pending -> Completed.
type TaskStatus string

const (
	TaskPending   TaskStatus = "Pending"
	TaskCompleted TaskStatus = "Completed"
)

// Task represents a single to-do item with a deadline.
type Task struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Status   TaskStatus `json:"status"`
	Deadline Date       `json:"deadline"`
}

// Completed reports whether the task has been marked done.
func (t Task) Completed() bool {
	return t.Status == TaskCompleted
}

// Sentiment is the coarse mood label attached to feedback.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Feedback is a free-text comment about a subject.
type Feedback struct {
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
}

// Color is the display color of an urgency label.
type Color string

const (
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorGreen  Color = "green"
)

// Urgency is the derived deadline label of a task.
type Urgency struct {
	Label    string `json:"label"`
	Color    Color  `json:"color"`
	DaysLeft int    `json:"days_left"`
}

// Activity is one entry of the mutation journal.
type Activity struct {
	ID        int64     `json:"id"`
	Store     string    `json:"store"`
	Action    string    `json:"action"`
	RecordID  string    `json:"record_id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal store names.
const (
	StoreCourse   = "course"
	StoreTask     = "task"
	StoreFeedback = "feedback"
)
