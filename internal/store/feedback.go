package store

import (
	"strings"

	"studyhub/internal/models"
	"studyhub/internal/validation"
)

type feedbackInput struct {
	Subject string `json:"subject" validate:"notblank"`
	Text    string `json:"text" validate:"notblank"`
}

// FeedbackStore is an append-only feedback log.
type FeedbackStore struct {
	entries []models.Feedback
}

// NewFeedbackStore returns an empty feedback log.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

// Add classifies the text and appends the entry. The text is kept as typed.
func (s *FeedbackStore) Add(subject, text string) (models.Feedback, error) {
	if err := validation.Struct(feedbackInput{Subject: subject, Text: text}); err != nil {
		return models.Feedback{}, err
	}
	fb := models.Feedback{
		Subject:   strings.TrimSpace(subject),
		Text:      text,
		Sentiment: Sentiment(text),
	}
	s.entries = append(s.entries, fb)
	return fb, nil
}

// List returns a copy of all feedback in submission order.
func (s *FeedbackStore) List() []models.Feedback {
	out := make([]models.Feedback, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *FeedbackStore) Len() int {
	return len(s.entries)
}

// Tally counts entries per sentiment.
func (s *FeedbackStore) Tally() map[models.Sentiment]int {
	out := map[models.Sentiment]int{
		models.SentimentPositive: 0,
		models.SentimentNegative: 0,
		models.SentimentNeutral:  0,
	}
	for _, fb := range s.entries {
		out[fb.Sentiment]++
	}
	return out
}
