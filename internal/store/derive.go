package store

import (
	"fmt"
	"strings"

	"studyhub/internal/models"
)

// Urgency labels a task relative to today.
func Urgency(t models.Task, today models.Date) models.Urgency {
	daysLeft := t.Deadline.Sub(today)
	switch {
	case t.Completed():
		return models.Urgency{Label: "Completed", Color: models.ColorGray, DaysLeft: daysLeft}
	case daysLeft < 0:
		return models.Urgency{Label: "Overdue!", Color: models.ColorRed, DaysLeft: daysLeft}
	case daysLeft <= 2:
		return models.Urgency{Label: dueIn(daysLeft), Color: models.ColorOrange, DaysLeft: daysLeft}
	default:
		return models.Urgency{Label: dueIn(daysLeft), Color: models.ColorGreen, DaysLeft: daysLeft}
	}
}

func dueIn(days int) string {
	return fmt.Sprintf("Due in %d days", days)
}

// Suggest returns planning advice for a task name, or "" when there is none.
// The advice is never stored.
func Suggest(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "assignment"):
		return "Set deadline before course submission date!"
	case strings.Contains(lower, "exam"):
		return "Start revision 5 days earlier!"
	default:
		return ""
	}
}

var (
	positiveWords = []string{"good", "easy", "simple", "helpful", "clear", "excellent"}
	negativeWords = []string{"hard", "difficult", "boring", "confusing", "poor", "tight"}
)

// Sentiment classifies text by counting keyword substrings. Mixed signals
// are Neutral.
func Sentiment(text string) models.Sentiment {
	lower := strings.ToLower(text)
	pos := countContained(lower, positiveWords)
	neg := countContained(lower, negativeWords)
	switch {
	case pos > 0 && neg > 0:
		return models.SentimentNeutral
	case pos > 0:
		return models.SentimentPositive
	case neg > 0:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func countContained(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}
