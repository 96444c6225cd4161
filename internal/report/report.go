package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"studyhub/internal/models"
	"studyhub/internal/session"
	"studyhub/internal/store"
)

// Supported export formats.
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/pdf"
}

// Exporter renders a snapshot of the session state.
type Exporter struct{ state *session.State }

func NewExporter(state *session.State) *Exporter { return &Exporter{state: state} }

// Export renders the snapshot in the given format, using today for task
// urgency.
func (e *Exporter) Export(format string, today models.Date) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatPDF:
		return e.pdf(today)
	case FormatCSV:
		return e.csv(today)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

func (e *Exporter) pdf(today models.Date) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Student Productivity Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated for "+today.String())
	pdf.Ln(10)

	heading := func(title string) {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 10)
	}
	line := func(s string) {
		pdf.MultiCell(0, 6, tr(s), "0", "L", false)
	}

	heading("Courses")
	courses := e.state.Courses.List()
	if len(courses) == 0 {
		line("No courses added yet.")
	}
	for _, c := range courses {
		desc := c.Description
		if desc == "" {
			desc = "No description provided."
		}
		line(fmt.Sprintf("%s: %s", c.Name, desc))
	}
	pdf.Ln(4)

	heading("Tasks")
	tasks := e.state.Tasks.List()
	if len(tasks) == 0 {
		line("No tasks added yet.")
	}
	for _, t := range tasks {
		u := store.Urgency(t, today)
		pdf.SetTextColor(colorRGB(u.Color))
		line(fmt.Sprintf("%s (Deadline: %s - %s) Status: %s", t.Name, t.Deadline, u.Label, t.Status))
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	heading("Feedback")
	tally := e.state.Feedback.Tally()
	line(fmt.Sprintf("Positive: %d  Negative: %d  Neutral: %d",
		tally[models.SentimentPositive], tally[models.SentimentNegative], tally[models.SentimentNeutral]))
	for _, fb := range e.state.Feedback.List() {
		line(fmt.Sprintf("%s: %s | Sentiment: %s", fb.Subject, strings.TrimSpace(fb.Text), fb.Sentiment))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) csv(today models.Date) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"kind", "id", "name", "detail", "status", "label"})
	for _, c := range e.state.Courses.List() {
		_ = w.Write([]string{models.StoreCourse, c.ID.String(), c.Name, c.Description, "", ""})
	}
	for _, t := range e.state.Tasks.List() {
		u := store.Urgency(t, today)
		_ = w.Write([]string{models.StoreTask, t.ID.String(), t.Name, t.Deadline.String(), string(t.Status), u.Label})
	}
	for _, fb := range e.state.Feedback.List() {
		_ = w.Write([]string{models.StoreFeedback, "", fb.Subject, fb.Text, "", string(fb.Sentiment)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func colorRGB(c models.Color) (int, int, int) {
	switch c {
	case models.ColorRed:
		return 220, 38, 38
	case models.ColorOrange:
		return 234, 88, 12
	case models.ColorGreen:
		return 5, 150, 105
	default:
		return 128, 128, 128
	}
}
