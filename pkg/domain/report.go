package domain

import "time"

// Grade buckets a category percentage for display.
type Grade string

const (
	GradeGood Grade = "good"
	GradeOK   Grade = "ok"
	GradePoor Grade = "poor"
)

// CategoryResult is the per-dimension breakdown of a report.
type CategoryResult struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Percent  int      `json:"percent"`
	Replies  int      `json:"replies"`
	Grade    Grade    `json:"grade"`
}

// Report is the end-of-session summary.
type Report struct {
	ScenarioID    string            `json:"scenario_id"`
	ScenarioTitle string            `json:"scenario_title"`
	PersonaName   string            `json:"persona_name"`
	Score         int               `json:"score"` // normalized 0..10
	Label         string            `json:"label"`
	TotalScore    int               `json:"total_score"`
	Turns         int               `json:"turns"`
	Categories    []CategoryResult  `json:"categories"`
	Feedback      FeedbackRecord    `json:"feedback"`
	Duration      time.Duration     `json:"duration"`
	Transcript    []TranscriptEntry `json:"transcript"`
}
