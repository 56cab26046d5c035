// Package feedback compiles the end-of-session report from a finished conversation.
package feedback

import (
	"math"
	"time"

	"github.com/aretw0/rehearse/pkg/domain"
)

// NormalizeScore maps a raw total onto 0..10.
// Zero turns yield 0.
func NormalizeScore(total, turns, maxOptionScore int) int {
	if turns <= 0 || maxOptionScore <= 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(turns*maxOptionScore) * 10))
}

// Label returns the headline for a normalized score.
func Label(score int) string {
	switch {
	case score >= 8:
		return "Excellent!"
	case score >= 6:
		return "Good job!"
	case score >= 4:
		return "Room for improvement"
	}
	return "Needs work"
}

// GradeFor buckets a category percentage.
func GradeFor(percent int) domain.Grade {
	switch {
	case percent >= 75:
		return domain.GradeGood
	case percent >= 50:
		return domain.GradeOK
	}
	return domain.GradePoor
}

// SelectFeedback picks the band containing score, else the band with the
// highest upper bound, else the scenario's static feedback.
func SelectFeedback(s *domain.Scenario, score int) domain.FeedbackRecord {
	if len(s.DynamicFeedback) == 0 {
		return s.Feedback
	}
	for _, band := range s.DynamicFeedback {
		if band.Contains(score) {
			return band.FeedbackRecord
		}
	}
	top := s.DynamicFeedback[0]
	for _, band := range s.DynamicFeedback[1:] {
		if band.Max > top.Max {
			top = band
		}
	}
	return top.FeedbackRecord
}

// Compile builds the report. It does not modify its inputs and returns the
// same report for the same inputs.
func Compile(s *domain.Scenario, c domain.Conversation) domain.Report {
	maxScore := s.MaxOptionScore()
	score := NormalizeScore(c.TotalScore, c.TurnCount, maxScore)

	report := domain.Report{
		ScenarioID:    s.ID,
		ScenarioTitle: s.Title,
		PersonaName:   s.Persona.Name,
		Score:         score,
		Label:         Label(score),
		TotalScore:    c.TotalScore,
		Turns:         c.TurnCount,
		Categories:    []domain.CategoryResult{},
		Feedback:      SelectFeedback(s, score),
		Transcript:    append([]domain.TranscriptEntry{}, c.Transcript...),
	}
	if !c.FinishedAt.IsZero() {
		report.Duration = c.FinishedAt.Sub(c.StartedAt).Truncate(time.Second)
	}

	for _, cat := range domain.Categories {
		count := c.CategoryCount[cat]
		if count <= 0 {
			continue
		}
		pct := int(math.Round(float64(c.CategoryScore[cat]) / float64(count*maxScore) * 100))
		report.Categories = append(report.Categories, domain.CategoryResult{
			Category: cat,
			Label:    cat.Label(),
			Percent:  pct,
			Replies:  count,
			Grade:    GradeFor(pct),
		})
	}

	return report
}
