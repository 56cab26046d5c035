package feedback

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/rehearse/pkg/domain"
)

// RenderMarkdown formats a report for terminals and the HTTP API.
func RenderMarkdown(r domain.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.ScenarioTitle)
	fmt.Fprintf(&sb, "**Score: %d/10** · %s\n\n", r.Score, r.Label)
	fmt.Fprintf(&sb, "%d replies", r.Turns)
	if r.Duration > 0 {
		fmt.Fprintf(&sb, " in %s", formatDuration(r.Duration))
	}
	sb.WriteString("\n\n")

	if len(r.Categories) > 0 {
		sb.WriteString("## Categories\n\n")
		sb.WriteString("| Category | Score | Replies |\n|---|---|---|\n")
		for _, c := range r.Categories {
			fmt.Fprintf(&sb, "| %s | %d%% (%s) | %d |\n", c.Label, c.Percent, c.Grade, c.Replies)
		}
		sb.WriteString("\n")
	}

	section(&sb, "Strengths", r.Feedback.Strengths)
	section(&sb, "Areas to Improve", r.Feedback.Improvements)
	section(&sb, "Tips", r.Feedback.Tips)

	if len(r.Transcript) > 0 {
		sb.WriteString("## Transcript\n\n")
		for _, e := range r.Transcript {
			fmt.Fprintf(&sb, "**%s:** %s\n", e.Name, e.Text)
			if e.Speaker == domain.SpeakerUser && e.CoachingTip != "" {
				fmt.Fprintf(&sb, "> _%s_ · %s\n", e.Quality.Label(), e.CoachingTip)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func section(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
