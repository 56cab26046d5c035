package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`           _                              `, "#818cf8"},
	{`  _ __ ___| |__   ___  __ _ _ __ ___  ___ `, "#a78bfa"},
	{` | '__/ _ \ '_ \ / _ \/ _' | '__/ __|/ _ \`, "#c084fc"},
	{` | | |  __/ | | |  __/ (_| | |  \__ \  __/`, "#e879f9"},
	{` |_|  \___|_| |_|\___|\__,_|_|  |___/\___|`, "#f472b6"},
}

// PrintBanner writes the ASCII art banner with a gradient when the terminal supports color.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// QualityBadge colors a reply quality label: green, amber or red.
func QualityBadge(q domain.Quality) string {
	return badge(q.Label(), qualityColor(q))
}

// GradeBadge colors a category grade the same way as qualities.
func GradeBadge(g domain.Grade) string {
	switch g {
	case domain.GradeGood:
		return badge(string(g), "#22c55e")
	case domain.GradeOK:
		return badge(string(g), "#f59e0b")
	default:
		return badge(string(g), "#ef4444")
	}
}

// Dim renders secondary text such as the typing indicator.
func Dim(s string) string {
	return termenv.String(s).Faint().String()
}

func qualityColor(q domain.Quality) string {
	switch q {
	case domain.QualityExcellent:
		return "#22c55e"
	case domain.QualityAdequate:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}

func badge(label, color string) string {
	p := termenv.EnvColorProfile()
	return termenv.String(" " + label + " ").Bold().Foreground(p.Color(color)).String()
}
