package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/rehearse/pkg/domain"
)

// EndNodeID is the synthetic node closing replies point to.
const EndNodeID = "__end"

// maxLabel bounds the node caption taken from the candidate's line.
const maxLabel = 40

// Overlay contains conversation state to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFor derives the overlay from a conversation transcript.
func OverlayFor(c domain.Conversation) *Overlay {
	o := &Overlay{CurrentNode: c.CurrentNodeID}
	for _, entry := range c.Transcript {
		if entry.Speaker == domain.SpeakerPersona && entry.NodeID != "" {
			o.VisitedNodes = append(o.VisitedNodes, entry.NodeID)
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of a scenario's dialog tree.
// It applies semantic styling:
// - Start: ((Circle))
// - Node without replies: ([Stadium])
// - Default: [Rectangle]
// Edges carry the reply quality and score; poor replies are dotted.
// Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(s *domain.Scenario, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ends := false
	for _, node := range s.Nodes() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == domain.StartNodeID:
			opener, closer = "((", "))"
		case node.Terminal():
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s<br/>%s\"%s\n", safeID, opener, node.ID, caption(node.Message), closer)

		for _, opt := range node.Options {
			target := EndNodeID
			if !opt.Terminal() {
				target = *opt.NextID
			} else {
				ends = true
			}
			label := fmt.Sprintf("%s %d", opt.Quality, opt.Score)
			arrow := fmt.Sprintf("-- \"%s\" -->", label)
			if opt.Quality == domain.QualityPoor {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(target))
		}
	}
	if ends {
		fmt.Fprintf(&sb, "    %s(((\"end\")))\n", EndNodeID)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visited[safeID] && safeID != "" {
				visited[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func caption(message string) string {
	message = strings.ReplaceAll(message, "\"", "'")
	runes := []rune(message)
	if len(runes) > maxLabel {
		return strings.TrimSpace(string(runes[:maxLabel])) + "..."
	}
	return message
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
