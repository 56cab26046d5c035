package dto

import (
	"github.com/aretw0/rehearse/pkg/domain"
)

// ScenarioFile represents one scenario document as written on disk.
// It uses "mapstructure" tags so YAML and JSON sources decode through the same generic map.
type ScenarioFile struct {
	ID              string         `json:"id" mapstructure:"id"`
	Title           string         `json:"title" mapstructure:"title"`
	Description     string         `json:"description" mapstructure:"description"`
	Icon            string         `json:"icon" mapstructure:"icon"`
	Persona         PersonaFile    `json:"persona" mapstructure:"persona"`
	TotalTurns      int            `json:"total_turns" mapstructure:"total_turns"`
	DialogTree      []NodeFile     `json:"dialog_tree" mapstructure:"dialog_tree"`
	DynamicFeedback []BandFile     `json:"dynamic_feedback" mapstructure:"dynamic_feedback"`
	Feedback        FeedbackFile   `json:"feedback" mapstructure:"feedback"`
}

type PersonaFile struct {
	Name   string     `json:"name" mapstructure:"name"`
	Role   string     `json:"role" mapstructure:"role"`
	Avatar string     `json:"avatar" mapstructure:"avatar"`
	Voice  *VoiceFile `json:"voice" mapstructure:"voice"`
}

type VoiceFile struct {
	Preferred []string `json:"preferred" mapstructure:"preferred"`
	Pitch     float64  `json:"pitch" mapstructure:"pitch"`
	Rate      float64  `json:"rate" mapstructure:"rate"`
}

type NodeFile struct {
	ID      string       `json:"id" mapstructure:"id"`
	Message string       `json:"message" mapstructure:"message"`
	Options []OptionFile `json:"options" mapstructure:"options"`
}

type OptionFile struct {
	Text        string  `json:"text" mapstructure:"text"`
	Score       int     `json:"score" mapstructure:"score"`
	Next        *string `json:"next" mapstructure:"next"`
	Quality     string  `json:"quality" mapstructure:"quality"`
	CoachingTip string  `json:"coaching_tip" mapstructure:"coaching_tip"`
	Category    string  `json:"category" mapstructure:"category"`
}

type BandFile struct {
	Range        []int    `json:"range" mapstructure:"range"`
	Strengths    []string `json:"strengths" mapstructure:"strengths"`
	Improvements []string `json:"improvements" mapstructure:"improvements"`
	Tips         []string `json:"tips" mapstructure:"tips"`
}

type FeedbackFile struct {
	Strengths    []string `json:"strengths" mapstructure:"strengths"`
	Improvements []string `json:"improvements" mapstructure:"improvements"`
	Tips         []string `json:"tips" mapstructure:"tips"`
}

// ToDomain converts the file shape into a domain scenario.
// Duplicate node ids keep the first declaration; the duplicates are reported separately.
func (f ScenarioFile) ToDomain() (domain.Scenario, []string) {
	s := domain.Scenario{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Icon:        f.Icon,
		Persona: domain.Persona{
			Name:   f.Persona.Name,
			Role:   f.Persona.Role,
			Avatar: f.Persona.Avatar,
			Voice:  domain.DefaultVoice,
		},
		TotalTurns: f.TotalTurns,
		DialogTree: make(map[string]domain.DialogNode, len(f.DialogTree)),
		Feedback:   domain.FeedbackRecord(f.Feedback),
	}

	if v := f.Persona.Voice; v != nil {
		s.Persona.Voice = domain.VoiceProfile{
			PreferredVoices: v.Preferred,
			Pitch:           orDefault(v.Pitch, domain.DefaultVoice.Pitch),
			Rate:            orDefault(v.Rate, domain.DefaultVoice.Rate),
		}
	}

	var duplicates []string
	for _, n := range f.DialogTree {
		if _, exists := s.DialogTree[n.ID]; exists {
			duplicates = append(duplicates, n.ID)
			continue
		}
		node := domain.DialogNode{ID: n.ID, Message: n.Message}
		for _, o := range n.Options {
			node.Options = append(node.Options, domain.DialogOption{
				Text:        o.Text,
				Score:       o.Score,
				NextID:      o.Next,
				Quality:     domain.Quality(o.Quality),
				CoachingTip: o.CoachingTip,
				Category:    domain.Category(o.Category),
			})
		}
		s.DialogTree[n.ID] = node
		s.NodeOrder = append(s.NodeOrder, n.ID)
	}

	for _, b := range f.DynamicFeedback {
		band := domain.FeedbackBand{
			FeedbackRecord: domain.FeedbackRecord{
				Strengths:    b.Strengths,
				Improvements: b.Improvements,
				Tips:         b.Tips,
			},
		}
		if len(b.Range) > 0 {
			band.Min = b.Range[0]
			band.Max = b.Range[len(b.Range)-1]
		}
		s.DynamicFeedback = append(s.DynamicFeedback, band)
	}

	return s, duplicates
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
