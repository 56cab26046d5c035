package domain

// StartNodeID is the entry point of every dialog tree.
const StartNodeID = "start"

// Quality is the rubric label attached to every interviewer reply.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityAdequate  Quality = "adequate"
	QualityPoor      Quality = "poor"
)

// Valid reports whether q is one of the known labels.
func (q Quality) Valid() bool {
	switch q {
	case QualityExcellent, QualityAdequate, QualityPoor:
		return true
	}
	return false
}

// Label is the human-readable badge shown next to coaching tips.
func (q Quality) Label() string {
	switch q {
	case QualityExcellent:
		return "Excellent"
	case QualityAdequate:
		return "Adequate"
	case QualityPoor:
		return "Needs Work"
	}
	return string(q)
}

// Category is the rubric dimension an interviewer reply is scored under.
type Category string

const (
	CategoryQuestioning   Category = "questioning"
	CategoryRapport       Category = "rapport"
	CategoryStructure     Category = "structure"
	CategoryBiasAwareness Category = "bias-awareness"
)

// Categories lists every rubric dimension in display order.
var Categories = []Category{
	CategoryQuestioning,
	CategoryRapport,
	CategoryStructure,
	CategoryBiasAwareness,
}

// Valid reports whether c is one of the known dimensions.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label is the heading used in reports.
func (c Category) Label() string {
	switch c {
	case CategoryQuestioning:
		return "Question Quality"
	case CategoryRapport:
		return "Rapport & Empathy"
	case CategoryStructure:
		return "Interview Structure"
	case CategoryBiasAwareness:
		return "Bias Awareness"
	}
	return string(c)
}

// DialogOption is one reply the interviewer can give at a node.
type DialogOption struct {
	Text        string   `json:"text" yaml:"text"`
	Score       int      `json:"score" yaml:"score"`
	NextID      *string  `json:"next_id" yaml:"next"` // nil ends the interview
	Quality     Quality  `json:"quality" yaml:"quality"`
	CoachingTip string   `json:"coaching_tip" yaml:"coaching_tip"`
	Category    Category `json:"category" yaml:"category"`
}

// Terminal reports whether choosing this option ends the conversation.
func (o DialogOption) Terminal() bool {
	return o.NextID == nil
}

// DialogNode is a scripted candidate line and the replies available after it.
// A node without options is terminal.
type DialogNode struct {
	ID      string         `json:"id" yaml:"id"`
	Message string         `json:"message" yaml:"message"`
	Options []DialogOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// Terminal reports whether the node offers no replies.
func (n DialogNode) Terminal() bool {
	return len(n.Options) == 0
}
