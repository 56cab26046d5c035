package dsl

import "github.com/aretw0/rehearse/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node domain.DialogNode
}

// Says sets the candidate's scripted line.
func (n *NodeBuilder) Says(message string) *NodeBuilder {
	n.node.Message = message
	return n
}

// Reply adds a suggested interviewer reply. An empty next ends the interview.
func (n *NodeBuilder) Reply(text string, score int, quality domain.Quality, category domain.Category, next string) *NodeBuilder {
	opt := domain.DialogOption{
		Text:     text,
		Score:    score,
		Quality:  quality,
		Category: category,
	}
	if next != "" {
		opt.NextID = &next
	}
	n.node.Options = append(n.node.Options, opt)
	return n
}

// Tip sets the coaching tip of the last reply added.
func (n *NodeBuilder) Tip(tip string) *NodeBuilder {
	if len(n.node.Options) > 0 {
		n.node.Options[len(n.node.Options)-1].CoachingTip = tip
	}
	return n
}
