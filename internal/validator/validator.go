package validator

import (
	"github.com/aretw0/rehearse/pkg/domain"
)

// Reachable crawls the dialog tree from startNodeID and returns the visited node ids
// in discovery order, plus the targets that did not resolve to a node.
func Reachable(s *domain.Scenario, startNodeID string) (visited []string, missing []string) {
	seen := make(map[string]bool)
	missed := make(map[string]bool)
	queue := []string{startNodeID}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if seen[currentID] {
			continue
		}

		node, ok := s.Node(currentID)
		if !ok {
			if !missed[currentID] {
				missed[currentID] = true
				missing = append(missing, currentID)
			}
			continue
		}
		seen[currentID] = true
		visited = append(visited, currentID)

		for _, opt := range node.Options {
			if opt.NextID == nil {
				continue // Sink
			}
			if !seen[*opt.NextID] {
				queue = append(queue, *opt.NextID)
			}
		}
	}

	return visited, missing
}

// Unreachable returns the ids of nodes that cannot be reached from startNodeID,
// in declaration order.
func Unreachable(s *domain.Scenario, startNodeID string) []string {
	visited, _ := Reachable(s, startNodeID)
	seen := make(map[string]bool, len(visited))
	for _, id := range visited {
		seen[id] = true
	}

	var out []string
	for _, n := range s.Nodes() {
		if !seen[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// WalkResult describes a scripted path through the tree.
type WalkResult struct {
	Path       []string
	Terminated bool
}

// WalkOption follows option index choose(node) from startNodeID until a terminal
// option, a terminal node, or maxSteps replies. A choice outside the node's options
// falls back to the first option.
func WalkOption(s *domain.Scenario, startNodeID string, maxSteps int, choose func(domain.DialogNode) int) WalkResult {
	var res WalkResult
	currentID := startNodeID

	for step := 0; step < maxSteps; step++ {
		node, ok := s.Node(currentID)
		if !ok {
			return res
		}
		res.Path = append(res.Path, currentID)
		if node.Terminal() {
			res.Terminated = true
			return res
		}

		idx := choose(node)
		if idx < 0 || idx >= len(node.Options) {
			idx = 0
		}
		opt := node.Options[idx]
		if opt.Terminal() {
			res.Terminated = true
			return res
		}
		currentID = *opt.NextID
	}
	return res
}

// FirstOption always picks the first reply.
func FirstOption(domain.DialogNode) int { return 0 }
