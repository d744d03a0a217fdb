package agent

import (
	"fmt"
	"math"
	"strings"
)

// explorationConstant balances exploitation against exploration during
// selection. sqrt(2) is the textbook UCT value.
var explorationConstant = math.Sqrt2

type actionKind string

const (
	actionSearch actionKind = "search"
	actionAnswer actionKind = "answer"
)

// node is one candidate reasoning step in the search tree. Search nodes
// carry the query and its observation, answer nodes carry the proposed
// final recommendation.
type node struct {
	parent   *node
	children []*node
	depth    int

	action      actionKind
	query       string
	observation string
	answer      string

	visits      int
	totalReward float64
	score       float64
	done        bool
}

func (n *node) uct(c float64) float64 {
	if n.visits == 0 {
		return math.Inf(1)
	}
	exploit := n.totalReward / float64(n.visits)
	parentVisits := 1
	if n.parent != nil {
		parentVisits = n.parent.visits + 1
	}
	explore := c * math.Sqrt(math.Log(float64(parentVisits))/float64(n.visits))
	return exploit + explore
}

// selectLeaf descends from n picking the child with the highest UCT value,
// skipping nodes which already hold a final answer. Returns the most
// promising expandable node.
func (n *node) selectLeaf(c float64) *node {
	cur := n
	for len(cur.children) > 0 {
		var best *node
		bestScore := math.Inf(-1)
		for _, ch := range cur.children {
			if ch.done {
				continue
			}
			if s := ch.uct(c); s > bestScore {
				best, bestScore = ch, s
			}
		}
		if best == nil {
			// All children are terminal, expand more siblings here
			return cur
		}
		cur = best
	}
	return cur
}

// backpropagate the reward up to the root.
func (n *node) backpropagate(reward float64) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits++
		cur.totalReward += reward
	}
}

// bestAnswer returns the highest scoring usable answer node in the subtree,
// nil when no usable answer was produced. Stall answers are skipped so a
// high-scoring stall cannot shadow a lower-scoring real answer.
func (n *node) bestAnswer() *node {
	var best *node
	for _, ch := range n.children {
		if sub := ch.bestAnswer(); sub != nil && (best == nil || sub.score > best.score) {
			best = sub
		}
	}
	usable := n.action == actionAnswer && strings.TrimSpace(n.answer) != "" && !isStillThinking(n.answer)
	if usable && (best == nil || n.score > best.score) {
		best = n
	}
	return best
}

// deepestObservation walks the first-child spine and returns the deepest
// search observation. This is the fallback surfaced when the model never
// commits to an answer.
func (n *node) deepestObservation() string {
	obs := ""
	for cur := n; cur != nil; {
		if cur.action == actionSearch && strings.TrimSpace(cur.observation) != "" {
			obs = cur.observation
		}
		if len(cur.children) == 0 {
			break
		}
		cur = cur.children[0]
	}
	return obs
}

// trajectory renders the path from the root down to n for prompting.
func (n *node) trajectory() string {
	var steps []*node
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		steps = append([]*node{cur}, steps...)
	}
	if len(steps) == 0 {
		return "(no steps taken yet)"
	}
	var b strings.Builder
	for i, s := range steps {
		switch s.action {
		case actionSearch:
			b.WriteString(fmt.Sprintf("step %d: searched '%v'\n", i+1, s.query))
			b.WriteString("observation:\n")
			b.WriteString(s.observation)
			b.WriteString("\n")
		case actionAnswer:
			b.WriteString(fmt.Sprintf("step %d: proposed answer:\n%v\n", i+1, s.answer))
		}
	}
	return strings.TrimSpace(b.String())
}
