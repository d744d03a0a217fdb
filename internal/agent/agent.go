// Package agent runs a language agent tree search (LATS) over candidate
// reasoning steps: each rollout expands the most promising node with a few
// candidate next steps, executes their searches, scores the resulting
// trajectories with the model itself and backpropagates the reward.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/models"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/tools"
)

// LLM is the completion surface the agent drives. Implemented by the
// sambanova vendor client.
type LLM interface {
	StreamCompletions(ctx context.Context, chat models.Chat) (chan models.CompletionEvent, error)
}

type Agent struct {
	llm            LLM
	numExpansions  int
	maxRollouts    int
	maxDepth       int
	scoreThreshold float64
	systemPrompt   string
	debug          bool
}

// Result carries the final recommendation and bookkeeping about the search.
type Result struct {
	Answer     string  `json:"answer"`
	BestScore  float64 `json:"best_score"`
	Expansions int     `json:"expansions"`
	Searches   int     `json:"searches"`
	// FromObservation is true when the model never committed to an answer
	// and the deepest search observation was surfaced instead.
	FromObservation bool `json:"from_observation"`
}

// New constructs an Agent with optional configuration.
func New(llm LLM, options ...Option) *Agent {
	a := &Agent{
		llm:            llm,
		numExpansions:  2,
		maxRollouts:    2,
		maxDepth:       5,
		scoreThreshold: 7,
		systemPrompt:   DefaultSystemPrompt,
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// Answer runs the tree search until a passing answer is produced or the
// rollout budget is exhausted. Blocking operation.
func (a *Agent) Answer(ctx context.Context, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, errors.New("question is empty")
	}
	if a.llm == nil {
		return Result{}, errors.New("llm is not configured")
	}

	root := &node{}
	res := Result{}

	for rollout := 0; rollout < a.maxRollouts; rollout++ {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		leaf := root.selectLeaf(explorationConstant)
		if leaf.depth >= a.maxDepth {
			continue
		}

		for i := 0; i < a.numExpansions; i++ {
			child, err := a.expand(ctx, question, leaf)
			if err != nil {
				return res, fmt.Errorf("expansion %v of rollout %v failed: %w", i, rollout, err)
			}
			res.Expansions++
			if child.action == actionSearch {
				res.Searches++
			}

			score, done, err := a.evaluate(ctx, question, child)
			if err != nil && a.debug {
				ancli.PrintWarn(fmt.Sprintf("evaluation fell back to neutral score: %v\n", err))
			}
			child.score = score
			child.done = done && child.action == actionAnswer && !isStillThinking(child.answer)
			child.backpropagate(score)

			if a.debug {
				ancli.Okf("rollout %v expansion %v: action=%v score=%v done=%v\n", rollout, i, child.action, score, child.done)
			}

			if child.done && score >= a.scoreThreshold {
				res.Answer = child.answer
				res.BestScore = score
				return res, nil
			}
		}
	}

	// Rollout budget exhausted, surface the best answer seen so far
	if best := root.bestAnswer(); best != nil {
		res.Answer = best.answer
		res.BestScore = best.score
		return res, nil
	}

	// No usable answer. Mirror the UI behavior of digging the deepest
	// observation out of the tree instead of echoing model stalling.
	if obs := root.deepestObservation(); obs != "" {
		res.Answer = obs
		res.FromObservation = true
		return res, nil
	}
	return res, errors.New("search exhausted without an answer or observation")
}

// expand asks the model for one candidate next step from leaf and attaches
// it to the tree. Search steps are executed immediately so the observation
// is available to deeper expansions.
func (a *Agent) expand(ctx context.Context, question string, leaf *node) (*node, error) {
	chat := models.Chat{Messages: []models.Message{
		{Role: "system", Content: a.systemPrompt},
		{Role: "user", Content: buildExpansionPrompt(question, leaf.trajectory())},
	}}
	text, calls, err := a.complete(ctx, chat)
	if err != nil {
		return nil, fmt.Errorf("failed to complete expansion: %w", err)
	}

	child := &node{parent: leaf, depth: leaf.depth + 1}
	if call, ok := firstSearchCall(calls); ok {
		child.action = actionSearch
		child.query, _ = call.Inputs["query"].(string)
		child.observation = tools.Invoke(call)
	} else {
		d := parseDecision(text)
		child.action = d.action
		child.query = d.query
		child.answer = d.answer
		if d.action == actionSearch {
			call := models.Call{Name: "search", Inputs: models.Input{"query": d.query}}
			call.Patch()
			child.observation = tools.Invoke(call)
		}
	}
	leaf.children = append(leaf.children, child)
	return child, nil
}

// evaluate asks the model to score the trajectory ending in n.
func (a *Agent) evaluate(ctx context.Context, question string, n *node) (float64, bool, error) {
	chat := models.Chat{Messages: []models.Message{
		{Role: "system", Content: evaluatorSystemPrompt},
		{Role: "user", Content: buildEvaluationPrompt(question, n.trajectory())},
	}}
	text, _, err := a.complete(ctx, chat)
	if err != nil {
		return 0, false, fmt.Errorf("failed to complete evaluation: %w", err)
	}
	return parseEvaluation(text)
}

// complete drains one streamed completion into the full text plus any tool
// calls the model requested.
func (a *Agent) complete(ctx context.Context, chat models.Chat) (string, []models.Call, error) {
	events, err := a.llm.StreamCompletions(ctx, chat)
	if err != nil {
		return "", nil, fmt.Errorf("failed to stream completions: %w", err)
	}
	var text strings.Builder
	var calls []models.Call
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return text.String(), calls, nil
			}
			switch e := ev.(type) {
			case string:
				text.WriteString(e)
			case models.Call:
				calls = append(calls, e)
			case error:
				if errors.Is(e, io.EOF) {
					return text.String(), calls, nil
				}
				return text.String(), calls, fmt.Errorf("completion event error: %w", e)
			case models.NoopEvent:
			}
		case <-ctx.Done():
			return text.String(), calls, ctx.Err()
		}
	}
}

func firstSearchCall(calls []models.Call) (models.Call, bool) {
	for _, c := range calls {
		if c.Name == "search" {
			return c, true
		}
	}
	return models.Call{}, false
}

func isStillThinking(answer string) bool {
	return strings.Contains(answer, StillThinkingMessage)
}
