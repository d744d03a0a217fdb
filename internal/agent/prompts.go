package agent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultSystemPrompt primes the model as a product recommendation expert.
const DefaultSystemPrompt = "You are a product recommendation expert. You ground every recommendation " +
	"in current market information gathered through the search tool. Recommend concrete, currently " +
	"available products with approximate prices, and explain how each matches the user's requirements. " +
	"Present recommendations as a numbered list, best match first."

const evaluatorSystemPrompt = "You are a strict evaluator of product research trajectories. " +
	"Judge whether the steps taken so far gather relevant, recent market information and whether a " +
	"proposed answer actually satisfies the user's budget and feature requirements. " +
	"Reply with exactly two lines:\nScore: <0-10>\nDone: <yes/no>"

// StillThinkingMessage is what the model emits when it refuses to commit to
// an answer. It must never reach the user verbatim.
const StillThinkingMessage = "I am still thinking."

type decision struct {
	action actionKind
	query  string
	answer string
}

func buildExpansionPrompt(question string, trajectory string) string {
	var b strings.Builder
	b.WriteString("User request:\n")
	b.WriteString(question)
	b.WriteString("\n\nSteps taken so far:\n")
	b.WriteString(trajectory)
	b.WriteString("\n\nPropose the single best next step. Either call the search tool ")
	b.WriteString("to gather more market information, or, when the observations above already ")
	b.WriteString("cover the request, reply with your final recommendations in this format:\n")
	b.WriteString("Action: Answer\n<numbered product recommendations>\n\n")
	b.WriteString("To search without the tool, reply:\nAction: Search\nQuery: <search query>\n")
	return b.String()
}

func buildEvaluationPrompt(question, trajectory string) string {
	var b strings.Builder
	b.WriteString("User request:\n")
	b.WriteString(question)
	b.WriteString("\n\nTrajectory:\n")
	b.WriteString(trajectory)
	b.WriteString("\n\nScore the trajectory and state whether it is done.")
	return b.String()
}

var (
	actionRe = regexp.MustCompile(`(?im)^\s*action:\s*(search|answer)\s*$`)
	queryRe  = regexp.MustCompile(`(?im)^\s*query:\s*(.+)$`)
	scoreRe  = regexp.MustCompile(`(?im)^\s*score:\s*([0-9]+(?:\.[0-9]+)?)`)
	doneRe   = regexp.MustCompile(`(?im)^\s*done:\s*(yes|no|true|false)`)
)

// parseDecision interprets the expansion response. A missing action line
// means the model skipped the protocol and answered directly, which is
// treated as an answer proposal.
func parseDecision(text string) decision {
	text = strings.TrimSpace(text)
	m := actionRe.FindStringSubmatch(text)
	if m == nil {
		return decision{action: actionAnswer, answer: text}
	}
	switch strings.ToLower(m[1]) {
	case "search":
		if qm := queryRe.FindStringSubmatch(text); qm != nil {
			return decision{action: actionSearch, query: strings.TrimSpace(qm[1])}
		}
		// Search action without a query is useless, fall back to answer
		return decision{action: actionAnswer, answer: text}
	default:
		answer := strings.TrimSpace(actionRe.ReplaceAllString(text, ""))
		return decision{action: actionAnswer, answer: answer}
	}
}

// parseEvaluation extracts score and done from the evaluator response.
// Unparsable responses get a neutral score so a single malformed evaluation
// cannot sink or crown a trajectory.
func parseEvaluation(text string) (score float64, done bool, err error) {
	score = 5
	if m := scoreRe.FindStringSubmatch(text); m != nil {
		parsed, perr := strconv.ParseFloat(m[1], 64)
		if perr == nil {
			score = parsed
		}
	} else {
		err = fmt.Errorf("no score found in evaluation: %q", text)
	}
	if m := doneRe.FindStringSubmatch(text); m != nil {
		v := strings.ToLower(m[1])
		done = v == "yes" || v == "true"
	}
	return score, done, err
}
