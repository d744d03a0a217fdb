package agent

// Option configures an Agent.
type Option func(*Agent)

// WithNumExpansions sets how many candidate steps each rollout expands.
func WithNumExpansions(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.numExpansions = n
		}
	}
}

// WithMaxRollouts caps the number of selection/expansion rounds.
func WithMaxRollouts(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxRollouts = n
		}
	}
}

// WithMaxDepth caps the trajectory length.
func WithMaxDepth(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxDepth = n
		}
	}
}

// WithScoreThreshold sets the evaluation score a finished answer must reach
// to end the search early.
func WithScoreThreshold(s float64) Option {
	return func(a *Agent) {
		a.scoreThreshold = s
	}
}

// WithSystemPrompt overrides the system prompt used for expansions.
func WithSystemPrompt(p string) Option {
	return func(a *Agent) {
		if p != "" {
			a.systemPrompt = p
		}
	}
}

// WithDebug enables verbose logging of rollouts.
func WithDebug(d bool) Option {
	return func(a *Agent) {
		a.debug = d
	}
}
