package catalog

import (
	"fmt"
	"strings"
)

// Preferences is the user input gathered by the UI.
type Preferences struct {
	Category     string   `json:"category"`
	Budget       int      `json:"budget"`
	Features     []string `json:"features,omitempty"`
	Requirements string   `json:"requirements,omitempty"`
}

// Validate the preferences against the catalog and the budget bounds.
func (p Preferences) Validate() error {
	if _, ok := Get(p.Category); !ok {
		return fmt.Errorf("unknown category: '%v'", p.Category)
	}
	if p.Budget < 0 || p.Budget > MaxBudget {
		return fmt.Errorf("budget must be between 0 and %v, got: %v", MaxBudget, p.Budget)
	}
	return ValidateFeatures(p.Category, p.Features)
}

// BuildQuery renders the natural language query handed to the agent:
// "Looking for a <category> under $<budget> with <features>. Additional
// requirements: <requirements>"
func (p Preferences) BuildQuery() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Looking for a %v under $%v", strings.ToLower(p.Category), p.Budget))
	if len(p.Features) > 0 {
		b.WriteString(fmt.Sprintf(" with %v", strings.Join(p.Features, ", ")))
	}
	if strings.TrimSpace(p.Requirements) != "" {
		b.WriteString(fmt.Sprintf(". Additional requirements: %v", p.Requirements))
	}
	return b.String()
}
