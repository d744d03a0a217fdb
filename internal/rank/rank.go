// Package rank turns the agent's free-text recommendation into an ordered
// product list. Scoring is a configurable formula so the ordering can be
// tuned without a rebuild.
package rank

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/catalog"
)

// DefaultFormula keeps the model's ordering as the baseline, boosts entries
// that mention requested features and entries that fit the budget.
const DefaultFormula = "10.0 - position + 2.0 * feature_hits + (within_budget ? 3.0 : 0.0)"

// Product is one extracted recommendation entry.
type Product struct {
	Position int     `json:"position"`
	Name     string  `json:"name"`
	Price    float64 `json:"price,omitempty"`
	HasPrice bool    `json:"has_price"`
	Detail   string  `json:"detail"`
	Score    float64 `json:"score"`
}

type Ranker struct {
	engine  *Engine
	formula string
}

// NewRanker builds a Ranker using formula, falling back to DefaultFormula
// when empty. The formula is compiled eagerly so a broken one fails at
// startup rather than on the first request.
func NewRanker(formula string) (*Ranker, error) {
	if strings.TrimSpace(formula) == "" {
		formula = DefaultFormula
	}
	r := &Ranker{engine: NewEngine(), formula: formula}
	if err := r.engine.Validate(formula, scoreEnv(Product{}, catalog.Preferences{})); err != nil {
		return nil, fmt.Errorf("invalid ranking formula: %w", err)
	}
	return r, nil
}

// Rank parses answer into products and orders them by formula score,
// highest first. Ties keep the model's ordering.
func (r *Ranker) Rank(answer string, prefs catalog.Preferences) ([]Product, error) {
	products := ParseProducts(answer)
	for i := range products {
		score, err := r.engine.Evaluate(r.formula, scoreEnv(products[i], prefs))
		if err != nil {
			return nil, fmt.Errorf("failed to score '%v': %w", products[i].Name, err)
		}
		products[i].Score = score
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Score > products[j].Score
	})
	return products, nil
}

func scoreEnv(p Product, prefs catalog.Preferences) map[string]any {
	// Unpriced entries are not penalized for budget fit
	withinBudget := !p.HasPrice || prefs.Budget <= 0 || p.Price <= float64(prefs.Budget)
	return map[string]any{
		"position":      float64(p.Position),
		"price":         p.Price,
		"has_price":     p.HasPrice,
		"budget":        float64(prefs.Budget),
		"within_budget": withinBudget,
		"feature_hits":  float64(featureHits(p, prefs.Features)),
	}
}

func featureHits(p Product, features []string) int {
	text := strings.ToLower(p.Name + " " + p.Detail)
	hits := 0
	for _, f := range features {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && strings.Contains(text, f) {
			hits++
		}
	}
	return hits
}

var (
	entryRe = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*])\s+(.+)$`)
	priceRe = regexp.MustCompile(`[$]\s?([0-9][0-9,]*(?:\.[0-9]+)?)`)
	boldRe  = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// ParseProducts extracts numbered or bulleted entries from the answer.
// Continuation lines belong to the preceding entry.
func ParseProducts(answer string) []Product {
	var products []Product
	for _, line := range strings.Split(answer, "\n") {
		if m := entryRe.FindStringSubmatch(line); m != nil {
			body := strings.TrimSpace(m[1])
			products = append(products, Product{
				Position: len(products) + 1,
				Name:     extractName(body),
				Detail:   body,
			})
			continue
		}
		if len(products) > 0 && strings.TrimSpace(line) != "" {
			products[len(products)-1].Detail += "\n" + strings.TrimSpace(line)
		}
	}
	for i := range products {
		if price, ok := extractPrice(products[i].Detail); ok {
			products[i].Price = price
			products[i].HasPrice = true
		}
	}
	return products
}

// extractName takes the text before the first separator as the product
// name, stripping markdown emphasis.
func extractName(body string) string {
	body = boldRe.ReplaceAllString(body, "$1")
	for _, sep := range []string{" - ", " – ", ": ", " ("} {
		if idx := strings.Index(body, sep); idx > 0 {
			body = body[:idx]
			break
		}
	}
	return strings.TrimSpace(body)
}

func extractPrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return price, true
}
