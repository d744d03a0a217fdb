package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/agent"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/catalog"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/conf"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/rank"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/recommend"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/search"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/server"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/session"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/tools"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/vendors/sambanova"
)

const defaultBudget = 1000

// newRecommender wires the search tooling, the model client, the ranker and
// the session store. The agent is left nil when SAMBANOVA_API_KEY is unset,
// downstream callers report that as a configuration problem.
func newRecommender(cfg conf.Config, configDir string) (*recommend.Recommender, *session.Store, error) {
	store, err := session.NewStore(conf.SessionsDir(configDir))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session store: %w", err)
	}
	ranker, err := rank.NewRanker(cfg.RankingFormula)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create ranker: %w", err)
	}
	tools.Init(search.NewDuckDuckGo(cfg.SearchMaxResults))

	var a *agent.Agent
	if os.Getenv("SAMBANOVA_API_KEY") == "" {
		ancli.PrintWarn("SAMBANOVA_API_KEY is not set, recommendations are disabled\n")
	} else {
		model := sambanova.Default
		model.Model = cfg.Model
		model.Temperature = cfg.Temperature
		model.TopP = cfg.TopP
		model.TopK = misc.Pointer(cfg.TopK)
		model.MaxTokens = misc.Pointer(cfg.MaxTokens)
		model.ContextWindow = cfg.ContextWindow
		if err := model.Setup(); err != nil {
			return nil, nil, fmt.Errorf("failed to setup model client: %w", err)
		}
		for _, t := range tools.Registry.All() {
			model.RegisterTool(t)
		}
		a = agent.New(&model,
			agent.WithNumExpansions(cfg.NumExpansions),
			agent.WithMaxRollouts(cfg.MaxRollouts),
			agent.WithSystemPrompt(cfg.SystemPrompt),
			agent.WithDebug(misc.Truthy(os.Getenv("DEBUG"))),
		)
	}
	return recommend.New(a, ranker, store), store, nil
}

func serve(ctx context.Context, cfg conf.Config, configDir string) error {
	rec, store, err := newRecommender(cfg, configDir)
	if err != nil {
		return err
	}
	logger, err := server.NewLogger("recommender")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	return server.New(cfg.Port, rec, store, logger).Run(ctx)
}

func runRecommend(ctx context.Context, cfg conf.Config, configDir string, args []string) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	category := fs.String("category", "", "product category")
	budget := fs.Int("budget", defaultBudget, "budget in USD")
	features := fs.String("features", "", "comma separated list of desired features")
	requirements := fs.String("requirements", "", "free text requirements")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	prefs := catalog.Preferences{
		Category:     *category,
		Budget:       *budget,
		Requirements: *requirements,
	}
	for _, f := range strings.Split(*features, ",") {
		if f = strings.TrimSpace(f); f != "" {
			prefs.Features = append(prefs.Features, f)
		}
	}

	rec, _, err := newRecommender(cfg, configDir)
	if err != nil {
		return err
	}
	sess, err := rec.Recommend(ctx, prefs)
	if err != nil {
		return err
	}

	fmt.Printf("%v\n", sess.Recommendation)
	if len(sess.Products) > 0 {
		fmt.Printf("\nRanked:\n")
		for i, p := range sess.Products {
			price := ""
			if p.HasPrice {
				price = fmt.Sprintf(" ($%v)", p.Price)
			}
			fmt.Printf("  %v. %v%v [score %.1f]\n", i+1, p.Name, price, p.Score)
		}
	}
	ancli.Okf("session saved as: %v\n", sess.ID)
	return nil
}

func printCategories() {
	for _, name := range catalog.Names() {
		cat, _ := catalog.Get(name)
		fmt.Printf("%v\n", name)
		fmt.Printf("  features:  %v\n", strings.Join(cat.Features, ", "))
		fmt.Printf("  types:     %v\n", strings.Join(cat.Types, ", "))
		fmt.Printf("  use cases: %v\n", strings.Join(cat.UseCases, ", "))
	}
}
