package main

import (
	"context"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/joho/godotenv"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/conf"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/utils"
)

const usage = `recommender - agentic product recommendations

Researches the current market with web searches and a language model, then
returns ranked product suggestions matching your category, budget and
feature preferences.

Prerequisites:
  - Set the SAMBANOVA_API_KEY environment variable to your SambaNova Cloud API key
  - (Optional) Place a .env file in the working directory, it's loaded at startup
  - (Optional) Set the NO_COLOR environment variable to disable ansi color output

Usage: recommender <command>

Commands:
  h|help                       Display this help message
  s|serve                      Start the web UI and JSON API
  r|recommend [flags]          Run one recommendation and print it to stdout
  c|categories                 List the product categories and their features

Recommend flags:
  -category string             Product category, see 'recommender categories'
  -budget int                  Budget in USD (default %v)
  -features string             Comma separated list of desired features
  -requirements string         Free text requirements

Examples:
  - recommender serve
  - recommender recommend -category Cameras -budget 700 -features "4K Video,Compact Size"
  - recommender recommend -category Laptops -budget 1500 -requirements "silent, good for travel"
`

func main() {
	ancli.SetupSlog()
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		ancli.Warnf("failed to load .env: %v\n", err)
	}

	configDir, err := utils.ConfigDir()
	if err != nil {
		ancli.Errf("failed to find config dir path: %v\n", err)
		os.Exit(1)
	}
	cfg, err := conf.Load(configDir)
	if err != nil {
		ancli.Errf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { shutdown.Monitor(cancel) }()

	args := os.Args[1:]
	cmd := "help"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "h", "help":
		printUsage()
	case "c", "categories":
		printCategories()
	case "s", "serve":
		err = serve(ctx, cfg, configDir)
	case "r", "recommend":
		err = runRecommend(ctx, cfg, configDir, args[1:])
	default:
		ancli.Errf("unknown command: '%v'\n", cmd)
		printUsage()
		cancel()
		os.Exit(1)
	}
	cancel()
	if err != nil {
		ancli.Errf("failed to run: %v\n", err)
		os.Exit(1)
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("all done, bye bye!\n")
	}
}

func printUsage() {
	fmt.Printf(usage, defaultBudget)
}
