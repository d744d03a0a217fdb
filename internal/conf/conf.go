// Package conf loads the recommender configuration from a JSON file in the
// config directory, creating it with defaults on first run. Environment
// variables override file values.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/agent"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/rank"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/utils"
)

const configFileName = "recommendConfig.json"

type Config struct {
	Model            string  `json:"model"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	TopK             int     `json:"top_k"`
	MaxTokens        int     `json:"max_tokens"`
	ContextWindow    int     `json:"context_window"`
	NumExpansions    int     `json:"num_expansions"`
	MaxRollouts      int     `json:"max_rollouts"`
	SearchMaxResults int     `json:"search_max_results"`
	Port             int     `json:"port"`
	RankingFormula   string  `json:"ranking_formula"`
	SystemPrompt     string  `json:"system_prompt"`
}

func Default() Config {
	return Config{
		Model:            "Meta-Llama-3.1-70B-Instruct",
		Temperature:      0.1,
		TopP:             0.95,
		TopK:             1,
		MaxTokens:        2048,
		ContextWindow:    10000,
		NumExpansions:    2,
		MaxRollouts:      2,
		SearchMaxResults: 4,
		Port:             8080,
		RankingFormula:   rank.DefaultFormula,
		SystemPrompt:     agent.DefaultSystemPrompt,
	}
}

// Load reads the config from configDir, writing the default file when
// missing. New fields added since the file was written are backfilled from
// the defaults and persisted.
func Load(configDir string) (Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("failed to create config dir: %w", err)
	}
	configPath := filepath.Join(configDir, configFileName)
	dflt := Default()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if misc.Truthy(os.Getenv("DEBUG")) {
			ancli.Okf("creating default config at: '%v'\n", configPath)
		}
		if err := utils.CreateFile(configPath, &dflt); err != nil {
			return Config{}, fmt.Errorf("failed to create default config: %w", err)
		}
	}
	var conf Config
	if err := utils.ReadAndUnmarshal(configPath, &conf); err != nil {
		return Config{}, fmt.Errorf("failed to load config '%v': %w", configFileName, err)
	}
	if setZeroValueFields(&conf, &dflt) {
		if err := utils.CreateFile(configPath, &conf); err != nil {
			return conf, fmt.Errorf("failed to update config with new fields: %w", err)
		}
	}
	applyEnvOverrides(&conf)
	return conf, nil
}

// SessionsDir is where completed recommendation runs are persisted.
func SessionsDir(configDir string) string {
	return filepath.Join(configDir, "sessions")
}

// setZeroValueFields fills zero fields of a from b, reporting whether
// anything changed. Keeps old config files working when fields are added.
func setZeroValueFields[T any](a, b *T) bool {
	hasChanged := false
	t := reflect.TypeOf(*a)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		aVal := reflect.ValueOf(a).Elem().FieldByName(f.Name)
		bVal := reflect.ValueOf(b).Elem().FieldByName(f.Name)
		if f.IsExported() && aVal.IsZero() && !bVal.IsZero() {
			hasChanged = true
			aVal.Set(bVal)
		}
	}
	return hasChanged
}

func applyEnvOverrides(c *Config) {
	overrideString(&c.Model, "RECOMMENDER_MODEL")
	overrideFloat(&c.Temperature, "RECOMMENDER_TEMPERATURE")
	overrideFloat(&c.TopP, "RECOMMENDER_TOP_P")
	overrideInt(&c.TopK, "RECOMMENDER_TOP_K")
	overrideInt(&c.MaxTokens, "RECOMMENDER_MAX_TOKENS")
	overrideInt(&c.NumExpansions, "RECOMMENDER_NUM_EXPANSIONS")
	overrideInt(&c.MaxRollouts, "RECOMMENDER_MAX_ROLLOUTS")
	overrideInt(&c.SearchMaxResults, "RECOMMENDER_SEARCH_MAX_RESULTS")
	overrideInt(&c.Port, "RECOMMENDER_PORT")
	overrideString(&c.RankingFormula, "RECOMMENDER_RANKING_FORMULA")
	overrideString(&c.SystemPrompt, "RECOMMENDER_SYSTEM_PROMPT")
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		ancli.Warnf("ignoring %v: %v\n", env, err)
		return
	}
	*dst = i
}

func overrideFloat(dst *float64, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		ancli.Warnf("ignoring %v: %v\n", env, err)
		return
	}
	*dst = f
}
