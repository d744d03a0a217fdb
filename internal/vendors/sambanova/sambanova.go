// Package sambanova implements a client for the SambaNova Cloud inference
// API, which follows the openai chat/completions wire format.
package sambanova

import (
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/completion"
)

const ChatURL = "https://api.sambanova.ai/v1/chat/completions"

// Default mirrors the parameters the recommendation loop is tuned for:
// near-greedy decoding so repeated rollouts stay comparable.
var Default = SambaNova{
	Model:         "Meta-Llama-3.1-70B-Instruct",
	ContextWindow: 10000,
	MaxTokens:     misc.Pointer(2048),
	Temperature:   0.1,
	TopK:          misc.Pointer(1),
	TopP:          0.95,
	URL:           ChatURL,
}

type SambaNova struct {
	completion.StreamCompleter
	Model            string  `json:"model"`
	ContextWindow    int     `json:"context_window"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	MaxTokens        *int    `json:"max_tokens"` // Use a pointer to allow null value
	PresencePenalty  float64 `json:"presence_penalty"`
	Temperature      float64 `json:"temperature"`
	TopK             *int    `json:"top_k"`
	TopP             float64 `json:"top_p"`
	URL              string  `json:"url"`
}
