package sambanova

import (
	"fmt"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/completion"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/tools"
)

func (s *SambaNova) Setup() error {
	url := s.URL
	if url == "" {
		url = ChatURL
	}
	err := s.StreamCompleter.Setup("SAMBANOVA_API_KEY", url, "DEBUG_SAMBANOVA")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	s.StreamCompleter.Model = s.Model
	s.StreamCompleter.ContextWindow = s.ContextWindow
	s.StreamCompleter.FrequencyPenalty = &s.FrequencyPenalty
	s.StreamCompleter.MaxTokens = s.MaxTokens
	s.StreamCompleter.Temperature = &s.Temperature
	s.StreamCompleter.TopK = s.TopK
	s.StreamCompleter.TopP = &s.TopP
	toolChoice := "auto"
	s.ToolChoice = &toolChoice
	s.SetRateLimiter(completion.NewRateLimiter("x-ratelimit-remaining-tokens", "x-ratelimit-reset-tokens"))
	return nil
}

func (s *SambaNova) RegisterTool(tool tools.LLMTool) {
	s.InternalRegisterTool(tool)
}
