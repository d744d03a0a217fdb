package completion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/models"
)

var dataPrefix = []byte("data: ")

// StreamCompletions taking the messages as prompt conversation. Returns the
// events from the chat model on the returned channel.
func (s *StreamCompleter) StreamCompletions(ctx context.Context, chat models.Chat) (chan models.CompletionEvent, error) {
	if s.Clean != nil {
		cpy := make([]models.Message, len(chat.Messages))
		copy(cpy, chat.Messages)
		chat.Messages = s.Clean(cpy)
	}
	if s.ContextWindow > 0 {
		if err := s.fitContextWindow(ctx, &chat); err != nil {
			return nil, fmt.Errorf("failed to fit chat into context window: %w", err)
		}
	}
	s.limiter.WaitIfNeeded(ctx)
	req, err := s.createRequest(ctx, chat)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %v, body: %v", res.Status, string(body))
	}
	if err := s.limiter.UpdateFromHeaders(res.Header); err != nil && s.debug {
		ancli.PrintWarn(fmt.Sprintf("failed to update rate limits: %v\n", err))
	}
	return s.handleStreamResponse(ctx, res), nil
}

func (s *StreamCompleter) createRequest(ctx context.Context, chat models.Chat) (*http.Request, error) {
	reqData := req{
		Model:            s.Model,
		FrequencyPenalty: s.FrequencyPenalty,
		MaxTokens:        s.MaxTokens,
		PresencePenalty:  s.PresencePenalty,
		Temperature:      s.Temperature,
		TopP:             s.TopP,
		TopK:             s.TopK,
		ResponseFormat:   responseFormat{Type: "text"},
		Messages:         chat.Messages,
		Stream:           true,
	}
	if len(s.tools) > 0 {
		reqData.Tools = s.tools
		reqData.ToolChoice = s.ToolChoice
	}
	if s.debug {
		ancli.PrintOK(fmt.Sprintf("completion request: %v\n", debug.IndentedJsonFmt(reqData)))
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %v", s.apiKey))
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Connection", "keep-alive")
	return req, nil
}

func (s *StreamCompleter) handleStreamResponse(ctx context.Context, res *http.Response) chan models.CompletionEvent {
	outChan := make(chan models.CompletionEvent)
	go func() {
		br := bufio.NewReader(res.Body)
		defer func() {
			res.Body.Close()
			close(outChan)
		}()
		for {
			if ctx.Err() != nil {
				return
			}
			token, err := br.ReadBytes('\n')
			if err != nil {
				if err != io.EOF {
					outChan <- fmt.Errorf("failed to read line: %w", err)
				}
				return
			}
			outChan <- s.handleStreamChunk(token)
		}
	}()

	return outChan
}

func (s *StreamCompleter) handleStreamChunk(token []byte) models.CompletionEvent {
	token = bytes.TrimPrefix(token, dataPrefix)
	token = bytes.TrimSpace(token)
	if len(token) == 0 || string(token) == "[DONE]" {
		return models.NoopEvent{}
	}

	if s.debug {
		ancli.PrintOK(fmt.Sprintf("token: %+v\n", string(token)))
	}
	var chunk chatCompletionChunk
	err := json.Unmarshal(token, &chunk)
	if err != nil {
		if misc.Truthy(os.Getenv("DEBUG")) {
			// Expect some failing unmarshalls, which seems to be fine
			ancli.PrintWarn(fmt.Sprintf("failed to unmarshal token: %v, err: %v\n", token, err))
		}
		return models.NoopEvent{}
	}
	if len(chunk.Choices) == 0 {
		return models.NoopEvent{}
	}

	var chosen models.CompletionEvent
	for _, choice := range chunk.Choices {
		compEvent := s.handleChoice(choice)
		switch compEvent.(type) {
		// Set chosen to the first error, string
		case error, string, models.NoopEvent:
			_, isNoopEvent := chosen.(models.NoopEvent)
			if chosen == nil || isNoopEvent {
				chosen = compEvent
			}
		case models.Call:
			// Always prefer tools call, if possible
			chosen = compEvent
		}
	}
	return chosen
}

func (s *StreamCompleter) handleChoice(choice Choice) models.CompletionEvent {
	// If there is no tools call, just handle it as a string. This works for most cases
	if len(choice.Delta.ToolCalls) == 0 && choice.FinishReason != "tool_calls" {
		return choice.Delta.Content
	}

	// Function name is only shown in first chunk of a function call
	if len(choice.Delta.ToolCalls) > 0 && choice.Delta.ToolCalls[0].Function.Name != "" {
		s.toolsCallName = choice.Delta.ToolCalls[0].Function.Name
		s.toolsCallID = choice.Delta.ToolCalls[0].ID
	}

	if len(choice.Delta.ToolCalls) > 0 {
		// The arguments are streamed as a stringified json, chunk by chunk,
		// with no apparent structure
		s.toolsCallArgsString += choice.Delta.ToolCalls[0].Function.Arguments

		var input models.Input
		err := json.Unmarshal([]byte(s.toolsCallArgsString), &input)
		if err == nil {
			return s.doToolsCall()
		}
	}
	return models.NoopEvent{}
}

// doToolsCall by parsing the accumulated argument string
func (s *StreamCompleter) doToolsCall() models.CompletionEvent {
	defer func() {
		// Reset tools call construction strings to prepare for consecutive calls
		s.toolsCallName = ""
		s.toolsCallArgsString = ""
	}()
	var input models.Input
	err := json.Unmarshal([]byte(s.toolsCallArgsString), &input)
	if err != nil {
		return fmt.Errorf("failed to unmarshal argument string: %w, argsString: %v", err, s.toolsCallArgsString)
	}

	call := models.Call{
		ID:     s.toolsCallID,
		Name:   s.toolsCallName,
		Inputs: input,
		Type:   "function",
	}
	call.Patch()
	return call
}

// heuristicTokenCountFactor is used to approximate token usage when
// the vendor does not expose an endpoint for counting tokens.
const heuristicTokenCountFactor = 1.1

// CountInputTokens estimates the amount of input tokens in the chat.
func (s *StreamCompleter) CountInputTokens(ctx context.Context, chat models.Chat) (int, error) {
	var count int
	for _, m := range chat.Messages {
		count += len(strings.Split(m.Content, " "))
	}
	return int(float64(count) * heuristicTokenCountFactor), nil
}

// fitContextWindow drops the oldest non-system messages until the estimated
// token count fits ContextWindow. System messages and the last user message
// are never dropped. Errors when nothing droppable remains.
func (s *StreamCompleter) fitContextWindow(ctx context.Context, chat *models.Chat) error {
	count, err := s.CountInputTokens(ctx, *chat)
	if err != nil {
		return fmt.Errorf("failed to count input tokens: %w", err)
	}
	if count <= s.ContextWindow {
		return nil
	}
	cpy := make([]models.Message, len(chat.Messages))
	copy(cpy, chat.Messages)
	chat.Messages = cpy
	for count > s.ContextWindow {
		_, lastUser, _ := chat.LastOfRole("user")
		dropIdx := -1
		for i, m := range chat.Messages {
			if m.Role == "system" || i == lastUser {
				continue
			}
			dropIdx = i
			break
		}
		if dropIdx == -1 {
			return fmt.Errorf("chat requires ~%v tokens but context window is %v, and no messages can be dropped", count, s.ContextWindow)
		}
		if s.debug {
			ancli.PrintWarn(fmt.Sprintf("dropping message %v to fit context window\n", dropIdx))
		}
		chat.Messages = append(chat.Messages[:dropIdx], chat.Messages[dropIdx+1:]...)
		count, err = s.CountInputTokens(ctx, *chat)
		if err != nil {
			return fmt.Errorf("failed to count input tokens: %w", err)
		}
	}
	return nil
}
