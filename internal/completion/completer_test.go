package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/models"
)

func isNoop(ev any) bool {
	_, ok := ev.(models.NoopEvent)
	return ok
}

func setupCompleter(t *testing.T, handler http.HandlerFunc) *StreamCompleter {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	t.Setenv("TEST_API_KEY", "k")
	s := &StreamCompleter{}
	if err := s.Setup("TEST_API_KEY", ts.URL, "TEST_DEBUG"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return s
}

func TestSetupRequiresAPIKey(t *testing.T) {
	t.Setenv("TEST_API_KEY", "")
	s := &StreamCompleter{}
	if err := s.Setup("TEST_API_KEY", "http://example.invalid", "TEST_DEBUG"); err == nil {
		t.Fatal("expected error when api key env is unset")
	}
}

func TestStreamCompletionsNon200(t *testing.T) {
	s := setupCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte("bad"))
	})
	_, err := s.StreamCompletions(context.Background(), models.Chat{Messages: []models.Message{{Role: "user", Content: "x"}}})
	if err == nil || !strings.Contains(err.Error(), "unexpected status code") {
		t.Fatalf("expected non-200 error, got: %v", err)
	}
}

func TestStreamCompletionsContentTokens(t *testing.T) {
	s := setupCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("unexpected auth header: %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n", `{"choices":[{"delta":{"content":"Hello"}}]}`)
		fmt.Fprintf(w, "data: %s\n", `{"choices":[{"delta":{"content":" world"}}]}`)
		fmt.Fprintf(w, "data: [DONE]\n")
	})

	ch, err := s.StreamCompletions(context.Background(), models.Chat{Messages: []models.Message{{Role: "user", Content: "x"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got strings.Builder
	for ev := range ch {
		switch e := ev.(type) {
		case string:
			got.WriteString(e)
		case error:
			t.Fatalf("unexpected error event: %v", e)
		}
	}
	if got.String() != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", got.String())
	}
}

func TestStreamCompletionsToolCallAcrossChunks(t *testing.T) {
	s := setupCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n", `{"choices":[{"delta":{"tool_calls":[{"id":"call_1","function":{"name":"search","arguments":"{\"que"}}]}}]}`)
		fmt.Fprintf(w, "data: %s\n", `{"choices":[{"delta":{"tool_calls":[{"function":{"arguments":"ry\": \"best camera\"}"}}]}}]}`)
		fmt.Fprintf(w, "data: [DONE]\n")
	})

	ch, err := s.StreamCompletions(context.Background(), models.Chat{Messages: []models.Message{{Role: "user", Content: "x"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var gotCall *models.Call
	for ev := range ch {
		if call, ok := ev.(models.Call); ok {
			gotCall = &call
		}
	}
	if gotCall == nil {
		t.Fatal("expected a tool call event")
	}
	if gotCall.Name != "search" {
		t.Errorf("expected call name 'search', got %q", gotCall.Name)
	}
	if gotCall.ID != "call_1" {
		t.Errorf("expected call id 'call_1', got %q", gotCall.ID)
	}
	if q, _ := gotCall.Inputs["query"].(string); q != "best camera" {
		t.Errorf("expected query input 'best camera', got %q", q)
	}
}

func TestStreamCompletionsTrimsToContextWindow(t *testing.T) {
	var gotMessages []models.Message
	s := setupCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		var body req
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		gotMessages = body.Messages
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: [DONE]\n")
	})
	s.ContextWindow = 10

	chat := models.Chat{Messages: []models.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "old question one two three four five six"},
		{Role: "assistant", Content: "older answer with several words in it"},
		{Role: "user", Content: "latest question"},
	}}
	ch, err := s.StreamCompletions(context.Background(), chat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range ch {
	}

	if len(gotMessages) != 2 {
		t.Fatalf("expected 2 messages after trim, got %v: %v", len(gotMessages), gotMessages)
	}
	if gotMessages[0].Role != "system" {
		t.Errorf("expected system message to survive, got role %q", gotMessages[0].Role)
	}
	if gotMessages[1].Content != "latest question" {
		t.Errorf("expected last user message to survive, got %q", gotMessages[1].Content)
	}
	if len(chat.Messages) != 4 {
		t.Errorf("expected caller chat to be untouched, got %v messages", len(chat.Messages))
	}
}

func TestStreamCompletionsRejectsOversizedChat(t *testing.T) {
	s := setupCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the vendor")
	})
	s.ContextWindow = 1

	_, err := s.StreamCompletions(context.Background(), models.Chat{Messages: []models.Message{
		{Role: "system", Content: "many many words here"},
		{Role: "user", Content: "latest words here too"},
	}})
	if err == nil || !strings.Contains(err.Error(), "context window") {
		t.Fatalf("expected context window error, got: %v", err)
	}
}

func TestHandleStreamChunkNoise(t *testing.T) {
	s := &StreamCompleter{}
	if !isNoop(s.handleStreamChunk([]byte("data: [DONE]\n"))) {
		t.Error("expected [DONE] to be a noop")
	}
	if !isNoop(s.handleStreamChunk([]byte("\n"))) {
		t.Error("expected empty line to be a noop")
	}
	if !isNoop(s.handleStreamChunk([]byte("data: not-json\n"))) {
		t.Error("expected unparsable chunk to be a noop")
	}
}

func TestCountInputTokens(t *testing.T) {
	s := &StreamCompleter{}
	got, err := s.CountInputTokens(context.Background(), models.Chat{Messages: []models.Message{
		{Role: "user", Content: "one two three four"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4 {
		t.Errorf("expected 4 heuristic tokens, got %v", got)
	}
}
