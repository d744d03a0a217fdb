package models

import (
	"context"
	"fmt"
	"time"
)

// StreamCompleter is implemented by model clients which stream
// completion events for a chat.
type StreamCompleter interface {
	// Setup the completer, verifying auth and internal state
	Setup() error

	// StreamCompletions for the given chat. The returned channel emits
	// string tokens, tool Calls, errors or NoopEvents, and is closed
	// once the completion is done.
	StreamCompletions(context.Context, Chat) (chan CompletionEvent, error)
}

// CompletionEvent is one of: string (a token), Call (a tool invocation
// requested by the model), error, or NoopEvent.
type CompletionEvent any

// NoopEvent are filler events which can safely be ignored, such as
// keepalives or unparsable chunks.
type NoopEvent struct{}

type Chat struct {
	Created  time.Time `json:"created,omitempty"`
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

type Message struct {
	Role       string `json:"role"`
	Content    string `json:"content,omitempty"`
	ToolCalls  []Call `json:"tool_calls,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// LastOfRole returns the latest message of the given role and its index.
func (c *Chat) LastOfRole(role string) (Message, int, error) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		msg := c.Messages[i]
		if msg.Role == role {
			return msg, i, nil
		}
	}
	return Message{}, -1, fmt.Errorf("failed to find any %v message", role)
}
