package completion

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestUpdateFromHeaders(t *testing.T) {
	rl := NewRateLimiter("x-ratelimit-remaining-tokens", "x-ratelimit-reset-tokens")

	h := http.Header{}
	h.Set("x-ratelimit-remaining-tokens", "1234")
	h.Set("x-ratelimit-reset-tokens", "2s")
	if err := rl.UpdateFromHeaders(h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rl.remainingTokens != 1234 {
		t.Errorf("expected 1234 remaining tokens, got %v", rl.remainingTokens)
	}
	if rl.resetTokens.Before(time.Now()) {
		t.Error("expected reset time in the future")
	}

	h.Set("x-ratelimit-reset-tokens", "1.5")
	if err := rl.UpdateFromHeaders(h); err != nil {
		t.Errorf("expected float seconds to parse, got: %v", err)
	}
}

func TestUpdateFromHeadersMissing(t *testing.T) {
	rl := NewRateLimiter("x-ratelimit-remaining-tokens", "x-ratelimit-reset-tokens")
	if err := rl.UpdateFromHeaders(http.Header{}); err == nil {
		t.Error("expected error when headers are missing")
	}

	h := http.Header{}
	h.Set("x-ratelimit-remaining-tokens", "not-a-number")
	h.Set("x-ratelimit-reset-tokens", "2s")
	if err := rl.UpdateFromHeaders(h); err == nil {
		t.Error("expected error when remaining tokens header is malformed")
	}
}

func TestUpdateFromHeadersUnconfigured(t *testing.T) {
	rl := RateLimiter{}
	if err := rl.UpdateFromHeaders(http.Header{}); err != nil {
		t.Errorf("unconfigured limiter should ignore headers, got: %v", err)
	}
}

func TestWaitIfNeededAboveThreshold(t *testing.T) {
	rl := NewRateLimiter("x-ratelimit-remaining-tokens", "x-ratelimit-reset-tokens")
	rl.remainingTokens = 1000
	rl.resetTokens = time.Now().Add(time.Hour)

	done := make(chan struct{})
	go func() {
		rl.WaitIfNeeded(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected no wait when well above the token threshold")
	}
}

func TestWaitIfNeededHonorsContextCancel(t *testing.T) {
	rl := NewRateLimiter("x-ratelimit-remaining-tokens", "x-ratelimit-reset-tokens")
	rl.remainingTokens = 1
	rl.resetTokens = time.Now().Add(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.WaitIfNeeded(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected wait to end on context cancel")
	}
}
