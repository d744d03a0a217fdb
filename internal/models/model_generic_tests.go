// This file contains tests intended to be used by implementations of the
// StreamCompleter interface
package models

import (
	"context"
	"testing"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

// StreamCompleter_Test is used by the vendor packages, an attempt at generic
// testing to ensure implementation standards are kept
func StreamCompleter_Test(t *testing.T, s StreamCompleter) {
	testboil.ReturnsOnContextCancel(t, func(ctx context.Context) {
		s.StreamCompletions(ctx, Chat{})
	}, time.Second)
}
