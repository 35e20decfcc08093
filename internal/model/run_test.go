package model

import (
	"errors"
	"testing"
	"time"
)

// TestRun tests the Run helpers.
func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("new run is initialized", func(t *testing.T) {
		t.Parallel()

		r := NewRun("0001067983", "brk.txt")
		if r.Identifier != "0001067983" {
			t.Errorf("unexpected identifier %q", r.Identifier)
		}
		if r.MissingFields == nil {
			t.Error("expected MissingFields to be initialized")
		}
		if r.StartedAt.IsZero() {
			t.Error("expected StartedAt to be set")
		}
		if !r.Succeeded() {
			t.Error("expected new run to be successful")
		}
		if r.Duration() != 0 {
			t.Errorf("expected zero duration before finish, got %s", r.Duration())
		}
	})

	t.Run("duration and failure", func(t *testing.T) {
		t.Parallel()

		r := NewRun("x", "x.txt")
		r.FinishedAt = r.StartedAt.Add(2 * time.Second)
		r.Error = errors.New("boom")

		if r.Duration() != 2*time.Second {
			t.Errorf("expected 2s, got %s", r.Duration())
		}
		if r.Succeeded() {
			t.Error("expected run with error to be unsuccessful")
		}
	})

	t.Run("total missing", func(t *testing.T) {
		t.Parallel()

		r := NewRun("x", "x.txt")
		r.MissingFields["putCall"] = 3
		r.MissingFields["cusip"] = 1
		if got := r.TotalMissing(); got != 4 {
			t.Errorf("expected 4, got %d", got)
		}
	})
}
