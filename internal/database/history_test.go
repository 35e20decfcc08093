package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seantchan/cik-parser/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// newTestRun creates a finished run for identifier.
func newTestRun(identifier string, rows int) *model.Run {
	run := model.NewRun(identifier, identifier+".txt")
	run.DocumentURL = "https://www.sec.gov/Archives/edgar/data/1/" + identifier + ".xml"
	run.Columns = []string{"nameOfIssuer", "cusip"}
	run.RowCount = rows
	run.MissingFields = map[string]int{"cusip": 1}
	run.FinishedAt = run.StartedAt.Add(time.Second)
	return run
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
		if _, err := os.Stat(db.Path()); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
	})

	t.Run("CreateIfNotExists=false returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "missing")
		_, err := Open(dbDir, Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("directory should not have been created")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()

		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if _, err := db.SaveRun(context.Background(), newTestRun("BRK", 3)); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run after reopening, got %d", len(runs))
		}
	})
}

// TestSaveRun tests recording and reading back runs.
func TestSaveRun(t *testing.T) {
	t.Parallel()

	t.Run("round trips run fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		run := newTestRun("BRK", 42)

		id, err := db.SaveRun(ctx, run)
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if id <= 0 {
			t.Errorf("expected positive id, got %d", id)
		}

		runs, err := db.ListRuns(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}

		got := runs[0]
		if got.Identifier != "BRK" || got.OutputPath != "BRK.txt" {
			t.Errorf("unexpected identity %q %q", got.Identifier, got.OutputPath)
		}
		if got.RowCount != 42 {
			t.Errorf("expected 42 rows, got %d", got.RowCount)
		}
		if len(got.Columns) != 2 || got.Columns[1] != "cusip" {
			t.Errorf("unexpected columns %v", got.Columns)
		}
		if got.MissingFields["cusip"] != 1 {
			t.Errorf("unexpected missing fields %v", got.MissingFields)
		}
		if !got.StartedAt.Equal(run.StartedAt) {
			t.Errorf("expected start %v, got %v", run.StartedAt, got.StartedAt)
		}
	})

	t.Run("keeps failure message", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		run := newTestRun("ZZZZ", 0)
		run.Error = model.NewStageError(model.StageSelectFiling, "", model.ErrInvalidIdentifier, nil)
		run.ErrorMessage = run.Error.Error()

		if _, err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if runs[0].ErrorMessage != run.ErrorMessage {
			t.Errorf("expected %q, got %q", run.ErrorMessage, runs[0].ErrorMessage)
		}
	})
}

// TestListRuns tests ordering and filtering.
func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"BRK", "0001067983", "BRK", "VTI"} {
		if _, err := db.SaveRun(ctx, newTestRun(id, 1)); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	t.Run("most recent first", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 4 {
			t.Fatalf("expected 4 runs, got %d", len(runs))
		}
		if runs[0].Identifier != "VTI" || runs[3].Identifier != "BRK" {
			t.Errorf("unexpected order: %s ... %s", runs[0].Identifier, runs[3].Identifier)
		}
	})

	t.Run("applies limit", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("filters by identifier", func(t *testing.T) {
		t.Parallel()

		runs, err := db.RunsForIdentifier(ctx, "BRK")
		if err != nil {
			t.Fatalf("failed to query runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 BRK runs, got %d", len(runs))
		}
	})
}

// TestFormatTimestamp tests the stored timestamp layout.
func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 15, 10, 0, 0, 5, time.FixedZone("EDT", -4*3600))
	if got := formatTimestamp(ts); got != "2024-05-15T14:00:00.000000005Z" {
		t.Errorf("unexpected timestamp %q", got)
	}
}
