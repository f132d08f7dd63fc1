package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/wpanalyzer/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newReport creates a report for source analyzed at the given time.
func newReport(source, digest string, at time.Time, posts int) *model.AnalysisReport {
	report := model.NewAnalysisReport(source, digest)
	report.AnalyzedAt = at
	report.Stats = model.ExportStats{Items: posts + 1, TypedItems: posts + 1}
	report.PostTypes = model.PostTypeCensus{
		{PostType: "post", Count: posts},
		{PostType: "page", Count: 1},
	}
	report.PerformedSteps = []string{model.StepPostTypes}
	return report
}

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

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists {
		t.Error("expected CreateIfNotExists to be true")
	}
	if !opts.EnableWAL {
		t.Error("expected EnableWAL to be true")
	}
}

func TestSaveAndGetAnalysis(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := newReport("blog.xml", "abc", time.Now(), 3)
	report.CustomFields = model.FieldInventory{"post": model.NewFieldSet("color")}

	id, err := db.SaveAnalysis(ctx, report)
	if err != nil {
		t.Fatalf("failed to save analysis: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected UUID run id, got %q: %v", id, err)
	}

	got, err := db.GetAnalysisByID(ctx, id)
	if err != nil {
		t.Fatalf("failed to get analysis: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored analysis")
	}
	if got.Source != "blog.xml" || got.Digest != "abc" {
		t.Errorf("unexpected report: %+v", got)
	}
	if got.PostTypes.Count("post") != 3 {
		t.Errorf("expected 3 posts, got %d", got.PostTypes.Count("post"))
	}
	if !got.CustomFields["post"].Has("color") {
		t.Error("expected color custom field")
	}

	missing, err := db.GetAnalysisByID(ctx, uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown run")
	}
}

func TestGetHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, posts := range []int{1, 2, 5} {
		report := newReport("blog.xml", "d"+string(rune('0'+i)), base.Add(time.Duration(i)*time.Hour), posts)
		if _, err := db.SaveAnalysis(ctx, report); err != nil {
			t.Fatalf("failed to save analysis: %v", err)
		}
	}
	if _, err := db.SaveAnalysis(ctx, newReport("shop.xml", "x", base, 7)); err != nil {
		t.Fatalf("failed to save analysis: %v", err)
	}

	history, err := db.GetHistory(ctx, "blog.xml")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(history))
	}
	if history[0].Census.Count("post") != 5 || history[2].Census.Count("post") != 1 {
		t.Errorf("expected newest first, got %+v", history)
	}
	if !history[0].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("unexpected timestamp %v", history[0].Timestamp)
	}
	if history[0].Items != 6 {
		t.Errorf("expected 6 items, got %d", history[0].Items)
	}

	latest, err := db.GetLatest(ctx, "blog.xml")
	if err != nil {
		t.Fatalf("failed to get latest: %v", err)
	}
	if latest == nil || latest.Digest != "d2" {
		t.Errorf("expected latest digest d2, got %+v", latest)
	}

	none, err := db.GetLatest(ctx, "missing.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none != nil {
		t.Error("expected nil for unknown source")
	}
}

func TestListSources(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, source := range []string{"shop.xml", "blog.xml", "shop.xml"} {
		if _, err := db.SaveAnalysis(ctx, newReport(source, "d", time.Now(), 1)); err != nil {
			t.Fatalf("failed to save analysis: %v", err)
		}
	}

	sources, err := db.ListSources(ctx)
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}
	if len(sources) != 2 || sources[0] != "blog.xml" || sources[1] != "shop.xml" {
		t.Errorf("unexpected sources: %v", sources)
	}
}

func TestFindByDigest(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.SaveAnalysis(ctx, newReport("blog.xml", "feed", time.Now(), 2))
	if err != nil {
		t.Fatalf("failed to save analysis: %v", err)
	}

	meta, err := db.FindByDigest(ctx, "feed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta == nil || meta.ID != id || meta.Source != "blog.xml" {
		t.Errorf("unexpected run: %+v", meta)
	}

	meta, err = db.FindByDigest(ctx, "other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta != nil {
		t.Errorf("expected nil, got %+v", meta)
	}
}

func TestSaveAnalysisWithoutCensus(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := model.NewAnalysisReport("blog.xml", "d")
	if _, err := db.SaveAnalysis(ctx, report); err != nil {
		t.Fatalf("failed to save analysis: %v", err)
	}

	history, err := db.GetHistory(ctx, "blog.xml")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 1 || len(history[0].Census) != 0 {
		t.Errorf("expected one run with empty census, got %+v", history)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)
	for _, s := range []string{
		"2026-03-01 12:30:45.000000",
		"2026-03-01 12:30:45",
		"2026-03-01T12:30:45Z",
		"2026-03-01T12:30:45",
	} {
		if got := parseTimestamp(s); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", s, got, want)
		}
	}
	if !parseTimestamp("garbage").IsZero() {
		t.Error("expected zero time for unparseable input")
	}
}
