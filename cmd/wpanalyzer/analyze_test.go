package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/wpanalyzer/internal/config"
	"github.com/nao1215/wpanalyzer/internal/database"
	"github.com/nao1215/wpanalyzer/internal/report"
)

const testExport = "testdata/blog.xml"

// writeConfig writes a config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// runAnalyzeArgs runs "analyze" with args and an empty config file, without
// history. It returns stdout, stderr and the command error.
func runAnalyzeArgs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	full := append([]string{"analyze", "--no-history", "-c", writeConfig(t, "defaults: {}\n")}, args...)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeCmd_Flags(t *testing.T) {
	t.Parallel()

	cmd := NewAnalyzeCmd()
	for _, name := range []string{
		"post-types", "custom-fields", "post-type", "taxonomies", "show-posts", "limit",
		"content", "term-registry", "value-width", "config", "json", "markdown", "html",
		"output", "no-history",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag %q", name)
		}
	}
	if def := cmd.Flags().Lookup("limit").DefValue; def != "-1" {
		t.Errorf("expected limit default -1, got %q", def)
	}
}

func TestAnalyzeCmd_Reports(t *testing.T) {
	t.Parallel()

	t.Run("post types", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runAnalyzeArgs(t, "--post-types", testExport)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Post Types Found:", "post: 2 items", "page: 1 items"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in output:\n%s", want, stdout)
			}
		}
	})

	t.Run("custom fields with filter", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runAnalyzeArgs(t, "--custom-fields", "--post-type", "page", testExport)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No custom fields found for post type: page") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
	})

	t.Run("posts with limit", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runAnalyzeArgs(t, "--show-posts", "post", "--limit", "1", testExport)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Posts of type 'post':",
			"Title: Hello world",
			"  - subtitle: First steps",
			"  category:\n    - News (news)",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in output:\n%s", want, stdout)
			}
		}
		if strings.Contains(stdout, "Title: Second") {
			t.Errorf("limit not applied:\n%s", stdout)
		}
		if strings.Contains(stdout, "_edit_last") {
			t.Errorf("internal meta key reported:\n%s", stdout)
		}
	})

	t.Run("taxonomies", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runAnalyzeArgs(t, "--taxonomies", testExport)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Taxonomies Analysis:", "category:", "    - post: 1 uses", "  Total Terms: 1"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in output:\n%s", want, stdout)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runAnalyzeArgs(t, "--post-types", "--json", testExport)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if decoded.Report.PostTypes.Count("post") != 2 {
			t.Errorf("expected 2 posts, got %+v", decoded.Report.PostTypes)
		}
		if decoded.Report.Digest == "" {
			t.Error("expected digest")
		}
	})

	t.Run("markdown to file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "reports", "blog.md")
		stdout, _, err := runAnalyzeArgs(t, "--post-types", "--markdown", "-o", out, testExport)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("report file missing: %v", err)
		}
		if !strings.Contains(string(data), "# WordPress Export Analysis") {
			t.Errorf("unexpected report:\n%s", data)
		}
	})

	t.Run("glob input", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runAnalyzeArgs(t, "--post-types", "testdata/*.xml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Export: testdata/blog.xml") {
			t.Errorf("expected header for globbed export:\n%s", stdout)
		}
	})
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no report prints help", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runAnalyzeArgs(t, testExport)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Usage:") {
			t.Errorf("expected help output:\n%s", stdout)
		}
	})

	t.Run("missing export", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.xml")
		stdout, stderr, err := runAnalyzeArgs(t, "--post-types", missing)
		if !errors.Is(err, errLoadFailed) {
			t.Fatalf("expected errLoadFailed, got %v", err)
		}
		if !strings.Contains(stderr, "Error loading XML file") {
			t.Errorf("expected load error on stderr:\n%s", stderr)
		}
		if stdout != "" {
			t.Errorf("expected no report output, got:\n%s", stdout)
		}
	})

	t.Run("malformed export", func(t *testing.T) {
		t.Parallel()

		bad := filepath.Join(t.TempDir(), "bad.xml")
		if err := os.WriteFile(bad, []byte("<rss><channel>"), 0600); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		stdout, _, err := runAnalyzeArgs(t, "--post-types", bad)
		if !errors.Is(err, errLoadFailed) {
			t.Fatalf("expected errLoadFailed, got %v", err)
		}
		if stdout != "" {
			t.Errorf("expected no report output, got:\n%s", stdout)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()

		_, _, err := runAnalyzeArgs(t, "--post-types", "--json", "--markdown", testExport)
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("glob without matches", func(t *testing.T) {
		t.Parallel()

		_, _, err := runAnalyzeArgs(t, "--post-types", filepath.Join(t.TempDir(), "*.xml"))
		if err == nil {
			t.Error("expected error for empty glob")
		}
	})

	t.Run("missing explicit config", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"analyze", "--no-history", "--post-types", "-c", filepath.Join(t.TempDir(), "nope.yaml"), testExport})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestAnalyzeCmd_ConfigFile(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "exports:\n  blog.xml:\n    limit: 1\n")

	run := func(t *testing.T, args ...string) string {
		t.Helper()
		var stdout bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(append([]string{"analyze", "--no-history", "-c", cfgPath, "--show-posts", "post"}, args...))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return stdout.String()
	}

	t.Run("file limit applies", func(t *testing.T) {
		t.Parallel()
		if out := run(t, testExport); strings.Contains(out, "Title: Second") {
			t.Errorf("expected file limit of 1:\n%s", out)
		}
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		t.Parallel()
		if out := run(t, "--limit", "-1", testExport); !strings.Contains(out, "Title: Second") {
			t.Errorf("expected all posts:\n%s", out)
		}
	})
}

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.xml", "sub/b.xml", "sub/deeper/c.xml", "notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if err := os.WriteFile(path, []byte("<rss/>"), 0600); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	paths, err := expandInputs([]string{
		filepath.Join(dir, "**", "*.xml"),
		filepath.Join(dir, "a.xml"),
		"plain.xml",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 4 paths (duplicates removed), got %v", paths)
	}
	if paths[3] != "plain.xml" {
		t.Errorf("expected plain path kept as given, got %v", paths)
	}
	for _, p := range paths[:3] {
		if filepath.Ext(p) != ".xml" {
			t.Errorf("unexpected match %q", p)
		}
	}
}

func TestRunAnalyze_SavesHistory(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Inputs = []string{testExport}
	cfg.PostTypes = true
	cfg.DBDir = dbDir

	cmd := NewAnalyzeCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for i := 0; i < 2; i++ {
		if err := runAnalyze(context.Background(), cmd, cfg, nil, logger); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	runs, err := db.GetHistory(context.Background(), testExport)
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Census.Count("post") != 2 {
		t.Errorf("expected census with 2 posts, got %+v", runs[0].Census)
	}

	result, err := runComparison(context.Background(), db, testExport, "")
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if !result.SameContent {
		t.Error("expected identical content")
	}
	if result.Direction != directionUnchanged {
		t.Errorf("expected unchanged, got %q", result.Direction)
	}
}
