package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/nao1215/wpanalyzer/internal/analyzer"
	"github.com/nao1215/wpanalyzer/internal/config"
	"github.com/nao1215/wpanalyzer/internal/database"
	wplog "github.com/nao1215/wpanalyzer/internal/log"
	"github.com/nao1215/wpanalyzer/internal/model"
	"github.com/nao1215/wpanalyzer/internal/pipeline"
	"github.com/nao1215/wpanalyzer/internal/report"
)

// errLoadFailed is returned when at least one export could not be loaded.
var errLoadFailed = errors.New("one or more exports could not be loaded")

// perExportFlags are the flags the configuration file may override.
var perExportFlags = []string{"limit", "value-width", "content", "term-registry", "json", "markdown", "html"}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <export.xml|glob>...",
		Short: "Analyze WordPress export files",
		Long: `Analyze reads WordPress XML export files and prints the selected reports:

- Post types and how many items each one has
- Custom fields (public post meta keys) per post type
- Taxonomies with their terms and usage per post type
- Details of the posts of one post type

Arguments may be file paths or glob patterns ('**' matches any number of
directories). Exports are analyzed one after another.

Examples:
  # Count items per post type
  wpanalyzer analyze --post-types export.xml

  # Custom fields of pages only
  wpanalyzer analyze --custom-fields --post-type page export.xml

  # The first five products with their custom fields and terms
  wpanalyzer analyze --show-posts product --limit 5 export.xml

  # Everything, as Markdown, for every export below backups/
  wpanalyzer analyze -p -f -x --markdown 'backups/**/*.xml'

  # HTML report written to a file
  wpanalyzer analyze --taxonomies --html -o report.html export.xml`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Report selection flags
	cmd.Flags().BoolP("post-types", "p", false,
		"List all post types and their counts")
	cmd.Flags().BoolP("custom-fields", "f", false,
		"List custom fields by post type")
	cmd.Flags().StringP("post-type", "t", "",
		"Restrict --custom-fields to this post type")
	cmd.Flags().BoolP("taxonomies", "x", false,
		"Analyze taxonomies and their usage")
	cmd.Flags().StringP("show-posts", "s", "",
		"Show the posts of this post type")
	cmd.Flags().IntP("limit", "l", config.DefaultLimit,
		"Maximum number of posts to show (-1 shows all)")

	// Detail flags
	cmd.Flags().Bool("content", false,
		"Include post bodies in the post listing")
	cmd.Flags().Bool("term-registry", false,
		"Seed custom taxonomies from <wp:term> declarations")
	cmd.Flags().IntP("value-width", "w", config.DefaultValueWidth,
		"Truncate custom field values to this many characters (0 disables)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wpanalyzer in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().Bool("html", false,
		"Output HTML report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not store the analysis in the history database")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if !cfg.AnyReport() {
		return cmd.Help()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := wplog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cmd, cfg, explicitFlags(cmd), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// explicitFlags returns the per-export flags the user set.
func explicitFlags(cmd *cobra.Command) map[string]bool {
	explicit := make(map[string]bool, len(perExportFlags))
	for _, name := range perExportFlags {
		if cmd.Flags().Changed(name) {
			explicit[name] = true
		}
	}
	return explicit
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.PostTypes, err = flags.GetBool("post-types"); err != nil {
		return nil, err
	}
	if cfg.CustomFields, err = flags.GetBool("custom-fields"); err != nil {
		return nil, err
	}
	if cfg.PostTypeFilter, err = flags.GetString("post-type"); err != nil {
		return nil, err
	}
	if cfg.Taxonomies, err = flags.GetBool("taxonomies"); err != nil {
		return nil, err
	}
	if cfg.ShowPosts, err = flags.GetString("show-posts"); err != nil {
		return nil, err
	}
	if cfg.Limit, err = flags.GetInt("limit"); err != nil {
		return nil, err
	}
	if cfg.IncludeContent, err = flags.GetBool("content"); err != nil {
		return nil, err
	}
	if cfg.TermRegistry, err = flags.GetBool("term-registry"); err != nil {
		return nil, err
	}
	if cfg.ValueWidth, err = flags.GetInt("value-width"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.HTMLReport, err = flags.GetBool("html"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default locations
	// are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Inputs = args

	return cfg, nil
}

// expandInputs resolves glob patterns to export paths. Plain paths are kept
// as given so that a missing file surfaces as a load error.
func expandInputs(inputs []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, input := range inputs {
		if !strings.ContainsAny(input, "*?[{") {
			add(input)
			continue
		}
		matches, err := doublestar.FilepathGlob(input, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", input, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no exports match %q", input)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return paths, nil
}

// runAnalyze analyzes every export in cfg.Inputs.
func runAnalyze(ctx context.Context, cmd *cobra.Command, cfg *config.Config, explicit map[string]bool, logger *slog.Logger) error {
	paths, err := expandInputs(cfg.Inputs)
	if err != nil {
		return err
	}

	logger.Info("starting analysis",
		"exports", len(paths),
		"saveHistory", cfg.SaveHistory,
	)

	var db *database.HistoryDB
	if cfg.SaveHistory {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "path", db.Path())
	}

	output, closeOutput, err := openOutput(cmd.OutOrStdout(), cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	failed := false
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		exportCfg := cfg.ForExport(path, explicit)
		analysis, err := analyzeExport(ctx, exportCfg, path, logger)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error loading XML file: %v\n", err)
			failed = true
			continue
		}

		if _, err := newWriter(exportCfg, output).Write(analysis); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", path, err)
		}

		if err := saveAnalysis(ctx, db, analysis, logger); err != nil {
			logger.Error("failed to save analysis", "source", path, "error", err)
		}
	}

	if failed {
		return errLoadFailed
	}
	return nil
}

// analyzeExport loads the export at path and runs the selected analyses.
func analyzeExport(ctx context.Context, cfg *config.Config, path string, logger *slog.Logger) (*model.AnalysisReport, error) {
	a, err := analyzer.Load(path,
		analyzer.WithLogger(logger),
		analyzer.WithTermRegistry(cfg.TermRegistry),
		analyzer.WithContent(cfg.IncludeContent),
	)
	if err != nil {
		return nil, err
	}

	analysis := model.NewAnalysisReport(filepath.Clean(path), a.Document().Digest())
	p := pipeline.DefaultPipeline(a, selection(cfg),
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	if err := p.Execute(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// selection maps the report flags to pipeline steps.
func selection(cfg *config.Config) pipeline.Selection {
	return pipeline.Selection{
		PostTypes:        cfg.PostTypes,
		CustomFields:     cfg.CustomFields,
		CustomFieldsType: cfg.PostTypeFilter,
		Taxonomies:       cfg.Taxonomies,
		PostsType:        cfg.ShowPosts,
		Limit:            cfg.Limit,
	}
}

// newWriter returns the report writer for the configured format.
func newWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch cfg.Format() {
	case config.FormatJSON:
		return report.NewVersionedJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(output, report.WithMarkdownValueWidth(cfg.ValueWidth))
	case config.FormatHTML:
		return report.NewHTMLWriter(output, report.WithMarkdownValueWidth(cfg.ValueWidth))
	default:
		return report.NewSimpleWriter(output,
			report.WithValueWidth(cfg.ValueWidth),
			report.WithHeader(len(cfg.Inputs) > 1 || hasGlob(cfg.Inputs)),
		)
	}
}

func hasGlob(inputs []string) bool {
	for _, in := range inputs {
		if strings.ContainsAny(in, "*?[{") {
			return true
		}
	}
	return false
}

// openOutput returns the report destination. An empty path writes to stdout.
func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Exports can hold private post meta; keep the report owner-only.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// saveAnalysis stores the analysis in the history database.
// If db is nil, this function is a no-op.
func saveAnalysis(ctx context.Context, db *database.HistoryDB, analysis *model.AnalysisReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	previous, err := db.FindByDigest(ctx, analysis.Digest)
	if err != nil {
		return err
	}
	if previous != nil {
		logger.Info("export unchanged since an earlier run",
			"source", analysis.Source,
			"previousRun", previous.ID,
			"previousSource", previous.Source,
		)
	}

	id, err := db.SaveAnalysis(ctx, analysis)
	if err != nil {
		return err
	}
	logger.Info("analysis saved to history", "source", analysis.Source, "run", id)
	return nil
}
