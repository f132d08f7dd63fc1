package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/wpanalyzer/internal/config"
	"github.com/nao1215/wpanalyzer/internal/database"
	"github.com/nao1215/wpanalyzer/internal/model"
)

// Constants for the direction of a census change.
const (
	directionGrew      = "grew"
	directionShrank    = "shrank"
	directionUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// It lists stored analyses and compares runs of the same export.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [export.xml]",
		Short: "Compare an export with earlier analyses",
		Long: `History shows what changed between analyses of the same export path:

- Post types that appeared or disappeared, and count changes
- Custom fields added or removed per post type
- Taxonomy term count changes

Only sections computed in both runs are compared. Use 'wpanalyzer analyze'
to record runs.

Examples:
  # Compare the latest two runs of an export
  wpanalyzer history export.xml

  # List all runs of an export
  wpanalyzer history --list export.xml

  # Compare the latest run with a specific earlier run
  wpanalyzer history --with-run 3f1c... export.xml

  # List all analyzed exports
  wpanalyzer history --list-sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List the runs of the specified export")
	cmd.Flags().BoolP("list-sources", "L", false,
		"List every export in the history database")
	cmd.Flags().StringP("with-run", "i", "",
		"Compare the latest run with this run ID (use --list to see IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var source string
	if !listSources {
		if len(args) == 0 {
			return errors.New("export path is required (use --list-sources to see analyzed exports)")
		}
		source = filepath.Clean(args[0])
	}

	db, err := database.Open(historyDBDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if listSources {
		return listAnalyzedSources(ctx, out, db)
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listRuns(ctx, out, db, source)
	}

	withRun, err := cmd.Flags().GetString("with-run")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	result, err := runComparison(ctx, db, source, withRun)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// historyDBDir is the database directory; tests override it.
var historyDBDir = config.XDGDataDir

// listAnalyzedSources lists every export with stored runs.
func listAnalyzedSources(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Fprintln(out, "No analyzed exports found in the database.")
		fmt.Fprintln(out, "\nUse 'wpanalyzer analyze <export.xml>' to analyze an export.")
		return nil
	}

	fmt.Fprintf(out, "Analyzed exports (%d):\n\n", len(sources))
	for _, s := range sources {
		fmt.Fprintf(out, "  • %s\n", s)
	}
	fmt.Fprintln(out, "\nUse 'wpanalyzer history --list <export.xml>' to see the runs of an export.")

	return nil
}

// listRuns lists the runs of source, newest first.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, source string) error {
	runs, err := db.GetHistory(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No history found for %s\n", source)
		fmt.Fprintln(out, "\nUse 'wpanalyzer analyze' to analyze this export.")
		return nil
	}

	fmt.Fprintf(out, "History for %s (%d runs):\n\n", source, len(runs))
	fmt.Fprintf(out, "  %-36s  %-20s  %-6s  %s\n", "Run", "Date", "Items", "Post Types")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-36s  %-20s  %-6d  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Items,
			formatCensus(run.Census),
		)
	}

	fmt.Fprintln(out, "\nUse 'wpanalyzer history <export.xml>' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'wpanalyzer history --with-run <id> <export.xml>' to compare with a specific run.")

	return nil
}

// formatCensus formats a census as "post:3 page:1".
func formatCensus(census model.PostTypeCensus) string {
	if len(census) == 0 {
		return "N/A"
	}
	parts := make([]string, 0, len(census))
	for _, pc := range census.ByCount() {
		parts = append(parts, pc.PostType+":"+strconv.Itoa(pc.Count))
	}
	return strings.Join(parts, " ")
}

// runComparison loads the runs to compare and diffs them.
func runComparison(ctx context.Context, db *database.HistoryDB, source, withRun string) (*ComparisonResult, error) {
	runs, err := db.GetHistory(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no history found for %s", source)
	}
	if len(runs) < 2 && withRun == "" {
		return nil, fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
	}

	currentID := runs[0].ID
	previousID := withRun
	if previousID == "" {
		previousID = runs[1].ID
	}

	current, err := db.GetAnalysisByID(ctx, currentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", currentID, err)
	}
	previous, err := db.GetAnalysisByID(ctx, previousID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", previousID, err)
	}
	if current == nil {
		return nil, fmt.Errorf("run %s not found", currentID)
	}
	if previous == nil {
		return nil, fmt.Errorf("run %s not found", previousID)
	}
	if previous.Source != source {
		return nil, fmt.Errorf("run %s belongs to %s, not %s", previousID, previous.Source, source)
	}

	result := compareReports(previous, current)
	result.PreviousRun.ID = previousID
	result.CurrentRun.ID = currentID
	return result, nil
}

// ComparisonResult holds the differences between two runs of one export.
type ComparisonResult struct {
	// Source is the export path.
	Source string `json:"source"`

	// PreviousRun and CurrentRun describe the compared runs.
	PreviousRun RunSummary `json:"previous_run"`
	CurrentRun  RunSummary `json:"current_run"`

	// SameContent is true when both runs saw byte-identical exports.
	SameContent bool `json:"same_content"`

	// Direction is "grew", "shrank" or "unchanged" by typed item count.
	Direction string `json:"direction"`

	// PostTypes lists every post type present in either census.
	PostTypes []PostTypeDelta `json:"post_types,omitempty"`

	// AddedFields and RemovedFields are keyed by post type.
	AddedFields   map[string][]string `json:"added_fields,omitempty"`
	RemovedFields map[string][]string `json:"removed_fields,omitempty"`

	// Taxonomies lists term count changes per domain.
	Taxonomies []TaxonomyDelta `json:"taxonomies,omitempty"`
}

// RunSummary describes one side of a comparison.
type RunSummary struct {
	ID         string    `json:"id"`
	Digest     string    `json:"digest"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Items      int       `json:"items"`
	TypedItems int       `json:"typed_items"`
}

// PostTypeDelta is the count change of one post type.
type PostTypeDelta struct {
	PostType string `json:"post_type"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
}

// Delta returns Current - Previous.
func (d PostTypeDelta) Delta() int {
	return d.Current - d.Previous
}

// TaxonomyDelta is the term count change of one domain.
type TaxonomyDelta struct {
	Domain   string `json:"domain"`
	Previous int    `json:"previous_terms"`
	Current  int    `json:"current_terms"`
}

// compareReports diffs the sections computed in both reports.
func compareReports(previous, current *model.AnalysisReport) *ComparisonResult {
	result := &ComparisonResult{
		Source:      current.Source,
		PreviousRun: summarize(previous),
		CurrentRun:  summarize(current),
		SameContent: previous.Digest != "" && previous.Digest == current.Digest,
	}

	switch {
	case current.Stats.TypedItems > previous.Stats.TypedItems:
		result.Direction = directionGrew
	case current.Stats.TypedItems < previous.Stats.TypedItems:
		result.Direction = directionShrank
	default:
		result.Direction = directionUnchanged
	}

	if previous.HasStep(model.StepPostTypes) && current.HasStep(model.StepPostTypes) {
		result.PostTypes = diffCensus(previous.PostTypes, current.PostTypes)
	}
	if previous.HasStep(model.StepCustomFields) && current.HasStep(model.StepCustomFields) &&
		previous.CustomFieldsFilter == current.CustomFieldsFilter {
		result.AddedFields = diffFields(current.CustomFields, previous.CustomFields)
		result.RemovedFields = diffFields(previous.CustomFields, current.CustomFields)
	}
	if previous.HasStep(model.StepTaxonomies) && current.HasStep(model.StepTaxonomies) {
		result.Taxonomies = diffTaxonomies(previous.Taxonomies, current.Taxonomies)
	}

	return result
}

func summarize(r *model.AnalysisReport) RunSummary {
	return RunSummary{
		Digest:     r.Digest,
		AnalyzedAt: r.AnalyzedAt,
		Items:      r.Stats.Items,
		TypedItems: r.Stats.TypedItems,
	}
}

// diffCensus pairs the counts of both censuses, sorted by post type.
func diffCensus(previous, current model.PostTypeCensus) []PostTypeDelta {
	prev := previous.Counts()
	curr := current.Counts()

	names := make(map[string]struct{}, len(prev)+len(curr))
	for pt := range prev {
		names[pt] = struct{}{}
	}
	for pt := range curr {
		names[pt] = struct{}{}
	}

	deltas := make([]PostTypeDelta, 0, len(names))
	for pt := range names {
		deltas = append(deltas, PostTypeDelta{PostType: pt, Previous: prev[pt], Current: curr[pt]})
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].PostType < deltas[j].PostType
	})
	return deltas
}

// diffFields returns, per post type, the fields in a that are not in b.
func diffFields(a, b model.FieldInventory) map[string][]string {
	out := make(map[string][]string)
	for _, postType := range a.PostTypes() {
		for _, field := range a[postType].Sorted() {
			if !b[postType].Has(field) {
				out[postType] = append(out[postType], field)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// diffTaxonomies lists domains whose term count changed, sorted by name.
func diffTaxonomies(previous, current model.TaxonomyIndex) []TaxonomyDelta {
	names := make(map[string]struct{})
	for d := range previous {
		names[d] = struct{}{}
	}
	for d := range current {
		names[d] = struct{}{}
	}

	var deltas []TaxonomyDelta
	for d := range names {
		p, c := previous[d].TotalTerms, current[d].TotalTerms
		if p != c {
			deltas = append(deltas, TaxonomyDelta{Domain: d, Previous: p, Current: c})
		}
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Domain < deltas[j].Domain
	})
	return deltas
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result as plain text.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Comparison for %s\n", result.Source)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Previous: %s (%s)\n", result.PreviousRun.ID, result.PreviousRun.AnalyzedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current:  %s (%s)\n", result.CurrentRun.ID, result.CurrentRun.AnalyzedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Items:    %d -> %d (%s)\n", result.PreviousRun.TypedItems, result.CurrentRun.TypedItems,
		strings.ToUpper(result.Direction))
	if result.SameContent {
		fmt.Fprintln(out, "\nThe export content is identical in both runs.")
	}

	if len(result.PostTypes) > 0 {
		fmt.Fprintln(out, "\nPost Types:")
		fmt.Fprintf(out, "  %-20s  %-10s  %-10s  %-10s\n", "Post Type", "Previous", "Current", "Change")
		fmt.Fprintln(out, "  "+strings.Repeat("-", 56))
		for _, d := range result.PostTypes {
			fmt.Fprintf(out, "  %-20s  %-10d  %-10d  %-10s\n", d.PostType, d.Previous, d.Current, formatDelta(d.Delta()))
		}
	}

	writeFieldChanges(out, "Added Fields", "[+]", result.AddedFields)
	writeFieldChanges(out, "Removed Fields", "[-]", result.RemovedFields)

	if len(result.Taxonomies) > 0 {
		fmt.Fprintln(out, "\nTaxonomy Term Counts:")
		for _, d := range result.Taxonomies {
			fmt.Fprintf(out, "  %s: %d -> %d (%s)\n", d.Domain, d.Previous, d.Current, formatDelta(d.Current-d.Previous))
		}
	}

	return nil
}

func writeFieldChanges(out io.Writer, title, marker string, fields map[string][]string) {
	if len(fields) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	postTypes := make([]string, 0, len(fields))
	for pt := range fields {
		postTypes = append(postTypes, pt)
	}
	sort.Strings(postTypes)
	for _, pt := range postTypes {
		for _, f := range fields[pt] {
			fmt.Fprintf(out, "  %s %s: %s\n", marker, pt, f)
		}
	}
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Export Comparison: " + result.Source)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Run", "ID", "Date", "Items"},
		Rows: [][]string{
			{"Previous", "`" + result.PreviousRun.ID + "`", result.PreviousRun.AnalyzedAt.Format("2006-01-02 15:04"), strconv.Itoa(result.PreviousRun.TypedItems)},
			{"Current", "`" + result.CurrentRun.ID + "`", result.CurrentRun.AnalyzedAt.Format("2006-01-02 15:04"), strconv.Itoa(result.CurrentRun.TypedItems)},
		},
	})
	md.PlainText("")

	if result.SameContent {
		md.Note("The export content is identical in both runs.")
		md.PlainText("")
	}

	if len(result.PostTypes) > 0 {
		md.H2("Post Types")
		md.PlainText("")
		rows := make([][]string, 0, len(result.PostTypes))
		for _, d := range result.PostTypes {
			rows = append(rows, []string{"`" + d.PostType + "`", strconv.Itoa(d.Previous), strconv.Itoa(d.Current), formatDelta(d.Delta())})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Post Type", "Previous", "Current", "Change"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(result.AddedFields) > 0 || len(result.RemovedFields) > 0 {
		md.H2("Custom Fields")
		md.PlainText("")
		var items []string
		for pt, fields := range result.AddedFields {
			for _, f := range fields {
				items = append(items, "added `"+pt+"."+f+"`")
			}
		}
		for pt, fields := range result.RemovedFields {
			for _, f := range fields {
				items = append(items, "removed `"+pt+"."+f+"`")
			}
		}
		sort.Strings(items)
		md.BulletList(items...)
		md.PlainText("")
	}

	if len(result.Taxonomies) > 0 {
		md.H2("Taxonomies")
		md.PlainText("")
		rows := make([][]string, 0, len(result.Taxonomies))
		for _, d := range result.Taxonomies {
			rows = append(rows, []string{"`" + d.Domain + "`", strconv.Itoa(d.Previous), strconv.Itoa(d.Current)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Taxonomy", "Previous Terms", "Current Terms"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return md.Build()
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
