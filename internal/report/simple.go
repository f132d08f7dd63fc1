package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wpanalyzer/internal/model"
)

// SimpleWriter outputs plain text for terminal display. Each requested
// analysis becomes a section with a dashed underline.
type SimpleWriter struct {
	baseWriter

	// valueWidth truncates custom field values; 0 disables truncation.
	valueWidth int

	// header prints the export summary before the sections.
	header bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithValueWidth truncates custom field values to width runes.
func WithValueWidth(width int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.valueWidth = width
	}
}

// WithHeader prints the export path and counts before the sections.
func WithHeader(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.header = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report sections that were analyzed.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	if w.header {
		w.writeHeader(&sb, report)
	}
	if report.HasStep(model.StepPostTypes) {
		w.writePostTypes(&sb, report)
	}
	if report.HasStep(model.StepCustomFields) {
		w.writeCustomFields(&sb, report)
	}
	if report.HasStep(model.StepTaxonomies) {
		w.writeTaxonomies(&sb, report)
	}
	if report.HasStep(model.StepPosts) {
		w.writePosts(&sb, report)
	}
	if report.ErrorMessage != "" {
		fmt.Fprintf(&sb, "\nError: %s\n", report.ErrorMessage)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	fmt.Fprintf(sb, "Export: %s\n", report.Source)
	fmt.Fprintf(sb, "Items:  %d (%d with a post type)\n", report.Stats.Items, report.Stats.TypedItems)
}

func heading(sb *strings.Builder, title string) {
	fmt.Fprintf(sb, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func (w *SimpleWriter) writePostTypes(sb *strings.Builder, report *model.AnalysisReport) {
	heading(sb, "Post Types Found:")
	for _, pc := range report.PostTypes.ByCount() {
		fmt.Fprintf(sb, "%s: %d items\n", pc.PostType, pc.Count)
	}
}

func (w *SimpleWriter) writeCustomFields(sb *strings.Builder, report *model.AnalysisReport) {
	heading(sb, "Custom Fields by Post Type:")
	if len(report.CustomFields) == 0 {
		if report.CustomFieldsFilter != "" {
			fmt.Fprintf(sb, "No custom fields found for post type: %s\n", report.CustomFieldsFilter)
		} else {
			sb.WriteString("No custom fields found\n")
		}
		return
	}
	for _, postType := range report.CustomFields.PostTypes() {
		fmt.Fprintf(sb, "\n%s:\n", postType)
		for _, field := range report.CustomFields[postType].Sorted() {
			fmt.Fprintf(sb, "  - %s\n", field)
		}
	}
}

func (w *SimpleWriter) writeTaxonomies(sb *strings.Builder, report *model.AnalysisReport) {
	heading(sb, "Taxonomies Analysis:")
	for _, domain := range report.Taxonomies.Domains() {
		summary := report.Taxonomies[domain]
		fmt.Fprintf(sb, "\n%s:\n", domain)
		fmt.Fprintf(sb, "  Total Terms: %d\n", summary.TotalTerms)
		sb.WriteString("  Usage by Post Type:\n")
		for _, postType := range summary.UsagePostTypes() {
			fmt.Fprintf(sb, "    - %s: %d uses\n", postTypeLabel(postType), summary.UsageByPostType[postType])
		}
		sb.WriteString("  Terms:\n")
		for _, term := range summary.Terms {
			fmt.Fprintf(sb, "    - %s\n", term)
		}
	}
}

func (w *SimpleWriter) writePosts(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.Posts) == 0 {
		fmt.Fprintf(sb, "\nNo posts found of type: %s\n", report.PostsType)
		return
	}

	title := fmt.Sprintf("Posts of type '%s':", report.PostsType)
	heading(sb, title)
	for _, post := range report.Posts {
		fmt.Fprintf(sb, "\nTitle: %s\n", post.Title)
		fmt.Fprintf(sb, "ID: %s\n", post.ID)
		fmt.Fprintf(sb, "Slug: %s\n", post.Slug)
		fmt.Fprintf(sb, "Status: %s\n", post.Status)
		fmt.Fprintf(sb, "Date: %s\n", post.Date)

		if len(post.CustomFields) > 0 {
			sb.WriteString("Custom Fields:\n")
			for _, field := range post.FieldNames() {
				value := post.CustomFields[field]
				if value == "" {
					value = "''"
				}
				fmt.Fprintf(sb, "  - %s: %s\n", field, truncate(value, w.valueWidth))
			}
		}

		if len(post.Taxonomies) > 0 {
			sb.WriteString("Taxonomies:\n")
			for _, domain := range post.TaxonomyNames() {
				fmt.Fprintf(sb, "  %s:\n", domain)
				for _, term := range post.Taxonomies[domain] {
					fmt.Fprintf(sb, "    - %s (%s)\n", term.Name, term.Nicename)
				}
			}
		}
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")
	}
}
