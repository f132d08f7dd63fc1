package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/wpanalyzer/internal/model"
	"github.com/nao1215/wpanalyzer/internal/wxr"
)

// MarkdownWriter outputs reports in Markdown format for documentation and
// sharing. Post bodies, when present, are converted from HTML to Markdown.
type MarkdownWriter struct {
	baseWriter

	valueWidth int
	title      cases.Caser
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownValueWidth truncates custom field values to width runes.
func WithMarkdownValueWidth(width int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.valueWidth = width
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	doc := w.render(report)
	return w.output.Write([]byte(doc))
}

// render builds the Markdown document for report.
func (w *MarkdownWriter) render(report *model.AnalysisReport) string {
	var sb strings.Builder
	md := markdown.NewMarkdown(&sb)

	w.writeHeader(md, report)
	if report.HasStep(model.StepPostTypes) {
		w.writePostTypes(md, report)
	}
	if report.HasStep(model.StepCustomFields) {
		w.writeCustomFields(md, report)
	}
	if report.HasStep(model.StepTaxonomies) {
		w.writeTaxonomies(md, report)
	}
	if report.HasStep(model.StepPosts) {
		w.writePosts(md, report)
	}
	w.writeFooter(md)

	return md.String()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("WordPress Export Analysis")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Export", "`" + report.Source + "`"},
			{"Digest", "`" + shortDigest(report.Digest) + "`"},
			{"Analyzed", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST")},
			{"Items", strconv.Itoa(report.Stats.Items)},
			{"Items with a post type", strconv.Itoa(report.Stats.TypedItems)},
			{"Meta entries", strconv.Itoa(report.Stats.MetaEntries)},
			{"Term assignments", strconv.Itoa(report.Stats.TermAssignments)},
		},
	})
	md.PlainText("")

	if report.ErrorMessage != "" {
		md.Warningf("Analysis incomplete: %s", report.ErrorMessage)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writePostTypes(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Post Types")
	md.PlainText("")

	census := report.PostTypes.ByCount()
	if len(census) == 0 {
		md.Note("No items with a post type were found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(census)+1)
	for _, pc := range census {
		rows = append(rows, []string{"`" + pc.PostType + "`", strconv.Itoa(pc.Count)})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(census.Total()) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Post Type", "Items"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Items by Post Type"),
		piechart.WithShowData(true),
	)
	for _, pc := range census {
		chart.LabelAndIntValue(pc.PostType, uint64(pc.Count))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeCustomFields(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Custom Fields")
	md.PlainText("")

	if len(report.CustomFields) == 0 {
		if report.CustomFieldsFilter != "" {
			md.PlainTextf("No custom fields found for post type `%s`.", report.CustomFieldsFilter)
		} else {
			md.PlainText("No custom fields found.")
		}
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.CustomFields))
	for _, postType := range report.CustomFields.PostTypes() {
		fields := report.CustomFields[postType].Sorted()
		for i, f := range fields {
			fields[i] = "`" + f + "`"
		}
		rows = append(rows, []string{
			"`" + postType + "`",
			strconv.Itoa(len(fields)),
			strings.Join(fields, ", "),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Post Type", "Fields", "Names"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeTaxonomies(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Taxonomies")
	md.PlainText("")

	domains := report.Taxonomies.Domains()
	if len(domains) == 0 {
		md.PlainText("No taxonomies found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(domains))
	for _, domain := range domains {
		summary := report.Taxonomies[domain]
		usage := make([]string, 0, len(summary.UsageByPostType))
		for _, postType := range summary.UsagePostTypes() {
			usage = append(usage, postTypeLabel(postType)+": "+strconv.Itoa(summary.UsageByPostType[postType]))
		}
		rows = append(rows, []string{
			"`" + domain + "`",
			strconv.Itoa(summary.TotalTerms),
			strconv.Itoa(summary.TotalUsage()),
			strings.Join(usage, ", "),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Taxonomy", "Terms", "Uses", "Usage by Post Type"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, domain := range domains {
		terms := report.Taxonomies[domain].Terms
		if len(terms) == 0 {
			continue
		}
		items := make([]string, 0, len(terms))
		for _, term := range terms {
			items = append(items, "`"+term+"`")
		}
		md.H3(domain + " terms")
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writePosts(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Posts of type `" + report.PostsType + "`")
	md.PlainText("")

	if len(report.Posts) == 0 {
		md.PlainTextf("No posts found of type `%s`.", report.PostsType)
		md.PlainText("")
		return
	}

	for _, post := range report.Posts {
		title := post.Title
		if title == "" {
			title = "(untitled)"
		}
		md.H3(title)
		md.PlainText("")

		md.Table(markdown.TableSet{
			Header: []string{"ID", "Slug", "Status", "Date", "Words"},
			Rows: [][]string{{
				escapeCell(post.ID),
				escapeCell(post.Slug),
				escapeCell(w.title.String(post.Status)),
				escapeCell(post.Date),
				strconv.Itoa(post.WordCount),
			}},
		})
		md.PlainText("")

		if len(post.CustomFields) > 0 {
			rows := make([][]string, 0, len(post.CustomFields))
			for _, field := range post.FieldNames() {
				rows = append(rows, []string{
					"`" + field + "`",
					escapeCell(truncate(post.CustomFields[field], w.valueWidth)),
				})
			}
			md.Table(markdown.TableSet{
				Header: []string{"Custom Field", "Value"},
				Rows:   rows,
			})
			md.PlainText("")
		}

		if len(post.Taxonomies) > 0 {
			items := make([]string, 0, len(post.Taxonomies))
			for _, domain := range post.TaxonomyNames() {
				terms := make([]string, 0, len(post.Taxonomies[domain]))
				for _, term := range post.Taxonomies[domain] {
					terms = append(terms, term.Name+" (`"+term.Nicename+"`)")
				}
				items = append(items, "**"+domain+"**: "+strings.Join(terms, ", "))
			}
			md.BulletList(items...)
			md.PlainText("")
		}

		if excerpt := bodyMarkdown(post.Excerpt); excerpt != "" {
			md.Blockquote(excerpt)
			md.PlainText("")
		}

		if body := bodyMarkdown(post.Content); body != "" {
			md.H4("Content")
			md.PlainText("")
			md.PlainText(body)
			md.PlainText("")
		}
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [wpanalyzer](https://github.com/nao1215/wpanalyzer)*")
}

// bodyMarkdown converts an HTML body to Markdown. Bodies the converter
// rejects fall back to their plain text, so no raw markup reaches the report.
func bodyMarkdown(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	converted, err := wxr.HTMLToMarkdown(body)
	if err != nil {
		converted = wxr.PlainText(body)
	}
	return strings.TrimSpace(converted)
}

func shortDigest(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}

// escapeCell keeps a value on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
