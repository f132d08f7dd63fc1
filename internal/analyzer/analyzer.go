package analyzer

import (
	"log/slog"
	"sort"

	wplog "github.com/nao1215/wpanalyzer/internal/log"
	"github.com/nao1215/wpanalyzer/internal/model"
	"github.com/nao1215/wpanalyzer/internal/wxr"
)

// NoLimit makes Posts return every matching item.
const NoLimit = -1

// Analyzer runs aggregation queries over one export.
type Analyzer struct {
	doc   *wxr.Document
	items []wxr.Item

	// termRegistry also seeds custom taxonomies from <wp:term>.
	termRegistry bool

	// includeContent copies the raw HTML body into Post views.
	includeContent bool

	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithTermRegistry enables seeding custom taxonomy domains from the
// document's <wp:term> declarations, in addition to the built-in
// category and post_tag registry.
func WithTermRegistry(enabled bool) Option {
	return func(a *Analyzer) {
		a.termRegistry = enabled
	}
}

// WithContent copies each item's HTML body into Post.Content.
func WithContent(enabled bool) Option {
	return func(a *Analyzer) {
		a.includeContent = enabled
	}
}

// New creates an Analyzer over an already parsed document.
func New(doc *wxr.Document, opts ...Option) *Analyzer {
	a := &Analyzer{
		doc:    doc,
		items:  doc.Items(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load parses the export at path and returns an Analyzer for it.
// The error is a *wxr.ParseError; no Analyzer is returned on failure.
func Load(path string, opts ...Option) (*Analyzer, error) {
	doc, err := wxr.Load(path)
	if err != nil {
		return nil, err
	}
	a := New(doc, opts...)
	a.logger.Debug("export loaded",
		"path", path,
		"items", len(a.items),
		"namespace", doc.ExportNamespace(),
	)
	return a, nil
}

// Document returns the analyzed document.
func (a *Analyzer) Document() *wxr.Document {
	return a.doc
}

// Stats returns raw counts over the whole export.
func (a *Analyzer) Stats() model.ExportStats {
	stats := model.ExportStats{Items: len(a.items)}
	for _, item := range a.items {
		if _, ok := item.PostType(); ok {
			stats.TypedItems++
		}
		stats.MetaEntries += len(item.Meta())
		stats.TermAssignments += len(item.Terms())
	}
	return stats
}

// PostTypes counts items per post type in encounter order.
// Items without a post type are skipped.
func (a *Analyzer) PostTypes() model.PostTypeCensus {
	census := model.PostTypeCensus{}
	index := make(map[string]int)

	for _, item := range a.items {
		postType, ok := item.PostType()
		if !ok {
			continue
		}
		i, seen := index[postType]
		if !seen {
			i = len(census)
			index[postType] = i
			census = append(census, model.PostTypeCount{PostType: postType})
		}
		census[i].Count++
	}
	return census
}

// CustomFields collects the public meta keys per post type. A non-empty
// filter restricts the result to that post type; when nothing matches the
// inventory is empty.
func (a *Analyzer) CustomFields(filter string) model.FieldInventory {
	inv := model.FieldInventory{}

	for _, item := range a.items {
		postType, ok := item.PostType()
		if !ok {
			continue
		}
		if filter != "" && postType != filter {
			continue
		}
		for _, meta := range item.Meta() {
			if meta.Key == "" || meta.Internal() {
				continue
			}
			inv.Add(postType, meta.Key)
		}
	}
	return inv
}

// Posts returns the detail views of items of postType in document order.
// A negative limit returns every match; otherwise at most limit views are
// returned, taken from the front.
func (a *Analyzer) Posts(postType string, limit int) []model.Post {
	posts := []model.Post{}
	if limit == 0 {
		return posts
	}

	for _, item := range a.items {
		pt, ok := item.PostType()
		if !ok || pt != postType {
			continue
		}

		posts = append(posts, a.postView(item))

		if limit > 0 && len(posts) >= limit {
			break
		}
	}
	return posts
}

// postView builds the Post view of item.
func (a *Analyzer) postView(item wxr.Item) model.Post {
	title, _ := item.Title()
	slug, _ := item.Slug()
	id, _ := item.ID()
	status, _ := item.Status()
	date, _ := item.Date()
	excerpt, _ := item.Excerpt()
	content, _ := item.Content()

	post := model.Post{
		Title:     title,
		Slug:      slug,
		ID:        id,
		Status:    status,
		Date:      date,
		Excerpt:   excerpt,
		WordCount: wxr.WordCount(content),
	}
	if a.includeContent {
		post.Content = content
	}

	for _, meta := range item.Meta() {
		if meta.Key == "" || !meta.HasValue || meta.Internal() {
			continue
		}
		if post.CustomFields == nil {
			post.CustomFields = make(map[string]string)
		}
		post.CustomFields[meta.Key] = meta.Value
		a.logger.Debug("custom field",
			slog.String("post_id", id),
			slog.String(wplog.PairKey, meta.Key),
			slog.String(wplog.PairValue, meta.Value),
		)
	}

	for _, term := range item.Terms() {
		if term.Domain == "" {
			continue
		}
		if post.Taxonomies == nil {
			post.Taxonomies = make(map[string][]model.TermRef)
		}
		post.Taxonomies[term.Domain] = append(post.Taxonomies[term.Domain], model.TermRef{
			Name:     term.Name,
			Nicename: term.Nicename,
		})
	}

	return post
}

// taxonomyAccumulator gathers one domain during the fold in Taxonomies.
type taxonomyAccumulator struct {
	terms map[string]struct{}
	usage map[string]int
}

// Taxonomies reports the terms and usage of every taxonomy domain.
//
// Terms come from two places: the document registry (category and
// post_tag, plus custom taxonomies when WithTermRegistry is set) and the
// assignments on items. Usage counts every assignment, so an item that
// carries the same domain twice counts twice.
func (a *Analyzer) Taxonomies() model.TaxonomyIndex {
	acc := make(map[string]*taxonomyAccumulator)
	domain := func(name string) *taxonomyAccumulator {
		d, ok := acc[name]
		if !ok {
			d = &taxonomyAccumulator{
				terms: make(map[string]struct{}),
				usage: make(map[string]int),
			}
			acc[name] = d
		}
		return d
	}

	registry := a.doc.RegisteredTerms()
	if a.termRegistry {
		registry = append(registry, a.doc.CustomRegisteredTerms()...)
	}
	for _, rt := range registry {
		domain(rt.Taxonomy).terms[rt.Nicename] = struct{}{}
	}

	for _, item := range a.items {
		// Untyped items land in the "" bucket.
		postType, _ := item.PostType()
		for _, term := range item.Terms() {
			if term.Domain == "" {
				continue
			}
			d := domain(term.Domain)
			d.terms[term.Nicename] = struct{}{}
			d.usage[postType]++
		}
	}

	index := make(model.TaxonomyIndex, len(acc))
	for name, d := range acc {
		terms := make([]string, 0, len(d.terms))
		for t := range d.terms {
			terms = append(terms, t)
		}
		sort.Strings(terms)

		index[name] = model.TaxonomySummary{
			Terms:           terms,
			UsageByPostType: d.usage,
			TotalTerms:      len(terms),
		}
	}
	return index
}
