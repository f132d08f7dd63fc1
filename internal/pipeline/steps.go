package pipeline

import (
	"context"
	"errors"

	"github.com/nao1215/wpanalyzer/internal/model"
)

// Source is the part of the analyzer the steps read from.
type Source interface {
	Stats() model.ExportStats
	PostTypes() model.PostTypeCensus
	CustomFields(filter string) model.FieldInventory
	Taxonomies() model.TaxonomyIndex
	Posts(postType string, limit int) []model.Post
}

// ErrNoPostType is returned by PostsStep when no post type was given.
var ErrNoPostType = errors.New("posts step requires a post type")

// StatsStep records whole-export counts.
type StatsStep struct {
	src Source
}

// NewStatsStep creates a StatsStep.
func NewStatsStep(src Source) *StatsStep {
	return &StatsStep{src: src}
}

// Name returns the step name.
func (s *StatsStep) Name() string {
	return "stats"
}

// Do fills report.Stats.
func (s *StatsStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.Stats = s.src.Stats()
	return nil
}

// PostTypesStep builds the post-type census.
type PostTypesStep struct {
	src Source
}

// NewPostTypesStep creates a PostTypesStep.
func NewPostTypesStep(src Source) *PostTypesStep {
	return &PostTypesStep{src: src}
}

// Name returns the step name.
func (s *PostTypesStep) Name() string {
	return model.StepPostTypes
}

// Do fills report.PostTypes.
func (s *PostTypesStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.PostTypes = s.src.PostTypes()
	return nil
}

// CustomFieldsStep builds the custom-field inventory, optionally for a
// single post type.
type CustomFieldsStep struct {
	src    Source
	filter string
}

// NewCustomFieldsStep creates a CustomFieldsStep. An empty filter covers
// every post type.
func NewCustomFieldsStep(src Source, filter string) *CustomFieldsStep {
	return &CustomFieldsStep{src: src, filter: filter}
}

// Name returns the step name.
func (s *CustomFieldsStep) Name() string {
	return model.StepCustomFields
}

// Do fills report.CustomFields.
func (s *CustomFieldsStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.CustomFields = s.src.CustomFields(s.filter)
	report.CustomFieldsFilter = s.filter
	return nil
}

// TaxonomiesStep builds the taxonomy usage index.
type TaxonomiesStep struct {
	src Source
}

// NewTaxonomiesStep creates a TaxonomiesStep.
func NewTaxonomiesStep(src Source) *TaxonomiesStep {
	return &TaxonomiesStep{src: src}
}

// Name returns the step name.
func (s *TaxonomiesStep) Name() string {
	return model.StepTaxonomies
}

// Do fills report.Taxonomies.
func (s *TaxonomiesStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.Taxonomies = s.src.Taxonomies()
	return nil
}

// PostsStep lists the items of one post type.
type PostsStep struct {
	src      Source
	postType string
	limit    int
}

// NewPostsStep creates a PostsStep. A negative limit lists every match.
func NewPostsStep(src Source, postType string, limit int) *PostsStep {
	return &PostsStep{src: src, postType: postType, limit: limit}
}

// Name returns the step name.
func (s *PostsStep) Name() string {
	return model.StepPosts
}

// Do fills report.Posts.
func (s *PostsStep) Do(_ context.Context, report *model.AnalysisReport) error {
	if s.postType == "" {
		return ErrNoPostType
	}
	report.Posts = s.src.Posts(s.postType, s.limit)
	report.PostsType = s.postType
	return nil
}

// Selection describes which analyses to run.
type Selection struct {
	PostTypes        bool
	CustomFields     bool
	CustomFieldsType string
	Taxonomies       bool
	PostsType        string
	Limit            int
}

// Empty reports whether no analysis is selected.
func (s Selection) Empty() bool {
	return !s.PostTypes && !s.CustomFields && !s.Taxonomies && s.PostsType == ""
}

// DefaultPipeline builds a pipeline for the selected analyses in the order
// post types, custom fields, taxonomies, posts. Stats always run first.
func DefaultPipeline(src Source, sel Selection, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddStep(NewStatsStep(src))

	if sel.PostTypes {
		p.AddStep(NewPostTypesStep(src))
	}
	if sel.CustomFields {
		p.AddStep(NewCustomFieldsStep(src, sel.CustomFieldsType))
	}
	if sel.Taxonomies {
		p.AddStep(NewTaxonomiesStep(src))
	}
	if sel.PostsType != "" {
		p.AddStep(NewPostsStep(src, sel.PostsType, sel.Limit))
	}

	return p
}
