package model

import "time"

// ExportStats are raw counts over the whole export.
type ExportStats struct {
	// Items is the number of <item> elements.
	Items int `json:"items"`

	// TypedItems is the number of items that carry a post type.
	TypedItems int `json:"typed_items"`

	// MetaEntries is the number of wp:postmeta entries, internal ones included.
	MetaEntries int `json:"meta_entries"`

	// TermAssignments is the number of <category> assignments on items.
	TermAssignments int `json:"term_assignments"`
}

// AnalysisReport is the result of analyzing one export.
// Each view is nil unless the corresponding analysis was requested.
type AnalysisReport struct {
	// Source is the export file path.
	Source string `json:"source"`

	// Digest identifies the export content (hex SHA3-256).
	Digest string `json:"digest"`

	// AnalyzedAt is when the analysis ran.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Stats are counts over the whole export.
	Stats ExportStats `json:"stats"`

	// PostTypes is the post-type census.
	PostTypes PostTypeCensus `json:"post_types,omitempty"`

	// CustomFields is the custom-field inventory.
	CustomFields FieldInventory `json:"custom_fields,omitempty"`

	// CustomFieldsFilter is the post type the inventory was restricted to.
	CustomFieldsFilter string `json:"custom_fields_filter,omitempty"`

	// Taxonomies is the taxonomy usage index.
	Taxonomies TaxonomyIndex `json:"taxonomies,omitempty"`

	// Posts is the per-post listing.
	Posts []Post `json:"posts,omitempty"`

	// PostsType is the post type that was listed.
	PostsType string `json:"posts_type,omitempty"`

	// PerformedSteps lists the analyses that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the last step error, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text, kept for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewAnalysisReport creates an empty report for source.
func NewAnalysisReport(source, digest string) *AnalysisReport {
	return &AnalysisReport{
		Source:         source,
		Digest:         digest,
		AnalyzedAt:     time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// HasStep reports whether the named step ran.
func (r *AnalysisReport) HasStep(name string) bool {
	for _, s := range r.PerformedSteps {
		if s == name {
			return true
		}
	}
	return false
}

// Names of the analyses recorded in PerformedSteps.
const (
	StepPostTypes    = "post_types"
	StepCustomFields = "custom_fields"
	StepTaxonomies   = "taxonomies"
	StepPosts        = "posts"
)
