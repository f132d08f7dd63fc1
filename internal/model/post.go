package model

import "sort"

// TermRef is a taxonomy term attached to a post.
type TermRef struct {
	// Name is the display name.
	Name string `json:"name"`

	// Nicename is the URL-safe identifier.
	Nicename string `json:"nicename"`
}

// Post is the detail view of one item. Scalars are empty strings when the
// export omits them.
type Post struct {
	Title  string `json:"title"`
	Slug   string `json:"post_name"`
	ID     string `json:"post_id"`
	Status string `json:"status"`
	Date   string `json:"post_date"`

	// CustomFields holds the public meta entries. Nil when there are none.
	// Entries whose meta_value is empty or missing map to "".
	CustomFields map[string]string `json:"custom_fields,omitempty"`

	// Taxonomies groups term assignments by domain, each list in document
	// order. Nil when no assignment has a domain.
	Taxonomies map[string][]TermRef `json:"taxonomies,omitempty"`

	// Excerpt is excerpt:encoded, if any.
	Excerpt string `json:"excerpt,omitempty"`

	// WordCount is the number of visible words in the body.
	WordCount int `json:"word_count"`

	// Content is the raw HTML body. Only filled when content output is requested.
	Content string `json:"content,omitempty"`
}

// FieldNames returns the custom field names in ascending order.
func (p Post) FieldNames() []string {
	out := make([]string, 0, len(p.CustomFields))
	for k := range p.CustomFields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TaxonomyNames returns the taxonomy domains in ascending order.
func (p Post) TaxonomyNames() []string {
	out := make([]string, 0, len(p.Taxonomies))
	for k := range p.Taxonomies {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
