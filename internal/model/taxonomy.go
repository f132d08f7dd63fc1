package model

import "sort"

// TaxonomySummary describes one taxonomy domain.
type TaxonomySummary struct {
	// Terms are the unique nicenames, sorted ascending.
	Terms []string `json:"terms"`

	// UsageByPostType counts every assignment of this domain per post type.
	// Items without a post type are counted under "".
	UsageByPostType map[string]int `json:"usage_by_post_type"`

	// TotalTerms is len(Terms).
	TotalTerms int `json:"total_terms"`
}

// TotalUsage returns the number of assignments across all post types.
func (s TaxonomySummary) TotalUsage() int {
	total := 0
	for _, n := range s.UsageByPostType {
		total += n
	}
	return total
}

// UsagePostTypes returns the post types with usage, in ascending order.
func (s TaxonomySummary) UsagePostTypes() []string {
	out := make([]string, 0, len(s.UsageByPostType))
	for pt := range s.UsageByPostType {
		out = append(out, pt)
	}
	sort.Strings(out)
	return out
}

// TaxonomyIndex maps a domain name to its summary.
type TaxonomyIndex map[string]TaxonomySummary

// Domains returns the domain names in ascending order.
func (idx TaxonomyIndex) Domains() []string {
	out := make([]string, 0, len(idx))
	for d := range idx {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
