package model

import "sort"

// PostTypeCount is the number of items carrying one post type.
type PostTypeCount struct {
	// PostType is the wp:post_type value.
	PostType string `json:"post_type"`

	// Count is the number of items with that type.
	Count int `json:"count"`
}

// PostTypeCensus lists post types in the order they were first encountered.
type PostTypeCensus []PostTypeCount

// Total returns the number of typed items.
func (c PostTypeCensus) Total() int {
	total := 0
	for _, pc := range c {
		total += pc.Count
	}
	return total
}

// Counts returns the census as a map.
func (c PostTypeCensus) Counts() map[string]int {
	out := make(map[string]int, len(c))
	for _, pc := range c {
		out[pc.PostType] = pc.Count
	}
	return out
}

// Count returns the number of items of postType, or 0.
func (c PostTypeCensus) Count(postType string) int {
	for _, pc := range c {
		if pc.PostType == postType {
			return pc.Count
		}
	}
	return 0
}

// ByCount returns a copy ordered by descending count, then by name.
// The receiver keeps encounter order.
func (c PostTypeCensus) ByCount() PostTypeCensus {
	out := make(PostTypeCensus, len(c))
	copy(out, c)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PostType < out[j].PostType
	})
	return out
}
