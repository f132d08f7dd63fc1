package model

import (
	"encoding/json"
	"sort"
)

// FieldSet is a set of custom field names.
type FieldSet map[string]struct{}

// NewFieldSet returns a set holding names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name into the set.
func (s FieldSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in ascending order.
func (s FieldSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a set from an array of names.
func (s *FieldSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewFieldSet(names...)
	return nil
}

// FieldInventory maps a post type to the custom field names seen on it.
type FieldInventory map[string]FieldSet

// Add records field under postType.
func (inv FieldInventory) Add(postType, field string) {
	set, ok := inv[postType]
	if !ok {
		set = make(FieldSet)
		inv[postType] = set
	}
	set.Add(field)
}

// PostTypes returns the post types in ascending order.
func (inv FieldInventory) PostTypes() []string {
	out := make([]string, 0, len(inv))
	for pt := range inv {
		out = append(out, pt)
	}
	sort.Strings(out)
	return out
}
