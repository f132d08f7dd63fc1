package wxr

import "strings"

// InternalMetaPrefix marks post meta keys that WordPress and plugins use
// for their own bookkeeping.
const InternalMetaPrefix = "_"

// Item is one <item> entry: a post, page, attachment or custom post type.
type Item struct {
	node      *Node
	ns        string
	excerptNS string
}

// Node returns the underlying <item> element.
func (it Item) Node() *Node {
	return it.node
}

// PostType returns wp:post_type. An absent or empty element means the item
// has no type.
func (it Item) PostType() (string, bool) {
	return it.node.ChildText(it.ns, "post_type")
}

// Title returns the RSS <title>.
func (it Item) Title() (string, bool) {
	return it.node.ChildText("", "title")
}

// Slug returns wp:post_name.
func (it Item) Slug() (string, bool) {
	return it.node.ChildText(it.ns, "post_name")
}

// ID returns wp:post_id as written in the export.
func (it Item) ID() (string, bool) {
	return it.node.ChildText(it.ns, "post_id")
}

// Status returns wp:status (publish, draft, inherit, ...).
func (it Item) Status() (string, bool) {
	return it.node.ChildText(it.ns, "status")
}

// Date returns wp:post_date in the site's local time, as written.
func (it Item) Date() (string, bool) {
	return it.node.ChildText(it.ns, "post_date")
}

// Content returns the HTML body from content:encoded.
func (it Item) Content() (string, bool) {
	return it.node.ChildText(NamespaceContent, "encoded")
}

// Excerpt returns excerpt:encoded.
func (it Item) Excerpt() (string, bool) {
	return it.node.ChildText(it.excerptNS, "encoded")
}

// Meta is one wp:postmeta entry.
type Meta struct {
	// Key is the meta_key text, empty when the element is missing or empty.
	Key string

	// Value is the meta_value text. An empty meta_value element and a
	// missing one both leave Value empty; HasValue tells them apart.
	Value string

	// HasValue reports whether a meta_value element is present.
	HasValue bool
}

// Internal reports whether the key is reserved for internal use.
func (m Meta) Internal() bool {
	return strings.HasPrefix(m.Key, InternalMetaPrefix)
}

// Meta returns the item's wp:postmeta entries in document order.
func (it Item) Meta() []Meta {
	entries := it.node.Children(it.ns, "postmeta")
	out := make([]Meta, 0, len(entries))
	for _, e := range entries {
		key, _ := e.ChildText(it.ns, "meta_key")
		valueNode := e.Child(it.ns, "meta_value")
		value, _ := valueNode.Text()
		out = append(out, Meta{
			Key:      key,
			Value:    value,
			HasValue: valueNode != nil,
		})
	}
	return out
}

// Term is a taxonomy assignment written as <category domain=".." nicename="..">.
type Term struct {
	// Domain is the taxonomy name. Empty for legacy assignments without one.
	Domain string

	// Nicename is the URL-safe term identifier.
	Nicename string

	// Name is the display name.
	Name string
}

// Terms returns the item's taxonomy assignments in document order.
// Missing attributes and text default to empty strings.
func (it Item) Terms() []Term {
	nodes := it.node.Children("", "category")
	out := make([]Term, 0, len(nodes))
	for _, n := range nodes {
		domain, _ := n.Attr("domain")
		nicename, _ := n.Attr("nicename")
		name, _ := n.Text()
		out = append(out, Term{Domain: domain, Nicename: nicename, Name: name})
	}
	return out
}
