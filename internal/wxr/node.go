package wxr

import "encoding/xml"

// Node is one element of the parsed export tree.
type Node struct {
	// Name is the namespace-qualified element name. Name.Space holds the
	// resolved namespace URI, not the prefix.
	Name xml.Name

	// Attrs are the element attributes, including namespace declarations.
	Attrs []xml.Attr

	children []*Node
	text     []byte
}

// Child returns the first direct child named {space}local, or nil.
func (n *Node) Child(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.Name.Space == space && c.Name.Local == local {
			return c
		}
	}
	return nil
}

// Children returns all direct children named {space}local in document order.
func (n *Node) Children(space, local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.children {
		if c.Name.Space == space && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every element below n named {space}local, in
// document (pre-order) order. n itself is not included.
func (n *Node) Descendants(space, local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.children {
			if c.Name.Space == space && c.Name.Local == local {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Attr returns the value of the unqualified attribute local.
func (n *Node) Attr(local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Text returns the character data directly inside the element.
// The flag is false when the element is nil or has no character data,
// so <wp:meta_value></wp:meta_value> and a missing element look alike.
func (n *Node) Text() (string, bool) {
	if n == nil || len(n.text) == 0 {
		return "", false
	}
	return string(n.text), true
}

// ChildText is shorthand for n.Child(space, local).Text().
func (n *Node) ChildText(space, local string) (string, bool) {
	return n.Child(space, local).Text()
}
