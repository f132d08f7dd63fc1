package wxr

import (
	"bytes"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/sha3"
	"golang.org/x/net/html/charset"
)

// Document is a fully parsed export. It is read-only after Load returns.
type Document struct {
	root      *Node
	path      string
	digest    string
	exportNS  string
	excerptNS string
}

// Load reads and parses the export at path.
// Any failure, including a missing file, is reported as *ParseError.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided export path is intentional
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	doc, err := parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, err
	}
	doc.digest = digest(data)
	return doc, nil
}

// Parse reads an export from r. The digest covers the bytes read from r.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	doc, err := parse(bytes.NewReader(data), "")
	if err != nil {
		return nil, err
	}
	doc.digest = digest(data)
	return doc, nil
}

// parse builds the element tree. The whole input must be well-formed:
// exactly one root element with nothing but whitespace, comments or
// processing instructions around it.
func parse(r io.Reader, path string) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *Node
		stack []*Node
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newParseError(path, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name, Attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, newParseError(path, ErrTrailingContent)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, newParseError(path, ErrTrailingContent)
				}
				continue
			}
			top := stack[len(stack)-1]
			top.text = append(top.text, t...)
		}
	}

	if root == nil {
		return nil, newParseError(path, ErrNoRootElement)
	}

	exportNS := detectExportNamespace(root)
	return &Document{
		root:      root,
		path:      path,
		exportNS:  exportNS,
		excerptNS: detectExcerptNamespace(root, exportNS),
	}, nil
}

// detectExportNamespace returns the URI bound to the wp prefix on the root
// element, or the first known export namespace declared under any prefix.
// Exports that declare neither are assumed to be WXR 1.2.
func detectExportNamespace(root *Node) string {
	var fallback string
	for _, a := range root.Attrs {
		if a.Name.Space != "xmlns" {
			continue
		}
		if a.Name.Local == exportPrefix {
			return a.Value
		}
		if fallback == "" && isExportNamespace(a.Value) {
			fallback = a.Value
		}
	}
	if fallback != "" {
		return fallback
	}
	return NamespaceWXR12
}

// detectExcerptNamespace returns the URI bound to the excerpt prefix on the
// root element, or the excerpt namespace of the detected export version.
func detectExcerptNamespace(root *Node, exportNS string) string {
	for _, a := range root.Attrs {
		if a.Name.Space == "xmlns" && a.Name.Local == excerptPrefix {
			return a.Value
		}
	}
	if ns, ok := excerptNamespaces[exportNS]; ok {
		return ns
	}
	return NamespaceExcerpt12
}

// digest returns the hex SHA3-256 digest of data.
func digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Root returns the document element (normally <rss>).
func (d *Document) Root() *Node {
	return d.root
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string {
	return d.path
}

// Digest returns the hex SHA3-256 digest of the raw export bytes.
func (d *Document) Digest() string {
	return d.digest
}

// ExportNamespace returns the namespace URI of the wp elements.
func (d *Document) ExportNamespace() string {
	return d.exportNS
}

// ExcerptNamespace returns the namespace URI of excerpt:encoded.
func (d *Document) ExcerptNamespace() string {
	return d.excerptNS
}

// Items returns every <item> element in document order.
func (d *Document) Items() []Item {
	nodes := d.root.Descendants("", "item")
	items := make([]Item, len(nodes))
	for i, n := range nodes {
		items[i] = Item{node: n, ns: d.exportNS, excerptNS: d.excerptNS}
	}
	return items
}

// RegisteredTerm is a term declared at document level rather than
// assigned to an item.
type RegisteredTerm struct {
	// Taxonomy is the domain the term belongs to (category, post_tag, ...).
	Taxonomy string

	// Nicename is the URL-safe term identifier.
	Nicename string
}

// Built-in taxonomy domains.
const (
	TaxonomyCategory = "category"
	TaxonomyTag      = "post_tag"
)

// RegisteredTerms returns the built-in registry: <wp:category> declarations
// seed the category domain and <wp:tag> declarations seed post_tag.
// Declarations without a nicename are skipped.
func (d *Document) RegisteredTerms() []RegisteredTerm {
	var terms []RegisteredTerm
	for _, n := range d.root.Descendants(d.exportNS, "category") {
		if nicename, ok := n.ChildText(d.exportNS, "category_nicename"); ok {
			terms = append(terms, RegisteredTerm{Taxonomy: TaxonomyCategory, Nicename: nicename})
		}
	}
	for _, n := range d.root.Descendants(d.exportNS, "tag") {
		if slug, ok := n.ChildText(d.exportNS, "tag_slug"); ok {
			terms = append(terms, RegisteredTerm{Taxonomy: TaxonomyTag, Nicename: slug})
		}
	}
	return terms
}

// CustomRegisteredTerms returns the <wp:term> declarations that WXR 1.1+
// uses for custom taxonomies. Entries missing either the taxonomy or the
// slug are skipped.
func (d *Document) CustomRegisteredTerms() []RegisteredTerm {
	var terms []RegisteredTerm
	for _, n := range d.root.Descendants(d.exportNS, "term") {
		taxonomy, ok := n.ChildText(d.exportNS, "term_taxonomy")
		if !ok {
			continue
		}
		slug, ok := n.ChildText(d.exportNS, "term_slug")
		if !ok {
			continue
		}
		terms = append(terms, RegisteredTerm{Taxonomy: taxonomy, Nicename: slug})
	}
	return terms
}
