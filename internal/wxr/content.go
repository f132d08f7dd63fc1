package wxr

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText strips markup from a post body, dropping script and style
// content, and collapses runs of whitespace into single spaces.
func PlainText(body string) string {
	z := html.NewTokenizer(strings.NewReader(body))

	var (
		sb   strings.Builder
		skip int
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			// TagName may only be read once per token.
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if tag == atom.Script || tag == atom.Style {
				switch {
				case tt == html.StartTagToken:
					skip++
				case tt == html.EndTagToken && skip > 0:
					skip--
				}
			}
			if !inlineTags[tag] {
				sb.WriteByte(' ')
			}
		}
	}
}

// inlineTags do not separate words: "Word<b>Press</b>" is one word.
var inlineTags = map[atom.Atom]bool{
	atom.A:      true,
	atom.Abbr:   true,
	atom.B:      true,
	atom.Code:   true,
	atom.Em:     true,
	atom.I:      true,
	atom.Mark:   true,
	atom.S:      true,
	atom.Small:  true,
	atom.Span:   true,
	atom.Strong: true,
	atom.Sub:    true,
	atom.Sup:    true,
	atom.U:      true,
}

// WordCount returns the number of whitespace-separated words in the
// visible text of a post body.
func WordCount(body string) int {
	return len(strings.Fields(PlainText(body)))
}

// HTMLToMarkdown converts a post body to GitHub flavored Markdown.
func HTMLToMarkdown(body string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	out, err := converter.ConvertString(body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
