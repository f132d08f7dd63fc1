package wxr

import (
	"strings"
	"testing"
)

// TestPlainText tests markup stripping.
func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello world", want: "hello world"},
		{name: "inline tags", input: "<p>Hello <b>big</b> world</p>", want: "Hello big world"},
		{name: "script dropped", input: "<p>a</p><script>var x = 1;</script><p>b</p>", want: "a b"},
		{name: "style dropped", input: "<style>p{}</style>text", want: "text"},
		{name: "entities decoded", input: "fish &amp; chips", want: "fish & chips"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PlainText(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestWordCount tests visible word counting.
func TestWordCount(t *testing.T) {
	t.Parallel()

	if got := WordCount("<p>Hello <b>big</b> world</p><script>var x = 1;</script>"); got != 3 {
		t.Errorf("expected 3 words, got %d", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("expected 0 words, got %d", got)
	}
}

// TestHTMLToMarkdown tests body conversion.
func TestHTMLToMarkdown(t *testing.T) {
	t.Parallel()

	out, err := HTMLToMarkdown("<h2>Title</h2><p>Some <strong>bold</strong> text</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "## Title") {
		t.Errorf("expected heading in output, got %q", out)
	}
	if !strings.Contains(out, "**bold**") {
		t.Errorf("expected bold text in output, got %q", out)
	}
}
