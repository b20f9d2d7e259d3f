package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".html", ".htm"}, New().Extensions())
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"paragraphs", "<p>One</p><p>Two</p>", "One\nTwo"},
		{"scripts removed", "<p>a</p><script>alert(1)</script><style>p{}</style><p>b</p>", "a\nb"},
		{"comments removed", "x<!-- hidden -->y", "xy"},
		{"entities", "<p>Fish &amp; chips &lt;3</p>", "Fish & chips <3"},
		{"breaks", "line one<br/>line two<hr>end", "line one\nline two\nend"},
		{"table cells", "<table><tr><td>a</td><td>b</td></tr></table>", "a b"},
		{"whitespace collapsed", "<div>  lots   of\t space </div>", "lots of space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.input))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Q&A", Title("<html><head><title> Q&amp;A </title></head></html>"))
	assert.Empty(t, Title("<p>no title</p>"))
}

func TestExtract(t *testing.T) {
	page := `<html><head><title>Handbook</title></head><body><h1>Leave</h1><p>25 days per year.</p></body></html>`

	text, err := New().Extract(context.Background(), domain.Document{Name: "h.html", Content: []byte(page)})

	require.NoError(t, err)
	assert.Equal(t, "Handbook\n\nLeave\n25 days per year.", text)
}
