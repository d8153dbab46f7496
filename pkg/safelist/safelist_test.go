package safelist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javatechgroup/sanitizekit/pkg/safelist"
)

func TestBasicClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes script tag and its content",
			input:    "<script>alert(1)</script><p>Safe content</p>",
			expected: "<p>Safe content</p>",
		},
		{
			name:     "keeps text formatting",
			input:    "<b>bold</b> and <i>italic</i>",
			expected: "<b>bold</b> and <i>italic</i>",
		},
		{
			name:     "strips images",
			input:    `<img src="https://example.com/a.png">text`,
			expected: "text",
		},
		{
			name:     "keeps headings",
			input:    "<h1>Title</h1><p>body</p>",
			expected: "<h1>Title</h1><p>body</p>",
		},
		{
			name:     "strips event handlers with their element",
			input:    `<div onclick="steal()">hi</div>`,
			expected: "hi",
		},
		{
			name:     "plain text passes through",
			input:    "nothing to do here",
			expected: "nothing to do here",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
	}

	sl := safelist.Basic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sl.Clean(tt.input))
		})
	}
}

func TestRelaxedClean(t *testing.T) {
	sl := safelist.Relaxed()

	t.Run("keeps tables", func(t *testing.T) {
		input := "<table><tr><td>cell</td></tr></table>"
		assert.Equal(t, input, sl.Clean(input))
	})

	t.Run("keeps https images", func(t *testing.T) {
		input := `<img src="https://example.com/a.png" alt="a">`
		assert.Equal(t, input, sl.Clean(input))
	})

	t.Run("never allows script", func(t *testing.T) {
		assert.Equal(t, "<p>ok</p>", sl.Clean("<p>ok</p><script>alert(1)</script>"))
	})

	t.Run("never allows iframe", func(t *testing.T) {
		assert.Equal(t, "", sl.Clean(`<iframe src="https://evil.example"></iframe>`))
	})

	t.Run("keeps class attribute", func(t *testing.T) {
		input := `<p class="lead">hi</p>`
		assert.Equal(t, input, sl.Clean(input))
	})
}

func TestNoneClean(t *testing.T) {
	sl := safelist.None()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "strips all tags", input: "Hello <b>World</b>!", expected: "Hello World!"},
		{name: "drops script content", input: "<script>alert(1)</script>safe", expected: "safe"},
		{name: "plain text unchanged", input: "just text", expected: "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sl.Clean(tt.input))
		})
	}
}

func TestCopyOnWrite(t *testing.T) {
	t.Run("AddTags does not mutate the parent", func(t *testing.T) {
		parent := safelist.None()
		derived := parent.AddTags("mark")

		assert.False(t, parent.HasTag("mark"))
		assert.True(t, derived.HasTag("mark"))

		assert.Equal(t, "Important", parent.Clean("<mark>Important</mark>"))
		assert.Equal(t, "<mark>Important</mark>", derived.Clean("<mark>Important</mark>"))
	})

	t.Run("RemoveTags drops tag and its rules", func(t *testing.T) {
		sl := safelist.Basic().RemoveTags("b")
		assert.False(t, sl.HasTag("b"))
		assert.Equal(t, "bold", sl.Clean("<b>bold</b>"))
	})

	t.Run("deriving after first Clean is safe", func(t *testing.T) {
		parent := safelist.None()
		_ = parent.Clean("<p>warm up the compiled policy</p>")

		derived := parent.AddTags("em")
		assert.Equal(t, "<em>x</em>", derived.Clean("<em>x</em>"))
		assert.Equal(t, "x", parent.Clean("<em>x</em>"))
	})
}

func TestTags(t *testing.T) {
	sl := safelist.New().AddTags("b", "a", "i")
	assert.Equal(t, []string{"a", "b", "i"}, sl.Tags())
}
