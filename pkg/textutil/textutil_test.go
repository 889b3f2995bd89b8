package textutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTagsRemovesScripts(t *testing.T) {
	in := `hello <script>alert("x")</script> world`
	out := StripTags(in)
	assert.Equal(t, `hello alert("x") world`, out)
	assert.NotContains(t, out, "<script>")
}

func TestStripTagsIdempotent(t *testing.T) {
	cases := []string{
		`plain text`,
		`<b>bold</b> and <i>italic</i>`,
		`half a tag < left open`,
		`<script src="evil.js"></script>`,
		``,
	}
	for _, in := range cases {
		once := StripTags(in)
		assert.Equal(t, once, StripTags(once), "input %q", in)
	}
}

func TestAutoLinkURL(t *testing.T) {
	out := AutoLink("see https://example.com/page for details")
	assert.Equal(t, `see <a href="https://example.com/page">https://example.com/page</a> for details`, out)
}

func TestAutoLinkTrailingPunctuation(t *testing.T) {
	out := AutoLink("read https://example.com/page.")
	assert.Equal(t, `read <a href="https://example.com/page">https://example.com/page</a>.`, out)
}

func TestAutoLinkImage(t *testing.T) {
	out := AutoLink("look: https://example.com/cat.jpg")
	assert.Equal(t, `look: <img src="https://example.com/cat.jpg">`, out)
}

func TestAutoLinkEmail(t *testing.T) {
	out := AutoLink("write to bob@example.com today")
	assert.Equal(t, `write to <a href="mailto:bob@example.com">bob@example.com</a> today`, out)
}

func TestTrimValues(t *testing.T) {
	form := url.Values{
		"title":   {"  hello  "},
		"content": {"\tworld\n"},
	}
	out := TrimValues(form)
	assert.Equal(t, "hello", out.Get("title"))
	assert.Equal(t, "world", out.Get("content"))
	// original untouched
	assert.Equal(t, "  hello  ", form.Get("title"))
}

func TestBlank(t *testing.T) {
	assert.True(t, Blank(""))
	assert.True(t, Blank("   \t\n"))
	assert.False(t, Blank(" x "))
}
