// Package textutil cleans and decorates user-submitted text before it is
// persisted or rendered.
package textutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	urlRe   = regexp.MustCompile(`https?://[^\s<>"']+`)
	emailRe = regexp.MustCompile(`(^|[\s(])([\w.+-]+@[\w-]+\.[\w.-]+)`)
	imageRe = regexp.MustCompile(`(?i)\.(?:jpe?g|png|gif|webp)$`)
)

// StripTags removes every substring matching <...>. It is idempotent:
// StripTags(StripTags(s)) == StripTags(s).
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// AutoLink turns bare URLs into anchors, image URLs into inline images and
// bare email addresses into mailto links. Input is expected to have been
// through StripTags already; AutoLink is what reintroduces markup.
func AutoLink(s string) string {
	s = urlRe.ReplaceAllStringFunc(s, func(raw string) string {
		trimmed := strings.TrimRight(raw, ".,;:!?)")
		tail := raw[len(trimmed):]
		if imageRe.MatchString(trimmed) {
			return fmt.Sprintf(`<img src="%s">%s`, trimmed, tail)
		}
		return fmt.Sprintf(`<a href="%s">%s</a>%s`, trimmed, trimmed, tail)
	})
	s = emailRe.ReplaceAllString(s, `$1<a href="mailto:$2">$2</a>`)
	return s
}

// TrimValues returns a copy of form with every value trimmed of surrounding
// whitespace.
func TrimValues(form url.Values) url.Values {
	out := make(url.Values, len(form))
	for key, values := range form {
		trimmed := make([]string, len(values))
		for i, v := range values {
			trimmed[i] = strings.TrimSpace(v)
		}
		out[key] = trimmed
	}
	return out
}

// Blank reports whether s is empty or whitespace-only.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
