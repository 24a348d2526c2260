package adapters

import (
	"context"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"

	f "github.com/julianladisch/stripes-core/core"
)

// safeTags are the inline tags translators may use in message templates.
// Anything else, and every attribute, is escaped.
var safeTags = map[string]bool{
	"b":      true,
	"i":      true,
	"em":     true,
	"strong": true,
	"u":      true,
	"code":   true,
	"br":     true,
}

var tagPattern = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)(?:\s[^<>]*)?/?>`)

// SafeHTML renders a rich-text message: interpolated arguments are
// HTML-escaped before substitution, and the translated template keeps only
// whitelisted inline markup. The result is safe to inject into a page.
func SafeHTML(t f.Translator, key string, args ...any) string {
	return SanitizeMarkup(t.T(key, escapeArgs(args)...))
}

// SafeHTMLN is the plural variant of SafeHTML.
func SafeHTMLN(t f.Translator, key string, count int, args ...any) string {
	return SanitizeMarkup(t.TN(key, count, escapeArgs(args)...))
}

// escapeArgs HTML-escapes string values in alternating key/value pairs.
// Numeric values are left alone; they are formatted, not echoed.
func escapeArgs(kv []any) []any {
	out := make([]any, len(kv))
	copy(out, kv)
	for i := 1; i < len(out); i += 2 {
		if s, ok := out[i].(string); ok {
			out[i] = html.EscapeString(s)
		}
	}
	return out
}

// SanitizeMarkup keeps whitelisted inline tags, stripped of attributes, and
// escapes every other tag in place.
func SanitizeMarkup(s string) string {
	return tagPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.ToLower(tagPattern.FindStringSubmatch(match)[1])
		if !safeTags[name] {
			return html.EscapeString(match)
		}
		if strings.HasPrefix(match, "</") {
			return "</" + name + ">"
		}
		return "<" + name + ">"
	})
}

// MsgKey is a namespaced message key usable directly as a templ component:
//
//	@adapters.MsgKey("ui-users.search")
//
// It resolves against the translator carried by the render context and
// falls back to the key itself when none is installed.
type MsgKey string

func (k MsgKey) Tr(ctx context.Context) string {
	if t := f.TranslatorFrom(ctx); t != nil {
		return t.T(string(k))
	}
	return string(k)
}

func (k MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, html.EscapeString(k.Tr(ctx)))
	return err
}

// SafeMsg is a templ component rendering a rich-text message through
// SafeHTML.
func SafeMsg(key string, args ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := f.TranslatorFrom(ctx)
		if t == nil {
			_, err := io.WriteString(w, html.EscapeString(key))
			return err
		}
		_, err := io.WriteString(w, SafeHTML(t, key, args...))
		return err
	})
}
