package adapters

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/text/language"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/h"
	"github.com/julianladisch/stripes-core/test"
)

// ------------------------------------------------------------------------------------------------------------------
// SafeHTML
// ------------------------------------------------------------------------------------------------------------------

func TestSafeHTML_EscapesArguments(t *testing.T) {
	assert := test.NewAssertions(t)

	bundle := loadTestBundle(t)
	en := bundle.Translator(language.English)

	out := SafeHTML(en, "ui-users.removed", "name", "<script>boom</script>")

	// The translator-authored <b> survives; the injected markup does not.
	assert.Contains(out, "<b>&lt;script&gt;boom&lt;/script&gt;</b>")
	assert.False(strings.Contains(out, "<script>"))
}

func TestSafeHTML_StripsUnsafeTemplateMarkup(t *testing.T) {
	assert := test.NewAssertions(t)

	bundle := loadTestBundle(t)
	en := bundle.Translator(language.English)

	// The en template itself carries a <script> tag; it is escaped in place.
	out := SafeHTML(en, "ui-users.removed", "name", "Ada")

	assert.Contains(out, "<b>Ada</b> was removed")
	assert.Contains(out, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestSanitizeMarkup(t *testing.T) {
	assert := test.NewAssertions(t)

	assert.Equals(SanitizeMarkup("<b>bold</b> and <em>emphasis</em>"), "<b>bold</b> and <em>emphasis</em>")
	// Attributes are dropped from allowed tags.
	assert.Equals(SanitizeMarkup(`<b class="x">bold</b>`), "<b>bold</b>")
	// Case-insensitive tag names.
	assert.Equals(SanitizeMarkup("<B>bold</B>"), "<b>bold</b>")
	// Disallowed tags are escaped, their content kept.
	out := SanitizeMarkup(`<a href="https://example.com">link</a>`)
	assert.False(strings.Contains(out, "<a"))
	assert.Contains(out, "link")
	// Self-closing break.
	assert.Equals(SanitizeMarkup("line<br/>break"), "line<br>break")
}

// ------------------------------------------------------------------------------------------------------------------
// MsgKey / templ components
// ------------------------------------------------------------------------------------------------------------------

func TestMsgKey_ResolvesFromContext(t *testing.T) {
	assert := test.NewAssertions(t)

	bundle := loadTestBundle(t)
	ctx := f.WithTranslator(context.Background(), bundle.Translator(language.French))

	assert.Equals(MsgKey("ui-users.search").Tr(ctx), "Chercher")
	// Without a translator the key itself shows up, never an error.
	assert.Equals(MsgKey("ui-users.search").Tr(context.Background()), "ui-users.search")
}

func TestMsgKey_RendersEscaped(t *testing.T) {
	assert := test.NewAssertions(t)

	bundle := loadTestBundle(t)
	ctx := f.WithTranslator(context.Background(), bundle.Translator(language.English))

	out, err := h.RenderTempl(ctx, MsgKey("stripes-components.saveAndClose"))
	assert.Nil(err)
	assert.Equals(out, "Save &amp; close")
}

func TestSafeMsg_Component(t *testing.T) {
	assert := test.NewAssertions(t)

	bundle := loadTestBundle(t)
	ctx := f.WithTranslator(context.Background(), bundle.Translator(language.English))

	out, err := h.RenderTempl(ctx, SafeMsg("ui-users.removed", "name", "Ada"))
	assert.Nil(err)
	assert.Contains(out, "<b>Ada</b>")
}
