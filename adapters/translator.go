package adapters

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"text/template"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/h"
	"github.com/julianladisch/stripes-core/log"
)

// missingOnce deduplicates WARN logs for unresolvable keys. The map key is
// locale+"\x00"+messageKey.
var missingOnce sync.Map

// overrideTemplates caches compiled override templates by template text.
var overrideTemplates sync.Map

type translatorImpl struct {
	bundle    *Bundle
	tag       language.Tag
	localizer *i18n.Localizer
	printer   *message.Printer
	ctx       context.Context
	store     f.TranslationStore
	tenantId  string
	cache     h.Cache
	strict    bool
}

type TranslatorOption func(*translatorImpl)

// WithStore overlays tenant translation overrides on top of the bundle.
func WithStore(store f.TranslationStore, tenantId string) TranslatorOption {
	return func(t *translatorImpl) {
		t.store = store
		t.tenantId = tenantId
	}
}

// WithRequestContext propagates the request context to override lookups.
func WithRequestContext(ctx context.Context) TranslatorOption {
	return func(t *translatorImpl) {
		t.ctx = ctx
	}
}

// WithMessageCache memoises argument-free lookups.
func WithMessageCache(cache h.Cache) TranslatorOption {
	return func(t *translatorImpl) {
		t.cache = cache
	}
}

// WithStrictMissing makes missing keys visually loud instead of silently
// falling back to the key. Meant for translation review environments.
func WithStrictMissing() TranslatorOption {
	return func(t *translatorImpl) {
		t.strict = true
	}
}

// Translator returns a translator for the given display locale. The locale
// should come from Match; unsupported tags still work through the base
// locale fallback.
func (b *Bundle) Translator(tag language.Tag, opts ...TranslatorOption) f.Translator {
	t := &translatorImpl{
		bundle:    b,
		tag:       tag,
		localizer: b.Localizer(tag),
		printer:   message.NewPrinter(tag),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *translatorImpl) Locale() language.Tag {
	return t.tag
}

func (t *translatorImpl) Has(key string) bool {
	return t.bundle.Has(t.tag, key)
}

func (t *translatorImpl) T(key string, args ...any) string {
	vars := templateData(args)

	if t.cache != nil && len(vars) == 0 && t.store == nil {
		cached := t.cache.GetOrSet(t.tag.String()+"\x00"+key, func() (any, error) {
			return t.localize(key, vars, nil), nil
		})
		if s, ok := cached.(string); ok {
			return s
		}
	}
	return t.localize(key, vars, nil)
}

func (t *translatorImpl) TN(key string, count int, args ...any) string {
	vars := templateData(args)
	// The count is also available to the template, already formatted for
	// the locale (1234 -> "1,234" in en, "1 234" in fr).
	if _, ok := vars["count"]; !ok {
		vars["count"] = t.formatNumber(count)
	}
	return t.localize(key, vars, count)
}

func (t *translatorImpl) localize(key string, vars map[string]any, pluralCount any) string {
	t.localizeNumericArgs(vars)

	if t.store != nil {
		if override, ok, err := t.store.Get(t.ctx, t.tenantId, t.tag.String(), key); err != nil {
			log.Error("override lookup failed for %s: %v", key, err)
		} else if ok {
			return renderOverride(override, vars)
		}
	}

	cfg := &i18n.LocalizeConfig{MessageID: key}
	if len(vars) > 0 {
		cfg.TemplateData = vars
	}
	if pluralCount != nil {
		cfg.PluralCount = pluralCount
	}

	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		// When only the display locale lacks the key, the localizer still
		// returns the base-locale message alongside a not-found error.
		var notFound *i18n.MessageNotFoundErr
		if msg != "" && errors.As(err, &notFound) {
			return msg
		}
		return t.missing(key)
	}
	return msg
}

// missing falls back to the key itself so a forgotten translation never
// breaks a page, and warns once per locale+key.
func (t *translatorImpl) missing(key string) string {
	id := t.tag.String() + "\x00" + key
	if _, loaded := missingOnce.LoadOrStore(id, struct{}{}); !loaded {
		log.Warn("missing translation: locale=%s key=%s", t.tag, key)
	}
	if t.strict {
		return "⟦" + key + "⟧"
	}
	return key
}

// localizeNumericArgs pre-formats numeric arguments with the locale's
// number conventions, the "number format" directive of the message grammar.
func (t *translatorImpl) localizeNumericArgs(vars map[string]any) {
	for k, v := range vars {
		switch n := v.(type) {
		case int:
			vars[k] = t.formatNumber(n)
		case int64:
			vars[k] = t.printer.Sprintf("%d", n)
		case float64:
			vars[k] = t.printer.Sprint(number.Decimal(n))
		}
	}
}

func (t *translatorImpl) formatNumber(n int) string {
	return t.printer.Sprintf("%d", n)
}

// renderOverride interpolates a tenant override, which is a plain template
// string. Plural-form overrides are not supported; tenants override the
// message text, not the grammar.
func renderOverride(text string, vars map[string]any) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	var tmpl *template.Template
	if cached, ok := overrideTemplates.Load(text); ok {
		tmpl = cached.(*template.Template)
	} else {
		parsed, err := template.New("override").Parse(text)
		if err != nil {
			log.Error("invalid override template %q: %v", text, err)
			return text
		}
		overrideTemplates.Store(text, parsed)
		tmpl = parsed
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		log.Error("override template failed %q: %v", text, err)
		return text
	}
	return buf.String()
}

// templateData builds template data from alternating key, value pairs.
// Panics on programmer error.
func templateData(kv []any) map[string]any {
	if len(kv)%2 != 0 {
		panic("i18n: odd number of arguments, want key, value pairs")
	}
	vars := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("i18n: argument key must be a string")
		}
		vars[key] = kv[i+1]
	}
	return vars
}
