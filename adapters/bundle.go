package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/errors"
	"github.com/julianladisch/stripes-core/h"
	"github.com/julianladisch/stripes-core/log"
)

// Bundle holds every loaded translation, keyed by fully namespaced message
// IDs (module.key). Message interpolation and plural selection are the
// i18n library's job; Bundle only owns the loading conventions: one file
// per locale per module, keys prefixed with the owning module name, and
// uniqueness of keys within a module namespace.
type Bundle struct {
	base    language.Tag
	bundle  *i18n.Bundle
	matcher language.Matcher
	locales []language.Tag
	modules []string
	keys    map[string]map[string]bool
	raw     map[string]map[string]json.RawMessage
}

func NewBundle(ctx context.Context, source f.BundleSource, baseLocale string) (*Bundle, error) {
	base, err := language.Parse(baseLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid base locale %q: %w", baseLocale, err)
	}

	files, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		base:   base,
		bundle: i18n.NewBundle(base),
		keys:   map[string]map[string]bool{},
		raw:    map[string]map[string]json.RawMessage{},
	}
	b.bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	b.bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	modules := map[string]bool{}
	localeTags := map[string]language.Tag{}

	for _, file := range files {
		tag, err := language.Parse(file.Locale)
		if err != nil {
			log.Warn("skipping %s/%s: invalid locale", file.Module, file.Locale)
			continue
		}
		canonical := tag.String()
		if err := b.addFile(file, tag, canonical); err != nil {
			return nil, err
		}
		modules[file.Module] = true
		localeTags[canonical] = tag
	}

	for name := range modules {
		b.modules = append(b.modules, name)
	}
	sort.Strings(b.modules)

	// Base locale first so it is the matcher's default fallback.
	all := []language.Tag{base}
	var rest []string
	for canonical := range localeTags {
		if canonical != base.String() {
			rest = append(rest, canonical)
		}
	}
	sort.Strings(rest)
	for _, canonical := range rest {
		all = append(all, localeTags[canonical])
	}
	b.locales = all
	b.matcher = language.NewMatcher(all)

	log.Info("translation bundle loaded: %d modules, %d locales", len(b.modules), len(b.locales))
	return b, nil
}

// addFile registers every entry of one locale file under its namespaced ID.
func (b *Bundle) addFile(file f.LocaleFile, tag language.Tag, canonical string) error {
	entries, err := parseLocaleFile(file)
	if err != nil {
		return fmt.Errorf("module %s, locale %s: %w", file.Module, file.Locale, err)
	}

	if b.keys[canonical] == nil {
		b.keys[canonical] = map[string]bool{}
		b.raw[canonical] = map[string]json.RawMessage{}
	}

	messages := make([]*i18n.Message, 0, len(entries))
	for _, entry := range entries {
		id := h.NamespaceKey(file.Module, entry.key)
		if b.keys[canonical][id] {
			return fmt.Errorf("module %s, locale %s, key %s: %w",
				file.Module, file.Locale, entry.key, errors.ErrDuplicateKey)
		}
		msg, err := messageFrom(id, entry.value)
		if err != nil {
			return fmt.Errorf("module %s, locale %s, key %s: %w",
				file.Module, file.Locale, entry.key, err)
		}
		b.keys[canonical][id] = true
		b.raw[canonical][id] = entry.raw
		messages = append(messages, msg)
	}

	return b.bundle.AddMessages(tag, messages...)
}

type localeEntry struct {
	key   string
	value any
	raw   json.RawMessage
}

func parseLocaleFile(file f.LocaleFile) ([]localeEntry, error) {
	switch file.Format {
	case "json":
		return parseJsonLocaleFile(file.Data)
	case "toml":
		return parseTomlLocaleFile(file.Data)
	default:
		return nil, fmt.Errorf("unsupported translation file format %q", file.Format)
	}
}

// parseJsonLocaleFile walks the raw document rather than unmarshalling into
// a map, so duplicate keys within a single file are visible and rejected.
func parseJsonLocaleFile(data []byte) ([]localeEntry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed JSON document")
	}
	var entries []localeEntry
	seen := map[string]bool{}
	var dup string

	ok := h.FlatJsonEntries(data, func(key string, value gjson.Result) bool {
		if seen[key] {
			dup = key
			return false
		}
		seen[key] = true
		entries = append(entries, localeEntry{
			key:   key,
			value: value.Value(),
			raw:   json.RawMessage(value.Raw),
		})
		return true
	})
	if !ok {
		return nil, fmt.Errorf("translation file is not a flat JSON object")
	}
	if dup != "" {
		return nil, fmt.Errorf("key %s: %w", dup, errors.ErrDuplicateKey)
	}
	return entries, nil
}

func parseTomlLocaleFile(data []byte) ([]localeEntry, error) {
	// toml rejects duplicate keys on its own.
	values := map[string]any{}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]localeEntry, 0, len(keys))
	for _, key := range keys {
		raw, err := json.Marshal(values[key])
		if err != nil {
			return nil, err
		}
		entries = append(entries, localeEntry{key: key, value: values[key], raw: raw})
	}
	return entries, nil
}

// messageFrom builds an i18n message from a flat file value. A plain string
// is the message template; an object carries plural forms keyed by CLDR
// category.
func messageFrom(id string, value any) (*i18n.Message, error) {
	switch v := value.(type) {
	case string:
		return &i18n.Message{ID: id, Other: v}, nil
	case map[string]any:
		msg := &i18n.Message{ID: id}
		for form, text := range v {
			s, ok := text.(string)
			if !ok {
				return nil, fmt.Errorf("plural form %q is not a string", form)
			}
			switch form {
			case "zero":
				msg.Zero = s
			case "one":
				msg.One = s
			case "two":
				msg.Two = s
			case "few":
				msg.Few = s
			case "many":
				msg.Many = s
			case "other":
				msg.Other = s
			case "description":
				msg.Description = s
			default:
				return nil, fmt.Errorf("unknown plural form %q", form)
			}
		}
		if msg.Other == "" {
			return nil, fmt.Errorf("plural message without an 'other' form")
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("unsupported message value of type %T", value)
	}
}

// BaseLocale returns the bundle's fallback locale.
func (b *Bundle) BaseLocale() language.Tag {
	return b.base
}

// Locales returns the supported locales, base first. The slice is a copy.
func (b *Bundle) Locales() []language.Tag {
	out := make([]language.Tag, len(b.locales))
	copy(out, b.locales)
	return out
}

func (b *Bundle) Modules() []string {
	out := make([]string, len(b.modules))
	copy(out, b.modules)
	return out
}

// Match picks the best supported locale for the given preferences, falling
// back to the base locale when nothing matches.
func (b *Bundle) Match(preferences ...string) language.Tag {
	var nonEmpty []string
	for _, p := range preferences {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return b.base
	}
	// The matcher can return extended tags (en-u-rg-...); use the matched
	// index to report the supported tag instead.
	_, idx := language.MatchStrings(b.matcher, nonEmpty...)
	return b.locales[idx]
}

// Has reports whether key resolves in the given locale or the base locale.
func (b *Bundle) Has(tag language.Tag, key string) bool {
	if b.keys[tag.String()][key] {
		return true
	}
	return b.keys[b.base.String()][key]
}

// Localizer builds an i18n localizer with the base locale as fallback.
func (b *Bundle) Localizer(tag language.Tag) *i18n.Localizer {
	return i18n.NewLocalizer(b.bundle, tag.String(), b.base.String())
}

// Merged returns the raw messages of one module for one locale, with base
// locale entries filling the gaps. This is what the bundle server ships to
// browsers.
func (b *Bundle) Merged(module string, locale string) (map[string]json.RawMessage, error) {
	found := false
	for _, m := range b.modules {
		if m == module {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("module %s: %w", module, errors.ErrUnknownModule)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %s: %w", locale, errors.ErrUnsupportedLocale)
	}

	prefix := module + "."
	out := map[string]json.RawMessage{}
	for _, canonical := range []string{b.base.String(), b.Match(tag.String()).String()} {
		for id, raw := range b.raw[canonical] {
			if len(id) > len(prefix) && id[:len(prefix)] == prefix {
				out[id] = raw
			}
		}
	}
	return out, nil
}
