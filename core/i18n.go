package f

import (
	"context"
	"time"

	"golang.org/x/text/language"
)

// Translator resolves namespaced message keys (module.key) for a single
// display locale. Interpolation, number formatting and plural selection are
// delegated to the underlying i18n library; args are alternating key/value
// pairs used as template data.
type Translator interface {
	Locale() language.Tag
	T(key string, args ...any) string
	// TN selects a plural form based on count. The count is also exposed to
	// the template as a locale-formatted "count" argument.
	TN(key string, count int, args ...any) string
	Has(key string) bool
}

// LocaleFile is one raw translation file: a flat mapping of dotted keys to
// message templates, owned by a single module and locale.
type LocaleFile struct {
	Module string
	Locale string
	Format string // "json" or "toml"
	Data   []byte
}

// BundleSource yields the translation files of every module it knows about.
// Implementations load from a local translations/ tree or from a remote
// bundle registry.
type BundleSource interface {
	Load(ctx context.Context) ([]LocaleFile, error)
}

// TranslationOverride is a tenant-scoped replacement for a single bundled
// message. Key is fully namespaced (module.key).
type TranslationOverride struct {
	TenantId  string    `json:"tenant_id"`
	Module    string    `json:"module"`
	Locale    string    `json:"locale"`
	Key       string    `json:"key"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TranslationStore persists per-tenant translation overrides. Overrides win
// over bundled messages at lookup time.
type TranslationStore interface {
	Init(ctx context.Context) error
	Put(ctx context.Context, override TranslationOverride) error
	Get(ctx context.Context, tenantId string, locale string, key string) (string, bool, error)
	List(ctx context.Context, tenantId string, locale string) ([]TranslationOverride, error)
	Delete(ctx context.Context, tenantId string, locale string, key string) error
	Close() error
}
