package f

import (
	"context"

	"golang.org/x/text/language"
)

type localeKeyType struct{}
type tenantKeyType struct{}
type translatorKeyType struct{}

var (
	localeKey     = localeKeyType{}
	tenantKey     = tenantKeyType{}
	translatorKey = translatorKeyType{}
)

// WithLocale stores the resolved display locale in ctx.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey, tag)
}

// LocaleFrom returns the display locale carried by ctx, or language.English
// when none was resolved. It never returns the zero tag.
func LocaleFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(localeKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}
	return language.English
}

func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

func TenantFrom(ctx context.Context) *Tenant {
	if ctx == nil {
		return nil
	}
	tenant, _ := ctx.Value(tenantKey).(*Tenant)
	return tenant
}

// WithTranslator installs a request-scoped translator so that view code can
// resolve message keys without threading the bundle through every call.
func WithTranslator(ctx context.Context, t Translator) context.Context {
	return context.WithValue(ctx, translatorKey, t)
}

func TranslatorFrom(ctx context.Context) Translator {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(translatorKey).(Translator)
	return t
}
