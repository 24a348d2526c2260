package adapters

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/h"
	"github.com/julianladisch/stripes-core/log"
)

// LangParam is the query parameter overriding the display locale for one
// request. The chosen value is remembered in the session when session
// middleware is installed.
const LangParam = "lang"

const sessionName = "session"
const sessionLocaleKey = "locale"
const sessionLocaleMaxAge = 30 * 24 * 3600

// TenantMiddleware resolves the tenant for the request, looking at the
// route param, the tid query param, the X-TenantId header and finally the
// host, and stores the validated tenant in the request context.
func TenantMiddleware(provider f.TenantProvider) echo.MiddlewareFunc {
	f.Check(provider, "tenant provider is required")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantId := c.Param("tenant")
			if tenantId == "" {
				tenantId = c.QueryParam("tid")
			}
			if tenantId == "" {
				tenantId = c.Request().Header.Get("X-TenantId")
			}
			if tenantId == "" {
				tenantId = c.Request().Host
			}
			if tenantId == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "TENANT_REQUIRED")
			}
			tenantId = strings.ToLower(tenantId)
			tenant, err := provider.GetTenant(c.Request().Context(), tenantId)
			if err != nil {
				return err
			}
			if tenant == nil {
				log.Info("invalid tenant received: %s", tenantId)
				return echo.NewHTTPError(http.StatusBadRequest, "INVALID_TENANT")
			}
			ctx := f.WithTenant(c.Request().Context(), tenant)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// TenantResolver resolves the tenant when the request names one (route
// param, tid query param, X-TenantId header) and rejects unknown ids.
// Requests naming no tenant pass through untouched, so one chain can serve
// shared and tenant-scoped routes alike. Host-based deployments use
// TenantMiddleware instead.
func TenantResolver(provider f.TenantProvider) echo.MiddlewareFunc {
	f.Check(provider, "tenant provider is required")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantId := c.Param("tenant")
			if tenantId == "" {
				tenantId = c.QueryParam("tid")
			}
			if tenantId == "" {
				tenantId = c.Request().Header.Get("X-TenantId")
			}
			if tenantId == "" {
				return next(c)
			}
			tenantId = strings.ToLower(tenantId)
			tenant, err := provider.GetTenant(c.Request().Context(), tenantId)
			if err != nil {
				return err
			}
			if tenant == nil {
				log.Info("invalid tenant received: %s", tenantId)
				return echo.NewHTTPError(http.StatusBadRequest, "INVALID_TENANT")
			}
			ctx := f.WithTenant(c.Request().Context(), tenant)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// LocaleConfig wires the locale middleware.
type LocaleConfig struct {
	Bundle *Bundle
	// Store, when set, overlays tenant translation overrides on the
	// request translator. Requires tenant resolution (TenantMiddleware or
	// TenantResolver) upstream.
	Store f.TranslationStore
	// Cache, when set, memoises argument-free translations.
	Cache h.Cache
	// StrictMissing makes unresolved keys visually loud.
	StrictMissing bool
}

// LocaleMiddleware resolves the display locale for the request, in priority
// order: lang query param, session, Accept-Language header, tenant default,
// base locale. It installs the matched locale and a ready translator in the
// request context.
func LocaleMiddleware(cfg LocaleConfig) echo.MiddlewareFunc {
	f.Check(cfg.Bundle, "translation bundle is required")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			preferences := make([]string, 0, 4)

			requested := c.QueryParam(LangParam)
			if requested != "" {
				preferences = append(preferences, requested)
				rememberLocale(c, requested)
			}
			if remembered := rememberedLocale(c); remembered != "" {
				preferences = append(preferences, remembered)
			}
			if accept := c.Request().Header.Get("Accept-Language"); accept != "" {
				preferences = append(preferences, accept)
			}

			ctx := c.Request().Context()
			if tenant := f.TenantFrom(ctx); tenant != nil && tenant.Locale != "" {
				preferences = append(preferences, tenant.Locale)
			}

			tag := cfg.Bundle.Match(preferences...)

			opts := []TranslatorOption{WithRequestContext(ctx)}
			if cfg.Cache != nil {
				opts = append(opts, WithMessageCache(cfg.Cache))
			}
			if cfg.StrictMissing {
				opts = append(opts, WithStrictMissing())
			}
			if cfg.Store != nil {
				if tenant := f.TenantFrom(ctx); tenant != nil {
					opts = append(opts, WithStore(cfg.Store, tenant.ID))
				}
			}

			ctx = f.WithLocale(ctx, tag)
			ctx = f.WithTranslator(ctx, cfg.Bundle.Translator(tag, opts...))
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("Content-Language", tag.String())
			return next(c)
		}
	}
}

// rememberedLocale reads the locale stored in the session, if session
// middleware is installed.
func rememberedLocale(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil || sess == nil {
		return ""
	}
	if value, ok := sess.Values[sessionLocaleKey].(string); ok {
		return value
	}
	return ""
}

func rememberLocale(c echo.Context, locale string) {
	sess, err := session.Get(sessionName, c)
	if err != nil || sess == nil {
		return
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionLocaleMaxAge,
		HttpOnly: true,
	}
	sess.Values[sessionLocaleKey] = locale
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		log.Warn("failed to persist locale in session: %v", err)
	}
}
