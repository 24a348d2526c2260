// Package app assembles the translations bundle server: it loads the
// translation tree once at startup and serves merged, ETagged bundles per
// module and locale, plus a small CRUD surface for tenant overrides.
package app

import (
	"context"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	prettylogger "github.com/rdbell/echo-pretty-logger"
	"github.com/ztrue/tracerr"
	"golang.org/x/crypto/blake2b"

	"github.com/julianladisch/stripes-core/adapters"
	f "github.com/julianladisch/stripes-core/core"
	apperrors "github.com/julianladisch/stripes-core/errors"
	"github.com/julianladisch/stripes-core/h"
	"github.com/julianladisch/stripes-core/log"
)

type Config struct {
	TranslationsDir string `envconfig:"TRANSLATIONS_DIR" default:"translations"`
	BaseLocale      string `envconfig:"BASE_LOCALE" default:"en"`
	SessionSecret   string `envconfig:"SESSION_SECRET"`
	CacheProvider   string `envconfig:"CACHE_PROVIDER" default:"memory"`
	DatabaseUrl     string `envconfig:"DATABASE_URL"`
	TenantProvider  string `envconfig:"TENANT_PROVIDER"`
	StrictMissing   bool   `envconfig:"STRICT_MISSING"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
}

type App struct {
	echo   *echo.Echo
	bundle *adapters.Bundle
	store  f.TranslationStore
	cache  f.CacheProvider
}

type customValidator struct {
	validate *validator.Validate
}

func (v *customValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func New(cfg Config) (*App, error) {
	return NewWithSource(cfg, adapters.NewFSBundleSource(os.DirFS("."), cfg.TranslationsDir))
}

// NewWithSource builds the server on an explicit bundle source, which is
// what tests and registry-backed deployments use.
func NewWithSource(cfg Config, source f.BundleSource) (*App, error) {
	log.Init(cfg.LogLevel)

	bundle, err := adapters.NewBundle(context.Background(), source, cfg.BaseLocale)
	if err != nil {
		return nil, err
	}

	app := &App{
		bundle: bundle,
		cache:  adapters.NewCacheProvider(cfg.CacheProvider),
	}

	if h.IsNotEmpty(cfg.DatabaseUrl) {
		store, err := adapters.NewTranslationStore(cfg.DatabaseUrl)
		if err != nil {
			return nil, err
		}
		if err := store.Init(context.Background()); err != nil {
			return nil, err
		}
		app.store = store
	}

	var tenantProvider f.TenantProvider
	if h.IsNotEmpty(cfg.TenantProvider) {
		tenantProvider, err = adapters.NewTenantProvider(cfg.TenantProvider)
		if err != nil {
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &customValidator{validate: validator.New()}
	e.Use(prettylogger.Logger)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogLevel: 2,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			tracerr.PrintSourceColor(tracerr.Wrap(err))
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		},
	}))
	e.Use(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	if h.IsNotEmpty(cfg.SessionSecret) {
		e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.SessionSecret))))
	}
	// Tenant resolution must run before locale resolution so the store
	// overlay and the tenant's default locale take effect.
	if tenantProvider != nil {
		e.Use(adapters.TenantResolver(tenantProvider))
	}
	e.Use(adapters.LocaleMiddleware(adapters.LocaleConfig{
		Bundle:        bundle,
		Store:         app.store,
		Cache:         h.NewCache(),
		StrictMissing: cfg.StrictMissing,
	}))
	e.HTTPErrorHandler = errorHandler(e)

	e.GET("/health", app.health)
	e.GET("/locales", app.locales)
	e.GET("/translations/:module/:locale", app.translations)

	tenants := e.Group("/tenants/:tenant")
	tenants.GET("/translations/:locale", app.listOverrides)
	tenants.PUT("/translations/:locale/:key", app.putOverride)
	tenants.DELETE("/translations/:locale/:key", app.deleteOverride)

	app.echo = e
	return app, nil
}

// errorHandler maps domain errors to their HTTP codes, keeping echo's
// behavior for everything else.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	base := e.DefaultHTTPErrorHandler
	return func(err error, c echo.Context) {
		var ce *apperrors.CustomError
		if apperrors.Is(err, apperrors.ErrUnknownModule) || apperrors.Is(err, apperrors.ErrUnsupportedLocale) {
			err = echo.NewHTTPError(http.StatusNotFound, err.Error())
		} else if stderrors.As(err, &ce) {
			err = echo.NewHTTPError(ce.Code, ce.Message)
		}
		base(err, c)
	}
}

func (a *App) Handler() http.Handler {
	return a.echo
}

func (a *App) Start(port int) error {
	return a.echo.Start(fmt.Sprintf(":%d", port))
}

func (a *App) Shutdown(ctx context.Context) {
	_ = a.echo.Shutdown(ctx)
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.cache.Close()
}

func (a *App) health(c echo.Context) error {
	if err := a.cache.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "down"})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "up"})
}

func (a *App) locales(c echo.Context) error {
	tags := a.bundle.Locales()
	locales := make([]string, 0, len(tags))
	for _, tag := range tags {
		locales = append(locales, tag.String())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"base":    a.bundle.BaseLocale().String(),
		"locales": locales,
	})
}

// translations serves the merged bundle of one module for one locale. The
// body hash doubles as a strong ETag so browsers and proxies can
// revalidate cheaply.
func (a *App) translations(c echo.Context) error {
	module := c.Param("module")
	locale := c.Param("locale")

	cacheKey := "bundle/" + module + "/" + locale
	ctx := c.Request().Context()

	var body []byte
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		if s, ok := cached.(string); ok {
			body = []byte(s)
		}
	}
	if body == nil {
		merged, err := a.bundle.Merged(module, locale)
		if err != nil {
			return err
		}
		body, err = json.Marshal(merged)
		if err != nil {
			return err
		}
		_ = a.cache.Set(ctx, cacheKey, string(body), time.Hour)
	}

	sum := blake2b.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	c.Response().Header().Set("ETag", etag)
	return c.JSONBlob(http.StatusOK, body)
}

type overrideInput struct {
	Message string `json:"message" validate:"required"`
}

func (a *App) putOverride(c echo.Context) error {
	if a.store == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "OVERRIDES_DISABLED")
	}
	var input overrideInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return err
	}
	override := f.TranslationOverride{
		TenantId: c.Param("tenant"),
		Locale:   c.Param("locale"),
		Key:      c.Param("key"),
		Message:  input.Message,
	}
	if err := a.store.Put(c.Request().Context(), override); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) listOverrides(c echo.Context) error {
	if a.store == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "OVERRIDES_DISABLED")
	}
	overrides, err := a.store.List(c.Request().Context(), c.Param("tenant"), c.Param("locale"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"overrides": overrides})
}

func (a *App) deleteOverride(c echo.Context) error {
	if a.store == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "OVERRIDES_DISABLED")
	}
	err := a.store.Delete(c.Request().Context(), c.Param("tenant"), c.Param("locale"), c.Param("key"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
