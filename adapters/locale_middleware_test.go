package adapters

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/test"
)

func localeEcho(t *testing.T, cfg LocaleConfig, middlewares ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(middlewares...)
	e.Use(LocaleMiddleware(cfg))
	e.GET("/", func(c echo.Context) error {
		ctx := c.Request().Context()
		return c.String(http.StatusOK, f.TranslatorFrom(ctx).T("ui-users.search"))
	})
	return e
}

// ------------------------------------------------------------------------------------------------------------------
// Locale resolution priority
// ------------------------------------------------------------------------------------------------------------------

func TestLocaleMiddleware_QueryParam(t *testing.T) {
	assert := test.NewAssertions(t)

	e := localeEcho(t, LocaleConfig{Bundle: loadTestBundle(t)})

	req := httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Code, http.StatusOK)
	assert.Equals(rec.Body.String(), "Chercher")
	assert.Equals(rec.Header().Get("Content-Language"), "fr")
}

func TestLocaleMiddleware_AcceptLanguage(t *testing.T) {
	assert := test.NewAssertions(t)

	e := localeEcho(t, LocaleConfig{Bundle: loadTestBundle(t)})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-CH, fr;q=0.9, en;q=0.8")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Body.String(), "Chercher")
	assert.Equals(rec.Header().Get("Content-Language"), "fr")
}

func TestLocaleMiddleware_QueryParamBeatsHeader(t *testing.T) {
	assert := test.NewAssertions(t)

	e := localeEcho(t, LocaleConfig{Bundle: loadTestBundle(t)})

	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.Header.Set("Accept-Language", "fr")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Body.String(), "Search")
	assert.Equals(rec.Header().Get("Content-Language"), "en")
}

func TestLocaleMiddleware_DefaultsToBaseLocale(t *testing.T) {
	assert := test.NewAssertions(t)

	e := localeEcho(t, LocaleConfig{Bundle: loadTestBundle(t)})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Body.String(), "Search")
	assert.Equals(rec.Header().Get("Content-Language"), "en")
}

func TestLocaleMiddleware_TenantDefaultLocale(t *testing.T) {
	assert := test.NewAssertions(t)

	provider := MustNewTenantProvider("base64:" + testTenantConfig())

	e := localeEcho(t, LocaleConfig{Bundle: loadTestBundle(t)}, TenantMiddleware(provider))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-TenantId", "biblio")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// The tenant's default locale applies when nothing else is requested.
	assert.Equals(rec.Body.String(), "Chercher")
	assert.Equals(rec.Header().Get("Content-Language"), "fr")
}

func TestLocaleMiddleware_HeaderBeatsTenantDefault(t *testing.T) {
	assert := test.NewAssertions(t)

	provider := MustNewTenantProvider("base64:" + testTenantConfig())

	e := localeEcho(t, LocaleConfig{Bundle: loadTestBundle(t)}, TenantMiddleware(provider))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-TenantId", "biblio")
	req.Header.Set("Accept-Language", "en")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Body.String(), "Search")
}

// ------------------------------------------------------------------------------------------------------------------
// Session persistence
// ------------------------------------------------------------------------------------------------------------------

func TestLocaleMiddleware_RemembersChoiceInSession(t *testing.T) {
	assert := test.NewAssertions(t)

	e := localeEcho(t, LocaleConfig{Bundle: loadTestBundle(t)},
		session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))

	// First request picks French and persists it.
	req := httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Body.String(), "Chercher")
	cookies := rec.Result().Cookies()
	assert.True(len(cookies) > 0)

	// Second request carries only the session cookie.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Body.String(), "Chercher")
	assert.Equals(rec.Header().Get("Content-Language"), "fr")
}

// ------------------------------------------------------------------------------------------------------------------
// Tenant resolution
// ------------------------------------------------------------------------------------------------------------------

func TestTenantMiddleware_InvalidTenant(t *testing.T) {
	assert := test.NewAssertions(t)

	provider := MustNewTenantProvider("base64:" + testTenantConfig())

	e := echo.New()
	e.Use(TenantMiddleware(provider))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-TenantId", "nope")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Code, http.StatusBadRequest)
	assert.Contains(rec.Body.String(), "INVALID_TENANT")
}

func TestTenantResolver_PassesThroughWithoutTenant(t *testing.T) {
	assert := test.NewAssertions(t)

	provider := MustNewTenantProvider("base64:" + testTenantConfig())

	e := echo.New()
	e.Use(TenantResolver(provider))
	e.GET("/", func(c echo.Context) error {
		if f.TenantFrom(c.Request().Context()) != nil {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.NoContent(http.StatusOK)
	})

	// No param, query or header names a tenant: the request goes through.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Code, http.StatusOK)
}

func TestTenantResolver_ResolvesAndRejects(t *testing.T) {
	assert := test.NewAssertions(t)

	provider := MustNewTenantProvider("base64:" + testTenantConfig())

	e := echo.New()
	e.Use(TenantResolver(provider))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, f.TenantFrom(c.Request().Context()).ID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-TenantId", "biblio")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Code, http.StatusOK)
	assert.Equals(rec.Body.String(), "biblio")

	// A named but unknown tenant is still rejected.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-TenantId", "nope")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Code, http.StatusBadRequest)
	assert.Contains(rec.Body.String(), "INVALID_TENANT")
}

func TestTenantMiddleware_StashesTenant(t *testing.T) {
	assert := test.NewAssertions(t)

	provider := MustNewTenantProvider("base64:" + testTenantConfig())

	e := echo.New()
	e.Use(TenantMiddleware(provider))
	e.GET("/", func(c echo.Context) error {
		tenant := f.TenantFrom(c.Request().Context())
		if tenant == nil {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, tenant.ID)
	})

	// Tenant ids are matched case-insensitively.
	req := httptest.NewRequest(http.MethodGet, "/?tid=BIBLIO", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equals(rec.Code, http.StatusOK)
	assert.Equals(rec.Body.String(), "biblio")
}
