package adapters

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianladisch/stripes-core/test"
)

const testTenantsJson = `{
	"tenants": [
		{"id": "diku", "name": "Datalogisk Institut", "timezone": "America/New_York", "locale": "en"},
		{"id": "biblio", "name": "Bibliothèque", "timezone": "Europe/Paris", "locale": "fr"},
		{"id": "acme", "name": "Acme"}
	]
}`

func testTenantConfig() string {
	return base64.StdEncoding.EncodeToString([]byte(testTenantsJson))
}

// ------------------------------------------------------------------------------------------------------------------
// Static providers
// ------------------------------------------------------------------------------------------------------------------

func TestBase64TenantProvider(t *testing.T) {
	assert := test.NewAssertions(t)

	provider, err := NewTenantProvider("base64:" + testTenantConfig())
	assert.Nil(err)

	tenant, err := provider.GetTenant(context.Background(), "biblio")
	assert.Nil(err)
	assert.NotNil(tenant)
	assert.Equals(tenant.Locale, "fr")
	assert.Equals(tenant.Timezone, "Europe/Paris")

	// Unknown tenants are a miss, not an error.
	tenant, err = provider.GetTenant(context.Background(), "nope")
	assert.Nil(err)
	assert.True(tenant == nil)
}

func TestStaticTenantProvider_Defaults(t *testing.T) {
	assert := test.NewAssertions(t)

	provider, err := NewTenantProvider("base64:" + testTenantConfig())
	assert.Nil(err)

	tenant, err := provider.GetTenant(context.Background(), "acme")
	assert.Nil(err)
	assert.NotNil(tenant)
	assert.Equals(tenant.Timezone, "UTC")

	// Lookup is case-insensitive.
	tenant, err = provider.GetTenant(context.Background(), "DIKU")
	assert.Nil(err)
	assert.NotNil(tenant)
	assert.Equals(tenant.ID, "diku")
}

func TestFileTenantProvider(t *testing.T) {
	assert := test.NewAssertions(t)

	path := filepath.Join(t.TempDir(), "tenants.json")
	assert.Nil(os.WriteFile(path, []byte(testTenantsJson), 0o600))

	provider, err := NewTenantProvider("file://" + path)
	assert.Nil(err)

	tenants, err := provider.GetTenantList(context.Background())
	assert.Nil(err)
	assert.Equals(len(tenants), 3)
}

func TestNewTenantProvider_Unsupported(t *testing.T) {
	assert := test.NewAssertions(t)

	_, err := NewTenantProvider("ftp://tenants")
	assert.NotNil(err)
}

// ------------------------------------------------------------------------------------------------------------------
// HTTP provider
// ------------------------------------------------------------------------------------------------------------------

func TestHttpTenantProvider(t *testing.T) {
	assert := test.NewAssertions(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/tenants":
			_, _ = w.Write([]byte(testTenantsJson))
		case "/tenants/diku":
			_, _ = w.Write([]byte(`{"id": "diku", "locale": "en", "timezone": "America/New_York"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := NewHttpTenantProvider(server.URL)

	tenant, err := provider.GetTenant(context.Background(), "diku")
	assert.Nil(err)
	assert.NotNil(tenant)
	assert.Equals(tenant.Timezone, "America/New_York")

	tenant, err = provider.GetTenant(context.Background(), "missing")
	assert.Nil(err)
	assert.True(tenant == nil)

	tenants, err := provider.GetTenantList(context.Background())
	assert.Nil(err)
	assert.Equals(len(tenants), 3)
}
