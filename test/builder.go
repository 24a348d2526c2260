package test

import (
	"strings"

	"github.com/go-faker/faker/v4"

	f "github.com/julianladisch/stripes-core/core"
)

var testZones = []string{"UTC", "Europe/Paris", "America/New_York", "Asia/Tokyo"}
var zoneCursor int

// NewTenant fabricates a tenant with a plausible zone and locale, for
// tests that only care about resolution mechanics.
func NewTenant(locale string) f.Tenant {
	id := strings.ToLower(faker.Username())
	zone := testZones[zoneCursor%len(testZones)]
	zoneCursor++
	return f.Tenant{
		ID:       id,
		Slug:     id,
		Name:     faker.Name(),
		Timezone: zone,
		Locale:   locale,
	}
}

// NewOverride fabricates a tenant translation override for the given key.
func NewOverride(tenantId string, locale string, key string) f.TranslationOverride {
	return f.TranslationOverride{
		TenantId: tenantId,
		Locale:   locale,
		Key:      key,
		Message:  faker.Sentence(),
	}
}
