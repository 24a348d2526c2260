package f

import "context"

// Tenant is one installation of the platform. Timezone and Locale drive the
// presentation defaults: timestamps are stored in UTC everywhere and only
// converted to Timezone when rendered for this tenant.
type Tenant struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Timezone    string `json:"timezone"`
	Locale      string `json:"locale"`
	DatabaseUrl string `json:"database_url"`
}

type TenantList struct {
	Tenants []Tenant `json:"tenants"`
}

type TenantInput struct {
	Tenant string `param:"tenant" header:"X-TenantId" json:"-" validate:"required"`
}

type TenantProvider interface {
	GetTenant(ctx context.Context, tenantId string) (*Tenant, error)
	GetTenantList(ctx context.Context) ([]Tenant, error)
	Load(ctx context.Context) ([]Tenant, error)
}
