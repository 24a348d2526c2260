package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/h"
	"github.com/julianladisch/stripes-core/log"
)

// NewTenantProvider builds a tenant provider from a URL-ish config string:
// file://tenants.json, base64:<json>, or an http(s) registry endpoint.
func NewTenantProvider(provider string) (f.TenantProvider, error) {
	if strings.HasPrefix(provider, "base64:") {
		return NewBase64TenantProvider(strings.TrimPrefix(provider, "base64:"))
	}
	res, err := h.ParseUrl(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tenant provider: %v", err)
	}
	switch res.Scheme {
	case "file":
		log.Info("using file tenant provider: %s", res.Url)
		return NewFileTenantProvider(res)
	case "http", "https":
		log.Info("using http tenant provider: %s", res.Url)
		return NewHttpTenantProvider(res.Url), nil
	default:
		return nil, fmt.Errorf("unsupported tenant provider: %s", res.Scheme)
	}
}

func MustNewTenantProvider(provider string) f.TenantProvider {
	tp, err := NewTenantProvider(provider)
	if err != nil {
		panic(err)
	}
	return tp
}

// ------------------------------------------------------------------------------------------------------------------
// STATIC TENANT PROVIDERS (file / base64)
// ------------------------------------------------------------------------------------------------------------------

type staticTenantProvider struct {
	tenants map[string]f.Tenant
}

func NewFileTenantProvider(cfg h.Url) (f.TenantProvider, error) {
	data, err := os.ReadFile(strings.TrimPrefix(cfg.Url, "file://"))
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant file: %v", err)
	}
	return newStaticTenantProvider(data)
}

func NewBase64TenantProvider(encoded string) (f.TenantProvider, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tenant config: %v", err)
	}
	return newStaticTenantProvider(data)
}

func newStaticTenantProvider(data []byte) (f.TenantProvider, error) {
	var content f.TenantList
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse tenant config: %v", err)
	}
	tenants := make(map[string]f.Tenant)
	for _, tenant := range content.Tenants {
		if h.IsEmpty(tenant.Timezone) {
			tenant.Timezone = "UTC"
		}
		tenants[strings.ToLower(tenant.ID)] = tenant
	}
	log.Info("static tenant provider initialized with %d tenants", len(tenants))
	return &staticTenantProvider{tenants: tenants}, nil
}

func (tp *staticTenantProvider) GetTenant(_ context.Context, tenantId string) (*f.Tenant, error) {
	if tenant, ok := tp.tenants[strings.ToLower(tenantId)]; ok {
		return &tenant, nil
	}
	return nil, nil
}

func (tp *staticTenantProvider) GetTenantList(_ context.Context) ([]f.Tenant, error) {
	out := make([]f.Tenant, 0, len(tp.tenants))
	for _, tenant := range tp.tenants {
		out = append(out, tenant)
	}
	return out, nil
}

func (tp *staticTenantProvider) Load(ctx context.Context) ([]f.Tenant, error) {
	return tp.GetTenantList(ctx)
}

// ------------------------------------------------------------------------------------------------------------------
// HTTP TENANT PROVIDER
// ------------------------------------------------------------------------------------------------------------------

type httpTenantProvider struct {
	client *resty.Client
}

func NewHttpTenantProvider(baseUrl string) f.TenantProvider {
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseUrl, "/"))
	return &httpTenantProvider{client: client}
}

func (tp *httpTenantProvider) GetTenant(ctx context.Context, tenantId string) (*f.Tenant, error) {
	var tenant f.Tenant
	resp, err := tp.client.R().
		SetContext(ctx).
		SetResult(&tenant).
		Get("/tenants/" + tenantId)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tenant registry returned %d", resp.StatusCode())
	}
	return &tenant, nil
}

func (tp *httpTenantProvider) GetTenantList(ctx context.Context) ([]f.Tenant, error) {
	var content f.TenantList
	resp, err := tp.client.R().
		SetContext(ctx).
		SetResult(&content).
		Get("/tenants")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tenant registry returned %d", resp.StatusCode())
	}
	return content.Tenants, nil
}

func (tp *httpTenantProvider) Load(ctx context.Context) ([]f.Tenant, error) {
	return tp.GetTenantList(ctx)
}
