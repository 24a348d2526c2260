package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/log"
)

// remoteManifest is what a bundle registry serves at
// /translations/manifest.json: the locales available per module.
type remoteManifest struct {
	Modules map[string][]string `json:"modules"`
}

// remoteBundleSource pulls translation files from a bundle registry over
// HTTP. Responses are revalidated with ETags so periodic reloads stay
// cheap.
type remoteBundleSource struct {
	client *resty.Client

	mu     sync.Mutex
	etags  map[string]string
	bodies map[string][]byte
}

func NewRemoteBundleSource(registryUrl string) f.BundleSource {
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(registryUrl, "/"))
	return &remoteBundleSource{
		client: client,
		etags:  map[string]string{},
		bodies: map[string][]byte{},
	}
}

func (s *remoteBundleSource) Load(ctx context.Context) ([]f.LocaleFile, error) {
	var manifest remoteManifest
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&manifest).
		Get("/translations/manifest.json")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bundle registry returned %d for manifest", resp.StatusCode())
	}

	var files []f.LocaleFile
	for module, locales := range manifest.Modules {
		for _, locale := range locales {
			data, err := s.fetch(ctx, module, locale)
			if err != nil {
				return nil, err
			}
			files = append(files, f.LocaleFile{
				Module: module,
				Locale: locale,
				Format: "json",
				Data:   data,
			})
		}
	}
	log.Info("fetched %d translation files from registry", len(files))
	return files, nil
}

func (s *remoteBundleSource) fetch(ctx context.Context, module string, locale string) ([]byte, error) {
	path := fmt.Sprintf("/translations/%s/%s.json", module, locale)

	s.mu.Lock()
	etag := s.etags[path]
	s.mu.Unlock()

	req := s.client.R().SetContext(ctx)
	if etag != "" {
		req.SetHeader("If-None-Match", etag)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if resp.StatusCode() == http.StatusNotModified {
		if cached, ok := s.bodies[path]; ok {
			return cached, nil
		}
		return nil, fmt.Errorf("registry sent 304 for %s but nothing is cached", path)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bundle registry returned %d for %s", resp.StatusCode(), path)
	}

	body := resp.Body()
	if tag := resp.Header().Get("ETag"); tag != "" {
		s.etags[path] = tag
		s.bodies[path] = body
	}
	return body, nil
}
