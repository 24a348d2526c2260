package test

import (
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
	matcher "github.com/panta/go-json-matcher"

	"github.com/julianladisch/stripes-core/h"
)

type RestClient struct {
	client *resty.Client
	assert Assertions
	t      *testing.T
}

type HttpReq struct {
	Body     any
	Headers  map[string]string
	TenantId string
	Result   any
}

type HttpRes struct {
	resp   *resty.Response
	err    error
	assert Assertions
	t      *testing.T
}

func NewRestClient(t *testing.T, baseUrl string) *RestClient {
	r := resty.New()
	r.SetRedirectPolicy(resty.NoRedirectPolicy())
	r.SetBaseURL(baseUrl)
	return &RestClient{client: r, assert: NewAssertions(t), t: t}
}

func (c *RestClient) Get(path string, opts ...HttpReq) HttpRes {
	return c.invoke("GET", path, opts...)
}

func (c *RestClient) Put(path string, opts ...HttpReq) HttpRes {
	return c.invoke("PUT", path, opts...)
}

func (c *RestClient) Delete(path string, opts ...HttpReq) HttpRes {
	return c.invoke("DELETE", path, opts...)
}

func (c *RestClient) invoke(method string, path string, opts ...HttpReq) HttpRes {
	q := c.client.R()
	var result map[string]any
	q = q.SetResult(&result)
	for _, opt := range opts {
		if opt.Body != nil {
			q = q.SetBody(opt.Body)
		}
		if opt.Result != nil {
			q = q.SetResult(opt.Result)
		}
		for key, value := range opt.Headers {
			q = q.SetHeader(key, value)
		}
		if opt.TenantId != "" {
			q = q.SetHeader("X-TenantId", opt.TenantId)
		}
	}
	resp, err := q.Execute(method, path)
	return HttpRes{resp: resp, err: err, assert: c.assert, t: c.t}
}

func (r HttpRes) IsOk() HttpRes {
	r.assert.Nil(r.err)
	r.assert.Equals(r.resp.StatusCode(), http.StatusOK)
	return r
}

func (r HttpRes) NoContent() HttpRes {
	r.assert.Nil(r.err)
	r.assert.Equals(r.resp.StatusCode(), http.StatusNoContent)
	return r
}

func (r HttpRes) Is(status int) HttpRes {
	r.assert.Nil(r.err)
	r.assert.Equals(r.resp.StatusCode(), status)
	return r
}

func (r HttpRes) IsBadRequest() HttpRes {
	return r.Is(http.StatusBadRequest)
}

func (r HttpRes) IsNotFound() HttpRes {
	return r.Is(http.StatusNotFound)
}

func (r HttpRes) Result() []byte {
	return r.resp.Body()
}

func (r HttpRes) Header(name string) string {
	return r.resp.Header().Get(name)
}

func (r HttpRes) JSONValue() h.JsonValue {
	return h.NewJsonValue(string(r.Result()))
}

// MatchesJson asserts the response body against a go-json-matcher pattern,
// e.g. `{"locales": "#array", "base": "en"}`.
func (r HttpRes) MatchesJson(pattern string) HttpRes {
	ok, err := matcher.JSONStringMatches(string(r.Result()), pattern)
	r.assert.Nil(err)
	if !ok {
		r.t.Errorf("response body does not match pattern\nbody: %s\npattern: %s", r.Result(), pattern)
	}
	return r
}

func (r HttpRes) BodyContains(substring string) HttpRes {
	r.assert.Contains(string(r.Result()), substring)
	return r
}
