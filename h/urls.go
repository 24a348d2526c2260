package h

import (
	"net/url"
)

// Url is a parsed provider URL (cache, tenant registry, database). The
// scheme selects the implementation, the rest configures it.
type Url struct {
	Scheme   string
	Path     string
	Url      string
	Host     string
	User     string
	Password string
	query    map[string]string
}

func ParseUrl(input string) (Url, error) {
	u, err := url.Parse(input)
	if err != nil {
		return Url{}, err
	}
	queryParams := make(map[string]string)
	for key, values := range u.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}
	password, ok := u.User.Password()
	if !ok {
		password = ""
	}
	return Url{
		Scheme:   u.Scheme,
		Path:     u.Path,
		Url:      input,
		Host:     u.Host,
		User:     u.User.Username(),
		Password: password,
		query:    queryParams,
	}, nil
}

func (u Url) HasQueryParam(key string) bool {
	_, ok := u.query[key]
	return ok
}

func (u Url) Query(key string) string {
	return u.query[key]
}
