package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/swparks/sw-cli/internal/domain"
)

// Param is one form field in wire order.
type Param = domain.Param

// QueryItem is one query-string pair. Order is preserved.
type QueryItem struct {
	Name  string
	Value string
}

// Route is everything needed to turn an endpoint into an HTTP request.
type Route struct {
	Method    string
	Path      string
	Query     []QueryItem
	Params    []Param
	Media     []domain.MediaAttachment
	Multipart bool
	NeedAuth  bool
}

// Endpoint is a server operation. The set of implementations is closed:
// every variant lives in this package and maps itself to exactly one Route.
type Endpoint interface {
	route() Route
}

// RouteOf returns the method, path, query and body e maps to.
func RouteOf(e Endpoint) Route {
	return e.route()
}

// URL joins the base URL, path and query string. The "?" is only added when
// there are query items.
func (r Route) URL(baseURL string) string {
	u := strings.TrimSuffix(baseURL, "/") + r.Path
	if q := encodeQuery(r.Query); q != "" {
		u += "?" + q
	}
	return u
}

func encodeQuery(items []QueryItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(item.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(item.Value))
	}
	return b.String()
}

// cacheable reports whether successful responses of e may be served from the
// response cache. Only large, rarely changing reference lists qualify.
func cacheable(e Endpoint) bool {
	switch e.(type) {
	case GetAllParks, GetCountries:
		return true
	default:
		return false
	}
}

func get(path string, auth bool) Route {
	return Route{Method: http.MethodGet, Path: path, NeedAuth: auth}
}

func post(path string, params ...Param) Route {
	return Route{Method: http.MethodPost, Path: path, Params: params, NeedAuth: true}
}

func put(path string, params ...Param) Route {
	return Route{Method: http.MethodPut, Path: path, Params: params, NeedAuth: true}
}

func del(path string) Route {
	return Route{Method: http.MethodDelete, Path: path, NeedAuth: true}
}

func param(key, value string) Param {
	return Param{Key: key, Value: value}
}

func multipartRoute(path string, params []Param, media []domain.MediaAttachment) Route {
	return Route{
		Method:    http.MethodPost,
		Path:      path,
		Params:    params,
		Media:     media,
		Multipart: true,
		NeedAuth:  true,
	}
}
