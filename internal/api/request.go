package api

import (
	"fmt"
	"net/http"
)

// Session is the signed-in user's state as seen by the request pipeline.
// It is consulted when a route needs auth and when a 401 forces logout.
type Session interface {
	AuthToken() (string, bool)
	TriggerLogout()
}

// Request is a fully built HTTP request description.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Build maps an endpoint to a request against baseURL. session may be nil
// for anonymous calls. An empty boundary means DefaultBoundary.
func Build(baseURL string, e Endpoint, session Session, boundary string) (*Request, error) {
	if e == nil {
		return nil, fmt.Errorf("endpoint is required")
	}
	if boundary == "" {
		boundary = DefaultBoundary
	}

	r := e.route()
	req := &Request{
		Method: r.Method,
		URL:    r.URL(baseURL),
		Header: http.Header{},
	}
	req.Header.Set("Accept", contentTypeJSON)

	if r.NeedAuth && session != nil {
		if token, ok := session.AuthToken(); ok {
			req.Header.Set("Authorization", "Basic "+token)
		}
	}

	if r.Multipart {
		body, err := EncodeMultipart(r.Params, r.Media, boundary)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Body = body
			req.Header.Set("Content-Type", multipartContentType(boundary))
		}
		return req, nil
	}

	if body := EncodeURLEncoded(r.Params); body != nil {
		req.Body = body
		req.Header.Set("Content-Type", contentTypeForm)
	}
	return req, nil
}
