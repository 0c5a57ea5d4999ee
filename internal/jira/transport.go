package jira

import (
	"net/http"
)

const userAgent = "relnotes (release notes generator)"

// headerTransport adds fixed headers, and optionally a raw Cookie header,
// to every request.
type headerTransport struct {
	headers map[string]string
	cookie  string

	// Transport is the underlying HTTP transport. It defaults to
	// http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// RoundTrip implements the RoundTripper interface.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())

	req2.Header.Set("Accept", "application/json")
	req2.Header.Set("User-Agent", userAgent)
	for k, v := range t.headers {
		req2.Header.Set(k, v)
	}
	if t.cookie != "" {
		req2.Header.Set("Cookie", t.cookie)
	}
	return t.transport().RoundTrip(req2)
}

func (t *headerTransport) transport() http.RoundTripper {
	if t.Transport != nil {
		return t.Transport
	}
	return http.DefaultTransport
}
