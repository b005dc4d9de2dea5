package carrier

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/parcelbridge/parcelbridge/pkg/carrier/auth"
)

// HTTPDoer performs HTTP requests. *http.Client satisfies it; tests
// inject recording or canned doubles.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport performs authenticated dispatch against a carrier API.
// Any connection failure, non-2xx status, or undecodable body surfaces
// as a *DispatchError; no carrier-specific detail leaks past it. No
// retries are performed, and timeout policy belongs to the injected
// client.
type Transport struct {
	Carrier string
	BaseURL string
	Auth    auth.Strategy
	Headers map[string]string // fixed headers attached to every request
	Client  HTTPDoer
}

// Response is the decoded-enough result of a dispatch: status plus the
// full body, with helpers to interpret it.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON decodes the body into an untyped Payload tree.
func (r *Response) JSON() (Payload, error) {
	return DecodeJSON(r.Body)
}

// XML decodes the body into a typed structure.
func (r *Response) XML(v any) error {
	return xml.Unmarshal(r.Body, v)
}

// Dispatch issues one authenticated HTTP call and returns the response
// body. The endpoint is joined onto the transport's base URL; an
// absolute endpoint (hypermedia href) is used as-is.
func (t *Transport) Dispatch(ctx context.Context, method, endpoint, contentType string, body []byte) (*Response, error) {
	url := t.BaseURL + endpoint
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		url = endpoint
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &DispatchError{Carrier: t.Carrier, Endpoint: endpoint, Message: "building request", Cause: err}
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", contentType)
	}
	for name, value := range t.Headers {
		req.Header.Set(name, value)
	}

	if t.Auth != nil {
		if err := t.Auth.Authorize(ctx, req); err != nil {
			return nil, &DispatchError{Carrier: t.Carrier, Endpoint: endpoint, Message: "authentication", Cause: err}
		}
	}

	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &DispatchError{Carrier: t.Carrier, Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DispatchError{Carrier: t.Carrier, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "reading response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DispatchError{
			Carrier:    t.Carrier,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(respBody), 512),
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
