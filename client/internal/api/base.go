// Package api implements one function per backend endpoint. Every function
// issues exactly one request against {baseURL}/api/... and decodes the JSON
// response; non-2xx responses become classified errors carrying the server's
// detail message or the operation's fallback text.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	clienterrors "github.com/townpass/roadwatch/client/internal/errors"
)

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// endpoint joins baseURL, path and an optional query string.
func endpoint(baseURL, path string, query url.Values) string {
	u := strings.TrimRight(baseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// newRequest builds a request, JSON-encoding body when it is non-nil.
func newRequest(ctx context.Context, method, u string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send performs req and returns the body of a 2xx response.
func send(httpClient HTTPClient, req *http.Request, operation, fallback string) ([]byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, clienterrors.NewNetworkError(operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, clienterrors.NewHTTPError(resp.StatusCode, body, operation, fallback)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", operation, err)
	}
	return body, nil
}

// decode unmarshals a success body into out.
func decode(operation string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}

// call is the common request/response path: build, send, decode into out.
func call(ctx context.Context, httpClient HTTPClient, method, u string, in any, operation, fallback string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req, err := newRequest(ctx, method, u, in)
	if err != nil {
		return err
	}
	body, err := send(httpClient, req, operation, fallback)
	if err != nil {
		return err
	}
	return decode(operation, body, out)
}
