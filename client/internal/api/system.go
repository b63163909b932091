package api

import (
	"context"
	"net/http"

	"github.com/townpass/roadwatch/client/internal/types"
)

// Hello calls the backend's greeting endpoint.
func Hello(ctx context.Context, httpClient HTTPClient, baseURL string) (*types.HelloResponse, error) {
	var out types.HelloResponse
	u := endpoint(baseURL, "/api/hello", nil)
	if err := call(ctx, httpClient, http.MethodGet, u, nil, "hello", "failed to reach hello endpoint", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Echo posts message and returns what the backend saw.
func Echo(ctx context.Context, httpClient HTTPClient, baseURL, message string) (*types.EchoResponse, error) {
	var out types.EchoResponse
	u := endpoint(baseURL, "/api/echo", nil)
	if err := call(ctx, httpClient, http.MethodPost, u, types.EchoRequest{Message: message}, "echo", "failed to echo message", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
