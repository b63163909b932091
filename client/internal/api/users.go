package api

import (
	"context"
	"net/http"

	"github.com/townpass/roadwatch/client/internal/types"
)

// ListUsers returns every user ordered by ID.
func ListUsers(ctx context.Context, httpClient HTTPClient, baseURL string) ([]types.User, error) {
	var out []types.User
	u := endpoint(baseURL, "/api/users", nil)
	if err := call(ctx, httpClient, http.MethodGet, u, nil, "list users", "failed to list users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser registers a new user.
func CreateUser(ctx context.Context, httpClient HTTPClient, baseURL string, req types.CreateUserRequest) (*types.User, error) {
	var out types.User
	u := endpoint(baseURL, "/api/users", nil)
	if err := call(ctx, httpClient, http.MethodPost, u, req, "create user", "failed to create user", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
