package api

import (
	"context"
	"net/http"

	"github.com/townpass/roadwatch/client/internal/types"
)

// ListTestRecords returns every test record ordered by ID.
func ListTestRecords(ctx context.Context, httpClient HTTPClient, baseURL string) ([]types.TestRecord, error) {
	var out []types.TestRecord
	u := endpoint(baseURL, "/api/test_records", nil)
	if err := call(ctx, httpClient, http.MethodGet, u, nil, "list test records", "failed to list test records", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTestRecord stores a new test record.
func CreateTestRecord(ctx context.Context, httpClient HTTPClient, baseURL string, req types.CreateTestRecordRequest) (*types.TestRecord, error) {
	var out types.TestRecord
	u := endpoint(baseURL, "/api/test_records", nil)
	if err := call(ctx, httpClient, http.MethodPost, u, req, "create test record", "failed to create test record", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
