package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/townpass/roadwatch/client/internal/types"
)

const (
	// DefaultNoticesLimit is used when GetConstructionNotices gets a non-positive limit.
	DefaultNoticesLimit = 100
)

// GetConstructionData fetches the current construction sites as GeoJSON.
func GetConstructionData(ctx context.Context, httpClient HTTPClient, baseURL string) (*types.FeatureCollection, error) {
	var out types.FeatureCollection
	u := endpoint(baseURL, "/api/construction/geojson", nil)
	if err := call(ctx, httpClient, http.MethodGet, u, nil, "get construction data", "construction data not available", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateConstructionData asks the backend to re-scrape construction data.
// The backend reports scrape failures in the result's Status, not the HTTP status.
func UpdateConstructionData(ctx context.Context, httpClient HTTPClient, baseURL string) (*types.ConstructionUpdateResult, error) {
	var out types.ConstructionUpdateResult
	u := endpoint(baseURL, "/api/construction/update", nil)
	if err := call(ctx, httpClient, http.MethodGet, u, nil, "update construction data", "failed to update construction data", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConstructionNotices pages through construction notices. A negative skip
// is sent as 0 and a non-positive limit as DefaultNoticesLimit.
func GetConstructionNotices(ctx context.Context, httpClient HTTPClient, baseURL string, skip, limit int) ([]types.ConstructionNotice, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultNoticesLimit
	}
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var out []types.ConstructionNotice
	u := endpoint(baseURL, "/api/construction/notices", q)
	if err := call(ctx, httpClient, http.MethodGet, u, nil, "get construction notices", "failed to fetch construction notices", &out); err != nil {
		return nil, err
	}
	return out, nil
}
