package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/townpass/roadwatch/client/internal/types"
)

// DefaultSuggestLimit is used when SuggestRoadSegments gets a non-positive limit.
const DefaultSuggestLimit = 10

// SuggestRoadSegments returns autocomplete suggestions for keyword. An empty
// keyword yields an empty result without contacting the backend. Items are
// returned undecoded; a response without an "items" array yields an empty result.
func SuggestRoadSegments(ctx context.Context, httpClient HTTPClient, baseURL, keyword string, limit int) ([]json.RawMessage, error) {
	if keyword == "" {
		return []json.RawMessage{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("limit", strconv.Itoa(limit))

	const op = "suggest road segments"
	req, err := newRequest(ctx, http.MethodGet, endpoint(baseURL, "/api/road_segments/suggest", q), nil)
	if err != nil {
		return nil, err
	}
	body, err := send(httpClient, req, op, "failed to fetch road segment suggestions")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: decode response: invalid JSON", op)
	}

	items := gjson.GetBytes(body, "items")
	if !items.IsArray() {
		return []json.RawMessage{}, nil
	}
	arr := items.Array()
	out := make([]json.RawMessage, 0, len(arr))
	for _, it := range arr {
		out = append(out, json.RawMessage(it.Raw))
	}
	return out, nil
}

// FetchRoadSegmentsByName returns the segments whose name matches. An empty
// name yields (nil, nil) without contacting the backend.
func FetchRoadSegmentsByName(ctx context.Context, httpClient HTTPClient, baseURL, name string) ([]types.RoadSegment, error) {
	if name == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("name", name)

	out := []types.RoadSegment{}
	u := endpoint(baseURL, "/api/road_segments/search", q)
	if err := call(ctx, httpClient, http.MethodGet, u, nil, "search road segments", "failed to fetch road segments", &out); err != nil {
		return nil, err
	}
	return out, nil
}
