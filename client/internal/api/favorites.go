package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/townpass/roadwatch/client/internal/types"
)

// Fallback messages used when a failed favorites response carries no detail.
const (
	ErrMsgGetFavorites   = "failed to fetch favorites"
	ErrMsgCreateFavorite = "failed to create favorite"
	ErrMsgUpdateFavorite = "failed to update favorite"
	ErrMsgDeleteFavorite = "failed to delete favorite"
)

func favoritesURL(baseURL string, favoriteID int, externalID string) string {
	path := "/api/favorites"
	if favoriteID > 0 {
		path = fmt.Sprintf("/api/favorites/%d", favoriteID)
	}
	return endpoint(baseURL, path, url.Values{"external_id": {externalID}})
}

// GetFavorites lists the favorites saved by externalID.
func GetFavorites(ctx context.Context, httpClient HTTPClient, baseURL, externalID string) ([]types.Favorite, error) {
	if err := types.ValidateExternalID(externalID); err != nil {
		return nil, err
	}
	out := []types.Favorite{}
	if err := call(ctx, httpClient, http.MethodGet, favoritesURL(baseURL, 0, externalID), nil, "get favorites", ErrMsgGetFavorites, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFavorite saves data as a new favorite for externalID. The owner is
// resolved server-side from externalID, so any user_id in data is dropped.
func CreateFavorite(ctx context.Context, httpClient HTTPClient, baseURL string, data types.FavoriteData, externalID string) (*types.Favorite, error) {
	if err := types.ValidateExternalID(externalID); err != nil {
		return nil, err
	}
	var out types.Favorite
	body := data.Without("user_id")
	if err := call(ctx, httpClient, http.MethodPost, favoritesURL(baseURL, 0, externalID), body, "create favorite", ErrMsgCreateFavorite, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFavorite applies data to favorite favoriteID owned by externalID.
func UpdateFavorite(ctx context.Context, httpClient HTTPClient, baseURL string, favoriteID int, externalID string, data types.FavoriteData) (*types.Favorite, error) {
	if err := types.ValidateFavoriteID(favoriteID); err != nil {
		return nil, err
	}
	if err := types.ValidateExternalID(externalID); err != nil {
		return nil, err
	}
	if data == nil {
		data = types.FavoriteData{}
	}
	var out types.Favorite
	if err := call(ctx, httpClient, http.MethodPut, favoritesURL(baseURL, favoriteID, externalID), data, "update favorite", ErrMsgUpdateFavorite, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFavorite removes favorite favoriteID owned by externalID and returns
// the backend's response body, or nil when it sent none.
func DeleteFavorite(ctx context.Context, httpClient HTTPClient, baseURL string, favoriteID int, externalID string) (json.RawMessage, error) {
	if err := types.ValidateFavoriteID(favoriteID); err != nil {
		return nil, err
	}
	if err := types.ValidateExternalID(externalID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	const op = "delete favorite"
	req, err := newRequest(ctx, http.MethodDelete, favoritesURL(baseURL, favoriteID, externalID), nil)
	if err != nil {
		return nil, err
	}
	body, err := send(httpClient, req, op, ErrMsgDeleteFavorite)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: decode response: invalid JSON", op)
	}
	return json.RawMessage(body), nil
}
