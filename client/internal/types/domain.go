package types

import "encoding/json"

// ------------------------------
// Core Domain Entities
// ------------------------------

// User represents a backend user.
type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id,omitempty"`
}

// TestRecord represents a test record row.
type TestRecord struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// Geometry is a GeoJSON geometry object. Coordinates are kept raw because their
// nesting depends on Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties,omitempty"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ConstructionNotice is a published road works notice. Dates are ISO-8601
// calendar dates (YYYY-MM-DD) and empty when unknown.
type ConstructionNotice struct {
	ID        int       `json:"id"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	Unit      string    `json:"unit,omitempty"`
	Road      string    `json:"road,omitempty"`
	URL       string    `json:"url,omitempty"`
	Geometry  *Geometry `json:"geometry,omitempty"`
}

// RoadSegment is a single OSM way stored by the backend.
type RoadSegment struct {
	ID         int            `json:"id"`
	OSMID      string         `json:"osmid"`
	Name       string         `json:"name,omitempty"`
	Highway    string         `json:"highway,omitempty"`
	Lanes      string         `json:"lanes,omitempty"`
	Oneway     *bool          `json:"oneway,omitempty"`
	LengthM    *float64       `json:"length_m,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Geometry   *Geometry      `json:"geometry"`
}

// Coords is a lat/lon pair as stored on route favorites.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Favorite is a user-saved place, road or route. Type is one of "place",
// "road" or "route".
type Favorite struct {
	ID                     int             `json:"id"`
	UserID                 int             `json:"user_id,omitempty"`
	Name                   string          `json:"name"`
	Type                   string          `json:"type,omitempty"`
	Lat                    *float64        `json:"lat,omitempty"`
	Lon                    *float64        `json:"lon,omitempty"`
	RoadOSMIDs             []string        `json:"road_osmids,omitempty"`
	RouteStartCoords       *Coords         `json:"route_start_coords,omitempty"`
	RouteEndCoords         *Coords         `json:"route_end_coords,omitempty"`
	RouteFeatureCollection json.RawMessage `json:"route_feature_collection,omitempty"`
	NotificationEnabled    bool            `json:"notification_enabled"`
	DistanceThreshold      *float64        `json:"distance_threshold,omitempty"`
}

// ConstructionAlert reports a construction site within a favorite's distance
// threshold.
type ConstructionAlert struct {
	FavoriteID       int    `json:"favorite_id"`
	FavoriteName     string `json:"favorite_name"`
	FavoriteType     string `json:"favorite_type"`
	ConstructionID   int    `json:"construction_id"`
	ConstructionName string `json:"construction_name"`
	ConstructionRoad string `json:"construction_road,omitempty"`
	ConstructionType string `json:"construction_type,omitempty"`
	DistanceMeters   int    `json:"distance_meters"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
	URL              string `json:"url,omitempty"`
}
