package client

import "github.com/townpass/roadwatch/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	CreateUserRequest       = types.CreateUserRequest
	CreateTestRecordRequest = types.CreateTestRecordRequest
	FavoriteData            = types.FavoriteData

	// Domain entities
	User               = types.User
	TestRecord         = types.TestRecord
	Geometry           = types.Geometry
	Feature            = types.Feature
	FeatureCollection  = types.FeatureCollection
	ConstructionNotice = types.ConstructionNotice
	RoadSegment        = types.RoadSegment
	Coords             = types.Coords
	Favorite           = types.Favorite
	ConstructionAlert  = types.ConstructionAlert

	// Responses
	HelloResponse            = types.HelloResponse
	EchoResponse             = types.EchoResponse
	ConstructionUpdateResult = types.ConstructionUpdateResult
	EnqueueAck               = types.EnqueueAck
	Notification             = types.Notification
)
