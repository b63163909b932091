package client

import (
	"errors"

	clienterrors "github.com/townpass/roadwatch/client/internal/errors"
	"github.com/townpass/roadwatch/client/internal/shardqueue"
	"github.com/townpass/roadwatch/client/internal/types"
)

// ErrBackPressure is returned when the client's internal shard queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// ErrClosed is returned by EnqueueFavorite and AwaitConsistency after Close.
var ErrClosed = shardqueue.ErrExecutorClosed

// ErrMissingBaseURL is returned by New for an empty base URL.
var ErrMissingBaseURL = errors.New("base URL is required")

// Argument errors returned before any request is made.
var (
	ErrMissingExternalID = types.ErrMissingExternalID
	ErrMissingFavoriteID = types.ErrMissingFavoriteID
)

// APIError is returned for every non-2xx response. Its Error() text is the
// server's detail message when the body carried one, otherwise a fixed
// per-operation fallback such as "failed to create favorite".
type APIError = clienterrors.ClassifiedError

// IsRetryable reports whether err is worth retrying: network failures,
// 408, 429 and 5xx responses.
func IsRetryable(err error) bool {
	var ce *APIError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Category == clienterrors.Recoverable
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an APIError.
func StatusCode(err error) int {
	var ce *APIError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
