package types

// ------------------------------
// Request Types
// ------------------------------

// EchoRequest is the body of POST /api/echo.
type EchoRequest struct {
	Message string `json:"message"`
}

// CreateUserRequest holds parameters for a new user.
type CreateUserRequest struct {
	Name string `json:"name"`
}

// CreateTestRecordRequest holds parameters for a new test record.
type CreateTestRecordRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// FavoriteData is a caller-supplied favorite payload. It is forwarded to the
// backend as-is, apart from the fields a given operation strips.
type FavoriteData map[string]any

// Without returns a shallow copy of d lacking the given keys. d is not modified.
func (d FavoriteData) Without(keys ...string) FavoriteData {
	out := make(FavoriteData, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
