package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/townpass/roadwatch/client/internal/api"
	"github.com/townpass/roadwatch/client/internal/job"
	"github.com/townpass/roadwatch/client/internal/shardqueue"
	"github.com/townpass/roadwatch/client/internal/types"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to the roadwatch backend. Synchronous methods issue exactly one
// request each; EnqueueFavorite hands work to a per-user FIFO executor.
// A Client is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	dialer    *websocket.Dialer
	exec      executor
	userAgent string
	heartbeat time.Duration

	execCfg      *shardqueue.Config
	onAsyncError func(externalID string, err error)

	closedOnce uint32 // ensures Close is idempotent
}

const (
	defaultUserAgent = "roadwatch-go"
	defaultHeartbeat = 30 * time.Second
)

// New constructs a Client for the backend at baseURL, e.g. "http://localhost:8000".
// A trailing slash is ignored. Go has no same-origin requests, so an empty
// baseURL is rejected with ErrMissingBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	dialer := *websocket.DefaultDialer
	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		dialer:    &dialer,
		userAgent: defaultUserAgent,
		heartbeat: defaultHeartbeat,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.exec == nil {
		exec, err := c.newDefaultExecutor()
		if err != nil {
			return nil, err
		}
		c.exec = exec
	}

	c.wrapTransport()
	return c, nil
}

// BaseURL reports the normalized backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// wrapTransport installs headerTransport on top of whatever transport the
// options configured.
func (c *Client) wrapTransport() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &headerTransport{base: base, userAgent: c.userAgent}
}

// headerTransport stamps every request with a User-Agent and a request ID and
// counts outcomes.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	if cloned.Header.Get("User-Agent") == "" {
		cloned.Header.Set("User-Agent", t.userAgent)
	}
	if cloned.Header.Get("X-Request-ID") == "" {
		cloned.Header.Set("X-Request-ID", uuid.NewString())
	}
	resp, err := t.base.RoundTrip(cloned)
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, err
	}
	requestsTotal.WithLabelValues(req.Method, statusClass(resp.StatusCode)).Inc()
	return resp, nil
}

// Close drains the async executor. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// newDefaultExecutor builds the shard executor from SQ_* environment
// variables unless WithExecutorConfig supplied a config.
func (c *Client) newDefaultExecutor() (*shardqueue.ShardExecutor, error) {
	var cfg shardqueue.Config
	if c.execCfg != nil {
		cfg = *c.execCfg
	} else {
		loaded, err := shardqueue.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load executor config: %w", err)
		}
		cfg = loaded
	}
	cfg.ErrorHandler = c.handleAsyncError
	return shardqueue.NewShardExecutor(cfg), nil
}

func (c *Client) handleAsyncError(externalID string, err error) {
	favoritesFailedTotal.WithLabelValues(job.Label(externalID)).Inc()
	log.Error().Err(err).Str("external_id", externalID).Msg("async favorite job failed")
	if c.onAsyncError != nil {
		c.onAsyncError(externalID, err)
	}
}

// --------------------------------------------------------------------
// Service operations
// --------------------------------------------------------------------

// Hello calls GET /api/hello.
func (c *Client) Hello(ctx context.Context) (*HelloResponse, error) {
	return api.Hello(ctx, c.http, c.baseURL)
}

// Echo posts message to /api/echo and returns what the backend received.
func (c *Client) Echo(ctx context.Context, message string) (*EchoResponse, error) {
	return api.Echo(ctx, c.http, c.baseURL, message)
}

// --------------------------------------------------------------------
// Users and test records
// --------------------------------------------------------------------

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return api.ListUsers(ctx, c.http, c.baseURL)
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	return api.CreateUser(ctx, c.http, c.baseURL, req)
}

// ListTestRecords returns all test records.
func (c *Client) ListTestRecords(ctx context.Context) ([]TestRecord, error) {
	return api.ListTestRecords(ctx, c.http, c.baseURL)
}

// CreateTestRecord creates a test record.
func (c *Client) CreateTestRecord(ctx context.Context, req CreateTestRecordRequest) (*TestRecord, error) {
	return api.CreateTestRecord(ctx, c.http, c.baseURL, req)
}

// --------------------------------------------------------------------
// Construction data
// --------------------------------------------------------------------

// GetConstructionData returns current construction sites as GeoJSON.
func (c *Client) GetConstructionData(ctx context.Context) (*FeatureCollection, error) {
	return api.GetConstructionData(ctx, c.http, c.baseURL)
}

// UpdateConstructionData triggers a backend refresh of construction data.
func (c *Client) UpdateConstructionData(ctx context.Context) (*ConstructionUpdateResult, error) {
	return api.UpdateConstructionData(ctx, c.http, c.baseURL)
}

// GetConstructionNotices pages through construction notices. limit <= 0
// selects the default page size of 100.
func (c *Client) GetConstructionNotices(ctx context.Context, skip, limit int) ([]ConstructionNotice, error) {
	return api.GetConstructionNotices(ctx, c.http, c.baseURL, skip, limit)
}

// --------------------------------------------------------------------
// Road segments
// --------------------------------------------------------------------

// SuggestRoadSegments returns up to limit (default 10) autocomplete items for
// keyword. An empty keyword returns an empty slice without a request.
func (c *Client) SuggestRoadSegments(ctx context.Context, keyword string, limit int) ([]json.RawMessage, error) {
	return api.SuggestRoadSegments(ctx, c.http, c.baseURL, keyword, limit)
}

// FetchRoadSegmentsByName returns the segments named name. An empty name
// returns (nil, nil) without a request.
func (c *Client) FetchRoadSegmentsByName(ctx context.Context, name string) ([]RoadSegment, error) {
	return api.FetchRoadSegmentsByName(ctx, c.http, c.baseURL, name)
}

// --------------------------------------------------------------------
// Favorites
// --------------------------------------------------------------------

// GetFavorites lists the favorites of externalID.
func (c *Client) GetFavorites(ctx context.Context, externalID string) ([]Favorite, error) {
	return api.GetFavorites(ctx, c.http, c.baseURL, externalID)
}

// CreateFavorite saves data for externalID. Any user_id key in data is not sent.
func (c *Client) CreateFavorite(ctx context.Context, data FavoriteData, externalID string) (*Favorite, error) {
	return api.CreateFavorite(ctx, c.http, c.baseURL, data, externalID)
}

// UpdateFavorite applies data to favoriteID.
func (c *Client) UpdateFavorite(ctx context.Context, favoriteID int, externalID string, data FavoriteData) (*Favorite, error) {
	return api.UpdateFavorite(ctx, c.http, c.baseURL, favoriteID, externalID, data)
}

// DeleteFavorite deletes favoriteID and returns the backend's raw response.
func (c *Client) DeleteFavorite(ctx context.Context, favoriteID int, externalID string) (json.RawMessage, error) {
	return api.DeleteFavorite(ctx, c.http, c.baseURL, favoriteID, externalID)
}

// EnqueueFavorite queues creation of a favorite for externalID and returns
// once the job is accepted. Jobs for the same externalID run in submission
// order; recoverable failures are retried with backoff and final failures go
// to the handler set by WithAsyncErrorHandler. data is copied before
// returning, so the caller may reuse it. ctx also bounds the job itself:
// cancelling it drops the job if it has not finished.
func (c *Client) EnqueueFavorite(ctx context.Context, data FavoriteData, externalID string) (*EnqueueAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateExternalID(externalID); err != nil {
		return nil, err
	}
	payload := data.Without("user_id")
	jobID := uuid.NewString()

	create := job.New(func(jobCtx context.Context) error {
		fav, err := api.CreateFavorite(jobCtx, c.http, c.baseURL, payload, externalID)
		if err != nil {
			return err
		}
		log.Debug().Str("job_id", jobID).Str("external_id", externalID).Int("favorite_id", fav.ID).Msg("async favorite created")
		return nil
	})
	if err := c.exec.Submit(ctx, externalID, create); err != nil {
		if errors.Is(err, shardqueue.ErrQueueFull) {
			return nil, fmt.Errorf("%w: %v", ErrBackPressure, err)
		}
		return nil, err
	}
	favoritesEnqueuedTotal.WithLabelValues(job.Label(externalID)).Inc()
	return &EnqueueAck{JobID: jobID, ExternalID: externalID, Status: "enqueued"}, nil
}

// AwaitConsistency blocks until all jobs previously enqueued for externalID
// have been executed.
func (c *Client) AwaitConsistency(ctx context.Context, externalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateExternalID(externalID); err != nil {
		return err
	}
	return c.exec.Barrier(ctx, externalID)
}

// --------------------------------------------------------------------
// Notifications
// --------------------------------------------------------------------

// SubscribeNotifications streams construction alerts for externalID to handle
// until ctx is cancelled (returns nil) or the socket fails (returns the error).
// handle runs on a single goroutine, in arrival order.
func (c *Client) SubscribeNotifications(ctx context.Context, externalID string, handle func(Notification)) error {
	return api.SubscribeNotifications(ctx, c.dialer, c.baseURL, externalID, c.heartbeat, handle)
}
