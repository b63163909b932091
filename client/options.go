package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/townpass/roadwatch/client/internal/shardqueue"
)

// Option configures a Client during construction in New.
//
// Options are applied before the header transport wrapper is installed, so
// transport-related options (like debug logging) sit underneath it.
type Option func(*Client) error

// WithHTTPClient replaces the underlying http.Client. The client is copied, so
// the caller's value is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP request.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		c.dialer.HandshakeTimeout = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged at debug level when enabled is true. Dumps include bodies, so do not
// enable it where payloads are sensitive.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, already := c.http.Transport.(*debugTransport); !already {
				c.http.Transport = &debugTransport{base: c.http.Transport}
			}
		}
		return nil
	}
}

// WithUserAgent overrides the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		if ua == "" {
			return errors.New("user agent must not be empty")
		}
		c.userAgent = ua
		return nil
	}
}

// WithExecutorConfig sets the async executor configuration instead of reading
// SQ_* environment variables. cfg.ErrorHandler is ignored; use
// WithAsyncErrorHandler.
func WithExecutorConfig(cfg shardqueue.Config) Option {
	return func(c *Client) error {
		c.execCfg = &cfg
		return nil
	}
}

// WithAsyncErrorHandler registers fn to receive the final error of every
// EnqueueFavorite job that gave up. fn runs on an executor goroutine and
// must not block for long.
func WithAsyncErrorHandler(fn func(externalID string, err error)) Option {
	return func(c *Client) error {
		c.onAsyncError = fn
		return nil
	}
}

// WithHeartbeatInterval sets how often SubscribeNotifications pings the
// server. Zero disables the heartbeat.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("heartbeat interval must be >= 0")
		}
		c.heartbeat = d
		return nil
	}
}

// withExecutor injects a custom executor; used by tests.
func withExecutor(e executor) Option {
	return func(c *Client) error {
		c.exec = e
		return nil
	}
}
