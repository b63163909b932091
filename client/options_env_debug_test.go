package client

import (
	"net/http"
	"testing"
)

func innerTransport(t *testing.T, c *Client) http.RoundTripper {
	t.Helper()
	ht, ok := c.http.Transport.(*headerTransport)
	if !ok {
		t.Fatalf("expected headerTransport, got %T", c.http.Transport)
	}
	return ht.base
}

func TestDebugEnv_EnablesDebugTransport(t *testing.T) {
	t.Setenv("ROADWATCH_DEBUG", "true")
	t.Setenv("DEBUG", "")
	c := newTestClient(t, "http://example.com")
	if _, ok := innerTransport(t, c).(*debugTransport); !ok {
		t.Fatal("expected debug transport when ROADWATCH_DEBUG=true")
	}
}

func TestDebugEnv_GenericDebugFlag(t *testing.T) {
	t.Setenv("ROADWATCH_DEBUG", "")
	t.Setenv("DEBUG", "true")
	c := newTestClient(t, "http://example.com")
	if _, ok := innerTransport(t, c).(*debugTransport); !ok {
		t.Fatal("expected debug transport when DEBUG=true")
	}
}

func TestDebugEnv_Unset(t *testing.T) {
	t.Setenv("ROADWATCH_DEBUG", "")
	t.Setenv("DEBUG", "")
	c := newTestClient(t, "http://example.com")
	if _, ok := innerTransport(t, c).(*debugTransport); ok {
		t.Fatal("debug transport must be off by default")
	}
}

func TestWithDebugLogging_NotDoubleWrapped(t *testing.T) {
	t.Setenv("ROADWATCH_DEBUG", "true")
	c := newTestClient(t, "http://example.com", WithDebugLogging(true))
	dt, ok := innerTransport(t, c).(*debugTransport)
	if !ok {
		t.Fatal("expected debug transport")
	}
	if _, nested := dt.base.(*debugTransport); nested {
		t.Fatal("debug transport wrapped twice")
	}
}
