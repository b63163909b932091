package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	clienterrors "github.com/townpass/roadwatch/client/internal/errors"
	"github.com/townpass/roadwatch/client/internal/types"
)

// ErrMsgSubscribe is the fallback message for a rejected notifications handshake.
const ErrMsgSubscribe = "failed to subscribe to notifications"

var pingFrame = map[string]string{"type": "ping"}

// notificationsURL maps an http(s) base URL to the ws(s) notifications endpoint.
func notificationsURL(baseURL, externalID string) (string, error) {
	u, err := url.Parse(endpoint(baseURL, "/api/ws/notifications", url.Values{"external_id": {externalID}}))
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("subscribe notifications: unsupported base URL scheme %q", u.Scheme)
	}
	return u.String(), nil
}

// SubscribeNotifications holds a notifications socket open for externalID and
// passes every server frame to handle, in arrival order, on a single goroutine.
// A ping frame is sent every heartbeat (disabled when heartbeat <= 0).
//
// It returns nil once ctx is cancelled, or the error that ended the
// connection (including *websocket.CloseError when the server closes it).
func SubscribeNotifications(ctx context.Context, dialer *websocket.Dialer, baseURL, externalID string, heartbeat time.Duration, handle func(types.Notification)) error {
	if err := types.ValidateExternalID(externalID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	const op = "subscribe notifications"
	wsURL, err := notificationsURL(baseURL, externalID)
	if err != nil {
		return err
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			defer func() { _ = resp.Body.Close() }()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return clienterrors.NewHTTPError(resp.StatusCode, body, op, ErrMsgSubscribe)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return clienterrors.NewNetworkError(op, err)
	}
	defer func() { _ = conn.Close() }()
	log.Debug().Str("external_id", externalID).Msg("notifications socket connected")

	g, gctx := errgroup.WithContext(ctx)

	// Closing the socket is the only way to unblock ReadMessage.
	g.Go(func() error {
		<-gctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return nil
	})

	if heartbeat > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(heartbeat)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if err := conn.WriteJSON(pingFrame); err != nil {
						if gctx.Err() != nil {
							return nil
						}
						return fmt.Errorf("%s: heartbeat: %w", op, err)
					}
				}
			}
		})
	}

	g.Go(func() error {
		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return err
			}
			var n types.Notification
			if err := json.Unmarshal(frame, &n); err != nil {
				log.Warn().Err(err).Str("external_id", externalID).Msg("dropping undecodable notification frame")
				continue
			}
			n.Raw = json.RawMessage(frame)
			handle(n)
		}
	})

	return g.Wait()
}
