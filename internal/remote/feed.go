package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nbtree/nbtree/internal/logging"
)

// Event is a change notification from the server's event feed.
type Event struct {
	Type    string `json:"type"` // created, deleted, renamed
	Path    string `json:"path"`
	NewPath string `json:"new_path,omitempty"`
}

// EventHandler receives feed events. It runs on the feed goroutine, so
// implementations should hand off to their own loop quickly.
type EventHandler func(Event)

// wsURL converts the client's HTTP base URL to the websocket endpoint.
func wsURL(baseURL string) (string, error) {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/api/events/subscribe", nil
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/api/events/subscribe", nil
	default:
		return "", fmt.Errorf("unsupported server URL scheme: %s", baseURL)
	}
}

// Subscribe connects to the server's event feed and calls handler for each
// change until ctx is cancelled or the connection drops. A cancelled context
// closes the feed gracefully and returns nil.
func (c *Client) Subscribe(ctx context.Context, handler EventHandler) error {
	logger := logging.GetLogger("remote")

	endpoint, err := wsURL(c.baseURL)
	if err != nil {
		return err
	}

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 45 * time.Second,
	}

	headers := http.Header{}
	if c.token != "" {
		headers.Set("Authorization", "token "+c.token)
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, headers)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("event feed connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("event feed connection failed: %w", err)
	}
	defer conn.Close()

	logger.Debug().Str("endpoint", endpoint).Msg("subscribed to event feed")

	eventChan := make(chan Event, 100)
	errChan := make(chan error, 1)

	go func() {
		errChan <- receiveEvents(conn, eventChan)
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil

		case ev := <-eventChan:
			handler(ev)

		case err := <-errChan:
			// Deliver anything still buffered before reporting the close.
			for {
				select {
				case ev := <-eventChan:
					handler(ev)
				default:
					if err != nil {
						return fmt.Errorf("event feed receive error: %w", err)
					}
					logger.Debug().Msg("event feed closed by server")
					return nil
				}
			}
		}
	}
}

// receiveEvents reads and decodes feed messages until the connection closes.
// A normal or going-away close returns nil; messages that fail to decode are
// skipped.
func receiveEvents(conn *websocket.Conn, eventChan chan<- Event) error {
	logger := logging.GetLogger("remote")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		}

		var ev Event
		if err := json.Unmarshal(message, &ev); err != nil {
			logger.Warn().Err(err).Msg("skipping malformed feed event")
			continue
		}
		eventChan <- ev
	}
}
