package remote

import (
	"context"
	"fmt"
	"time"

	"ordering/internal/pkg/wire"

	"github.com/gorilla/websocket"
)

// Subscribe reads the event channel until ctx ends or the connection drops,
// calling handle for every well formed event. Malformed messages are passed
// to bad when it is not nil and otherwise skipped. It returns nil only when
// ctx was cancelled.
func (c *Client) Subscribe(ctx context.Context, handle func(wire.Event), bad func(error)) error {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.eventsURL(), nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial event channel: %s: %w", resp.Status, err)
		}
		return fmt.Errorf("dial event channel: %w", err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read event channel: %w", err)
		}

		ev, err := wire.ParseEvent(data)
		if err != nil {
			if bad != nil {
				bad(err)
			}
			continue
		}
		handle(ev)
	}
}

func (c *Client) eventsURL() string {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = u.Path + "/api/v1/events"
	return u.String()
}
