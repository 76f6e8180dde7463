package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
)

// Watch subscribes to the server's change event feed. The returned channel is
// closed when ctx is done or the connection drops.
func (c *Client) Watch(ctx context.Context) (<-chan models.ChangeEvent, error) {
	if c.baseURL == "" {
		return nil, constants.ErrNoBaseURL
	}
	u, err := url.Parse(c.baseURL + constants.EventsPath)
	if err != nil {
		return nil, fmt.Errorf("invalid events url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}

	header := http.Header{}
	if c.authToken != "" {
		header.Set("Authorization", "Bearer "+c.authToken)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", u, err)
	}

	events := make(chan models.ChangeEvent, 16)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()
	go func() {
		defer close(events)
		defer close(done)
		for {
			var ev models.ChangeEvent
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

var errFeedClosed = errors.New("event feed closed")

// WatchReconnecting is Watch that redials whenever the connection fails or
// drops, waiting as r directs between attempts. Events published while the
// feed was down are not replayed: after each reconnect one OpResync event per
// kind is emitted instead, so receivers re-fetch. The channel is closed when
// ctx is done or r gives up.
func (c *Client) WatchReconnecting(ctx context.Context, r Retryer) <-chan models.ChangeEvent {
	out := make(chan models.ChangeEvent, 16)
	go func() {
		defer close(out)
		attempt := 0
		dialed := false
		for {
			events, err := c.Watch(ctx)
			if err == nil {
				r.Reset()
				attempt = 0
				if dialed && !resync(ctx, out) {
					return
				}
				for ev := range events {
					select {
					case out <- ev:
					case <-ctx.Done():
						return
					}
				}
				err = errFeedClosed
			}
			dialed = true
			if ctx.Err() != nil {
				return
			}
			delay, ok := r.NextDelay(attempt, err)
			if !ok {
				return
			}
			attempt++
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}
	}()
	return out
}

func resync(ctx context.Context, out chan<- models.ChangeEvent) bool {
	now := time.Now().UTC()
	for _, kind := range []models.Kind{models.KindProduct, models.KindProject, models.KindBlog} {
		select {
		case out <- models.ChangeEvent{Kind: kind, Op: models.OpResync, At: now}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
