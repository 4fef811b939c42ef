package backend

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/logger"
)

// Subscription is a live change feed for one table.
type Subscription struct {
	conn   *websocket.Conn
	events chan domain.ChangeEvent
	done   chan struct{}
	stop   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	closed bool
	err    error
}

// Subscribe opens the change feed for table. The subscription ends when ctx
// is cancelled, Close is called, or the connection drops.
func (c *Client) Subscribe(ctx context.Context, table string) (*Subscription, error) {
	endpoint := c.realtimeURL(table)

	conn, resp, err := c.dialer.DialContext(ctx, endpoint, http.Header{"apikey": []string{c.projectKey}})
	if err != nil {
		if resp != nil {
			return nil, goerr.Wrap(err, "failed to open change feed",
				goerr.V("table", table), goerr.V("status", resp.StatusCode))
		}
		return nil, goerr.Wrap(err, "failed to open change feed", goerr.V("table", table))
	}

	sub := &Subscription{
		conn:   conn,
		events: make(chan domain.ChangeEvent, 16),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
	go sub.readLoop(ctx)
	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()
	return sub, nil
}

// Events delivers change events; it is closed when the subscription ends.
func (s *Subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

// Err returns the error that ended the subscription, if any.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the subscription.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.stop)
		_ = s.conn.Close()
	})
}

func (s *Subscription) readLoop(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)
	defer s.Close()

	for {
		var evt domain.ChangeEvent
		if err := s.conn.ReadJSON(&evt); err != nil {
			s.mu.Lock()
			if !s.closed && ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.err = goerr.Wrap(err, "change feed closed")
				logger.CtxDebug(ctx, "Change feed ended: %v", err)
			}
			s.mu.Unlock()
			return
		}
		select {
		case s.events <- evt:
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) realtimeURL(table string) string {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = u.Path + "/realtime/v1/" + url.PathEscape(table)
	q := url.Values{}
	q.Set("apikey", c.projectKey)
	u.RawQuery = q.Encode()
	return u.String()
}
