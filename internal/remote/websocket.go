package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Lorandel/Warehouse-Ramps/internal/events"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// wsSubscription is the single live change subscription against the remote
// store. It delivers change markers only; the consumer re-pulls for data.
type wsSubscription struct {
	url    string
	apiKey string
	logger *events.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	changes chan models.ChangeEvent
	done    chan struct{}

	pingInterval time.Duration
	pongTimeout  time.Duration
}

// subscribeMessage is the init frame registering for lookup_data changes.
type subscribeMessage struct {
	Event string `json:"event"`
	Table string `json:"table"`
}

// changeFrame is one inbound notification frame.
type changeFrame struct {
	Event     string    `json:"event"`
	Table     string    `json:"table"`
	Timestamp time.Time `json:"timestamp"`
}

func newWSSubscription(baseURL, apiKey string, logger *events.Logger) (*wsSubscription, error) {
	wsURL := baseURL
	if strings.HasPrefix(wsURL, "http") {
		wsURL = "ws" + wsURL[len("http"):]
	}
	if !strings.HasPrefix(wsURL, "ws") {
		return nil, fmt.Errorf("cannot derive websocket URL from %q", baseURL)
	}
	wsURL += "/realtime/v1/websocket"

	return &wsSubscription{
		url:          wsURL,
		apiKey:       apiKey,
		logger:       logger.WithField("component", "ws_subscription"),
		changes:      make(chan models.ChangeEvent, 16),
		done:         make(chan struct{}),
		pingInterval: 30 * time.Second,
		pongTimeout:  10 * time.Second,
	}, nil
}

// connect dials the websocket and sends the subscribe frame.
func (s *wsSubscription) connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.url).Debug("Connecting change subscription")

	headers := http.Header{}
	if s.apiKey != "" {
		headers.Set("apikey", s.apiKey)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, s.url, headers)
	if err != nil {
		if resp != nil {
			return &models.RemoteError{Op: "subscribe", StatusCode: resp.StatusCode, Err: err}
		}
		return &models.RemoteError{Op: "subscribe", Err: err}
	}

	if err := conn.WriteJSON(subscribeMessage{Event: "subscribe", Table: "lookup_data"}); err != nil {
		conn.Close()
		return &models.RemoteError{Op: "subscribe", Err: fmt.Errorf("send subscribe: %w", err)}
	}

	s.conn = conn

	go s.readLoop()
	go s.pingLoop()

	s.logger.Info("Change subscription established")
	return nil
}

// events returns the change channel. It is closed when the subscription
// drops for any reason.
func (s *wsSubscription) events() <-chan models.ChangeEvent {
	return s.changes
}

// close tears down the subscription.
func (s *wsSubscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.done)

	if s.conn != nil {
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = s.conn.Close()
		s.conn = nil
	}
}

// readLoop reads notification frames until the connection drops.
func (s *wsSubscription) readLoop() {
	defer func() {
		s.close()
		close(s.changes)
	}()

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(s.pongTimeout + s.pingInterval))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(s.pongTimeout + s.pingInterval))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.WithError(err).Warn("Change subscription read error")
			}
			return
		}

		var frame changeFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.logger.WithError(err).Debug("Ignoring unparsable notification frame")
			continue
		}

		if frame.Table != "" && frame.Table != "lookup_data" {
			continue
		}

		ts := frame.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}

		event := models.ChangeEvent{Table: "lookup_data", Timestamp: ts}

		select {
		case s.changes <- event:
		case <-s.done:
			return
		}
	}
}

// pingLoop keeps the connection alive.
func (s *wsSubscription) pingLoop() {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			conn := s.conn
			s.mu.Unlock()

			if conn == nil {
				return
			}

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.WithError(err).Debug("Ping failed")
				return
			}

		case <-s.done:
			return
		}
	}
}
