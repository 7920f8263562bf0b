package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/metrics"
	"github.com/yourusername/sportcast/internal/models"
)

// StreamUpdate is one pushed odds revision for an event.
type StreamUpdate struct {
	EventID  string             `json:"event_id"`
	SportKey string             `json:"sport_key"`
	HomeTeam string             `json:"home_team"`
	AwayTeam string             `json:"away_team"`
	Quotes   []models.OddsQuote `json:"quotes"`
	Ts       time.Time          `json:"ts"`
}

// UpdateHandler is called for each odds update received from the stream.
type UpdateHandler func(update StreamUpdate) error

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// StreamClient maintains a WebSocket subscription to the odds feed's push
// channel, forwarding quote revisions to registered handlers.
type StreamClient struct {
	streamURL string
	apiKey    string

	mu              sync.RWMutex
	conn            *websocket.Conn
	isConnected     bool
	handlers        []UpdateHandler
	lastMessageTime time.Time

	reconnectConfig ReconnectConfig
	logger          *logrus.Logger
}

// NewStreamClient creates a stream client. Connect must be called before
// updates flow.
func NewStreamClient(streamURL, apiKey string, logger *logrus.Logger) *StreamClient {
	return &StreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		handlers:        make([]UpdateHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the WebSocket connection and starts the read loop.
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.streamURL).Info("Connecting to odds stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()
	metrics.UpdateStreamConnected(true)

	go s.readMessages()

	return nil
}

// ConnectWithRetry connects with exponential backoff until the retry budget
// is exhausted or the context is cancelled.
func (s *StreamClient) ConnectWithRetry(ctx context.Context) error {
	backoff := s.reconnectConfig.InitialBackoff

	var lastErr error
	for attempt := 0; attempt <= s.reconnectConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordStreamReconnect()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
			if backoff > s.reconnectConfig.MaxBackoff {
				backoff = s.reconnectConfig.MaxBackoff
			}
		}

		lastErr = s.Connect(ctx)
		if lastErr == nil {
			return nil
		}
		s.logger.WithError(lastErr).Warnf("Stream connection attempt %d failed", attempt+1)
	}

	return fmt.Errorf("stream connection failed after %d attempts: %w", s.reconnectConfig.MaxRetries+1, lastErr)
}

// Subscribe sends a subscription message for the given sports.
func (s *StreamClient) Subscribe(sports []string) error {
	subMsg := map[string]interface{}{
		"op":        "subscribe",
		"apiKey":    s.apiKey,
		"sports":    sports,
		"markets":   []string{models.MarketH2H},
		"heartbeat": true,
	}

	s.logger.WithField("sports", sports).Info("Subscribing to odds stream")
	return s.sendMessage(subMsg)
}

// AddHandler registers an update handler.
func (s *StreamClient) AddHandler(handler UpdateHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// IsConnected returns whether the stream is connected.
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message.
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Ping sends a keepalive message.
func (s *StreamClient) Ping() error {
	return s.sendMessage(map[string]interface{}{"op": "ping"})
}

// Close closes the stream connection.
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	metrics.UpdateStreamConnected(false)
	return s.conn.Close()
}

func (s *StreamClient) readMessages() {
	defer s.Close()

	for {
		var raw json.RawMessage
		err := s.conn.ReadJSON(&raw)
		if err != nil {
			s.logger.WithError(err).Warn("Stream read error")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			metrics.UpdateStreamConnected(false)
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		update, ok := parseUpdate(raw)
		if !ok {
			continue
		}

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(update); err != nil {
				s.logger.WithError(err).Warn("Stream handler error")
			}
		}
	}
}

func (s *StreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// parseUpdate decodes a raw stream message, skipping heartbeats and
// control frames.
func parseUpdate(raw json.RawMessage) (StreamUpdate, bool) {
	var envelope struct {
		Op     string       `json:"op"`
		Update StreamUpdate `json:"update"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return StreamUpdate{}, false
	}
	if envelope.Op != "odds_update" || len(envelope.Update.Quotes) == 0 {
		return StreamUpdate{}, false
	}
	return envelope.Update, true
}
