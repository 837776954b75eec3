package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"reelchat-service/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// mockConn is an in-memory Conn for hub and client tests.
type mockConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  bool
	readCh  chan []byte
}

func newMockConn() *mockConn {
	return &mockConn{readCh: make(chan []byte, 16)}
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	data, ok := <-m.readCh
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return websocket.TextMessage, data, nil
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("connection closed")
	}
	m.written = append(m.written, data)
	return nil
}

func (m *mockConn) SetReadLimit(limit int64) {}

func (m *mockConn) SetReadDeadline(t time.Time) error { return nil }

func (m *mockConn) SetWriteDeadline(t time.Time) error { return nil }

func (m *mockConn) SetPongHandler(h func(string) error) {}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.readCh)
	}
	return nil
}

// stubAccounts serves canned profile fields for registration lookups.
type stubAccounts struct {
	profiles map[string]models.ProfileFields
	err      error
}

func (s *stubAccounts) FindByIdentity(username string) (*models.ProfileFields, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.profiles[username]; ok {
		return &p, nil
	}
	return &models.ProfileFields{}, nil
}

// stubSink captures recorded notifications.
type stubSink struct {
	mu      sync.Mutex
	results []models.DeliveryResult
}

func (s *stubSink) Record(ctx context.Context, n *models.Notification, result models.DeliveryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

func newTestHub() *Hub {
	return NewHub(&stubAccounts{profiles: map[string]models.ProfileFields{}}, nil, nil)
}

// connectClient creates a client backed by a mockConn and registers its
// connection with the hub, as the accept path would.
func connectClient(h *Hub) *Client {
	c := NewClient(h, newMockConn())
	h.registerClient(c)
	return c
}

// registerUser drives the two-phase registration to completion: the handler
// kicks off the profile lookup, and the test consumes the result the way the
// run loop would.
func registerUser(t *testing.T, h *Hub, c *Client, username string) {
	t.Helper()

	h.handleRegister(c, NewMessage(uuid.New().String(), MessageTypeRegister, RegisterData{Username: username}))

	select {
	case result := <-h.profileDone:
		h.completeRegister(result)
	case <-time.After(2 * time.Second):
		t.Fatalf("profile lookup for %q never completed", username)
	}
}

// drainSend empties a client's send buffer and decodes each queued envelope.
func drainSend(t *testing.T, c *Client) []*Message {
	t.Helper()

	var out []*Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var m Message
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatalf("queued message is not valid JSON: %v", err)
			}
			out = append(out, &m)
		default:
			return out
		}
	}
}

// findMessage returns the first queued message of the given type, or nil.
func findMessage(msgs []*Message, msgType MessageType) *Message {
	for _, m := range msgs {
		if m.Type == msgType {
			return m
		}
	}
	return nil
}

func mustDecode[T any](t *testing.T, m *Message) T {
	t.Helper()

	v, err := decode[T](m)
	if err != nil {
		t.Fatalf("failed to decode %s payload: %v", m.Type, err)
	}
	return v
}
