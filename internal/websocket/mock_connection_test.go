package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errMockClosed = errors.New("mock connection closed")

type mockMessage struct {
	Type int
	Data []byte
}

// mockConn is an in-memory Connection whose ReadMessage blocks like a socket
type mockConn struct {
	mu        sync.Mutex
	written   []mockMessage
	readLimit int64
	pong      func(string) error

	inbound   chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	writeErr  error
}

func newMockConn() *mockConn {
	return &mockConn{
		inbound: make(chan []byte, 8),
		closed:  make(chan struct{}),
	}
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.closed:
		return errMockClosed
	default:
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, mockMessage{Type: messageType, Data: append([]byte(nil), data...)})
	return nil
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-m.inbound:
		return websocket.TextMessage, data, nil
	case <-m.closed:
		return 0, nil, errMockClosed
	}
}

func (m *mockConn) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}

func (m *mockConn) SetReadDeadline(time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(time.Time) error { return nil }

func (m *mockConn) SetReadLimit(limit int64) {
	m.mu.Lock()
	m.readLimit = limit
	m.mu.Unlock()
}

func (m *mockConn) SetPongHandler(h func(string) error) {
	m.mu.Lock()
	m.pong = h
	m.mu.Unlock()
}

func (m *mockConn) RemoteAddr() string { return "127.0.0.1:50000" }

func (m *mockConn) isClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

// textMessages returns the payloads of text frames written so far
func (m *mockConn) textMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.written {
		if msg.Type == websocket.TextMessage {
			out = append(out, string(msg.Data))
		}
	}
	return out
}

func (m *mockConn) wrote(messageType int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.written {
		if msg.Type == messageType {
			return true
		}
	}
	return false
}
