package websocket

import (
	"testing"
)

func TestSendMessageToClosedClientFails(t *testing.T) {
	hub := newTestHub()
	c := NewClient(hub, newMockConn())

	c.close()

	err := c.SendMessage(NewMessage("m1", MessageTypeActiveUsers, []ActiveUser{}))
	if err != ErrClientDisconnected {
		t.Errorf("expected ErrClientDisconnected, got %v", err)
	}
}

func TestSendMessageDropsOnFullBuffer(t *testing.T) {
	hub := newTestHub()
	c := NewClient(hub, newMockConn())

	// Fill the send buffer without a writePump draining it
	msg := NewMessage("m1", MessageTypeActiveUsers, []ActiveUser{})
	for i := 0; i < cap(c.send); i++ {
		if err := c.SendMessage(msg); err != nil {
			t.Fatalf("send %d failed before the buffer was full: %v", i, err)
		}
	}

	if err := c.SendMessage(msg); err != ErrClientDisconnected {
		t.Errorf("expected ErrClientDisconnected on full buffer, got %v", err)
	}

	// The overflow closes the client, so later sends (a broadcast fanning out
	// from the hub loop) must fail cleanly instead of hitting the closed channel.
	if !c.isClosed() {
		t.Error("expected client to be marked closed after buffer overflow")
	}
	if err := c.SendMessage(msg); err != ErrClientDisconnected {
		t.Errorf("expected ErrClientDisconnected on send after overflow, got %v", err)
	}
}

func TestSendErrorQueuesErrorMessage(t *testing.T) {
	hub := newTestHub()
	c := NewClient(hub, newMockConn())

	c.sendError("BAD_REQUEST", "malformed payload")

	msgs := drainSend(t, c)
	errMsg := findMessage(msgs, MessageTypeError)
	if errMsg == nil {
		t.Fatal("expected a queued error message")
	}
	data := mustDecode[ErrorData](t, errMsg)
	if data.Code != "BAD_REQUEST" || data.Message != "malformed payload" {
		t.Errorf("unexpected error payload: %+v", data)
	}
}
