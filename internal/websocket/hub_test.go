package websocket

import (
	"testing"
	"time"

	"reelchat-service/internal/models"

	"github.com/google/uuid"
)

func TestRegisterCachesProfileAndBroadcasts(t *testing.T) {
	hub := NewHub(&stubAccounts{profiles: map[string]models.ProfileFields{
		"alice": {ProfileImage: "https://cdn.example.com/alice.png", Bio: "hi"},
	}}, nil, nil)

	alice := connectClient(hub)
	bob := connectClient(hub)

	registerUser(t, hub, alice, "alice")
	// Discard the roster broadcast from alice's own registration so the
	// assertion below targets the broadcast triggered by bob's.
	drainSend(t, alice)
	registerUser(t, hub, bob, "bob")

	// Presence entry carries the cached profile fields
	entry, ok := hub.presence["alice"]
	if !ok {
		t.Fatal("alice should have a presence entry")
	}
	if entry.client != alice {
		t.Error("presence entry should point at alice's connection")
	}
	if entry.profileImage != "https://cdn.example.com/alice.png" {
		t.Errorf("unexpected cached profile image: %q", entry.profileImage)
	}

	// Every live connection received the roster after bob registered
	msgs := drainSend(t, alice)
	roster := findMessage(msgs, MessageTypeActiveUsers)
	if roster == nil {
		t.Fatal("alice should have received an active_users broadcast")
	}
	users := mustDecode[[]ActiveUser](t, roster)
	if len(users) != 2 {
		t.Fatalf("expected 2 active users, got %d", len(users))
	}
}

func TestRegisterDiscardedWhenConnectionClosesMidLookup(t *testing.T) {
	hub := newTestHub()
	c := connectClient(hub)

	hub.handleRegister(c, NewMessage(uuid.New().String(), MessageTypeRegister, RegisterData{Username: "ghost"}))

	// The connection drops while the profile lookup is still in flight
	hub.reapClient(c)

	select {
	case result := <-hub.profileDone:
		hub.completeRegister(result)
	case <-time.After(2 * time.Second):
		t.Fatal("profile lookup never completed")
	}

	if _, ok := hub.presence["ghost"]; ok {
		t.Error("presence must not contain an entry for a connection that closed during registration")
	}
}

func TestDuplicateRegistrationTakesOverSession(t *testing.T) {
	hub := newTestHub()
	first := connectClient(hub)
	second := connectClient(hub)

	registerUser(t, hub, first, "alice")
	registerUser(t, hub, second, "alice")

	entry, ok := hub.presence["alice"]
	if !ok {
		t.Fatal("alice should still be present")
	}
	if entry.client != second {
		t.Error("the newer connection should own the presence entry")
	}

	// The stale connection's disconnect must not evict the new owner
	hub.reapClient(first)

	entry, ok = hub.presence["alice"]
	if !ok {
		t.Fatal("alice's takeover session should survive the old connection's disconnect")
	}
	if entry.client != second {
		t.Error("presence entry should still point at the newer connection")
	}
}

func TestOnlineIndexLifecycle(t *testing.T) {
	hub := newTestHub()
	c := connectClient(hub)

	hub.handleUserConnected(c, NewMessage(uuid.New().String(), MessageTypeUserConnected, UserConnectedData{UserID: "42"}))

	if hub.online["42"] != c {
		t.Fatal("online index should map the user id to the connection")
	}

	// Disconnect sweeps every id the connection backed
	hub.reapClient(c)

	if _, ok := hub.online["42"]; ok {
		t.Error("online index entry should be removed on disconnect")
	}
}

func TestNotificationDeliveredToOnlineReceiver(t *testing.T) {
	sink := &stubSink{}
	hub := NewHub(&stubAccounts{}, nil, sink)

	sender := connectClient(hub)
	receiver := connectClient(hub)
	hub.handleUserConnected(sender, NewMessage(uuid.New().String(), MessageTypeUserConnected, UserConnectedData{UserID: "1"}))
	hub.handleUserConnected(receiver, NewMessage(uuid.New().String(), MessageTypeUserConnected, UserConnectedData{UserID: "2"}))

	hub.handleSendNotification(sender, NewMessage(uuid.New().String(), MessageTypeSendNotification, SendNotificationData{
		ReceiverID: "2",
		Type:       "follow",
	}))

	msgs := drainSend(t, receiver)
	notif := findMessage(msgs, MessageTypeNewNotification)
	if notif == nil {
		t.Fatal("receiver should get a new_notification message")
	}
	data := mustDecode[NewNotificationData](t, notif)
	if data.SenderID != "1" {
		t.Errorf("expected sender id 1, got %q", data.SenderID)
	}

	waitForRecords(t, sink, 1)
	if sink.results[0] != models.DeliveryDelivered {
		t.Errorf("expected delivered result, got %v", sink.results[0])
	}
}

func TestNotificationDroppedWhenReceiverOffline(t *testing.T) {
	sink := &stubSink{}
	hub := NewHub(&stubAccounts{}, nil, sink)

	sender := connectClient(hub)
	hub.handleUserConnected(sender, NewMessage(uuid.New().String(), MessageTypeUserConnected, UserConnectedData{UserID: "1"}))

	hub.handleSendNotification(sender, NewMessage(uuid.New().String(), MessageTypeSendNotification, SendNotificationData{
		ReceiverID: "99",
	}))

	waitForRecords(t, sink, 1)
	if sink.results[0] != models.DeliveryDropped {
		t.Errorf("expected dropped result, got %v", sink.results[0])
	}
}

func TestDispatchRejectsServerOnlyTypes(t *testing.T) {
	hub := newTestHub()
	c := connectClient(hub)

	hub.dispatch(c, NewMessage(uuid.New().String(), MessageTypeActiveUsers, nil))

	msgs := drainSend(t, c)
	errMsg := findMessage(msgs, MessageTypeError)
	if errMsg == nil {
		t.Fatal("client should receive an error for a server-to-client type")
	}
	data := mustDecode[ErrorData](t, errMsg)
	if data.Code != "UNEXPECTED_TYPE" {
		t.Errorf("expected UNEXPECTED_TYPE, got %q", data.Code)
	}
}

func TestDisconnectRemovesFromRoster(t *testing.T) {
	hub := newTestHub()
	alice := connectClient(hub)
	bob := connectClient(hub)

	registerUser(t, hub, alice, "alice")
	registerUser(t, hub, bob, "bob")
	drainSend(t, bob)

	hub.reapClient(alice)

	msgs := drainSend(t, bob)
	roster := findMessage(msgs, MessageTypeActiveUsers)
	if roster == nil {
		t.Fatal("bob should receive an updated roster after alice disconnects")
	}
	users := mustDecode[[]ActiveUser](t, roster)
	if len(users) != 1 || users[0].Username != "bob" {
		t.Errorf("expected roster [bob], got %v", users)
	}
}

// waitForRecords polls the sink until the asynchronous Record call lands.
func waitForRecords(t *testing.T, sink *stubSink, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sink.mu.Lock()
		count := len(sink.results)
		sink.mu.Unlock()
		if count >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d recorded notifications", n)
}
