package websocket

import (
	"testing"

	"github.com/google/uuid"
)

// setupRoom registers an inviter and an accepter and walks them through the
// full handshake, returning the created room.
func setupRoom(t *testing.T, hub *Hub) (inviter, accepter *Client, room *Room) {
	t.Helper()

	inviter = connectClient(hub)
	accepter = connectClient(hub)
	registerUser(t, hub, inviter, "alice")
	registerUser(t, hub, accepter, "bob")

	hub.handleSendInvite(inviter, NewMessage(uuid.New().String(), MessageTypeSendInvite, SendInviteData{To: "bob"}))
	hub.handleAcceptInvite(accepter, NewMessage(uuid.New().String(), MessageTypeAcceptInvite, AcceptInviteData{From: "alice"}))

	room, ok := hub.rooms["alice-bob"]
	if !ok {
		t.Fatal("room alice-bob should exist after the handshake")
	}
	drainSend(t, inviter)
	drainSend(t, accepter)
	return inviter, accepter, room
}

func TestInviteForwardedToTarget(t *testing.T) {
	hub := newTestHub()
	alice := connectClient(hub)
	bob := connectClient(hub)
	registerUser(t, hub, alice, "alice")
	registerUser(t, hub, bob, "bob")
	drainSend(t, bob)

	hub.handleSendInvite(alice, NewMessage(uuid.New().String(), MessageTypeSendInvite, SendInviteData{To: "bob"}))

	msgs := drainSend(t, bob)
	invite := findMessage(msgs, MessageTypeReceiveInvite)
	if invite == nil {
		t.Fatal("bob should receive the invite")
	}
	data := mustDecode[ReceiveInviteData](t, invite)
	if data.From != "alice" {
		t.Errorf("expected invite from alice, got %q", data.From)
	}
}

func TestInviteToUnknownTargetIsNoOp(t *testing.T) {
	hub := newTestHub()
	alice := connectClient(hub)
	registerUser(t, hub, alice, "alice")
	drainSend(t, alice)

	hub.handleSendInvite(alice, NewMessage(uuid.New().String(), MessageTypeSendInvite, SendInviteData{To: "nobody"}))

	// No error, no room, nothing sent back to the inviter
	if msgs := drainSend(t, alice); len(msgs) != 0 {
		t.Errorf("inviter should receive nothing, got %d messages", len(msgs))
	}
	if len(hub.rooms) != 0 {
		t.Error("no room should be created")
	}
}

func TestAcceptInviteCreatesRoom(t *testing.T) {
	hub := newTestHub()
	alice := connectClient(hub)
	bob := connectClient(hub)
	registerUser(t, hub, alice, "alice")
	registerUser(t, hub, bob, "bob")
	drainSend(t, alice)
	drainSend(t, bob)

	hub.handleAcceptInvite(bob, NewMessage(uuid.New().String(), MessageTypeAcceptInvite, AcceptInviteData{From: "alice"}))

	room, ok := hub.rooms["alice-bob"]
	if !ok {
		t.Fatal("room alice-bob should exist")
	}
	if room.Admin != "alice" {
		t.Errorf("inviter should be admin, got %q", room.Admin)
	}
	if room.CurrentIndex != 0 || !room.IsPlaying {
		t.Errorf("initial playback state should be index 0 and playing, got index=%d playing=%v", room.CurrentIndex, room.IsPlaying)
	}
	if hub.memberRooms["alice"] != "alice-bob" || hub.memberRooms["bob"] != "alice-bob" {
		t.Error("both members should have room pointers")
	}

	// Inviter learns it is admin, accepter learns it is not
	accepted := findMessage(drainSend(t, alice), MessageTypeInviteAccepted)
	if accepted == nil {
		t.Fatal("alice should receive invite_accepted")
	}
	acceptedData := mustDecode[InviteAcceptedData](t, accepted)
	if !acceptedData.IsAdmin || acceptedData.By != "bob" || acceptedData.Room != "alice-bob" {
		t.Errorf("unexpected invite_accepted payload: %+v", acceptedData)
	}

	joined := findMessage(drainSend(t, bob), MessageTypeJoinedRoom)
	if joined == nil {
		t.Fatal("bob should receive joined_room")
	}
	joinedData := mustDecode[JoinedRoomData](t, joined)
	if joinedData.IsAdmin || joinedData.Room != "alice-bob" {
		t.Errorf("unexpected joined_room payload: %+v", joinedData)
	}
}

func TestAcceptInviteSkippedWhenInviterGone(t *testing.T) {
	hub := newTestHub()
	bob := connectClient(hub)
	registerUser(t, hub, bob, "bob")
	drainSend(t, bob)

	hub.handleAcceptInvite(bob, NewMessage(uuid.New().String(), MessageTypeAcceptInvite, AcceptInviteData{From: "alice"}))

	if len(hub.rooms) != 0 {
		t.Error("no room should be created when the inviter is gone")
	}
	if msgs := drainSend(t, bob); len(msgs) != 0 {
		t.Errorf("accepter should receive nothing, got %d messages", len(msgs))
	}
}

func TestDuplicateAcceptKeepsFirstRoom(t *testing.T) {
	hub := newTestHub()
	_, accepter, room := setupRoom(t, hub)

	room.CurrentIndex = 7

	hub.handleAcceptInvite(accepter, NewMessage(uuid.New().String(), MessageTypeAcceptInvite, AcceptInviteData{From: "alice"}))

	if hub.rooms["alice-bob"] != room {
		t.Error("the original room should survive a duplicate accept")
	}
	if hub.rooms["alice-bob"].CurrentIndex != 7 {
		t.Error("duplicate accept must not reset the playback state")
	}
}

func TestAdminSyncsIndexToMembers(t *testing.T) {
	hub := newTestHub()
	inviter, accepter, room := setupRoom(t, hub)

	hub.handleSyncReelIndex(inviter, NewMessage(uuid.New().String(), MessageTypeSyncReelIndex, SyncReelIndexData{
		Room:  room.ID,
		Index: 3,
	}))

	if room.CurrentIndex != 3 {
		t.Errorf("room index should be 3, got %d", room.CurrentIndex)
	}

	// Members receive the update, the admin gets no echo
	sync := findMessage(drainSend(t, accepter), MessageTypeSyncReelIndex)
	if sync == nil {
		t.Fatal("accepter should receive the index sync")
	}
	data := mustDecode[SyncReelIndexData](t, sync)
	if data.Index != 3 {
		t.Errorf("expected index 3, got %d", data.Index)
	}

	if echo := findMessage(drainSend(t, inviter), MessageTypeSyncReelIndex); echo != nil {
		t.Error("the requester must not receive its own sync back")
	}
}

func TestNonAdminSyncRejectedWithError(t *testing.T) {
	hub := newTestHub()
	inviter, accepter, room := setupRoom(t, hub)

	hub.handleSyncReelIndex(accepter, NewMessage(uuid.New().String(), MessageTypeSyncReelIndex, SyncReelIndexData{
		Room:  room.ID,
		Index: 5,
	}))

	if room.CurrentIndex != 0 {
		t.Errorf("a non-admin sync must not change the room state, index is %d", room.CurrentIndex)
	}

	// The rejected requester is told why
	errMsg := findMessage(drainSend(t, accepter), MessageTypeError)
	if errMsg == nil {
		t.Fatal("the rejected requester should receive an error")
	}
	data := mustDecode[ErrorData](t, errMsg)
	if data.Code != "NOT_ROOM_ADMIN" {
		t.Errorf("expected NOT_ROOM_ADMIN, got %q", data.Code)
	}

	// Nothing reaches the other member
	if msgs := drainSend(t, inviter); len(msgs) != 0 {
		t.Errorf("admin should receive nothing, got %d messages", len(msgs))
	}
}

func TestAdminControlsPlayState(t *testing.T) {
	hub := newTestHub()
	inviter, accepter, room := setupRoom(t, hub)

	hub.handleReelPlay(inviter, NewMessage(uuid.New().String(), MessageTypeReelPlay, ReelPlayData{
		Room:      room.ID,
		Index:     2,
		IsPlaying: false,
	}))

	if room.CurrentIndex != 2 || room.IsPlaying {
		t.Errorf("room should be paused at index 2, got index=%d playing=%v", room.CurrentIndex, room.IsPlaying)
	}

	state := findMessage(drainSend(t, accepter), MessageTypeReelPlayState)
	if state == nil {
		t.Fatal("accepter should receive the play state")
	}
	data := mustDecode[ReelPlayStateData](t, state)
	if data.Index != 2 || data.IsPlaying {
		t.Errorf("unexpected play state payload: %+v", data)
	}
}

func TestRoomChatHasNoEcho(t *testing.T) {
	hub := newTestHub()
	inviter, accepter, room := setupRoom(t, hub)

	hub.handleSendMessage(accepter, NewMessage(uuid.New().String(), MessageTypeSendMessage, SendMessageData{
		Room:    room.ID,
		Sender:  "bob",
		Message: "did you see that",
	}))

	received := findMessage(drainSend(t, inviter), MessageTypeReceiveMessage)
	if received == nil {
		t.Fatal("the other member should receive the chat message")
	}
	data := mustDecode[ReceiveMessageData](t, received)
	if data.Sender != "bob" || data.Message != "did you see that" {
		t.Errorf("unexpected chat payload: %+v", data)
	}

	if echo := findMessage(drainSend(t, accepter), MessageTypeReceiveMessage); echo != nil {
		t.Error("the sender must not receive its own message back")
	}
}

func TestChangeReelSharedWithRoom(t *testing.T) {
	hub := newTestHub()
	_, accepter, room := setupRoom(t, hub)

	hub.handleChangeReel(hub.presence["alice"].client, NewMessage(uuid.New().String(), MessageTypeChangeReel, ChangeReelData{
		Room:    room.ID,
		ReelURL: "https://cdn.example.com/reel-9.mp4",
	}))

	updated := findMessage(drainSend(t, accepter), MessageTypeReelUpdated)
	if updated == nil {
		t.Fatal("accepter should receive reel_updated")
	}
	data := mustDecode[ReelUpdatedData](t, updated)
	if data.ReelURL != "https://cdn.example.com/reel-9.mp4" {
		t.Errorf("unexpected reel url: %q", data.ReelURL)
	}
}

func TestAdminDisconnectTerminatesRoom(t *testing.T) {
	hub := newTestHub()
	inviter, accepter, room := setupRoom(t, hub)

	hub.reapClient(inviter)

	if _, ok := hub.rooms[room.ID]; ok {
		t.Error("room should be destroyed when the admin disconnects")
	}
	if _, ok := hub.memberRooms["alice"]; ok {
		t.Error("admin's room pointer should be removed")
	}
	if _, ok := hub.memberRooms["bob"]; ok {
		t.Error("member room pointers should be removed with the room")
	}

	left := findMessage(drainSend(t, accepter), MessageTypeAdminLeft)
	if left == nil {
		t.Fatal("remaining members should be told the admin left")
	}
	data := mustDecode[AdminLeftData](t, left)
	if data.AdminName != "alice" {
		t.Errorf("expected admin alice, got %q", data.AdminName)
	}
}

func TestMemberDisconnectLeavesRoomIntact(t *testing.T) {
	hub := newTestHub()
	inviter, accepter, room := setupRoom(t, hub)

	hub.reapClient(accepter)

	if _, ok := hub.rooms[room.ID]; !ok {
		t.Fatal("room should survive a non-admin member's disconnect")
	}
	if _, ok := hub.memberRooms["bob"]; ok {
		t.Error("the departed member's room pointer should be removed")
	}
	if hub.memberRooms["alice"] != room.ID {
		t.Error("the admin's room pointer should be untouched")
	}

	if left := findMessage(drainSend(t, inviter), MessageTypeAdminLeft); left != nil {
		t.Error("no admin_left should be broadcast for a member departure")
	}
}

func TestRoomSurvivesStaleConnectionDisconnect(t *testing.T) {
	hub := newTestHub()
	first, bob, room := setupRoom(t, hub)

	// The admin reconnects; the newer connection takes over the session.
	second := connectClient(hub)
	registerUser(t, hub, second, "alice")
	drainSend(t, bob)

	// When the pre-takeover socket finally drops it no longer owns the
	// identity, so it must not unwind the live admin's room.
	hub.reapClient(first)

	if _, ok := hub.rooms[room.ID]; !ok {
		t.Fatal("room should survive the stale connection's disconnect")
	}
	if hub.memberRooms["alice"] != room.ID || hub.memberRooms["bob"] != room.ID {
		t.Error("both members should still point at the room")
	}
	if left := findMessage(drainSend(t, bob), MessageTypeAdminLeft); left != nil {
		t.Error("no admin_left should be broadcast while the admin is still connected")
	}
}

func TestExplicitAdminLeftRoom(t *testing.T) {
	hub := newTestHub()
	inviter, accepter, room := setupRoom(t, hub)

	hub.handleAdminLeftRoom(inviter, NewMessage(uuid.New().String(), MessageTypeAdminLeftRoom, AdminLeftRoomData{
		Room: room.ID,
	}))

	if _, ok := hub.rooms[room.ID]; ok {
		t.Error("room should be destroyed by an explicit admin departure")
	}
	if findMessage(drainSend(t, accepter), MessageTypeAdminLeft) == nil {
		t.Error("remaining members should be told the admin left")
	}
}

func TestNonAdminCannotTerminateRoom(t *testing.T) {
	hub := newTestHub()
	_, accepter, room := setupRoom(t, hub)

	hub.handleAdminLeftRoom(accepter, NewMessage(uuid.New().String(), MessageTypeAdminLeftRoom, AdminLeftRoomData{
		Room: room.ID,
	}))

	if _, ok := hub.rooms[room.ID]; !ok {
		t.Error("a non-admin must not be able to terminate the room")
	}
}

func TestSyncOutcomes(t *testing.T) {
	hub := newTestHub()
	_, _, room := setupRoom(t, hub)

	if got := hub.syncIndex(room.ID, "alice", 1); got != SyncApplied {
		t.Errorf("admin sync should be applied, got %v", got)
	}
	if got := hub.syncIndex(room.ID, "bob", 2); got != SyncRejectedUnauthorized {
		t.Errorf("non-admin sync should be rejected, got %v", got)
	}
	if got := hub.syncIndex("no-such-room", "alice", 3); got != SyncRoomNotFound {
		t.Errorf("sync to unknown room should report not found, got %v", got)
	}
	if got := hub.setPlayState(room.ID, "bob", 0, false); got != SyncRejectedUnauthorized {
		t.Errorf("non-admin play state should be rejected, got %v", got)
	}
}

func TestSyncToUnknownRoomIgnored(t *testing.T) {
	hub := newTestHub()
	alice := connectClient(hub)
	registerUser(t, hub, alice, "alice")
	drainSend(t, alice)

	hub.handleSyncReelIndex(alice, NewMessage(uuid.New().String(), MessageTypeSyncReelIndex, SyncReelIndexData{
		Room:  "no-such-room",
		Index: 1,
	}))

	if msgs := drainSend(t, alice); len(msgs) != 0 {
		t.Errorf("a sync to an unknown room should be silently dropped, got %d messages", len(msgs))
	}
}
