package websocket

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Room is an ephemeral shared-viewing session. Exactly one member is the
// admin (always the original inviter) and only the admin may mutate the
// playback state. Rooms live entirely inside the hub's run loop.
type Room struct {
	ID           string
	Admin        string
	Members      map[string]bool
	CurrentIndex int
	IsPlaying    bool
}

// SyncOutcome reports whether a playback mutation was applied, so callers can
// decide what to surface to a rejected requester.
type SyncOutcome int

const (
	SyncApplied SyncOutcome = iota
	SyncRejectedUnauthorized
	SyncRoomNotFound
)

// roomID derives the deterministic identifier for an (inviter, accepter) pair.
// The order is fixed: inviter first.
func roomID(inviter, accepter string) string {
	return fmt.Sprintf("%s-%s", inviter, accepter)
}

// handleSendInvite forwards an invitation signal to the target's connection.
// Nothing is persisted; an unresolvable target is a silent no-op.
func (h *Hub) handleSendInvite(c *Client, msg *Message) {
	data, err := decode[SendInviteData](msg)
	if err != nil || data.To == "" {
		slog.Warn("Ignoring malformed send_invite", "clientID", c.id, "error", err)
		return
	}

	target, ok := h.lookupPresence(data.To)
	if !ok {
		slog.Info("Could not send invite: target not registered", "from", c.username, "to", data.To)
		return
	}

	invite := NewMessage(uuid.New().String(), MessageTypeReceiveInvite, ReceiveInviteData{
		From: c.username,
	})
	if err := target.SendMessage(invite); err != nil {
		slog.Debug("Invite delivery failed", "to", data.To, "error", err)
		return
	}
	slog.Info("Invite sent", "from", c.username, "to", data.To)
}

// handleAcceptInvite creates the room. Both parties must still be registered:
// if the inviter's presence has vanished the whole operation is skipped. A
// room that already exists for the pair is left untouched (first writer wins).
func (h *Hub) handleAcceptInvite(c *Client, msg *Message) {
	data, err := decode[AcceptInviteData](msg)
	if err != nil || data.From == "" {
		slog.Warn("Ignoring malformed accept_invite", "clientID", c.id, "error", err)
		return
	}

	inviter, ok := h.lookupPresence(data.From)
	if !ok {
		slog.Info("Accept dropped: inviter no longer registered", "inviter", data.From, "accepter", c.username)
		return
	}

	id := roomID(data.From, c.username)
	if _, exists := h.rooms[id]; exists {
		slog.Info("Room already exists, ignoring duplicate accept", "room", id)
		return
	}

	room := &Room{
		ID:           id,
		Admin:        data.From,
		Members:      map[string]bool{data.From: true, c.username: true},
		CurrentIndex: 0,
		IsPlaying:    true,
	}
	h.rooms[id] = room
	h.memberRooms[data.From] = id
	h.memberRooms[c.username] = id

	inviter.SendMessage(NewMessage(uuid.New().String(), MessageTypeInviteAccepted, InviteAcceptedData{
		By:           c.username,
		Room:         id,
		IsAdmin:      true,
		CurrentIndex: room.CurrentIndex,
	}))
	c.SendMessage(NewMessage(uuid.New().String(), MessageTypeJoinedRoom, JoinedRoomData{
		Room:         id,
		IsAdmin:      false,
		CurrentIndex: room.CurrentIndex,
	}))

	slog.Info("Room created", "room", id, "admin", data.From)
}

// handleSendMessage rebroadcasts room chat to the other members.
func (h *Hub) handleSendMessage(c *Client, msg *Message) {
	data, err := decode[SendMessageData](msg)
	if err != nil {
		slog.Warn("Ignoring malformed send_message", "clientID", c.id, "error", err)
		return
	}

	room, ok := h.rooms[data.Room]
	if !ok {
		slog.Debug("Message to unknown room dropped", "room", data.Room)
		return
	}

	h.broadcastRoom(room, c.username, NewMessage(uuid.New().String(), MessageTypeReceiveMessage, ReceiveMessageData{
		Sender:  data.Sender,
		Message: data.Message,
	}))
}

// syncIndex applies an index change if the requester is the room's admin.
func (h *Hub) syncIndex(roomID, requester string, index int) SyncOutcome {
	room, ok := h.rooms[roomID]
	if !ok {
		return SyncRoomNotFound
	}
	if requester != room.Admin {
		slog.Info("Rejected index sync from non-admin", "room", room.ID, "requester", requester)
		return SyncRejectedUnauthorized
	}

	room.CurrentIndex = index
	h.broadcastRoom(room, requester, NewMessage(uuid.New().String(), MessageTypeSyncReelIndex, SyncReelIndexData{
		Room:  room.ID,
		Index: index,
	}))
	slog.Debug("Index synced", "room", room.ID, "index", index)
	return SyncApplied
}

// setPlayState applies a combined index/play-pause change, admin only.
func (h *Hub) setPlayState(roomID, requester string, index int, isPlaying bool) SyncOutcome {
	room, ok := h.rooms[roomID]
	if !ok {
		return SyncRoomNotFound
	}
	if requester != room.Admin {
		slog.Info("Rejected play-state change from non-admin", "room", room.ID, "requester", requester)
		return SyncRejectedUnauthorized
	}

	room.CurrentIndex = index
	room.IsPlaying = isPlaying
	h.broadcastRoom(room, requester, NewMessage(uuid.New().String(), MessageTypeReelPlayState, ReelPlayStateData{
		Index:     index,
		IsPlaying: isPlaying,
	}))
	return SyncApplied
}

func (h *Hub) handleSyncReelIndex(c *Client, msg *Message) {
	data, err := decode[SyncReelIndexData](msg)
	if err != nil || data.Index < 0 {
		slog.Warn("Ignoring malformed sync_reel_index", "clientID", c.id, "error", err)
		return
	}

	switch h.syncIndex(data.Room, c.username, data.Index) {
	case SyncRejectedUnauthorized:
		c.sendError("NOT_ROOM_ADMIN", "only the room admin can change the reel index")
	case SyncRoomNotFound:
		// Stale sync for a room that already ended; drop it
		slog.Debug("Sync for unknown room dropped", "room", data.Room)
	}
}

func (h *Hub) handleReelPlay(c *Client, msg *Message) {
	data, err := decode[ReelPlayData](msg)
	if err != nil || data.Index < 0 {
		slog.Warn("Ignoring malformed reel_play", "clientID", c.id, "error", err)
		return
	}

	switch h.setPlayState(data.Room, c.username, data.Index, data.IsPlaying) {
	case SyncRejectedUnauthorized:
		c.sendError("NOT_ROOM_ADMIN", "only the room admin can change the play state")
	case SyncRoomNotFound:
		slog.Debug("Play state for unknown room dropped", "room", data.Room)
	}
}

// handleChangeReel shares a new reel URL with the rest of the room.
func (h *Hub) handleChangeReel(c *Client, msg *Message) {
	data, err := decode[ChangeReelData](msg)
	if err != nil {
		slog.Warn("Ignoring malformed change_reel", "clientID", c.id, "error", err)
		return
	}

	room, ok := h.rooms[data.Room]
	if !ok {
		return
	}

	h.broadcastRoom(room, c.username, NewMessage(uuid.New().String(), MessageTypeReelUpdated, ReelUpdatedData{
		ReelURL: data.ReelURL,
	}))
}

// handleAdminLeftRoom is the explicit, client-initiated room termination.
func (h *Hub) handleAdminLeftRoom(c *Client, msg *Message) {
	data, err := decode[AdminLeftRoomData](msg)
	if err != nil {
		slog.Warn("Ignoring malformed admin_left_room", "clientID", c.id, "error", err)
		return
	}

	room, ok := h.rooms[data.Room]
	if !ok || room.Admin != c.username {
		return
	}

	h.terminateRoom(room)
}

// leaveRoom removes one identity's room membership. If that identity was the
// room's admin the whole room is terminated; otherwise only its own pointer
// goes away and the room persists. A stale pointer is a no-op.
func (h *Hub) leaveRoom(username string) {
	if username == "" {
		return
	}

	id, ok := h.memberRooms[username]
	if !ok {
		return
	}
	delete(h.memberRooms, username)

	room, ok := h.rooms[id]
	if !ok {
		return
	}

	if room.Admin == username {
		delete(room.Members, username)
		h.terminateRoom(room)
		return
	}
	delete(room.Members, username)
}

// terminateRoom broadcasts admin_left to the remaining members, then deletes
// the room and every member's room pointer.
func (h *Hub) terminateRoom(room *Room) {
	notice := NewMessage(uuid.New().String(), MessageTypeAdminLeft, AdminLeftData{
		AdminName: room.Admin,
	})

	for member := range room.Members {
		if member == room.Admin {
			continue
		}
		if client, ok := h.lookupPresence(member); ok {
			client.SendMessage(notice)
		}
	}

	for member := range room.Members {
		if h.memberRooms[member] == room.ID {
			delete(h.memberRooms, member)
		}
	}
	delete(h.memberRooms, room.Admin)
	delete(h.rooms, room.ID)

	slog.Info("Room terminated", "room", room.ID, "admin", room.Admin)
}

// broadcastRoom delivers a message to every room member except the sender.
func (h *Hub) broadcastRoom(room *Room, sender string, msg *Message) {
	for member := range room.Members {
		if member == sender {
			continue
		}
		client, ok := h.lookupPresence(member)
		if !ok {
			continue
		}
		if err := client.SendMessage(msg); err != nil {
			slog.Debug("Dropped room broadcast", "room", room.ID, "member", member, "error", err)
		}
	}
}
