package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reelchat-service/internal/models"

	"github.com/google/uuid"
)

var (
	ErrClientDisconnected = fmt.Errorf("client disconnected")
	ErrRoomNotFound       = fmt.Errorf("room not found")
)

// AccountStore resolves the profile fields the presence registry caches.
type AccountStore interface {
	FindByIdentity(username string) (*models.ProfileFields, error)
}

// StatusMirror receives best-effort online/offline signals keyed by user id.
type StatusMirror interface {
	SetUserOnline(ctx context.Context, userID string) error
	SetUserOffline(ctx context.Context, userID string) error
}

// NotificationSink records forwarded notifications and their delivery result.
type NotificationSink interface {
	Record(ctx context.Context, n *models.Notification, result models.DeliveryResult)
}

type ClientMessage struct {
	Client  *Client
	Message *Message
}

// profileResult re-enters the run loop after an asynchronous account lookup.
type profileResult struct {
	client  *Client
	data    RegisterData
	profile models.ProfileFields
}

// Hub owns every piece of shared session state: the presence registry, the
// online index, the room table and the per-member room pointers. All of it is
// mutated only inside Run's goroutine; connection code talks to the hub
// through its channels.
type Hub struct {
	// All live connections, registered or not
	clients map[*Client]bool

	// Presence registry: identity -> connection + cached profile fields
	presence map[string]*presenceEntry

	// Online index: opaque user id -> connection
	online map[string]*Client

	// Room table and each member's room pointer
	rooms       map[string]*Room
	memberRooms map[string]string

	register    chan *Client
	unregister  chan *Client
	inbound     chan *ClientMessage
	profileDone chan *profileResult

	accounts      AccountStore
	status        StatusMirror
	notifications NotificationSink

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(accounts AccountStore, status StatusMirror, notifications NotificationSink) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:       make(map[*Client]bool),
		presence:      make(map[string]*presenceEntry),
		online:        make(map[string]*Client),
		rooms:         make(map[string]*Room),
		memberRooms:   make(map[string]string),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		inbound:       make(chan *ClientMessage),
		profileDone:   make(chan *profileResult),
		accounts:      accounts,
		status:        status,
		notifications: notifications,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Run processes one signal at a time; handlers run to completion without
// preemption, so hub state needs no locking. Account lookups happen off-loop
// and re-enter through profileDone.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.reapClient(client)

		case clientMsg := <-h.inbound:
			h.dispatch(clientMsg.Client, clientMsg.Message)

		case result := <-h.profileDone:
			h.completeRegister(result)

		case <-h.ctx.Done():
			slog.Info("WebSocket hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// Register hands a new connection to the run loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	slog.Info("Client connected", "clientID", client.id)
}

// dispatch routes one inbound message. The switch is exhaustive over the
// closed message-type set; server-to-client types arriving from a client are
// protocol violations.
func (h *Hub) dispatch(c *Client, msg *Message) {
	if err := msg.Validate(); err != nil {
		slog.Warn("Dropping invalid message", "clientID", c.id, "error", err)
		c.sendError("INVALID_MESSAGE", err.Error())
		return
	}

	switch msg.Type {
	case MessageTypeUserConnected:
		h.handleUserConnected(c, msg)
	case MessageTypeRegister:
		h.handleRegister(c, msg)
	case MessageTypeSendInvite:
		h.handleSendInvite(c, msg)
	case MessageTypeAcceptInvite:
		h.handleAcceptInvite(c, msg)
	case MessageTypeSendMessage:
		h.handleSendMessage(c, msg)
	case MessageTypeSyncReelIndex:
		h.handleSyncReelIndex(c, msg)
	case MessageTypeReelPlay:
		h.handleReelPlay(c, msg)
	case MessageTypeChangeReel:
		h.handleChangeReel(c, msg)
	case MessageTypeAdminLeftRoom:
		h.handleAdminLeftRoom(c, msg)
	case MessageTypeSendNotification:
		h.handleSendNotification(c, msg)

	case MessageTypeActiveUsers, MessageTypeReceiveInvite, MessageTypeInviteAccepted,
		MessageTypeJoinedRoom, MessageTypeReceiveMessage, MessageTypeReelPlayState,
		MessageTypeReelUpdated, MessageTypeAdminLeft, MessageTypeNewNotification,
		MessageTypeError:
		slog.Warn("Client sent server-side message type", "clientID", c.id, "type", msg.Type)
		c.sendError("UNEXPECTED_TYPE", "message type is server-to-client only")
	}
}

// handleUserConnected upserts the online index used for point-to-point
// notification routing. Its lifecycle is independent of the presence registry.
func (h *Hub) handleUserConnected(c *Client, msg *Message) {
	data, err := decode[UserConnectedData](msg)
	if err != nil || data.UserID == "" {
		slog.Warn("Ignoring malformed user-connected", "clientID", c.id, "error", err)
		return
	}

	c.userID = data.UserID
	h.online[data.UserID] = c
	slog.Debug("User marked online", "clientID", c.id, "userID", data.UserID)

	if h.status != nil {
		go func(userID string) {
			if err := h.status.SetUserOnline(context.Background(), userID); err != nil {
				slog.Error("Failed to mirror online status", "userID", userID, "error", err)
			}
		}(data.UserID)
	}
}

// handleRegister starts a registration. The profile lookup against the
// account store runs off-loop; completeRegister re-validates the connection
// before any state is written, because the client may disconnect while the
// lookup is in flight.
func (h *Hub) handleRegister(c *Client, msg *Message) {
	data, err := decode[RegisterData](msg)
	if err != nil || data.Username == "" {
		// Registration with no identity is simply ignored.
		slog.Debug("Ignoring register without username", "clientID", c.id)
		return
	}

	go func() {
		profile := models.ProfileFields{}
		if h.accounts != nil {
			if p, err := h.accounts.FindByIdentity(data.Username); err != nil {
				slog.Error("Error fetching user profile", "username", data.Username, "error", err)
			} else {
				profile = *p
			}
		}

		select {
		case h.profileDone <- &profileResult{client: c, data: data, profile: profile}:
		case <-h.ctx.Done():
		}
	}()
}

func (h *Hub) completeRegister(result *profileResult) {
	c := result.client

	// The connection may have closed while the profile lookup was awaited.
	// Writing the entry anyway would strand a dead connection in the
	// registry, so the result is discarded.
	if c.isClosed() || !h.clients[c] {
		slog.Debug("Discarding registration for closed connection", "clientID", c.id, "username", result.data.Username)
		return
	}

	c.username = result.data.Username
	if result.data.UserID != "" {
		c.userID = result.data.UserID
		h.online[result.data.UserID] = c
	}

	// Last-registration-wins: a duplicate identity overwrites the previous
	// entry, taking the session over for the new connection.
	h.upsertPresence(result.data.Username, c, result.profile)

	slog.Info("Registered", "username", result.data.Username, "clientID", c.id)
	h.broadcastActiveUsers()
}

func (h *Hub) handleSendNotification(c *Client, msg *Message) {
	data, err := decode[SendNotificationData](msg)
	if err != nil || data.ReceiverID == "" {
		slog.Warn("Ignoring malformed send_notification", "clientID", c.id, "error", err)
		return
	}

	// Fire-and-forget: if the recipient is not in the online index the
	// notification is dropped with no retry or queue.
	result := models.DeliveryDropped
	if receiver, ok := h.online[data.ReceiverID]; ok {
		notification := NewMessage(uuid.New().String(), MessageTypeNewNotification, NewNotificationData{
			SenderID: c.userID,
			Type:     data.Type,
			Payload:  data.Payload,
		})
		if err := receiver.SendMessage(notification); err == nil {
			result = models.DeliveryDelivered
		}
	}

	if h.notifications != nil {
		n := &models.Notification{
			ReceiverID: data.ReceiverID,
			SenderID:   c.userID,
			Type:       data.Type,
			Payload:    data.Payload,
		}
		go h.notifications.Record(context.Background(), n, result)
	}
}

// reapClient unwinds everything a closed connection touched: its presence
// entry, its online-index entries and its room membership.
func (h *Hub) reapClient(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	c.close()
	c.closeSendChannel()

	// Presence: only removed when this connection still owns the entry. A
	// takeover by a newer registration must survive the old connection's
	// disconnect, room membership included.
	ownsIdentity := false
	if c.username != "" {
		if entry, ok := h.presence[c.username]; ok && entry.client == c {
			delete(h.presence, c.username)
			ownsIdentity = true
		}
	}

	// Online index: reverse scan, the same connection may back several ids.
	for userID, client := range h.online {
		if client == c {
			delete(h.online, userID)
			if h.status != nil {
				go func(userID string) {
					if err := h.status.SetUserOffline(context.Background(), userID); err != nil {
						slog.Error("Failed to mirror offline status", "userID", userID, "error", err)
					}
				}(userID)
			}
		}
	}

	if ownsIdentity {
		h.leaveRoom(c.username)
	}

	slog.Info("Client disconnected", "clientID", c.id, "username", c.username, "connectedFor", time.Since(c.registeredAt))
	h.broadcastActiveUsers()
}

// broadcastAll fans a message out to every live connection.
func (h *Hub) broadcastAll(msg *Message) {
	for client := range h.clients {
		if err := client.SendMessage(msg); err != nil {
			slog.Debug("Dropped broadcast to client", "clientID", client.id, "error", err)
		}
	}
}
