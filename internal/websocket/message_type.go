package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType represents the type of WebSocket message using a custom enum type
// for better type safety. The set is closed: one constant per protocol event,
// and the hub dispatches with an exhaustive switch instead of string comparison.
type MessageType string

const (
	// Client → server
	MessageTypeUserConnected    MessageType = "user-connected"
	MessageTypeRegister         MessageType = "register"
	MessageTypeSendInvite       MessageType = "send_invite"
	MessageTypeAcceptInvite     MessageType = "accept_invite"
	MessageTypeSendMessage      MessageType = "send_message"
	MessageTypeSyncReelIndex    MessageType = "sync_reel_index"
	MessageTypeReelPlay         MessageType = "reel_play"
	MessageTypeChangeReel       MessageType = "change_reel"
	MessageTypeAdminLeftRoom    MessageType = "admin_left_room"
	MessageTypeSendNotification MessageType = "send_notification"

	// Server → client
	MessageTypeActiveUsers     MessageType = "active_users"
	MessageTypeReceiveInvite   MessageType = "receive_invite"
	MessageTypeInviteAccepted  MessageType = "invite_accepted"
	MessageTypeJoinedRoom      MessageType = "joined_room"
	MessageTypeReceiveMessage  MessageType = "receive_message"
	MessageTypeReelPlayState   MessageType = "reel_play_state"
	MessageTypeReelUpdated     MessageType = "reel_updated"
	MessageTypeAdminLeft       MessageType = "admin_left"
	MessageTypeNewNotification MessageType = "new_notification"
	MessageTypeError           MessageType = "error"
)

// String returns the string representation of the MessageType
func (mt MessageType) String() string {
	return string(mt)
}

// IsValid checks if the MessageType is a valid enum value
func (mt MessageType) IsValid() bool {
	switch mt {
	case MessageTypeUserConnected, MessageTypeRegister, MessageTypeSendInvite,
		MessageTypeAcceptInvite, MessageTypeSendMessage, MessageTypeSyncReelIndex,
		MessageTypeReelPlay, MessageTypeChangeReel, MessageTypeAdminLeftRoom,
		MessageTypeSendNotification, MessageTypeActiveUsers, MessageTypeReceiveInvite,
		MessageTypeInviteAccepted, MessageTypeJoinedRoom, MessageTypeReceiveMessage,
		MessageTypeReelPlayState, MessageTypeReelUpdated, MessageTypeAdminLeft,
		MessageTypeNewNotification, MessageTypeError:
		return true
	default:
		return false
	}
}

// Message is the wire envelope. Data carries the typed payload for the
// message's type; constructors below keep the two in sync.
type Message struct {
	ID        string          `json:"id,omitempty"`
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// Validate validates the message envelope
func (m *Message) Validate() error {
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid message type: %s", m.Type)
	}
	return nil
}

// Typed payloads, one per catalog row.

type UserConnectedData struct {
	UserID string `json:"userId"`
}

type RegisterData struct {
	Username string `json:"username"`
	UserID   string `json:"userId,omitempty"`
}

type SendInviteData struct {
	To string `json:"to"`
}

type AcceptInviteData struct {
	From string `json:"from"`
}

type SendMessageData struct {
	Room    string `json:"room"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

type SyncReelIndexData struct {
	Room  string `json:"room"`
	Index int    `json:"index"`
}

type ReelPlayData struct {
	Room      string `json:"room"`
	Index     int    `json:"index"`
	IsPlaying bool   `json:"isPlaying"`
}

type ChangeReelData struct {
	Room    string `json:"room"`
	ReelURL string `json:"reelUrl"`
}

type AdminLeftRoomData struct {
	Room string `json:"room"`
}

type SendNotificationData struct {
	ReceiverID string `json:"receiverId"`
	Type       string `json:"type,omitempty"`
	Payload    string `json:"payload,omitempty"`
}

type ActiveUser struct {
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
	Bio          string `json:"bio"`
}

type ReceiveInviteData struct {
	From string `json:"from"`
}

type InviteAcceptedData struct {
	By           string `json:"by"`
	Room         string `json:"room"`
	IsAdmin      bool   `json:"isAdmin"`
	CurrentIndex int    `json:"currentIndex"`
}

type JoinedRoomData struct {
	Room         string `json:"room"`
	IsAdmin      bool   `json:"isAdmin"`
	CurrentIndex int    `json:"currentIndex"`
}

type ReceiveMessageData struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type ReelPlayStateData struct {
	Index     int  `json:"index"`
	IsPlaying bool `json:"isPlaying"`
}

type ReelUpdatedData struct {
	ReelURL string `json:"reelUrl"`
}

type AdminLeftData struct {
	AdminName string `json:"adminName"`
}

type NewNotificationData struct {
	SenderID string `json:"senderId"`
	Type     string `json:"type,omitempty"`
	Payload  string `json:"payload,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage creates a message with the given type and typed payload.
func NewMessage(id string, msgType MessageType, data interface{}) *Message {
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	return &Message{
		ID:        id,
		Type:      msgType,
		Data:      raw,
		Timestamp: time.Now().Unix(),
	}
}

// NewErrorMessage creates an error message
func NewErrorMessage(id, code, message string) *Message {
	return NewMessage(id, MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
}

// decode unmarshals the envelope payload into the typed struct for its row.
func decode[T any](m *Message) (T, error) {
	var v T
	if len(m.Data) == 0 {
		return v, fmt.Errorf("message %s has no payload", m.Type)
	}
	if err := json.Unmarshal(m.Data, &v); err != nil {
		return v, fmt.Errorf("decoding %s payload: %w", m.Type, err)
	}
	return v, nil
}
