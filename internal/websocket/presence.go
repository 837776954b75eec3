package websocket

import (
	"reelchat-service/internal/models"

	"github.com/google/uuid"
)

// presenceEntry maps one identity to its live connection plus the profile
// fields cached at registration time.
type presenceEntry struct {
	client       *Client
	profileImage string
	bio          string
}

// upsertPresence installs or overwrites the entry for an identity.
// Last registration wins.
func (h *Hub) upsertPresence(username string, c *Client, profile models.ProfileFields) {
	h.presence[username] = &presenceEntry{
		client:       c,
		profileImage: profile.ProfileImage,
		bio:          profile.Bio,
	}
}

// lookupPresence resolves an identity to its live connection.
func (h *Hub) lookupPresence(username string) (*Client, bool) {
	entry, ok := h.presence[username]
	if !ok {
		return nil, false
	}
	return entry.client, true
}

// activeUsersSnapshot builds the full presence list broadcast to clients.
func (h *Hub) activeUsersSnapshot() []ActiveUser {
	users := make([]ActiveUser, 0, len(h.presence))
	for username, entry := range h.presence {
		users = append(users, ActiveUser{
			Username:     username,
			ProfileImage: entry.profileImage,
			Bio:          entry.bio,
		})
	}
	return users
}

// broadcastActiveUsers pushes the current presence snapshot to every
// connection, registered or not.
func (h *Hub) broadcastActiveUsers() {
	msg := NewMessage(uuid.New().String(), MessageTypeActiveUsers, h.activeUsersSnapshot())
	h.broadcastAll(msg)
}
