package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTypeIsValid(t *testing.T) {
	assert.True(t, MessageTypeRegister.IsValid())
	assert.True(t, MessageTypeReelPlay.IsValid())
	assert.True(t, MessageTypeError.IsValid())

	assert.False(t, MessageType("").IsValid())
	assert.False(t, MessageType("change_reel_index").IsValid())
	assert.False(t, MessageType("REGISTER").IsValid())
}

func TestValidateRejectsUnknownType(t *testing.T) {
	msg := &Message{Type: MessageType("bogus")}
	assert.Error(t, msg.Validate())

	msg = NewMessage("m1", MessageTypeSendInvite, SendInviteData{To: "bob"})
	assert.NoError(t, msg.Validate())
}

func TestDecodeRoundTripsTypedPayload(t *testing.T) {
	msg := NewMessage("m1", MessageTypeSyncReelIndex, SyncReelIndexData{Room: "alice-bob", Index: 4})

	data, err := decode[SyncReelIndexData](msg)
	require.NoError(t, err)
	assert.Equal(t, "alice-bob", data.Room)
	assert.Equal(t, 4, data.Index)
}

func TestDecodeFailsOnMissingPayload(t *testing.T) {
	msg := &Message{Type: MessageTypeRegister}

	_, err := decode[RegisterData](msg)
	assert.Error(t, err)
}

func TestDecodeFailsOnWrongShape(t *testing.T) {
	msg := &Message{
		Type: MessageTypeSyncReelIndex,
		Data: json.RawMessage(`{"index": "not-a-number"}`),
	}

	_, err := decode[SyncReelIndexData](msg)
	assert.Error(t, err)
}
