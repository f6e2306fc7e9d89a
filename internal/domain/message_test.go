package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMessageTargetInvariant(t *testing.T) {
	tests := []struct {
		name       string
		receiverID string
		groupID    string
		wantErr    error
	}{
		{name: "receiver only", receiverID: "u2"},
		{name: "group only", groupID: "g1"},
		{name: "neither", wantErr: ErrInvalidTarget},
		{name: "both", receiverID: "u2", groupID: "g1", wantErr: ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage("u1", tt.receiverID, tt.groupID, "hello")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "u1", msg.SenderID)
			require.NotEmpty(t, msg.RoomKey)
		})
	}
}

func TestNewMessageContent(t *testing.T) {
	_, err := NewMessage("u1", "u2", "", "")
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewMessage("u1", "u2", "", "   \t\n")
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewMessage("u1", "u2", "", strings.Repeat("x", MaxMessageLength+1))
	require.ErrorIs(t, err, ErrContentTooLong)
}

func TestNewMessageDirectRoomKeyMatchesBothDirections(t *testing.T) {
	m1, err := NewMessage("u1", "u2", "", "hi")
	require.NoError(t, err)

	m2, err := NewMessage("u2", "u1", "", "hi back")
	require.NoError(t, err)

	require.Equal(t, m1.RoomKey, m2.RoomKey)
}
