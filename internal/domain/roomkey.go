package domain

// RoomKeySeparator joins the two identities of a direct conversation. User
// and group ids are UUIDs, so a colon can never appear inside an identifier.
const RoomKeySeparator = ":"

// RoomTarget addresses a conversation: either GroupID alone, or the
// SelfID/OtherID pair of a direct chat.
type RoomTarget struct {
	GroupID string
	SelfID  string
	OtherID string
}

// ResolveRoomKey is the single source of truth for which room a conversation
// lives in. For groups the group id already names the room. For direct chats
// the key is order-independent: both participants must land in the same room
// no matter who initiated, so the two ids are sorted before joining.
func ResolveRoomKey(t RoomTarget) (string, error) {
	hasGroup := t.GroupID != ""
	hasPair := t.SelfID != "" && t.OtherID != ""

	switch {
	case hasGroup && hasPair:
		return "", ErrInvalidTarget
	case hasGroup:
		return t.GroupID, nil
	case hasPair:
		return DirectRoomKey(t.SelfID, t.OtherID), nil
	default:
		return "", ErrInvalidTarget
	}
}

// DirectRoomKey returns the canonical room key for a one-to-one conversation.
// DirectRoomKey(a, b) == DirectRoomKey(b, a) for all a, b.
func DirectRoomKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + RoomKeySeparator + b
}
