package domain

type CallType string

const (
	CallAudio CallType = "AUDIO"
	CallVideo CallType = "VIDEO"
)

func (t CallType) Valid() bool {
	switch t {
	case CallAudio, CallVideo:
		return true
	}
	return false
}

type CallPhase string

const (
	CallStarted CallPhase = "STARTED"
	CallEnded   CallPhase = "ENDED"
)

// CallEvent is the ephemeral signaling payload for a call lifecycle change.
// It is never persisted; it exists only on the wire.
type CallEvent struct {
	ConversationID string    `json:"conversationId"`
	Type           CallType  `json:"type"`
	Phase          CallPhase `json:"phase"`
}

type CallRequest struct {
	ConversationID string   `json:"conversationId" binding:"required"`
	Type           CallType `json:"type" binding:"required"`
}

// Bus event names.
const (
	EventCallStarted    = "call:started"
	EventCallEnded      = "call:ended"
	EventPresenceUpdate = "presence:update"
	EventMembersChanged = "members:changed"
)

// MembersChannel is the well-known poll-fallback channel for membership
// change signals.
const MembersChannel = "members"
