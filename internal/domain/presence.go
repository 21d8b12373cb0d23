package domain

import (
	"time"

	"github.com/google/uuid"
)

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "ONLINE"
	PresenceAway    PresenceStatus = "AWAY"
	PresenceBusy    PresenceStatus = "BUSY"
	PresenceOffline PresenceStatus = "OFFLINE"
	PresenceCustom  PresenceStatus = "CUSTOM"
)

// Valid reports whether s is one of the known status variants.
func (s PresenceStatus) Valid() bool {
	switch s {
	case PresenceOnline, PresenceAway, PresenceBusy, PresenceOffline, PresenceCustom:
		return true
	}
	return false
}

// UserPresence is the single durable presence record per user.
// Rows are upserted in place, never deleted.
type UserPresence struct {
	UserID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"userId"`
	Status     PresenceStatus `gorm:"type:varchar(20);not null;default:'OFFLINE'" json:"status"`
	CustomText *string        `gorm:"size:255" json:"customText"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (UserPresence) TableName() string {
	return "user_presence"
}

// UpdateStatusRequest is the status-update request body. A null or absent
// customText clears any stored text; the text is only kept for CUSTOM.
type UpdateStatusRequest struct {
	Status     PresenceStatus `json:"status" binding:"required"`
	CustomText *string        `json:"customText"`
}
