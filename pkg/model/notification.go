package model

import "time"

// Priority controls how prominently a notification is displayed.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Normalize maps unrecognized priority values to PriorityNormal.
// The backend is free to introduce new values; unknown ones are a styling
// fallback, not an error.
func (p Priority) Normalize() Priority {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return p
	}
	return PriorityNormal
}

// NotificationType categorizes an announcement.
type NotificationType string

const (
	TypeUrgent   NotificationType = "urgent"
	TypeAcademic NotificationType = "academic"
	TypeEvent    NotificationType = "event"
	TypeSystem   NotificationType = "system"
	TypeGeneral  NotificationType = "general"
)

// NotificationEvent is one announcement pushed from the server over the
// realtime channel. At most one is displayed at a time; a newer event
// replaces an undismissed older one.
type NotificationEvent struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Type      NotificationType `json:"type"`
	Priority  Priority         `json:"priority"`
	CreatedBy string           `json:"createdBy"`
	Timestamp time.Time        `json:"timestamp"`
	ActionURL string           `json:"actionUrl,omitempty"`
}

// Announcement is the REST representation of an announcement, as returned
// by GET /api/announcements.
type Announcement struct {
	ID        string           `json:"_id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Type      NotificationType `json:"type"`
	Priority  Priority         `json:"priority"`
	CreatedBy string           `json:"createdBy"`
	CreatedAt time.Time        `json:"createdAt"`
	Read      bool             `json:"read"`
}
