package domain

import "time"

// OpenedDoor records a reveal event for one door of a calendar.
// UserID is nil for anonymous visitors.
//
// For identified users at most one record exists per (user, calendar, day);
// the store enforces this with a unique index. Anonymous opens are never
// deduplicated since there is no stable identity to key on.
type OpenedDoor struct {
	ID         string    `json:"id"`
	CalendarID string    `json:"calendar_id"`
	Day        int       `json:"day"`
	UserID     *string   `json:"user_id,omitempty"`
	OpenedAt   time.Time `json:"opened_at"`
}
