package domain

import "time"

const (
	// MinDay is the first door number in a calendar.
	MinDay = 1
	// MaxDay is the last door number in a calendar.
	MaxDay = 25
)

// AdventMonth is the month during which doors unlock progressively.
// Outside this month every door is treated as available (catch-up semantics).
const AdventMonth = time.December

// DayInRange reports whether day is a valid door number.
func DayInRange(day int) bool {
	return day >= MinDay && day <= MaxDay
}

// Theme holds the presentational attributes of a calendar. These are opaque
// to the server; the frontend interprets them.
type Theme struct {
	Background  string `json:"background,omitempty"`
	DoorStyle   string `json:"door_style,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
}

// Calendar represents an advent calendar owned by a user and published via
// an unguessable share token.
type Calendar struct {
	Record
	OwnerID     string `json:"owner_id"`
	ShareToken  string `json:"share_token"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Theme       Theme  `json:"theme"`
}
