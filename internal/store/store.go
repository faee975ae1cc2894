// Package store defines the persistence interface for the advent calendar server.
package store

import (
	"context"

	"github.com/adventapp/advent-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Calendars
	CreateCalendar(ctx context.Context, cal *domain.Calendar) error
	GetCalendar(ctx context.Context, id string) (*domain.Calendar, error)
	GetCalendarByShareToken(ctx context.Context, token string) (*domain.Calendar, error)
	ListCalendarsByOwner(ctx context.Context, ownerID string) ([]*domain.Calendar, error)
	UpdateCalendar(ctx context.Context, cal *domain.Calendar) error
	DeleteCalendar(ctx context.Context, id string) error

	// Calendar entries
	CreateEntry(ctx context.Context, entry *domain.CalendarEntry) error
	GetEntry(ctx context.Context, id string) (*domain.CalendarEntry, error)
	GetEntryByDay(ctx context.Context, calendarID string, day int) (*domain.CalendarEntry, error)
	ListEntries(ctx context.Context, calendarID string) ([]*domain.CalendarEntry, error)
	UpdateEntry(ctx context.Context, entry *domain.CalendarEntry) error
	DeleteEntry(ctx context.Context, id string) error

	// Opened doors
	//
	// InsertOpenedDoor returns ErrAlreadyExists when the (user, calendar, day)
	// unique index rejects a duplicate identified open. The index, not the
	// caller's check-then-insert, is the correctness guarantee under
	// concurrent requests.
	InsertOpenedDoor(ctx context.Context, door *domain.OpenedDoor) error
	GetOpenedDoor(ctx context.Context, userID, calendarID string, day int) (*domain.OpenedDoor, error)
	ListOpenedDoors(ctx context.Context, userID, calendarID string) ([]*domain.OpenedDoor, error)
}
