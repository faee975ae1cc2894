package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/adventapp/advent-server/internal/domain"
	"github.com/adventapp/advent-server/internal/store"
)

// calendarColumns is the ordered list of columns selected in calendar queries.
// Must match the scan order in scanCalendar.
const calendarColumns = `id, created_at, updated_at, owner_id, share_token, title, description,
	background, door_style, accent_color`

// scanCalendar scans a sql.Row (or sql.Rows via its Scan method) into a domain.Calendar.
func scanCalendar(scanner interface{ Scan(dest ...any) error }) (*domain.Calendar, error) {
	var c domain.Calendar

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&c.OwnerID,
		&c.ShareToken,
		&c.Title,
		&c.Description,
		&c.Theme.Background,
		&c.Theme.DoorStyle,
		&c.Theme.AccentColor,
	)
	if err != nil {
		return nil, err
	}

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCalendar inserts a calendar.
// Returns store.ErrAlreadyExists on duplicate ID or share token.
func (s *Store) CreateCalendar(ctx context.Context, cal *domain.Calendar) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendars (id, created_at, updated_at, owner_id, share_token, title, description,
			background, door_style, accent_color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cal.ID,
		formatTime(cal.CreatedAt),
		formatTime(cal.UpdatedAt),
		cal.OwnerID,
		cal.ShareToken,
		cal.Title,
		cal.Description,
		cal.Theme.Background,
		cal.Theme.DoorStyle,
		cal.Theme.AccentColor,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetCalendar retrieves a calendar by ID. Returns store.ErrNotFound if missing.
func (s *Store) GetCalendar(ctx context.Context, id string) (*domain.Calendar, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+calendarColumns+` FROM calendars WHERE id = ?`, id)

	cal, err := scanCalendar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cal, nil
}

// GetCalendarByShareToken retrieves a calendar by its public share token.
// Returns store.ErrNotFound if the token does not resolve.
func (s *Store) GetCalendarByShareToken(ctx context.Context, token string) (*domain.Calendar, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+calendarColumns+` FROM calendars WHERE share_token = ?`, token)

	cal, err := scanCalendar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cal, nil
}

// ListCalendarsByOwner returns all calendars owned by a user, newest first.
func (s *Store) ListCalendarsByOwner(ctx context.Context, ownerID string) ([]*domain.Calendar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+calendarColumns+` FROM calendars WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calendars []*domain.Calendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, cal)
	}
	return calendars, rows.Err()
}

// UpdateCalendar updates a calendar's mutable fields. Returns store.ErrNotFound if missing.
func (s *Store) UpdateCalendar(ctx context.Context, cal *domain.Calendar) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE calendars
		SET updated_at = ?, title = ?, description = ?, background = ?, door_style = ?, accent_color = ?
		WHERE id = ?`,
		formatTime(cal.UpdatedAt),
		cal.Title,
		cal.Description,
		cal.Theme.Background,
		cal.Theme.DoorStyle,
		cal.Theme.AccentColor,
		cal.ID,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteCalendar removes a calendar. Entries and opened-door records cascade
// via foreign keys. Returns store.ErrNotFound if missing.
func (s *Store) DeleteCalendar(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}
