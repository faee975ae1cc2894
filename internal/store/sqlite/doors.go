package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/adventapp/advent-server/internal/domain"
	"github.com/adventapp/advent-server/internal/store"
)

// doorColumns is the ordered list of columns selected in opened-door queries.
// Must match the scan order in scanOpenedDoor.
const doorColumns = `id, calendar_id, day, user_id, opened_at`

// scanOpenedDoor scans a sql.Row (or sql.Rows via its Scan method) into a domain.OpenedDoor.
func scanOpenedDoor(scanner interface{ Scan(dest ...any) error }) (*domain.OpenedDoor, error) {
	var d domain.OpenedDoor

	var (
		userID   sql.NullString
		openedAt string
	)

	err := scanner.Scan(
		&d.ID,
		&d.CalendarID,
		&d.Day,
		&userID,
		&openedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		d.UserID = &userID.String
	}
	if d.OpenedAt, err = parseTime(openedAt); err != nil {
		return nil, err
	}

	return &d, nil
}

// InsertOpenedDoor inserts an opened-door record.
//
// For identified users the partial unique index on (calendar_id, day, user_id)
// rejects duplicates; that surfaces here as store.ErrAlreadyExists so callers
// can re-read the winning row. Anonymous rows (nil user) always insert.
func (s *Store) InsertOpenedDoor(ctx context.Context, door *domain.OpenedDoor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO opened_doors (id, calendar_id, day, user_id, opened_at)
		VALUES (?, ?, ?, ?, ?)`,
		door.ID,
		door.CalendarID,
		door.Day,
		nullString(door.UserID),
		formatTime(door.OpenedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "CHECK constraint failed") {
			return store.ErrInvalidInput.WithCause(err)
		}
		return err
	}
	return nil
}

// GetOpenedDoor retrieves the opened-door record for an identified user.
// Returns store.ErrNotFound when the door has not been opened by that user.
func (s *Store) GetOpenedDoor(ctx context.Context, userID, calendarID string, day int) (*domain.OpenedDoor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+doorColumns+` FROM opened_doors
		WHERE user_id = ? AND calendar_id = ? AND day = ?`, userID, calendarID, day)

	door, err := scanOpenedDoor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return door, nil
}

// ListOpenedDoors returns the doors an identified user has opened in a
// calendar, ordered by day.
func (s *Store) ListOpenedDoors(ctx context.Context, userID, calendarID string) ([]*domain.OpenedDoor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+doorColumns+` FROM opened_doors
		WHERE user_id = ? AND calendar_id = ?
		ORDER BY day ASC`, userID, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doors []*domain.OpenedDoor
	for rows.Next() {
		door, err := scanOpenedDoor(rows)
		if err != nil {
			return nil, err
		}
		doors = append(doors, door)
	}
	return doors, rows.Err()
}

// countOpenedDoors is a test hook used to verify the anonymous non-dedup
// behavior without widening the store interface.
func (s *Store) countOpenedDoors(ctx context.Context, calendarID string, day int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM opened_doors WHERE calendar_id = ? AND day = ?`, calendarID, day).Scan(&n)
	return n, err
}
