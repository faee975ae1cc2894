package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/adventapp/advent-server/internal/domain"
	"github.com/adventapp/advent-server/internal/store"
)

// entryColumns is the ordered list of columns selected in entry queries.
// Must match the scan order in scanEntry.
const entryColumns = `id, created_at, updated_at, calendar_id, day, title, body, image_url, video_url, link_url`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a domain.CalendarEntry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.CalendarEntry, error) {
	var e domain.CalendarEntry

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&e.ID,
		&createdAt,
		&updatedAt,
		&e.CalendarID,
		&e.Day,
		&e.Title,
		&e.Body,
		&e.ImageURL,
		&e.VideoURL,
		&e.LinkURL,
	)
	if err != nil {
		return nil, err
	}

	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &e, nil
}

// CreateEntry inserts a calendar entry.
// The day range is also enforced by a CHECK constraint in the schema.
func (s *Store) CreateEntry(ctx context.Context, entry *domain.CalendarEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_entries (id, created_at, updated_at, calendar_id, day, title, body, image_url, video_url, link_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
		entry.CalendarID,
		entry.Day,
		entry.Title,
		entry.Body,
		entry.ImageURL,
		entry.VideoURL,
		entry.LinkURL,
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

// GetEntry retrieves an entry by ID. Returns store.ErrNotFound if missing.
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.CalendarEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM calendar_entries WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntryByDay retrieves the entry behind a given door of a calendar.
// When duplicate days exist the earliest-created entry wins.
// Returns store.ErrNotFound if no entry exists for the day.
func (s *Store) GetEntryByDay(ctx context.Context, calendarID string, day int) (*domain.CalendarEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM calendar_entries
		WHERE calendar_id = ? AND day = ?
		ORDER BY created_at ASC LIMIT 1`, calendarID, day)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns all entries of a calendar ordered by day.
func (s *Store) ListEntries(ctx context.Context, calendarID string) ([]*domain.CalendarEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM calendar_entries WHERE calendar_id = ? ORDER BY day ASC`, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CalendarEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateEntry updates an entry's mutable fields. Returns store.ErrNotFound if missing.
func (s *Store) UpdateEntry(ctx context.Context, entry *domain.CalendarEntry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE calendar_entries
		SET updated_at = ?, day = ?, title = ?, body = ?, image_url = ?, video_url = ?, link_url = ?
		WHERE id = ?`,
		formatTime(entry.UpdatedAt),
		entry.Day,
		entry.Title,
		entry.Body,
		entry.ImageURL,
		entry.VideoURL,
		entry.LinkURL,
		entry.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "CHECK constraint failed") {
			return store.ErrInvalidInput.WithCause(err)
		}
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

// DeleteEntry removes an entry. Returns store.ErrNotFound if missing.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_entries WHERE id = ?`, id)
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
