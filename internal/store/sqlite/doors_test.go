package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adventapp/advent-server/internal/domain"
	"github.com/adventapp/advent-server/internal/store"
)

func TestInsertOpenedDoorUniquePerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestCalendar(t, s, "cal-1", "user-1", "tok-1")

	userID := "user-1"
	first := &domain.OpenedDoor{
		ID:         "door-1",
		CalendarID: "cal-1",
		Day:        3,
		UserID:     &userID,
		OpenedAt:   time.Now(),
	}
	if err := s.InsertOpenedDoor(ctx, first); err != nil {
		t.Fatalf("InsertOpenedDoor: %v", err)
	}

	// A second identified insert for the same (user, calendar, day) must hit
	// the unique index. This is the guarantee that keeps the gate idempotent
	// even when two requests race past the lookup.
	dup := &domain.OpenedDoor{
		ID:         "door-2",
		CalendarID: "cal-1",
		Day:        3,
		UserID:     &userID,
		OpenedAt:   time.Now(),
	}
	err := s.InsertOpenedDoor(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// The original record is still the one returned.
	got, err := s.GetOpenedDoor(ctx, "user-1", "cal-1", 3)
	if err != nil {
		t.Fatalf("GetOpenedDoor: %v", err)
	}
	if got.ID != "door-1" {
		t.Errorf("expected original record door-1, got %s", got.ID)
	}
}

func TestInsertOpenedDoorAnonymousNeverDedups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestCalendar(t, s, "cal-1", "user-1", "tok-1")

	for i, id := range []string{"door-a", "door-b", "door-c"} {
		door := &domain.OpenedDoor{
			ID:         id,
			CalendarID: "cal-1",
			Day:        7,
			UserID:     nil,
			OpenedAt:   time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := s.InsertOpenedDoor(ctx, door); err != nil {
			t.Fatalf("InsertOpenedDoor #%d: %v", i, err)
		}
	}

	n, err := s.countOpenedDoors(ctx, "cal-1", 7)
	if err != nil {
		t.Fatalf("countOpenedDoors: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 anonymous rows, got %d", n)
	}
}

func TestGetOpenedDoorNotFound(t *testing.T) {
	s := newTestStore(t)

	insertTestUser(t, s, "user-1")
	insertTestCalendar(t, s, "cal-1", "user-1", "tok-1")

	_, err := s.GetOpenedDoor(context.Background(), "user-1", "cal-1", 12)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListOpenedDoorsFiltersByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestCalendar(t, s, "cal-1", "user-1", "tok-1")

	u1, u2 := "user-1", "user-2"
	doors := []*domain.OpenedDoor{
		{ID: "door-1", CalendarID: "cal-1", Day: 2, UserID: &u1, OpenedAt: time.Now()},
		{ID: "door-2", CalendarID: "cal-1", Day: 1, UserID: &u1, OpenedAt: time.Now()},
		{ID: "door-3", CalendarID: "cal-1", Day: 1, UserID: &u2, OpenedAt: time.Now()},
		{ID: "door-4", CalendarID: "cal-1", Day: 3, UserID: nil, OpenedAt: time.Now()},
	}
	for _, d := range doors {
		if err := s.InsertOpenedDoor(ctx, d); err != nil {
			t.Fatalf("InsertOpenedDoor %s: %v", d.ID, err)
		}
	}

	got, err := s.ListOpenedDoors(ctx, "user-1", "cal-1")
	if err != nil {
		t.Fatalf("ListOpenedDoors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 doors for user-1, got %d", len(got))
	}

	// Ordered by day.
	if got[0].Day != 1 || got[1].Day != 2 {
		t.Errorf("expected days [1 2], got [%d %d]", got[0].Day, got[1].Day)
	}
}

func TestEntryDayRangeCheck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestCalendar(t, s, "cal-1", "user-1", "tok-1")

	now := time.Now()
	entry := &domain.CalendarEntry{
		Record: domain.Record{
			ID:        "ent-bad",
			CreatedAt: now,
			UpdatedAt: now,
		},
		CalendarID: "cal-1",
		Day:        26,
		Title:      "Out of range",
	}
	err := s.CreateEntry(ctx, entry)
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for day 26, got %v", err)
	}
}
