package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adventapp/advent-server/internal/domain"
	"github.com/adventapp/advent-server/internal/store"
)

func TestCreateAndGetCalendar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	cal := &domain.Calendar{
		Record: domain.Record{
			ID:        "cal-1",
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:     "user-1",
		ShareToken:  "shareme123",
		Title:       "Advent 2026",
		Description: "For the family",
		Theme: domain.Theme{
			Background:  "snow",
			DoorStyle:   "classic",
			AccentColor: "#b91c1c",
		},
	}

	if err := s.CreateCalendar(ctx, cal); err != nil {
		t.Fatalf("CreateCalendar: %v", err)
	}

	got, err := s.GetCalendar(ctx, "cal-1")
	if err != nil {
		t.Fatalf("GetCalendar: %v", err)
	}

	if got.OwnerID != cal.OwnerID {
		t.Errorf("OwnerID: got %q, want %q", got.OwnerID, cal.OwnerID)
	}
	if got.ShareToken != cal.ShareToken {
		t.Errorf("ShareToken: got %q, want %q", got.ShareToken, cal.ShareToken)
	}
	if got.Title != cal.Title {
		t.Errorf("Title: got %q, want %q", got.Title, cal.Title)
	}
	if got.Theme != cal.Theme {
		t.Errorf("Theme: got %+v, want %+v", got.Theme, cal.Theme)
	}
	if got.CreatedAt.Unix() != cal.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, cal.CreatedAt)
	}
}

func TestGetCalendarByShareToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestCalendar(t, s, "cal-1", "user-1", "token-abc")

	got, err := s.GetCalendarByShareToken(ctx, "token-abc")
	if err != nil {
		t.Fatalf("GetCalendarByShareToken: %v", err)
	}
	if got.ID != "cal-1" {
		t.Errorf("ID: got %q, want cal-1", got.ID)
	}

	_, err = s.GetCalendarByShareToken(ctx, "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateShareTokenRejected(t *testing.T) {
	s := newTestStore(t)

	insertTestUser(t, s, "user-1")
	insertTestCalendar(t, s, "cal-1", "user-1", "token-dup")

	now := time.Now()
	dup := &domain.Calendar{
		Record: domain.Record{
			ID:        "cal-2",
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:    "user-1",
		ShareToken: "token-dup",
		Title:      "Other",
	}
	err := s.CreateCalendar(context.Background(), dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListCalendarsByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestCalendar(t, s, "cal-1", "user-1", "tok-1")
	insertTestCalendar(t, s, "cal-2", "user-1", "tok-2")
	insertTestCalendar(t, s, "cal-3", "user-2", "tok-3")

	calendars, err := s.ListCalendarsByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListCalendarsByOwner: %v", err)
	}
	if len(calendars) != 2 {
		t.Fatalf("expected 2 calendars, got %d", len(calendars))
	}
	for _, c := range calendars {
		if c.OwnerID != "user-1" {
			t.Errorf("unexpected owner %q", c.OwnerID)
		}
	}
}

func TestUpdateCalendar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestCalendar(t, s, "cal-1", "user-1", "tok-1")

	cal, err := s.GetCalendar(ctx, "cal-1")
	if err != nil {
		t.Fatalf("GetCalendar: %v", err)
	}

	cal.Title = "Renamed"
	cal.Theme.AccentColor = "#166534"
	cal.Touch()

	if err := s.UpdateCalendar(ctx, cal); err != nil {
		t.Fatalf("UpdateCalendar: %v", err)
	}

	got, err := s.GetCalendar(ctx, "cal-1")
	if err != nil {
		t.Fatalf("GetCalendar after update: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title: got %q, want Renamed", got.Title)
	}
	if got.Theme.AccentColor != "#166534" {
		t.Errorf("AccentColor: got %q", got.Theme.AccentColor)
	}
}

func TestDeleteCalendarCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestCalendar(t, s, "cal-1", "user-1", "tok-1")

	now := time.Now()
	entry := &domain.CalendarEntry{
		Record: domain.Record{
			ID:        "ent-1",
			CreatedAt: now,
			UpdatedAt: now,
		},
		CalendarID: "cal-1",
		Day:        5,
		Title:      "Day five",
		Body:       "hello",
	}
	if err := s.CreateEntry(ctx, entry); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	userID := "user-1"
	door := &domain.OpenedDoor{
		ID:         "door-1",
		CalendarID: "cal-1",
		Day:        5,
		UserID:     &userID,
		OpenedAt:   now,
	}
	if err := s.InsertOpenedDoor(ctx, door); err != nil {
		t.Fatalf("InsertOpenedDoor: %v", err)
	}

	if err := s.DeleteCalendar(ctx, "cal-1"); err != nil {
		t.Fatalf("DeleteCalendar: %v", err)
	}

	if _, err := s.GetEntry(ctx, "ent-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("entry should cascade on delete, got %v", err)
	}
	if _, err := s.GetOpenedDoor(ctx, "user-1", "cal-1", 5); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("opened door should cascade on delete, got %v", err)
	}
}
