package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adventapp/advent-server/internal/clock"
	"github.com/adventapp/advent-server/internal/domain"
	domainerrors "github.com/adventapp/advent-server/internal/errors"
	"github.com/adventapp/advent-server/internal/id"
	"github.com/adventapp/advent-server/internal/store"
	"github.com/adventapp/advent-server/internal/store/sqlite"
)

// setupDoorTest creates a door service over a real temp-dir SQLite store,
// frozen at the given time.
func setupDoorTest(t *testing.T, now time.Time) (*DoorService, store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	logger := slog.New(slog.DiscardHandler)
	return NewDoorService(s, clock.Fixed(now), logger), s
}

// createTestUser inserts a user and returns its ID.
func createTestUser(t *testing.T, s store.Store, email string) string {
	t.Helper()

	user := &domain.User{
		Record: domain.Record{
			ID: id.MustGenerate("usr"),
		},
		Email:        email,
		PasswordHash: "$argon2id$test",
		DisplayName:  "Test User",
	}
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user.ID
}

// createTestCalendar inserts a calendar and returns it.
func createTestCalendar(t *testing.T, s store.Store, ownerID string) *domain.Calendar {
	t.Helper()

	token, err := id.ShareToken()
	require.NoError(t, err)

	cal := &domain.Calendar{
		Record: domain.Record{
			ID: id.MustGenerate("cal"),
		},
		OwnerID:    ownerID,
		ShareToken: token,
		Title:      "Test Calendar",
	}
	cal.InitTimestamps()
	require.NoError(t, s.CreateCalendar(context.Background(), cal))
	return cal
}

// createTestEntry inserts an entry for the given day.
func createTestEntry(t *testing.T, s store.Store, calendarID string, day int) {
	t.Helper()

	entry := &domain.CalendarEntry{
		Record: domain.Record{
			ID: id.MustGenerate("ent"),
		},
		CalendarID: calendarID,
		Day:        day,
		Title:      "Surprise",
		Body:       "something nice",
	}
	entry.InitTimestamps()
	require.NoError(t, s.CreateEntry(context.Background(), entry))
}

// fillCalendar inserts entries for every day.
func fillCalendar(t *testing.T, s store.Store, calendarID string) {
	t.Helper()
	for day := domain.MinDay; day <= domain.MaxDay; day++ {
		createTestEntry(t, s, calendarID, day)
	}
}

func december(day int) time.Time {
	return time.Date(2026, time.December, day, 9, 0, 0, 0, time.UTC)
}

func TestOpen_IdentifiedIsIdempotent(t *testing.T) {
	svc, s := setupDoorTest(t, december(10))
	ctx := context.Background()

	ownerID := createTestUser(t, s, "owner@example.com")
	visitorID := createTestUser(t, s, "visitor@example.com")
	cal := createTestCalendar(t, s, ownerID)
	createTestEntry(t, s, cal.ID, 5)

	visitor := domain.IdentifiedUser(visitorID)

	first, err := svc.Open(ctx, cal.ShareToken, 5, false, visitor)
	require.NoError(t, err)
	assert.False(t, first.AlreadyOpened)
	assert.Equal(t, 5, first.Day)
	require.NotNil(t, first.Entry)
	assert.Equal(t, "Surprise", first.Entry.Title)

	second, err := svc.Open(ctx, cal.ShareToken, 5, false, visitor)
	require.NoError(t, err)
	assert.True(t, second.AlreadyOpened)
	assert.True(t, second.OpenedAt.Equal(first.OpenedAt), "repeat open must return the original timestamp")

	opened, err := svc.ListOpened(ctx, cal.ShareToken, visitor)
	require.NoError(t, err)
	require.Len(t, opened, 1)
	assert.Equal(t, 5, opened[0].Day)
}

func TestOpen_DayOutOfRange(t *testing.T) {
	svc, s := setupDoorTest(t, december(25))
	ctx := context.Background()

	ownerID := createTestUser(t, s, "owner@example.com")
	cal := createTestCalendar(t, s, ownerID)
	fillCalendar(t, s, cal.ID)

	for _, day := range []int{0, 26, -1, 100} {
		_, err := svc.Open(ctx, cal.ShareToken, day, false, domain.Anonymous())
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "day %d should be rejected, got %v", day, err)
	}
}

func TestOpen_UnknownShareToken(t *testing.T) {
	svc, _ := setupDoorTest(t, december(10))

	_, err := svc.Open(context.Background(), "no-such-token", 5, false, domain.Anonymous())
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestOpen_MissingEntryBeforeDateGate(t *testing.T) {
	// Day 20 is both locked (it's Dec 10) and entry-less. The caller must see
	// NoContent, not DoorLocked, so future filled days can't be probed.
	svc, s := setupDoorTest(t, december(10))
	ctx := context.Background()

	ownerID := createTestUser(t, s, "owner@example.com")
	cal := createTestCalendar(t, s, ownerID)
	createTestEntry(t, s, cal.ID, 5)

	_, err := svc.Open(ctx, cal.ShareToken, 20, false, domain.Anonymous())
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNoContent))

	// Same for a day the gate would allow.
	_, err = svc.Open(ctx, cal.ShareToken, 3, false, domain.Anonymous())
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNoContent))
}

func TestOpen_DecemberGate(t *testing.T) {
	svc, s := setupDoorTest(t, december(10))
	ctx := context.Background()

	ownerID := createTestUser(t, s, "owner@example.com")
	cal := createTestCalendar(t, s, ownerID)
	fillCalendar(t, s, cal.ID)

	// Today's door opens.
	res, err := svc.Open(ctx, cal.ShareToken, 10, false, domain.Anonymous())
	require.NoError(t, err)
	assert.Equal(t, 10, res.Day)

	// Tomorrow's door is locked.
	_, err = svc.Open(ctx, cal.ShareToken, 11, false, domain.Anonymous())
	assert.True(t, domainerrors.Is(err, domainerrors.ErrDoorLocked))

	// Past doors stay open.
	_, err = svc.Open(ctx, cal.ShareToken, 1, false, domain.Anonymous())
	assert.NoError(t, err)
}

func TestOpen_OutsideDecemberEverythingOpens(t *testing.T) {
	for _, month := range []time.Month{time.January, time.June, time.November} {
		now := time.Date(2026, month, 3, 9, 0, 0, 0, time.UTC)
		svc, s := setupDoorTest(t, now)
		ctx := context.Background()

		ownerID := createTestUser(t, s, "owner@example.com")
		cal := createTestCalendar(t, s, ownerID)
		createTestEntry(t, s, cal.ID, 25)

		_, err := svc.Open(ctx, cal.ShareToken, 25, false, domain.Anonymous())
		assert.NoError(t, err, "day 25 should open in %s", month)
	}
}

func TestOpen_ForceOpenOwnerOnly(t *testing.T) {
	svc, s := setupDoorTest(t, december(1))
	ctx := context.Background()

	ownerID := createTestUser(t, s, "owner@example.com")
	visitorID := createTestUser(t, s, "visitor@example.com")
	cal := createTestCalendar(t, s, ownerID)
	fillCalendar(t, s, cal.ID)

	// Owner can preview a future door.
	res, err := svc.Open(ctx, cal.ShareToken, 25, true, domain.IdentifiedUser(ownerID))
	require.NoError(t, err)
	assert.Equal(t, 25, res.Day)

	// Non-owner force is ignored, the gate still applies.
	_, err = svc.Open(ctx, cal.ShareToken, 25, true, domain.IdentifiedUser(visitorID))
	assert.True(t, domainerrors.Is(err, domainerrors.ErrDoorLocked))

	// Anonymous force is ignored too.
	_, err = svc.Open(ctx, cal.ShareToken, 25, true, domain.Anonymous())
	assert.True(t, domainerrors.Is(err, domainerrors.ErrDoorLocked))
}

func TestOpen_AnonymousNeverDeduplicated(t *testing.T) {
	svc, s := setupDoorTest(t, december(10))
	ctx := context.Background()

	ownerID := createTestUser(t, s, "owner@example.com")
	cal := createTestCalendar(t, s, ownerID)
	createTestEntry(t, s, cal.ID, 5)

	for i := 0; i < 3; i++ {
		res, err := svc.Open(ctx, cal.ShareToken, 5, false, domain.Anonymous())
		require.NoError(t, err)
		assert.False(t, res.AlreadyOpened, "anonymous open #%d must not report already opened", i+1)
	}

	// Anonymous callers have no open history.
	opened, err := svc.ListOpened(ctx, cal.ShareToken, domain.Anonymous())
	require.NoError(t, err)
	assert.Empty(t, opened)
}

func TestOpen_EndToEndScenario(t *testing.T) {
	// December 5th: a recipient opens door 5 of a shared calendar, sees the
	// entry, and a repeat open reports the door as already opened.
	svc, s := setupDoorTest(t, december(5))
	ctx := context.Background()

	ownerID := createTestUser(t, s, "owner@example.com")
	recipientID := createTestUser(t, s, "recipient@example.com")
	cal := createTestCalendar(t, s, ownerID)
	createTestEntry(t, s, cal.ID, 5)

	recipient := domain.IdentifiedUser(recipientID)

	res, err := svc.Open(ctx, cal.ShareToken, 5, false, recipient)
	require.NoError(t, err)
	assert.False(t, res.AlreadyOpened)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "something nice", res.Entry.Body)

	repeat, err := svc.Open(ctx, cal.ShareToken, 5, false, recipient)
	require.NoError(t, err)
	assert.True(t, repeat.AlreadyOpened)
	assert.True(t, repeat.OpenedAt.Equal(res.OpenedAt))
}

func TestSharedCalendar(t *testing.T) {
	svc, s := setupDoorTest(t, december(10))
	ctx := context.Background()

	ownerID := createTestUser(t, s, "owner@example.com")
	cal := createTestCalendar(t, s, ownerID)
	createTestEntry(t, s, cal.ID, 1)
	createTestEntry(t, s, cal.ID, 24)

	view, err := svc.SharedCalendar(ctx, cal.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, "Test Calendar", view.Title)
	require.Len(t, view.Days, domain.MaxDay)

	for _, d := range view.Days {
		wantEntry := d.Day == 1 || d.Day == 24
		assert.Equal(t, wantEntry, d.HasEntry, "day %d", d.Day)
	}

	_, err = svc.SharedCalendar(ctx, "no-such-token")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
