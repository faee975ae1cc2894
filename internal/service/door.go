package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adventapp/advent-server/internal/clock"
	"github.com/adventapp/advent-server/internal/domain"
	domainerrors "github.com/adventapp/advent-server/internal/errors"
	"github.com/adventapp/advent-server/internal/id"
	"github.com/adventapp/advent-server/internal/store"
)

// DoorService evaluates the door gate and records opened doors. It is the
// only consumer of the injected clock; every date decision goes through it.
type DoorService struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
}

// NewDoorService creates a new door service.
func NewDoorService(store store.Store, clk clock.Clock, logger *slog.Logger) *DoorService {
	return &DoorService{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// OpenResult is the outcome of a successful door open.
type OpenResult struct {
	Day           int                   `json:"day"`
	Entry         *domain.CalendarEntry `json:"entry"`
	AlreadyOpened bool                  `json:"alreadyOpened"`
	OpenedAt      time.Time             `json:"openedAt"`
}

// OpenedDay is one door an identified caller has opened.
type OpenedDay struct {
	Day      int       `json:"day"`
	OpenedAt time.Time `json:"openedAt"`
}

// SharedDay is the public per-door summary exposed before opening.
type SharedDay struct {
	Day      int  `json:"day"`
	HasEntry bool `json:"hasEntry"`
}

// SharedCalendarView is the public representation of a calendar resolved by
// share token. Entry payloads are never included; recipients get them one
// door at a time through Open.
type SharedCalendarView struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Theme       domain.Theme `json:"theme"`
	Days        []SharedDay  `json:"days"`
}

// Open runs the door gate for a calendar resolved by share token.
//
// Evaluation order: day range, calendar lookup, entry presence, then the
// date gate. An entry-less day reports no content even when the gate would
// have allowed it, so recipients can't probe which future days are filled.
func (s *DoorService) Open(ctx context.Context, shareToken string, day int, force bool, identity domain.Identity) (*OpenResult, error) {
	if !domain.DayInRange(day) {
		return nil, domainerrors.InvalidDay(day)
	}

	cal, err := s.store.GetCalendarByShareToken(ctx, shareToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("calendar not found")
		}
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	entry, err := s.store.GetEntryByDay(ctx, cal.ID, day)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NoContent("no content for this day")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	// forceOpen is an owner privilege. A force request from anyone else is
	// ignored, not rejected; the date gate decides as usual.
	if !(force && identity.Owns(cal)) {
		if err := s.dateGate(day); err != nil {
			return nil, err
		}
	}

	opened, alreadyOpened, err := s.recordOpen(ctx, cal.ID, day, identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("door opened",
		"calendar_id", cal.ID,
		"day", day,
		"already_opened", alreadyOpened,
		"anonymous", identity.IsAnonymous(),
	)

	return &OpenResult{
		Day:           day,
		Entry:         entry,
		AlreadyOpened: alreadyOpened,
		OpenedAt:      opened.OpenedAt,
	}, nil
}

// ListOpened returns the doors the identified caller has opened in the
// calendar. Anonymous callers always get an empty list since their opens
// carry no stable identity.
func (s *DoorService) ListOpened(ctx context.Context, shareToken string, identity domain.Identity) ([]OpenedDay, error) {
	cal, err := s.store.GetCalendarByShareToken(ctx, shareToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("calendar not found")
		}
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	userID, ok := identity.UserID()
	if !ok {
		return []OpenedDay{}, nil
	}

	doors, err := s.store.ListOpenedDoors(ctx, userID, cal.ID)
	if err != nil {
		return nil, fmt.Errorf("list opened doors: %w", err)
	}

	days := make([]OpenedDay, 0, len(doors))
	for _, d := range doors {
		days = append(days, OpenedDay{Day: d.Day, OpenedAt: d.OpenedAt})
	}
	return days, nil
}

// SharedCalendar resolves a calendar by share token into its public view.
func (s *DoorService) SharedCalendar(ctx context.Context, shareToken string) (*SharedCalendarView, error) {
	cal, err := s.store.GetCalendarByShareToken(ctx, shareToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("calendar not found")
		}
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	entries, err := s.store.ListEntries(ctx, cal.ID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	filled := make(map[int]bool, len(entries))
	for _, e := range entries {
		filled[e.Day] = true
	}

	days := make([]SharedDay, 0, domain.MaxDay)
	for day := domain.MinDay; day <= domain.MaxDay; day++ {
		days = append(days, SharedDay{Day: day, HasEntry: filled[day]})
	}

	return &SharedCalendarView{
		Title:       cal.Title,
		Description: cal.Description,
		Theme:       cal.Theme,
		Days:        days,
	}, nil
}

// dateGate decides whether a door may be opened today.
// During December a door unlocks on its calendar day; every other month the
// whole calendar is treated as available so recipients can catch up.
func (s *DoorService) dateGate(day int) error {
	now := s.clock.Now()
	if now.Month() != domain.AdventMonth {
		return nil
	}
	if day > now.Day() {
		return domainerrors.DoorLocked("this door cannot be opened yet")
	}
	return nil
}

// recordOpen persists the open. Identified opens are idempotent: the first
// record wins and repeats return it unchanged. Anonymous opens always insert
// a fresh row.
func (s *DoorService) recordOpen(ctx context.Context, calendarID string, day int, identity domain.Identity) (*domain.OpenedDoor, bool, error) {
	userID, identified := identity.UserID()

	if identified {
		existing, err := s.store.GetOpenedDoor(ctx, userID, calendarID, day)
		if err == nil {
			return existing, true, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("get opened door: %w", err)
		}
	}

	doorID, err := id.Generate("door")
	if err != nil {
		return nil, false, fmt.Errorf("generate door ID: %w", err)
	}

	door := &domain.OpenedDoor{
		ID:         doorID,
		CalendarID: calendarID,
		Day:        day,
		OpenedAt:   s.clock.Now(),
	}
	if identified {
		door.UserID = &userID
	}

	if err := s.store.InsertOpenedDoor(ctx, door); err != nil {
		// Two identified requests raced past the lookup; the unique index
		// picked a winner. Re-read it and report the door as already open.
		if identified && errors.Is(err, store.ErrAlreadyExists) {
			winner, readErr := s.store.GetOpenedDoor(ctx, userID, calendarID, day)
			if readErr != nil {
				return nil, false, fmt.Errorf("read winning open: %w", readErr)
			}
			return winner, true, nil
		}
		return nil, false, fmt.Errorf("insert opened door: %w", err)
	}

	return door, false, nil
}
