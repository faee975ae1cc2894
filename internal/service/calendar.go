package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adventapp/advent-server/internal/domain"
	domainerrors "github.com/adventapp/advent-server/internal/errors"
	"github.com/adventapp/advent-server/internal/id"
	"github.com/adventapp/advent-server/internal/store"
)

// CalendarService manages calendars and their entries with owner-only mutation.
type CalendarService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCalendarService creates a new calendar service.
func NewCalendarService(store store.Store, logger *slog.Logger) *CalendarService {
	return &CalendarService{
		store:  store,
		logger: logger,
	}
}

// CreateCalendarRequest contains the data for a new calendar.
type CreateCalendarRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Background  string `json:"background" validate:"max=100"`
	DoorStyle   string `json:"doorStyle" validate:"max=100"`
	AccentColor string `json:"accentColor" validate:"omitempty,hexcolor"`
}

// UpdateCalendarRequest contains partial calendar updates. Nil fields are
// left unchanged.
type UpdateCalendarRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Background  *string `json:"background" validate:"omitempty,max=100"`
	DoorStyle   *string `json:"doorStyle" validate:"omitempty,max=100"`
	AccentColor *string `json:"accentColor" validate:"omitempty,hexcolor"`
}

// CreateEntryRequest contains the content for one door of a calendar.
type CreateEntryRequest struct {
	Day      int    `json:"day" validate:"required,gte=1,lte=25"`
	Title    string `json:"title" validate:"required,max=200"`
	Body     string `json:"body" validate:"max=10000"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	VideoURL string `json:"videoUrl" validate:"omitempty,url"`
	LinkURL  string `json:"linkUrl" validate:"omitempty,url"`
}

// UpdateEntryRequest contains partial entry updates. Nil fields are left
// unchanged.
type UpdateEntryRequest struct {
	Day      *int    `json:"day" validate:"omitempty,gte=1,lte=25"`
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Body     *string `json:"body" validate:"omitempty,max=10000"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	VideoURL *string `json:"videoUrl" validate:"omitempty,url"`
	LinkURL  *string `json:"linkUrl" validate:"omitempty,url"`
}

// CreateCalendar creates a calendar owned by the caller with a fresh share token.
func (s *CalendarService) CreateCalendar(ctx context.Context, identity domain.Identity, req CreateCalendarRequest) (*domain.Calendar, error) {
	userID, ok := identity.UserID()
	if !ok {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	calID, err := id.Generate("cal")
	if err != nil {
		return nil, fmt.Errorf("generate calendar ID: %w", err)
	}
	shareToken, err := id.ShareToken()
	if err != nil {
		return nil, fmt.Errorf("generate share token: %w", err)
	}

	cal := &domain.Calendar{
		Record: domain.Record{
			ID: calID,
		},
		OwnerID:     userID,
		ShareToken:  shareToken,
		Title:       req.Title,
		Description: req.Description,
		Theme: domain.Theme{
			Background:  req.Background,
			DoorStyle:   req.DoorStyle,
			AccentColor: req.AccentColor,
		},
	}
	cal.InitTimestamps()

	if err := s.store.CreateCalendar(ctx, cal); err != nil {
		return nil, fmt.Errorf("create calendar: %w", err)
	}

	s.logger.Info("calendar created", "calendar_id", calID, "owner_id", userID)
	return cal, nil
}

// GetCalendar returns a calendar for its owner.
func (s *CalendarService) GetCalendar(ctx context.Context, identity domain.Identity, calendarID string) (*domain.Calendar, error) {
	return s.ownedCalendar(ctx, identity, calendarID)
}

// ListCalendars returns all calendars owned by the caller.
func (s *CalendarService) ListCalendars(ctx context.Context, identity domain.Identity) ([]*domain.Calendar, error) {
	userID, ok := identity.UserID()
	if !ok {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	calendars, err := s.store.ListCalendarsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	return calendars, nil
}

// UpdateCalendar applies a partial update to an owned calendar.
func (s *CalendarService) UpdateCalendar(ctx context.Context, identity domain.Identity, calendarID string, req UpdateCalendarRequest) (*domain.Calendar, error) {
	cal, err := s.ownedCalendar(ctx, identity, calendarID)
	if err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.Title != nil {
		cal.Title = *req.Title
	}
	if req.Description != nil {
		cal.Description = *req.Description
	}
	if req.Background != nil {
		cal.Theme.Background = *req.Background
	}
	if req.DoorStyle != nil {
		cal.Theme.DoorStyle = *req.DoorStyle
	}
	if req.AccentColor != nil {
		cal.Theme.AccentColor = *req.AccentColor
	}
	cal.Touch()

	if err := s.store.UpdateCalendar(ctx, cal); err != nil {
		return nil, fmt.Errorf("update calendar: %w", err)
	}
	return cal, nil
}

// DeleteCalendar removes an owned calendar. Entries and opened doors cascade.
func (s *CalendarService) DeleteCalendar(ctx context.Context, identity domain.Identity, calendarID string) error {
	cal, err := s.ownedCalendar(ctx, identity, calendarID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteCalendar(ctx, cal.ID); err != nil {
		return fmt.Errorf("delete calendar: %w", err)
	}

	s.logger.Info("calendar deleted", "calendar_id", cal.ID, "owner_id", cal.OwnerID)
	return nil
}

// CreateEntry adds content behind a door of an owned calendar.
// The API keeps at most one entry per day, so duplicate days are rejected
// even though the store itself does not enforce day uniqueness.
func (s *CalendarService) CreateEntry(ctx context.Context, identity domain.Identity, calendarID string, req CreateEntryRequest) (*domain.CalendarEntry, error) {
	cal, err := s.ownedCalendar(ctx, identity, calendarID)
	if err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	entryID, err := id.Generate("ent")
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	entry := &domain.CalendarEntry{
		Record: domain.Record{
			ID: entryID,
		},
		CalendarID: cal.ID,
		Day:        req.Day,
		Title:      req.Title,
		Body:       req.Body,
		ImageURL:   req.ImageURL,
		VideoURL:   req.VideoURL,
		LinkURL:    req.LinkURL,
	}
	entry.InitTimestamps()

	if !entry.HasContent() {
		return nil, domainerrors.Validation("entry needs at least one of body, imageUrl, videoUrl, or linkUrl")
	}

	if _, err := s.store.GetEntryByDay(ctx, cal.ID, req.Day); err == nil {
		return nil, domainerrors.Conflict(fmt.Sprintf("day %d already has an entry", req.Day))
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing entry: %w", err)
	}

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.logger.Info("entry created", "entry_id", entryID, "calendar_id", cal.ID, "day", req.Day)
	return entry, nil
}

// ListEntries returns all entries of an owned calendar ordered by day.
func (s *CalendarService) ListEntries(ctx context.Context, identity domain.Identity, calendarID string) ([]*domain.CalendarEntry, error) {
	cal, err := s.ownedCalendar(ctx, identity, calendarID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntries(ctx, cal.ID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry applies a partial update to an entry of an owned calendar.
func (s *CalendarService) UpdateEntry(ctx context.Context, identity domain.Identity, entryID string, req UpdateEntryRequest) (*domain.CalendarEntry, error) {
	entry, err := s.ownedEntry(ctx, identity, entryID)
	if err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.Day != nil && *req.Day != entry.Day {
		if _, err := s.store.GetEntryByDay(ctx, entry.CalendarID, *req.Day); err == nil {
			return nil, domainerrors.Conflict(fmt.Sprintf("day %d already has an entry", *req.Day))
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("check existing entry: %w", err)
		}
		entry.Day = *req.Day
	}
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Body != nil {
		entry.Body = *req.Body
	}
	if req.ImageURL != nil {
		entry.ImageURL = *req.ImageURL
	}
	if req.VideoURL != nil {
		entry.VideoURL = *req.VideoURL
	}
	if req.LinkURL != nil {
		entry.LinkURL = *req.LinkURL
	}
	entry.Touch()

	if !entry.HasContent() {
		return nil, domainerrors.Validation("entry needs at least one of body, imageUrl, videoUrl, or linkUrl")
	}

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes an entry of an owned calendar.
func (s *CalendarService) DeleteEntry(ctx context.Context, identity domain.Identity, entryID string) error {
	entry, err := s.ownedEntry(ctx, identity, entryID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteEntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.logger.Info("entry deleted", "entry_id", entry.ID, "calendar_id", entry.CalendarID)
	return nil
}

// ownedCalendar loads a calendar and enforces the uniform mutation guard:
// Unauthorized for anonymous callers, Forbidden for non-owners.
func (s *CalendarService) ownedCalendar(ctx context.Context, identity domain.Identity, calendarID string) (*domain.Calendar, error) {
	if identity.IsAnonymous() {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	cal, err := s.store.GetCalendar(ctx, calendarID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("calendar not found")
		}
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	if !identity.Owns(cal) {
		return nil, domainerrors.Forbidden("not your calendar")
	}
	return cal, nil
}

// ownedEntry loads an entry and enforces ownership via its calendar.
func (s *CalendarService) ownedEntry(ctx context.Context, identity domain.Identity, entryID string) (*domain.CalendarEntry, error) {
	if identity.IsAnonymous() {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	if _, err := s.ownedCalendar(ctx, identity, entry.CalendarID); err != nil {
		return nil, err
	}
	return entry, nil
}
