package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adventapp/advent-server/internal/http/response"
	"github.com/adventapp/advent-server/internal/service"
)

// handleCreateCalendar creates a calendar owned by the caller.
func (s *Server) handleCreateCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateCalendarRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	cal, err := s.calendarService.CreateCalendar(ctx, getIdentity(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, cal, s.logger)
}

// handleListCalendars returns the caller's calendars.
func (s *Server) handleListCalendars(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	calendars, err := s.calendarService.ListCalendars(ctx, getIdentity(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, calendars, s.logger)
}

// handleGetCalendar returns a single owned calendar.
func (s *Server) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	cal, err := s.calendarService.GetCalendar(ctx, getIdentity(ctx), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, cal, s.logger)
}

// handleUpdateCalendar applies a partial update to an owned calendar.
func (s *Server) handleUpdateCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req service.UpdateCalendarRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	cal, err := s.calendarService.UpdateCalendar(ctx, getIdentity(ctx), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, cal, s.logger)
}

// handleDeleteCalendar removes an owned calendar and everything behind it.
func (s *Server) handleDeleteCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.calendarService.DeleteCalendar(ctx, getIdentity(ctx), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleCreateEntry adds content behind a door of an owned calendar.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	calendarID := chi.URLParam(r, "id")

	var req service.CreateEntryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.calendarService.CreateEntry(ctx, getIdentity(ctx), calendarID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, entry, s.logger)
}

// handleListEntries returns all entries of an owned calendar.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	calendarID := chi.URLParam(r, "id")

	entries, err := s.calendarService.ListEntries(ctx, getIdentity(ctx), calendarID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entries, s.logger)
}

// handleUpdateEntry applies a partial update to an entry.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req service.UpdateEntryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.calendarService.UpdateEntry(ctx, getIdentity(ctx), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleDeleteEntry removes an entry.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.calendarService.DeleteEntry(ctx, getIdentity(ctx), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
