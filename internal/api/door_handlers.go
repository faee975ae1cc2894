package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adventapp/advent-server/internal/http/response"
)

// handleGetSharedCalendar returns the public view of a shared calendar.
func (s *Server) handleGetSharedCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")

	view, err := s.doorService.SharedCalendar(ctx, token)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, view, s.logger)
}

// handleOpenDoor runs the door gate for one day of a shared calendar.
// `?force=true` is honored only for the calendar's owner.
func (s *Server) handleOpenDoor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")

	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		response.BadRequest(w, "Day must be a number", s.logger)
		return
	}

	force := r.URL.Query().Get("force") == "true"

	result, err := s.doorService.Open(ctx, token, day, force, getIdentity(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleListOpenedDoors returns the days the caller has opened in a shared
// calendar. Always empty for anonymous callers.
func (s *Server) handleListOpenedDoors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")

	opened, err := s.doorService.ListOpened(ctx, token, getIdentity(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, opened, s.logger)
}
