package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/mhabit/internal/domain"
)

type createHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type toggleHabitRequest struct {
	Date string `json:"date"`
}

type updateHabitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.HabitCollection{Habits: s.habits.List(r.Context())})
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	h, err := s.habits.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	var req toggleHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := s.habits.Toggle(r.Context(), chi.URLParam(r, "id"), req.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	var req updateHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.habits.Update(r.Context(), id, domain.HabitUpdate{Name: req.Name, Description: req.Description}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Habit updated successfully", HabitID: id})
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.habits.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Habit deleted successfully", HabitID: id})
}

func (s *Server) handleHabitStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.habits.Stats(r.Context()))
}
