package api

import (
	"net/http"

	"github.com/julianstephens/habitify/internal/catalog"
	"github.com/julianstephens/habitify/internal/habits"
)

type statusRequest struct {
	UserID  int64  `json:"user_id"`
	HabitID string `json:"habit_id"`
	Status  string `json:"status"`
}

type habitRef struct {
	UserID  int64  `json:"user_id"`
	HabitID string `json:"habit_id"`
}

// UpdateStatus marks a habit completed or failed for the day
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	res, err := h.habits.SetHabitStatus(r.Context(), req.UserID, req.HabitID, req.Status, "")
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "Habit marked as "+res.UpdatedStatus, res)
}

// Create adds a habit, optionally seeded from a template
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req habits.CreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	res, err := h.habits.CreateHabit(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "Habit created successfully", res)
}

// Delete removes a habit and its history
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req habitRef
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.habits.DeleteHabit(r.Context(), req.UserID, req.HabitID); err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "Habit deleted successfully", map[string]string{"habit_id": req.HabitID})
}

// Update edits a habit's configuration or archives it
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req habits.UpdateRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	view, err := h.habits.UpdateHabit(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "Habit updated successfully", map[string]interface{}{"habit": view})
}

// GetHabits returns the user's habits bucketed by status with overview stats
func (h *Handler) GetHabits(w http.ResponseWriter, r *http.Request) {
	overview, err := h.habits.GetHabits(r.Context(), userIDParam(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "", overview)
}

// GetStatistics returns the detailed statistics report
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.habits.Statistics(r.Context(), userIDParam(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "", stats)
}

// SaveCustom stores a new custom template for the user
func (h *Handler) SaveCustom(w http.ResponseWriter, r *http.Request) {
	var req catalog.SaveCustomRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	id, err := h.catalog.SaveCustom(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "Custom habit template created successfully", map[string]int64{"custom_habit_id": id})
}

// AddCustomToHabits starts tracking a habit from one of the user's templates
func (h *Handler) AddCustomToHabits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID        int64 `json:"user_id"`
		CustomHabitID int64 `json:"custom_habit_id"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	res, err := h.habits.AddCustomToHabits(r.Context(), req.UserID, req.CustomHabitID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "Custom habit added to your habits!", map[string]string{"habit_id": res.HabitID})
}
