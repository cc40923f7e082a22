package api

import (
	"net/http"
)

// ResetDaily runs the rollover for today
func (h *Handler) ResetDaily(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.Rollover(r.Context(), h.engine.Today())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "Daily reset completed", res)
}

// ManualReset runs the rollover for ?date= or a JSON date, today by default
func (h *Handler) ManualReset(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" && r.Method == http.MethodPost {
		var req struct {
			Date string `json:"date"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			respondError(w, r, err)
			return
		}
		date = req.Date
	}

	res, err := h.engine.ManualReset(r.Context(), date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, "Manual reset completed", res)
}
