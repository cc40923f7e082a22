package api

import (
	"net/http"
)

type healthStatus struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
}

// Health reports whether the database answers
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	if !dbConnected {
		respondJSON(w, http.StatusServiceUnavailable, &Response{
			Success: false,
			Message: "Database unavailable",
			Data:    healthStatus{Status: "degraded"},
		})
		return
	}
	respondSuccess(w, "", healthStatus{Status: "healthy", Database: true})
}
