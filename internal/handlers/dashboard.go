package handlers

import (
	"net/http"

	"tendersdz/internal/dashboard"
)

// DashboardHandler - главный экран: счетчики и ближайшие сроки подачи
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := dashboard.Load(r.Context(), h.Backend)
	if err != nil {
		h.loadFailed(w, r, err, "Failed to load dashboard", "dashboard", "Dashboard", &dashboard.Summary{})
		return
	}
	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", "", summary)
}
