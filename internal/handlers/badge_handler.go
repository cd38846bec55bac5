package handlers

import (
	"net/http"

	"github.com/accountability-buddy/api/internal/services"
)

// BadgeHandler handles HTTP requests related to badges.
type BadgeHandler struct {
	Service *services.BadgeService
}

// NewBadgeHandler creates a new instance of BadgeHandler.
func NewBadgeHandler(service *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{Service: service}
}

// GetMyBadgesHandler lists the authenticated user's badges.
func (h *BadgeHandler) GetMyBadgesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	badges, err := h.Service.GetUserBadges(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch badges", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, badges)
}
