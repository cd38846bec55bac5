package handlers

import (
	"net/http"
	"strconv"

	"github.com/accountability-buddy/api/internal/services"
)

// ActivityHandler handles HTTP requests for the activity log.
type ActivityHandler struct {
	Service *services.ActivityService
}

// NewActivityHandler creates a new instance of ActivityHandler.
func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// GetMyActivitiesHandler lists the authenticated user's recent activity.
func (h *ActivityHandler) GetMyActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	activities, err := h.Service.GetUserActivities(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "Failed to fetch activities", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}
