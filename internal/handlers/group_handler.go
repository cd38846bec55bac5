package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/internal/services"
	"github.com/gorilla/mux"
)

// GroupHandler handles HTTP requests related to topical groups.
type GroupHandler struct {
	Service *services.GroupService
}

// NewGroupHandler creates a new instance of GroupHandler.
func NewGroupHandler(service *services.GroupService) *GroupHandler {
	return &GroupHandler{Service: service}
}

// CreateGroupHandler creates a new group.
func (h *GroupHandler) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var group models.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.CreateGroup(r.Context(), userID, &group)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetGroupHandler fetches a group by ID.
func (h *GroupHandler) GetGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	group, err := h.Service.GetGroup(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, group)
}

// GetMyGroupsHandler lists the groups the user belongs to.
func (h *GroupHandler) GetMyGroupsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	groups, err := h.Service.GetGroupsForUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, groups)
}

// GetPublicGroupsHandler lists all public groups.
func (h *GroupHandler) GetPublicGroupsHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.GetPublicGroups(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, groups)
}

// JoinGroupHandler adds the user to a public group.
func (h *GroupHandler) JoinGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Service.JoinGroup(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Joined group"})
}

// LeaveGroupHandler removes the user from a group.
func (h *GroupHandler) LeaveGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Service.LeaveGroup(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Left group"})
}

// DeleteGroupHandler deletes a group. Creator only.
func (h *GroupHandler) DeleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteGroup(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Group deleted"})
}
