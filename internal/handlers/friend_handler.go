package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/accountability-buddy/api/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// FriendHandler handles HTTP requests related to friendships.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// SendFriendRequestHandler sends a friend request to the user in the path.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	receiverID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	request, err := h.Service.SendFriendRequest(r.Context(), userID, receiverID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to send friend request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, request)
}

// GetPendingRequestsHandler lists pending friend requests addressed to
// the authenticated user.
func (h *FriendHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	requests, err := h.Service.GetPendingRequests(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch friend requests", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// RespondToFriendRequestHandler accepts or rejects a friend request.
func (h *FriendHandler) RespondToFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUserID(w, r); !ok {
		return
	}

	requestID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	var payload struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.RespondToRequest(r.Context(), requestID, payload.Accept); err != nil {
		logrus.WithError(err).Warn("Failed to respond to friend request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Response recorded"})
}

// GetFriendsHandler lists the authenticated user's friends.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	friends, err := h.Service.GetFriends(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch friends", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, friends)
}

// RemoveFriendHandler removes a friendship in both directions.
func (h *FriendHandler) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	friendID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.RemoveFriend(r.Context(), userID, friendID); err != nil {
		http.Error(w, "Failed to remove friend", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}
