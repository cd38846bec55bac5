package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// CollaborationHandler handles HTTP requests related to collaboration
// goals and their invitations.
type CollaborationHandler struct {
	Service             *services.CollaborationService
	BadgeService        *services.BadgeService
	ActivityService     *services.ActivityService
	NotificationService *services.NotificationService
}

// NewCollaborationHandler creates a new instance of CollaborationHandler.
func NewCollaborationHandler(
	service *services.CollaborationService,
	badgeService *services.BadgeService,
	activityService *services.ActivityService,
	notificationService *services.NotificationService,
) *CollaborationHandler {
	return &CollaborationHandler{
		Service:             service,
		BadgeService:        badgeService,
		ActivityService:     activityService,
		NotificationService: notificationService,
	}
}

// CreateGoalHandler handles the creation of a new collaboration goal.
func (h *CollaborationHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input services.CreateGoalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during goal creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.CreateGoal(r.Context(), userID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	_ = h.ActivityService.LogActivity(r.Context(), userID, "goal_created", goal.ID, fmt.Sprintf("Created goal: %s", goal.Title))
	if _, _, err := h.BadgeService.RecordEvent(r.Context(), userID, models.BadgeGoalCreated); err != nil {
		logrus.WithError(err).Warn("Failed to record goal_created badge event")
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID.Hex(),
		"goalID": goal.ID.Hex(),
	}).Info("Collaboration goal successfully created")

	respondJSON(w, http.StatusCreated, goal)
}

// GetGoalHandler handles fetching a single goal by its ID.
func (h *CollaborationHandler) GetGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	goal, err := h.Service.GetGoal(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// GetGoalsHandler lists the goals the authenticated user participates in.
func (h *CollaborationHandler) GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	goals, err := h.Service.GetGoalsForUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, goals)
}

// CountGoalsHandler returns how many goals the user participates in.
func (h *CollaborationHandler) CountGoalsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	count, err := h.Service.CountGoalsForUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// UpdateGoalHandler handles updating an existing goal. Creator only.
func (h *CollaborationHandler) UpdateGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.UpdateGoal(r.Context(), mux.Vars(r)["id"], userID, updates)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// UpdateProgressHandler applies a progress increment to a goal.
func (h *CollaborationHandler) UpdateProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Increment float64 `json:"increment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.UpdateProgress(r.Context(), mux.Vars(r)["id"], userID, payload.Increment)
	if err != nil {
		respondError(w, err)
		return
	}

	if goal.Status == models.GoalStatusCompleted {
		_ = h.NotificationService.CreateNotification(
			r.Context(),
			goal.CreatedBy,
			"goal_completed",
			"Goal Completed",
			fmt.Sprintf("The goal %q has been completed!", goal.Title),
			&goal.ID,
		)
		if _, _, err := h.BadgeService.RecordEvent(r.Context(), userID, models.BadgeGoalCompleted); err != nil {
			logrus.WithError(err).Warn("Failed to record goal_completed badge event")
		}
	}

	respondJSON(w, http.StatusOK, goal)
}

// DeleteGoalHandler deletes a goal and its invitations. Creator only.
func (h *CollaborationHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	goalID := mux.Vars(r)["id"]
	if err := h.Service.DeleteGoal(r.Context(), goalID, userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted successfully"})
}

// LeaveGoalHandler removes the authenticated user from a goal.
func (h *CollaborationHandler) LeaveGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Service.LeaveGoal(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Left goal successfully"})
}

// RemoveParticipantHandler lets the creator remove a participant.
func (h *CollaborationHandler) RemoveParticipantHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	participantID, err := parseObjectID(vars["userId"])
	if err != nil {
		http.Error(w, "Invalid participant ID", http.StatusBadRequest)
		return
	}

	goal, err := h.Service.RemoveParticipant(r.Context(), vars["id"], userID, participantID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// SendInvitationsHandler invites friends to a goal.
func (h *CollaborationHandler) SendInvitationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var payload struct {
		RecipientIDs []string `json:"recipient_ids"`
		Message      string   `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	invitations, err := h.Service.SendInvitations(r.Context(), mux.Vars(r)["id"], userID, payload.RecipientIDs, payload.Message)
	if err != nil {
		respondError(w, err)
		return
	}

	for _, invitation := range invitations {
		_ = h.NotificationService.CreateNotification(
			r.Context(),
			invitation.Recipient,
			"invitation_received",
			"Goal Invitation",
			invitation.Message,
			&invitation.ID,
		)
	}

	respondJSON(w, http.StatusCreated, invitations)
}

// GetPendingInvitationsHandler lists the user's pending invitations.
func (h *CollaborationHandler) GetPendingInvitationsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	invitations, err := h.Service.GetPendingInvitations(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invitations)
}

// GetSentInvitationsHandler lists all invitations for a goal. Creator only.
func (h *CollaborationHandler) GetSentInvitationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	invitations, err := h.Service.GetSentInvitations(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invitations)
}

// AcceptInvitationHandler accepts an invitation and joins the goal.
func (h *CollaborationHandler) AcceptInvitationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	invitation, err := h.Service.AcceptInvitation(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondError(w, err)
		return
	}

	_ = h.ActivityService.LogActivity(r.Context(), userID, "invitation_accepted", invitation.ID, fmt.Sprintf("Joined goal: %s", invitation.Goal.Title))
	if _, _, err := h.BadgeService.RecordEvent(r.Context(), userID, models.BadgeInvitationAccepted); err != nil {
		logrus.WithError(err).Warn("Failed to record invitation_accepted badge event")
	}

	respondJSON(w, http.StatusOK, invitation)
}

// DeclineInvitationHandler declines an invitation.
func (h *CollaborationHandler) DeclineInvitationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	invitation, err := h.Service.DeclineInvitation(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invitation)
}

// CancelInvitationHandler cancels a pending invitation.
func (h *CollaborationHandler) CancelInvitationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Service.CancelInvitation(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Invitation cancelled"})
}
