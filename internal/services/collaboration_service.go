package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GoalStore is the persistence surface the collaboration service needs
// for goals. Implemented by repository.CollaborationGoalRepository.
type GoalStore interface {
	CreateGoal(ctx context.Context, goal *models.CollaborationGoal) (*models.CollaborationGoal, error)
	GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.CollaborationGoal, error)
	GetGoalsByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.CollaborationGoal, error)
	CountGoalsByParticipant(ctx context.Context, userID primitive.ObjectID) (int64, error)
	UpdateGoal(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error
	SetProgress(ctx context.Context, id primitive.ObjectID, progress float64, status string) error
	AddParticipant(ctx context.Context, goalID, userID primitive.ObjectID) error
	RemoveParticipant(ctx context.Context, goalID, userID primitive.ObjectID) error
	DeleteGoal(ctx context.Context, id primitive.ObjectID) error
}

// InvitationStore is the persistence surface for goal invitations.
// Implemented by repository.InvitationRepository.
type InvitationStore interface {
	CreateInvitations(ctx context.Context, invitations []models.GoalInvitation) ([]models.GoalInvitation, error)
	GetInvitationByID(ctx context.Context, id primitive.ObjectID) (*models.GoalInvitation, error)
	GetPendingByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.GoalInvitation, error)
	GetPendingRecipients(ctx context.Context, goalID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetInvitationsByGoal(ctx context.Context, goalID primitive.ObjectID) ([]models.GoalInvitation, error)
	UpdateInvitationStatus(ctx context.Context, id primitive.ObjectID, status string) error
	DeleteInvitation(ctx context.Context, id primitive.ObjectID) error
	DeleteInvitationsByGoal(ctx context.Context, goalID primitive.ObjectID) (int64, error)
}

// UserStore is the read-only user lookup surface used for friend checks
// and reference expansion. Implemented by repository.UserRepository.
type UserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// CreateGoalInput carries the caller-supplied fields for a new goal.
// Omitted fields fall back to defaults.
type CreateGoalInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Target      float64 `json:"target"`
	Category    string  `json:"category"`
	Visibility  string  `json:"visibility"`
}

// CollaborationService encapsulates the business logic for shared goals
// and their invitation lifecycle.
type CollaborationService struct {
	goals       GoalStore
	invitations InvitationStore
	users       UserStore
}

// NewCollaborationService creates a new instance of CollaborationService.
func NewCollaborationService(goals GoalStore, invitations InvitationStore, users UserStore) *CollaborationService {
	return &CollaborationService{
		goals:       goals,
		invitations: invitations,
		users:       users,
	}
}

// CreateGoal creates a new collaboration goal owned by the creator, who
// becomes its first participant.
func (s *CollaborationService) CreateGoal(ctx context.Context, creatorID primitive.ObjectID, input CreateGoalInput) (*models.GoalDetails, error) {
	if input.Title == "" {
		logrus.Warn("Goal title is empty during creation")
		return nil, apperrors.InvalidInput("goal title is required")
	}

	target := input.Target
	if target == 0 {
		target = models.DefaultGoalTarget
	}
	if target < 0 {
		return nil, apperrors.InvalidInput("goal target must be positive")
	}

	category := input.Category
	if category == "" {
		category = models.DefaultGoalCategory
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, apperrors.InvalidInput("visibility must be public or private")
	}

	goal := &models.CollaborationGoal{
		Title:        input.Title,
		Description:  input.Description,
		Target:       target,
		Category:     category,
		Visibility:   visibility,
		CreatedBy:    creatorID,
		Participants: []primitive.ObjectID{creatorID},
		Progress:     0,
		Status:       models.GoalStatusNotStarted,
	}

	created, err := s.goals.CreateGoal(ctx, goal)
	if err != nil {
		logrus.WithError(err).Error("Failed to create collaboration goal")
		return nil, fmt.Errorf("failed to create goal: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goalID":    created.ID.Hex(),
		"creatorID": creatorID.Hex(),
	}).Info("Collaboration goal created")

	return s.expandGoal(ctx, created)
}

// GetGoal fetches a goal by ID. Private goals are only visible to
// participants.
func (s *CollaborationService) GetGoal(ctx context.Context, goalID string, userID primitive.ObjectID) (*models.GoalDetails, error) {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Visibility != models.VisibilityPublic && !goal.HasParticipant(userID) {
		logrus.WithFields(logrus.Fields{
			"goalID": goalID,
			"userID": userID.Hex(),
		}).Warn("Forbidden goal access attempt")
		return nil, apperrors.Forbidden("you do not have access to this goal")
	}

	return s.expandGoal(ctx, goal)
}

// GetGoalsForUser returns all goals the user participates in, newest first.
func (s *CollaborationService) GetGoalsForUser(ctx context.Context, userID string) ([]models.GoalDetails, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid user ID: %v", err)
	}

	goals, err := s.goals.GetGoalsByParticipant(ctx, objID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch goals for user")
		return nil, fmt.Errorf("failed to fetch goals: %v", err)
	}

	details := make([]models.GoalDetails, 0, len(goals))
	for i := range goals {
		d, err := s.expandGoal(ctx, &goals[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// CountGoalsForUser counts the goals the user participates in.
func (s *CollaborationService) CountGoalsForUser(ctx context.Context, userID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid user ID: %v", err)
	}
	return s.goals.CountGoalsByParticipant(ctx, objID)
}

// updatableGoalFields is the whitelist for UpdateGoal. The creator,
// participant set and progress are never touched by a plain update.
var updatableGoalFields = map[string]bool{
	"title":       true,
	"description": true,
	"target":      true,
	"category":    true,
	"visibility":  true,
}

// UpdateGoal shallow-merges the given updates onto the goal. Creator only.
func (s *CollaborationService) UpdateGoal(ctx context.Context, goalID string, userID primitive.ObjectID, updates map[string]interface{}) (*models.GoalDetails, error) {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.CreatedBy != userID {
		return nil, apperrors.Forbidden("only the creator can update the goal")
	}

	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if updatableGoalFields[k] {
			filtered[k] = v
		}
	}

	if len(filtered) > 0 {
		if err := s.goals.UpdateGoal(ctx, goal.ID, filtered); err != nil {
			logrus.WithError(err).WithField("goalID", goalID).Error("Failed to update goal")
			return nil, fmt.Errorf("failed to update goal: %v", err)
		}
	}

	updated, err := s.goals.GetGoalByID(ctx, goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload goal: %v", err)
	}
	return s.expandGoal(ctx, updated)
}

// UpdateProgress adds the increment to the goal's progress, clamped at
// the target, and recomputes the status. Any participant may report
// progress. The increment may be negative; only the upper bound is
// clamped.
func (s *CollaborationService) UpdateProgress(ctx context.Context, goalID string, userID primitive.ObjectID, increment float64) (*models.CollaborationGoal, error) {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if !goal.HasParticipant(userID) {
		return nil, apperrors.Forbidden("only participants can update progress")
	}

	progress := goal.Progress + increment
	if progress > goal.Target {
		progress = goal.Target
	}
	status := models.StatusAfterProgress(progress, goal.Target)

	if err := s.goals.SetProgress(ctx, goal.ID, progress, status); err != nil {
		logrus.WithError(err).WithField("goalID", goalID).Error("Failed to set goal progress")
		return nil, fmt.Errorf("failed to update progress: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goalID":   goalID,
		"userID":   userID.Hex(),
		"progress": progress,
		"status":   status,
	}).Info("Goal progress updated")

	goal.Progress = progress
	goal.Status = status
	return goal, nil
}

// DeleteGoal removes a goal and every invitation referencing it. The
// invitations go first so an interrupted delete cannot leave them
// pointing at a goal that is already gone.
func (s *CollaborationService) DeleteGoal(ctx context.Context, goalID string, userID primitive.ObjectID) error {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return err
	}

	if goal.CreatedBy != userID {
		return apperrors.Forbidden("only the creator can delete the goal")
	}

	if _, err := s.invitations.DeleteInvitationsByGoal(ctx, goal.ID); err != nil {
		return fmt.Errorf("failed to delete invitations: %v", err)
	}
	if err := s.goals.DeleteGoal(ctx, goal.ID); err != nil {
		return fmt.Errorf("failed to delete goal: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goalID": goalID,
		"userID": userID.Hex(),
	}).Info("Collaboration goal deleted")
	return nil
}

// LeaveGoal removes the calling user from the participant set. The
// creator cannot leave; deleting the goal is the only way out.
func (s *CollaborationService) LeaveGoal(ctx context.Context, goalID string, userID primitive.ObjectID) error {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return err
	}

	if goal.CreatedBy == userID {
		return apperrors.InvalidInput("the creator cannot leave the goal, delete it instead")
	}
	if !goal.HasParticipant(userID) {
		return apperrors.InvalidInput("you are not a participant of this goal")
	}

	if err := s.goals.RemoveParticipant(ctx, goal.ID, userID); err != nil {
		return fmt.Errorf("failed to leave goal: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goalID": goalID,
		"userID": userID.Hex(),
	}).Info("Participant left goal")
	return nil
}

// RemoveParticipant lets the creator remove another participant.
func (s *CollaborationService) RemoveParticipant(ctx context.Context, goalID string, creatorID, participantID primitive.ObjectID) (*models.GoalDetails, error) {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.CreatedBy != creatorID {
		return nil, apperrors.Forbidden("only the creator can remove participants")
	}
	if participantID == creatorID {
		return nil, apperrors.InvalidInput("the creator cannot remove themselves")
	}

	if err := s.goals.RemoveParticipant(ctx, goal.ID, participantID); err != nil {
		return nil, fmt.Errorf("failed to remove participant: %v", err)
	}

	remaining := make([]primitive.ObjectID, 0, len(goal.Participants))
	for _, p := range goal.Participants {
		if p != participantID {
			remaining = append(remaining, p)
		}
	}
	goal.Participants = remaining

	return s.expandGoal(ctx, goal)
}

// loadGoal parses the hex ID and fetches the goal, mapping a missing
// document to a NotFound error.
func (s *CollaborationService) loadGoal(ctx context.Context, goalID string) (*models.CollaborationGoal, error) {
	objID, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid goal ID: %v", err)
	}

	goal, err := s.goals.GetGoalByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("goal not found")
		}
		return nil, fmt.Errorf("failed to get goal: %v", err)
	}
	return goal, nil
}

// expandGoal resolves the creator and participant references to public
// user summaries.
func (s *CollaborationService) expandGoal(ctx context.Context, goal *models.CollaborationGoal) (*models.GoalDetails, error) {
	ids := make([]primitive.ObjectID, 0, len(goal.Participants)+1)
	ids = append(ids, goal.CreatedBy)
	ids = append(ids, goal.Participants...)

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to expand goal users: %v", err)
	}

	byID := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}

	participants := make([]models.UserSummary, 0, len(goal.Participants))
	for _, p := range goal.Participants {
		if summary, ok := byID[p]; ok {
			participants = append(participants, summary)
		}
	}

	return &models.GoalDetails{
		ID:           goal.ID,
		Title:        goal.Title,
		Description:  goal.Description,
		Target:       goal.Target,
		Category:     goal.Category,
		Visibility:   goal.Visibility,
		CreatedBy:    byID[goal.CreatedBy],
		Participants: participants,
		Progress:     goal.Progress,
		Status:       goal.Status,
		CreatedAt:    goal.CreatedAt,
		UpdatedAt:    goal.UpdatedAt,
	}, nil
}
