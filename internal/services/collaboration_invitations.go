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

// Invitation lifecycle: pending -> accepted | declined (terminal), or
// pending -> deleted via cancellation. Accepted and declined are dead
// ends; cancellation removes the document instead of adding a status.

// SendInvitations invites friends of the goal creator to join the goal.
// Recipients already participating or already holding a pending
// invitation are silently dropped; if nothing survives the filters the
// call fails.
func (s *CollaborationService) SendInvitations(ctx context.Context, goalID string, senderID primitive.ObjectID, recipientIDs []string, message string) ([]models.GoalInvitation, error) {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.CreatedBy != senderID {
		return nil, apperrors.Forbidden("only the creator can send invitations")
	}

	sender, err := s.users.GetUserByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("sender not found")
		}
		return nil, fmt.Errorf("failed to fetch sender: %v", err)
	}

	friends := make(map[primitive.ObjectID]bool, len(sender.Friends))
	for _, f := range sender.Friends {
		friends[f] = true
	}

	// Friends of the sender only
	var validRecipients []primitive.ObjectID
	for _, raw := range recipientIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			continue
		}
		if friends[id] {
			validRecipients = append(validRecipients, id)
		}
	}
	if len(validRecipients) == 0 {
		return nil, apperrors.InvalidInput("no valid recipients: you can only invite your friends")
	}

	pending, err := s.invitations.GetPendingRecipients(ctx, goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending invitations: %v", err)
	}
	alreadyPending := make(map[primitive.ObjectID]bool, len(pending))
	for _, p := range pending {
		alreadyPending[p] = true
	}

	// Drop everyone already in or already invited
	var recipients []primitive.ObjectID
	for _, id := range validRecipients {
		if goal.HasParticipant(id) || alreadyPending[id] {
			continue
		}
		recipients = append(recipients, id)
	}
	if len(recipients) == 0 {
		return nil, apperrors.InvalidInput("all recipients are already participating or invited")
	}

	if message == "" {
		message = fmt.Sprintf("You have been invited to join the goal %q", goal.Title)
	}

	invitations := make([]models.GoalInvitation, 0, len(recipients))
	for _, recipient := range recipients {
		invitations = append(invitations, models.GoalInvitation{
			GoalID:    goal.ID,
			SenderID:  senderID,
			Recipient: recipient,
			Message:   message,
			Status:    models.InvitationStatusPending,
		})
	}

	created, err := s.invitations.CreateInvitations(ctx, invitations)
	if err != nil {
		logrus.WithError(err).WithField("goalID", goalID).Error("Failed to create invitations")
		return nil, fmt.Errorf("failed to create invitations: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goalID":   goalID,
		"senderID": senderID.Hex(),
		"count":    len(created),
	}).Info("Invitations sent")
	return created, nil
}

// GetPendingInvitations returns the pending invitations addressed to a
// user, newest first, with the goal and sender expanded. Invitations
// whose goal has since been deleted are skipped.
func (s *CollaborationService) GetPendingInvitations(ctx context.Context, userID string) ([]models.InvitationDetails, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid user ID: %v", err)
	}

	invitations, err := s.invitations.GetPendingByRecipient(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending invitations: %v", err)
	}

	senderIDs := make([]primitive.ObjectID, 0, len(invitations))
	for _, inv := range invitations {
		senderIDs = append(senderIDs, inv.SenderID)
	}
	senders, err := s.userSummaries(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.InvitationDetails, 0, len(invitations))
	for _, inv := range invitations {
		goal, err := s.goals.GetGoalByID(ctx, inv.GoalID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, fmt.Errorf("failed to expand invitation goal: %v", err)
		}
		details = append(details, models.InvitationDetails{
			ID:        inv.ID,
			Goal:      goal.Summary(),
			Sender:    senders[inv.SenderID],
			Message:   inv.Message,
			Status:    inv.Status,
			CreatedAt: inv.CreatedAt,
		})
	}
	return details, nil
}

// GetSentInvitations returns every invitation for a goal, any status,
// newest first, with recipients expanded. Creator only.
func (s *CollaborationService) GetSentInvitations(ctx context.Context, goalID string, userID primitive.ObjectID) ([]models.SentInvitation, error) {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.CreatedBy != userID {
		return nil, apperrors.Forbidden("only the creator can view sent invitations")
	}

	invitations, err := s.invitations.GetInvitationsByGoal(ctx, goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invitations: %v", err)
	}

	recipientIDs := make([]primitive.ObjectID, 0, len(invitations))
	for _, inv := range invitations {
		recipientIDs = append(recipientIDs, inv.Recipient)
	}
	recipients, err := s.userSummaries(ctx, recipientIDs)
	if err != nil {
		return nil, err
	}

	sent := make([]models.SentInvitation, 0, len(invitations))
	for _, inv := range invitations {
		sent = append(sent, models.SentInvitation{
			ID:        inv.ID,
			Recipient: recipients[inv.Recipient],
			Message:   inv.Message,
			Status:    inv.Status,
			CreatedAt: inv.CreatedAt,
		})
	}
	return sent, nil
}

// AcceptInvitation marks a pending invitation accepted and joins the
// recipient to the goal. If the goal was deleted in the meantime the
// invitation is still accepted and no participant is added.
func (s *CollaborationService) AcceptInvitation(ctx context.Context, invitationID string, userID primitive.ObjectID) (*models.InvitationDetails, error) {
	invitation, err := s.loadInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if invitation.Recipient != userID {
		return nil, apperrors.Forbidden("only the recipient can accept an invitation")
	}
	if invitation.Status != models.InvitationStatusPending {
		return nil, apperrors.Conflict("invitation is already %s", invitation.Status)
	}

	if err := s.invitations.UpdateInvitationStatus(ctx, invitation.ID, models.InvitationStatusAccepted); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %v", err)
	}
	invitation.Status = models.InvitationStatusAccepted

	details := models.InvitationDetails{
		ID:        invitation.ID,
		Message:   invitation.Message,
		Status:    invitation.Status,
		CreatedAt: invitation.CreatedAt,
	}

	goal, err := s.goals.GetGoalByID(ctx, invitation.GoalID)
	switch {
	case err == nil:
		if !goal.HasParticipant(userID) {
			if err := s.goals.AddParticipant(ctx, goal.ID, userID); err != nil {
				return nil, fmt.Errorf("failed to join goal: %v", err)
			}
		}
		details.Goal = goal.Summary()
	case errors.Is(err, mongo.ErrNoDocuments):
		// Goal deleted since the invite went out; the accept stands.
		logrus.WithFields(logrus.Fields{
			"invitationID": invitationID,
			"goalID":       invitation.GoalID.Hex(),
		}).Warn("Accepted invitation for a deleted goal")
	default:
		return nil, fmt.Errorf("failed to fetch goal: %v", err)
	}

	senders, err := s.userSummaries(ctx, []primitive.ObjectID{invitation.SenderID})
	if err != nil {
		return nil, err
	}
	details.Sender = senders[invitation.SenderID]

	logrus.WithFields(logrus.Fields{
		"invitationID": invitationID,
		"userID":       userID.Hex(),
	}).Info("Invitation accepted")
	return &details, nil
}

// DeclineInvitation marks a pending invitation declined. The goal is
// not touched.
func (s *CollaborationService) DeclineInvitation(ctx context.Context, invitationID string, userID primitive.ObjectID) (*models.GoalInvitation, error) {
	invitation, err := s.loadInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if invitation.Recipient != userID {
		return nil, apperrors.Forbidden("only the recipient can decline an invitation")
	}
	if invitation.Status != models.InvitationStatusPending {
		return nil, apperrors.Conflict("invitation is already %s", invitation.Status)
	}

	if err := s.invitations.UpdateInvitationStatus(ctx, invitation.ID, models.InvitationStatusDeclined); err != nil {
		return nil, fmt.Errorf("failed to decline invitation: %v", err)
	}
	invitation.Status = models.InvitationStatusDeclined

	logrus.WithFields(logrus.Fields{
		"invitationID": invitationID,
		"userID":       userID.Hex(),
	}).Info("Invitation declined")
	return invitation, nil
}

// CancelInvitation deletes a pending invitation. Allowed for the sender
// and for the goal's creator.
func (s *CollaborationService) CancelInvitation(ctx context.Context, invitationID string, userID primitive.ObjectID) error {
	invitation, err := s.loadInvitation(ctx, invitationID)
	if err != nil {
		return err
	}

	allowed := invitation.SenderID == userID
	if !allowed {
		goal, err := s.goals.GetGoalByID(ctx, invitation.GoalID)
		if err == nil && goal.CreatedBy == userID {
			allowed = true
		} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("failed to fetch goal: %v", err)
		}
	}
	if !allowed {
		return apperrors.Forbidden("only the sender or the goal creator can cancel an invitation")
	}

	if invitation.Status != models.InvitationStatusPending {
		return apperrors.Conflict("invitation is already %s", invitation.Status)
	}

	if err := s.invitations.DeleteInvitation(ctx, invitation.ID); err != nil {
		return fmt.Errorf("failed to cancel invitation: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"invitationID": invitationID,
		"userID":       userID.Hex(),
	}).Info("Invitation cancelled")
	return nil
}

func (s *CollaborationService) loadInvitation(ctx context.Context, invitationID string) (*models.GoalInvitation, error) {
	objID, err := primitive.ObjectIDFromHex(invitationID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid invitation ID: %v", err)
	}

	invitation, err := s.invitations.GetInvitationByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("invitation not found")
		}
		return nil, fmt.Errorf("failed to get invitation: %v", err)
	}
	return invitation, nil
}

func (s *CollaborationService) userSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	for i := range users {
		summaries[users[i].ID] = users[i].Summary()
	}
	return summaries, nil
}
