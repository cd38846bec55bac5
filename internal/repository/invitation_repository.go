package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InvitationRepository handles database operations related to goal invitations.
type InvitationRepository struct {
	collection *mongo.Collection
}

// NewInvitationRepository creates a new instance of InvitationRepository.
func NewInvitationRepository(db *mongo.Database) *InvitationRepository {
	return &InvitationRepository{
		collection: db.Collection("goal_invitations"),
	}
}

// CreateInvitations bulk-inserts a batch of invitations.
func (r *InvitationRepository) CreateInvitations(ctx context.Context, invitations []models.GoalInvitation) ([]models.GoalInvitation, error) {
	now := time.Now()
	docs := make([]interface{}, 0, len(invitations))
	for i := range invitations {
		invitations[i].CreatedAt = now
		invitations[i].UpdatedAt = now
		docs = append(docs, invitations[i])
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert invitations")
		return nil, fmt.Errorf("failed to insert invitations: %v", err)
	}

	for i, id := range result.InsertedIDs {
		if objID, ok := id.(primitive.ObjectID); ok {
			invitations[i].ID = objID
		}
	}

	logger.Log.WithField("count", len(invitations)).Info("Invitations created successfully")
	return invitations, nil
}

// GetInvitationByID fetches an invitation by its ID. Returns
// mongo.ErrNoDocuments when absent.
func (r *InvitationRepository) GetInvitationByID(ctx context.Context, id primitive.ObjectID) (*models.GoalInvitation, error) {
	var invitation models.GoalInvitation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&invitation)
	if err != nil {
		logger.Log.WithError(err).WithField("invitation_id", id.Hex()).Warn("Failed to find invitation by ID")
		return nil, err
	}
	return &invitation, nil
}

// GetPendingByRecipient fetches all pending invitations addressed to a
// user, newest first.
func (r *InvitationRepository) GetPendingByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.GoalInvitation, error) {
	filter := bson.M{"recipient_id": userID, "status": models.InvitationStatusPending}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending invitations: %v", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.GoalInvitation
	for cursor.Next(ctx) {
		var invitation models.GoalInvitation
		if err := cursor.Decode(&invitation); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}

	return invitations, nil
}

// GetPendingRecipients returns the recipient IDs of every pending
// invitation for a goal. Used to filter out duplicate invites.
func (r *InvitationRepository) GetPendingRecipients(ctx context.Context, goalID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"goal_id": goalID, "status": models.InvitationStatusPending}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending invitations for goal: %v", err)
	}
	defer cursor.Close(ctx)

	var recipients []primitive.ObjectID
	for cursor.Next(ctx) {
		var invitation models.GoalInvitation
		if err := cursor.Decode(&invitation); err != nil {
			return nil, err
		}
		recipients = append(recipients, invitation.Recipient)
	}

	return recipients, nil
}

// GetInvitationsByGoal fetches every invitation for a goal regardless
// of status, newest first.
func (r *InvitationRepository) GetInvitationsByGoal(ctx context.Context, goalID primitive.ObjectID) ([]models.GoalInvitation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"goal_id": goalID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find invitations for goal: %v", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.GoalInvitation
	for cursor.Next(ctx) {
		var invitation models.GoalInvitation
		if err := cursor.Decode(&invitation); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}

	return invitations, nil
}

// UpdateInvitationStatus transitions an invitation to a new status.
func (r *InvitationRepository) UpdateInvitationStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("invitation_id", id.Hex()).Error("Failed to update invitation status")
		return fmt.Errorf("failed to update invitation status: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"invitation_id": id.Hex(),
		"status":        status,
	}).Info("Invitation status updated")
	return nil
}

// DeleteInvitation removes an invitation document entirely.
func (r *InvitationRepository) DeleteInvitation(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("invitation_id", id.Hex()).Error("Failed to delete invitation")
		return fmt.Errorf("failed to delete invitation: %v", err)
	}

	logger.Log.WithField("invitation_id", id.Hex()).Info("Invitation deleted")
	return nil
}

// DeleteInvitationsByGoal removes every invitation referencing a goal.
func (r *InvitationRepository) DeleteInvitationsByGoal(ctx context.Context, goalID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"goal_id": goalID})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", goalID.Hex()).Error("Failed to delete invitations for goal")
		return 0, fmt.Errorf("failed to delete invitations for goal: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"goal_id": goalID.Hex(),
		"count":   result.DeletedCount,
	}).Info("Invitations deleted for goal")
	return result.DeletedCount, nil
}

// DistinctGoalIDs returns the set of goal IDs referenced by any
// invitation. Used by the orphan sweeper.
func (r *InvitationRepository) DistinctGoalIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	values, err := r.collection.Distinct(ctx, "goal_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct goal IDs: %v", err)
	}

	var ids []primitive.ObjectID
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
