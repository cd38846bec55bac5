package repository

import (
	"context"
	"time"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollaborationGoalRepository handles database operations related to
// collaboration goals.
type CollaborationGoalRepository struct {
	collection *mongo.Collection
}

// NewCollaborationGoalRepository creates a new instance of CollaborationGoalRepository.
func NewCollaborationGoalRepository(db *mongo.Database) *CollaborationGoalRepository {
	return &CollaborationGoalRepository{
		collection: db.Collection("collaboration_goals"),
	}
}

// CreateGoal inserts a new collaboration goal.
func (r *CollaborationGoalRepository) CreateGoal(ctx context.Context, goal *models.CollaborationGoal) (*models.CollaborationGoal, error) {
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert collaboration goal")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, err
	}
	goal.ID = insertedID

	logger.Log.WithField("goal_id", goal.ID.Hex()).Info("Collaboration goal created successfully")
	return goal, nil
}

// GetGoalByID fetches a goal by its ID. Returns mongo.ErrNoDocuments
// when the goal does not exist.
func (r *CollaborationGoalRepository) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.CollaborationGoal, error) {
	var goal models.CollaborationGoal

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Warn("Failed to find collaboration goal by ID")
		return nil, err
	}

	return &goal, nil
}

// GetGoalsByParticipant fetches all goals the user participates in,
// newest first.
func (r *CollaborationGoalRepository) GetGoalsByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.CollaborationGoal, error) {
	var goals []models.CollaborationGoal

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch goals by participant")
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var goal models.CollaborationGoal
		if err := cursor.Decode(&goal); err != nil {
			logger.Log.WithError(err).Error("Failed to decode collaboration goal")
			return nil, err
		}
		goals = append(goals, goal)
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID.Hex(),
		"count":   len(goals),
	}).Info("Goals fetched by participant")

	return goals, nil
}

// CountGoalsByParticipant counts the goals the user participates in.
func (r *CollaborationGoalRepository) CountGoalsByParticipant(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"participants": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to count goals by participant")
		return 0, err
	}
	return count, nil
}

// UpdateGoal applies a partial update to a goal.
func (r *CollaborationGoalRepository) UpdateGoal(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	update["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to update collaboration goal")
		return err
	}

	logger.Log.WithField("goal_id", id.Hex()).Info("Collaboration goal updated successfully")
	return nil
}

// SetProgress writes the new progress value and the status derived from it.
func (r *CollaborationGoalRepository) SetProgress(ctx context.Context, id primitive.ObjectID, progress float64, status string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"progress":   progress,
			"status":     status,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to set goal progress")
		return err
	}
	return nil
}

// AddParticipant adds a user to the goal's participant set.
func (r *CollaborationGoalRepository) AddParticipant(ctx context.Context, goalID, userID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"participants": userID}, // Prevents duplicates
		"$set":      bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": goalID}, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"goal_id": goalID.Hex(),
			"user_id": userID.Hex(),
		}).Error("Failed to add participant to goal")
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"goal_id": goalID.Hex(),
		"user_id": userID.Hex(),
	}).Info("Participant added to goal")

	return nil
}

// RemoveParticipant removes a user from the goal's participant set.
func (r *CollaborationGoalRepository) RemoveParticipant(ctx context.Context, goalID, userID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"participants": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": goalID}, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"goal_id": goalID.Hex(),
			"user_id": userID.Hex(),
		}).Error("Failed to remove participant from goal")
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"goal_id": goalID.Hex(),
		"user_id": userID.Hex(),
	}).Info("Participant removed from goal")

	return nil
}

// DeleteGoal deletes a goal from the database by its ID.
func (r *CollaborationGoalRepository) DeleteGoal(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to delete collaboration goal")
		return err
	}

	logger.Log.WithField("goal_id", id.Hex()).Info("Collaboration goal deleted successfully")
	return nil
}

// GoalExists reports whether a goal with the given ID is present.
func (r *CollaborationGoalRepository) GoalExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
