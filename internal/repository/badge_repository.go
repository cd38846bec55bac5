package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/accountability-buddy/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BadgeRepository handles database operations related to badges.
type BadgeRepository struct {
	collection *mongo.Collection
}

// NewBadgeRepository creates a new instance of BadgeRepository.
func NewBadgeRepository(db *mongo.Database) *BadgeRepository {
	return &BadgeRepository{
		collection: db.Collection("badges"),
	}
}

// IncrementBadge bumps the event counter for a (user, type) badge,
// creating the badge on first use, and returns the updated document.
func (r *BadgeRepository) IncrementBadge(ctx context.Context, userID primitive.ObjectID, badgeType string) (*models.Badge, error) {
	filter := bson.M{"user_id": userID, "type": badgeType}
	update := bson.M{
		"$inc":         bson.M{"count": 1},
		"$set":         bson.M{"updated_at": time.Now()},
		"$setOnInsert": bson.M{"created_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var badge models.Badge
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&badge); err != nil {
		return nil, fmt.Errorf("failed to increment badge: %v", err)
	}
	return &badge, nil
}

// SetLevel writes a badge's tier level.
func (r *BadgeRepository) SetLevel(ctx context.Context, id primitive.ObjectID, level string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"level": level, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set badge level: %v", err)
	}
	return nil
}

// GetUserBadges fetches all badges held by a user.
func (r *BadgeRepository) GetUserBadges(ctx context.Context, userID primitive.ObjectID) ([]models.Badge, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %v", err)
	}
	defer cursor.Close(ctx)

	var badges []models.Badge
	for cursor.Next(ctx) {
		var badge models.Badge
		if err := cursor.Decode(&badge); err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}

	return badges, nil
}
