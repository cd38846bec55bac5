package services

import (
	"context"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityService struct {
	repo *repository.ActivityRepository
}

func NewActivityService(repo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// LogActivity appends an entry to the user's activity log.
func (s *ActivityService) LogActivity(ctx context.Context, userID primitive.ObjectID, activityType string, targetID primitive.ObjectID, message string) error {
	activity := &models.Activity{
		UserID:   userID,
		Type:     activityType,
		TargetID: targetID,
		Message:  message,
	}
	return s.repo.CreateActivity(ctx, activity)
}

// GetUserActivities returns the user's latest activity entries.
func (s *ActivityService) GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetUserActivities(ctx, userID, limit)
}
