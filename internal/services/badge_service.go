package services

import (
	"context"
	"fmt"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BadgeStore is the persistence surface for badges. Implemented by
// repository.BadgeRepository.
type BadgeStore interface {
	IncrementBadge(ctx context.Context, userID primitive.ObjectID, badgeType string) (*models.Badge, error)
	SetLevel(ctx context.Context, id primitive.ObjectID, level string) error
	GetUserBadges(ctx context.Context, userID primitive.ObjectID) ([]models.Badge, error)
}

// PointsAwarder credits points to a user. Implemented by
// repository.UserRepository.
type PointsAwarder interface {
	IncrementPoints(ctx context.Context, userID primitive.ObjectID, points int) error
}

// Points granted per badge event type.
var pointsPerEvent = map[string]int{
	models.BadgeGoalCreated:        10,
	models.BadgeInvitationAccepted: 20,
	models.BadgeGoalCompleted:      50,
}

// BadgeService tracks rewardable events, advancing badge tiers and
// crediting points.
type BadgeService struct {
	badges BadgeStore
	points PointsAwarder
}

// NewBadgeService creates a new instance of BadgeService.
func NewBadgeService(badges BadgeStore, points PointsAwarder) *BadgeService {
	return &BadgeService{
		badges: badges,
		points: points,
	}
}

// RecordEvent bumps the badge counter for the event type, recomputes
// the tier from the counter and credits the event's points. It returns
// the badge and whether the event pushed it into a new tier.
func (s *BadgeService) RecordEvent(ctx context.Context, userID primitive.ObjectID, badgeType string) (*models.Badge, bool, error) {
	badge, err := s.badges.IncrementBadge(ctx, userID, badgeType)
	if err != nil {
		return nil, false, fmt.Errorf("failed to record badge event: %v", err)
	}

	leveledUp := false
	level := models.LevelForCount(badge.Count)
	if level != badge.Level {
		if err := s.badges.SetLevel(ctx, badge.ID, level); err != nil {
			return nil, false, fmt.Errorf("failed to set badge level: %v", err)
		}
		badge.Level = level
		leveledUp = true
	}

	if points := pointsPerEvent[badgeType]; points > 0 {
		if err := s.points.IncrementPoints(ctx, userID, points); err != nil {
			return nil, false, fmt.Errorf("failed to award points: %v", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"userID":    userID.Hex(),
		"badgeType": badgeType,
		"count":     badge.Count,
		"level":     badge.Level,
	}).Info("Badge event recorded")

	return badge, leveledUp, nil
}

// GetUserBadges fetches all badges held by a user.
func (s *BadgeService) GetUserBadges(ctx context.Context, userID primitive.ObjectID) ([]models.Badge, error) {
	return s.badges.GetUserBadges(ctx, userID)
}
