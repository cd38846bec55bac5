package services

import (
	"context"
	"testing"
	"time"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBadgeStore struct {
	badges map[string]*models.Badge
}

func newFakeBadgeStore() *fakeBadgeStore {
	return &fakeBadgeStore{badges: make(map[string]*models.Badge)}
}

func badgeKey(userID primitive.ObjectID, badgeType string) string {
	return userID.Hex() + "/" + badgeType
}

func (f *fakeBadgeStore) IncrementBadge(ctx context.Context, userID primitive.ObjectID, badgeType string) (*models.Badge, error) {
	key := badgeKey(userID, badgeType)
	b, ok := f.badges[key]
	if !ok {
		b = &models.Badge{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Type:      badgeType,
			CreatedAt: time.Now(),
		}
		f.badges[key] = b
	}
	b.Count++
	b.UpdatedAt = time.Now()
	out := *b
	return &out, nil
}

func (f *fakeBadgeStore) SetLevel(ctx context.Context, id primitive.ObjectID, level string) error {
	for _, b := range f.badges {
		if b.ID == id {
			b.Level = level
			return nil
		}
	}
	return nil
}

func (f *fakeBadgeStore) GetUserBadges(ctx context.Context, userID primitive.ObjectID) ([]models.Badge, error) {
	var out []models.Badge
	for _, b := range f.badges {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakePointsAwarder struct {
	points map[primitive.ObjectID]int
}

func newFakePointsAwarder() *fakePointsAwarder {
	return &fakePointsAwarder{points: make(map[primitive.ObjectID]int)}
}

func (f *fakePointsAwarder) IncrementPoints(ctx context.Context, userID primitive.ObjectID, points int) error {
	f.points[userID] += points
	return nil
}

func TestRecordEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("first event earns bronze and points", func(t *testing.T) {
		store := newFakeBadgeStore()
		awarder := newFakePointsAwarder()
		service := NewBadgeService(store, awarder)
		user := primitive.NewObjectID()

		badge, leveledUp, err := service.RecordEvent(ctx, user, models.BadgeGoalCreated)
		require.NoError(t, err)
		assert.Equal(t, 1, badge.Count)
		assert.Equal(t, models.BadgeLevelBronze, badge.Level)
		assert.True(t, leveledUp)
		assert.Equal(t, 10, awarder.points[user])
	})

	t.Run("tiers advance at the thresholds", func(t *testing.T) {
		store := newFakeBadgeStore()
		awarder := newFakePointsAwarder()
		service := NewBadgeService(store, awarder)
		user := primitive.NewObjectID()

		var lastLevel string
		levelUps := 0
		for i := 0; i < models.GoldThreshold; i++ {
			badge, leveledUp, err := service.RecordEvent(ctx, user, models.BadgeGoalCompleted)
			require.NoError(t, err)
			if leveledUp {
				levelUps++
			}
			lastLevel = badge.Level
		}

		// bronze at 1, silver at 5, gold at 10
		assert.Equal(t, models.BadgeLevelGold, lastLevel)
		assert.Equal(t, 3, levelUps)
		assert.Equal(t, 50*models.GoldThreshold, awarder.points[user])
	})

	t.Run("mid-tier events do not level up", func(t *testing.T) {
		store := newFakeBadgeStore()
		awarder := newFakePointsAwarder()
		service := NewBadgeService(store, awarder)
		user := primitive.NewObjectID()

		_, _, err := service.RecordEvent(ctx, user, models.BadgeInvitationAccepted)
		require.NoError(t, err)

		badge, leveledUp, err := service.RecordEvent(ctx, user, models.BadgeInvitationAccepted)
		require.NoError(t, err)
		assert.Equal(t, 2, badge.Count)
		assert.Equal(t, models.BadgeLevelBronze, badge.Level)
		assert.False(t, leveledUp)
	})

	t.Run("badge types are tracked independently", func(t *testing.T) {
		store := newFakeBadgeStore()
		awarder := newFakePointsAwarder()
		service := NewBadgeService(store, awarder)
		user := primitive.NewObjectID()

		_, _, err := service.RecordEvent(ctx, user, models.BadgeGoalCreated)
		require.NoError(t, err)
		_, _, err = service.RecordEvent(ctx, user, models.BadgeGoalCompleted)
		require.NoError(t, err)

		badges, err := service.GetUserBadges(ctx, user)
		require.NoError(t, err)
		assert.Len(t, badges, 2)
	})
}
