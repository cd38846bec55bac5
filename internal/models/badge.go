package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Badge tier levels in ascending order.
const (
	BadgeLevelNone   = ""
	BadgeLevelBronze = "bronze"
	BadgeLevelSilver = "silver"
	BadgeLevelGold   = "gold"
)

// Badge event types tracked per user.
const (
	BadgeGoalCompleted      = "goal_completed"
	BadgeInvitationAccepted = "invitation_accepted"
	BadgeGoalCreated        = "goal_created"
)

// Tier thresholds: count of events needed to reach each level.
const (
	BronzeThreshold = 1
	SilverThreshold = 5
	GoldThreshold   = 10
)

// Badge tracks how many times a user has performed one kind of
// rewardable event, and the tier that count has earned.
type Badge struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type      string             `bson:"type" json:"type"`
	Level     string             `bson:"level" json:"level"`
	Count     int                `bson:"count" json:"count"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// LevelForCount derives the badge level from an event count. Like goal
// status, the level is a pure function of the counter so it can never
// drift from it.
func LevelForCount(count int) string {
	switch {
	case count >= GoldThreshold:
		return BadgeLevelGold
	case count >= SilverThreshold:
		return BadgeLevelSilver
	case count >= BronzeThreshold:
		return BadgeLevelBronze
	default:
		return BadgeLevelNone
	}
}
