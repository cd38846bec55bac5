package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal status values. Status is always derived from progress vs target,
// never set independently.
const (
	GoalStatusNotStarted = "not-started"
	GoalStatusInProgress = "in-progress"
	GoalStatusCompleted  = "completed"
)

// Goal visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Defaults applied when a goal is created without the optional fields.
const (
	DefaultGoalTarget   = 100.0
	DefaultGoalCategory = "other"
)

// CollaborationGoal is a shared goal owned by its creator and worked on
// by a set of participants. The creator is always a participant.
type CollaborationGoal struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description" json:"description"`
	Target       float64              `bson:"target" json:"target"`
	Category     string               `bson:"category" json:"category"`
	Visibility   string               `bson:"visibility" json:"visibility"`
	CreatedBy    primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	Progress     float64              `bson:"progress" json:"progress"`
	Status       string               `bson:"status" json:"status"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

// HasParticipant reports whether the given user is in the participant set.
func (g *CollaborationGoal) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range g.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// StatusAfterProgress derives the status that follows a progress update.
// Once any update has happened the goal is at least in-progress.
func StatusAfterProgress(progress, target float64) string {
	if progress >= target {
		return GoalStatusCompleted
	}
	return GoalStatusInProgress
}

// GoalDetails is a CollaborationGoal with its user references expanded
// to public summaries.
type GoalDetails struct {
	ID           primitive.ObjectID `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Target       float64            `json:"target"`
	Category     string             `json:"category"`
	Visibility   string             `json:"visibility"`
	CreatedBy    UserSummary        `json:"created_by"`
	Participants []UserSummary      `json:"participants"`
	Progress     float64            `json:"progress"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// GoalSummary is the short projection of a goal embedded in expanded
// invitation responses.
type GoalSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Target      float64            `json:"target"`
	Progress    float64            `json:"progress"`
	Status      string             `json:"status"`
}

// Summary projects a goal to its short form.
func (g *CollaborationGoal) Summary() GoalSummary {
	return GoalSummary{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Target:      g.Target,
		Progress:    g.Progress,
		Status:      g.Status,
	}
}
