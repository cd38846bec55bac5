package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation status values. Pending is the only state from which a
// transition is valid; cancellation deletes the document instead of
// adding a fourth status.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
)

// GoalInvitation invites a recipient to join a collaboration goal.
type GoalInvitation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoalID    primitive.ObjectID `bson:"goal_id" json:"goal_id"`
	SenderID  primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Recipient primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	Message   string             `bson:"message" json:"message"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// InvitationDetails is a GoalInvitation with goal and sender expanded,
// as returned to the recipient.
type InvitationDetails struct {
	ID        primitive.ObjectID `json:"id"`
	Goal      GoalSummary        `json:"goal"`
	Sender    UserSummary        `json:"sender"`
	Message   string             `json:"message"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// SentInvitation is a GoalInvitation with the recipient expanded, as
// returned to the goal creator.
type SentInvitation struct {
	ID        primitive.ObjectID `json:"id"`
	Recipient UserSummary        `json:"recipient"`
	Message   string             `json:"message"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}
