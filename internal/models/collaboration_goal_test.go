package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStatusAfterProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		target   float64
		want     string
	}{
		{"below target", 5, 10, GoalStatusInProgress},
		{"exactly at target", 10, 10, GoalStatusCompleted},
		{"over target", 15, 10, GoalStatusCompleted},
		{"zero after an update", 0, 10, GoalStatusInProgress},
		{"negative progress", -3, 10, GoalStatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAfterProgress(tt.progress, tt.target))
		})
	}
}

func TestHasParticipant(t *testing.T) {
	in := primitive.NewObjectID()
	out := primitive.NewObjectID()
	goal := CollaborationGoal{Participants: []primitive.ObjectID{in}}

	assert.True(t, goal.HasParticipant(in))
	assert.False(t, goal.HasParticipant(out))
}
