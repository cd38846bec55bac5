package jobs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// invitationCleaner is the slice of the invitation repository the
// sweeper needs.
type invitationCleaner interface {
	DistinctGoalIDs(ctx context.Context) ([]primitive.ObjectID, error)
	DeleteInvitationsByGoal(ctx context.Context, goalID primitive.ObjectID) (int64, error)
}

// goalChecker reports whether a goal still exists.
type goalChecker interface {
	GoalExists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// InvitationSweeper removes invitations whose goal no longer exists.
// Goal deletion removes its invitations first, but the two writes are
// not transactional, so a crash in between can strand invitations.
type InvitationSweeper struct {
	invitations invitationCleaner
	goals       goalChecker
}

// NewInvitationSweeper creates a new instance of InvitationSweeper.
func NewInvitationSweeper(invitations invitationCleaner, goals goalChecker) *InvitationSweeper {
	return &InvitationSweeper{
		invitations: invitations,
		goals:       goals,
	}
}

// Run scans every goal referenced by an invitation and deletes the
// invitations of goals that are gone. Returns the number removed.
func (s *InvitationSweeper) Run(ctx context.Context) (int64, error) {
	goalIDs, err := s.invitations.DistinctGoalIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list goal IDs: %v", err)
	}

	var removed int64
	for _, goalID := range goalIDs {
		exists, err := s.goals.GoalExists(ctx, goalID)
		if err != nil {
			return removed, fmt.Errorf("failed to check goal %s: %v", goalID.Hex(), err)
		}
		if exists {
			continue
		}

		count, err := s.invitations.DeleteInvitationsByGoal(ctx, goalID)
		if err != nil {
			return removed, fmt.Errorf("failed to delete orphaned invitations for goal %s: %v", goalID.Hex(), err)
		}
		removed += count

		logrus.WithFields(logrus.Fields{
			"goalID": goalID.Hex(),
			"count":  count,
		}).Info("Removed orphaned invitations")
	}

	return removed, nil
}
