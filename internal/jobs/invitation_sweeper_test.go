package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCleaner struct {
	byGoal  map[primitive.ObjectID]int64
	deleted []primitive.ObjectID
}

func (f *fakeCleaner) DistinctGoalIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(f.byGoal))
	for id := range f.byGoal {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeCleaner) DeleteInvitationsByGoal(ctx context.Context, goalID primitive.ObjectID) (int64, error) {
	count := f.byGoal[goalID]
	delete(f.byGoal, goalID)
	f.deleted = append(f.deleted, goalID)
	return count, nil
}

type fakeChecker struct {
	existing map[primitive.ObjectID]bool
}

func (f *fakeChecker) GoalExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return f.existing[id], nil
}

func TestInvitationSweeperRemovesOrphans(t *testing.T) {
	live := primitive.NewObjectID()
	gone := primitive.NewObjectID()

	cleaner := &fakeCleaner{byGoal: map[primitive.ObjectID]int64{live: 2, gone: 3}}
	checker := &fakeChecker{existing: map[primitive.ObjectID]bool{live: true}}

	sweeper := NewInvitationSweeper(cleaner, checker)
	removed, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), removed)
	require.Len(t, cleaner.deleted, 1)
	assert.Equal(t, gone, cleaner.deleted[0])
	// Invitations of the surviving goal stay put
	assert.Contains(t, cleaner.byGoal, live)
}

func TestInvitationSweeperNothingToDo(t *testing.T) {
	cleaner := &fakeCleaner{byGoal: map[primitive.ObjectID]int64{}}
	checker := &fakeChecker{existing: map[primitive.ObjectID]bool{}}

	sweeper := NewInvitationSweeper(cleaner, checker)
	removed, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, cleaner.deleted)
}
