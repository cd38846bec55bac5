package services

import (
	"context"
	"testing"
	"time"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory stores standing in for the Mongo repositories. Misses
// return mongo.ErrNoDocuments, matching the repository contract.

type fakeGoalStore struct {
	goals map[primitive.ObjectID]*models.CollaborationGoal
}

func newFakeGoalStore() *fakeGoalStore {
	return &fakeGoalStore{goals: make(map[primitive.ObjectID]*models.CollaborationGoal)}
}

func (f *fakeGoalStore) CreateGoal(ctx context.Context, goal *models.CollaborationGoal) (*models.CollaborationGoal, error) {
	g := *goal
	g.ID = primitive.NewObjectID()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	f.goals[g.ID] = &g
	out := g
	return &out, nil
}

func (f *fakeGoalStore) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.CollaborationGoal, error) {
	g, ok := f.goals[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *g
	return &out, nil
}

func (f *fakeGoalStore) GetGoalsByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.CollaborationGoal, error) {
	var out []models.CollaborationGoal
	for _, g := range f.goals {
		if g.HasParticipant(userID) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalStore) CountGoalsByParticipant(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	goals, _ := f.GetGoalsByParticipant(ctx, userID)
	return int64(len(goals)), nil
}

func (f *fakeGoalStore) UpdateGoal(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	g, ok := f.goals[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for k, v := range update {
		switch k {
		case "title":
			g.Title = v.(string)
		case "description":
			g.Description = v.(string)
		case "target":
			g.Target = v.(float64)
		case "category":
			g.Category = v.(string)
		case "visibility":
			g.Visibility = v.(string)
		}
	}
	g.UpdatedAt = time.Now()
	return nil
}

func (f *fakeGoalStore) SetProgress(ctx context.Context, id primitive.ObjectID, progress float64, status string) error {
	g, ok := f.goals[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	g.Progress = progress
	g.Status = status
	return nil
}

func (f *fakeGoalStore) AddParticipant(ctx context.Context, goalID, userID primitive.ObjectID) error {
	g, ok := f.goals[goalID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if !g.HasParticipant(userID) {
		g.Participants = append(g.Participants, userID)
	}
	return nil
}

func (f *fakeGoalStore) RemoveParticipant(ctx context.Context, goalID, userID primitive.ObjectID) error {
	g, ok := f.goals[goalID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	remaining := g.Participants[:0]
	for _, p := range g.Participants {
		if p != userID {
			remaining = append(remaining, p)
		}
	}
	g.Participants = remaining
	return nil
}

func (f *fakeGoalStore) DeleteGoal(ctx context.Context, id primitive.ObjectID) error {
	delete(f.goals, id)
	return nil
}

type fakeInvitationStore struct {
	invitations map[primitive.ObjectID]*models.GoalInvitation
}

func newFakeInvitationStore() *fakeInvitationStore {
	return &fakeInvitationStore{invitations: make(map[primitive.ObjectID]*models.GoalInvitation)}
}

func (f *fakeInvitationStore) CreateInvitations(ctx context.Context, invitations []models.GoalInvitation) ([]models.GoalInvitation, error) {
	out := make([]models.GoalInvitation, 0, len(invitations))
	for _, inv := range invitations {
		inv.ID = primitive.NewObjectID()
		inv.CreatedAt = time.Now()
		inv.UpdatedAt = inv.CreatedAt
		stored := inv
		f.invitations[inv.ID] = &stored
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvitationStore) GetInvitationByID(ctx context.Context, id primitive.ObjectID) (*models.GoalInvitation, error) {
	inv, ok := f.invitations[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *inv
	return &out, nil
}

func (f *fakeInvitationStore) GetPendingByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.GoalInvitation, error) {
	var out []models.GoalInvitation
	for _, inv := range f.invitations {
		if inv.Recipient == userID && inv.Status == models.InvitationStatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationStore) GetPendingRecipients(ctx context.Context, goalID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for _, inv := range f.invitations {
		if inv.GoalID == goalID && inv.Status == models.InvitationStatusPending {
			out = append(out, inv.Recipient)
		}
	}
	return out, nil
}

func (f *fakeInvitationStore) GetInvitationsByGoal(ctx context.Context, goalID primitive.ObjectID) ([]models.GoalInvitation, error) {
	var out []models.GoalInvitation
	for _, inv := range f.invitations {
		if inv.GoalID == goalID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationStore) UpdateInvitationStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	inv, ok := f.invitations[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	return nil
}

func (f *fakeInvitationStore) DeleteInvitation(ctx context.Context, id primitive.ObjectID) error {
	delete(f.invitations, id)
	return nil
}

func (f *fakeInvitationStore) DeleteInvitationsByGoal(ctx context.Context, goalID primitive.ObjectID) (int64, error) {
	var count int64
	for id, inv := range f.invitations {
		if inv.GoalID == goalID {
			delete(f.invitations, id)
			count++
		}
	}
	return count, nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *u
	return &out, nil
}

func (f *fakeUserStore) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	seen := make(map[primitive.ObjectID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type collabFixture struct {
	goals       *fakeGoalStore
	invitations *fakeInvitationStore
	users       *fakeUserStore
	service     *CollaborationService
}

func newCollabFixture() *collabFixture {
	f := &collabFixture{
		goals:       newFakeGoalStore(),
		invitations: newFakeInvitationStore(),
		users:       newFakeUserStore(),
	}
	f.service = NewCollaborationService(f.goals, f.invitations, f.users)
	return f
}

func (f *collabFixture) addUser(username string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users.users[id] = &models.User{ID: id, Username: username, Name: username}
	return id
}

func (f *collabFixture) befriend(a, b primitive.ObjectID) {
	f.users.users[a].Friends = append(f.users.users[a].Friends, b)
	f.users.users[b].Friends = append(f.users.users[b].Friends, a)
}

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and makes the creator the first participant", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "Read 12 books"})
		require.NoError(t, err)

		assert.Equal(t, "Read 12 books", goal.Title)
		assert.Equal(t, "", goal.Description)
		assert.Equal(t, models.DefaultGoalTarget, goal.Target)
		assert.Equal(t, models.DefaultGoalCategory, goal.Category)
		assert.Equal(t, models.VisibilityPrivate, goal.Visibility)
		assert.Equal(t, models.GoalStatusNotStarted, goal.Status)
		assert.Equal(t, float64(0), goal.Progress)
		assert.Equal(t, creator, goal.CreatedBy.ID)
		require.Len(t, goal.Participants, 1)
		assert.Equal(t, creator, goal.Participants[0].ID)
	})

	t.Run("rejects an empty title", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")

		_, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{})
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("rejects an unknown visibility", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")

		_, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "x", Visibility: "friends-only"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("rejects a negative target", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")

		_, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "x", Target: -5})
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})
}

func TestGetGoal(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	stranger := f.addUser("mallory")

	private, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "private goal"})
	require.NoError(t, err)
	public, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "public goal", Visibility: models.VisibilityPublic})
	require.NoError(t, err)

	t.Run("participant can read a private goal", func(t *testing.T) {
		got, err := f.service.GetGoal(ctx, private.ID.Hex(), creator)
		require.NoError(t, err)
		assert.Equal(t, private.ID, got.ID)
	})

	t.Run("non-participant cannot read a private goal", func(t *testing.T) {
		_, err := f.service.GetGoal(ctx, private.ID.Hex(), stranger)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("anyone can read a public goal", func(t *testing.T) {
		got, err := f.service.GetGoal(ctx, public.ID.Hex(), stranger)
		require.NoError(t, err)
		assert.Equal(t, public.ID, got.ID)
	})

	t.Run("missing goal is NotFound", func(t *testing.T) {
		_, err := f.service.GetGoal(ctx, primitive.NewObjectID().Hex(), creator)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("malformed ID is InvalidInput", func(t *testing.T) {
		_, err := f.service.GetGoal(ctx, "not-a-hex-id", creator)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})
}

func TestGetGoalsForUser(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	other := f.addUser("bob")

	_, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "one"})
	require.NoError(t, err)
	_, err = f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "two"})
	require.NoError(t, err)
	_, err = f.service.CreateGoal(ctx, other, CreateGoalInput{Title: "theirs"})
	require.NoError(t, err)

	goals, err := f.service.GetGoalsForUser(ctx, creator.Hex())
	require.NoError(t, err)
	assert.Len(t, goals, 2)

	count, err := f.service.CountGoalsForUser(ctx, creator.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = f.service.GetGoalsForUser(ctx, "zzz")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestUpdateGoal(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	stranger := f.addUser("mallory")

	goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "before"})
	require.NoError(t, err)

	t.Run("creator can update whitelisted fields", func(t *testing.T) {
		updated, err := f.service.UpdateGoal(ctx, goal.ID.Hex(), creator, map[string]interface{}{
			"title":      "after",
			"target":     50.0,
			"created_by": stranger.Hex(),
			"progress":   99.0,
		})
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Title)
		assert.Equal(t, 50.0, updated.Target)
		// Non-whitelisted fields are dropped silently
		assert.Equal(t, creator, updated.CreatedBy.ID)
		assert.Equal(t, float64(0), updated.Progress)
	})

	t.Run("non-creator is forbidden", func(t *testing.T) {
		_, err := f.service.UpdateGoal(ctx, goal.ID.Hex(), stranger, map[string]interface{}{"title": "hijack"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestUpdateProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps at the target and completes the goal", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "run", Target: 10})
		require.NoError(t, err)

		updated, err := f.service.UpdateProgress(ctx, goal.ID.Hex(), creator, 8)
		require.NoError(t, err)
		assert.Equal(t, 8.0, updated.Progress)
		assert.Equal(t, models.GoalStatusInProgress, updated.Status)

		updated, err = f.service.UpdateProgress(ctx, goal.ID.Hex(), creator, 5)
		require.NoError(t, err)
		assert.Equal(t, 10.0, updated.Progress)
		assert.Equal(t, models.GoalStatusCompleted, updated.Status)
	})

	t.Run("negative increments have no lower bound", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "run", Target: 10})
		require.NoError(t, err)

		updated, err := f.service.UpdateProgress(ctx, goal.ID.Hex(), creator, -3)
		require.NoError(t, err)
		assert.Equal(t, -3.0, updated.Progress)
		assert.Equal(t, models.GoalStatusInProgress, updated.Status)
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		stranger := f.addUser("mallory")
		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "run", Target: 10})
		require.NoError(t, err)

		_, err = f.service.UpdateProgress(ctx, goal.ID.Hex(), stranger, 1)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	friend := f.addUser("bob")
	f.befriend(creator, friend)

	goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "doomed"})
	require.NoError(t, err)
	_, err = f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex()}, "")
	require.NoError(t, err)

	t.Run("non-creator is forbidden", func(t *testing.T) {
		err := f.service.DeleteGoal(ctx, goal.ID.Hex(), friend)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("delete removes the goal and its invitations", func(t *testing.T) {
		require.NoError(t, f.service.DeleteGoal(ctx, goal.ID.Hex(), creator))

		_, err := f.service.GetGoal(ctx, goal.ID.Hex(), creator)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
		assert.Empty(t, f.invitations.invitations)
	})
}

func TestLeaveGoal(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	member := f.addUser("bob")
	outsider := f.addUser("carol")
	f.befriend(creator, member)

	goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "team goal"})
	require.NoError(t, err)
	require.NoError(t, f.goals.AddParticipant(ctx, goal.ID, member))

	t.Run("creator cannot leave", func(t *testing.T) {
		err := f.service.LeaveGoal(ctx, goal.ID.Hex(), creator)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("non-participant cannot leave", func(t *testing.T) {
		err := f.service.LeaveGoal(ctx, goal.ID.Hex(), outsider)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("participant leaves", func(t *testing.T) {
		require.NoError(t, f.service.LeaveGoal(ctx, goal.ID.Hex(), member))
		stored := f.goals.goals[goal.ID]
		assert.False(t, stored.HasParticipant(member))
		assert.True(t, stored.HasParticipant(creator))
	})
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	member := f.addUser("bob")

	goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "team goal"})
	require.NoError(t, err)
	require.NoError(t, f.goals.AddParticipant(ctx, goal.ID, member))

	t.Run("only the creator may remove", func(t *testing.T) {
		_, err := f.service.RemoveParticipant(ctx, goal.ID.Hex(), member, creator)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("creator cannot remove themselves", func(t *testing.T) {
		_, err := f.service.RemoveParticipant(ctx, goal.ID.Hex(), creator, creator)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("creator removes a member", func(t *testing.T) {
		details, err := f.service.RemoveParticipant(ctx, goal.ID.Hex(), creator, member)
		require.NoError(t, err)
		require.Len(t, details.Participants, 1)
		assert.Equal(t, creator, details.Participants[0].ID)
	})
}
