package services

import (
	"context"
	"testing"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendInvitations(t *testing.T) {
	ctx := context.Background()

	t.Run("invites friends with a default message", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		friend := f.addUser("bob")
		f.befriend(creator, friend)

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "Read more"})
		require.NoError(t, err)

		sent, err := f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex()}, "")
		require.NoError(t, err)
		require.Len(t, sent, 1)
		assert.Equal(t, friend, sent[0].Recipient)
		assert.Equal(t, models.InvitationStatusPending, sent[0].Status)
		assert.Equal(t, `You have been invited to join the goal "Read more"`, sent[0].Message)
	})

	t.Run("only the creator may invite", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		friend := f.addUser("bob")
		f.befriend(creator, friend)

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
		require.NoError(t, err)

		_, err = f.service.SendInvitations(ctx, goal.ID.Hex(), friend, []string{creator.Hex()}, "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("non-friends are filtered out", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		stranger := f.addUser("mallory")

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
		require.NoError(t, err)

		_, err = f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{stranger.Hex()}, "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("duplicates against pending invitations and participants are dropped", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		invited := f.addUser("bob")
		joined := f.addUser("carol")
		f.befriend(creator, invited)
		f.befriend(creator, joined)

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
		require.NoError(t, err)
		require.NoError(t, f.goals.AddParticipant(ctx, goal.ID, joined))

		_, err = f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{invited.Hex()}, "")
		require.NoError(t, err)

		// Everybody is either pending or already in, so nothing survives
		_, err = f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{invited.Hex(), joined.Hex()}, "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
		assert.Len(t, f.invitations.invitations, 1)
	})
}

func TestAcceptInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("accepting joins the recipient to the goal", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		friend := f.addUser("bob")
		f.befriend(creator, friend)

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
		require.NoError(t, err)
		sent, err := f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex()}, "")
		require.NoError(t, err)

		details, err := f.service.AcceptInvitation(ctx, sent[0].ID.Hex(), friend)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationStatusAccepted, details.Status)
		assert.Equal(t, goal.ID, details.Goal.ID)

		assert.True(t, f.goals.goals[goal.ID].HasParticipant(friend))
	})

	t.Run("only the recipient may accept", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		friend := f.addUser("bob")
		f.befriend(creator, friend)

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
		require.NoError(t, err)
		sent, err := f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex()}, "")
		require.NoError(t, err)

		_, err = f.service.AcceptInvitation(ctx, sent[0].ID.Hex(), creator)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("accepted and declined are terminal", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		friend := f.addUser("bob")
		f.befriend(creator, friend)

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
		require.NoError(t, err)
		sent, err := f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex()}, "")
		require.NoError(t, err)

		_, err = f.service.AcceptInvitation(ctx, sent[0].ID.Hex(), friend)
		require.NoError(t, err)

		_, err = f.service.AcceptInvitation(ctx, sent[0].ID.Hex(), friend)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
		_, err = f.service.DeclineInvitation(ctx, sent[0].ID.Hex(), friend)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("accept survives the goal being deleted", func(t *testing.T) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		friend := f.addUser("bob")
		f.befriend(creator, friend)

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
		require.NoError(t, err)
		sent, err := f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex()}, "")
		require.NoError(t, err)

		// Goal vanishes out from under the invitation
		require.NoError(t, f.goals.DeleteGoal(ctx, goal.ID))

		details, err := f.service.AcceptInvitation(ctx, sent[0].ID.Hex(), friend)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationStatusAccepted, details.Status)
		assert.Equal(t, primitive.NilObjectID, details.Goal.ID)
	})
}

func TestDeclineInvitation(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	friend := f.addUser("bob")
	f.befriend(creator, friend)

	goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
	require.NoError(t, err)
	sent, err := f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex()}, "")
	require.NoError(t, err)

	declined, err := f.service.DeclineInvitation(ctx, sent[0].ID.Hex(), friend)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusDeclined, declined.Status)

	// Declining does not touch the participant set
	assert.False(t, f.goals.goals[goal.ID].HasParticipant(friend))
}

func TestCancelInvitation(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*collabFixture, primitive.ObjectID, primitive.ObjectID, models.GoalInvitation) {
		f := newCollabFixture()
		creator := f.addUser("alice")
		friend := f.addUser("bob")
		f.befriend(creator, friend)

		goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
		require.NoError(t, err)
		sent, err := f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex()}, "")
		require.NoError(t, err)
		return f, creator, friend, sent[0]
	}

	t.Run("sender cancels and the invitation is gone", func(t *testing.T) {
		f, creator, _, inv := setup(t)

		require.NoError(t, f.service.CancelInvitation(ctx, inv.ID.Hex(), creator))
		assert.Empty(t, f.invitations.invitations)
	})

	t.Run("recipient cannot cancel", func(t *testing.T) {
		f, _, friend, inv := setup(t)

		err := f.service.CancelInvitation(ctx, inv.ID.Hex(), friend)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("accepted invitations cannot be cancelled", func(t *testing.T) {
		f, creator, friend, inv := setup(t)

		_, err := f.service.AcceptInvitation(ctx, inv.ID.Hex(), friend)
		require.NoError(t, err)

		err = f.service.CancelInvitation(ctx, inv.ID.Hex(), creator)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestGetPendingInvitations(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	friend := f.addUser("bob")
	f.befriend(creator, friend)

	kept, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "kept"})
	require.NoError(t, err)
	doomed, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "doomed"})
	require.NoError(t, err)

	_, err = f.service.SendInvitations(ctx, kept.ID.Hex(), creator, []string{friend.Hex()}, "")
	require.NoError(t, err)
	_, err = f.service.SendInvitations(ctx, doomed.ID.Hex(), creator, []string{friend.Hex()}, "")
	require.NoError(t, err)

	// The second goal is deleted out-of-band, stranding its invitation
	require.NoError(t, f.goals.DeleteGoal(ctx, doomed.ID))

	pending, err := f.service.GetPendingInvitations(ctx, friend.Hex())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, kept.ID, pending[0].Goal.ID)
	assert.Equal(t, creator, pending[0].Sender.ID)
}

func TestGetSentInvitations(t *testing.T) {
	ctx := context.Background()

	f := newCollabFixture()
	creator := f.addUser("alice")
	friend := f.addUser("bob")
	other := f.addUser("carol")
	f.befriend(creator, friend)
	f.befriend(creator, other)

	goal, err := f.service.CreateGoal(ctx, creator, CreateGoalInput{Title: "g"})
	require.NoError(t, err)
	sent, err := f.service.SendInvitations(ctx, goal.ID.Hex(), creator, []string{friend.Hex(), other.Hex()}, "join us")
	require.NoError(t, err)
	require.Len(t, sent, 2)

	_, err = f.service.DeclineInvitation(ctx, sent[0].ID.Hex(), sent[0].Recipient)
	require.NoError(t, err)

	t.Run("creator sees every invitation regardless of status", func(t *testing.T) {
		all, err := f.service.GetSentInvitations(ctx, goal.ID.Hex(), creator)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("non-creator is forbidden", func(t *testing.T) {
		_, err := f.service.GetSentInvitations(ctx, goal.ID.Hex(), friend)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}
