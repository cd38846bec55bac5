package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/internal/repository"
	"github.com/accountability-buddy/api/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GroupService handles business logic for topical groups.
type GroupService struct {
	repo *repository.GroupRepository
}

// NewGroupService creates a new instance of GroupService.
func NewGroupService(repo *repository.GroupRepository) *GroupService {
	return &GroupService{repo: repo}
}

// CreateGroup creates a group with the creator as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID primitive.ObjectID, group *models.Group) (*models.Group, error) {
	if group.Name == "" {
		return nil, apperrors.InvalidInput("group name is required")
	}

	if group.Visibility == "" {
		group.Visibility = models.VisibilityPublic
	}
	if group.Visibility != models.VisibilityPublic && group.Visibility != models.VisibilityPrivate {
		return nil, apperrors.InvalidInput("visibility must be public or private")
	}

	group.CreatedBy = creatorID
	group.Members = []primitive.ObjectID{creatorID}

	created, err := s.repo.CreateGroup(ctx, group)
	if err != nil {
		logrus.WithError(err).Error("Failed to create group")
		return nil, fmt.Errorf("failed to create group: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"groupID":   created.ID.Hex(),
		"creatorID": creatorID.Hex(),
	}).Info("Group created")
	return created, nil
}

// GetGroup fetches a group. Private groups are only visible to members.
func (s *GroupService) GetGroup(ctx context.Context, groupID string, userID primitive.ObjectID) (*models.Group, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.Visibility != models.VisibilityPublic && !group.HasMember(userID) {
		return nil, apperrors.Forbidden("you do not have access to this group")
	}
	return group, nil
}

// GetGroupsForUser returns the groups the user belongs to.
func (s *GroupService) GetGroupsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	return s.repo.GetGroupsByMember(ctx, userID)
}

// GetPublicGroups returns all public groups.
func (s *GroupService) GetPublicGroups(ctx context.Context) ([]models.Group, error) {
	return s.repo.GetPublicGroups(ctx)
}

// JoinGroup adds the user to a public group.
func (s *GroupService) JoinGroup(ctx context.Context, groupID string, userID primitive.ObjectID) error {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if group.Visibility != models.VisibilityPublic {
		return apperrors.Forbidden("private groups are join-by-invitation only")
	}
	if group.HasMember(userID) {
		return apperrors.InvalidInput("you are already a member of this group")
	}

	return s.repo.AddMember(ctx, group.ID, userID)
}

// LeaveGroup removes the user from the group. The creator cannot leave.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID string, userID primitive.ObjectID) error {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if group.CreatedBy == userID {
		return apperrors.InvalidInput("the creator cannot leave the group, delete it instead")
	}
	if !group.HasMember(userID) {
		return apperrors.InvalidInput("you are not a member of this group")
	}

	return s.repo.RemoveMember(ctx, group.ID, userID)
}

// DeleteGroup deletes a group. Creator only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string, userID primitive.ObjectID) error {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if group.CreatedBy != userID {
		return apperrors.Forbidden("only the creator can delete the group")
	}

	return s.repo.DeleteGroup(ctx, group.ID)
}

func (s *GroupService) loadGroup(ctx context.Context, groupID string) (*models.Group, error) {
	objID, err := primitive.ObjectIDFromHex(groupID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid group ID: %v", err)
	}

	group, err := s.repo.GetGroupByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("group not found")
		}
		return nil, fmt.Errorf("failed to get group: %v", err)
	}
	return group, nil
}
