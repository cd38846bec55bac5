package services

import (
	"context"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService struct {
	Repo *repository.ChatRepository
}

func NewChatService(repo *repository.ChatRepository) *ChatService {
	return &ChatService{Repo: repo}
}

func (s *ChatService) SendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	return s.Repo.SendMessage(ctx, msg)
}

func (s *ChatService) GetChat(ctx context.Context, userID, friendID string) ([]models.Message, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	fid, err := primitive.ObjectIDFromHex(friendID)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetChat(ctx, uid, fid)
}
