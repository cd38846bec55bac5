package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/internal/repository"
	"github.com/accountability-buddy/api/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeedService handles the blog and book recommendation feed.
type FeedService struct {
	repo     *repository.FeedRepository
	userRepo *repository.UserRepository
}

// NewFeedService creates a new instance of FeedService.
func NewFeedService(repo *repository.FeedRepository, userRepo *repository.UserRepository) *FeedService {
	return &FeedService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// CreatePost publishes a blog post authored by the given user.
func (s *FeedService) CreatePost(ctx context.Context, authorID primitive.ObjectID, post *models.BlogPost) (*models.BlogPost, error) {
	if post.Title == "" {
		return nil, apperrors.InvalidInput("post title is required")
	}
	if post.Content == "" {
		return nil, apperrors.InvalidInput("post content is required")
	}

	post.AuthorID = authorID
	return s.repo.CreatePost(ctx, post)
}

// GetFeed returns the latest blog posts with authors expanded.
func (s *FeedService) GetFeed(ctx context.Context, limit int64) ([]models.BlogPostDetails, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	posts, err := s.repo.GetPosts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %v", err)
	}

	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, post := range posts {
		authorIDs = append(authorIDs, post.AuthorID)
	}

	authors := make(map[primitive.ObjectID]models.UserSummary, len(authorIDs))
	if len(authorIDs) > 0 {
		users, err := s.userRepo.GetUsersByIDs(ctx, authorIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to expand authors: %v", err)
		}
		for i := range users {
			authors[users[i].ID] = users[i].Summary()
		}
	}

	details := make([]models.BlogPostDetails, 0, len(posts))
	for _, post := range posts {
		details = append(details, models.BlogPostDetails{
			ID:        post.ID,
			Author:    authors[post.AuthorID],
			Title:     post.Title,
			Content:   post.Content,
			Tags:      post.Tags,
			LikeCount: len(post.Likes),
			CreatedAt: post.CreatedAt,
		})
	}
	return details, nil
}

// GetPost fetches a single blog post.
func (s *FeedService) GetPost(ctx context.Context, postID string) (*models.BlogPost, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid post ID: %v", err)
	}

	post, err := s.repo.GetPostByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("failed to get post: %v", err)
	}
	return post, nil
}

// LikePost records a like from the user on a post.
func (s *FeedService) LikePost(ctx context.Context, postID string, userID primitive.ObjectID) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	return s.repo.LikePost(ctx, post.ID, userID)
}

// RecommendBook publishes a book recommendation.
func (s *FeedService) RecommendBook(ctx context.Context, userID primitive.ObjectID, book *models.BookRecommendation) (*models.BookRecommendation, error) {
	if book.Title == "" || book.Author == "" {
		return nil, apperrors.InvalidInput("book title and author are required")
	}

	book.RecommendedBy = userID
	return s.repo.CreateBook(ctx, book)
}

// GetBooks returns the latest book recommendations.
func (s *FeedService) GetBooks(ctx context.Context, limit int64) ([]models.BookRecommendation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetBooks(ctx, limit)
}
