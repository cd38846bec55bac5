package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/accountability-buddy/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedRepository handles database operations for blog posts and book
// recommendations.
type FeedRepository struct {
	posts *mongo.Collection
	books *mongo.Collection
}

// NewFeedRepository creates a new instance of FeedRepository.
func NewFeedRepository(db *mongo.Database) *FeedRepository {
	return &FeedRepository{
		posts: db.Collection("blog_posts"),
		books: db.Collection("book_recommendations"),
	}
}

// CreatePost inserts a new blog post.
func (r *FeedRepository) CreatePost(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()

	result, err := r.posts.InsertOne(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to insert blog post: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	post.ID = insertedID

	return post, nil
}

// GetPostByID fetches a blog post by its ID.
func (r *FeedRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPosts fetches the latest blog posts, newest first.
func (r *FeedRepository) GetPosts(ctx context.Context, limit int64) ([]models.BlogPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blog posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []models.BlogPost
	for cursor.Next(ctx) {
		var post models.BlogPost
		if err := cursor.Decode(&post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// LikePost records a like from a user. The like set prevents double
// counting.
func (r *FeedRepository) LikePost(ctx context.Context, postID, userID primitive.ObjectID) error {
	_, err := r.posts.UpdateOne(
		ctx,
		bson.M{"_id": postID},
		bson.M{
			"$addToSet": bson.M{"likes": userID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to like post: %v", err)
	}
	return nil
}

// CreateBook inserts a new book recommendation.
func (r *FeedRepository) CreateBook(ctx context.Context, book *models.BookRecommendation) (*models.BookRecommendation, error) {
	book.CreatedAt = time.Now()

	result, err := r.books.InsertOne(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("failed to insert book recommendation: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	book.ID = insertedID

	return book, nil
}

// GetBooks fetches the latest book recommendations, newest first.
func (r *FeedRepository) GetBooks(ctx context.Context, limit int64) ([]models.BookRecommendation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.books.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book recommendations: %v", err)
	}
	defer cursor.Close(ctx)

	var books []models.BookRecommendation
	for cursor.Next(ctx) {
		var book models.BookRecommendation
		if err := cursor.Decode(&book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, nil
}
