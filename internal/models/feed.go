package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogPost is an entry in the community feed.
type BlogPost struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID  primitive.ObjectID   `bson:"author_id" json:"author_id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Tags      []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// BlogPostDetails is a BlogPost with its author expanded and the like
// list reduced to a count.
type BlogPostDetails struct {
	ID        primitive.ObjectID `json:"id"`
	Author    UserSummary        `json:"author"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Tags      []string           `json:"tags,omitempty"`
	LikeCount int                `json:"like_count"`
	CreatedAt time.Time          `json:"created_at"`
}

// BookRecommendation is a book suggested by a user in the feed.
type BookRecommendation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecommendedBy primitive.ObjectID `bson:"recommended_by" json:"recommended_by"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	Note          string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
