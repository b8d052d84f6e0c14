package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reactor-set field names on the post document
const (
	ReactionLikes = "likes"
	ReactionSaves = "saves"
)

// Post represents a KOL post stored in MongoDB. Likes and Saves are reactor
// sets of user IDs; the counts exposed in responses are the set sizes.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Content   string             `json:"content" bson:"content"`
	ImageURLs []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	VideoURLs []string           `json:"video_urls,omitempty" bson:"video_urls,omitempty"`
	Likes     []string           `json:"-" bson:"likes"`
	Saves     []string           `json:"-" bson:"saves"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ReactorSet returns the named reactor set of the post
func (p *Post) ReactorSet(field string) []string {
	if field == ReactionSaves {
		return p.Saves
	}
	return p.Likes
}

// Comment is a comment subdocument embedded in a post
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"required,min=1,max=2200"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	VideoURLs []string `json:"video_urls,omitempty" validate:"omitempty,dive,url"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
