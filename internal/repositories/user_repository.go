package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kollect-app/kollect/backend/internal/engagement"
	"github.com/kollect-app/kollect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUserNotFound is returned when a referenced user does not exist
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error)
	ToggleFollow(ctx context.Context, actorID, targetID string) (following bool, followersCount int, err error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser creates a new user
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by hex ID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// GetUserByUsername retrieves a user by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetUserByFirebaseUID retrieves a user by their Firebase UID
func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"firebase_uid": firebaseUID})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user's mutable profile fields
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":         user.Name,
			"email":        user.Email,
			"bio":          user.Bio,
			"avatar":       user.Avatar,
			"firebase_uid": user.FirebaseUID,
			"updated_at":   user.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SearchUsers searches users by username or display name (case-insensitive prefix/substring)
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: regexQuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"name": pattern},
	}}

	var users []models.User
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ToggleFollow flips the follow edge between actor and target. The target's
// followers set is the source of truth: it is toggled with a single atomic
// pipeline update, then the actor's following set is converged to match.
// Returns whether the actor now follows the target and the target's new
// follower count.
func (r *MongoUserRepository) ToggleFollow(ctx context.Context, actorID, targetID string) (bool, int, error) {
	targetOID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return false, 0, fmt.Errorf("invalid user ID format: %w", err)
	}
	actorOID, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return false, 0, fmt.Errorf("invalid user ID format: %w", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var target models.User
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": targetOID},
		engagement.TogglePipeline("followers", actorID),
		opts,
	).Decode(&target)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, 0, ErrUserNotFound
		}
		return false, 0, err
	}

	following := engagement.Contains(target.Followers, actorID)

	// Mirror the edge on the actor's side. $addToSet/$pull are idempotent, so
	// the actor's following set converges to the target's followers set even
	// if a racing toggle interleaves here.
	var mirror bson.M
	if following {
		mirror = bson.M{"$addToSet": bson.M{"following": targetID}}
	} else {
		mirror = bson.M{"$pull": bson.M{"following": targetID}}
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": actorOID}, mirror); err != nil {
		return following, len(target.Followers), err
	}

	return following, len(target.Followers), nil
}

// regexQuoteMeta escapes regex metacharacters in a user-supplied search query
func regexQuoteMeta(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$':
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
