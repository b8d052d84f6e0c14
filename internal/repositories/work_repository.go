package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kollect-app/kollect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrWorkNotFound is returned when a referenced work record does not exist
var ErrWorkNotFound = errors.New("work not found")

// WorkRepository defines the interface for work (deliverable tracking) operations
type WorkRepository interface {
	CreateWork(ctx context.Context, work *models.Work) error
	GetWorkByID(ctx context.Context, id string) (*models.Work, error)
	GetWorksByKol(ctx context.Context, kolID string) ([]models.Work, error)
	GetWorksByBrand(ctx context.Context, brandID string) ([]models.Work, error)
	HasApplied(ctx context.Context, campaignID, kolID string) (bool, error)
	SaveProgress(ctx context.Context, work *models.Work) error
}

// MongoWorkRepository implements WorkRepository for MongoDB
type MongoWorkRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkRepository creates a new MongoWorkRepository
func NewMongoWorkRepository(db *mongo.Database) *MongoWorkRepository {
	return &MongoWorkRepository{collection: db.Collection("works")}
}

// CreateWork creates a new work record
func (r *MongoWorkRepository) CreateWork(ctx context.Context, work *models.Work) error {
	work.ID = primitive.NewObjectID()
	work.CreatedAt = time.Now()
	work.UpdatedAt = work.CreatedAt
	if work.Status == "" {
		work.Status = models.WorkStatusPending
	}
	_, err := r.collection.InsertOne(ctx, work)
	return err
}

// GetWorkByID retrieves a work record by ID
func (r *MongoWorkRepository) GetWorkByID(ctx context.Context, id string) (*models.Work, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid work ID format: %w", err)
	}

	var work models.Work
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&work)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrWorkNotFound
		}
		return nil, err
	}
	return &work, nil
}

// GetWorksByKol lists a KOL's work records, newest first
func (r *MongoWorkRepository) GetWorksByKol(ctx context.Context, kolID string) ([]models.Work, error) {
	return r.find(ctx, bson.M{"kol_id": kolID})
}

// GetWorksByBrand lists work records across a brand's campaigns, newest first
func (r *MongoWorkRepository) GetWorksByBrand(ctx context.Context, brandID string) ([]models.Work, error) {
	return r.find(ctx, bson.M{"brand_id": brandID})
}

func (r *MongoWorkRepository) find(ctx context.Context, filter bson.M) ([]models.Work, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var works []models.Work
	if err = cursor.All(ctx, &works); err != nil {
		return nil, err
	}
	return works, nil
}

// HasApplied reports whether the KOL already has a work record for the campaign
func (r *MongoWorkRepository) HasApplied(ctx context.Context, campaignID, kolID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"campaign_id": campaignID, "kol_id": kolID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveProgress persists the deliverable list together with the progress and
// status derived from it, so the stored aggregate always matches the stored list
func (r *MongoWorkRepository) SaveProgress(ctx context.Context, work *models.Work) error {
	work.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": work.ID},
		bson.M{"$set": bson.M{
			"deliverables": work.Deliverables,
			"progress":     work.Progress,
			"status":       work.Status,
			"updated_at":   work.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrWorkNotFound
	}
	return nil
}
