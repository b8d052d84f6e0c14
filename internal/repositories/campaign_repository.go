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

// ErrCampaignNotFound is returned when a referenced campaign does not exist
var ErrCampaignNotFound = errors.New("campaign not found")

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign *models.Campaign) error
	GetCampaignByID(ctx context.Context, id string) (*models.Campaign, error)
	GetCampaigns(ctx context.Context, status string, skip, limit int64) ([]models.Campaign, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// MongoCampaignRepository implements CampaignRepository for MongoDB
type MongoCampaignRepository struct {
	collection *mongo.Collection
}

// NewMongoCampaignRepository creates a new MongoCampaignRepository
func NewMongoCampaignRepository(db *mongo.Database) *MongoCampaignRepository {
	return &MongoCampaignRepository{collection: db.Collection("campaigns")}
}

// CreateCampaign creates a new campaign
func (r *MongoCampaignRepository) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusOpen
	}
	_, err := r.collection.InsertOne(ctx, campaign)
	return err
}

// GetCampaignByID retrieves a campaign by ID
func (r *MongoCampaignRepository) GetCampaignByID(ctx context.Context, id string) (*models.Campaign, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid campaign ID format: %w", err)
	}

	var campaign models.Campaign
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&campaign)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// GetCampaigns lists campaigns, optionally filtered by status, newest first
func (r *MongoCampaignRepository) GetCampaigns(ctx context.Context, status string, skip, limit int64) ([]models.Campaign, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []models.Campaign
	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// UpdateStatus sets a campaign's status
func (r *MongoCampaignRepository) UpdateStatus(ctx context.Context, id, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid campaign ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCampaignNotFound
	}
	return nil
}
