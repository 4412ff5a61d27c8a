package mongodb

import (
	"context"
	"fmt"

	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const PlacesCollection = "places"

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection(PlacesCollection),
		logger:     log.Named("ListingRepository"),
	}
}

// Create inserts one places document and returns its id.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.BusinessListing) (string, error) {
	doc := toPlaceDocument(listing)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("ListingRepository.Create: insert failed", zap.String("userID", listing.UserID), zap.Error(err))
		return "", fmt.Errorf("insert place: %w", err)
	}
	r.logger.Debug("ListingRepository.Create: inserted", zap.String("id", doc.ID.Hex()))
	return doc.ID.Hex(), nil
}
