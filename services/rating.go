package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/store"
)

// RatingService keeps a property's numReviews and averageRating in step with its reviews.
type RatingService struct {
	reviews    store.ReviewStore
	properties store.PropertyStore
	strict     bool
}

// NewRatingService returns a service that, when strict is false, only logs recompute
// failures instead of surfacing them.
func NewRatingService(reviews store.ReviewStore, properties store.PropertyStore, strict bool) *RatingService {
	return &RatingService{reviews: reviews, properties: properties, strict: strict}
}

func (s *RatingService) Refresh(ctx context.Context, propertyID primitive.ObjectID) error {
	err := s.recompute(ctx, propertyID)
	if err == nil {
		return nil
	}
	if s.strict {
		return err
	}
	logger.Error().Err(err).Str("property", propertyID.Hex()).Msg("rating recompute failed")
	return nil
}

func (s *RatingService) recompute(ctx context.Context, propertyID primitive.ObjectID) error {
	stats, err := s.reviews.Stats(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("aggregate reviews: %w", err)
	}
	if stats.Count == 0 {
		stats.Average = 0
	}
	if err := s.properties.SetRatingStats(ctx, propertyID, stats); err != nil {
		return fmt.Errorf("store rating stats: %w", err)
	}
	return nil
}
