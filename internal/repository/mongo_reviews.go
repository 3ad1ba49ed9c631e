package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	CustomerID int64              `bson:"customer_id"`
	MenuItemID int64              `bson:"menu_item_id"`
	Rating     float64            `bson:"rating"`
	ReviewText string             `bson:"review_text,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:         d.ID.Hex(),
		CustomerID: d.CustomerID,
		MenuItemID: d.MenuItemID,
		Rating:     d.Rating,
		ReviewText: d.ReviewText,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

type mongoReviewRepository struct {
	collection *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepository{
		collection: db.Collection("reviews"),
	}
}

func reviewObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewNotFoundError("review", id)
	}
	return oid, nil
}

func (m *mongoReviewRepository) CreateReview(ctx context.Context, review *domain.Review) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := reviewDocument{
		ID:         primitive.NewObjectID(),
		CustomerID: review.CustomerID,
		MenuItemID: review.MenuItemID,
		Rating:     review.Rating,
		ReviewText: review.ReviewText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	*review = *doc.toDomain()
	return nil
}

func (m *mongoReviewRepository) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := reviewObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc reviewDocument
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError("review", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return doc.toDomain(), nil
}

func (m *mongoReviewRepository) ListReviews(ctx context.Context, skip, limit int) ([]*domain.Review, error) {
	return m.find(ctx, bson.M{}, skip, limit)
}

func (m *mongoReviewRepository) ListReviewsByMenuItem(ctx context.Context, menuItemID int64, skip, limit int) ([]*domain.Review, error) {
	return m.find(ctx, bson.M{"menu_item_id": menuItemID}, skip, limit)
}

func (m *mongoReviewRepository) find(ctx context.Context, filter bson.M, skip, limit int) ([]*domain.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]*domain.Review, 0)
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("review cursor error: %w", err)
	}
	return reviews, nil
}

func (m *mongoReviewRepository) UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	oid, err := reviewObjectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.ReviewText != nil {
		set["review_text"] = *patch.ReviewText
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc reviewDocument
	err = m.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError("review", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return doc.toDomain(), nil
}

func (m *mongoReviewRepository) DeleteReview(ctx context.Context, id string) error {
	oid, err := reviewObjectID(id)
	if err != nil {
		return err
	}

	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.NewNotFoundError("review", id)
	}
	return nil
}

// RatingSummary averages ratings for one menu item. An item with no reviews
// has an average of 0.
func (m *mongoReviewRepository) RatingSummary(ctx context.Context, menuItemID int64) (*domain.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"menu_item_id": menuItemID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$menu_item_id",
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	summary := &domain.RatingSummary{MenuItemID: menuItemID}
	if cursor.Next(ctx) {
		var row struct {
			Avg   float64 `bson:"avg"`
			Count int64   `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode rating summary: %w", err)
		}
		summary.AverageRating = row.Avg
		summary.ReviewCount = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("rating cursor error: %w", err)
	}
	return summary, nil
}

func (m *mongoReviewRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "menu_item_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// EnsureReviewIndexes creates the review collection indexes.
func EnsureReviewIndexes(ctx context.Context, repo ReviewRepository) error {
	if m, ok := repo.(*mongoReviewRepository); ok {
		return m.CreateIndexes(ctx)
	}
	return nil
}
