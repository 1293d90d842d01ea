package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(collectionReviews)}
}

type mongoReview struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User          primitive.ObjectID `bson:"user"`
	Accommodation primitive.ObjectID `bson:"accommodation"`
	Rating        int                `bson:"rating"`
	Comment       string             `bson:"comment,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toMongoReview(r *domain.Review) mongoReview {
	return mongoReview{
		User:          refID(r.User),
		Accommodation: refID(r.Accommodation),
		Rating:        r.Rating,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (m mongoReview) domain() *domain.Review {
	return &domain.Review{
		ID:            hexID(m.ID),
		User:          hexID(m.User),
		Accommodation: hexID(m.Accommodation),
		Rating:        m.Rating,
		Comment:       m.Comment,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	doc := toMongoReview(rv)
	oid, err := insert(ctx, r.coll, doc, domain.ErrAlreadyReviewed)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.domain(), nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	var doc mongoReview
	if err := findOne(ctx, r.coll, filter, &doc, domain.ErrReviewNotFound); err != nil {
		return nil, err
	}
	return doc.domain(), nil
}

func (r *ReviewRepository) List(ctx context.Context, f ports.ReviewFilter) ([]*domain.Review, error) {
	filter := bson.M{}
	if f.AccommodationID != "" {
		filter["accommodation"] = refID(f.AccommodationID)
	}
	if f.UserID != "" {
		filter["user"] = refID(f.UserID)
	}

	var docs []mongoReview
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if err := findAll(ctx, r.coll, filter, &docs, opts); err != nil {
		return nil, err
	}
	out := make([]*domain.Review, len(docs))
	for i, d := range docs {
		out[i] = d.domain()
	}
	return out, nil
}

func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	doc := toMongoReview(rv)
	if err := replace(ctx, r.coll, rv.ID, doc, domain.ErrReviewNotFound, domain.ErrAlreadyReviewed); err != nil {
		return nil, err
	}
	doc.ID = refID(rv.ID)
	return doc.domain(), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrReviewNotFound)
}
