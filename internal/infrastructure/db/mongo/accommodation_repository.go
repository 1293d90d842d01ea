package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type AccommodationRepository struct {
	coll *mongo.Collection
}

func NewAccommodationRepository(db *mongo.Database) *AccommodationRepository {
	return &AccommodationRepository{coll: db.Collection(collectionAccommodations)}
}

type mongoAccommodation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Owner         primitive.ObjectID `bson:"owner"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description,omitempty"`
	Location      string             `bson:"location"`
	City          string             `bson:"city"`
	PricePerNight float64            `bson:"price_per_night"`
	MaxGuests     int                `bson:"max_guests"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toMongoAccommodation(a *domain.Accommodation) mongoAccommodation {
	return mongoAccommodation{
		Owner:         refID(a.Owner),
		Name:          a.Name,
		Description:   a.Description,
		Location:      a.Location,
		City:          a.City,
		PricePerNight: a.PricePerNight,
		MaxGuests:     a.MaxGuests,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (m mongoAccommodation) domain() *domain.Accommodation {
	return &domain.Accommodation{
		ID:            hexID(m.ID),
		Owner:         hexID(m.Owner),
		Name:          m.Name,
		Description:   m.Description,
		Location:      m.Location,
		City:          m.City,
		PricePerNight: m.PricePerNight,
		MaxGuests:     m.MaxGuests,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func (r *AccommodationRepository) Create(ctx context.Context, a *domain.Accommodation) (*domain.Accommodation, error) {
	doc := toMongoAccommodation(a)
	oid, err := insert(ctx, r.coll, doc, nil)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.domain(), nil
}

func (r *AccommodationRepository) FindByID(ctx context.Context, id string) (*domain.Accommodation, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, domain.ErrAccommodationNotFound
	}
	var doc mongoAccommodation
	if err := findOne(ctx, r.coll, filter, &doc, domain.ErrAccommodationNotFound); err != nil {
		return nil, err
	}
	return doc.domain(), nil
}

func (r *AccommodationRepository) List(ctx context.Context, f ports.AccommodationFilter) ([]*domain.Accommodation, error) {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner"] = refID(f.OwnerID)
	}
	if f.City != "" {
		filter["city"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(f.City), Options: "i"}}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price_per_night"] = price
	}

	var docs []mongoAccommodation
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := findAll(ctx, r.coll, filter, &docs, opts); err != nil {
		return nil, err
	}
	out := make([]*domain.Accommodation, len(docs))
	for i, d := range docs {
		out[i] = d.domain()
	}
	return out, nil
}

func (r *AccommodationRepository) Update(ctx context.Context, a *domain.Accommodation) (*domain.Accommodation, error) {
	doc := toMongoAccommodation(a)
	if err := replace(ctx, r.coll, a.ID, doc, domain.ErrAccommodationNotFound, nil); err != nil {
		return nil, err
	}
	doc.ID = refID(a.ID)
	return doc.domain(), nil
}

func (r *AccommodationRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrAccommodationNotFound)
}
