package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

type BookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{coll: db.Collection(collectionBookings)}
}

type mongoBooking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User          primitive.ObjectID `bson:"user"`
	Accommodation primitive.ObjectID `bson:"accommodation"`
	StartDate     time.Time          `bson:"start_date"`
	EndDate       time.Time          `bson:"end_date"`
	Guests        int                `bson:"guests"`
	TotalPrice    float64            `bson:"total_price"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toMongoBooking(b *domain.Booking) mongoBooking {
	return mongoBooking{
		User:          refID(b.User),
		Accommodation: refID(b.Accommodation),
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Guests:        b.Guests,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (m mongoBooking) domain() *domain.Booking {
	return &domain.Booking{
		ID:            hexID(m.ID),
		User:          hexID(m.User),
		Accommodation: hexID(m.Accommodation),
		StartDate:     m.StartDate.UTC(),
		EndDate:       m.EndDate.UTC(),
		Guests:        m.Guests,
		TotalPrice:    m.TotalPrice,
		Status:        domain.BookingStatus(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	doc := toMongoBooking(b)
	oid, err := insert(ctx, r.coll, doc, nil)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.domain(), nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	var doc mongoBooking
	if err := findOne(ctx, r.coll, filter, &doc, domain.ErrBookingNotFound); err != nil {
		return nil, err
	}
	return doc.domain(), nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	var docs []mongoBooking
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	if err := findAll(ctx, r.coll, bson.M{"user": refID(userID)}, &docs, opts); err != nil {
		return nil, err
	}
	out := make([]*domain.Booking, len(docs))
	for i, d := range docs {
		out[i] = d.domain()
	}
	return out, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	doc := toMongoBooking(b)
	if err := replace(ctx, r.coll, b.ID, doc, domain.ErrBookingNotFound, nil); err != nil {
		return nil, err
	}
	doc.ID = refID(b.ID)
	return doc.domain(), nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrBookingNotFound)
}

func (r *BookingRepository) HasOverlap(ctx context.Context, accommodationID string, start, end time.Time, excludeID string) (bool, error) {
	filter := bson.M{
		"accommodation": refID(accommodationID),
		"status":        string(domain.BookingConfirmed),
		"start_date":    bson.M{"$lt": end},
		"end_date":      bson.M{"$gt": start},
	}
	if oid, ok := objectID(excludeID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return n > 0, nil
}
