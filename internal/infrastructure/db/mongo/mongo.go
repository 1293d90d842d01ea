package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/octodock/marketplace-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers          = "users"
	collectionAccommodations = "accommodations"
	collectionBookings       = "bookings"
	collectionReviews        = "reviews"
	collectionMessages       = "messages"
	collectionWishlist       = "wishlist"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store exposes the MongoDB repositories of one database.
type Store struct {
	db             *mongo.Database
	users          *UserRepository
	accommodations *AccommodationRepository
	bookings       *BookingRepository
	reviews        *ReviewRepository
	messages       *MessageRepository
	wishlist       *WishlistRepository
}

var _ ports.Store = (*Store)(nil)

func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:             db,
		users:          NewUserRepository(db),
		accommodations: NewAccommodationRepository(db),
		bookings:       NewBookingRepository(db),
		reviews:        NewReviewRepository(db),
		messages:       NewMessageRepository(db),
		wishlist:       NewWishlistRepository(db),
	}
}

func (s *Store) Users() ports.UserRepository                   { return s.users }
func (s *Store) Accommodations() ports.AccommodationRepository { return s.accommodations }
func (s *Store) Bookings() ports.BookingRepository             { return s.bookings }
func (s *Store) Reviews() ports.ReviewRepository               { return s.reviews }
func (s *Store) Messages() ports.MessageRepository             { return s.messages }
func (s *Store) Wishlist() ports.WishlistRepository            { return s.wishlist }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// EnsureIndexes creates the indexes every repository relies on, including the
// unique ones that back the conflict errors.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	plan := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collectionAccommodations: {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "city", Value: 1}, {Key: "price_per_night", Value: 1}}},
		},
		collectionBookings: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "start_date", Value: 1}}},
			{Keys: bson.D{{Key: "accommodation", Value: 1}, {Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}},
		},
		collectionReviews: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "accommodation", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "accommodation", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collectionMessages: {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		collectionWishlist: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "accommodation", Value: 1}}, Options: unique},
		},
	}

	for coll, indexes := range plan {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// objectID parses a hex id. Malformed ids can never match a document, so
// callers treat !ok as not found.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// refID parses a reference that was validated upstream; a malformed value is
// stored as the nil id and never matches anything.
func refID(id string) primitive.ObjectID {
	oid, _ := objectID(id)
	return oid
}

func hexID(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

// findOne decodes the first document matching filter, mapping "no documents"
// to notFound.
func findOne(ctx context.Context, coll *mongo.Collection, filter any, out any, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := coll.FindOne(ctx, filter).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return notFound
		}
		return fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return nil
}

// findAll decodes every document matching filter into out (a pointer to a slice).
func findAll(ctx context.Context, coll *mongo.Collection, filter any, out any, opts ...*options.FindOptions) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return nil
}

// insert stores doc and returns its generated id. Duplicate key violations
// map to dup.
func insert(ctx context.Context, coll *mongo.Collection, doc any, dup error) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if dup != nil && mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, dup
		}
		return primitive.NilObjectID, fmt.Errorf("insert %s: %w", coll.Name(), err)
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid, nil
}

// replace overwrites the document with the given id. A document deleted in
// the meantime yields notFound.
func replace(ctx context.Context, coll *mongo.Collection, id string, doc any, notFound, dup error) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if dup != nil && mongo.IsDuplicateKeyError(err) {
			return dup
		}
		return fmt.Errorf("replace %s: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

// remove deletes the document with the given id, reporting notFound when
// nothing was deleted.
func remove(ctx context.Context, coll *mongo.Collection, id string, notFound error) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

func byID(id string) (bson.M, bool) {
	oid, ok := objectID(id)
	return bson.M{"_id": oid}, ok
}
