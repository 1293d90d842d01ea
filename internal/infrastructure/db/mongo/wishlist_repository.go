package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

type WishlistRepository struct {
	coll *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{coll: db.Collection(collectionWishlist)}
}

type mongoWishlistItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User          primitive.ObjectID `bson:"user"`
	Accommodation primitive.ObjectID `bson:"accommodation"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (m mongoWishlistItem) domain() *domain.WishlistItem {
	return &domain.WishlistItem{
		ID:            hexID(m.ID),
		User:          hexID(m.User),
		Accommodation: hexID(m.Accommodation),
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

// Create relies on the unique (user, accommodation) index to reject duplicates.
func (r *WishlistRepository) Create(ctx context.Context, w *domain.WishlistItem) (*domain.WishlistItem, error) {
	doc := mongoWishlistItem{
		User:          refID(w.User),
		Accommodation: refID(w.Accommodation),
		CreatedAt:     w.CreatedAt,
	}
	oid, err := insert(ctx, r.coll, doc, domain.ErrAlreadyWishlisted)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.domain(), nil
}

func (r *WishlistRepository) FindByID(ctx context.Context, id string) (*domain.WishlistItem, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, domain.ErrWishlistItemNotFound
	}
	var doc mongoWishlistItem
	if err := findOne(ctx, r.coll, filter, &doc, domain.ErrWishlistItemNotFound); err != nil {
		return nil, err
	}
	return doc.domain(), nil
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]*domain.WishlistItem, error) {
	var docs []mongoWishlistItem
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := findAll(ctx, r.coll, bson.M{"user": refID(userID)}, &docs, opts); err != nil {
		return nil, err
	}
	out := make([]*domain.WishlistItem, len(docs))
	for i, d := range docs {
		out[i] = d.domain()
	}
	return out, nil
}

func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrWishlistItemNotFound)
}
