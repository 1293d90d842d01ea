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

type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(collectionMessages)}
}

type mongoMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Sender    primitive.ObjectID `bson:"sender"`
	Recipient primitive.ObjectID `bson:"recipient"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m mongoMessage) domain() *domain.Message {
	return &domain.Message{
		ID:        hexID(m.ID),
		Sender:    hexID(m.Sender),
		Recipient: hexID(m.Recipient),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// Ties on created_at fall back to _id, which grows with insertion order.
var oldestFirst = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	doc := mongoMessage{
		Sender:    refID(m.Sender),
		Recipient: refID(m.Recipient),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	oid, err := insert(ctx, r.coll, doc, nil)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.domain(), nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	var doc mongoMessage
	if err := findOne(ctx, r.coll, filter, &doc, domain.ErrMessageNotFound); err != nil {
		return nil, err
	}
	return doc.domain(), nil
}

func (r *MessageRepository) ListConversation(ctx context.Context, a, b string) ([]*domain.Message, error) {
	oa, ob := refID(a), refID(b)
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": oa, "recipient": ob},
		bson.M{"sender": ob, "recipient": oa},
	}}
	return r.list(ctx, filter)
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	oid := refID(userID)
	return r.list(ctx, bson.M{"$or": bson.A{bson.M{"sender": oid}, bson.M{"recipient": oid}}})
}

func (r *MessageRepository) list(ctx context.Context, filter bson.M) ([]*domain.Message, error) {
	var docs []mongoMessage
	if err := findAll(ctx, r.coll, filter, &docs, options.Find().SetSort(oldestFirst)); err != nil {
		return nil, err
	}
	out := make([]*domain.Message, len(docs))
	for i, d := range docs {
		out[i] = d.domain()
	}
	return out, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrMessageNotFound)
}
