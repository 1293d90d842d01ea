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

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (mu mongoUser) domain() *domain.User {
	return &domain.User{
		ID:           hexID(mu.ID),
		Name:         mu.Name,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := toMongoUser(user)
	oid, err := insert(ctx, r.coll, doc, domain.ErrUserExists)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.domain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	var mu mongoUser
	if err := findOne(ctx, r.coll, filter, &mu, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return mu.domain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := findOne(ctx, r.coll, bson.M{"email": email}, &mu, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return mu.domain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var docs []mongoUser
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := findAll(ctx, r.coll, bson.M{}, &docs, opts); err != nil {
		return nil, err
	}
	out := make([]*domain.User, len(docs))
	for i, d := range docs {
		out[i] = d.domain()
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := toMongoUser(user)
	if err := replace(ctx, r.coll, user.ID, doc, domain.ErrUserNotFound, domain.ErrUserExists); err != nil {
		return nil, err
	}
	doc.ID = refID(user.ID)
	return doc.domain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrUserNotFound)
}
