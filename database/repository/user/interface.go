// File: database/repository/user/interface.go
package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medipulse/database/repository"
	"medipulse/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository is the read side of patient profiles used for booking snapshots.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a UserRepository over the "users" collection.
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	return &MongoUserRepo{coll: db.Collection("users")}
}

// GetByID returns repository.ErrNotFound for unknown ids.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user with id %s: %w", id, err)
	}
	return &user, nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
