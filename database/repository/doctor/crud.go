// File: database/repository/doctor/crud.go
package doctorRepo

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoDoctorRepo) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doctor models.Doctor
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doctor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching doctor with id %s: %w", id, err)
	}
	return &doctor, nil
}

func (r *mongoDoctorRepo) GetAll(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("error decoding doctors: %w", err)
	}
	return doctors, nil
}

// Create inserts doctor. The ledger is stored as an empty document, never null,
// so later per-date updates have a parent to write into.
func (r *mongoDoctorRepo) Create(ctx context.Context, doctor *models.Doctor) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if doctor.ID == "" {
		doctor.ID = uuid.New().String()
	}
	if doctor.SlotsBooked == nil {
		doctor.SlotsBooked = map[string][]string{}
	}
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}
