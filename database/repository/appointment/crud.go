// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medipulse/database/repository"
	"medipulse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OpenFilter matches an appointment that is neither cancelled nor completed.
func OpenFilter(id string) bson.M {
	return bson.M{"id": id, "cancelled": false, "isCompleted": false}
}

// OpenUnpaidFilter matches an open appointment that has no recorded payment.
func OpenUnpaidFilter(id string) bson.M {
	filter := OpenFilter(id)
	filter["payment"] = false
	return filter
}

// UnsettledFilter matches completed appointments that never recorded a payment.
func UnsettledFilter() bson.M {
	return bson.M{"isCompleted": true, "payment": false, "cancelled": false}
}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.DocID != "" {
		query["docId"] = filter.DocID
	}
	return r.find(ctx, query)
}

func (r *mongoAppointmentRepo) ListUnsettledCompleted(ctx context.Context) ([]models.Appointment, error) {
	return r.find(ctx, UnsettledFilter())
}

func (r *mongoAppointmentRepo) find(ctx context.Context, query bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appointments, nil
}
