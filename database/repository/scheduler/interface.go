// File: database/repository/scheduler/interface.go
package schedulerRepo

import (
	"context"

	"medipulse/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingStore reserves a slot and records its appointment as one unit of work:
// both writes happen or neither does.
type BookingStore interface {
	// BookSlot returns repository.ErrNotFound when the doctor is gone and
	// repository.ErrSlotTaken when appt's slot is already in the ledger.
	BookSlot(ctx context.Context, appt *models.Appointment) error
}

// MongoSchedulerRepo implements BookingStore with a multi-document transaction.
// The deployment must be a replica set or sharded cluster.
type MongoSchedulerRepo struct {
	doctorColl      *mongo.Collection
	appointmentColl *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo(db *mongo.Database) *MongoSchedulerRepo {
	return &MongoSchedulerRepo{
		doctorColl:      db.Collection("doctors"),
		appointmentColl: db.Collection("appointments"),
	}
}
