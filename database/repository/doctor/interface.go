// File: database/repository/doctor/interface.go
package doctorRepo

import (
	"context"

	"medipulse/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DoctorRepository owns doctor documents and their slot ledger.
type DoctorRepository interface {
	// GetByID returns repository.ErrNotFound when no doctor has the id.
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	GetAll(ctx context.Context) ([]models.Doctor, error)
	Create(ctx context.Context, doctor *models.Doctor) error
	// ReserveSlot adds slotTime to the ledger under date only if it is absent,
	// in one conditional update. It returns repository.ErrSlotTaken on conflict.
	ReserveSlot(ctx context.Context, docID, date, slotTime string) error
	// ReleaseSlot filters slotTime out of the ledger; absent times are a no-op.
	ReleaseSlot(ctx context.Context, docID, date, slotTime string) error
}

type mongoDoctorRepo struct {
	coll *mongo.Collection
}

// NewMongoDoctorRepo constructs a DoctorRepository over the "doctors" collection.
func NewMongoDoctorRepo(db *mongo.Database) DoctorRepository {
	return &mongoDoctorRepo{coll: db.Collection("doctors")}
}
