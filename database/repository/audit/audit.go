// File: database/repository/audit/audit.go
package auditRepo

import (
	"context"
	"fmt"
	"time"

	"medipulse/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository appends appointment history entries.
type AuditRepository interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
	ListByAppointment(ctx context.Context, appointmentID string) ([]models.AuditEntry, error)
}

type mongoAuditRepo struct {
	coll *mongo.Collection
}

func NewMongoAuditRepo(db *mongo.Database) AuditRepository {
	return &mongoAuditRepo{coll: db.Collection("appointment_audit")}
}

func (r *mongoAuditRepo) Record(ctx context.Context, entry *models.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func (r *mongoAuditRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]models.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"appointmentId": appointmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.AuditEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding audit entries: %w", err)
	}
	return entries, nil
}
