// File: database/repository/doctor/slots.go
package doctorRepo

import (
	"context"
	"fmt"
	"time"

	"medipulse/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SlotPath is the document path of one ledger date. Callers validate date first;
// a valid D_M_YYYY key contains neither '.' nor '$'.
func SlotPath(date string) string {
	return "slotsBooked." + date
}

// ReserveFilter matches the doctor only while slotTime is absent from the date's set.
func ReserveFilter(docID, date, slotTime string) bson.M {
	return bson.M{
		"id":           docID,
		SlotPath(date): bson.M{"$ne": slotTime},
	}
}

// ReserveUpdate inserts slotTime into the date's set, creating the set when missing.
func ReserveUpdate(date, slotTime string) bson.M {
	return bson.M{"$addToSet": bson.M{SlotPath(date): slotTime}}
}

func (r *mongoDoctorRepo) ReserveSlot(ctx context.Context, docID, date, slotTime string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ReserveIn(ctx, r.coll, docID, date, slotTime)
}

// ReserveIn runs the conditional reservation against coll. It is shared with the
// booking transaction so both paths use the same filter.
func ReserveIn(ctx context.Context, coll *mongo.Collection, docID, date, slotTime string) error {
	res, err := coll.UpdateOne(ctx, ReserveFilter(docID, date, slotTime), ReserveUpdate(date, slotTime))
	if err != nil {
		return fmt.Errorf("failed to reserve slot %s %s for doctor %s: %w", date, slotTime, docID, err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// Nothing matched: either the doctor is gone or the time is already held.
	n, err := coll.CountDocuments(ctx, bson.M{"id": docID})
	if err != nil {
		return fmt.Errorf("failed to check doctor %s: %w", docID, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrSlotTaken
}

func (r *mongoDoctorRepo) ReleaseSlot(ctx context.Context, docID, date, slotTime string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$pull": bson.M{SlotPath(date): slotTime}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": docID}, update)
	if err != nil {
		return fmt.Errorf("failed to release slot %s %s for doctor %s: %w", date, slotTime, docID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
