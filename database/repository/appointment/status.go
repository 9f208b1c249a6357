// File: database/repository/appointment/status.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"medipulse/database/repository"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoAppointmentRepo) MarkPaid(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"payment": true}})
	if err != nil {
		return false, fmt.Errorf("failed to mark appointment %s paid: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return false, repository.ErrNotFound
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoAppointmentRepo) Cancel(ctx context.Context, id string) (bool, error) {
	return r.setWhere(ctx, OpenFilter(id), id, "cancelled")
}

func (r *mongoAppointmentRepo) CancelUnpaid(ctx context.Context, id string) (bool, error) {
	return r.setWhere(ctx, OpenUnpaidFilter(id), id, "cancelled")
}

func (r *mongoAppointmentRepo) Complete(ctx context.Context, id string) (bool, error) {
	return r.setWhere(ctx, OpenFilter(id), id, "isCompleted")
}

func (r *mongoAppointmentRepo) setWhere(ctx context.Context, filter bson.M, id, field string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{field: true}})
	if err != nil {
		return false, fmt.Errorf("failed to set %s on appointment %s: %w", field, id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoAppointmentRepo) SettleCompleted(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := UnsettledFilter()
	filter["id"] = id
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"payment": true}})
	if err != nil {
		return false, fmt.Errorf("failed to settle appointment %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}
