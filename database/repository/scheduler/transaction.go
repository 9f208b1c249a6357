package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	doctorRepo "medipulse/database/repository/doctor"
	"medipulse/models"

	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *MongoSchedulerRepo) BookSlot(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := repo.doctorColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// Reserve first so a taken slot aborts before anything is inserted.
		if err := doctorRepo.ReserveIn(sc, repo.doctorColl, appt.DocID, appt.SlotDate, appt.SlotTime); err != nil {
			return err
		}
		if _, err := repo.appointmentColl.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	}

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return fmt.Errorf("could not start transaction: %w", err)
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
