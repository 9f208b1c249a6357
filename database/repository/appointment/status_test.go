package appointmentRepo

import (
	"context"
	"testing"

	"medipulse/database/repository"
	"medipulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func updated(n, modified int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: modified})
}

func TestFilters(t *testing.T) {
	assert.Equal(t, bson.M{"id": "a1", "cancelled": false, "isCompleted": false}, OpenFilter("a1"))
	assert.Equal(t, bson.M{"id": "a1", "cancelled": false, "isCompleted": false, "payment": false}, OpenUnpaidFilter("a1"))
	assert.Equal(t, bson.M{"isCompleted": true, "payment": false, "cancelled": false}, UnsettledFilter())
}

func TestMarkPaid(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("first payment", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(updated(1, 1))
		changed, err := repo.MarkPaid(context.Background(), "a1")
		require.NoError(t, err)
		assert.True(t, changed)
	})

	mt.Run("already paid", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(updated(1, 0))
		changed, err := repo.MarkPaid(context.Background(), "a1")
		require.NoError(t, err)
		assert.False(t, changed)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(updated(0, 0))
		_, err := repo.MarkPaid(context.Background(), "nope")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCancelIsConditional(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("open appointment", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(updated(1, 1))
		changed, err := repo.Cancel(context.Background(), "a1")
		require.NoError(t, err)
		assert.True(t, changed)
	})

	mt.Run("already closed", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(updated(0, 0))
		changed, err := repo.Cancel(context.Background(), "a1")
		require.NoError(t, err)
		assert.False(t, changed)
	})

	mt.Run("paid appointment is not cancelled for a failed charge", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(updated(0, 0))
		changed, err := repo.CancelUnpaid(context.Background(), "a1")
		require.NoError(t, err)
		assert.False(t, changed)
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}))
		_, err := repo.Complete(context.Background(), "a1")
		assert.Error(t, err)
	})
}

func TestListDecodesAppointments(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("by user", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		ns := mt.DB.Name() + ".appointments"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "a2"}, {Key: "userId", Value: "u1"}, {Key: "slotDate", Value: "5_3_2025"}},
			bson.D{{Key: "id", Value: "a1"}, {Key: "userId", Value: "u1"}, {Key: "slotDate", Value: "4_3_2025"}},
		))

		got, err := repo.List(context.Background(), models.AppointmentFilter{UserID: "u1"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a2", got[0].ID)
	})

	mt.Run("empty", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		ns := mt.DB.Name() + ".appointments"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.ListUnsettledCompleted(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
