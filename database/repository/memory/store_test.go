package memory

import (
	"context"
	"sync"
	"testing"

	"medipulse/database/repository"
	"medipulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDoctor(t *testing.T, s *Store) *models.Doctor {
	t.Helper()
	d := &models.Doctor{Name: "Ada", Fees: 500, Available: true}
	require.NoError(t, s.Doctors.Create(context.Background(), d))
	return d
}

func TestReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	d := seedDoctor(t, s)

	require.NoError(t, s.Doctors.ReserveSlot(ctx, d.ID, "5_3_2025", "10:00 AM"))
	assert.ErrorIs(t, s.Doctors.ReserveSlot(ctx, d.ID, "5_3_2025", "10:00 AM"), repository.ErrSlotTaken)

	got, err := s.Doctors.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM"}, got.SlotsBooked["5_3_2025"])

	require.NoError(t, s.Doctors.ReleaseSlot(ctx, d.ID, "5_3_2025", "10:00 AM"))
	require.NoError(t, s.Doctors.ReleaseSlot(ctx, d.ID, "5_3_2025", "10:00 AM"))
	require.NoError(t, s.Doctors.ReserveSlot(ctx, d.ID, "5_3_2025", "10:00 AM"))

	assert.ErrorIs(t, s.Doctors.ReserveSlot(ctx, "missing", "5_3_2025", "10:00 AM"), repository.ErrNotFound)
}

func TestGetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	d := seedDoctor(t, s)

	got, err := s.Doctors.GetByID(ctx, d.ID)
	require.NoError(t, err)
	got.SlotsBooked["1_1_2025"] = []string{"10:00 AM"}

	again, err := s.Doctors.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, again.SlotsBooked)
}

func TestBookSlotConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	d := seedDoctor(t, s)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.BookSlot(ctx, &models.Appointment{
				ID:       string(rune('a' + i)),
				DocID:    d.ID,
				SlotDate: "5_3_2025",
				SlotTime: "10:00 AM",
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	won := 0
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrSlotTaken)
	}
	assert.Equal(t, 1, won)

	all, err := s.Appointments.List(ctx, models.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookSlotFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.BookSlot(ctx, &models.Appointment{ID: "a1", DocID: "ghost", SlotDate: "5_3_2025", SlotTime: "10:00 AM"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.Appointments.GetByID(ctx, "a1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAppointmentStatusGuards(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Appointments.Put(models.Appointment{ID: "a1"})

	changed, err := s.Appointments.Complete(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Appointments.Cancel(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, changed, "completed appointments stay completed")

	changed, err = s.Appointments.MarkPaid(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = s.Appointments.MarkPaid(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = s.Appointments.MarkPaid(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCancelUnpaid(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Appointments.Put(models.Appointment{ID: "paid", Payment: true})
	s.Appointments.Put(models.Appointment{ID: "open"})

	changed, err := s.Appointments.CancelUnpaid(ctx, "paid")
	require.NoError(t, err)
	assert.False(t, changed)
	got, err := s.Appointments.GetByID(ctx, "paid")
	require.NoError(t, err)
	assert.False(t, got.Cancelled)

	changed, err = s.Appointments.CancelUnpaid(ctx, "open")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Appointments.CancelUnpaid(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Appointments.Put(models.Appointment{ID: "old", UserID: "u1", DocID: "d1", CreatedAt: 1})
	s.Appointments.Put(models.Appointment{ID: "new", UserID: "u1", DocID: "d2", CreatedAt: 2})
	s.Appointments.Put(models.Appointment{ID: "other", UserID: "u2", DocID: "d1", CreatedAt: 3})

	mine, err := s.Appointments.List(ctx, models.AppointmentFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "new", mine[0].ID)
	assert.Equal(t, "old", mine[1].ID)

	d1, err := s.Appointments.List(ctx, models.AppointmentFilter{DocID: "d1"})
	require.NoError(t, err)
	assert.Len(t, d1, 2)
}

func TestSettleCompleted(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Appointments.Put(models.Appointment{ID: "due", IsCompleted: true})
	s.Appointments.Put(models.Appointment{ID: "paid", IsCompleted: true, Payment: true})
	s.Appointments.Put(models.Appointment{ID: "open"})

	due, err := s.Appointments.ListUnsettledCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "due", due[0].ID)

	changed, err := s.Appointments.SettleCompleted(ctx, "due")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = s.Appointments.SettleCompleted(ctx, "due")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestAuditRecord(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Audit.Record(ctx, &models.AuditEntry{AppointmentID: "a1", Action: models.AuditBooked}))
	require.NoError(t, s.Audit.Record(ctx, &models.AuditEntry{AppointmentID: "a2", Action: models.AuditBooked}))

	entries, err := s.Audit.ListByAppointment(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].At.IsZero())
}
