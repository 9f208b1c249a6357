package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"medipulse/database/repository/memory"
	"medipulse/models"
	"medipulse/services/booking"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	slotDate = "5_3_2025"
	slotTime = "10:00 AM"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.PaymentIntent, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(models.PaymentRequest) *models.PaymentIntent); ok {
		return fn(req), args.Error(1)
	}
	pi, _ := args.Get(0).(*models.PaymentIntent)
	return pi, args.Error(1)
}

func (m *mockProvider) RetrieveIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	pi, _ := args.Get(0).(*models.PaymentIntent)
	return pi, args.Error(1)
}

func openIntent(id string) func(models.PaymentRequest) *models.PaymentIntent {
	return func(req models.PaymentRequest) *models.PaymentIntent {
		return &models.PaymentIntent{
			ID:           id,
			ClientSecret: id + "_secret",
			Amount:       req.Amount,
			Currency:     req.Currency,
			Status:       models.IntentRequiresPaymentMethod,
			Metadata:     map[string]string{"appointmentId": req.AppointmentID, "userId": req.UserID},
		}
	}
}

type fixture struct {
	svc      *DefaultPaymentService
	bookings *booking.DefaultBookingService
	store    *memory.Store
	provider *mockProvider
	redis    *miniredis.Miniredis
	doctor   *models.Doctor
	user     *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	doctor := &models.Doctor{Name: "Greg House", Fees: 500, Available: true}
	require.NoError(t, store.Doctors.Create(ctx, doctor))
	user := &models.User{Name: "Pat"}
	require.NoError(t, store.Users.Create(ctx, user))

	bookings := booking.NewBookingService(booking.Repositories{
		Doctors:      store.Doctors,
		Users:        store.Users,
		Appointments: store.Appointments,
		Audit:        store.Audit,
		Store:        store,
	}, nil, zap.NewNop())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	provider := &mockProvider{}
	svc := NewPaymentService(bookings, provider, NewIntentRegistry(rdb, 30*time.Minute), "USD", nil, zap.NewNop())

	return &fixture{svc: svc, bookings: bookings, store: store, provider: provider, redis: mr, doctor: doctor, user: user}
}

func (f *fixture) request() IntentRequest {
	return IntentRequest{UserID: f.user.ID, DocID: f.doctor.ID, SlotDate: slotDate, SlotTime: slotTime}
}

func (f *fixture) ledger(t *testing.T) []string {
	t.Helper()
	d, err := f.store.Doctors.GetByID(context.Background(), f.doctor.ID)
	require.NoError(t, err)
	return d.SlotsBooked[slotDate]
}

func (f *fixture) appointment(t *testing.T, id string) *models.Appointment {
	t.Helper()
	appt, err := f.bookings.GetAppointment(context.Background(), id)
	require.NoError(t, err)
	return appt
}

func (f *fixture) intentStatus(appointmentID, intentID, status string) *models.PaymentIntent {
	return &models.PaymentIntent{
		ID:       intentID,
		Amount:   50000,
		Status:   status,
		Metadata: map[string]string{"appointmentId": appointmentID, "userId": f.user.ID},
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.provider.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req models.PaymentRequest) bool {
		return req.Amount == 50000 &&
			req.Currency == "usd" &&
			req.DoctorName == "Greg House" &&
			req.PatientName == "Pat" &&
			req.UserID == f.user.ID &&
			req.DocID == f.doctor.ID &&
			req.Description == "Appointment with Dr. Greg House on 5_3_2025 at 10:00 AM"
	})).Return(openIntent("pi_1"), nil).Once()

	handle, err := f.svc.CreatePaymentIntent(ctx, f.request())
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", handle.ClientSecret)
	assert.Equal(t, "pi_1", handle.PaymentIntentID)
	assert.NotEmpty(t, handle.AppointmentID)
	assert.False(t, handle.Reused)

	appt := f.appointment(t, handle.AppointmentID)
	assert.False(t, appt.Payment)
	assert.Equal(t, models.PaymentModeOnline, appt.PaymentMode)
	assert.Equal(t, []string{slotTime}, f.ledger(t), "slot is held while payment is pending")

	stored, err := f.redis.Get("pending-intent:" + handle.AppointmentID)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", stored)
	f.provider.AssertExpectations(t)
}

func TestCreatePaymentIntentProviderFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, errors.New("network down")).Once()

	_, err := f.svc.CreatePaymentIntent(ctx, f.request())
	assert.ErrorIs(t, err, booking.ErrPaymentProvider)
	assert.Empty(t, f.ledger(t))

	all, err := f.bookings.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Cancelled)
}

func TestCreatePaymentIntentRetryReusesPendingIntent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.On("CreateIntent", mock.Anything, mock.Anything).Return(openIntent("pi_1"), nil).Once()

	first, err := f.svc.CreatePaymentIntent(ctx, f.request())
	require.NoError(t, err)

	pending := f.intentStatus(first.AppointmentID, "pi_1", models.IntentRequiresPaymentMethod)
	pending.ClientSecret = "pi_1_secret"
	f.provider.On("RetrieveIntent", mock.Anything, "pi_1").Return(pending, nil).Once()

	second, err := f.svc.CreatePaymentIntent(ctx, f.request())
	require.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Equal(t, first.AppointmentID, second.AppointmentID)
	assert.Equal(t, first.PaymentIntentID, second.PaymentIntentID)

	all, err := f.bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	f.provider.AssertNumberOfCalls(t, "CreateIntent", 1)
}

func TestCreatePaymentIntentSlotTakenByOther(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := &models.User{Name: "Other"}
	require.NoError(t, f.store.Users.Create(ctx, other))
	_, err := f.bookings.Book(ctx, booking.BookingRequest{UserID: other.ID, DocID: f.doctor.ID, SlotDate: slotDate, SlotTime: slotTime})
	require.NoError(t, err)

	_, err = f.svc.CreatePaymentIntent(ctx, f.request())
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)
	f.provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestVerifyPaymentSucceededIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.On("CreateIntent", mock.Anything, mock.Anything).Return(openIntent("pi_1"), nil).Once()
	handle, err := f.svc.CreatePaymentIntent(ctx, f.request())
	require.NoError(t, err)

	f.provider.On("RetrieveIntent", mock.Anything, "pi_1").
		Return(f.intentStatus(handle.AppointmentID, "pi_1", models.IntentSucceeded), nil)

	for i := 0; i < 2; i++ {
		appt, err := f.svc.VerifyPayment(ctx, f.user.ID, "pi_1", handle.AppointmentID)
		require.NoError(t, err)
		assert.True(t, appt.Payment)
	}
	assert.Equal(t, []string{slotTime}, f.ledger(t))
	assert.False(t, f.redis.Exists("pending-intent:"+handle.AppointmentID))

	all, err := f.bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestVerifyPaymentFailedReleasesSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.On("CreateIntent", mock.Anything, mock.Anything).Return(openIntent("pi_1"), nil).Once()
	handle, err := f.svc.CreatePaymentIntent(ctx, f.request())
	require.NoError(t, err)

	f.provider.On("RetrieveIntent", mock.Anything, "pi_1").
		Return(f.intentStatus(handle.AppointmentID, "pi_1", models.IntentRequiresPaymentMethod), nil)

	_, err = f.svc.VerifyPayment(ctx, f.user.ID, "pi_1", handle.AppointmentID)
	assert.ErrorIs(t, err, booking.ErrPaymentFailed)

	appt := f.appointment(t, handle.AppointmentID)
	assert.True(t, appt.Cancelled)
	assert.Empty(t, f.ledger(t))

	free, err := f.bookings.IsAvailable(ctx, f.doctor.ID, slotDate, slotTime)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestVerifyPaymentStaleFailedIntentKeepsPaidAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.On("CreateIntent", mock.Anything, mock.Anything).Return(openIntent("pi_1"), nil).Once()
	handle, err := f.svc.CreatePaymentIntent(ctx, f.request())
	require.NoError(t, err)

	// A second intent for the same appointment, left unpaid after pi_1 succeeded.
	f.provider.On("RetrieveIntent", mock.Anything, "pi_1").
		Return(f.intentStatus(handle.AppointmentID, "pi_1", models.IntentSucceeded), nil)
	f.provider.On("RetrieveIntent", mock.Anything, "pi_2").
		Return(f.intentStatus(handle.AppointmentID, "pi_2", models.IntentRequiresPaymentMethod), nil)

	_, err = f.svc.VerifyPayment(ctx, f.user.ID, "pi_1", handle.AppointmentID)
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, f.user.ID, "pi_2", handle.AppointmentID)
	assert.ErrorIs(t, err, booking.ErrPaymentFailed)

	appt := f.appointment(t, handle.AppointmentID)
	assert.True(t, appt.Payment)
	assert.False(t, appt.Cancelled)
	assert.Equal(t, []string{slotTime}, f.ledger(t))
}

func TestVerifyPaymentMismatchedAppointmentChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.On("CreateIntent", mock.Anything, mock.Anything).Return(openIntent("pi_1"), nil).Once()
	handle, err := f.svc.CreatePaymentIntent(ctx, f.request())
	require.NoError(t, err)

	f.provider.On("RetrieveIntent", mock.Anything, "pi_other").
		Return(f.intentStatus("someone-elses", "pi_other", models.IntentCanceled), nil)

	_, err = f.svc.VerifyPayment(ctx, f.user.ID, "pi_other", handle.AppointmentID)
	assert.ErrorIs(t, err, booking.ErrValidation)

	appt := f.appointment(t, handle.AppointmentID)
	assert.False(t, appt.Cancelled)
	assert.False(t, appt.Payment)
	assert.Equal(t, []string{slotTime}, f.ledger(t))
}

func TestVerifyPaymentProviderError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.On("RetrieveIntent", mock.Anything, "pi_x").Return(nil, errors.New("timeout"))

	_, err := f.svc.VerifyPayment(ctx, f.user.ID, "pi_x", "appt")
	assert.ErrorIs(t, err, booking.ErrPaymentProvider)

	_, err = f.svc.VerifyPayment(ctx, f.user.ID, "", "appt")
	assert.ErrorIs(t, err, booking.ErrValidation)
}

func TestVerifyPaymentMissingAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.On("RetrieveIntent", mock.Anything, "pi_1").
		Return(f.intentStatus("gone", "pi_1", models.IntentCanceled), nil)

	_, err := f.svc.VerifyPayment(ctx, f.user.ID, "pi_1", "gone")
	assert.ErrorIs(t, err, booking.ErrPaymentFailed)
}

func TestPayForAppointmentUsesFrozenAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	appt, err := f.bookings.Book(ctx, booking.BookingRequest{UserID: f.user.ID, DocID: f.doctor.ID, SlotDate: slotDate, SlotTime: slotTime})
	require.NoError(t, err)
	f.store.Doctors.SetFees(f.doctor.ID, 750)

	f.provider.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req models.PaymentRequest) bool {
		return req.Amount == 50000 &&
			req.AppointmentID == appt.ID &&
			req.Description == "Payment for appointment with Dr. Greg House on 5_3_2025 at 10:00 AM"
	})).Return(openIntent("pi_2"), nil).Once()

	handle, err := f.svc.PayForAppointment(ctx, f.user.ID, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, handle.AppointmentID)
	assert.Equal(t, "pi_2_secret", handle.ClientSecret)
	f.provider.AssertExpectations(t)
}

func TestPayForAppointmentPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	appt, err := f.bookings.Book(ctx, booking.BookingRequest{UserID: f.user.ID, DocID: f.doctor.ID, SlotDate: slotDate, SlotTime: slotTime})
	require.NoError(t, err)

	_, err = f.svc.PayForAppointment(ctx, f.user.ID, "missing")
	assert.ErrorIs(t, err, booking.ErrAppointmentNotFound)

	_, err = f.svc.PayForAppointment(ctx, "intruder", appt.ID)
	assert.ErrorIs(t, err, booking.ErrForbidden)

	_, err = f.bookings.MarkPaid(ctx, booking.Actor{Role: "admin"}, appt.ID)
	require.NoError(t, err)
	_, err = f.svc.PayForAppointment(ctx, f.user.ID, appt.ID)
	assert.ErrorIs(t, err, booking.ErrAlreadyPaid)

	f.provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestPayForCancelledAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	appt, err := f.bookings.Book(ctx, booking.BookingRequest{UserID: f.user.ID, DocID: f.doctor.ID, SlotDate: slotDate, SlotTime: slotTime})
	require.NoError(t, err)
	_, err = f.bookings.Cancel(ctx, booking.Actor{ID: f.user.ID, Role: "user"}, appt.ID)
	require.NoError(t, err)

	_, err = f.svc.PayForAppointment(ctx, f.user.ID, appt.ID)
	assert.ErrorIs(t, err, booking.ErrAppointmentCancelled)
	f.provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestPayForAppointmentRetryReusesIntent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	appt, err := f.bookings.Book(ctx, booking.BookingRequest{UserID: f.user.ID, DocID: f.doctor.ID, SlotDate: slotDate, SlotTime: slotTime})
	require.NoError(t, err)

	f.provider.On("CreateIntent", mock.Anything, mock.Anything).Return(openIntent("pi_3"), nil).Once()
	first, err := f.svc.PayForAppointment(ctx, f.user.ID, appt.ID)
	require.NoError(t, err)

	f.provider.On("RetrieveIntent", mock.Anything, "pi_3").
		Return(f.intentStatus(appt.ID, "pi_3", models.IntentRequiresAction), nil).Once()
	second, err := f.svc.PayForAppointment(ctx, f.user.ID, appt.ID)
	require.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Equal(t, first.PaymentIntentID, second.PaymentIntentID)

	// Once the remembered intent is no longer open, a new one is created.
	f.provider.On("RetrieveIntent", mock.Anything, "pi_3").
		Return(f.intentStatus(appt.ID, "pi_3", models.IntentCanceled), nil).Once()
	f.provider.On("CreateIntent", mock.Anything, mock.Anything).Return(openIntent("pi_4"), nil).Once()
	third, err := f.svc.PayForAppointment(ctx, f.user.ID, appt.ID)
	require.NoError(t, err)
	assert.False(t, third.Reused)
	assert.Equal(t, "pi_4", third.PaymentIntentID)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(50000), MinorUnits(500))
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.Equal(t, int64(1), MinorUnits(0.005))
}
