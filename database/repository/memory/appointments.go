package memory

import (
	"context"
	"sort"

	"medipulse/database/repository"
	"medipulse/models"
)

// AppointmentRepo implements appointmentRepo.AppointmentRepository.
type AppointmentRepo struct{ s *Store }

func (r *AppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *appt
	r.s.appointments[appt.ID] = &cp
	return nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AppointmentRepo) List(_ context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	return r.collect(func(a *models.Appointment) bool {
		return (filter.UserID == "" || a.UserID == filter.UserID) &&
			(filter.DocID == "" || a.DocID == filter.DocID)
	}), nil
}

func (r *AppointmentRepo) ListUnsettledCompleted(_ context.Context) ([]models.Appointment, error) {
	return r.collect(unsettled), nil
}

func (r *AppointmentRepo) collect(match func(*models.Appointment) bool) []models.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range r.s.appointments {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *AppointmentRepo) MarkPaid(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if a.Payment {
		return false, nil
	}
	a.Payment = true
	return true, nil
}

func (r *AppointmentRepo) Cancel(_ context.Context, id string) (bool, error) {
	return r.setIfOpen(id, func(a *models.Appointment) { a.Cancelled = true }), nil
}

func (r *AppointmentRepo) CancelUnpaid(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok || a.Cancelled || a.IsCompleted || a.Payment {
		return false, nil
	}
	a.Cancelled = true
	return true, nil
}

func (r *AppointmentRepo) Complete(_ context.Context, id string) (bool, error) {
	return r.setIfOpen(id, func(a *models.Appointment) { a.IsCompleted = true }), nil
}

func (r *AppointmentRepo) setIfOpen(id string, set func(*models.Appointment)) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok || a.Cancelled || a.IsCompleted {
		return false
	}
	set(a)
	return true
}

func (r *AppointmentRepo) SettleCompleted(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok || !unsettled(a) {
		return false, nil
	}
	a.Payment = true
	return true, nil
}

// Put stores appt as-is, bypassing every guard. Used to seed legacy records.
func (r *AppointmentRepo) Put(appt models.Appointment) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.appointments[appt.ID] = &appt
}

func unsettled(a *models.Appointment) bool {
	return a.IsCompleted && !a.Payment && !a.Cancelled
}
