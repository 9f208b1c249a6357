// Package memory keeps every repository in process memory behind one mutex.
// It backs STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"medipulse/database/repository"
	"medipulse/models"

	"github.com/google/uuid"
)

// Store owns all collections. Its repositories share the lock, which makes
// BookSlot atomic across the ledger and the appointment collection.
type Store struct {
	mu           sync.Mutex
	doctors      map[string]*models.Doctor
	users        map[string]*models.User
	appointments map[string]*models.Appointment
	audit        []models.AuditEntry

	Doctors      *DoctorRepo
	Users        *UserRepo
	Appointments *AppointmentRepo
	Audit        *AuditRepo
}

func NewStore() *Store {
	s := &Store{
		doctors:      map[string]*models.Doctor{},
		users:        map[string]*models.User{},
		appointments: map[string]*models.Appointment{},
	}
	s.Doctors = &DoctorRepo{s: s}
	s.Users = &UserRepo{s: s}
	s.Appointments = &AppointmentRepo{s: s}
	s.Audit = &AuditRepo{s: s}
	return s
}

// BookSlot reserves the slot and inserts appt under one lock.
func (s *Store) BookSlot(_ context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reserveLocked(appt.DocID, appt.SlotDate, appt.SlotTime); err != nil {
		return err
	}
	cp := *appt
	s.appointments[appt.ID] = &cp
	return nil
}

func (s *Store) reserveLocked(docID, date, slotTime string) error {
	d, ok := s.doctors[docID]
	if !ok {
		return repository.ErrNotFound
	}
	if d.IsSlotBooked(date, slotTime) {
		return repository.ErrSlotTaken
	}
	if d.SlotsBooked == nil {
		d.SlotsBooked = map[string][]string{}
	}
	d.SlotsBooked[date] = append(d.SlotsBooked[date], slotTime)
	return nil
}

func cloneDoctor(d *models.Doctor) *models.Doctor {
	cp := *d
	cp.SlotsBooked = make(map[string][]string, len(d.SlotsBooked))
	for k, v := range d.SlotsBooked {
		cp.SlotsBooked[k] = append([]string{}, v...)
	}
	return &cp
}

// DoctorRepo implements doctorRepo.DoctorRepository.
type DoctorRepo struct{ s *Store }

func (r *DoctorRepo) GetByID(_ context.Context, id string) (*models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneDoctor(d), nil
}

func (r *DoctorRepo) GetAll(_ context.Context) ([]models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Doctor, 0, len(r.s.doctors))
	for _, d := range r.s.doctors {
		cp := cloneDoctor(d)
		cp.Password = ""
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DoctorRepo) Create(_ context.Context, doctor *models.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if doctor.ID == "" {
		doctor.ID = uuid.New().String()
	}
	if doctor.SlotsBooked == nil {
		doctor.SlotsBooked = map[string][]string{}
	}
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = time.Now()
	}
	r.s.doctors[doctor.ID] = cloneDoctor(doctor)
	return nil
}

// SetAvailable flips the availability flag; profile editing lives outside the core,
// so this only exists for seeding and tests.
func (r *DoctorRepo) SetAvailable(id string, available bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.doctors[id]; ok {
		d.Available = available
	}
}

// SetFees changes a doctor's fee, standing in for a profile edit.
func (r *DoctorRepo) SetFees(id string, fees float64) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.doctors[id]; ok {
		d.Fees = fees
	}
}

func (r *DoctorRepo) ReserveSlot(_ context.Context, docID, date, slotTime string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.reserveLocked(docID, date, slotTime)
}

func (r *DoctorRepo) ReleaseSlot(_ context.Context, docID, date, slotTime string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[docID]
	if !ok {
		return repository.ErrNotFound
	}
	times, ok := d.SlotsBooked[date]
	if !ok {
		return nil
	}
	kept := times[:0]
	for _, t := range times {
		if t != slotTime {
			kept = append(kept, t)
		}
	}
	d.SlotsBooked[date] = kept
	return nil
}

// UserRepo implements userRepo.UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

// SetName stands in for a profile edit in tests.
func (r *UserRepo) SetName(id, name string) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Name = name
	}
}

// AuditRepo implements auditRepo.AuditRepository.
type AuditRepo struct{ s *Store }

func (r *AuditRepo) Record(_ context.Context, entry *models.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	r.s.audit = append(r.s.audit, *entry)
	return nil
}

func (r *AuditRepo) ListByAppointment(_ context.Context, appointmentID string) ([]models.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.AuditEntry{}
	for _, e := range r.s.audit {
		if e.AppointmentID == appointmentID {
			out = append(out, e)
		}
	}
	return out, nil
}
