package booking

import (
	"context"

	"medipulse/models"
)

const latestAppointmentsOnDashboard = 5

// PublicStats are the headline counts shown on the landing page.
type PublicStats struct {
	Appointments int `json:"appointments"`
	Doctors      int `json:"doctors"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	Doctors            int                  `json:"doctors"`
	Appointments       int                  `json:"appointments"`
	Patients           int                  `json:"patients"`
	Paid               int                  `json:"paid"`
	Cancelled          int                  `json:"cancelled"`
	Completed          int                  `json:"completed"`
	LatestAppointments []models.Appointment `json:"latestAppointments"`
}

func (s *DefaultBookingService) PublicStats(ctx context.Context) (PublicStats, error) {
	doctors, err := s.Doctors.GetAll(ctx)
	if err != nil {
		return PublicStats{}, err
	}
	appts, err := s.ListAll(ctx)
	if err != nil {
		return PublicStats{}, err
	}
	return PublicStats{Appointments: len(appts), Doctors: len(doctors)}, nil
}

// Dashboard counts doctors, appointments by state and distinct patients who
// have booked, plus the most recent bookings.
func (s *DefaultBookingService) Dashboard(ctx context.Context) (Dashboard, error) {
	doctors, err := s.Doctors.GetAll(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	appts, err := s.ListAll(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{Doctors: len(doctors), Appointments: len(appts)}
	patients := make(map[string]struct{})
	for _, a := range appts {
		patients[a.UserID] = struct{}{}
		switch {
		case a.Cancelled:
			d.Cancelled++
		case a.IsCompleted:
			d.Completed++
		}
		if a.Payment {
			d.Paid++
		}
	}
	d.Patients = len(patients)

	n := len(appts)
	if n > latestAppointmentsOnDashboard {
		n = latestAppointmentsOnDashboard
	}
	d.LatestAppointments = appts[:n]
	return d, nil
}
