package booking

import (
	"context"
	"time"

	"medipulse/models"

	"go.uber.org/zap"
)

// Daily slot grid offered to patients.
const (
	dayStartMinutes = 10 * 60
	dayEndMinutes   = 21 * 60
	slotStep        = 30
)

func validateSlot(date, slotTime string) error {
	if !models.ValidSlotDate(date) {
		return Validation("Invalid slot date")
	}
	if !models.ValidSlotTime(slotTime) {
		return Validation("Invalid slot time")
	}
	return nil
}

func (s *DefaultBookingService) IsAvailable(ctx context.Context, docID, date, slotTime string) (bool, error) {
	if err := validateSlot(date, slotTime); err != nil {
		return false, err
	}
	doctor, err := s.Doctors.GetByID(ctx, docID)
	if err != nil {
		return false, doctorErr(err)
	}
	return !doctor.IsSlotBooked(date, slotTime), nil
}

// Reserve claims one slot with a single conditional write.
func (s *DefaultBookingService) Reserve(ctx context.Context, docID, date, slotTime string) error {
	if err := validateSlot(date, slotTime); err != nil {
		return err
	}
	if err := s.Doctors.ReserveSlot(ctx, docID, date, slotTime); err != nil {
		return doctorErr(err)
	}
	return nil
}

// Release returns a slot to the ledger. Releasing a free slot is a no-op.
func (s *DefaultBookingService) Release(ctx context.Context, docID, date, slotTime string) error {
	if err := validateSlot(date, slotTime); err != nil {
		return err
	}
	if err := s.Doctors.ReleaseSlot(ctx, docID, date, slotTime); err != nil {
		return doctorErr(err)
	}
	return nil
}

// OpenSlots lists the free times of one day. Past days have none; today starts
// at the next whole or half hour after the current hour.
func (s *DefaultBookingService) OpenSlots(ctx context.Context, docID, date string) ([]string, error) {
	loc := s.location()
	day, err := models.ParseSlotDate(date, loc)
	if err != nil {
		return nil, Validation("Invalid slot date")
	}
	doctor, err := s.Doctors.GetByID(ctx, docID)
	if err != nil {
		return nil, doctorErr(err)
	}

	now := s.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := dayStartMinutes
	switch {
	case day.Before(today):
		return []string{}, nil
	case day.Equal(today):
		// First slot is the next :00 or :30 strictly after now.
		start = ((now.Hour()*60+now.Minute())/slotStep + 1) * slotStep
		if start < dayStartMinutes {
			start = dayStartMinutes
		}
	}

	slots := []string{}
	for m := start; m < dayEndMinutes; m += slotStep {
		t := day.Add(time.Duration(m) * time.Minute)
		label := models.FormatSlotTime(t)
		if !doctor.IsSlotBooked(date, label) {
			slots = append(slots, label)
		}
	}
	s.Logger.Debug("open slots listed", zap.String("docId", docID), zap.String("slotDate", date), zap.Int("count", len(slots)))
	return slots, nil
}
