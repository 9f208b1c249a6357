package booking

import (
	"context"

	"medipulse/models"

	"go.uber.org/zap"
)

// SettlementReport summarizes one SettleCompleted pass.
type SettlementReport struct {
	Scanned int `json:"scanned"`
	Settled int `json:"settled"`
}

// SettleCompleted marks completed, unpaid, non-cancelled appointments as paid,
// treating completion as proof of an in-person cash settlement. Every record
// changed gets its own audit entry. The ledger is never touched, so the pass is
// safe to run next to live traffic and to repeat.
func (s *DefaultBookingService) SettleCompleted(ctx context.Context) (SettlementReport, error) {
	var report SettlementReport

	due, err := s.Appointments.ListUnsettledCompleted(ctx)
	if err != nil {
		return report, err
	}
	report.Scanned = len(due)

	for i := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		appt := &due[i]
		changed, err := s.Appointments.SettleCompleted(ctx, appt.ID)
		if err != nil {
			s.Logger.Error("failed to settle appointment", append(apptFields(appt), zap.Error(err))...)
			continue
		}
		if !changed {
			continue
		}
		appt.Payment = true
		report.Settled++
		s.audit(ctx, appt, models.AuditSettledOnCompletion, SystemActor, "completed without recorded payment")
		s.Logger.Info("appointment settled on completion", apptFields(appt)...)
	}

	s.Metrics.ObserveSettled(report.Settled)
	s.Logger.Info("settlement pass finished", zap.Int("scanned", report.Scanned), zap.Int("settled", report.Settled))
	return report, nil
}
