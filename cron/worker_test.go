package cron

import (
	"context"
	"errors"
	"testing"

	"medipulse/services/booking"
	"medipulse/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSettler struct {
	calls  int
	report booking.SettlementReport
	err    error
}

func (s *stubSettler) SettleCompleted(context.Context) (booking.SettlementReport, error) {
	s.calls++
	return s.report, s.err
}

func TestHandleSettleCompleted(t *testing.T) {
	settler := &stubSettler{report: booking.SettlementReport{Scanned: 2, Settled: 2}}
	task, _, err := tasks.NewSettleCompletedTask("test")
	require.NoError(t, err)

	require.NoError(t, HandleSettleCompleted(settler, zap.NewNop())(context.Background(), task))
	assert.Equal(t, 1, settler.calls)
}

func TestHandleSettleCompletedFailure(t *testing.T) {
	settler := &stubSettler{err: errors.New("db down")}
	task, _, err := tasks.NewSettleCompletedTask("test")
	require.NoError(t, err)

	assert.Error(t, HandleSettleCompleted(settler, zap.NewNop())(context.Background(), task))
}

func TestHandleSettleCompletedBadPayload(t *testing.T) {
	settler := &stubSettler{}
	task := asynq.NewTask(tasks.TypeSettleCompleted, []byte("{"))

	err := HandleSettleCompleted(settler, zap.NewNop())(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, settler.calls)
}
