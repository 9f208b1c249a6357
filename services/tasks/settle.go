package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeSettleCompleted = "appointments:settle-completed"

// SettlePayload records what queued a settlement pass.
type SettlePayload struct {
	Trigger  string    `json:"trigger"`
	QueuedAt time.Time `json:"queuedAt"`
}

// NewSettleCompletedTask builds the settlement task. Unique keeps overlapping
// schedules from stacking passes in the queue.
func NewSettleCompletedTask(trigger string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(SettlePayload{Trigger: trigger, QueuedAt: time.Now()})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSettleCompleted, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(5 * time.Minute),
		asynq.Unique(10 * time.Minute),
	}
	return task, opts, nil
}
