package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthMonitor keeps the latest health snapshot of the backing services.
// A nil Mongo client (in-memory storage) is reported healthy.
type HealthMonitor struct {
	redisClients []*redis.Client
	mongoClient  *mongo.Client

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(redisClients []*redis.Client, mongoClient *mongo.Client) *HealthMonitor {
	return &HealthMonitor{redisClients: redisClients, mongoClient: mongoClient}
}

// Status returns latest stored health snapshot.
func (h *HealthMonitor) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Check pings every backend once and stores the result.
func (h *HealthMonitor) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	redisHealth := make([]bool, 0, len(h.redisClients))
	for _, client := range h.redisClients {
		redisHealth = append(redisHealth, client.Ping(ctx).Err() == nil)
	}

	mongoHealthy := true
	if h.mongoClient != nil {
		mongoHealthy = h.mongoClient.Ping(ctx, nil) == nil
	}

	status := HealthStatus{Mongo: mongoHealthy, Redis: redisHealth, CheckedAt: time.Now()}
	h.mu.Lock()
	h.current = status
	h.mu.Unlock()
	return status
}

// Healthy is true when every backend answered the last check.
func (s HealthStatus) Healthy() bool {
	if !s.Mongo {
		return false
	}
	for _, ok := range s.Redis {
		if !ok {
			return false
		}
	}
	return true
}

// Start performs periodic health checks until ctx is done.
func (h *HealthMonitor) Start(ctx context.Context, every time.Duration) {
	h.Check(ctx)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Check(ctx)
			}
		}
	}()
}
