package config

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	BreakerMenuCache     = "Redis-Cache"
	BreakerLoginThrottle = "Redis-Throttle"
	BreakerPublisher     = "RabbitMQ-Publisher"
	BreakerRelayDB       = "Relay-PostgreSQL"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string, log *zap.Logger) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// Redis timeouts align with the 5s health check timeout
	switch name {
	case BreakerMenuCache, BreakerLoginThrottle:
		timeout = time.Second * 5
	case BreakerRelayDB:
		timeout = time.Second * 10
	default:
		timeout = time.Second * 30
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}
