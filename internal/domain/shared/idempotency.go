package shared

import (
	"context"
	"time"
)

// IdempotencyStore records idempotency keys so duplicate mutation
// requests can be detected and rejected.
type IdempotencyStore interface {
	// MarkProcessed records a key with a TTL. Returns true when the key
	// was newly recorded, false when it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any underlying resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a recorded key blocks replays. After it expires
	// the same key is accepted again. Default: 24 hours.
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
