package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewOrderNumber builds a human-readable order number from a UTC timestamp
// and a random suffix. Uniqueness is backed by a database constraint; the
// 4 random bytes make a collision within one second negligible.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate order number suffix: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%s",
		now.UTC().Format("20060102150405"),
		hex.EncodeToString(suffix),
	), nil
}
