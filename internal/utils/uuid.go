package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered identifiers for notifications,
// authorization states and request traces. A generator with a prefix
// prepends it to every identifier.
type UUIDGenerator struct {
	prefix string
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewPrefixedUUIDGenerator returns a generator whose identifiers start with
// prefix, e.g. "trace-0190c3e4-...".
func NewPrefixedUUIDGenerator(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate returns a UUIDv7 string. If the clock source fails a random v4
// identifier is returned instead.
func (g *UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return g.prefix + uuid.NewString()
	}

	return g.prefix + id.String()
}
