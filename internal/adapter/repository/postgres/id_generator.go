package postgres

import "github.com/oklog/ulid/v2"

// ULIDGenerator issues ULID identifiers for every entity in the system.
// ULIDs carry a millisecond timestamp prefix, so ids created later sort
// later as plain strings. Implements usecase.IDGenerator.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a fresh ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
