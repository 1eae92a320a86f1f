package nrng

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/gofrs/uuid"

	"github.com/fsssosei/Pure-NRNG/rngutil"
)

// BitsFunc reads bitSize bits of raw entropy from an external true random
// source. The returned value must be interpretable as exactly bitSize bits:
// leading zero bits are part of the value, not absent. Calls may block for
// as long as the underlying hardware needs, they are never cancelled here.
type BitsFunc func(bitSize int) (*big.Int, error)

// Source is a handle to one external true random source. The handle carries
// a stable identity, so the same callable can be distinguished from a second
// registration of equivalent behavior.
type Source struct {
	id   uuid.UUID
	name string
	read BitsFunc
}

// NewSource wraps a raw entropy callable into a source handle.
func NewSource(name string, read BitsFunc) *Source {
	return &Source{
		id:   uuid.Must(uuid.NewV4()),
		name: name,
		read: read,
	}
}

// OSSource returns a source reading from the operating system's
// cryptographic random number generator.
func OSSource() *Source {
	return NewSource("os", func(bitSize int) (*big.Int, error) {
		buf := make([]byte, (bitSize+7)/8)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		return rngutil.Mask(new(big.Int).SetBytes(buf), bitSize)
	})
}

// ID returns the stable identity of the source.
func (s *Source) ID() uuid.UUID {
	return s.id
}

// Name returns the human readable name of the source.
func (s *Source) Name() string {
	return s.name
}

func (s *Source) String() string {
	return fmt.Sprintf("%s [%s]", s.name, s.id)
}

// readBits draws bitSize raw bits and validates the contract of the
// underlying callable.
func (s *Source) readBits(bitSize int) (*big.Int, error) {
	raw, err := s.read(bitSize)
	if err != nil {
		return nil, fmt.Errorf("read %d bits from source %s: %w", bitSize, s, err)
	}
	if raw == nil || raw.Sign() < 0 {
		return nil, fmt.Errorf("source %s returned an invalid value", s)
	}
	if raw.BitLen() > bitSize {
		return nil, fmt.Errorf("source %s returned %d bits, requested %d", s, raw.BitLen(), bitSize)
	}
	return raw, nil
}

// SourceConfig describes one entropy source registered with a Generator.
type SourceConfig struct {
	Source *Source

	// Unbias enables health tracking and extraction for the source. When
	// false, the caller asserts the source already produces uniform bits
	// and its raw output is mixed in directly.
	Unbias bool
}
