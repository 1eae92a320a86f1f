package nrng

import (
	"math/rand"
)

type randSource struct {
	gen *Generator
}

var _ rand.Source64 = (*randSource)(nil)

// Source adapts the generator to math/rand.Source64, so it can drive the
// standard library's distribution helpers for Monte-Carlo sampling. The
// source ignores seeding, its output is non-deterministic by nature. Draw
// failures are not recoverable through the math/rand API and panic.
func (g *Generator) Source() rand.Source {
	return &randSource{gen: g}
}

func (s *randSource) Seed(int64) {}

func (s *randSource) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func (s *randSource) Uint64() uint64 {
	n, err := s.gen.RandBits(64)
	if err != nil {
		panic(err)
	}
	return n.Uint64()
}
