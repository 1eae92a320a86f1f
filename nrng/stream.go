package nrng

import (
	"math/big"
)

// The stream types adapt the generator to pull-based consumption of its
// conceptually infinite output sequences. Every Next call is one independent
// draw; stopping a stream is simply ceasing to pull from it, there is no
// in-flight state to clean up.

// BitStream is an infinite sequence of fresh uniform bitSize-bit numbers.
type BitStream struct {
	gen     *Generator
	bitSize int
}

// BitStream returns a stream of uniform random numbers of bitSize bits each.
func (g *Generator) BitStream(bitSize int) (*BitStream, error) {
	if bitSize <= 0 {
		return nil, ErrInvalidBitSize
	}
	return &BitStream{gen: g, bitSize: bitSize}, nil
}

// Next draws the next value of the stream.
func (s *BitStream) Next() (*big.Int, error) {
	return s.gen.RandBits(s.bitSize)
}

// FloatStream is an infinite sequence of uniform random reals in [0, 1).
type FloatStream struct {
	gen       *Generator
	precision uint
}

// FloatStream returns a stream of uniform random reals in [0, 1) at the
// given floating point precision.
func (g *Generator) FloatStream(precision uint) (*FloatStream, error) {
	if precision < 2 {
		return nil, ErrInvalidPrecision
	}
	return &FloatStream{gen: g, precision: precision}, nil
}

// Next draws the next value of the stream.
func (s *FloatStream) Next() (*big.Float, error) {
	return s.gen.RandFloat(s.precision)
}

// IntStream is an infinite sequence of uniform random integers in [low, high].
type IntStream struct {
	gen  *Generator
	low  *big.Int
	high *big.Int
}

// IntStream returns a stream of uniform random integers in [low, high]. The
// bounds are copied, later modification of the arguments does not affect the
// stream.
func (g *Generator) IntStream(low, high *big.Int) (*IntStream, error) {
	if low == nil || high == nil || low.Cmp(high) > 0 {
		return nil, ErrInvalidRange
	}
	return &IntStream{
		gen:  g,
		low:  new(big.Int).Set(low),
		high: new(big.Int).Set(high),
	}, nil
}

// Next draws the next value of the stream.
func (s *IntStream) Next() (*big.Int, error) {
	return s.gen.RandInt(s.low, s.high)
}
