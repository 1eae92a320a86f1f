package rngutil

import (
	"errors"
	"math/big"
)

// Errors returned for malformed arguments.
var (
	ErrNegativeValue     = errors.New("value must not be negative")
	ErrInvalidBitLength  = errors.New("bit length must be greater than zero")
	ErrEmptyCounts       = errors.New("zero count and one count must not both be zero")
	ErrInvalidOutputSize = errors.New("output bit size must be greater than zero")
)

// Mask returns x reduced to its lowest bitLength bits.
func Mask(x *big.Int, bitLength int) (*big.Int, error) {
	if x == nil || x.Sign() < 0 {
		return nil, ErrNegativeValue
	}
	if bitLength <= 0 {
		return nil, ErrInvalidBitLength
	}

	m := new(big.Int).Lsh(big.NewInt(1), uint(bitLength))
	m.Sub(m, big.NewInt(1))
	return m.And(m, x), nil
}
