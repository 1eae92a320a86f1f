package rngutil

import (
	"math/big"
)

// MinEntropy computes the min-entropy per bit of a binary sequence from its
// zero and one counts: -log2(max(zeroCount, oneCount) / (zeroCount + oneCount)).
//
// The result is computed at a floating point precision of length+1 bits
// (length being the total bit count), so the estimate stays exact-enough for
// arbitrarily large windows. An under-precise estimate would silently
// overestimate the entropy of a skewed source and shrink the raw sample the
// extractor is fed with.
//
// Equal counts yield exactly 1, a fully one-sided sequence yields exactly 0.
func MinEntropy(zeroCount, oneCount uint64) (*big.Float, error) {
	length := zeroCount + oneCount
	if length == 0 {
		return nil, ErrEmptyCounts
	}

	prec := uint(big.MaxPrec)
	if length < uint64(big.MaxPrec) {
		prec = uint(length) + 1
	}

	maxCount := zeroCount
	if oneCount > maxCount {
		maxCount = oneCount
	}

	switch {
	case maxCount == length:
		// stuck-at source, no unpredictability at all
		return new(big.Float).SetPrec(prec), nil
	case zeroCount == oneCount:
		return new(big.Float).SetPrec(prec).SetUint64(1), nil
	}

	// -log2(maxCount/length) == log2(length/maxCount), with the ratio
	// strictly inside (1, 2) after the cases above.
	ratio := new(big.Float).SetPrec(prec + 8).SetUint64(length)
	ratio.Quo(ratio, new(big.Float).SetPrec(prec+8).SetUint64(maxCount))
	return log2(ratio, prec), nil
}

// log2 computes the base-2 logarithm of x for 1 < x < 2 to the given
// precision, using the digit-by-digit squaring recurrence. math/big has no
// logarithm, and the estimate must not be computed at fixed precision.
func log2(x *big.Float, prec uint) *big.Float {
	work := prec + 8
	two := new(big.Float).SetPrec(work).SetUint64(2)

	y := new(big.Float).SetPrec(work).Set(x)
	z := new(big.Float).SetPrec(work)
	bit := new(big.Float).SetPrec(work)

	// Squaring y doubles its logarithm. Whenever y leaves [1, 2), the
	// current fraction bit of log2(x) is 1 and y is renormalized.
	for i := uint(1); i <= prec; i++ {
		y.Mul(y, y)
		if y.Cmp(two) >= 0 {
			y.Quo(y, two)
			bit.SetMantExp(two, -int(i)-1) // 2^-i
			z.Add(z, bit)
		}
	}

	return z.SetPrec(prec)
}
