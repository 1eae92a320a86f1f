package rngutil

import (
	"math/big"

	"golang.org/x/crypto/sha3"
)

// Extract condenses biased raw entropy into outputBits uniform bits.
//
// The raw value is serialized to its minimal little-endian byte form and fed
// through SHAKE-256, from which ceil(outputBits/8) bytes are squeezed and
// reduced to exactly outputBits bits. The construction is deterministic: the
// output is computationally indistinguishable from uniform as long as the
// input carries at least twice outputBits bits of min-entropy. That safety
// factor is the caller's responsibility.
func Extract(raw *big.Int, outputBits int) (*big.Int, error) {
	if raw == nil || raw.Sign() < 0 {
		return nil, ErrNegativeValue
	}
	if outputBits <= 0 {
		return nil, ErrInvalidOutputSize
	}

	// big.Int serializes big-endian without leading zero bytes, which is
	// exactly the minimal form needed, just in the opposite byte order.
	rawBytes := raw.Bytes()
	reverse(rawBytes)

	shake := sha3.NewShake256()
	_, _ = shake.Write(rawBytes) // never fails

	digest := make([]byte, (outputBits+7)/8)
	_, _ = shake.Read(digest)

	reverse(digest)
	return Mask(new(big.Int).SetBytes(digest), outputBits)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
