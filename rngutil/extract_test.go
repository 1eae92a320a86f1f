package rngutil

import (
	"errors"
	"math/big"
	"strings"
	"testing"
)

func TestExtractKnownValues(t *testing.T) {
	// 66 one bits followed by 11 zero bits
	raw, ok := new(big.Int).SetString(strings.Repeat("1", 66)+strings.Repeat("0", 11), 2)
	if !ok {
		t.Fatal("failed to build raw input")
	}

	for _, tc := range []struct {
		raw        *big.Int
		outputBits int
		expected   int64
	}{
		{raw, 20, 0xE1932},
		{big.NewInt(123456789), 16, 0x53B4},
		{big.NewInt(1), 64, 0x6AEA40B28062DA94},
		// zero serializes to the empty byte string
		{big.NewInt(0), 8, 0x46},
		{big.NewInt(0), 3, 0x6},
	} {
		out, err := Extract(tc.raw, tc.outputBits)
		if err != nil {
			t.Fatalf("Extract(%s, %d) failed: %s", tc.raw, tc.outputBits, err)
		}
		if out.Int64() != tc.expected {
			t.Errorf("Extract(%s, %d) = %#x, expected %#x", tc.raw, tc.outputBits, out.Int64(), tc.expected)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	raw := new(big.Int).Lsh(big.NewInt(0xDEADBEEF), 512)
	first, err := Extract(raw, 130)
	if err != nil {
		t.Fatalf("Extract failed: %s", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Extract(raw, 130)
		if err != nil {
			t.Fatalf("Extract failed: %s", err)
		}
		if first.Cmp(again) != 0 {
			t.Fatal("Extract is not deterministic")
		}
	}
}

func TestExtractOutputSize(t *testing.T) {
	raw := big.NewInt(0x0123456789ABCDEF)
	for _, outputBits := range []int{1, 3, 8, 9, 20, 64, 65, 1024} {
		out, err := Extract(raw, outputBits)
		if err != nil {
			t.Fatalf("Extract(raw, %d) failed: %s", outputBits, err)
		}
		if out.BitLen() > outputBits {
			t.Errorf("Extract(raw, %d) has %d bits", outputBits, out.BitLen())
		}
	}
}

func TestExtractInvalid(t *testing.T) {
	if _, err := Extract(big.NewInt(-1), 8); !errors.Is(err, ErrNegativeValue) {
		t.Errorf("expected ErrNegativeValue, got %v", err)
	}
	if _, err := Extract(nil, 8); !errors.Is(err, ErrNegativeValue) {
		t.Errorf("expected ErrNegativeValue, got %v", err)
	}
	if _, err := Extract(big.NewInt(1), 0); !errors.Is(err, ErrInvalidOutputSize) {
		t.Errorf("expected ErrInvalidOutputSize, got %v", err)
	}
}
