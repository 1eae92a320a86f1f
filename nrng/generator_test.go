package nrng

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsssosei/Pure-NRNG/log"
)

func init() {
	// keep the expected health check failures out of the test output
	log.SetLogLevel(log.CriticalLevel)
}

func TestNewValidation(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = New(SourceConfig{Source: nil})
	assert.ErrorIs(t, err, ErrNilSource)

	src := NewSource("twice", allZeros0)
	_, err = New(
		SourceConfig{Source: src},
		SourceConfig{Source: src},
	)
	assert.ErrorIs(t, err, ErrDuplicateSource)

	// two independent sources with equal behavior and name are fine
	_, err = New(
		SourceConfig{Source: NewSource("zeros", allZeros0)},
		SourceConfig{Source: NewSource("zeros", allZeros0)},
	)
	assert.NoError(t, err)
}

func allZeros0(int) (*big.Int, error) {
	return big.NewInt(0), nil
}

func TestTrustedSourceIdentity(t *testing.T) {
	// a trusted source's raw output must pass through unchanged
	fixed := big.NewInt(0x0DDBA11)
	g, err := New(SourceConfig{
		Source: NewSource("fixed", func(int) (*big.Int, error) {
			return new(big.Int).Set(fixed), nil
		}),
		Unbias: false,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		n, err := g.RandBits(28)
		require.NoError(t, err)
		assert.Zero(t, n.Cmp(fixed))
	}
}

func TestXORCombination(t *testing.T) {
	a := big.NewInt(0b11110000)
	b := big.NewInt(0b10101010)

	g, err := New(
		SourceConfig{Source: NewSource("a", func(int) (*big.Int, error) {
			return new(big.Int).Set(a), nil
		})},
		SourceConfig{Source: NewSource("b", func(int) (*big.Int, error) {
			return new(big.Int).Set(b), nil
		})},
	)
	require.NoError(t, err)

	n, err := g.RandBits(8)
	require.NoError(t, err)
	assert.Equal(t, int64(0b01011010), n.Int64())
}

func TestInvalidBitSize(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	for _, bitSize := range []int{0, -1, -8192} {
		_, err := g.RandBits(bitSize)
		assert.ErrorIs(t, err, ErrInvalidBitSize)
	}
}

func TestDegenerateSources(t *testing.T) {
	// stuck-at sources pass construction but exhaust on the first draw
	ones := NewSource("stuck-at-one", func(bitSize int) (*big.Int, error) {
		v := new(big.Int).Lsh(big.NewInt(1), uint(bitSize))
		return v.Sub(v, big.NewInt(1)), nil
	})
	zeros := NewSource("stuck-at-zero", allZeros0)

	g, err := New(
		SourceConfig{Source: ones, Unbias: true},
		SourceConfig{Source: zeros, Unbias: true},
	)
	require.NoError(t, err)

	_, err = g.RandBits(16)
	require.ErrorIs(t, err, ErrSourceExhausted)

	var exhausted *SourceExhaustedError
	require.ErrorAs(t, err, &exhausted)
	if exhausted.Source != ones && exhausted.Source != zeros {
		t.Errorf("error names unknown source %s", exhausted.Source)
	}
}

func TestDefaultGenerator(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	first, err := g.RandBits(128)
	require.NoError(t, err)
	assert.LessOrEqual(t, first.BitLen(), 128)

	second, err := g.RandBits(128)
	require.NoError(t, err)
	assert.NotZero(t, first.Cmp(second), "two 128 bit draws collided")
}

func TestRandFloat(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	one := big.NewFloat(1)
	for _, precision := range []uint{2, 3, 24, 53, 128} {
		f, err := g.RandFloat(precision)
		require.NoError(t, err)
		assert.Equal(t, precision, f.Prec())
		assert.GreaterOrEqual(t, f.Sign(), 0)
		assert.Negative(t, f.Cmp(one), "value not below 1")
	}

	_, err = g.RandFloat(1)
	assert.ErrorIs(t, err, ErrInvalidPrecision)
	_, err = g.RandFloat(0)
	assert.ErrorIs(t, err, ErrInvalidPrecision)
}

func TestRandInt(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	// degenerate range
	n, err := g.RandInt(big.NewInt(42), big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.Int64())

	// invalid range
	_, err = g.RandInt(big.NewInt(2), big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = g.RandInt(nil, big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidRange)

	// bounds hold, negative bounds included
	low, high := big.NewInt(-5), big.NewInt(10)
	for i := 0; i < 50; i++ {
		n, err := g.RandInt(low, high)
		require.NoError(t, err)
		if n.Cmp(low) < 0 || n.Cmp(high) > 0 {
			t.Fatalf("draw %s outside [%s, %s]", n, low, high)
		}
	}
}

func TestRandIntUniform(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	g, err := Default()
	require.NoError(t, err)

	// chi-square test over a power-of-two span: 16 buckets, 100 expected
	// draws per bucket
	const buckets = 16
	const draws = buckets * 100

	low, high := big.NewInt(0), big.NewInt(buckets-1)
	var counts [buckets]int
	for i := 0; i < draws; i++ {
		n, err := g.RandInt(low, high)
		require.NoError(t, err)
		counts[n.Int64()]++
	}

	chi2 := 0.0
	expected := float64(draws) / buckets
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	// 15 degrees of freedom; failing this bound by chance is a once in
	// millions event
	if chi2 > 60 {
		t.Errorf("chi-square statistic %.2f exceeds bound, counts: %v", chi2, counts)
	}
}

func TestConcurrentDraws(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := g.RandBits(64); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent draw failed: %s", err)
	}
}

func TestSources(t *testing.T) {
	g, err := New(
		SourceConfig{Source: OSSource(), Unbias: true},
		SourceConfig{Source: NewSource("trusted", allZeros0)},
	)
	require.NoError(t, err)

	status := g.Sources()
	require.Len(t, status, 2)

	assert.Equal(t, "os", status[0].Name)
	assert.True(t, status[0].Unbias)
	assert.Greater(t, status[0].MinEntropy, 0.0, "no estimate after warm-up")

	assert.Equal(t, "trusted", status[1].Name)
	assert.False(t, status[1].Unbias)
	assert.Zero(t, status[1].MinEntropy)
	assert.NotEqual(t, status[0].ID, status[1].ID)
}

func TestHealthCheck(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)
	assert.NoError(t, g.HealthCheck())

	g, err = New(
		SourceConfig{Source: OSSource(), Unbias: true},
		SourceConfig{Source: NewSource("stuck", allZeros0), Unbias: true},
	)
	require.NoError(t, err)

	err = g.HealthCheck()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceExhausted)
	assert.Contains(t, err.Error(), "stuck")
}

func TestSource64(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	src := g.Source()
	s64, ok := src.(interface{ Uint64() uint64 })
	require.True(t, ok, "source does not implement Source64")

	a, b := s64.Uint64(), s64.Uint64()
	assert.NotEqual(t, a, b, "two 64 bit draws collided")

	if v := src.Int63(); v < 0 {
		t.Errorf("Int63 returned negative value %d", v)
	}
}
