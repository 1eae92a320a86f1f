package nrng

import (
	"fmt"
	"math/big"
	"math/bits"
	"sync"

	"github.com/tevino/abool"

	"github.com/fsssosei/Pure-NRNG/log"
	"github.com/fsssosei/Pure-NRNG/rngutil"
)

const (
	// initialTestSize is the raw sample size in bits used for the warm-up
	// sample and whenever a source has no usable min-entropy estimate.
	initialTestSize = 1 << 13

	// sampleWindowSize is the number of recent samples the bit statistics
	// are computed over.
	sampleWindowSize = 31

	// maxSampleAttempts bounds how often a draw re-reads a source whose
	// estimate dropped to zero before giving up on it.
	maxSampleAttempts = 3
)

type sampleCount struct {
	zeros uint64
	ones  uint64
}

// tracker owns the rolling bit statistics and min-entropy estimate of one
// unbiased source. The mutex only guards the window, sums and estimate. It is
// never held across a read from the source itself, so a slow source does not
// serialize other callers beyond tracker consistency.
type tracker struct {
	src     *Source
	metrics *sourceMetrics

	mu       sync.Mutex
	window   [sampleWindowSize]sampleCount
	start    int
	length   int
	sumZeros uint64
	sumOnes  uint64
	estimate *big.Float

	degraded *abool.AtomicBool
}

func newTracker(src *Source, m *sourceMetrics) *tracker {
	return &tracker{
		src:      src,
		metrics:  m,
		degraded: abool.New(),
	}
}

// warmUp seeds the statistics with one initial sample. A zero estimate is not
// an error here: the next draw will run the full health check and fail the
// source if it stays degenerate.
func (t *tracker) warmUp() error {
	raw, err := t.src.readBits(initialTestSize)
	if err != nil {
		return err
	}
	t.metrics.rawBits.Add(initialTestSize)

	ones := popCount(raw)
	if _, err := t.push(initialTestSize-ones, ones); err != nil {
		return err
	}
	return nil
}

// push folds one sample's bit counts into the window, evicting the oldest
// sample if the window is full, and recomputes the min-entropy estimate.
func (t *tracker) push(zeros, ones uint64) (*big.Float, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.length == sampleWindowSize {
		oldest := t.window[t.start]
		t.sumZeros -= oldest.zeros
		t.sumOnes -= oldest.ones
		t.start = (t.start + 1) % sampleWindowSize
		t.length--
	}
	t.window[(t.start+t.length)%sampleWindowSize] = sampleCount{zeros: zeros, ones: ones}
	t.length++
	t.sumZeros += zeros
	t.sumOnes += ones

	estimate, err := rngutil.MinEntropy(t.sumZeros, t.sumOnes)
	if err != nil {
		return nil, err
	}
	t.estimate = estimate

	if estimate.Sign() == 0 {
		t.degraded.SetToIf(false, true)
	} else if t.degraded.SetToIf(true, false) {
		log.Infof("nrng: source %s passed its health check again", t.src)
	}
	return estimate, nil
}

// nextRawLen returns the number of raw bits to read so that the sample
// carries at least twice bitSize bits of min-entropy under the current
// estimate. Without a usable estimate the full initial test size is read.
func (t *tracker) nextRawLen(bitSize int) (int, error) {
	t.mu.Lock()
	estimate := t.estimate
	t.mu.Unlock()

	if estimate == nil || estimate.Sign() == 0 {
		return initialTestSize, nil
	}

	need := new(big.Float).SetPrec(estimate.Prec() + 8).SetUint64(uint64(bitSize) * 2)
	need.Quo(need, estimate)

	n, acc := need.Int(nil)
	if !n.IsInt64() || n.Int64() > int64(1)<<40 {
		return 0, fmt.Errorf("adaptive sample size for source %s is out of bounds", t.src)
	}
	rawLen := int(n.Int64())
	if acc == big.Below {
		rawLen++
	}
	return rawLen, nil
}

// sampleAndUpdate draws one adaptively sized raw sample, updates the rolling
// statistics and returns the sample. A source whose estimate stays at zero is
// re-read with a fresh full-size sample up to maxSampleAttempts times before
// the draw fails with a SourceExhaustedError.
func (t *tracker) sampleAndUpdate(bitSize int) (*big.Int, error) {
	rawLen, err := t.nextRawLen(bitSize)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxSampleAttempts; attempt++ {
		raw, err := t.src.readBits(rawLen)
		if err != nil {
			return nil, err
		}
		t.metrics.rawBits.Add(rawLen)

		ones := popCount(raw)
		estimate, err := t.push(uint64(rawLen)-ones, ones)
		if err != nil {
			return nil, err
		}
		if estimate.Sign() != 0 {
			return raw, nil
		}

		t.metrics.retries.Inc()
		log.Warningf("nrng: source %s failed its min-entropy health check (attempt %d/%d)", t.src, attempt, maxSampleAttempts)
		rawLen = initialTestSize
	}

	t.metrics.exhausted.Inc()
	log.Errorf("nrng: source %s is exhausted and should be replaced", t.src)
	return nil, &SourceExhaustedError{Source: t.src, Attempts: maxSampleAttempts}
}

// minEntropy returns the current estimate as a float64 for diagnostics.
func (t *tracker) minEntropy() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.estimate == nil {
		return 0
	}
	v, _ := t.estimate.Float64()
	return v
}

func popCount(x *big.Int) uint64 {
	var n uint64
	for _, w := range x.Bits() {
		n += uint64(bits.OnesCount(uint(w)))
	}
	return n
}
