package nrng

import (
	"fmt"
	"math/big"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/fsssosei/Pure-NRNG/log"
	"github.com/fsssosei/Pure-NRNG/rngutil"
)

// conditionedSource is one registered source with its conditioning state.
// The tracker is nil for sources mixed in without unbiasing.
type conditionedSource struct {
	cfg     SourceConfig
	tracker *tracker
	metrics *sourceMetrics
}

// Generator produces a uniform non-deterministic random bit stream from the
// configured entropy sources. All methods are safe for concurrent use.
type Generator struct {
	sources []*conditionedSource
}

// New creates a generator over the given entropy sources. At least one source
// must be configured; use Default for the operating system source. Every
// unbiased source is warmed up with one initial health sample, read failures
// across sources are aggregated into the returned error.
func New(configs ...SourceConfig) (*Generator, error) {
	if len(configs) == 0 {
		return nil, ErrNoSources
	}

	g := &Generator{
		sources: make([]*conditionedSource, 0, len(configs)),
	}

	seen := make(map[uuid.UUID]struct{}, len(configs))
	for _, cfg := range configs {
		if cfg.Source == nil || cfg.Source.read == nil {
			return nil, ErrNilSource
		}
		if _, ok := seen[cfg.Source.id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, cfg.Source)
		}
		seen[cfg.Source.id] = struct{}{}

		cs := &conditionedSource{
			cfg:     cfg,
			metrics: newSourceMetrics(cfg.Source.name),
		}
		if cfg.Unbias {
			cs.tracker = newTracker(cfg.Source, cs.metrics)
		}
		g.sources = append(g.sources, cs)
	}

	var result *multierror.Error
	for _, cs := range g.sources {
		if cs.tracker == nil {
			continue
		}
		if err := cs.tracker.warmUp(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("warm-up failed: %w", err)
	}

	for _, cs := range g.sources {
		log.Debugf("nrng: registered source %s (unbias=%v)", cs.cfg.Source, cs.cfg.Unbias)
	}
	return g, nil
}

// Default creates a generator over the operating system's cryptographic
// random source, with unbiasing enabled.
func Default() (*Generator, error) {
	return New(SourceConfig{Source: OSSource(), Unbias: true})
}

// RandBits draws one fresh uniform random number of exactly bitSize bits.
//
// Each unbiased source contributes an extracted output over an adaptively
// sized raw sample, trusted sources contribute their raw output, and all
// contributions are XOR-combined in registration order. Sources are
// conditioned in parallel, so one slow source does not delay reads from the
// others.
func (g *Generator) RandBits(bitSize int) (*big.Int, error) {
	if bitSize <= 0 {
		return nil, ErrInvalidBitSize
	}

	parts := make([]*big.Int, len(g.sources))
	var group errgroup.Group
	for i, cs := range g.sources {
		i, cs := i, cs
		group.Go(func() error {
			var err error
			parts[i], err = cs.draw(bitSize)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	output := new(big.Int)
	for _, part := range parts {
		output.Xor(output, part)
	}
	return output, nil
}

func (cs *conditionedSource) draw(bitSize int) (*big.Int, error) {
	cs.metrics.draws.Inc()

	if cs.tracker == nil {
		return cs.cfg.Source.readBits(bitSize)
	}

	raw, err := cs.tracker.sampleAndUpdate(bitSize)
	if err != nil {
		return nil, err
	}
	return rngutil.Extract(raw, bitSize)
}

// RandFloat draws a uniform random real number in [0, 1) carrying precision
// bits of floating point precision. precision must be at least 2.
func (g *Generator) RandFloat(precision uint) (*big.Float, error) {
	if precision < 2 {
		return nil, ErrInvalidPrecision
	}

	bitSize := int(precision) - 1
	n, err := g.RandBits(bitSize)
	if err != nil {
		return nil, err
	}

	// n / 2^bitSize, exact at the requested precision
	f := new(big.Float).SetPrec(precision).SetInt(n)
	return f.SetMantExp(f, -bitSize), nil
}

// RandInt draws a uniform random integer in [low, high] using rejection
// sampling, so non-power-of-two spans carry no modulo bias. The expected
// number of draws is below two.
func (g *Generator) RandInt(low, high *big.Int) (*big.Int, error) {
	if low == nil || high == nil || low.Cmp(high) > 0 {
		return nil, ErrInvalidRange
	}
	if low.Cmp(high) == 0 {
		return new(big.Int).Set(low), nil
	}

	span := new(big.Int).Sub(high, low)
	bitSize := span.BitLen()
	for {
		n, err := g.RandBits(bitSize)
		if err != nil {
			return nil, err
		}
		if n.Cmp(span) <= 0 {
			return n.Add(n, low), nil
		}
	}
}

// SourceStatus is a point-in-time diagnostic view of one registered source.
type SourceStatus struct {
	Name   string
	ID     uuid.UUID
	Unbias bool

	// MinEntropy is the current estimate in bits per raw bit. It is zero
	// for trusted sources, which are not tracked.
	MinEntropy float64
}

// Sources reports the registered sources in registration order.
func (g *Generator) Sources() []SourceStatus {
	status := make([]SourceStatus, 0, len(g.sources))
	for _, cs := range g.sources {
		s := SourceStatus{
			Name:   cs.cfg.Source.name,
			ID:     cs.cfg.Source.id,
			Unbias: cs.cfg.Unbias,
		}
		if cs.tracker != nil {
			s.MinEntropy = cs.tracker.minEntropy()
		}
		status = append(status, s)
	}
	return status
}

// HealthCheck draws one fresh full-size sample from every unbiased source and
// reports all sources that fail to show any min-entropy. The samples are
// folded into the rolling statistics like any other draw.
func (g *Generator) HealthCheck() error {
	var result *multierror.Error
	for _, cs := range g.sources {
		if cs.tracker == nil {
			continue
		}
		if err := cs.tracker.warmUp(); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if cs.tracker.minEntropy() == 0 {
			result = multierror.Append(result, fmt.Errorf("%w: %s", ErrSourceExhausted, cs.cfg.Source))
		}
	}
	return result.ErrorOrNil()
}
