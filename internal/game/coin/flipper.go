package coin

import (
	"math/rand"

	"go.uber.org/zap"
)

// Flipper produces coin flips with a strict three-tier precedence:
// mocked results (FIFO) beat the guaranteed-heads flag, which beats true
// randomness. Consuming a mocked result leaves the guarantee flag untouched;
// the guarantee is consumed by exactly one flip.
type Flipper struct {
	logger          *zap.Logger
	rng             *rand.Rand
	mocked          []bool
	guaranteedHeads bool
}

// NewFlipper creates a flipper seeded by the given source.
func NewFlipper(logger *zap.Logger, rng *rand.Rand) *Flipper {
	return &Flipper{logger: logger, rng: rng}
}

// Flip returns true for heads.
func (f *Flipper) Flip() bool {
	if len(f.mocked) > 0 {
		result := f.mocked[0]
		f.mocked = f.mocked[1:]
		f.logger.Debug("coin flip (mocked)", zap.Bool("heads", result))
		return result
	}
	if f.guaranteedHeads {
		f.guaranteedHeads = false
		f.logger.Debug("coin flip (guaranteed heads)")
		return true
	}
	result := f.rng.Intn(2) == 0
	f.logger.Debug("coin flip", zap.Bool("heads", result))
	return result
}

// GuaranteeHeads arms the next-flip-is-heads flag.
func (f *Flipper) GuaranteeHeads() {
	f.guaranteedHeads = true
}

// HeadsGuaranteed reports whether the guarantee flag is currently armed.
func (f *Flipper) HeadsGuaranteed() bool {
	return f.guaranteedHeads
}

// Mock queues deterministic results consumed before any other tier.
func (f *Flipper) Mock(results ...bool) {
	f.mocked = append(f.mocked, results...)
}
