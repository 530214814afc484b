// Package sim degrades decoded bit streams the way an imperfect decoder or
// a lossy channel would, for tests and evaluation runs.
package sim

import (
	"fmt"
	"math/rand"
)

// Bernoulli implements a simple u<p hit decision.
type Bernoulli struct {
	p   float64
	rng *rand.Rand
}

// NewBernoulli returns a decision that hits with probability p.
func NewBernoulli(p float64, rng *rand.Rand) *Bernoulli { return &Bernoulli{p: p, rng: rng} }

// Hit draws one decision.
func (b *Bernoulli) Hit() bool {
	if b.p <= 0 {
		return false
	}
	if b.p >= 1 {
		return true
	}
	return b.rng.Float64() < b.p
}

// Scenario describes the bit errors a channel introduces.
type Scenario struct {
	// FlipRate is the independent probability of inverting each bit.
	FlipRate float64
	// BurstRate is the probability that a burst starts at a given bit.
	BurstRate float64
	// BurstLen is the number of consecutive bits a burst inverts.
	BurstLen int
}

func (s Scenario) String() string {
	if s.BurstRate <= 0 || s.BurstLen <= 0 {
		return fmt.Sprintf("flip=%.4f", s.FlipRate)
	}
	return fmt.Sprintf("flip=%.4f burst=%.5fx%d", s.FlipRate, s.BurstRate, s.BurstLen)
}

// Validate checks that rates are probabilities.
func (s Scenario) Validate() error {
	if s.FlipRate < 0 || s.FlipRate > 1 {
		return fmt.Errorf("sim: flip rate %v outside [0,1]", s.FlipRate)
	}
	if s.BurstRate < 0 || s.BurstRate > 1 {
		return fmt.Errorf("sim: burst rate %v outside [0,1]", s.BurstRate)
	}
	if s.BurstLen < 0 {
		return fmt.Errorf("sim: negative burst length %d", s.BurstLen)
	}
	return nil
}

// BitChannel applies a Scenario to bit slices.
type BitChannel struct {
	scn   Scenario
	flip  *Bernoulli
	burst *Bernoulli
}

// NewBitChannel validates scn and returns a channel drawing from rng.
func NewBitChannel(scn Scenario, rng *rand.Rand) (*BitChannel, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return &BitChannel{
		scn:   scn,
		flip:  NewBernoulli(scn.FlipRate, rng),
		burst: NewBernoulli(scn.BurstRate, rng),
	}, nil
}

// Apply inverts bits in place and returns how many changed.
func (c *BitChannel) Apply(bits []bool) int {
	flipped := 0
	burstLeft := 0
	for i := range bits {
		if burstLeft == 0 && c.scn.BurstLen > 0 && c.burst.Hit() {
			burstLeft = c.scn.BurstLen
		}
		hit := c.flip.Hit()
		if burstLeft > 0 {
			burstLeft--
			hit = true
		}
		if hit {
			bits[i] = !bits[i]
			flipped++
		}
	}
	return flipped
}
