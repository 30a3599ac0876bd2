package observe

import (
	"math/rand/v2"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// #region constants
const (
	// Steps is the number of decision points observed per profile.
	Steps = 5

	noiseDecayPerStep      = 0.15
	noiseStdDevAtFullScale = 0.3
	complexityGainPerStep  = 0.1
)

// #endregion constants

// #region sequence
// Sequence is an ordered list of observations of the same underlying profile.
type Sequence []profile.FeatureVector

// Fixed builds a deterministic sequence from explicit vectors.
func Fixed(vectors ...profile.FeatureVector) Sequence {
	out := make(Sequence, len(vectors))
	copy(out, vectors)
	return out
}

// #endregion sequence

// #region builder
// Builder expands a base feature vector into a noisy observation sequence whose noise
// shrinks and whose support-complexity estimate grows at every step. A Builder owns its
// random source and must not be shared between goroutines.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder returns a Builder with a reproducible random stream.
func NewBuilder(seed uint64) *Builder {
	return &Builder{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomBuilder returns a Builder seeded from the runtime's random source.
func NewRandomBuilder() *Builder {
	return &Builder{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NoiseScale returns the multiplier applied to the noise deviation at step i.
func NoiseScale(i int) float64 {
	return 1.0 - noiseDecayPerStep*float64(i)
}

// NoiseStdDev returns the Gaussian noise standard deviation at step i (0 at step 0).
func NoiseStdDev(i int) float64 {
	if i == 0 {
		return 0
	}
	return noiseStdDevAtFullScale * NoiseScale(i)
}

// ComplexityGain returns the support-complexity multiplier at step i.
func ComplexityGain(i int) float64 {
	if i == 0 {
		return 1
	}
	return 1 + complexityGainPerStep*float64(i)
}

// Build returns Steps observations. Step 0 is base unchanged; later steps add
// independent zero-mean noise to every feature and then scale support complexity.
// severity is accepted for interface parity and does not change the noise.
func (b *Builder) Build(base profile.FeatureVector, severity int) Sequence {
	_ = severity
	seq := make(Sequence, Steps)
	for i := range seq {
		obs := base
		if i > 0 {
			sd := NoiseStdDev(i)
			for d := range obs {
				obs[d] += b.rng.NormFloat64() * sd
			}
			obs[profile.SupportComplexityIdx] *= ComplexityGain(i)
		}
		seq[i] = obs
	}
	return seq
}

// #endregion builder
