package spaced_repetition

import (
	"math"
	"math/rand"
	"time"

	"github.com/example/studyplan/pkg/models"
)

// fuzzSpread is the maximum relative perturbation applied to an interval
const fuzzSpread = 0.025

// fuzzRand derives a per-review random source from the model seed and the
// review inputs. The same state, review time and seed always produce the
// same draw, keeping Review a pure function.
func (m *Model) fuzzRand(state models.MemoryState, now time.Time) *rand.Rand {
	mix := m.seed ^ now.UnixNano() ^ int64(state.ReviewCount)<<32 ^ state.SubtopicID<<16
	return rand.New(rand.NewSource(mix))
}

// fuzzInterval perturbs the interval by up to ±2.5% so reviews of items
// learned together spread out instead of clustering on one future date.
// The result never leaves [1, maxDays].
func fuzzInterval(days, maxDays int, rng *rand.Rand) int {
	scale := 1 + (rng.Float64()*2-1)*fuzzSpread
	fuzzed := int(math.Round(float64(days) * scale))
	if fuzzed < 1 {
		fuzzed = 1
	}
	if fuzzed > maxDays {
		fuzzed = maxDays
	}
	return fuzzed
}
