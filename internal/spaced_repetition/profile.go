package spaced_repetition

import (
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// DefaultWeights is the stock 17-parameter weight vector shared by the
// canonical profiles. Layout: w0-w3 initial stability per rating, w4-w7
// difficulty, w8-w10 recall stability, w11-w14 forget stability, w15 hard
// penalty, w16 easy bonus.
var DefaultWeights = [models.WeightCount]float64{
	0.4872, 1.4003, 3.7145, 13.8206,
	5.1618, 1.2298, 0.8975, 0.031,
	1.6474, 0.1367, 1.0461,
	2.1072, 0.0793, 0.3246, 1.587,
	0.2272, 2.8755,
}

// ErrUnknownProfile is returned when a profile name has no canonical entry
var ErrUnknownProfile = fmt.Errorf("spaced_repetition: unknown profile")

// Canonical profile names
const (
	ProfileAggressive = "aggressive"
	ProfileBalanced   = "balanced"
	ProfileSpaced     = "spaced"
)

var canonicalProfiles = []models.Profile{
	{
		Name:             ProfileAggressive,
		DesiredRetention: 0.95,
		MaxIntervalDays:  180,
		FuzzEnabled:      false,
		Weights:          DefaultWeights,
	},
	{
		Name:             ProfileBalanced,
		DesiredRetention: 0.90,
		MaxIntervalDays:  365,
		FuzzEnabled:      true,
		Weights:          DefaultWeights,
	},
	{
		Name:             ProfileSpaced,
		DesiredRetention: 0.85,
		MaxIntervalDays:  730,
		FuzzEnabled:      true,
		Weights:          DefaultWeights,
	},
}

// Profiles returns the canonical profiles in stable order
func Profiles() []models.Profile {
	out := make([]models.Profile, len(canonicalProfiles))
	copy(out, canonicalProfiles)
	return out
}

// ProfileByName looks up a canonical profile by its name
func ProfileByName(name string) (models.Profile, error) {
	for _, p := range canonicalProfiles {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// DefaultProfile returns the balanced profile
func DefaultProfile() models.Profile {
	p, _ := ProfileByName(ProfileBalanced)
	return p
}
