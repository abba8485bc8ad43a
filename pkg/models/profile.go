package models

// WeightCount is the length of a profile's weight vector
const WeightCount = 17

// Profile is an immutable scheduling aggressiveness preset. Profiles are
// read-only configuration: a caller selects one by name once per context and
// passes it to the memory model.
type Profile struct {
	Name             string              `json:"name"`
	DesiredRetention float64             `json:"desired_retention"` // target recall probability in (0, 1)
	MaxIntervalDays  int                 `json:"max_interval_days"` // hard cap on any computed interval
	FuzzEnabled      bool                `json:"fuzz_enabled"`
	Weights          [WeightCount]float64 `json:"weights"`
}
