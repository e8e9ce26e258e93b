// Simulation parameters exchanged with the radar engine
package scenario

import (
	"fmt"
	"math/rand/v2"
)

// Params is the generator configuration submitted to the engine's
// /ingest-config endpoint. Field names match the wire payload.
type Params struct {
	Taps        int     `json:"taps" yaml:"taps"`
	RangeBins   int     `json:"range_bins" yaml:"range_bins"`
	DopplerBins int     `json:"doppler_bins" yaml:"doppler_bins"`
	Frequency   float64 `json:"frequency" yaml:"frequency"`
	Noise       float64 `json:"noise" yaml:"noise"`
	Seed        uint64  `json:"seed" yaml:"seed"`
	Scenario    string  `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Defaults returns the parameter set the panel starts with.
func Defaults() Params {
	return Params{
		Taps:        4,
		RangeBins:   2048,
		DopplerBins: 256,
		Frequency:   32.0,
		Noise:       0.03,
		Seed:        0,
	}
}

// Validate checks the documented parameter ranges.
func (p Params) Validate() error {
	if p.Taps < 1 || p.Taps > 32 {
		return fmt.Errorf("taps %d out of range [1,32]", p.Taps)
	}
	if p.RangeBins < 64 || p.RangeBins > 8192 {
		return fmt.Errorf("range_bins %d out of range [64,8192]", p.RangeBins)
	}
	if p.DopplerBins < 32 || p.DopplerBins > 1024 {
		return fmt.Errorf("doppler_bins %d out of range [32,1024]", p.DopplerBins)
	}
	if p.Frequency < 1 || p.Frequency > 200 {
		return fmt.Errorf("frequency %g out of range [1,200]", p.Frequency)
	}
	if p.Noise < 0 || p.Noise > 0.5 {
		return fmt.Errorf("noise %g out of range [0,0.5]", p.Noise)
	}
	return nil
}

// EnsureSeed returns a copy with a fresh random 64-bit seed when the seed
// is zero. A zero seed is never submitted to the engine.
func (p Params) EnsureSeed() Params {
	if p.Seed == 0 {
		p.Seed = rand.Uint64()
		if p.Seed == 0 {
			p.Seed = 1
		}
	}
	return p
}
