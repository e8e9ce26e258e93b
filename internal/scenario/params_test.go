package scenario

import "testing"

func TestEnsureSeed_ZeroReplaced(t *testing.T) {
	p := Defaults()
	if p.Seed != 0 {
		t.Fatalf("defaults should carry seed 0, got %d", p.Seed)
	}
	out := p.EnsureSeed()
	if out.Seed == 0 {
		t.Fatal("EnsureSeed must produce a nonzero seed")
	}
	if p.Seed != 0 {
		t.Fatal("EnsureSeed must not mutate the receiver")
	}
}

func TestEnsureSeed_NonzeroKept(t *testing.T) {
	p := Defaults()
	p.Seed = 312
	if out := p.EnsureSeed(); out.Seed != 312 {
		t.Fatalf("nonzero seed must be kept, got %d", out.Seed)
	}
}

func TestValidateRanges(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"taps low", func(p *Params) { p.Taps = 0 }},
		{"taps high", func(p *Params) { p.Taps = 33 }},
		{"range low", func(p *Params) { p.RangeBins = 32 }},
		{"doppler high", func(p *Params) { p.DopplerBins = 2048 }},
		{"frequency low", func(p *Params) { p.Frequency = 0.5 }},
		{"noise high", func(p *Params) { p.Noise = 0.6 }},
	}
	for _, tc := range cases {
		p := Defaults()
		tc.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
