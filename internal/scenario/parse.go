package scenario

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldSet records which scenario keys a parse actually found.
type FieldSet map[string]struct{}

// Has reports whether key was present in the parsed text.
func (fs FieldSet) Has(key string) bool {
	_, ok := fs[key]
	return ok
}

// Scenario files are line-oriented "key: value" pairs. Each key has its own
// value grammar; matching is line-anchored and the first match wins. Values
// are taken as-is, range checks are left to Validate.
const (
	uintPattern   = `(\d+)`
	floatPattern  = `([+-]?\d+(?:\.\d+)?)`
	stringPattern = `(.+)`
)

var fieldPatterns = map[string]*regexp.Regexp{
	"taps":         keyPattern("taps", uintPattern),
	"range_bins":   keyPattern("range_bins", uintPattern),
	"doppler_bins": keyPattern("doppler_bins", uintPattern),
	"frequency":    keyPattern("frequency", floatPattern),
	"noise":        keyPattern("noise", floatPattern),
	"seed":         keyPattern("seed", uintPattern),
	"description":  keyPattern("description", stringPattern),
}

func keyPattern(key, value string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?m)^%s:[ \t]*%s`, key, value))
}

func capture(text, key string) (string, bool) {
	m := fieldPatterns[key].FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse extracts the scenario fields present in text. The returned FieldSet
// names exactly the keys that matched; fields absent from the set are left at
// their zero value in the returned Params. Empty text yields an empty set.
func Parse(text string) (Params, FieldSet) {
	var p Params
	found := make(FieldSet)

	if raw, ok := capture(text, "taps"); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			p.Taps = v
			found["taps"] = struct{}{}
		}
	}
	if raw, ok := capture(text, "range_bins"); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			p.RangeBins = v
			found["range_bins"] = struct{}{}
		}
	}
	if raw, ok := capture(text, "doppler_bins"); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			p.DopplerBins = v
			found["doppler_bins"] = struct{}{}
		}
	}
	if raw, ok := capture(text, "frequency"); ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			p.Frequency = v
			found["frequency"] = struct{}{}
		}
	}
	if raw, ok := capture(text, "noise"); ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			p.Noise = v
			found["noise"] = struct{}{}
		}
	}
	if raw, ok := capture(text, "seed"); ok {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			p.Seed = v
			found["seed"] = struct{}{}
		}
	}
	if raw, ok := capture(text, "description"); ok {
		if desc := strings.TrimSpace(raw); desc != "" {
			p.Description = desc
			found["description"] = struct{}{}
		}
	}
	return p, found
}

// Apply merges parsed fields over base: keys in found take the parsed value,
// everything else keeps the base value.
func Apply(base, parsed Params, found FieldSet) Params {
	out := base
	if found.Has("taps") {
		out.Taps = parsed.Taps
	}
	if found.Has("range_bins") {
		out.RangeBins = parsed.RangeBins
	}
	if found.Has("doppler_bins") {
		out.DopplerBins = parsed.DopplerBins
	}
	if found.Has("frequency") {
		out.Frequency = parsed.Frequency
	}
	if found.Has("noise") {
		out.Noise = parsed.Noise
	}
	if found.Has("seed") {
		out.Seed = parsed.Seed
	}
	if found.Has("description") {
		out.Description = parsed.Description
	}
	return out
}
