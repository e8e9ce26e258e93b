package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_PartialFields(t *testing.T) {
	p, found := Parse("taps: 6\nrange_bins: 4096\n")
	if !found.Has("taps") || !found.Has("range_bins") {
		t.Fatalf("expected taps and range_bins in field set, got %v", found)
	}
	if found.Has("noise") {
		t.Fatalf("noise should not be in field set")
	}
	if p.Taps != 6 || p.RangeBins != 4096 {
		t.Fatalf("unexpected values: taps=%d range_bins=%d", p.Taps, p.RangeBins)
	}
}

func TestParse_AbsentKeyKeepsBaseValue(t *testing.T) {
	base := Defaults()
	base.Noise = 0.42
	parsed, found := Parse("taps: 6\nrange_bins: 4096\n")
	merged := Apply(base, parsed, found)
	if merged.Taps != 6 || merged.RangeBins != 4096 {
		t.Fatalf("parsed fields not applied: %+v", merged)
	}
	if merged.Noise != 0.42 {
		t.Fatalf("absent noise should keep base value, got %g", merged.Noise)
	}
}

func TestParse_LineAnchoredFirstMatchWins(t *testing.T) {
	text := "x_taps: 9\ntaps: 3\ntaps: 7\n"
	p, found := Parse(text)
	if !found.Has("taps") {
		t.Fatal("taps not found")
	}
	if p.Taps != 3 {
		t.Fatalf("first match should win, got %d", p.Taps)
	}
}

func TestParse_ValueGrammars(t *testing.T) {
	text := "frequency: -12.5\nnoise: 0.25\nseed: 18446744073709551615\ndescription:  coastal sweep \n"
	p, found := Parse(text)
	if p.Frequency != -12.5 {
		t.Errorf("frequency = %g", p.Frequency)
	}
	if p.Noise != 0.25 {
		t.Errorf("noise = %g", p.Noise)
	}
	if p.Seed != 18446744073709551615 {
		t.Errorf("seed = %d", p.Seed)
	}
	if p.Description != "coastal sweep" {
		t.Errorf("description = %q", p.Description)
	}
	for _, k := range []string{"frequency", "noise", "seed", "description"} {
		if !found.Has(k) {
			t.Errorf("%s missing from field set", k)
		}
	}
}

func TestParse_EmptyText(t *testing.T) {
	base := Defaults()
	parsed, found := Parse("")
	if len(found) != 0 {
		t.Fatalf("expected no fields, got %v", found)
	}
	if merged := Apply(base, parsed, found); merged != base {
		t.Fatalf("empty text must leave base unchanged: %+v", merged)
	}
}

func TestParse_OutOfRangeAcceptedAsIs(t *testing.T) {
	p, found := Parse("taps: 999\n")
	if !found.Has("taps") || p.Taps != 999 {
		t.Fatalf("out-of-range value should parse as-is, got %d", p.Taps)
	}
	if err := p.Validate(); err == nil {
		t.Fatal("Validate should reject taps=999")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coastal.yaml")
	content := "taps: 8\nfrequency: 48.5\ndescription: coastal clutter run\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	base := Defaults()
	merged, found, err := LoadFile(path, base)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if merged.Taps != 8 || merged.Frequency != 48.5 {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
	if merged.RangeBins != base.RangeBins {
		t.Fatalf("range_bins should fall back to base, got %d", merged.RangeBins)
	}
	if merged.Scenario != "coastal" {
		t.Fatalf("scenario name = %q", merged.Scenario)
	}
	if !found.Has("description") || merged.Description != "coastal clutter run" {
		t.Fatalf("description = %q", merged.Description)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("taps: 1\n"), 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	files, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 || files[0].Name != "a.yaml" || files[1].Name != "b.yaml" {
		t.Fatalf("unexpected listing: %+v", files)
	}
}

func TestList_MissingDir(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
