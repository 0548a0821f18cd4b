package testutil

import (
	"context"
	"testing"

	"github.com/vanderheijden86/wdiview/pkg/loader"
)

func TestCountryCode(t *testing.T) {
	tests := []struct {
		i    int
		want string
	}{
		{0, "AAA"},
		{1, "AAB"},
		{26, "ABA"},
		{676, "BAA"},
	}
	for _, tt := range tests {
		if got := CountryCode(tt.i); got != tt.want {
			t.Errorf("CountryCode(%d)=%s; want %s", tt.i, got, tt.want)
		}
	}
}

func TestObservations_Deterministic(t *testing.T) {
	a := NewDefault().Observations()
	b := NewDefault().Observations()
	AssertJSONEqual(t, a, b)

	cfg := DefaultConfig()
	want := len(cfg.Indicators) * cfg.Countries * (cfg.LastYear - cfg.FirstYear + 1)
	if len(a) != want {
		t.Fatalf("len=%d; want %d", len(a), want)
	}
}

func TestObservations_MissingAndDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingRate = 0.5
	cfg.DropRate = 0.3
	obs := New(cfg).Observations()

	full := len(cfg.Indicators) * cfg.Countries * (cfg.LastYear - cfg.FirstYear + 1)
	if len(obs) >= full {
		t.Fatalf("expected dropped rows, got %d of %d", len(obs), full)
	}
	absent := 0
	for _, o := range obs {
		if !o.Value.Valid {
			absent++
		}
	}
	if absent == 0 {
		t.Fatal("expected absent values")
	}
}

func TestColors_Coverage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ColorCoverage = 0.5
	colors := New(cfg).Colors()
	if colors.Len() != cfg.Countries/2 {
		t.Fatalf("Len=%d; want %d", colors.Len(), cfg.Countries/2)
	}
	if _, ok := colors.Lookup(CountryCode(cfg.Countries - 1)); ok {
		t.Fatal("last country should have no color")
	}
}

func TestHierarchy_Totals(t *testing.T) {
	nodes := NewDefault().Hierarchy(2, 3)
	if len(nodes) != 1+2+2*3 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	sum := 0.0
	for _, n := range nodes {
		if n.Parent == "WDI" {
			sum += n.Value
		}
	}
	if sum != nodes[0].Value {
		t.Fatalf("root=%v; children sum to %v", nodes[0].Value, sum)
	}
}

func TestWriteDataDir_LoadsBack(t *testing.T) {
	data := NewDefault().Data()
	paths := WriteDataDir(t, t.TempDir(), data)

	loaded, err := loader.LoadAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	AssertJSONEqual(t, data.Table.Rows(), loaded.Table.Rows())
	AssertJSONEqual(t, data.Colors.Assignments(), loaded.Colors.Assignments())
	AssertJSONEqual(t, data.Hierarchy, loaded.Hierarchy)
}
