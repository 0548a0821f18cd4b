// Package testutil provides deterministic WDI fixtures for tests: indicator
// tables, color files and taxonomy hierarchies.
package testutil

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vanderheijden86/wdiview/pkg/loader"
	"github.com/vanderheijden86/wdiview/pkg/model"
	"github.com/vanderheijden86/wdiview/pkg/table"
)

// Indicator names the fixtures use by default. They match the names the
// dashboard looks for so the default views are populated.
var DefaultIndicators = []string{
	"Birth rate, crude (per 1,000 people)",
	"Fertility rate, total (births per woman)",
	"Life expectancy at birth, total (years)",
	"GDP per capita (constant 2015 US$)",
}

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed        int64    // Random seed (0 = 42)
	Countries   int      // Number of countries (default 20)
	Indicators  []string // Indicator names (default DefaultIndicators)
	FirstYear   int      // First year (default 1995)
	LastYear    int      // Last year, inclusive (default 2010)
	MissingRate float64  // Share of values left absent
	DropRate    float64  // Share of (country, indicator, year) rows omitted entirely
	// ColorCoverage is the share of countries given a color; the rest
	// exercise the fallback color. Zero means every country.
	ColorCoverage float64
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		Countries:  20,
		Indicators: DefaultIndicators,
		FirstYear:  1995,
		LastYear:   2010,
	}
}

// Generator creates WDI fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	d := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = d.Seed
	}
	if cfg.Countries <= 0 {
		cfg.Countries = d.Countries
	}
	if len(cfg.Indicators) == 0 {
		cfg.Indicators = d.Indicators
	}
	if cfg.FirstYear == 0 {
		cfg.FirstYear = d.FirstYear
	}
	if cfg.LastYear == 0 {
		cfg.LastYear = d.LastYear
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// CountryCode returns the ISO-3 style code of the i-th fixture country
// ("AAA", "AAB", ...).
func CountryCode(i int) string {
	return string([]byte{
		byte('A' + (i/676)%26),
		byte('A' + (i/26)%26),
		byte('A' + i%26),
	})
}

// CountryName returns the display name of the i-th fixture country.
func CountryName(i int) string {
	return fmt.Sprintf("Country %03d", i)
}

// Observations generates rows ordered by indicator, then country, then year.
func (g *Generator) Observations() []model.Observation {
	var out []model.Observation
	for k, ind := range g.cfg.Indicators {
		for c := 0; c < g.cfg.Countries; c++ {
			base := 10 * float64(k+1) * (1 + g.rng.Float64())
			for y := g.cfg.FirstYear; y <= g.cfg.LastYear; y++ {
				if g.rng.Float64() < g.cfg.DropRate {
					continue
				}
				v := model.Present(math.Round(base*(1+0.02*float64(y-g.cfg.FirstYear))*100) / 100)
				if g.rng.Float64() < g.cfg.MissingRate {
					v = model.Absent
				}
				out = append(out, model.Observation{
					CountryName: CountryName(c),
					CountryCode: CountryCode(c),
					Indicator:   ind,
					Year:        y,
					Value:       v,
				})
			}
		}
	}
	return out
}

// Table generates observations and wraps them in a table.
func (g *Generator) Table() *table.Table {
	return table.New(g.Observations())
}

// Colors assigns a color to the first ColorCoverage share of countries.
func (g *Generator) Colors() model.ColorLookup {
	n := g.cfg.Countries
	if g.cfg.ColorCoverage > 0 {
		n = int(float64(g.cfg.Countries) * g.cfg.ColorCoverage)
	}
	assignments := make([]model.ColorAssignment, n)
	for i := range assignments {
		assignments[i] = model.ColorAssignment{
			CountryCode: CountryCode(i),
			Color:       fmt.Sprintf("#%02X%02X%02X", g.rng.Intn(256), g.rng.Intn(256), g.rng.Intn(256)),
		}
	}
	return model.NewColorLookup(assignments)
}

// Hierarchy builds a three-level taxonomy under a root "WDI": dims
// dimensions each holding topicsPer topics. Leaf values are random and every
// parent carries the total of its children.
func (g *Generator) Hierarchy(dims, topicsPer int) []model.HierarchyNode {
	root := model.HierarchyNode{ID: "WDI", Label: "WDI"}
	nodes := []model.HierarchyNode{root}
	for d := 0; d < dims; d++ {
		dimID := fmt.Sprintf("WDI-D%d", d)
		dimIdx := len(nodes)
		nodes = append(nodes, model.HierarchyNode{ID: dimID, Label: fmt.Sprintf("Dimension %d", d), Parent: root.ID})
		for p := 0; p < topicsPer; p++ {
			v := float64(1 + g.rng.Intn(50))
			nodes = append(nodes, model.HierarchyNode{
				ID:     fmt.Sprintf("%s-T%d", dimID, p),
				Label:  fmt.Sprintf("Topic %d.%d", d, p),
				Parent: dimID,
				Value:  v,
			})
			nodes[dimIdx].Value += v
		}
		nodes[0].Value += nodes[dimIdx].Value
	}
	return nodes
}

// SmallHierarchy is the root 100 / children 60 and 40 taxonomy.
func SmallHierarchy() []model.HierarchyNode {
	return []model.HierarchyNode{
		{ID: "WDI", Label: "WDI", Value: 100},
		{ID: "WDI-Eco", Label: "Economy", Parent: "WDI", Value: 60},
		{ID: "WDI-Env", Label: "Environment", Parent: "WDI", Value: 40},
	}
}

// Data generates a full reference data set.
func (g *Generator) Data() *loader.Data {
	return &loader.Data{
		Table:     g.Table(),
		Colors:    g.Colors(),
		Hierarchy: g.Hierarchy(3, 4),
	}
}
