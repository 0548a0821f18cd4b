package dashboard

import (
	"math"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/model"
)

// BuildSunburst turns the taxonomy hierarchy into a sunburst with "total"
// branch values. The hierarchy is not validated; see CheckTotals.
func BuildSunburst(nodes []model.HierarchyNode) *chart.Figure {
	ids := make([]string, len(nodes))
	labels := make([]string, len(nodes))
	parents := make([]string, len(nodes))
	values := make([]float64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
		labels[i] = n.Label
		parents[i] = n.Parent
		values[i] = n.Value
	}

	trace := chart.NewSunburst(ids, labels, parents, values)
	trace.InsideTextOrientation = "radial"

	return &chart.Figure{
		Data:   []chart.Trace{trace},
		Layout: chart.Layout{Margin: chart.ZeroMargin()},
	}
}

// TotalMismatch is a parent whose value is not the sum of its children.
type TotalMismatch struct {
	ID       string
	Value    float64
	ChildSum float64
}

// CheckTotals lists the parents whose value differs from the sum of their
// children. Leaves are not checked.
func CheckTotals(nodes []model.HierarchyNode) []TotalMismatch {
	sums := make(map[string]float64)
	hasChildren := make(map[string]bool)
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		sums[n.Parent] += n.Value
		hasChildren[n.Parent] = true
	}

	var out []TotalMismatch
	for _, n := range nodes {
		if !hasChildren[n.ID] {
			continue
		}
		sum := sums[n.ID]
		if math.Abs(sum-n.Value) > 1e-9*math.Max(1, math.Abs(n.Value)) {
			out = append(out, TotalMismatch{ID: n.ID, Value: n.Value, ChildSum: sum})
		}
	}
	return out
}

// TaxonomyCounts returns how many nodes sit one and two levels below the roots.
func TaxonomyCounts(nodes []model.HierarchyNode) (dimensions, topics int) {
	depth := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if n.IsRoot() {
			depth[n.ID] = 0
		}
	}
	// Parents may appear after their children, so settle depths until stable.
	for changed := true; changed; {
		changed = false
		for _, n := range nodes {
			if _, done := depth[n.ID]; done {
				continue
			}
			if d, ok := depth[n.Parent]; ok {
				depth[n.ID] = d + 1
				changed = true
			}
		}
	}
	for _, d := range depth {
		switch d {
		case 1:
			dimensions++
		case 2:
			topics++
		}
	}
	return dimensions, topics
}
