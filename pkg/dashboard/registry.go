package dashboard

import (
	"fmt"
	"slices"

	"github.com/vanderheijden86/wdiview/pkg/chart"
)

// Binding ties a handler to the controls that trigger it and the outputs it fills.
type Binding struct {
	Name     string
	Triggers []ControlID
	Outputs  []OutputID
	Compute  func(ControlState) map[OutputID]*chart.Figure
}

// Registry is the explicit control-to-handler table. On a change of any
// trigger the binding is recomputed and its outputs replaced.
type Registry struct {
	bindings []Binding
	byOutput map[OutputID]string
}

// NewRegistry checks that every output is filled by at most one binding and
// that every binding has at least one trigger.
func NewRegistry(bindings ...Binding) (*Registry, error) {
	r := &Registry{byOutput: make(map[OutputID]string)}
	for _, b := range bindings {
		if len(b.Triggers) == 0 {
			return nil, fmt.Errorf("binding %q has no triggers", b.Name)
		}
		if b.Compute == nil {
			return nil, fmt.Errorf("binding %q has no handler", b.Name)
		}
		for _, out := range b.Outputs {
			if owner, taken := r.byOutput[out]; taken {
				return nil, fmt.Errorf("output %q bound by both %q and %q", out, owner, b.Name)
			}
			r.byOutput[out] = b.Name
		}
		r.bindings = append(r.bindings, b)
	}
	return r, nil
}

// Triggered returns the bindings that list control among their triggers.
func (r *Registry) Triggered(control ControlID) []Binding {
	var out []Binding
	for _, b := range r.bindings {
		if slices.Contains(b.Triggers, control) {
			out = append(out, b)
		}
	}
	return out
}

// Owner returns the binding name that fills an output.
func (r *Registry) Owner(out OutputID) (string, bool) {
	name, ok := r.byOutput[out]
	return name, ok
}

// run computes the given bindings and keeps only the outputs each declares.
func run(bindings []Binding, state ControlState) map[OutputID]*chart.Figure {
	figs := make(map[OutputID]*chart.Figure)
	for _, b := range bindings {
		computed := b.Compute(state)
		for _, out := range b.Outputs {
			figs[out] = computed[out]
		}
	}
	return figs
}
