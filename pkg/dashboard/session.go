package dashboard

import (
	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
)

// Session holds one viewer's control values. Sessions never share state;
// a Session is used from one goroutine at a time.
type Session struct {
	dash  *Dashboard
	state ControlState
}

// NewSession starts a session at the default control values.
func (d *Dashboard) NewSession() *Session {
	return &Session{dash: d, state: d.defaults}
}

// State returns a copy of the session's control values.
func (s *Session) State() ControlState {
	return s.state
}

// Render computes every output for the current state.
func (s *Session) Render() map[OutputID]*chart.Figure {
	return s.dash.Render(s.state)
}

// Update carries the outputs recomputed after one change.
type Update struct {
	Control ControlID                  `json:"control"`
	State   ControlState               `json:"state"`
	Figures map[OutputID]*chart.Figure `json:"figures"`
}

// Apply validates a change, stores it and recomputes exactly the bindings
// triggered by the changed control. On error the state is left unchanged.
func (s *Session) Apply(c Change) (Update, error) {
	next, err := s.state.with(c)
	if err != nil {
		metrics.ControlErrors.Inc()
		return Update{}, err
	}
	metrics.ControlChanges.Inc()
	s.state = next
	debug.Log("session: %s=%q", c.Control, c.Value)

	return Update{
		Control: c.Control,
		State:   s.state,
		Figures: run(s.dash.registry.Triggered(c.Control), s.state),
	}, nil
}
