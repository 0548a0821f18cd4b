package web

import (
	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/dashboard"
)

// MessageType tags every websocket message.
type MessageType string

const (
	// MsgInit is sent once per connection with the session's first render.
	MsgInit MessageType = "init"
	// MsgChange is sent by the browser when a control changes.
	MsgChange MessageType = "change"
	// MsgUpdate carries the outputs recomputed after a change.
	MsgUpdate MessageType = "update"
	// MsgError reports a rejected change. Session state is untouched.
	MsgError MessageType = "error"
)

// ClientMessage is what the browser sends.
type ClientMessage struct {
	Type    MessageType         `json:"type"`
	Control dashboard.ControlID `json:"control"`
	Value   string              `json:"value"`
}

// ServerMessage is what the server sends.
type ServerMessage struct {
	Type    MessageType                          `json:"type"`
	Session string                               `json:"session,omitempty"`
	Control dashboard.ControlID                  `json:"control,omitempty"`
	State   *dashboard.ControlState              `json:"state,omitempty"`
	Figures map[dashboard.OutputID]*chart.Figure `json:"figures,omitempty"`
	Error   string                               `json:"error,omitempty"`
}

func initMessage(id string, state dashboard.ControlState, figs map[dashboard.OutputID]*chart.Figure) ServerMessage {
	return ServerMessage{Type: MsgInit, Session: id, State: &state, Figures: figs}
}

func updateMessage(u dashboard.Update) ServerMessage {
	return ServerMessage{Type: MsgUpdate, Control: u.Control, State: &u.State, Figures: u.Figures}
}

func errorMessage(control dashboard.ControlID, err error) ServerMessage {
	return ServerMessage{Type: MsgError, Control: control, Error: err.Error()}
}
