package agent

import "encoding/json"

// Messages the agent posts to its clients.
const (
	MsgUpdateFound = "updateFound"
	MsgActivate    = "activate"
)

// Message is what clients receive. Clients must ignore Msg values they do not know.
type Message struct {
	Msg     string          `json:"msg"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Lifecycle events the agent reacts to.
const (
	EventInstall     = "install"
	EventActivate    = "activate"
	EventFetch       = "fetch"
	EventUpdateFound = "updateFound"
)

// Event is one lifecycle notification. The server's push feed sends these as JSON.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
