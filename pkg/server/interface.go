/*
Package server implements the msgpack transport between a suggest field and its client.

The server owns one field for the lifetime of a session. The client writes a
stream of msgpack-encoded events on stdin and reads commands from stdout.
Every event is handled to completion before the next one is decoded.

# Events

Events go from client to server. The kind selects which fields are read:

	{"id": "q1", "k": "search", "q": "ap"}
	{"id": "s1", "k": "select", "s": {"d": "apple"}}
	{"id": "n1", "k": "new", "t": "apple pie"}
	{"id": "f1", "k": "focus"}
	{"id": "b1", "k": "blur"}

# Commands

Commands go from server to client and echo the id of the event that caused them:

	{"id": "q1", "k": "suggestions", "s": [{"d": "apple"}, {"d": "apricot"}]}
	{"id": "", "k": "clear"}
	{"id": "s1", "k": "state", "st": {"delay": 300, "value": {"d": "apple"}, ...}}
	{"id": "n1", "k": "error", "e": "suggestfield: field is read-only", "c": 409}

On start the server sends a ready command followed by the full field state.
State commands are only sent when the field changed since the last one.

Event and command kinds are separate sets; a command kind is never accepted as an event.
*/
package server

import "github.com/bastiangx/suggestfield/pkg/suggestfield"

// EventKind identifies a client to server message.
type EventKind string

const (
	EventSearch EventKind = "search"
	EventSelect EventKind = "select"
	EventNew    EventKind = "new"
	EventFocus  EventKind = "focus"
	EventBlur   EventKind = "blur"
)

// CommandKind identifies a server to client message.
type CommandKind string

const (
	CommandReady       CommandKind = "ready"
	CommandSuggestions CommandKind = "suggestions"
	CommandClear       CommandKind = "clear"
	CommandState       CommandKind = "state"
	CommandError       CommandKind = "error"
)

// Event - client to server message
type Event struct {
	ID         string                   `msgpack:"id"`
	Kind       EventKind                `msgpack:"k"`
	Query      string                   `msgpack:"q,omitempty"`
	Suggestion *suggestfield.Suggestion `msgpack:"s,omitempty"`
	Text       string                   `msgpack:"t,omitempty"`
}

// Command - server to client message
type Command struct {
	ID          string                    `msgpack:"id"`
	Kind        CommandKind               `msgpack:"k"`
	Suggestions []suggestfield.Suggestion `msgpack:"s,omitempty"`
	State       *suggestfield.State       `msgpack:"st,omitempty"`
	Error       string                    `msgpack:"e,omitempty"`
	Code        int                       `msgpack:"c,omitempty"`
}

// Error codes carried by error commands.
const (
	CodeBadRequest   = 400
	CodeConflict     = 409
	CodeInvalidValue = 422
	CodeInternal     = 500
)
