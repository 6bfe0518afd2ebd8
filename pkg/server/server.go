package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/suggestfield/internal/logger"
	"github.com/bastiangx/suggestfield/pkg/suggestfield"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server runs one field session over a msgpack stream.
type Server[I any] struct {
	field   *suggestfield.Field[I]
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	writer  *bufio.Writer
	log     *log.Logger

	// id of the event being handled, echoed in commands
	current string
	events  int
}

// New creates a server using stdin/stdout and attaches it to field.
func New[I any](field *suggestfield.Field[I]) *Server[I] {
	return NewWithIO(field, os.Stdin, os.Stdout)
}

// NewWithIO creates a server reading events from r and writing commands to w.
func NewWithIO[I any](field *suggestfield.Field[I], r io.Reader, w io.Writer) *Server[I] {
	bw := bufio.NewWriter(w)
	s := &Server[I]{
		field:   field,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		encoder: msgpack.NewEncoder(bw),
		writer:  bw,
		log:     logger.New("server"),
	}
	field.Attach(s)
	return s
}

// Start sends the ready command and the initial state, then serves events
// until the input ends.
func (s *Server[I]) Start() error {
	s.log.Debug("Starting server.")

	s.send(Command{Kind: CommandReady})
	s.field.FlushState()
	if err := s.flush(); err != nil {
		return err
	}

	for {
		// a frame that decodes but does not fit Event only fails that event
		var frame msgpack.RawMessage
		if err := s.decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Client closed input", "events", s.events)
				return nil
			}
			s.log.Errorf("Reading event: %v", err)
			return err
		}

		var event Event
		if err := msgpack.Unmarshal(frame, &event); err != nil {
			s.log.Errorf("Unmarshaling event: %v", err)
			s.sendError("Invalid event", CodeBadRequest)
		} else {
			s.handleEvent(event)
		}
		if err := s.flush(); err != nil {
			return err
		}
	}
}

// handleEvent dispatches one event and syncs state changes it caused.
func (s *Server[I]) handleEvent(event Event) {
	s.events++
	s.current = event.ID
	defer func() { s.current = "" }()

	start := time.Now()
	var err error
	switch event.Kind {
	case EventSearch:
		err = s.field.OnQueryChanged(event.Query)
	case EventSelect:
		if event.Suggestion == nil {
			s.sendError("Missing suggestion", CodeBadRequest)
			return
		}
		err = s.field.OnSuggestionSelected(*event.Suggestion)
	case EventNew:
		err = s.field.OnNewSuggestionEntered(event.Text)
	case EventFocus:
		s.field.OnFocus()
	case EventBlur:
		s.field.OnBlur()
	default:
		s.sendError(fmt.Sprintf("Unknown event kind: %s", event.Kind), CodeBadRequest)
		return
	}
	s.log.Debug("Handled event", "id", event.ID, "kind", event.Kind, "took", time.Since(start))

	if err != nil {
		s.log.Errorf("Event %s (%s): %v", event.ID, event.Kind, err)
		s.sendError(err.Error(), errorCode(err))
	}
	s.field.FlushState()
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, suggestfield.ErrReadOnly):
		return CodeConflict
	case errors.Is(err, suggestfield.ErrInvalidValue):
		return CodeInvalidValue
	default:
		return CodeInternal
	}
}

// SetSuggestions implements suggestfield.Client.
func (s *Server[I]) SetSuggestions(suggestions []suggestfield.Suggestion) {
	s.send(Command{ID: s.current, Kind: CommandSuggestions, Suggestions: suggestions})
}

// ClearValueImmediate implements suggestfield.Client.
func (s *Server[I]) ClearValueImmediate() {
	s.send(Command{ID: s.current, Kind: CommandClear})
}

// SyncState implements suggestfield.Client.
func (s *Server[I]) SyncState(state suggestfield.State) {
	s.send(Command{ID: s.current, Kind: CommandState, State: &state})
}

// send encodes a command into the output buffer.
func (s *Server[I]) send(cmd Command) {
	if err := s.encoder.Encode(cmd); err != nil {
		s.log.Errorf("Encoding %s command: %v", cmd.Kind, err)
	}
}

func (s *Server[I]) sendError(message string, code int) {
	s.send(Command{ID: s.current, Kind: CommandError, Error: message, Code: code})
}

func (s *Server[I]) flush() error {
	if err := s.writer.Flush(); err != nil {
		s.log.Errorf("Writing to stdout: %v", err)
		return err
	}
	return nil
}
