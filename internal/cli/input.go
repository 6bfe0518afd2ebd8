// Package cli drives a suggest field from the terminal for debugging.
//
// Each line is one client event:
//
//	ap        query "ap"
//	=2        select the second suggestion of the last list
//	+kiwi     enter "kiwi" as a new item
//	-         clear the value
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/suggestfield/pkg/suggestfield"
	"github.com/charmbracelet/log"
)

// InputHandler reads events from stdin and acts as the field's client,
// printing what a real client would render.
type InputHandler struct {
	field        *suggestfield.Field[string]
	reader       io.Reader
	last         []suggestfield.Suggestion
	requestCount int
}

// NewInputHandler attaches a terminal client to field.
func NewInputHandler(field *suggestfield.Field[string]) *InputHandler {
	return NewInputHandlerWithReader(field, os.Stdin)
}

// NewInputHandlerWithReader is NewInputHandler reading lines from r.
func NewInputHandlerWithReader(field *suggestfield.Field[string], r io.Reader) *InputHandler {
	h := &InputHandler{field: field, reader: r}
	field.Attach(h)
	return h
}

// Start runs the input loop until stdin ends.
func (h *InputHandler) Start() error {
	log.Print("SuggestField CLI")
	log.Print("type a query, =N to select, +text to add, - to clear (Ctrl+C to exit):")
	h.field.FlushState()

	scanner := bufio.NewScanner(h.reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
		h.field.FlushState()
	}
	return scanner.Err()
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	start := time.Now()

	var err error
	switch {
	case line == "-":
		err = h.field.Clear()
	case strings.HasPrefix(line, "+"):
		err = h.field.OnNewSuggestionEntered(strings.TrimPrefix(line, "+"))
	case strings.HasPrefix(line, "="):
		err = h.selectIndex(strings.TrimPrefix(line, "="))
	default:
		err = h.field.OnQueryChanged(line)
	}
	log.Debugf("Took [ %v ] for input '%s'", time.Since(start), line)

	if err != nil {
		log.Errorf("%v", err)
	}
}

func (h *InputHandler) selectIndex(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > len(h.last) {
		return fmt.Errorf("no suggestion #%s (have %d)", raw, len(h.last))
	}
	if err := h.field.OnSuggestionSelected(h.last[n-1]); err != nil {
		return err
	}
	if v, ok := h.field.Value(); ok {
		log.Printf("value: %s", v)
	}
	return nil
}

// SetSuggestions implements suggestfield.Client.
func (h *InputHandler) SetSuggestions(suggestions []suggestfield.Suggestion) {
	h.last = suggestions
	if len(suggestions) == 0 {
		log.Warn("No suggestions found")
		return
	}
	log.Printf("Found %d suggestions:", len(suggestions))
	for i, s := range suggestions {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Display)
		log.Printf("%2d. %s", i+1, clWord)
	}
}

// ClearValueImmediate implements suggestfield.Client.
func (h *InputHandler) ClearValueImmediate() {
	h.last = nil
	log.Print("value cleared")
}

// SyncState implements suggestfield.Client.
func (h *InputHandler) SyncState(state suggestfield.State) {
	value := ""
	if state.Value != nil {
		value = state.Value.Display
	}
	log.Debug("state",
		"value", value,
		"tokenMode", state.TokenMode,
		"delay", state.DelayMillis,
		"popupWidth", state.PopupWidth,
		"shortcutDisabled", state.ShortCut.Disabled())
}
