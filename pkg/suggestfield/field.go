package suggestfield

import (
	"fmt"
	"reflect"
)

// Field is the server-side controller of one suggest input.
type Field[I any] struct {
	state  State
	dirty  bool
	client Client

	converter Converter[I]
	search    SearchHandler[I]
	newItems  NewItemHandler[I]
	tokens    TokenHandler[I]

	value    I
	hasValue bool

	validators     []Validator[I]
	valueListeners listeners[ValueChangeEvent[I]]
	focusListeners listeners[struct{}]
	blurListeners  listeners[struct{}]
}

// Option configures a Field at construction time.
type Option[I any] func(*Field[I])

// New creates a field that maps items through converter. A nil converter
// is allowed; selections and value display are then ignored.
func New[I any](converter Converter[I], opts ...Option[I]) *Field[I] {
	f := &Field[I]{
		state:     DefaultState(),
		converter: converter,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// NewStringField creates a field over plain strings using StringConverter.
func NewStringField(opts ...Option[string]) *Field[string] {
	return New[string](StringConverter{}, opts...)
}

// WithSearchHandler sets the handler answering query changes.
func WithSearchHandler[I any](h SearchHandler[I]) Option[I] {
	return func(f *Field[I]) { f.search = h }
}

// WithNewItemHandler sets the handler minting items from free text.
func WithNewItemHandler[I any](h NewItemHandler[I]) Option[I] {
	return func(f *Field[I]) { f.newItems = h }
}

// WithTokenHandler sets the handler receiving items in token mode.
func WithTokenHandler[I any](h TokenHandler[I]) Option[I] {
	return func(f *Field[I]) { f.tokens = h }
}

// WithState replaces the default configuration. The value part is ignored.
func WithState[I any](s State) Option[I] {
	return func(f *Field[I]) {
		value := f.state.Value
		f.state = s.clone()
		f.state.Value = value
	}
}

// WithClient attaches c at construction time.
func WithClient[I any](c Client) Option[I] {
	return func(f *Field[I]) { f.Attach(c) }
}

// Attach connects the field to a client. The next FlushState sends the
// complete state.
func (f *Field[I]) Attach(c Client) {
	f.client = c
	f.dirty = true
}

// OnQueryChanged answers a query from the client with a suggestion list.
// Without a search handler or converter the list is empty.
func (f *Field[I]) OnQueryChanged(query string) error {
	suggestions := []Suggestion{}
	if f.search != nil && f.converter != nil {
		items, err := f.search.SearchItems(query)
		if err != nil {
			return fmt.Errorf("search %q: %w", query, err)
		}
		suggestions = make([]Suggestion, 0, len(items))
		for _, item := range items {
			suggestions = append(suggestions, f.converter.ToSuggestion(item))
		}
	}
	if f.client != nil {
		f.client.SetSuggestions(suggestions)
	}
	return nil
}

// OnSuggestionSelected accepts a suggestion the client picked from the list.
// The client already shows the selection, so the field is not marked dirty.
func (f *Field[I]) OnSuggestionSelected(s Suggestion) error {
	if f.converter == nil {
		return nil
	}
	return f.accept(f.converter.ToItem(s), false)
}

// OnNewSuggestionEntered accepts free text that matched no suggestion.
func (f *Field[I]) OnNewSuggestionEntered(text string) error {
	if f.newItems == nil {
		return nil
	}
	item, err := f.newItems.AddNewItem(text)
	if err != nil {
		return fmt.Errorf("new item %q: %w", text, err)
	}
	return f.accept(item, true)
}

// OnFocus and OnBlur pass client focus changes to listeners.
func (f *Field[I]) OnFocus() { f.focusListeners.fire(struct{}{}) }

func (f *Field[I]) OnBlur() { f.blurListeners.fire(struct{}{}) }

func (f *Field[I]) accept(item I, repaint bool) error {
	if f.state.TokenMode && f.tokens != nil {
		if err := f.tokens.HandleToken(item); err != nil {
			return fmt.Errorf("token: %w", err)
		}
		return nil
	}
	return f.setValue(item, true, repaint)
}

// SetValue stores item as the field value.
func (f *Field[I]) SetValue(item I) error {
	return f.setValue(item, true, true)
}

// Clear empties the field value.
func (f *Field[I]) Clear() error {
	var zero I
	return f.setValue(zero, false, true)
}

// Value returns the current value; ok is false for an empty field.
func (f *Field[I]) Value() (item I, ok bool) {
	return f.value, f.hasValue
}

func (f *Field[I]) setValue(item I, present, repaint bool) error {
	if present == f.hasValue && (!present || reflect.DeepEqual(item, f.value)) {
		return nil
	}
	if f.state.ReadOnly {
		return ErrReadOnly
	}
	if present {
		for _, validate := range f.validators {
			if err := validate(item); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidValue, err)
			}
		}
	}

	event := ValueChangeEvent[I]{Old: f.value, HadOld: f.hasValue}
	f.setInternalValue(item, present)
	if repaint {
		f.dirty = true
	}
	event.New, event.HasNew = f.value, f.hasValue
	f.valueListeners.fire(event)
	return nil
}

// setInternalValue keeps the displayed suggestion in step with the value.
func (f *Field[I]) setInternalValue(item I, present bool) {
	if !present {
		var zero I
		item = zero
	}
	f.value, f.hasValue = item, present

	if f.converter == nil {
		return
	}
	if !present {
		f.state.Value = nil
		if f.client != nil {
			f.client.ClearValueImmediate()
		}
		return
	}
	s := f.converter.ToSuggestion(item)
	f.state.Value = &s
}

// State returns a copy of the mirrored state.
func (f *Field[I]) State() State { return f.state.clone() }

// Dirty reports whether the state changed since the last flush.
func (f *Field[I]) Dirty() bool { return f.dirty }

// FlushState sends the state to the client if it changed. It reports
// whether anything was sent.
func (f *Field[I]) FlushState() bool {
	if !f.dirty || f.client == nil {
		return false
	}
	f.client.SyncState(f.state.clone())
	f.dirty = false
	return true
}

// SetSearchHandler replaces the search handler; nil disables searching.
func (f *Field[I]) SetSearchHandler(h SearchHandler[I]) { f.search = h }

// SearchHandler returns the current search handler, possibly nil.
func (f *Field[I]) SearchHandler() SearchHandler[I] { return f.search }

// SetNewItemHandler replaces the new-item handler; nil ignores new text.
func (f *Field[I]) SetNewItemHandler(h NewItemHandler[I]) { f.newItems = h }

// NewItemHandler returns the current new-item handler, possibly nil.
func (f *Field[I]) NewItemHandler() NewItemHandler[I] { return f.newItems }

// SetTokenHandler replaces the token handler.
func (f *Field[I]) SetTokenHandler(h TokenHandler[I]) { f.tokens = h }

// TokenHandler returns the current token handler, possibly nil.
func (f *Field[I]) TokenHandler() TokenHandler[I] { return f.tokens }

// SetConverter replaces the item converter. Without one, selections are
// ignored and searches send empty lists.
func (f *Field[I]) SetConverter(c Converter[I]) { f.converter = c }

// Converter returns the current converter, possibly nil.
func (f *Field[I]) Converter() Converter[I] { return f.converter }

// SetDelay sets how long the client waits after typing before it queries.
func (f *Field[I]) SetDelay(millis int) {
	f.state.DelayMillis = millis
	f.dirty = true
}

// Delay returns the query delay in milliseconds.
func (f *Field[I]) Delay() int { return f.state.DelayMillis }

// SetMinimumQueryCharacters sets the query length below which the client
// does not ask for suggestions.
func (f *Field[I]) SetMinimumQueryCharacters(n int) {
	f.state.MinQueryChars = n
	f.dirty = true
}

// MinimumQueryCharacters returns the shortest query the client sends.
func (f *Field[I]) MinimumQueryCharacters() int { return f.state.MinQueryChars }

// SetTrimQuery controls whether the client trims whitespace off queries.
func (f *Field[I]) SetTrimQuery(trim bool) {
	f.state.TrimQuery = trim
	f.dirty = true
}

// TrimQuery reports whether queries are trimmed.
func (f *Field[I]) TrimQuery() bool { return f.state.TrimQuery }

// SetPopupWidth sets the dropdown width in pixels; 0 means auto width.
func (f *Field[I]) SetPopupWidth(width int) {
	if width == 0 {
		f.state.PopupWidth = ""
	} else {
		f.state.PopupWidth = fmt.Sprintf("%dpx", width)
	}
	f.dirty = true
}

// PopupWidth returns the CSS width, or "" for auto width.
func (f *Field[I]) PopupWidth() string { return f.state.PopupWidth }

// SetInputPrompt sets the text shown while the input is empty.
func (f *Field[I]) SetInputPrompt(prompt string) {
	f.state.InputPrompt = prompt
	f.dirty = true
}

// InputPrompt returns the empty-input placeholder text.
func (f *Field[I]) InputPrompt() string { return f.state.InputPrompt }

// SetTokenMode routes accepted items to the token handler instead of
// storing them as the value.
func (f *Field[I]) SetTokenMode(on bool) {
	f.state.TokenMode = on
	f.dirty = true
}

// TokenMode reports whether token mode is on.
func (f *Field[I]) TokenMode() bool { return f.state.TokenMode }

// SetAcceptOnBlur controls whether losing focus accepts the highlighted
// suggestion (true) or cancels it.
func (f *Field[I]) SetAcceptOnBlur(accept bool) {
	f.state.AcceptOnBlur = accept
	f.dirty = true
}

// AcceptOnBlur reports whether blur accepts the highlighted suggestion.
func (f *Field[I]) AcceptOnBlur() bool { return f.state.AcceptOnBlur }

// SetAcceptOnTab is SetAcceptOnBlur for focus lost through the TAB key.
func (f *Field[I]) SetAcceptOnTab(accept bool) {
	f.state.AcceptOnTab = accept
	f.dirty = true
}

// AcceptOnTab reports whether TAB accepts the highlighted suggestion.
func (f *Field[I]) AcceptOnTab() bool { return f.state.AcceptOnTab }

// SetNewItemsAllowed lets the client submit text matching no suggestion.
func (f *Field[I]) SetNewItemsAllowed(allow bool) {
	f.state.AllowNewItems = allow
	f.dirty = true
}

// NewItemsAllowed reports whether free text may be submitted.
func (f *Field[I]) NewItemsAllowed() bool { return f.state.AllowNewItems }

// SetShortCut binds a key combination that accepts like Enter.
// SetShortCut(KeyNone) disables it.
//
//	field.SetShortCut('S', suggestfield.ModifierCtrl)
func (f *Field[I]) SetShortCut(keyCode int, modifiers ...int) {
	f.state.ShortCut = ShortCut{
		KeyCode:   keyCode,
		Modifiers: append([]int(nil), modifiers...),
	}
	f.dirty = true
}

// ShortCut returns a copy of the accept shortcut.
func (f *Field[I]) ShortCut() ShortCut {
	return f.state.clone().ShortCut
}

// SetReadOnly makes SetValue and Clear fail with ErrReadOnly.
func (f *Field[I]) SetReadOnly(readOnly bool) {
	f.state.ReadOnly = readOnly
	f.dirty = true
}

// ReadOnly reports whether the value is locked.
func (f *Field[I]) ReadOnly() bool { return f.state.ReadOnly }
