/*
Package suggestfield implements the server side of an autocomplete input.

A Field sits between a remote client and the application. The client reports
three things: the query text changed, a listed suggestion was picked, or the
user typed a value that is not in the list. The field calls the handlers the
application registered, maps items to wire suggestions through a Converter and
pushes the results back through a Client.

# Items and suggestions

Items are application values of any type I. The field never looks inside them;
it only hands them to the Converter:

	field := suggestfield.New[City](cityConverter{})
	field.SetSearchHandler(suggestfield.SearchFunc[City](repo.FindByPrefix))

For plain strings NewStringField wires StringConverter as the default.

# Token mode

With token mode on and a TokenHandler registered, accepted values are handed to
the handler instead of becoming the field value. This is how tag inputs are
built: every accepted entry becomes a token and the input stays empty.

# Missing handlers

An unregistered handler is never an error. A query without a search handler
answers with an empty list, a selection without a converter or a new entry
without a new-item handler does nothing.

A Field is not safe for concurrent use. The transport is expected to deliver
events for one field from a single goroutine.
*/
package suggestfield

// SearchHandler returns the candidate items for a query.
type SearchHandler[I any] interface {
	SearchItems(query string) ([]I, error)
}

// NewItemHandler mints an item from text the user typed.
type NewItemHandler[I any] interface {
	AddNewItem(text string) (I, error)
}

// TokenHandler consumes accepted items in token mode.
type TokenHandler[I any] interface {
	HandleToken(item I) error
}

// Client is the remote renderer as seen from the server.
type Client interface {
	// SetSuggestions replaces the dropdown content.
	SetSuggestions(suggestions []Suggestion)
	// ClearValueImmediate asks the client to empty its text box now,
	// without waiting for the next state sync.
	ClearValueImmediate()
	// SyncState mirrors the field configuration and current value.
	SyncState(state State)
}

// SearchFunc adapts a plain function to SearchHandler.
type SearchFunc[I any] func(query string) ([]I, error)

func (f SearchFunc[I]) SearchItems(query string) ([]I, error) { return f(query) }

// NewItemFunc adapts a plain function to NewItemHandler.
type NewItemFunc[I any] func(text string) (I, error)

func (f NewItemFunc[I]) AddNewItem(text string) (I, error) { return f(text) }

// TokenFunc adapts a plain function to TokenHandler.
type TokenFunc[I any] func(item I) error

func (f TokenFunc[I]) HandleToken(item I) error { return f(item) }
