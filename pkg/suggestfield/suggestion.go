package suggestfield

// Suggestion is one dropdown entry as sent over the wire.
type Suggestion struct {
	Display string `msgpack:"d"`
	Value   string `msgpack:"v,omitempty"`
}

// Converter maps application items to suggestions and back.
//
// ToSuggestion must accept every item the application hands to the field.
// ToItem only needs to recover an item the application can use; an exact
// round trip is not required.
type Converter[I any] interface {
	ToSuggestion(item I) Suggestion
	ToItem(s Suggestion) I
}

// StringConverter treats items as their own display text.
type StringConverter struct{}

func (StringConverter) ToSuggestion(item string) Suggestion {
	return Suggestion{Display: item}
}

func (StringConverter) ToItem(s Suggestion) string {
	return s.Display
}

// ConverterFuncs builds a Converter from two functions.
type ConverterFuncs[I any] struct {
	To   func(item I) Suggestion
	From func(s Suggestion) I
}

func (c ConverterFuncs[I]) ToSuggestion(item I) Suggestion { return c.To(item) }

func (c ConverterFuncs[I]) ToItem(s Suggestion) I { return c.From(s) }
