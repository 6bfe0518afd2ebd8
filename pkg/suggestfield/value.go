package suggestfield

import "errors"

var (
	// ErrReadOnly is returned when assigning a value to a read-only field.
	ErrReadOnly = errors.New("suggestfield: field is read-only")
	// ErrInvalidValue wraps the error of the first failing validator.
	ErrInvalidValue = errors.New("suggestfield: invalid value")
)

// Validator checks an item before it becomes the field value.
type Validator[I any] func(item I) error

// ValueChangeEvent describes a change of the field value.
type ValueChangeEvent[I any] struct {
	Old    I
	HadOld bool
	New    I
	HasNew bool
}

// AddValidator registers v. Validators run in registration order.
func (f *Field[I]) AddValidator(v Validator[I]) {
	if v == nil {
		return
	}
	f.validators = append(f.validators, v)
}

// AddValueChangeListener registers fn and returns a func that removes it.
func (f *Field[I]) AddValueChangeListener(fn func(ValueChangeEvent[I])) (remove func()) {
	return f.valueListeners.add(fn)
}

func (f *Field[I]) AddFocusListener(fn func()) (remove func()) {
	if fn == nil {
		return func() {}
	}
	return f.focusListeners.add(func(struct{}) { fn() })
}

func (f *Field[I]) AddBlurListener(fn func()) (remove func()) {
	if fn == nil {
		return func() {}
	}
	return f.blurListeners.add(func(struct{}) { fn() })
}

type listener[E any] struct {
	id int
	fn func(E)
}

type listeners[E any] struct {
	next  int
	items []listener[E]
}

func (l *listeners[E]) add(fn func(E)) func() {
	if fn == nil {
		return func() {}
	}
	l.next++
	id := l.next
	l.items = append(l.items, listener[E]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *listeners[E]) remove(id int) {
	for i, it := range l.items {
		if it.id == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *listeners[E]) fire(event E) {
	// listeners may remove themselves while firing
	snapshot := append([]listener[E](nil), l.items...)
	for _, it := range snapshot {
		it.fn(event)
	}
}
