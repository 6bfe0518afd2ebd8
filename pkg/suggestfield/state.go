package suggestfield

// Modifier key codes understood by the client.
const (
	ModifierShift = 16
	ModifierCtrl  = 17
	ModifierAlt   = 18
	ModifierMeta  = 91
)

// KeyNone disables the accept shortcut when used without modifiers.
const KeyNone = -1

// ShortCut is a key combination that accepts the current suggestion,
// the same way Enter does.
type ShortCut struct {
	KeyCode   int   `msgpack:"k"`
	Modifiers []int `msgpack:"m,omitempty"`
}

// Disabled reports whether the client should ignore the shortcut.
func (s ShortCut) Disabled() bool {
	return s.KeyCode == KeyNone && len(s.Modifiers) == 0
}

// State is the part of the field mirrored to the client.
type State struct {
	DelayMillis   int         `msgpack:"delay"`
	MinQueryChars int         `msgpack:"min_chars"`
	TrimQuery     bool        `msgpack:"trim"`
	PopupWidth    string      `msgpack:"popup_width,omitempty"` // empty means auto
	InputPrompt   string      `msgpack:"prompt,omitempty"`
	TokenMode     bool        `msgpack:"token_mode"`
	AcceptOnBlur  bool        `msgpack:"accept_blur"`
	AcceptOnTab   bool        `msgpack:"accept_tab"`
	AllowNewItems bool        `msgpack:"allow_new"`
	ReadOnly      bool        `msgpack:"read_only,omitempty"`
	ShortCut      ShortCut    `msgpack:"shortcut"`
	Value         *Suggestion `msgpack:"value"`
}

// DefaultState returns the configuration a new field starts with.
func DefaultState() State {
	return State{
		DelayMillis:   300,
		MinQueryChars: 1,
		TrimQuery:     true,
		AcceptOnBlur:  true,
		AcceptOnTab:   true,
		ShortCut:      ShortCut{KeyCode: KeyNone},
	}
}

func (s State) clone() State {
	if s.ShortCut.Modifiers != nil {
		s.ShortCut.Modifiers = append([]int(nil), s.ShortCut.Modifiers...)
	}
	if s.Value != nil {
		v := *s.Value
		s.Value = &v
	}
	return s
}
