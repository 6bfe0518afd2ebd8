package suggestfield

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingClient struct {
	lists  [][]Suggestion
	clears int
	states []State
}

func (c *recordingClient) SetSuggestions(s []Suggestion) { c.lists = append(c.lists, s) }
func (c *recordingClient) ClearValueImmediate()          { c.clears++ }
func (c *recordingClient) SyncState(s State)             { c.states = append(c.states, s) }

func fruitSearch(query string) ([]string, error) {
	var out []string
	for _, w := range []string{"apple", "apricot", "banana"} {
		if strings.HasPrefix(w, query) {
			out = append(out, w)
		}
	}
	return out, nil
}

func TestOnQueryChanged(t *testing.T) {
	client := &recordingClient{}
	f := NewStringField(
		WithSearchHandler[string](SearchFunc[string](fruitSearch)),
		WithClient[string](client),
	)

	if err := f.OnQueryChanged("ap"); err != nil {
		t.Fatalf("OnQueryChanged: %v", err)
	}
	want := [][]Suggestion{{{Display: "apple"}, {Display: "apricot"}}}
	if diff := cmp.Diff(want, client.lists); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestOnQueryChangedWithoutHandler(t *testing.T) {
	for _, q := range []string{"", "a", "anything at all"} {
		client := &recordingClient{}
		f := NewStringField(WithClient[string](client))
		if err := f.OnQueryChanged(q); err != nil {
			t.Fatalf("query %q: unexpected error %v", q, err)
		}
		if len(client.lists) != 1 || len(client.lists[0]) != 0 {
			t.Fatalf("query %q: expected one empty list, got %#v", q, client.lists)
		}
	}
}

func TestOnQueryChangedNilResult(t *testing.T) {
	client := &recordingClient{}
	f := NewStringField(WithClient[string](client))
	f.SetSearchHandler(SearchFunc[string](func(string) ([]string, error) { return nil, nil }))

	if err := f.OnQueryChanged("x"); err != nil {
		t.Fatal(err)
	}
	if len(client.lists) != 1 || client.lists[0] == nil || len(client.lists[0]) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", client.lists)
	}
}

func TestOnQueryChangedUsesConverter(t *testing.T) {
	type city struct {
		Name string
		Code string
	}
	conv := ConverterFuncs[city]{
		To:   func(c city) Suggestion { return Suggestion{Display: c.Name, Value: c.Code} },
		From: func(s Suggestion) city { return city{Name: s.Display, Code: s.Value} },
	}
	cities := []city{{"Oslo", "OSL"}, {"Osaka", "KIX"}, {"Ostrava", "OSR"}}
	client := &recordingClient{}
	f := New[city](conv, WithClient[city](client))
	f.SetSearchHandler(SearchFunc[city](func(string) ([]city, error) { return cities, nil }))

	if err := f.OnQueryChanged("os"); err != nil {
		t.Fatal(err)
	}
	got := client.lists[0]
	if len(got) != len(cities) {
		t.Fatalf("expected %d suggestions, got %d", len(cities), len(got))
	}
	for i, c := range cities {
		if diff := cmp.Diff(conv.ToSuggestion(c), got[i]); diff != "" {
			t.Errorf("entry %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestOnQueryChangedHandlerError(t *testing.T) {
	boom := errors.New("backend down")
	client := &recordingClient{}
	f := NewStringField(WithClient[string](client))
	f.SetSearchHandler(SearchFunc[string](func(string) ([]string, error) { return nil, boom }))

	err := f.OnQueryChanged("a")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped handler error, got %v", err)
	}
	if len(client.lists) != 0 {
		t.Fatalf("nothing should be sent on error, got %#v", client.lists)
	}
}

func TestOnSuggestionSelected(t *testing.T) {
	client := &recordingClient{}
	f := NewStringField(WithClient[string](client))
	f.FlushState()

	if err := f.OnSuggestionSelected(Suggestion{Display: "apple"}); err != nil {
		t.Fatal(err)
	}
	if v, ok := f.Value(); !ok || v != "apple" {
		t.Fatalf("expected value apple, got %q (%v)", v, ok)
	}
	if diff := cmp.Diff(&Suggestion{Display: "apple"}, f.State().Value); diff != "" {
		t.Errorf("displayed value (-want +got):\n%s", diff)
	}
	if f.Dirty() {
		t.Error("selection should not mark the field dirty")
	}
}

func TestOnSuggestionSelectedWithoutConverter(t *testing.T) {
	client := &recordingClient{}
	f := New[string](nil, WithClient[string](client))
	f.FlushState()

	if err := f.OnSuggestionSelected(Suggestion{Display: "apple"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.Value(); ok {
		t.Fatal("value should be unchanged")
	}
	if f.FlushState() || len(client.lists) != 0 || client.clears != 0 {
		t.Fatalf("expected no client push, got %+v", client)
	}
}

func TestOnNewSuggestionEntered(t *testing.T) {
	f := NewStringField()
	if err := f.OnNewSuggestionEntered("kiwi"); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.Value(); ok {
		t.Fatal("no new-item handler registered, value must stay empty")
	}

	f.SetNewItemHandler(NewItemFunc[string](func(text string) (string, error) {
		return strings.ToUpper(text), nil
	}))
	f.FlushState()
	if err := f.OnNewSuggestionEntered("kiwi"); err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Value(); v != "KIWI" {
		t.Fatalf("expected KIWI, got %q", v)
	}
	if !f.Dirty() {
		t.Error("new items go through the repaint path")
	}
}

func TestTokenMode(t *testing.T) {
	testCases := []struct {
		name      string
		tokenMode bool
		handler   bool
		wantValue bool
	}{
		{"token mode with handler", true, true, false},
		{"token mode without handler", true, false, true},
		{"value mode with handler", false, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var tokens []string
			f := NewStringField()
			f.SetTokenMode(tc.tokenMode)
			f.SetNewItemHandler(NewItemFunc[string](func(text string) (string, error) { return text, nil }))
			if tc.handler {
				f.SetTokenHandler(TokenFunc[string](func(item string) error {
					tokens = append(tokens, item)
					return nil
				}))
			}

			if err := f.OnSuggestionSelected(Suggestion{Display: "go"}); err != nil {
				t.Fatal(err)
			}
			if err := f.OnNewSuggestionEntered("rust"); err != nil {
				t.Fatal(err)
			}

			v, ok := f.Value()
			if ok != tc.wantValue {
				t.Fatalf("value set = %v, want %v", ok, tc.wantValue)
			}
			if tc.wantValue && v != "rust" {
				t.Errorf("expected last accepted value rust, got %q", v)
			}
			if !tc.wantValue {
				if diff := cmp.Diff([]string{"go", "rust"}, tokens); diff != "" {
					t.Errorf("tokens (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestTokenHandlerError(t *testing.T) {
	boom := errors.New("rejected")
	f := NewStringField()
	f.SetTokenMode(true)
	f.SetTokenHandler(TokenFunc[string](func(string) error { return boom }))

	if err := f.OnSuggestionSelected(Suggestion{Display: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestClearSendsImmediateClear(t *testing.T) {
	client := &recordingClient{}
	f := NewStringField(WithClient[string](client))
	if err := f.SetValue("pear"); err != nil {
		t.Fatal(err)
	}
	if err := f.Clear(); err != nil {
		t.Fatal(err)
	}
	if client.clears != 1 {
		t.Fatalf("expected one immediate clear, got %d", client.clears)
	}
	if f.State().Value != nil {
		t.Fatalf("displayed value should be nil, got %#v", f.State().Value)
	}
}

func TestPopupWidth(t *testing.T) {
	f := NewStringField()
	f.SetPopupWidth(250)
	if got := f.PopupWidth(); got != "250px" {
		t.Errorf("expected 250px, got %q", got)
	}
	f.SetPopupWidth(0)
	if got := f.PopupWidth(); got != "" {
		t.Errorf("expected auto width, got %q", got)
	}
}

func TestShortCut(t *testing.T) {
	f := NewStringField()
	if !f.ShortCut().Disabled() {
		t.Error("shortcut should start disabled")
	}
	f.SetShortCut('S', ModifierCtrl, ModifierShift)
	sc := f.ShortCut()
	if sc.Disabled() || sc.KeyCode != 'S' {
		t.Fatalf("unexpected shortcut %#v", sc)
	}
	if diff := cmp.Diff([]int{ModifierCtrl, ModifierShift}, sc.Modifiers); diff != "" {
		t.Errorf("modifiers (-want +got):\n%s", diff)
	}
	f.SetShortCut(KeyNone)
	if !f.ShortCut().Disabled() {
		t.Error("SetShortCut(KeyNone) should disable the shortcut")
	}
}

func TestFlushState(t *testing.T) {
	client := &recordingClient{}
	f := NewStringField()
	f.Attach(client)

	if !f.FlushState() {
		t.Fatal("attach should schedule a full sync")
	}
	if f.FlushState() {
		t.Fatal("second flush should be a no-op")
	}
	f.SetInputPrompt("Search fruit")
	f.SetDelay(150)
	f.FlushState()

	if len(client.states) != 2 {
		t.Fatalf("expected 2 syncs, got %d", len(client.states))
	}
	last := client.states[1]
	if last.InputPrompt != "Search fruit" || last.DelayMillis != 150 {
		t.Errorf("unexpected synced state %+v", last)
	}
}

func TestDefaults(t *testing.T) {
	f := NewStringField()
	if f.Delay() != 300 || f.MinimumQueryCharacters() != 1 || !f.TrimQuery() {
		t.Errorf("unexpected query defaults: %+v", f.State())
	}
	if !f.AcceptOnBlur() || !f.AcceptOnTab() || f.TokenMode() || f.NewItemsAllowed() {
		t.Errorf("unexpected accept defaults: %+v", f.State())
	}
	if f.PopupWidth() != "" || f.InputPrompt() != "" {
		t.Errorf("unexpected display defaults: %+v", f.State())
	}
}
