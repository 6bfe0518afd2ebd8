package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/suggestfield/pkg/suggestfield"
	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsMatchFieldDefaults(t *testing.T) {
	field := suggestfield.NewStringField()
	want := field.State()

	DefaultConfig().Field.Apply(field)
	if diff := cmp.Diff(want, field.State()); diff != "" {
		t.Errorf("default config drifted from field defaults (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, `
[field]
delay_millis = 150
popup_width = 320
input_prompt = "Pick a fruit"
token_mode = true
shortcut_key = 83
shortcut_modifiers = [17]

[server]
max_suggestions = 5
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Field.DelayMillis != 150 || cfg.Field.PopupWidth != 320 || !cfg.Field.TokenMode {
		t.Errorf("unexpected field config %+v", cfg.Field)
	}
	if !cfg.Field.AcceptOnBlur || cfg.Server.MaxSuggestions != 5 || !cfg.Server.EnableFilter {
		t.Errorf("missing keys should keep defaults: %+v", cfg)
	}

	field := suggestfield.NewStringField()
	cfg.Field.Apply(field)
	if field.PopupWidth() != "320px" || field.InputPrompt() != "Pick a fruit" {
		t.Errorf("apply: %+v", field.State())
	}
	if sc := field.ShortCut(); sc.KeyCode != 83 || len(sc.Modifiers) != 1 || sc.Modifiers[0] != suggestfield.ModifierCtrl {
		t.Errorf("apply shortcut: %+v", sc)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// delay_millis has the wrong type; the rest must survive
	path := writeFile(t, `
[field]
delay_millis = "fast"
min_query_chars = 3

[words]
path = "/tmp/words.txt"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Field.DelayMillis != 300 {
		t.Errorf("bad key should fall back to default, got %d", cfg.Field.DelayMillis)
	}
	if cfg.Field.MinQueryChars != 3 || cfg.Words.Path != "/tmp/words.txt" {
		t.Errorf("valid keys lost: %+v", cfg)
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, reloaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("saved config differs (-want +got):\n%s", diff)
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeFile(t, "[server]\nmax_suggestions = 7\n")
	cfg, used, err := LoadConfigWithPriority(path)
	if err != nil {
		t.Fatal(err)
	}
	if used != path || cfg.Server.MaxSuggestions != 7 {
		t.Errorf("got %s / %+v", used, cfg.Server)
	}
}
