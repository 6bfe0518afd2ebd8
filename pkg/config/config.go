/*
Package config manages the TOML config of a suggestfield server.

The file has three sections:

	[field]
	delay_millis = 300
	min_query_chars = 1
	trim_query = true
	popup_width = 0
	input_prompt = ""
	token_mode = false
	accept_on_blur = true
	accept_on_tab = true
	allow_new_items = false
	shortcut_key = -1
	shortcut_modifiers = []

	[server]
	max_suggestions = 20
	enable_filter = true

	[words]
	path = ""
	max_words = 50000

Missing keys keep their defaults. A file that does not match the schema is
salvaged section by section.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/suggestfield/internal/utils"
	"github.com/charmbracelet/log"
)

// AppDirName names the config directory.
const AppDirName = "suggestfield"

// Config holds the entire config structure
type Config struct {
	Field  FieldConfig  `toml:"field"`
	Server ServerConfig `toml:"server"`
	Words  WordsConfig  `toml:"words"`
}

// FieldConfig holds the initial field configuration.
type FieldConfig struct {
	DelayMillis       int    `toml:"delay_millis"`
	MinQueryChars     int    `toml:"min_query_chars"`
	TrimQuery         bool   `toml:"trim_query"`
	PopupWidth        int    `toml:"popup_width"`
	InputPrompt       string `toml:"input_prompt"`
	TokenMode         bool   `toml:"token_mode"`
	AcceptOnBlur      bool   `toml:"accept_on_blur"`
	AcceptOnTab       bool   `toml:"accept_on_tab"`
	AllowNewItems     bool   `toml:"allow_new_items"`
	ShortcutKey       int    `toml:"shortcut_key"`
	ShortcutModifiers []int  `toml:"shortcut_modifiers"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxSuggestions int  `toml:"max_suggestions"`
	EnableFilter   bool `toml:"enable_filter"`
}

// WordsConfig points at the word list served by the demo search handler.
type WordsConfig struct {
	Path     string `toml:"path"`
	MaxWords int    `toml:"max_words"`
}

// FieldSetter is the configuration surface of a suggest field.
type FieldSetter interface {
	SetDelay(millis int)
	SetMinimumQueryCharacters(n int)
	SetTrimQuery(trim bool)
	SetPopupWidth(width int)
	SetInputPrompt(prompt string)
	SetTokenMode(on bool)
	SetAcceptOnBlur(accept bool)
	SetAcceptOnTab(accept bool)
	SetNewItemsAllowed(allow bool)
	SetShortCut(keyCode int, modifiers ...int)
}

// Apply configures field through its setters.
func (fc FieldConfig) Apply(field FieldSetter) {
	field.SetDelay(fc.DelayMillis)
	field.SetMinimumQueryCharacters(fc.MinQueryChars)
	field.SetTrimQuery(fc.TrimQuery)
	field.SetPopupWidth(fc.PopupWidth)
	field.SetInputPrompt(fc.InputPrompt)
	field.SetTokenMode(fc.TokenMode)
	field.SetAcceptOnBlur(fc.AcceptOnBlur)
	field.SetAcceptOnTab(fc.AcceptOnTab)
	field.SetNewItemsAllowed(fc.AllowNewItems)
	field.SetShortCut(fc.ShortcutKey, fc.ShortcutModifiers...)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Field: FieldConfig{
			DelayMillis:       300,
			MinQueryChars:     1,
			TrimQuery:         true,
			AcceptOnBlur:      true,
			AcceptOnTab:       true,
			ShortcutKey:       -1,
			ShortcutModifiers: []int{},
		},
		Server: ServerConfig{
			MaxSuggestions: 20,
			EnableFilter:   true,
		},
		Words: WordsConfig{
			MaxWords: 50000,
		},
	}
}

// GetConfigDir returns the directory holding config.toml; see
// utils.ResolveConfigDir for the lookup order.
func GetConfigDir() (string, error) {
	return utils.ResolveConfigDir(AppDirName)
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path: [UserConfigDir]/suggestfield/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed key of a damaged file.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "field"); ok {
		extractFieldConfig(section, &config.Field)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "words"); ok {
		extractWordsConfig(section, &config.Words)
	}
	return config, nil
}

func extractFieldConfig(data map[string]any, field *FieldConfig) {
	if val, ok := utils.ExtractInt64(data, "delay_millis"); ok {
		field.DelayMillis = val
	}
	if val, ok := utils.ExtractInt64(data, "min_query_chars"); ok {
		field.MinQueryChars = val
	}
	if val, ok := utils.ExtractBool(data, "trim_query"); ok {
		field.TrimQuery = val
	}
	if val, ok := utils.ExtractInt64(data, "popup_width"); ok {
		field.PopupWidth = val
	}
	if val, ok := utils.ExtractString(data, "input_prompt"); ok {
		field.InputPrompt = val
	}
	if val, ok := utils.ExtractBool(data, "token_mode"); ok {
		field.TokenMode = val
	}
	if val, ok := utils.ExtractBool(data, "accept_on_blur"); ok {
		field.AcceptOnBlur = val
	}
	if val, ok := utils.ExtractBool(data, "accept_on_tab"); ok {
		field.AcceptOnTab = val
	}
	if val, ok := utils.ExtractBool(data, "allow_new_items"); ok {
		field.AllowNewItems = val
	}
	if val, ok := utils.ExtractInt64(data, "shortcut_key"); ok {
		field.ShortcutKey = val
	}
	if val, ok := utils.ExtractIntSlice(data, "shortcut_modifiers"); ok {
		field.ShortcutModifiers = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		server.MaxSuggestions = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
}

func extractWordsConfig(data map[string]any, words *WordsConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		words.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		words.MaxWords = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
