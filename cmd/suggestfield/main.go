/*
Package main runs a suggest field over msgpack IPC, or in a CLI for debugging.

The server mode owns one string field backed by a word list. A client process
(editor plugin, web bridge, terminal UI) writes events to stdin and reads
suggestion lists, clear commands and state updates from stdout. Logs go to
stderr.

# Usage

Serve a word list with default settings:

	suggestfield -words words.txt

Debug logging and token mode:

	suggestfield -words words.txt -d -token

Interactive testing without a client:

	suggestfield -words words.txt -c

The word list has one word per line, optionally followed by a TAB and a
frequency. Without frequencies, earlier lines rank higher.

# Configuration

Field defaults come from a TOML file (see package config). It is created
with builtin defaults the first time the server starts:

	[field]
	delay_millis = 300
	popup_width = 0
	token_mode = false

Command line flags override the file.

# Command Line Flags

	-config string
	    Path to a config file (default: user config dir)
	-words string
	    Word list served as suggestions
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-token
	    Forward accepted values as tokens instead of storing them
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/suggestfield/internal/cli"
	"github.com/bastiangx/suggestfield/internal/utils"
	"github.com/bastiangx/suggestfield/pkg/config"
	"github.com/bastiangx/suggestfield/pkg/server"
	"github.com/bastiangx/suggestfield/pkg/suggestfield"
	"github.com/bastiangx/suggestfield/pkg/wordlist"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "suggestfield"
	gh      = "https://github.com/bastiangx/suggestfield"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, word list and field, then hands over to the server
// or the CLI. It does not implement logic for them.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config file")
	wordsPath := flag.String("words", "", "Word list served as suggestions (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	tokenMode := flag.Bool("token", false, "Forward accepted values to the token log instead of storing them")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedPath))

	words := wordlist.New(appConfig.Server.MaxSuggestions, appConfig.Server.EnableFilter)
	source := appConfig.Words.Path
	if *wordsPath != "" {
		source = *wordsPath
	}
	if source != "" {
		if err := words.LoadFile(source, appConfig.Words.MaxWords); err != nil {
			log.Fatalf("Failed to load words: %v", err)
		}
	} else {
		log.Warn("No word list specified, running with empty list...")
	}

	field := suggestfield.NewStringField(
		suggestfield.WithSearchHandler[string](words),
		suggestfield.WithNewItemHandler[string](words),
	)
	appConfig.Field.Apply(field)
	if *tokenMode {
		field.SetTokenMode(true)
	}
	if field.TokenMode() {
		field.SetTokenHandler(suggestfield.TokenFunc[string](func(token string) error {
			log.Info("token accepted", "token", token)
			return nil
		}))
	}
	field.AddValueChangeListener(func(e suggestfield.ValueChangeEvent[string]) {
		log.Debug("value changed", "old", e.Old, "new", e.New, "set", e.HasNew)
	})

	if *cliMode {
		log.SetReportTimestamp(false)
		if err := cli.NewInputHandler(field).Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	showStartupInfo(source, words.Stats()["totalWords"])

	if err := server.New(field).Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ SuggestField ] Server-side suggestions for autocomplete inputs")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(words string, count int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("words: ( %s ) %s loaded", words, utils.FormatWithCommas(count))
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
