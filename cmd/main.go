// FILE: cmd/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lixenwraith/cfgtree"
)

// AppConfig declares the demo's settings; field values are the defaults
type AppConfig struct {
	Server struct {
		Host    string        `toml:"host" doc:"Interface to bind."`
		Port    int           `toml:"port" doc:"Port to listen on."`
		Timeout time.Duration `toml:"timeout" doc:"Request timeout."`
	} `toml:"server"`

	Log struct {
		Level string `toml:"level" doc:"Minimum log level."`
		Debug bool   `toml:"debug" doc:"Print the settings tree on startup." cfg:"ephemeral"`
	} `toml:"log"`
}

func main() {
	defaults := &AppConfig{}
	defaults.Server.Host = "localhost"
	defaults.Server.Port = 8080
	defaults.Server.Timeout = 30 * time.Second
	defaults.Log.Level = "info"

	root, err := cfgtree.NewBuilder().
		WithDefaults(defaults).
		WithEnvPrefix("DEMO_").
		WithSetting("log.format", cfgtree.Const("text"), "Log output format.",
			cfgtree.Choices("text", "json")).
		WithCLI(parseArgs(os.Args[1:])).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(root)
	slog.SetDefault(logger)

	var cfg AppConfig
	if err := root.Scan("", &cfg); err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	logger.Info("settings loaded",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"timeout", cfg.Server.Timeout,
	)
	for path, env := range root.DiscoverEnv() {
		logger.Debug("environment override", "setting", path, "env", env)
	}

	if debug, _ := root.Bool("log.debug"); debug {
		fmt.Print(root.Debug())
	}

	if _, err := root.SetDefault("server", "name", "demo"); err != nil {
		logger.Warn("setdefault failed", "error", err)
	}
	if err := root.Encode(os.Stdout, cfgtree.FormatTOML, cfgtree.DownloadOptions{}); err != nil {
		logger.Error("encode failed", "error", err)
		os.Exit(1)
	}
}

// parseArgs collects "--path=value" arguments into a flat map
func parseArgs(args []string) map[string]any {
	values := make(map[string]any)
	for _, arg := range args {
		kv, ok := strings.CutPrefix(arg, "--")
		if !ok {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			value = "True"
		}
		values[key] = value
	}
	return values
}

func newLogger(root *cfgtree.Section) *slog.Logger {
	level := slog.LevelInfo
	if s, err := root.String("log.level"); err == nil {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			level = slog.LevelInfo
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	if format, _ := root.String("log.format"); format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
