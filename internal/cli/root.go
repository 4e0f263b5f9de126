// Package cli implements the scratchpad command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/hook"
	"github.com/armatrix/agent-scratchpad/internal/config"
	"github.com/armatrix/agent-scratchpad/internal/logging"
	"github.com/armatrix/agent-scratchpad/internal/metrics"
	"github.com/armatrix/agent-scratchpad/mcp"
	"github.com/armatrix/agent-scratchpad/session"
	"github.com/armatrix/agent-scratchpad/tools"
)

// BuildInfo is the version metadata injected at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// Execute is the main entry point called from main.go.
func Execute(info BuildInfo) {
	if err := NewRootCommand(info).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "scratchpad",
		Short: "Per-session scratchpad and todo list for tool-calling agents",
		Long: "scratchpad keeps ephemeral working memory (a scratchpad and a todo list) per session\n" +
			"and exposes it to agents as MCP tools over stdio.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "settings file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (json, console)")

	rootCmd.AddCommand(newServeCmd(flags, info))
	rootCmd.AddCommand(newToolsCmd(flags))
	rootCmd.AddCommand(newVersionCmd(info))

	return rootCmd
}

// loadSettings merges default paths, the explicit --config file, env vars
// and log flags, in that order of precedence.
func loadSettings(flags *rootFlags) (*config.Settings, error) {
	cwd, _ := os.Getwd()
	paths := config.DefaultSettingsPaths(cwd)
	if flags.configPath != "" {
		if _, err := os.Stat(flags.configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		paths = append(paths, flags.configPath)
	}

	settings, err := config.LoadSettings(paths...)
	if err != nil {
		return nil, err
	}
	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		settings.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		settings.LogFormat = flags.logFormat
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// app is the wired object graph behind serve and tools.
type app struct {
	store    *session.MemoryStore
	registry *scratchpad.ToolRegistry
	server   *mcp.Server
	metrics  *metrics.Collector
}

func newApp(settings *config.Settings, logger zerolog.Logger, version string) (*app, error) {
	storeOpts, err := settings.StoreOptions()
	if err != nil {
		return nil, err
	}
	defaultFormat, err := settings.Format()
	if err != nil {
		return nil, err
	}

	checker, err := settings.Permission()
	if err != nil {
		return nil, err
	}

	store := session.NewMemoryStore(append(storeOpts, session.WithLogger(logger))...)
	collector := metrics.New(store.Count)
	if err := store.SetHooks(collector.StoreHooks()); err != nil {
		_ = store.Close()
		return nil, err
	}

	registry := scratchpad.NewToolRegistry(scratchpad.WithToolLogger(logger))
	toolHooks := append([]hook.Matcher{checker.Matcher()}, collector.ToolHooks()...)
	if err := registry.SetHooks(toolHooks); err != nil {
		_ = store.Close()
		return nil, err
	}
	tools.RegisterAll(registry, store, tools.Options{DefaultFormat: defaultFormat})

	srv, err := mcp.NewServer("scratchpad", version, registry, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &app{store: store, registry: registry, server: srv, metrics: collector}, nil
}

func newLogger(cmd *cobra.Command, settings *config.Settings) zerolog.Logger {
	return logging.New(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
}
