// Package cli implements the emitline command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tOgg1/emitline/internal/config"
	"github.com/tOgg1/emitline/internal/db"
	"github.com/tOgg1/emitline/internal/events"
	"github.com/tOgg1/emitline/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	logFormat  string
	jsonOutput bool

	appConfig *config.Config
	version   = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "emitline [set]",
	Short: "Edit particle emission timelines",
	Long: `emitline lays the emissions of a set out on a time axis. Drag blocks to
reschedule them, pan and zoom the axis, and manage sets from the command line.

Running emitline with a set name opens it in the editor.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runEditor(cmd, args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/emitline/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	rootCmd.Version = version
	return rootCmd.Execute()
}

func initConfig(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = logFormat
	}

	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cmd.ErrOrStderr(),
		EnableCaller: cfg.Logging.EnableCaller,
	})
	logging.Logger.Debug().Str("config", loader.ConfigFileUsed()).Msg("configuration loaded")

	appConfig = cfg
	return nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// WriteOutput prints v as indented JSON.
func WriteOutput(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func openDatabase() (*db.DB, error) {
	cfg := GetConfig()
	database, err := db.Open(db.Config{
		Path:          cfg.DatabasePath(),
		BusyTimeoutMs: cfg.Database.BusyTimeoutMs,
		MaxRetries:    cfg.Database.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func contextStore() *config.ContextStore {
	return config.NewContextStore(filepath.Join(GetConfig().Global.ConfigDir, "context.yaml"))
}

// app bundles the stores a command works against. Edits published on its
// publisher are recorded in the set history.
type app struct {
	db        *db.DB
	sets      *db.SetRepository
	history   *db.EventRepository
	publisher *events.InMemoryPublisher
}

func openApp() (*app, error) {
	database, err := openDatabase()
	if err != nil {
		return nil, err
	}
	history := db.NewEventRepository(database)
	return &app{
		db:        database,
		sets:      db.NewSetRepository(database),
		history:   history,
		publisher: events.NewInMemoryPublisher(events.WithRepository(history, events.History())),
	}, nil
}

func (a *app) Close() error {
	a.publisher.Close()
	return a.db.Close()
}
