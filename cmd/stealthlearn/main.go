// Package main provides the CLI entrypoint for stealthlearn.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/stealthlearn/internal/adaptivity"
	"github.com/verte-zerg/stealthlearn/internal/analytics"
	"github.com/verte-zerg/stealthlearn/internal/config"
	"github.com/verte-zerg/stealthlearn/internal/engine"
	"github.com/verte-zerg/stealthlearn/internal/generator"
	"github.com/verte-zerg/stealthlearn/internal/logger"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/sound"
	"github.com/verte-zerg/stealthlearn/internal/tui"
)

const (
	backendSQLite = "sqlite"
	backendFile   = "file"
	backendMemory = "memory"
)

const (
	defaultBackend  = backendSQLite
	defaultLogLevel = "info"
	defaultSound    = true
)

var (
	flagBackend  string
	flagDataDir  string
	flagLogLevel string

	playSound   bool
	playPromote float64
	playDemote  float64
	playMin     int
	playMax     int
	playWindow  int
)

func main() {
	if err := config.LoadEnv(); err != nil {
		logErrf("failed to load .env: %v\n", err)
	}
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rules := adaptivity.DefaultRules()
	rootCmd := &cobra.Command{
		Use:           "stealthlearn",
		Short:         "Terminal mini-games for math, english and science",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", defaultBackend, "storage backend: sqlite, file or memory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: XDG data home)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")

	rootCmd.Flags().BoolVar(&playSound, "sound", defaultSound, "ring the terminal bell for feedback")
	rootCmd.Flags().Float64Var(&playPromote, "promote-threshold", rules.PromoteThreshold, "mean score that raises the level")
	rootCmd.Flags().Float64Var(&playDemote, "demote-threshold", rules.DemoteThreshold, "mean score that lowers the level")
	rootCmd.Flags().IntVar(&playMin, "min-level", rules.MinLevel, "lowest difficulty level")
	rootCmd.Flags().IntVar(&playMax, "max-level", rules.MaxLevel, "highest difficulty level")
	rootCmd.Flags().IntVar(&playWindow, "window", adaptivity.DefaultWindow, "recent sessions per game used for adaptation")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// loadConfig merges defaults, the config file, env and flags, in that order.
func loadConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "backend", &flagBackend, fileCfg.Storage.Backend)
	applyStringConfig(cmd, "data-dir", &flagDataDir, fileCfg.Storage.DataDir)
	applyStringConfig(cmd, "log-level", &flagLogLevel, fileCfg.Log.Level)
	applyBoolConfig(cmd, "sound", &playSound, fileCfg.Sound.Enabled)
	applyFloatConfig(cmd, "promote-threshold", &playPromote, fileCfg.Adaptivity.PromoteThreshold)
	applyFloatConfig(cmd, "demote-threshold", &playDemote, fileCfg.Adaptivity.DemoteThreshold)
	applyIntConfig(cmd, "min-level", &playMin, fileCfg.Adaptivity.MinLevel)
	applyIntConfig(cmd, "max-level", &playMax, fileCfg.Adaptivity.MaxLevel)
	applyIntConfig(cmd, "window", &playWindow, fileCfg.Adaptivity.Window)

	if v := strings.TrimSpace(os.Getenv(config.EnvLogLevel)); v != "" && !cmd.Flags().Changed("log-level") {
		flagLogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(config.EnvDataDir)); v != "" && !cmd.Flags().Changed("data-dir") {
		flagDataDir = v
	}
	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	cfg := model.Config{
		Backend:          strings.ToLower(strings.TrimSpace(flagBackend)),
		DataDir:          dataDir,
		Sound:            playSound,
		LogLevel:         strings.ToLower(strings.TrimSpace(flagLogLevel)),
		PromoteThreshold: playPromote,
		DemoteThreshold:  playDemote,
		MinLevel:         playMin,
		MaxLevel:         playMax,
		Window:           playWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func rulesFromConfig(cfg model.Config) adaptivity.Rules {
	return adaptivity.Rules{
		PromoteThreshold: cfg.PromoteThreshold,
		DemoteThreshold:  cfg.DemoteThreshold,
		MinLevel:         cfg.MinLevel,
		MaxLevel:         cfg.MaxLevel,
	}
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := openLogFile(config.LogPath(cfg.DataDir))
	if err != nil {
		return err
	}
	defer func() {
		// Best-effort close.
		_ = logFile.Close()
	}()
	log := logger.New(logger.WithOutput(logFile), logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	ctx := logger.NewContext(commandContext(cmd), log)

	var controller *engine.Controller
	svc, err := openServices(ctx, cfg, analytics.OnRecord(func(rec model.SessionRecord) {
		controller.Emit(engine.EventSessionRecorded, rec)
	}))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logErrf("failed to close storage: %v\n", cerr)
		}
	}()

	var player sound.Player = sound.Silent{}
	if cfg.Sound {
		player = sound.NewBell(os.Stderr)
	}
	userID := engine.LoadOrCreateUserID(svc.userSlot, log)
	controller = engine.New(userID,
		engine.WithLogger(log),
		engine.WithSoundPlayer(player),
		engine.WithGameKeys(model.GameKeys()),
	)
	tui.RegisterViews(controller, &tui.Services{
		Ledger:   svc.ledger,
		Adaptor:  adaptivity.New(rulesFromConfig(cfg)),
		Window:   cfg.Window,
		Gen:      generator.New(),
		LastGame: svc.lastGameSlot,
	})
	log.WithField("backend", cfg.Backend).Info("starting session for %s", userID)

	program := tea.NewProgram(tui.NewApp(controller, svc.ledger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	rules := adaptivity.DefaultRules()
	return fmt.Sprintf(`# stealthlearn configuration
# Uncomment a value to enable it. CLI flags override config values.

[adaptivity]
# promote-threshold = %.0f   # Mean score that raises the level
# demote-threshold = %.0f    # Mean score that lowers the level
# min-level = %d             # Lowest difficulty level
# max-level = %d             # Highest difficulty level
# window = %d                # Recent sessions per game used for adaptation

[storage]
# backend = %q         # sqlite, file or memory
# data-dir = ""             # Defaults to $XDG_DATA_HOME/stealthlearn

[sound]
# enabled = %t              # Ring the terminal bell for feedback

[log]
# level = %q              # debug, info, warn, error
`,
		rules.PromoteThreshold,
		rules.DemoteThreshold,
		rules.MinLevel,
		rules.MaxLevel,
		adaptivity.DefaultWindow,
		defaultBackend,
		defaultSound,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	switch cfg.Backend {
	case backendSQLite, backendFile, backendMemory:
	default:
		return fmt.Errorf("--backend must be one of sqlite, file, memory")
	}
	if !logger.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("--log-level must be one of debug, info, warn, error")
	}
	if cfg.Window <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if cfg.MinLevel < model.MinDifficulty || cfg.MaxLevel > model.MaxDifficulty {
		return fmt.Errorf("levels must stay within %d..%d", model.MinDifficulty, model.MaxDifficulty)
	}
	if err := rulesFromConfig(cfg).Validate(); err != nil {
		return fmt.Errorf("invalid adaptivity settings: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
