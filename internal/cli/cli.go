package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"decant.audio/internal/config"
	"decant.audio/internal/fs"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

const Version = "1.2.0"

// CLI represents the command-line interface
type CLI struct {
	rootCmd       *cobra.Command
	configManager *config.ConfigManager
	fsFactory     fs.Factory
}

// NewCLI creates a new CLI instance
func NewCLI() *CLI {
	slog.Debug("creating new CLI instance")

	cli := &CLI{
		configManager: config.NewConfigManager(),
		fsFactory:     fs.NewDefaultFactory(),
	}

	rootCmd := &cobra.Command{
		Use:   "decant",
		Short: "Audio decoding toolkit",
		Long:  "Decant decodes WAV, Ogg Vorbis, MP3, FLAC, AIFF and raw PCM sources into a normalized 32-bit float sample stream.",
	}

	rootCmd.AddCommand(newInfoCommand(cli))
	rootCmd.AddCommand(newDumpCommand(cli))
	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newVersionCommand(cli))

	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if version, _ := cmd.Flags().GetBool("version"); version {
			cli.printVersion(cmd.OutOrStdout())
			return nil
		}
		return cmd.Help()
	}

	cli.rootCmd = rootCmd
	return cli
}

// Run executes the CLI with the given arguments and I/O streams
func (c *CLI) Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	slog.Debug("CLI run started", "args", args)

	// Version requests bypass config loading entirely
	if len(args) > 1 && (args[1] == "--version" || args[1] == "-v") {
		c.printVersion(stdout)
		return 0
	}

	c.rootCmd.SetArgs(args[1:]) // Skip program name
	c.rootCmd.SetIn(stdin)
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)

	if err := c.rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		return 1
	}

	return 0
}

// printVersion prints version information
func (c *CLI) printVersion(w io.Writer) {
	fmt.Fprintf(w, "decant version %s\nAudio decoding toolkit - normalized float sample streams\n", Version)
}

// loadConfig loads configuration from flags and files and applies overrides
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	logLevelFlag, _ := cmd.Flags().GetString("log-level")

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = c.configManager.LoadFromFile(configFile)
		if err != nil {
			// If config file doesn't exist, use defaults
			slog.Warn("config file not found, using defaults", "file", configFile, "error", err)
			cfg = c.configManager.GetDefaultConfig()
		}
	} else {
		cfg, err = c.configManager.LoadConfig()
		if err != nil {
			cmd.PrintErrf("Error loading config: %v\n", err)
			slog.Error("config load failed", "error", err)
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	// Apply environment overrides
	cfg = c.configManager.ApplyEnvironmentOverrides(cfg)

	// Apply command line overrides
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
		slog.Debug("log level override applied", "value", logLevelFlag)
	}

	err = c.configManager.ValidateConfig(cfg)
	if err != nil {
		cmd.PrintErrf("Error: invalid configuration: %v\n", err)
		slog.Error("config validation failed", "error", err)
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupLogging configures slog with file logging when enabled.
// The stderr handler honors the configured level; the rotating file
// handler, when enabled, always records at debug.
func (c *CLI) setupLogging(cfg *config.Config, stderrWriter io.Writer) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo // Default level if parsing fails
	}

	stderrHandler := slog.NewTextHandler(stderrWriter, &slog.HandlerOptions{
		Level: level,
	})

	handlers := []slog.Handler{stderrHandler}

	if cfg.FileLogging != nil && cfg.FileLogging.Enabled {
		logFilePath := c.configManager.ResolveLogFilePath(cfg.FileLogging.Filename)

		logDir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			slog.Error("failed to create log directory", "path", logDir, "error", err)
			// Continue without file logging rather than failing
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   logFilePath,
				MaxSize:    cfg.FileLogging.MaxSizeMB,
				MaxBackups: cfg.FileLogging.MaxBackups,
				MaxAge:     cfg.FileLogging.MaxAgeDays,
				Compress:   cfg.FileLogging.Compress,
			}
			fileHandler := slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})
			handlers = append(handlers, fileHandler)
			slog.Debug("file logging enabled", "path", logFilePath)
		}
	}

	slog.SetDefault(slog.New(NewMultiLevelHandler(handlers...)))

	slog.Debug("logging setup completed",
		"level", level.String(),
		"handlers", len(handlers),
		"file_enabled", cfg.FileLogging != nil && cfg.FileLogging.Enabled)
}

// configureFromCommand loads config and applies logging for a subcommand run
func (c *CLI) configureFromCommand(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	c.setupLogging(cfg, cmd.ErrOrStderr())
	return cfg, nil
}
