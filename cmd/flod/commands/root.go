// Package commands implements the flod CLI commands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flod-project/flod/pkg/flod/logging"
)

// Build-time variables injected via ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

var (
	cfgFile      string
	keyringDir   string
	manifestFile string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "flod",
	Short: "Assemble and disassemble FLOD packets",
	Long: `flod is the command-line client for the FLOD packet codec.

It assembles self-contained encrypted message packets and disassembles
them against a local keyring, without exposing any protocol detail to
the caller beyond the packet bytes and the recipient's key material.

Use "flod [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Exit prints an error to stderr.
func Exit(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.flod.yaml)")
	rootCmd.PersistentFlags().StringVar(&keyringDir, "keyring-dir", ".", "directory key files in the manifest are resolved against")
	rootCmd.PersistentFlags().StringVar(&manifestFile, "manifest", "keyring.yaml", "keyring manifest file, relative to --keyring-dir unless absolute")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")

	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(disassembleCmd)
	rootCmd.AddCommand(keygenCmd)
}

// initConfig wires flags > FLOD_* environment variables > config file >
// defaults, the same precedence dittofs's pkg/config.Load uses.
func initConfig() error {
	v := viper.New()
	v.SetEnvPrefix("FLOD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
			v.SetConfigName(".flod")
			v.SetConfigType("yaml")
			_ = v.ReadInConfig() // optional, absence is not an error
		}
	}

	for _, name := range []string{"keyring-dir", "manifest", "log-level"} {
		if err := v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}

	keyringDir = v.GetString("keyring-dir")
	manifestFile = v.GetString("manifest")
	logLevel = v.GetString("log-level")
	return nil
}

func newLogger() logging.Logger {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logging.New(slog.New(handler))
}
