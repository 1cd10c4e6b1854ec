// Package commands implements the discardctl CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/voidfs/blockdiscard/internal/logger"
	"github.com/voidfs/blockdiscard/pkg/config"
	"github.com/voidfs/blockdiscard/pkg/metrics"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile  string
	logLevel string

	// cfg is the loaded configuration, available to all subcommands after
	// the persistent pre-run.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "discardctl",
	Short: "discardctl - storage range deallocation driver",
	Long: `discardctl frees the physical storage backing a byte range of a file or
block device without changing its logical size, using the host's native
discard primitive (block-device TRIM or filesystem hole punching).

It also ships a diagnostic probe that exercises the raw hole-punch
primitive standalone, for reproducing platform-specific misbehavior.

Use "discardctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		if err := logger.Init(logger.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		}); err != nil {
			return err
		}

		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
		}

		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
// Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(discardCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
