package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voidfs/blockdiscard/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and generate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after merging defaults, the config file, and
environment overrides. The output is valid input for --config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Dump(cfg)
		if err != nil {
			return err
		}
		cmd.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a default configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := config.Save(config.GetDefaultConfig(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
