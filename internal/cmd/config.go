package cmd

import (
	"fmt"

	"github.com/dsmmcken/devport/internal/config"
	"github.com/dsmmcken/devport/internal/output"
	"github.com/spf13/cobra"
)

func addConfigCommands(parent *cobra.Command) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change discovery settings",
		Long: "Show every setting from config.toml, falling back to defaults for keys the file " +
			"does not set. Keys: " + fmt.Sprint(config.Keys()),
		Args: cobra.NoArgs,
		RunE: showConfig,
	}
	configCmd.AddCommand(newConfigGetCmd(), newConfigSetCmd(), newConfigPathCmd())
	parent.AddCommand(configCmd)
}

func showConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	}

	out := cmd.OutOrStdout()
	if !output.IsQuiet() {
		fmt.Fprintf(out, "# %s\n", config.ConfigPath())
	}
	w := output.NewTable(out)
	for _, key := range config.Keys() {
		val, err := config.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t= %s\n", key, val)
	}
	return w.Flush()
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <KEY>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := config.Get(args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.PrintJSON(cmd.OutOrStdout(), map[string]string{"key": args[0], "value": val})
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <KEY> <VALUE>",
		Short:   "Change one setting",
		Example: "  devport config set runtimes node,code\n  devport config set min_port 0",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := config.Set(key, value); err != nil {
				return err
			}
			logger.WithField("key", key).Debugf("wrote %s", config.ConfigPath())
			if !output.IsQuiet() {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			}
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
			return nil
		},
	}
}
