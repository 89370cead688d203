package cmd

import (
	"fmt"

	"github.com/dsmmcken/devport/internal/discovery"
	"github.com/dsmmcken/devport/internal/output"
	"github.com/spf13/cobra"
)

func addValidateCommand(parent *cobra.Command) {
	parent.AddCommand(&cobra.Command{
		Use:   "validate <PORT>",
		Short: "Check a port number",
		Long:  "Check that PORT is a whole number between 1 and 65535, the same rule manual entry uses.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := discovery.ParsePort(args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.PrintJSON(cmd.OutOrStdout(), map[string]any{"port": port, "valid": true})
			}
			if !output.IsQuiet() {
				fmt.Fprintf(cmd.OutOrStdout(), "Port %d is valid.\n", port)
			}
			return nil
		},
	})
}
