package cmd

import (
	"fmt"

	"github.com/dsmmcken/devport/internal/discovery"
	"github.com/dsmmcken/devport/internal/output"
	"github.com/spf13/cobra"
)

const listLabelWidth = 40

func newListCmd() *cobra.Command {
	var all, yamlOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List running dev servers",
		Long:  "Discover the dev servers listening on this machine and print them in ranked order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, all, yamlOut)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include listeners from every process")
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Output as YAML")
	return cmd
}

func runList(cmd *cobra.Command, all, yamlOut bool) error {
	opts, _, err := discoveryOptions(all, false)
	if err != nil {
		return err
	}
	cands, err := discovery.New(opts, nil).Candidates(cmd.Context())
	if err != nil {
		return err
	}
	if cands == nil {
		cands = []discovery.PortCandidate{}
	}

	switch {
	case output.IsJSON():
		return output.PrintJSON(cmd.OutOrStdout(), map[string]any{"candidates": cands})
	case yamlOut:
		return output.PrintYAML(cmd.OutOrStdout(), map[string]any{"candidates": cands})
	}

	if len(cands) == 0 {
		if !output.IsQuiet() {
			fmt.Fprintln(cmd.OutOrStdout(), "No running dev servers found.")
		}
		return nil
	}

	w := output.NewTable(cmd.OutOrStdout())
	fmt.Fprintln(w, "PORT\tNAME\tPIDS")
	for _, c := range cands {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.Port, output.Truncate(c.Label, listLabelWidth), joinPIDs(c.PIDs()))
	}
	return w.Flush()
}
