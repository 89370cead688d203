package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dsmmcken/devport/internal/discovery"
	"github.com/dsmmcken/devport/internal/output"
	"github.com/spf13/cobra"
)

func newKillCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "kill <PORT>",
		Short: "Stop a running dev server",
		Long:  "Stop every process listening on the specified port.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKill(cmd, args[0], all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Allow stopping listeners from any process")
	return cmd
}

func runKill(cmd *cobra.Command, arg string, all bool) error {
	port, err := discovery.ParsePort(arg)
	if err != nil {
		return err
	}

	opts, _, err := discoveryOptions(all, false)
	if err != nil {
		return err
	}
	pids, err := discovery.New(opts, nil).Kill(cmd.Context(), port)
	if err != nil {
		return err
	}

	if output.IsJSON() {
		return output.PrintJSON(cmd.OutOrStdout(), map[string]any{
			"status": "stopped",
			"port":   port,
			"pids":   pids,
		})
	}

	if !output.IsQuiet() {
		noun := "PID"
		if len(pids) > 1 {
			noun = "PIDs"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dev server on port %d stopped (%s %s).\n", port, noun, joinPIDs(pids))
	}
	return nil
}

func joinPIDs(pids []int) string {
	s := make([]string, len(pids))
	for i, pid := range pids {
		s[i] = strconv.Itoa(pid)
	}
	return strings.Join(s, ",")
}
