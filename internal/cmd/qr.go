package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dsmmcken/devport/internal/discovery"
	"github.com/dsmmcken/devport/internal/netaddr"
	"github.com/dsmmcken/devport/internal/output"
	"github.com/dsmmcken/devport/internal/qr"
	"github.com/dsmmcken/devport/internal/tui"
	"github.com/spf13/cobra"
)

type qrOptions struct {
	yes     bool
	all     bool
	host    string
	timeout time.Duration
	copy    bool
	noQR    bool
}

func addQRFlags(cmd *cobra.Command, opts *qrOptions) {
	flags := cmd.Flags()
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Use the best candidate without prompting")
	flags.BoolVar(&opts.all, "all", false, "Offer listeners from every process, not just the configured runtimes")
	flags.StringVar(&opts.host, "host", "", "Host to put in the URL (default: LAN IPv4 address)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Give up after this long (0 disables)")
	flags.BoolVar(&opts.copy, "copy", false, "Copy the URL to the clipboard")
	flags.BoolVar(&opts.noQR, "no-qr", false, "Print the URL without a QR code")
}

func addQRCommand(parent *cobra.Command) {
	opts := &qrOptions{}
	qrCmd := &cobra.Command{
		Use:   "qr [PORT]",
		Short: "Show the LAN URL and QR code for a dev server",
		Long: "Discover running dev servers (or use PORT), then print the URL other devices " +
			"on the network can use, with a QR code for phones.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQR(cmd, args, opts)
		},
	}
	addQRFlags(qrCmd, opts)
	parent.AddCommand(qrCmd)
}

func runQR(cmd *cobra.Command, args []string, opts *qrOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	dopts, cfg, err := discoveryOptions(opts.all, opts.yes)
	if err != nil {
		return err
	}

	var port int
	if len(args) == 1 {
		if port, err = discovery.ParsePort(args[0]); err != nil {
			return err
		}
	} else {
		res := discovery.New(dopts, newPrompter(cmd)).Run(ctx)
		if res.State == discovery.StateCancelled {
			if err := ctx.Err(); err != nil {
				return err
			}
			return context.Canceled
		}
		if !res.OK() {
			if !output.IsQuiet() && !output.IsJSON() {
				fmt.Fprintln(cmd.ErrOrStderr(), "No port selected.")
			}
			return nil
		}
		port, _ = strconv.Atoi(res.Port)
	}

	host := opts.host
	if host == "" {
		host = cfg.Host
	}
	if host == "" {
		host = localAddress()
	}
	url := netaddr.URL(cfg.Scheme, host, port)
	logger.WithField("port", port).Debugf("sharing %s", url)

	copied := false
	if opts.copy {
		if err := copyToClipboard(url); err != nil {
			logger.WithError(err).Warn("could not copy URL to clipboard")
		} else {
			copied = true
		}
	}

	if output.IsJSON() {
		return output.PrintJSON(cmd.OutOrStdout(), map[string]any{
			"url":    url,
			"host":   host,
			"port":   port,
			"copied": copied,
		})
	}

	out := cmd.OutOrStdout()
	if !opts.noQR {
		if err := qr.Render(out, url); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, url)
	if copied && !output.IsQuiet() {
		fmt.Fprintln(cmd.ErrOrStderr(), tui.StyleNotice.Render("Copied URL to clipboard."))
	}
	return nil
}

// newPrompter draws prompts on stderr, keeping stdout for the URL. Piped
// input gets line prompts.
func newPrompter(cmd *cobra.Command) discovery.Prompter {
	if isTerminal(cmd.InOrStdin()) {
		return tui.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	return tui.NewLinePrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
}
