package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/dsmmcken/devport/internal/config"
	"github.com/dsmmcken/devport/internal/discovery"
	"github.com/dsmmcken/devport/internal/exec"
	"github.com/dsmmcken/devport/internal/netaddr"
	"github.com/dsmmcken/devport/internal/output"
	"github.com/dsmmcken/devport/internal/platform"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var Version = "dev"

var (
	jsonFlag    bool
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool
	ConfigDir   string
)

// Host seams, replaced in tests.
var (
	hostPlatform    = platform.Detect()
	newRunner       = func() exec.Runner { return exec.NewOSRunner() }
	localAddress    = netaddr.LocalIPv4
	copyToClipboard = clipboard.WriteAll
)

// logger is rebuilt from the persistent flags before every command runs.
var logger = log.New()

func NewRootCmd() *cobra.Command {
	cmd := newRootCmd()
	addQRCommand(cmd)
	addDiscoveryCommands(cmd)
	addValidateCommand(cmd)
	addConfigCommands(cmd)
	return cmd
}

func newRootCmd() *cobra.Command {
	opts := &qrOptions{}
	rootCmd := &cobra.Command{
		Use:   "devport [PORT]",
		Short: "Share a local dev server with your phone",
		Long: "devport finds the dev servers listening on this machine, lets you pick one, " +
			"and prints its LAN URL as a QR code.",
		Version:       fmt.Sprintf("devport v%s", Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verboseFlag && quietFlag {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			output.SetFlags(jsonFlag, quietFlag, verboseFlag)
			if noColorFlag {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			logger = newLogger(cmd.ErrOrStderr())
			config.SetConfigDir(ConfigDir)
			return nil
		},
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQR(cmd, args, opts)
		},
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	addQRFlags(rootCmd, opts)

	pflags := rootCmd.PersistentFlags()
	pflags.BoolVarP(&jsonFlag, "json", "j", false, "Output as JSON")
	pflags.BoolVarP(&verboseFlag, "verbose", "v", false, "Extra detail to stderr")
	pflags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	pflags.BoolVar(&noColorFlag, "no-color", false, "Disable ANSI colors")
	pflags.StringVar(&ConfigDir, "config-dir", "", "Override config directory (default: ~/.devport)")

	// Environment variable bindings
	if v := os.Getenv("DEVPORT_HOME"); v != "" && ConfigDir == "" {
		ConfigDir = v
	}
	if os.Getenv("NO_COLOR") != "" {
		noColorFlag = true
	}
	if os.Getenv("DEVPORT_JSON") == "1" {
		jsonFlag = true
	}

	return rootCmd
}

// newLogger builds the diagnostic logger for the current flags. Diagnostics
// always go to stderr so stdout stays parseable.
func newLogger(w io.Writer) *log.Logger {
	l := log.New()
	l.SetOutput(w)
	switch {
	case verboseFlag:
		l.SetLevel(log.DebugLevel)
	case quietFlag:
		l.SetLevel(log.ErrorLevel)
	default:
		l.SetLevel(log.WarnLevel)
	}
	if jsonFlag {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{DisableColors: noColorFlag, DisableTimestamp: true})
	}
	return l
}

// discoveryOptions merges the config file with per-invocation flags.
func discoveryOptions(all, yes bool) (discovery.Options, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return discovery.Options{}, nil, err
	}
	opts := cfg.Discovery(hostPlatform)
	opts.Runner = newRunner()
	opts.Log = logger
	opts.AllProcesses = all
	opts.AutoConfirm = yes
	return opts, cfg, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var notFound *discovery.NotFoundError
	switch {
	case err == nil:
		return output.ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return output.ExitTimeout
	case discovery.IsCancelled(err):
		return output.ExitCancelled
	case errors.As(err, &notFound):
		return output.ExitNotFound
	default:
		return output.ExitError
	}
}

func errorCode(err error) string {
	var notFound *discovery.NotFoundError
	switch {
	case errors.Is(err, discovery.ErrInvalidPort):
		return "invalid_port"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case discovery.IsCancelled(err):
		return "cancelled"
	case errors.As(err, &notFound):
		return "server_not_found"
	default:
		return "error"
	}
}

func reportError(w io.Writer, err error) {
	if output.IsJSON() {
		_ = output.PrintError(w, errorCode(err), err.Error())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
