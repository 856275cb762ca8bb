// Package cli implements the ergosanitas command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ergosanitas/internal/config"
	"ergosanitas/internal/wire"
)

// Loader reads the runtime configuration.
type Loader func() (config.Config, error)

type state struct {
	load Loader
	cfg  config.Config
}

// RootCmd returns the top-level command. load defaults to config.Load.
func RootCmd(version string, load Loader) *cobra.Command {
	if load == nil {
		load = config.Load
	}
	st := &state{load: load}

	root := &cobra.Command{
		Use:     "ergosanitas",
		Short:   "Ergo SaniTas - shared state for the sports-medicine emergency panels",
		Version: version,
		Long: `ergosanitas serves the coordination panels (dashboard, brigada, enfermeria,
liga, admin) and offers maintenance commands over the same storage backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.load()
			if err != nil {
				return err
			}
			st.cfg = cfg
			slog.SetDefault(NewLogger(cmd.ErrOrStderr(), cfg))
			return nil
		},
	}

	root.AddCommand(ServeCmd(st, version))
	root.AddCommand(InfoCmd(st))
	root.AddCommand(StatsCmd(st))
	root.AddCommand(ClearDataCmd(st))
	root.AddCommand(UsersCmd(st))
	root.AddCommand(AlertCmd(st))
	return root
}

// NewLogger builds the process logger: JSON in production, text elsewhere.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// withRuntime builds the runtime for one command and closes it afterwards.
func (st *state) withRuntime(ctx context.Context, fn func(ctx context.Context, rt *wire.Runtime) error) error {
	rt, err := wire.Build(ctx, st.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			slog.Warn("cli_event", "event", "close_failed", "error", err)
		}
	}()
	return fn(ctx, rt)
}

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	badMark  = color.New(color.FgRed).SprintFunc()
	bold     = color.New(color.Bold).SprintFunc()
)

func printf(cmd *cobra.Command, format string, args ...any) {
	printfTo(cmd.OutOrStdout(), format, args...)
}

func printfTo(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// Execute runs the root command and exits non-zero on error.
func Execute(version string) {
	if err := RootCmd(version, nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, badMark("error:"), err)
		os.Exit(1)
	}
}
