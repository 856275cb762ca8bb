package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/wire"
)

// AlertCmd returns the alert command
func AlertCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Inspect or clear the current emergency alert",
	}
	cmd.AddCommand(alertShowCmd(st))
	cmd.AddCommand(alertClearCmd(st))
	return cmd
}

func levelMark(l alert.Level) string {
	switch l {
	case alert.LevelGrave:
		return badMark(string(l))
	case alert.LevelModerada:
		return warnMark(string(l))
	default:
		return okMark(string(l))
	}
}

func alertShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current alert (expired alerts are cleared)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withRuntime(cmd.Context(), func(ctx context.Context, rt *wire.Runtime) error {
				a := rt.Module.GetAlert(ctx)
				if a == nil {
					printf(cmd, "No active alert\n")
					return nil
				}
				printf(cmd, "%s [%s] %s en %s\n", bold(a.ID), levelMark(a.Level), a.Type, a.Location)
				printf(cmd, "  priority: %s\n  activated by: %s\n  elapsed: %s\n", a.Priority, a.ActivatedBy, rt.Module.FormatElapsed(a.Timestamp))
				if a.Arrived {
					printf(cmd, "  %s\n", okMark("brigade on site"))
				} else if a.HealthStaffEnRoute {
					printf(cmd, "  %s\n", warnMark("health staff en route"))
				}
				return nil
			})
		},
	}
}

func alertClearCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the current alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withRuntime(cmd.Context(), func(ctx context.Context, rt *wire.Runtime) error {
				if err := rt.Module.ClearAlert(ctx); err != nil {
					return err
				}
				printf(cmd, "%s\n", okMark("alert cleared"))
				return nil
			})
		},
	}
}

// ClearDataCmd returns the clear-data command
func ClearDataCmd(st *state) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-data",
		Short: "Remove every stored document (alert, status, history, roster, statistics, users)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear data without --yes")
			}
			return st.withRuntime(cmd.Context(), func(ctx context.Context, rt *wire.Runtime) error {
				before := rt.Module.StorageUsage(ctx)
				if err := rt.Module.ClearAllData(ctx); err != nil {
					return err
				}
				printf(cmd, "%s (%s freed); open panels must reload\n", warnMark("all data cleared"), before.Formatted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}
