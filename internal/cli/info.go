package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/wire"
)

// InfoCmd returns the info command
func InfoCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show version, storage keys and storage usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withRuntime(cmd.Context(), func(ctx context.Context, rt *wire.Runtime) error {
				info := rt.Module.SystemInfo(ctx)
				printf(cmd, "%s %s (backend %s)\n\n", bold("Ergo SaniTas"), info.Version, rt.Config.Backend)

				printf(cmd, "%s\n", bold("Storage"))
				for _, k := range info.StorageKeys {
					printf(cmd, "  %-18s %-32s %6d B\n", k.Name, k.Key, info.StorageUsage.Breakdown[k.Key])
				}
				printf(cmd, "  %-18s %39s\n", "TOTAL", info.StorageUsage.Formatted)
				if q := info.StorageUsage.Quota; q != nil {
					mark := okMark
					if q.UsedPercent >= 90 {
						mark = badMark
					} else if q.UsedPercent >= 75 {
						mark = warnMark
					}
					printf(cmd, "  disk %s: %s used, %d MB free\n", q.Path, mark(formatPercent(q.UsedPercent)), q.FreeBytes/(1<<20))
				}

				printf(cmd, "\n%s\n", bold("Valid values"))
				printf(cmd, "  status: %v\n  alert levels: %v\n  roles: %v\n", info.ValidStatuses, info.ValidAlertLevels, info.ValidRoles)
				return nil
			})
		},
	}
}

// StatsCmd returns the stats command
func StatsCmd(st *state) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show incident statistics and derived safety metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withRuntime(cmd.Context(), func(ctx context.Context, rt *wire.Runtime) error {
				if refresh {
					if _, err := rt.Module.UpdateStatistics(ctx); err != nil {
						return err
					}
				}
				s := rt.Module.GetStatistics(ctx)
				if s == nil {
					return errors.New("statistics unavailable")
				}
				score := rt.Module.SafetyScore(ctx)
				mark := okMark
				if score < 50 {
					mark = badMark
				} else if score < 80 {
					mark = warnMark
				}

				printf(cmd, "%s %d (leve %d, moderada %d, grave %d)\n", bold("Incidents:"), s.Total, s.ByLevel.Leve, s.ByLevel.Moderada, s.ByLevel.Grave)
				printf(cmd, "%s %s\n", bold("Safety score:"), mark(score))
				printf(cmd, "%s %d\n", bold("Days without grave incidents:"), rt.Module.DaysSinceLastIncident(ctx, incident.SeverityGrave))
				printf(cmd, "%s %+d%%\n", bold("Monthly trend:"), rt.Module.MonthlyTrend(ctx))
				if !s.LastUpdated.IsZero() {
					printf(cmd, "%s %s\n", bold("Last updated:"), s.LastUpdated.Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute statistics before printing")
	return cmd
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
