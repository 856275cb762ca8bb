package cli

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ergosanitas/internal/wire"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command.
func ServeCmd(st *state, version string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the panel API, the cross-view relay and the refresh jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if addr != "" {
				st.cfg.Addr = addr
			}
			return st.withRuntime(ctx, func(ctx context.Context, rt *wire.Runtime) error {
				return serve(ctx, rt, version)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ERGOSANITAS_ADDR)")
	return cmd
}

// serve runs the HTTP server, storage relay and scheduler until ctx is done
// or one of them fails.
func serve(ctx context.Context, rt *wire.Runtime, version string) error {
	srv, opts, err := rt.Server()
	if err != nil {
		return err
	}
	sched, err := rt.Scheduler()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	httpSrv := &http.Server{
		Addr:              rt.Config.Addr,
		Handler:           srv.Handler(gctx, opts),
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end with the group.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		slog.Info("server_event", "event", "listening", "addr", httpSrv.Addr, "version", version, "env", rt.Config.Env, "backend", rt.Config.Backend)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("server_event", "event", "shutting_down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return rt.Module.WatchStorage(gctx) })
	g.Go(func() error { return sched.Run(gctx) })

	return g.Wait()
}
