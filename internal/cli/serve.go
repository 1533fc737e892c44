package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/api"
	"github.com/matzehuels/tscproj/pkg/observability"
)

// shutdownTimeout bounds how long in-flight requests may finish after an
// interrupt.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transform engine over HTTP",
		Long: `Start an HTTP server exposing xyscale, timescale, validate and info.

  POST /v1/xyscale?factor=1.5      body: project JSON, response: scaled project
  POST /v1/timescale?factor=2      body: project JSON, response: scaled project
  POST /v1/validate                body: project JSON, response: problems
  POST /v1/info?mode=analyze       body: project JSON, response: report
  GET  /v1/version
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if !cmd.Flags().Changed("listen") {
				listen = cfg.Listen
			} else {
				c.markFlag("listen")
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetAPIHooks(hooks)
			defer observability.Reset()

			s := api.New(runner, c.Logger)
			s.Defaults = api.Defaults{
				Indent:        cfg.Indent,
				EnsureASCII:   cfg.EnsureASCII,
				StrictVersion: cfg.StrictVersion,
				PreserveAudio: cfg.PreserveAudio,
			}
			return serve(ctx, s.HTTPServer(listen), c)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", ":8080", "address to listen on")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, c *CLI) error {
	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
