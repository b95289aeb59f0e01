package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikolastas/logistis-sub000/internal/api"
	"github.com/nikolastas/logistis-sub000/internal/buildinfo"
	"github.com/nikolastas/logistis-sub000/internal/logger"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP upload API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithContext(ctx, a.log)

			p, registry, err := a.pipeline(ctx)
			if err != nil {
				return err
			}
			dir, err := a.directory("")
			if err != nil {
				return err
			}

			h := &api.Handler{
				Pipeline:  p,
				Registry:  registry,
				Directory: dir,
				Log:       a.log,
				Version:   buildinfo.Version,
			}
			if !readOnly {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				defer s.Close()
				h.Store = s
				h.Linker = a.linker(s)
			}

			app := api.NewApp(h, a.cfg.Server.MaxUploadMB)

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", addr).Bool("read_only", readOnly).Msg("listening")
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.log.Info().Msg("shutting down")
			if err := app.ShutdownWithContext(context.Background()); err != nil {
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr from config)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "process uploads without a database")

	return cmd
}
