package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"labnotebook/internal/app"
	"labnotebook/internal/httpui"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the notebook web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a, err := root.openApp(ctx, cmd.ErrOrStderr(), app.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			srv, err := httpui.New(a.Controller, a.Logger.With("component", "http"), a.MetricsHandler)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.Config.HTTP.Addr
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: http.addr)")
	return cmd
}
