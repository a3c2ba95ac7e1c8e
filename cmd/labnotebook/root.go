package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"labnotebook/internal/app"
	"labnotebook/internal/config"
	"labnotebook/internal/controller"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "labnotebook",
		Short:         "Electronic lab notebook",
		Long:          "Record, filter and review laboratory experiments. Data lives in a single local store selected by configuration.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ./labnotebook.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newDeleteCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) openApp(ctx context.Context, logs io.Writer, extra app.Options) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	extra.LogWriter = logs
	return app.New(ctx, cfg, extra)
}

// printNotices writes the notices of the last action, one per line.
func printNotices(w io.Writer, notices []controller.Notice) {
	for _, n := range notices {
		_, _ = io.WriteString(w, string(n.Level)+": "+n.Message+"\n")
	}
}
