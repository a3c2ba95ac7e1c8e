package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"labnotebook/internal/app"
	"labnotebook/internal/controller"
	"labnotebook/internal/render"
	"labnotebook/internal/view"
	"labnotebook/pkg/domain"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var typ, date string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List experiments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.openApp(cmd.Context(), cmd.ErrOrStderr(), app.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			page := a.Controller.ChangeFilter(cmd.Context(), typ, date)
			return render.Text{}.Render(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().StringVar(&typ, "type", domain.FilterAll, "experiment type filter (all, synthesis, characterization, testing, simulation, other)")
	cmd.Flags().StringVar(&date, "date", "", "only experiments on this date (YYYY-MM-DD)")
	return cmd
}

func newShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp(cmd.Context(), cmd.ErrOrStderr(), app.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			page := a.Controller.NavigateDetail(cmd.Context(), args[0])
			if err := (render.Text{}).Render(cmd.OutOrStdout(), page); err != nil {
				return err
			}
			if page.Kind == view.KindNotFound {
				return fmt.Errorf("experiment %s not found", args[0])
			}
			return nil
		},
	}
}

// promptConfirmer asks on out and reads a y/N answer from in.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) bool {
	_, _ = fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func newDeleteCmd(root *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one experiment after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer controller.Confirmer = promptConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
			if yes {
				confirmer = controller.Always(true)
			}
			a, err := root.openApp(cmd.Context(), cmd.ErrOrStderr(), app.Options{Confirmer: confirmer})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			page := a.Controller.Delete(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			printNotices(out, a.Controller.Notices())
			if page.Kind == view.KindNotFound {
				return fmt.Errorf("experiment %s not found", args[0])
			}
			if a.Controller.Exists(args[0]) {
				_, err = fmt.Fprintf(out, "kept %s\n", args[0])
			} else {
				_, err = fmt.Fprintf(out, "deleted %s\n", args[0])
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not prompt for confirmation")
	return cmd
}
