package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"qascribe/internal/history"
	"qascribe/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent transcribe and clean runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if clearAll && errors.Is(err, history.ErrSchemaMismatch) {
				return resetHistory(ctx, cmd)
			}
			if err != nil {
				return err
			}
			if store == nil {
				return services.Wrap(services.ErrConfiguration, "history", "list", "history is disabled (set history.enabled = true)", nil)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return services.Wrap(services.ErrResource, "history", "clear", "", err)
				}
				fmt.Fprintf(out, "Removed %d runs\n", removed)
				return nil
			}

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return services.Wrap(services.ErrResource, "history", "list", "", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(runs, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all recorded runs")
	return cmd
}

// resetHistory drops a database written by an incompatible schema; the next
// open recreates it.
func resetHistory(ctx *commandContext, cmd *cobra.Command) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	path := cfg.HistoryPath()
	if err := history.Remove(path); err != nil {
		return services.Wrap(services.ErrResource, "history", "reset", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reset incompatible history database %s\n", path)
	return nil
}

func renderHistory(runs []*history.Run, colorize bool) string {
	columns := []column{
		{title: "Started"},
		{title: "Kind"},
		{title: "Status"},
		{title: "Source"},
		{title: "Model"},
		{title: "Groups", right: true},
		{title: "Elapsed", right: true},
		{title: "ID"},
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := renderStatus(statusOK, colorize)
		if run.Status == history.StatusFailed {
			status = renderStatus(statusError, colorize)
		}
		model := run.Model
		if model == "" {
			model = "-"
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			string(run.Kind),
			status,
			filepath.Base(run.SourcePath),
			model,
			strconv.Itoa(run.Groups),
			formatElapsed(run.Elapsed()),
			shortID(run.ID),
		})
	}
	return renderTable(columns, rows, colorize)
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}

func shortID(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok {
		return head
	}
	return id
}
