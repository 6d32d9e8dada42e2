package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"qascribe/internal/history"
	"qascribe/internal/logging"
	"qascribe/internal/transcript"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var ruleName string

	cmd := &cobra.Command{
		Use:   "clean <input.txt> [output.txt]",
		Short: "Regroup a transcript into question/answer blocks",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			rule, err := ctx.sentenceRule(ruleName)
			if err != nil {
				return err
			}
			var target string
			if len(args) > 1 {
				target = args[1]
			}

			started := time.Now().UTC()
			result, cleanErr := transcript.CleanFile(args[0], target, transcript.Options{
				Rule:   rule,
				Logger: logging.NewComponentLogger(logger, "clean"),
			})
			recordClean(ctx, cmd, logger, args[0], result, started, cleanErr)
			if cleanErr != nil {
				return cleanErr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved cleaned transcript to %s\n", result.Target)
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleName, "rule", "", "Sentence boundary rule: default or unicode (overrides cleaning.rule)")
	return cmd
}

func recordClean(ctx *commandContext, cmd *cobra.Command, logger *slog.Logger, source string, result transcript.Result, started time.Time, cleanErr error) {
	store, err := ctx.openHistory()
	if err != nil || store == nil {
		if err != nil {
			logger.Warn("history unavailable", logging.Error(err))
		}
		return
	}
	defer store.Close()

	run := &history.Run{
		Kind:       history.KindClean,
		Status:     history.StatusCompleted,
		SourcePath: source,
		Sentences:  result.Sentences,
		Groups:     result.Groups,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if result.Target != "" && cleanErr == nil {
		run.Outputs = []string{result.Target}
	}
	if cleanErr != nil {
		run.Status = history.StatusFailed
		run.Error = cleanErr.Error()
	}
	if err := store.Record(cmd.Context(), run); err != nil {
		logger.Warn("failed to record run history", logging.Error(err))
	}
}
