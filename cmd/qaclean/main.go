package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"qascribe/internal/logging"
	"qascribe/internal/services"
	"qascribe/internal/transcript"
)

const usageLine = "Usage: qaclean input.txt [output.txt]"

var errMissingInput = services.Wrap(services.ErrUsage, "qaclean", "", "missing input path", nil)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes qaclean and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errMissingInput) {
			return 1
		}
		fmt.Fprintln(stderr, err)
		return services.ExitCode(err)
	}
	return 0
}

func newRootCommand(logOutput io.Writer) *cobra.Command {
	var ruleName string
	var verbose bool

	cmd := &cobra.Command{
		Use:           "qaclean input.txt [output.txt]",
		Short:         "Regroup a transcript into question/answer blocks",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), usageLine)
				return errMissingInput
			}
			rule, err := transcript.RuleByName(ruleName)
			if err != nil {
				return services.Wrap(services.ErrUsage, "qaclean", "rule", "", err)
			}

			opts := transcript.Options{Rule: rule}
			if verbose {
				opts.Logger = newLogger(logOutput)
			}

			var target string
			if len(args) > 1 {
				target = args[1]
			}
			result, err := transcript.CleanFile(args[0], target, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved cleaned transcript to %s\n", result.Target)
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleName, "rule", transcript.RuleDefault, "Sentence boundary rule: default or unicode")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log a debug summary to stderr")
	return cmd
}

func newLogger(w io.Writer) *slog.Logger {
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Writer: w})
	if err != nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(logger, "qaclean")
}
