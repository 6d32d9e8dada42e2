package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qascribe/internal/language"
	"qascribe/internal/preflight"
	"qascribe/internal/services"
	"qascribe/internal/services/whisperx"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check backend, binaries and directories before transcribing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintf(out, "Backend:  %s (model %s)\n", cfg.Transcription.Backend, cfg.Transcription.Model)
			fmt.Fprintf(out, "Language: %s\n", language.DisplayName(cfg.Transcription.Language))
			provider, err := ctx.newProvider("")
			if err != nil {
				return err
			}
			if svc, ok := provider.(*whisperx.Service); ok {
				fmt.Fprintf(out, "CUDA:     %s\n", yesNo(svc.CUDAEnabled()))
				fmt.Fprintf(out, "VAD:      %s\n", svc.VADMethod())
			}

			results := preflight.RunAll(cmd.Context(), cfg, outputDir)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				rows = append(rows, []string{r.Name, renderStatus(kind, colorize), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]column{{title: "Check"}, {title: "Status"}, {title: "Detail"}}, rows, colorize))

			if failed := preflight.Failures(results); len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "check", "preflight", fmt.Sprintf("%d of %d checks failed", len(failed), len(results)), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Also verify this output directory is writable")
	return cmd
}
