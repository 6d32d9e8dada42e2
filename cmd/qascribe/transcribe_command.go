package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qascribe/internal/config"
	"qascribe/internal/interview"
	"qascribe/internal/preflight"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var model string
	var outputDir string
	var language string
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "transcribe <audio> [model]",
		Short: "Transcribe an interview and write raw, cleaned and subtitle outputs",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if len(args) > 1 && strings.TrimSpace(model) == "" {
				model = args[1]
			}

			provider, err := ctx.newProvider(model)
			if err != nil {
				return err
			}
			rule, err := ctx.sentenceRule("")
			if err != nil {
				return err
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			pipelineCfg := interview.Config{
				Provider: provider,
				Rule:     rule,
				Language: cfg.Transcription.Language,
				WriteSRT: cfg.Subtitles.SRT,
				WriteVTT: cfg.Subtitles.VTT,
				LockDir:  cfg.LockDir(),
				Logger:   logger,
			}
			if strings.TrimSpace(language) != "" {
				pipelineCfg.Language = language
			}
			if store != nil {
				defer store.Close()
				pipelineCfg.History = store
			}
			if !skipChecks {
				pipelineCfg.Checks = preflightChecks(cfg)
			}

			pipeline, err := interview.New(pipelineCfg)
			if err != nil {
				return err
			}

			if outputDir != "" {
				expanded, err := config.ExpandPath(outputDir)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				outputDir = expanded
			}

			out, err := pipeline.Run(cmd.Context(), interview.Request{AudioPath: args[0], OutputDir: outputDir})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Transcriptions saved as:")
			fmt.Fprintf(w, "- %s (plain)\n", out.Transcript)
			fmt.Fprintf(w, "- %s (cleaned Q&A)\n", out.Cleaned)
			if out.SRT != "" {
				fmt.Fprintf(w, "- %s (with timestamps)\n", out.SRT)
			}
			if out.VTT != "" {
				fmt.Fprintf(w, "- %s (with timestamps)\n", out.VTT)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model name (overrides transcription.model)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for outputs (defaults to the audio directory)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Spoken language code (overrides transcription.language)")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip preflight checks")
	return cmd
}

func preflightChecks(cfg *config.Config) interview.CheckFunc {
	return func(ctx context.Context, outputDir string) []preflight.Result {
		return preflight.RunAll(ctx, cfg, outputDir)
	}
}
