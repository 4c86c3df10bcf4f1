package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/takure/internal/adapters/tachi"
	service "github.com/okian/takure/internal/app"
	"github.com/okian/takure/internal/config"
	"github.com/okian/takure/internal/domain/version"
	"github.com/okian/takure/internal/replay"
	"github.com/okian/takure/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var (
		generation string
		card       string
		submit     bool
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "takure-replay [flags] capture...",
		Short: "Replay captured score saves through the hook pipeline",
		Long: "Decodes captured property snapshots (plain JSON or zstd), applies the\n" +
			"submission gate and prints each resulting import as a JSON line.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if verbose {
				_ = logger.SetLevelString("debug")
			}

			g, err := version.ParseGeneration(generation)
			if err != nil {
				return err
			}

			opts := []replay.Option{replay.WithCard(card)}
			if submit {
				cfg, err := config.Load(cmd.Context(), configPath)
				if err != nil {
					return err
				}
				client, err := tachi.NewClient(cfg.Tachi.BaseURL, cfg.Tachi.APIKey,
					tachi.WithTimeout(cfg.Timeout()),
					tachi.WithDebug(cfg.General.Debug))
				if err != nil {
					return err
				}
				opts = append(opts,
					replay.WithEnabled(cfg.General.Enable),
					replay.WithForward(client),
					replay.WithWhitelist(cfg.Cards.Whitelist))
			}

			runner, err := replay.NewRunner(g, cmd.OutOrStdout(), opts...)
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range runner.Run(cmd.Context(), args) {
				if res.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %v\n", res.Path, res.Outcome, res.Err)
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", res.Path, res.Outcome)
				}
				if res.Outcome == service.OutcomeFailed {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d captures failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&generation, "generation", "g", version.Legacy.String(),
		"score schema: legacy, note_array_v2 or result_blob_v3")
	cmd.Flags().StringVar(&card, "card", "", "card id the captures belong to (empty skips every save)")
	cmd.Flags().BoolVar(&submit, "submit", false, "also send imports to the scoring service")
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "config file used with --submit")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	return cmd
}
