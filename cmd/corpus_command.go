package main

import (
	"errors"
	"fmt"

	"github.com/meghashyamc/lexfeat/config"
	"github.com/meghashyamc/lexfeat/db/kvdb"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/features"
	"github.com/meghashyamc/lexfeat/services/lexer"
	"github.com/spf13/cobra"
)

func newCorpusCommand() *cobra.Command {
	var checkpointPath string
	var top int

	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Print the corpus token frequencies saved by the last extraction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkpointPath == "" {
				path, err := configuredCheckpointPath()
				if err != nil {
					return err
				}
				checkpointPath = path
			}

			corpus, ok := kvdb.Load[lexer.FrequencyMap](logger.New(), checkpointPath)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "no prior checkpoint at %s\n", checkpointPath)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderFrequencies(corpus.Top(top), corpus.Total()))
			return nil
		},
	}

	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "Checkpoint file (defaults to the configured one)")
	cmd.Flags().IntVar(&top, "top", 20, "Only show the N most frequent tokens (0 shows all)")

	return cmd
}

func configuredCheckpointPath() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	options, err := features.OptionsFromConfig(cfg)
	if err != nil {
		return "", err
	}
	if options.CheckpointPath == "" {
		return "", errors.New("corpus checkpointing is disabled in the config")
	}

	return options.CheckpointPath, nil
}
