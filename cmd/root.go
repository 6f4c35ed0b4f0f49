package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lexfeat",
		Short:         "Lexical feature extraction for C source trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newTokenizeCommand())
	rootCmd.AddCommand(newStripCommand())
	rootCmd.AddCommand(newFilesCommand())
	rootCmd.AddCommand(newURLsCommand())
	rootCmd.AddCommand(newCorpusCommand())

	return rootCmd
}
