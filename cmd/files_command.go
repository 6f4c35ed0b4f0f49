package main

import (
	"fmt"

	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/discovery"
	"github.com/spf13/cobra"
)

func newFilesCommand() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "files ROOT",
		Short: "List the files under ROOT whose relative path matches a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for path := range discovery.Files(logger.New(), args[0], pattern) {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", discovery.DefaultPattern, "Regular expression matched against relative paths")

	return cmd
}
