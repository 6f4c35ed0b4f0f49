package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/meghashyamc/lexfeat/services/extract"
	"github.com/meghashyamc/lexfeat/services/lexer"
	"github.com/spf13/cobra"
)

func newTokenizeCommand() *cobra.Command {
	var policyFlag string
	var noStrip bool
	var top int

	cmd := &cobra.Command{
		Use:   "tokenize FILE",
		Short: "Print token frequencies of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := lexer.ParseFilterPolicy(policyFlag)
			if err != nil {
				return err
			}

			content, err := readSourceFile(args[0])
			if err != nil {
				return err
			}
			if !noStrip {
				content = lexer.StripCommentsText(content)
			}

			frequencies := lexer.Tokenize(content, policy)
			fmt.Fprintln(cmd.OutOrStdout(), renderFrequencies(frequencies.Top(top), frequencies.Total()))
			return nil
		},
	}

	cmd.Flags().StringVar(&policyFlag, "policy", lexer.Strict.String(), "Token filter policy (strict or unfiltered)")
	cmd.Flags().BoolVar(&noStrip, "no-strip", false, "Keep comments before tokenizing")
	cmd.Flags().IntVar(&top, "top", 0, "Only show the N most frequent tokens (0 shows all)")

	return cmd
}

func newStripCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strip FILE",
		Short: "Print a source file with comments removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readSourceFile(args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), lexer.StripCommentsText(content))
			return nil
		},
	}
}

func newURLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "urls FILE",
		Short: "Print the URLs found in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readSourceFile(args[0])
			if err != nil {
				return err
			}

			for _, url := range extract.ExtractURLs(content) {
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}
}

func readSourceFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

func renderFrequencies(counts []lexer.TokenCount, total int) string {
	rows := make([][]string, 0, len(counts))
	for _, count := range counts {
		rows = append(rows, []string{count.Token, strconv.Itoa(count.Count)})
	}

	return renderTable([]string{"Token", "Count"}, rows, []columnAlignment{alignLeft, alignRight}, []string{"Total", strconv.Itoa(total)})
}
