package main

import (
	"bufio"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Preview an AI analysis without submitting anything",
	Long: `Runs the AI analysis on product data entered at the prompt. Nothing is
persisted on the server; use submit to create a product and a report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureLoggedIn(); err != nil {
			return err
		}
		return runAnalyze(cmd, bufio.NewReader(cmd.InOrStdin()))
	},
}

func runAnalyze(cmd *cobra.Command, reader *bufio.Reader) error {
	draft, err := readDraft(cmd, reader)
	if err != nil {
		return err
	}
	report, err := theApp.api.AnalyzeProduct(cmd.Context(), draft)
	if err != nil {
		return err
	}
	if report == nil {
		theApp.notify.Warn("The AI service returned no analysis for this product.")
		return nil
	}
	renderReport(cmd.OutOrStdout(), report)
	return nil
}
