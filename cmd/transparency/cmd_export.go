package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/altibbe/transparency/internal/pdf"
)

var exportOutputDir string

var exportCmd = &cobra.Command{
	Use:   "export <report-id>",
	Short: "Export a report as a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureLoggedIn(); err != nil {
			return err
		}
		report, err := theApp.api.GetReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		data, err := pdf.Render(report)
		if err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}

		name := "Unknown Product"
		if report.ProductLoaded() {
			name = report.Product.Name
		}
		path := filepath.Join(exportOutputDir, pdf.FileName(name))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		theApp.notify.Success("Exported " + path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", ".", "directory to write the PDF into")
}
