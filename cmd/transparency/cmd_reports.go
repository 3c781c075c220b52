package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/altibbe/transparency/internal/models"
)

var (
	reportsSearch string
	reportsStatus string
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse transparency reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports with dashboard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureLoggedIn(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		summaries, err := theApp.api.ListReports(cmd.Context())
		if err != nil {
			cached, cacheErr := theApp.store.CachedReports()
			if cacheErr != nil || len(cached) == 0 {
				return err
			}
			theApp.notify.Warn("Could not reach the server; showing cached reports.")
			theApp.log.Warn("report list fetch failed, using cache", zap.Error(err))
			summaries = cached
		} else if err := theApp.store.UpsertReports(summaries); err != nil {
			theApp.log.Warn("report cache refresh failed", zap.Error(err))
		}

		printStats(out, summaries)

		filtered := filterReports(summaries, reportsSearch, reportsStatus)
		if len(filtered) == 0 {
			fmt.Fprintln(out, dimStyle.Render("No reports match."))
			return nil
		}
		for _, s := range filtered {
			name, brand := "Unknown Product", ""
			if s.Product != nil {
				name, brand = s.Product.Name, s.Product.Brand
			}
			line := fmt.Sprintf("%s  %-30s", scoreBadge(s.TransparencyScore), name)
			if brand != "" {
				line += "  " + dimStyle.Render(brand)
			}
			if s.Status != "" {
				line += "  " + dimStyle.Render("["+s.Status+"]")
			}
			fmt.Fprintln(out, line)
			fmt.Fprintln(out, dimStyle.Render("      id: "+s.ID+"  created: "+s.CreatedAt.Format("2006-01-02")))
		}
		return nil
	},
}

var reportsViewCmd = &cobra.Command{
	Use:   "view <report-id>",
	Short: "Show a single report in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureLoggedIn(); err != nil {
			return err
		}
		report, err := theApp.api.GetReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		renderReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func printStats(out io.Writer, summaries []*models.ReportSummary) {
	total := len(summaries)
	completed, pending, sum := 0, 0, 0
	for _, s := range summaries {
		sum += s.TransparencyScore
		switch s.Status {
		case "completed":
			completed++
		case "pending":
			pending++
		}
	}
	average := 0
	if total > 0 {
		average = int(math.Round(float64(sum) / float64(total)))
	}
	fmt.Fprintln(out, titleStyle.Render("Dashboard"))
	fmt.Fprintf(out, "Total Reports: %d   Average Score: %d   Completed: %d   Pending: %d\n\n",
		total, average, completed, pending)
}

// filterReports applies the dashboard search (product name or brand,
// case-insensitive substring) and the exact status filter.
func filterReports(summaries []*models.ReportSummary, search, status string) []*models.ReportSummary {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]*models.ReportSummary, 0, len(summaries))
	for _, s := range summaries {
		if status != "" && s.Status != status {
			continue
		}
		if search != "" {
			name, brand := "", ""
			if s.Product != nil {
				name, brand = strings.ToLower(s.Product.Name), strings.ToLower(s.Product.Brand)
			}
			if !strings.Contains(name, search) && !strings.Contains(brand, search) {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func renderReport(out io.Writer, report *models.Report) {
	name := "Unknown Product"
	if report.ProductLoaded() {
		name = report.Product.Name
	}
	fmt.Fprintln(out, titleStyle.Render("Product Transparency Report"))
	fmt.Fprintln(out, name)
	fmt.Fprintln(out)

	if report.ProductLoaded() {
		p := report.Product
		fmt.Fprintln(out, titleStyle.Render("Product Information"))
		fmt.Fprintln(out, "Category:", p.Category)
		fmt.Fprintln(out, "Brand:", p.Brand)
		fmt.Fprintln(out, "Ingredients:", strings.Join(p.Ingredients, ", "))
		if p.Description != "" {
			fmt.Fprintln(out, "Description:", p.Description)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("Transparency Score"))
	fmt.Fprintf(out, "%s %d/100  Rating: %s\n\n",
		scoreBadge(report.TransparencyScore), report.TransparencyScore,
		models.ScoreLabel(report.TransparencyScore))

	if report.Summary != "" {
		fmt.Fprintln(out, titleStyle.Render("Analysis Summary"))
		fmt.Fprintln(out, report.Summary)
		fmt.Fprintln(out)
	}
	printBullets(out, "Strengths", report.Analysis.Strengths)
	printBullets(out, "Areas for Improvement", report.Analysis.Improvements)
	printBullets(out, "Recommendations", report.Analysis.Recommendations)

	fmt.Fprintln(out, dimStyle.Render("Generated: "+report.CreatedAt.Format("2006-01-02 15:04")))
}

func printBullets(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	for _, item := range items {
		fmt.Fprintln(out, "  •", item)
	}
	fmt.Fprintln(out)
}

func init() {
	reportsListCmd.Flags().StringVar(&reportsSearch, "search", "", "filter by product name or brand")
	reportsListCmd.Flags().StringVar(&reportsStatus, "status", "", "filter by status (completed, pending)")
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsViewCmd)
}
