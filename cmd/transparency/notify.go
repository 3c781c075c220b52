package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/altibbe/transparency/internal/events"
	"github.com/altibbe/transparency/internal/models"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	scoreGood = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	scoreMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	scoreLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// scoreBadge renders "NN/100" in the color band for the score.
func scoreBadge(score int) string {
	text := fmt.Sprintf("%d/100", score)
	switch {
	case score >= 80:
		return scoreGood.Render(text)
	case score >= 60:
		return scoreMid.Render(text)
	default:
		return scoreLow.Render(text)
	}
}

// toastNotifier is the CLI stand-in for transient notifications.
type toastNotifier struct {
	out io.Writer
}

func newToastNotifier(out io.Writer) *toastNotifier { return &toastNotifier{out: out} }

func (n *toastNotifier) Success(msg string) {
	fmt.Fprintln(n.out, successStyle.Render("✓"), msg)
}

func (n *toastNotifier) Warn(msg string) {
	fmt.Fprintln(n.out, warnStyle.Render("!"), msg)
}

func (n *toastNotifier) Error(msg string) {
	fmt.Fprintln(n.out, errorStyle.Render("✗"), msg)
}

// cacheReportCreated refreshes the local report cache when a submission
// completes, so the next dashboard render reflects it even offline.
func cacheReportCreated(a *app) events.Handler {
	return func(e any) {
		rc, ok := e.(events.ReportCreated)
		if !ok || rc.Report == nil || rc.Report.ID == "" {
			return
		}
		summary := &models.ReportSummary{
			ID:                rc.Report.ID,
			Product:           rc.Report.Product,
			TransparencyScore: rc.Report.TransparencyScore,
			CreatedAt:         rc.Report.CreatedAt,
			Status:            "completed",
		}
		if err := a.store.UpsertReports([]*models.ReportSummary{summary}); err != nil {
			a.log.Warn("cache created report", zap.Error(err))
		}
	}
}
