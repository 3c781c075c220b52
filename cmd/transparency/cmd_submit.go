package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/altibbe/transparency/internal/models"
	"github.com/altibbe/transparency/internal/workflow"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a product and generate a transparency report",
	Long: `Walks through the three-step submission flow: enter product data,
answer the follow-up questions, and generate the scored report.
Type "back" at a question prompt to return to the product step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureLoggedIn(); err != nil {
			return err
		}
		reader := bufio.NewReader(cmd.InOrStdin())
		flow := workflow.New(theApp.api, theApp.bus, theApp.notify, theApp.log)

		for flow.State() != workflow.StateSubmitted {
			switch flow.State() {
			case workflow.StateCollectingProduct:
				if err := runProductStep(cmd, reader, flow); err != nil {
					return err
				}
			case workflow.StateAnsweringQuestions:
				report, err := runQuestionStep(cmd, reader, flow)
				if err != nil {
					return err
				}
				if report != nil {
					printReportHint(cmd, report)
				}
			}
		}
		return nil
	},
}

func readDraft(cmd *cobra.Command, reader *bufio.Reader) (*models.ProductDraft, error) {
	draft := &models.ProductDraft{}
	fields := []struct {
		label string
		dst   *string
	}{
		{"Product name: ", &draft.Name},
		{"Category: ", &draft.Category},
		{"Brand: ", &draft.Brand},
		{"Ingredients (comma separated): ", &draft.IngredientsText},
		{"Description (optional): ", &draft.Description},
	}
	for _, f := range fields {
		value, err := promptLine(cmd, reader, f.label)
		if err != nil {
			return nil, err
		}
		*f.dst = value
	}
	return draft, nil
}

func runProductStep(cmd *cobra.Command, reader *bufio.Reader, flow *workflow.Workflow) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Step 1 of 3 — Product Information"))

	for {
		draft, err := readDraft(cmd, reader)
		if err != nil {
			return err
		}

		fieldErrs, err := flow.SubmitProduct(cmd.Context(), draft)
		if errors.Is(err, workflow.ErrValidation) {
			fields := make([]string, 0, len(fieldErrs))
			for f := range fieldErrs {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				theApp.notify.Error(fieldErrs[f])
			}
			continue // stay on this step, nothing was sent
		}
		if err != nil {
			// Network failure: the step did not advance; the user decides
			// whether to re-enter and retry.
			again, perr := promptLine(cmd, reader, "Try again? [y/N]: ")
			if perr != nil || again != "y" {
				return err
			}
			continue
		}
		printScorePreview(cmd, draft)
		return nil
	}
}

// printScorePreview shows a preliminary estimate ahead of the full report.
// The estimate is advisory; a failed call is logged and otherwise ignored.
func printScorePreview(cmd *cobra.Command, draft *models.ProductDraft) {
	score, err := theApp.api.TransparencyScore(cmd.Context(), draft)
	if err != nil {
		theApp.log.Debug("score preview failed", zap.Error(err))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(),
		dimStyle.Render("Preliminary transparency estimate:"), scoreBadge(score))
}

func runQuestionStep(cmd *cobra.Command, reader *bufio.Reader, flow *workflow.Workflow) (*models.Report, error) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Step 2 of 3 — Follow-up Questions"))
	fmt.Fprintln(out, dimStyle.Render(`Answer each question. Type "back" to return to the product step.`))

	answers := models.AnswerSet{}
	for i, q := range flow.Questions() {
		required := ""
		if q.Required {
			required = " *"
		}
		fmt.Fprintf(out, "\n%d. %s%s\n", i+1, q.Question, required)

		switch q.Type {
		case models.QuestionSelect:
			printOptions(out, q.Options)
			answer, err := promptLine(cmd, reader, "Select an option: ")
			if err != nil {
				return nil, err
			}
			if answer == "back" {
				flow.Back()
				return nil, nil
			}
			answers.Set(q.ID, resolveOption(q.Options, answer))
		case models.QuestionMultiSelect:
			printOptions(out, q.Options)
			answer, err := promptLine(cmd, reader, "Select options (comma separated): ")
			if err != nil {
				return nil, err
			}
			if answer == "back" {
				flow.Back()
				return nil, nil
			}
			for _, part := range strings.Split(answer, ",") {
				if opt := resolveOption(q.Options, strings.TrimSpace(part)); opt != "" {
					answers.Toggle(q.ID, opt, true)
				}
			}
		default:
			answer, err := promptLine(cmd, reader, "Your answer: ")
			if err != nil {
				return nil, err
			}
			if answer == "back" {
				flow.Back()
				return nil, nil
			}
			answers.Set(q.ID, answer)
		}
	}

	fmt.Fprintln(out, titleStyle.Render("\nStep 3 of 3 — Generate Report"))
	report, err := flow.SubmitAnswers(cmd.Context(), answers)
	if errors.Is(err, workflow.ErrMissingProductID) || errors.Is(err, workflow.ErrReportIDMissing) {
		// Surfaced already via notifications; nothing to navigate to.
		return nil, err
	}
	if err != nil {
		again, perr := promptLine(cmd, reader, "Try again? [y/N]: ")
		if perr == nil && again == "y" {
			return runQuestionStep(cmd, reader, flow)
		}
		return nil, err
	}
	return report, nil
}

func printOptions(out io.Writer, options []string) {
	for i, opt := range options {
		fmt.Fprintf(out, "   %d) %s\n", i+1, opt)
	}
}

// resolveOption maps a numeric choice onto its option string, passing free
// text through unchanged.
func resolveOption(options []string, answer string) string {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return answer
}

func printReportHint(cmd *cobra.Command, report *models.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Report", report.ID, "— transparency score", scoreBadge(report.TransparencyScore),
		dimStyle.Render("("+models.ScoreLabel(report.TransparencyScore)+")"))
	fmt.Fprintln(out, dimStyle.Render("View it with `transparency reports view "+report.ID+"`"))
}
