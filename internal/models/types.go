package models

import (
	"strings"
	"time"
)

// QuestionType enumerates the supported answer widgets for a follow-up question.
type QuestionType string

const (
	QuestionText        QuestionType = "text"
	QuestionSelect      QuestionType = "select"
	QuestionMultiSelect QuestionType = "multiselect"
)

// ProductDraft is the user-entered product data before submission.
// Ingredients accepts either a comma-separated string or an explicit list;
// NormalizedIngredients yields the canonical form used on the wire.
type ProductDraft struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Brand           string   `json:"brand"`
	Ingredients     []string `json:"ingredients"`
	IngredientsText string   `json:"-"`
	Description     string   `json:"description,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
	Packaging       string   `json:"packaging,omitempty"`
	Sustainability  string   `json:"sustainability,omitempty"`
}

// NormalizedIngredients returns the ordered, trimmed, non-empty ingredient
// list, splitting IngredientsText on commas when no explicit list is set.
func (d *ProductDraft) NormalizedIngredients() []string {
	src := d.Ingredients
	if len(src) == 0 && d.IngredientsText != "" {
		src = strings.Split(d.IngredientsText, ",")
	}
	out := make([]string, 0, len(src))
	for _, ing := range src {
		if ing = strings.TrimSpace(ing); ing != "" {
			out = append(out, ing)
		}
	}
	return out
}

// Question is a follow-up question, either derived locally from the draft or
// returned by the AI service.
type Question struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

// AnswerSet maps question identifiers to answers. Values are strings for
// text/select questions and ordered string slices for multiselect questions.
type AnswerSet map[string]any

// Set records a free-text or single-select answer.
func (a AnswerSet) Set(questionID, value string) { a[questionID] = value }

// Toggle adds or removes an option from a multiselect answer, preserving the
// order in which options were first checked.
func (a AnswerSet) Toggle(questionID, option string, checked bool) {
	current, _ := a[questionID].([]string)
	if checked {
		for _, v := range current {
			if v == option {
				return
			}
		}
		a[questionID] = append(current, option)
		return
	}
	next := make([]string, 0, len(current))
	for _, v := range current {
		if v != option {
			next = append(next, v)
		}
	}
	a[questionID] = next
}

// ProductInfo is the product reference embedded in a report.
type ProductInfo struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Ingredients []string `json:"ingredients"`
	Description string   `json:"description,omitempty"`
}

// Analysis groups the three advisory lists of a transparency report.
type Analysis struct {
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendations []string `json:"recommendations"`
}

// Report is the canonical transparency report reconstructed from the server
// response. It is never mutated after fetch within a session.
type Report struct {
	ID                string       `json:"id"`
	ProductID         string       `json:"productId,omitempty"`
	Product           *ProductInfo `json:"product,omitempty"`
	Summary           string       `json:"summary"`
	TransparencyScore int          `json:"transparencyScore"`
	Analysis          Analysis     `json:"analysis"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// ProductLoaded reports whether the product reference was embedded rather
// than left as an unresolved identifier.
func (r *Report) ProductLoaded() bool { return r.Product != nil }

// ReportSummary is the dashboard list entry for a report.
type ReportSummary struct {
	ID                string       `json:"id"`
	Product           *ProductInfo `json:"product,omitempty"`
	TransparencyScore int          `json:"transparencyScore"`
	CreatedAt         time.Time    `json:"createdAt"`
	Status            string       `json:"status"`
}

// User is the authenticated account as returned by the auth endpoints.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// ScoreLabel maps a transparency score onto its fixed rating band.
func ScoreLabel(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}
