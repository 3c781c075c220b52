// Package questions derives category-specific follow-up questions from a
// product draft and merges them with the questions returned by the AI
// service. Local questions always precede server questions, and a fixed
// fallback keeps the workflow moving when the AI returns nothing.
package questions

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/altibbe/transparency/internal/models"
)

// FallbackQuestions is substituted when the server returns zero questions.
var FallbackQuestions = []string{
	"Please list any additional ingredients or chemicals not in the main list and their concentration if known.",
	"Where are the primary raw materials sourced from? (country/region)",
	"Does the product have any sustainability certifications? If so, list them.",
}

// categoryRule pairs category keywords with their two template questions.
// Rules are checked in order; the first keyword found as a case-insensitive
// substring of the draft category wins.
type categoryRule struct {
	keywords []string
	build    func(d *models.ProductDraft) [2]string
}

var categoryRules = []categoryRule{
	{
		keywords: []string{"skincare"},
		build: func(d *models.ProductDraft) [2]string {
			return [2]string{
				fmt.Sprintf("List active ingredients and their concentrations for this %s product.", d.Category),
				fmt.Sprintf("Describe any allergy warnings or regulatory ingredients relevant to skincare products from %s.", brandOr(d, "this brand")),
			}
		},
	},
	{
		keywords: []string{"food"},
		build: func(d *models.ProductDraft) [2]string {
			return [2]string{
				"Provide source country/region for primary food ingredients in this product.",
				"Are there any known allergens or cross-contamination risks? Please list.",
			}
		},
	},
	{
		keywords: []string{"personal", "care"},
		build: func(d *models.ProductDraft) [2]string {
			return [2]string{
				"Does this product contain any preservatives or fragrance components? List them.",
				fmt.Sprintf("Describe recommended usage and any safety precautions for %s.", brandOr(d, "the brand")),
			}
		},
	},
	{
		keywords: []string{"cleaning"},
		build: func(d *models.ProductDraft) [2]string {
			return [2]string{
				"List active chemical agents used in this cleaning product and dilution instructions.",
				"Are there any disposal or environmental instructions customers should follow?",
			}
		},
	},
	{
		keywords: []string{"clothing", "apparel"},
		build: func(d *models.ProductDraft) [2]string {
			return [2]string{
				"What materials/fibers make up the primary fabric and their country of origin?",
				"Are there any chemical treatments (e.g., flame retardants, waterproofing) applied to the fabric?",
			}
		},
	},
	{
		keywords: []string{"electronics"},
		build: func(d *models.ProductDraft) [2]string {
			return [2]string{
				"List key components and whether any contain restricted substances (e.g., lead, mercury).",
				"Provide end-of-life recycling or disposal instructions for this electronic product.",
			}
		},
	},
}

func defaultPair() [2]string {
	return [2]string{
		"Please list any additional ingredients, materials, or components not in the main list.",
		"Are there certifications or test reports relevant to this product? If so, please list them.",
	}
}

func brandOr(d *models.ProductDraft, fallback string) string {
	if d.Brand != "" {
		return d.Brand
	}
	return fallback
}

// DeriveLocalQuestions builds the 2 category questions (default pair when no
// keyword matches) plus, when a brand is set, one brand-sourcing question.
// Malformed or empty drafts degrade to the default branch; this never fails.
func DeriveLocalQuestions(d *models.ProductDraft) []string {
	cat := strings.ToLower(d.Category)
	pair := defaultPair()
	for _, rule := range categoryRules {
		matched := false
		for _, kw := range rule.keywords {
			if strings.Contains(cat, kw) {
				matched = true
				break
			}
		}
		if matched {
			pair = rule.build(d)
			break
		}
	}
	qs := []string{pair[0], pair[1]}
	if d.Brand != "" {
		qs = append(qs, fmt.Sprintf("Does %s have any public sourcing or sustainability statements relevant to this product? If yes, summarise.", d.Brand))
	}
	return qs
}

// RawQuestion is one server-returned question, which arrives either as a
// bare string or as a structured object carrying its own type and options.
type RawQuestion struct {
	ID       string              `json:"id"`
	Question string              `json:"question"`
	Type     models.QuestionType `json:"type"`
	Options  []string            `json:"options"`
	Required bool                `json:"required"`
}

// UnmarshalJSON accepts both the string and the object form.
func (q *RawQuestion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = RawQuestion{Question: s}
		return nil
	}
	type alias RawQuestion
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*q = RawQuestion(obj)
	return nil
}

// Engine wraps the merge step with an injectable id generator so synthetic
// question identifiers stay unique within a workflow session.
type Engine struct {
	idGen func(idx int) string
}

func NewEngine() *Engine {
	return &Engine{idGen: func(idx int) string {
		return fmt.Sprintf("q-%d-%s", idx, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	}}
}

// Merge wraps local question strings and server questions into the final
// ordered sequence: local first, then the server's (or, when the server
// returned none, the fixed fallback). Plain strings become required=false
// text questions; structured items keep their own type, options and flag.
func (e *Engine) Merge(local []string, server []RawQuestion) []models.Question {
	if len(server) == 0 {
		server = make([]RawQuestion, 0, len(FallbackQuestions))
		for _, text := range FallbackQuestions {
			server = append(server, RawQuestion{Question: text})
		}
	}
	out := make([]models.Question, 0, len(local)+len(server))
	for _, text := range local {
		out = append(out, models.Question{
			ID:       e.idGen(len(out)),
			Question: text,
			Type:     models.QuestionText,
		})
	}
	for _, rq := range server {
		q := models.Question{
			ID:       rq.ID,
			Question: rq.Question,
			Type:     rq.Type,
			Options:  rq.Options,
			Required: rq.Required,
		}
		if q.ID == "" {
			q.ID = e.idGen(len(out))
		}
		if q.Type == "" {
			q.Type = models.QuestionText
		}
		out = append(out, q)
	}
	return out
}
