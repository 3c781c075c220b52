package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedIngredientsFromText(t *testing.T) {
	d := &ProductDraft{IngredientsText: "Aloe Vera, Coconut Oil"}
	assert.Equal(t, []string{"Aloe Vera", "Coconut Oil"}, d.NormalizedIngredients())
}

func TestNormalizedIngredientsDropsEmptyEntries(t *testing.T) {
	d := &ProductDraft{IngredientsText: " Water ,, Glycerin , "}
	assert.Equal(t, []string{"Water", "Glycerin"}, d.NormalizedIngredients())
}

func TestNormalizedIngredientsPrefersExplicitList(t *testing.T) {
	d := &ProductDraft{Ingredients: []string{" Oat ", "Honey"}, IngredientsText: "ignored"}
	assert.Equal(t, []string{"Oat", "Honey"}, d.NormalizedIngredients())
}

func TestAnswerSetToggleKeepsCheckOrder(t *testing.T) {
	a := AnswerSet{}
	a.Toggle("q1", "B", true)
	a.Toggle("q1", "A", true)
	a.Toggle("q1", "B", true) // repeat check is a no-op
	assert.Equal(t, []string{"B", "A"}, a["q1"])

	a.Toggle("q1", "B", false)
	assert.Equal(t, []string{"A"}, a["q1"])
}

func TestScoreLabelBands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{95, "Excellent"},
		{80, "Excellent"},
		{79, "Good"},
		{60, "Good"},
		{59, "Fair"},
		{40, "Fair"},
		{39, "Needs Improvement"},
		{0, "Needs Improvement"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ScoreLabel(tc.score), "score %d", tc.score)
	}
}
