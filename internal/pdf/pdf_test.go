package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altibbe/transparency/internal/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		ID: "r1",
		Product: &models.ProductInfo{
			Name:        "Face Cream",
			Brand:       "EcoBeauty",
			Category:    "Skincare",
			Ingredients: []string{"Aloe Vera", "Coconut Oil"},
			Description: "Gentle daily moisturizer",
		},
		Summary:           "Good disclosure overall.",
		TransparencyScore: 73,
		Analysis: models.Analysis{
			Strengths:       []string{"Full ingredient list"},
			Improvements:    []string{"Add sourcing detail"},
			Recommendations: []string{"Publish certifications"},
		},
		CreatedAt: time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func sectionTitles(r *models.Report) []string {
	var titles []string
	for _, s := range buildSections(r) {
		titles = append(titles, s.title)
	}
	return titles
}

func TestSectionOrderComplete(t *testing.T) {
	assert.Equal(t, []string{
		"Product Information",
		"Transparency Score",
		"Analysis Summary",
		"Strengths",
		"Areas for Improvement",
		"Recommendations",
	}, sectionTitles(sampleReport()))
}

func TestEmptyStrengthsSectionOmittedButImprovementsKept(t *testing.T) {
	r := sampleReport()
	r.Analysis.Strengths = nil
	titles := sectionTitles(r)
	assert.NotContains(t, titles, "Strengths")
	assert.Contains(t, titles, "Areas for Improvement")
}

func TestAllListSectionsOmittedWhenEmpty(t *testing.T) {
	r := sampleReport()
	r.Analysis = models.Analysis{}
	assert.Equal(t, []string{
		"Product Information",
		"Transparency Score",
		"Analysis Summary",
	}, sectionTitles(r))
}

func TestProductInformationLines(t *testing.T) {
	secs := buildSections(sampleReport())
	info := secs[0]
	require.Len(t, info.lines, 5)
	assert.Equal(t, "Product Name: Face Cream", info.lines[0])
	assert.Equal(t, "Ingredients: Aloe Vera, Coconut Oil", info.lines[3])
	assert.Equal(t, "Description: Gentle daily moisturizer", info.lines[4])

	// Description line disappears when empty.
	r := sampleReport()
	r.Product.Description = ""
	assert.Len(t, buildSections(r)[0].lines, 4)
}

func TestScoreSectionUsesRatingLabel(t *testing.T) {
	r := sampleReport()
	r.TransparencyScore = 85
	score := buildSections(r)[1]
	assert.Equal(t, []string{"85/100", "Rating: Excellent"}, score.lines)
}

func TestUnloadedProductFallsBack(t *testing.T) {
	r := sampleReport()
	r.Product = nil
	info := buildSections(r)[0]
	assert.Equal(t, "Product Name: Unknown Product", info.lines[0])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Face_Cream_Transparency_Report.pdf", FileName("Face Cream"))
	assert.Equal(t, "Eco_Soap_2_0_Transparency_Report.pdf", FileName("Eco Soap 2.0"))
}

func TestRenderProducesPDFBytes(t *testing.T) {
	out, err := Render(sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderLongReportPaginates(t *testing.T) {
	r := sampleReport()
	for i := 0; i < 60; i++ {
		r.Analysis.Recommendations = append(r.Analysis.Recommendations,
			"Document the supply chain step in enough detail that an auditor can trace it end to end.")
	}
	out, err := Render(r)
	require.NoError(t, err)
	// Multiple page objects indicate a page break was inserted.
	assert.Greater(t, bytes.Count(out, []byte("/Type /Page\n")), 1)
}
