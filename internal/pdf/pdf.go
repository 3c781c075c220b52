// Package pdf renders a transparency report into a paginated PDF document
// with a fixed section order. Section planning is separate from drawing so
// the ordering and omission rules stay testable without parsing PDF output.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/altibbe/transparency/internal/models"
	"github.com/altibbe/transparency/internal/utils"
)

const (
	pageMargin = 20.0
	footerText = "Generated by Altibbe Product Transparency System"
	fileSuffix = "_Transparency_Report.pdf"
)

// section is one planned block of the document. minHeight is the estimated
// space a section needs before a page break is inserted ahead of it; zero
// means the section flows without a pre-check.
type section struct {
	title     string
	lines     []string
	bullets   []string
	minHeight float64
}

// buildSections produces the deterministic section sequence for a report.
// The bulleted sections are omitted entirely when their list is empty.
func buildSections(r *models.Report) []section {
	product := r.Product
	if product == nil {
		product = &models.ProductInfo{Name: "Unknown Product"}
	}

	info := section{title: "Product Information"}
	info.lines = append(info.lines,
		"Product Name: "+product.Name,
		"Brand: "+product.Brand,
		"Category: "+product.Category,
		"Ingredients: "+strings.Join(product.Ingredients, ", "),
	)
	if product.Description != "" {
		info.lines = append(info.lines, "Description: "+product.Description)
	}

	sections := []section{
		info,
		{
			title: "Transparency Score",
			lines: []string{
				fmt.Sprintf("%d/100", r.TransparencyScore),
				"Rating: " + models.ScoreLabel(r.TransparencyScore),
			},
			minHeight: 60,
		},
		{
			title:     "Analysis Summary",
			lines:     []string{r.Summary},
			minHeight: 80,
		},
	}
	for _, b := range []struct {
		title string
		items []string
	}{
		{"Strengths", r.Analysis.Strengths},
		{"Areas for Improvement", r.Analysis.Improvements},
		{"Recommendations", r.Analysis.Recommendations},
	} {
		if len(b.items) == 0 {
			continue
		}
		sections = append(sections, section{title: b.title, bullets: b.items, minHeight: 60})
	}
	return sections
}

// FileName derives the download name from the product name, with every
// non-alphanumeric rune replaced by an underscore.
func FileName(productName string) string {
	return utils.SanitizeFileName(productName) + fileSuffix
}

// Render produces the PDF bytes for a report.
func Render(r *models.Report) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, pageMargin)
	doc.AddPage()
	pageWidth, pageHeight := doc.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	// Header banner with title and generation date.
	doc.SetFillColor(16, 185, 129)
	doc.Rect(0, 0, pageWidth, 30, "F")
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 24)
	doc.Text(pageMargin, 20, "Product Transparency Report")
	doc.SetFont("Helvetica", "", 12)
	generated := r.CreatedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	doc.Text(pageMargin, 26, "Generated on "+generated.Format("Jan 2, 2006"))
	doc.SetY(40)
	doc.SetTextColor(0, 0, 0)

	for _, sec := range buildSections(r) {
		if sec.minHeight > 0 && doc.GetY()+sec.minHeight > pageHeight-pageMargin {
			doc.AddPage()
			doc.SetY(pageMargin)
		}
		doc.SetFont("Helvetica", "B", 18)
		doc.SetX(pageMargin)
		doc.MultiCell(contentWidth, 8, sec.title, "", "L", false)
		doc.Ln(2)

		doc.SetFont("Helvetica", "", 12)
		for _, line := range sec.lines {
			doc.SetX(pageMargin)
			doc.MultiCell(contentWidth, 6, line, "", "L", false)
		}
		for _, item := range sec.bullets {
			doc.SetX(pageMargin)
			doc.MultiCell(contentWidth, 6, "- "+item, "", "L", false)
			doc.Ln(1)
		}
		doc.Ln(8)
	}

	// Footer attribution on the last page.
	doc.SetFont("Helvetica", "I", 10)
	doc.SetTextColor(128, 128, 128)
	doc.Text(pageMargin, pageHeight-10, footerText)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
