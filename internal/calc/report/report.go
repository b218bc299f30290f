package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"Illuminate/internal/calc/results"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string          `json:"project"`
	Author  string          `json:"author"`
	Title   string          `json:"title"`
	Notes   string          `json:"notes"`
	Room    json.RawMessage `json:"room"`
}

// Render writes the summary as an A4 PDF.
func Render(out io.Writer, in Input, sum results.Summary, now time.Time) error {
	if in.Title == "" {
		in.Title = "GUV Installation Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Standard: %s", sum.Standard))
	pdf.Ln(10)

	photobiological(pdf, sum.Photobiological)
	efficacyTable(pdf, sum.Efficacy)
	ozoneSection(pdf, sum.Ozone)

	if len(sum.Notes) > 0 || in.Notes != "" {
		heading(pdf, "Notes")
		for _, n := range sum.Notes {
			pdf.MultiCell(0, 6, n, "", "L", false)
		}
		if in.Notes != "" {
			pdf.MultiCell(0, 6, in.Notes, "", "L", false)
		}
	}
	return pdf.Output(out)
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(90, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func photobiological(pdf *gofpdf.Fpdf, p *results.Photobiological) {
	heading(pdf, "Photobiological Safety")
	if p == nil {
		pdf.Cell(0, 6, "Not available")
		pdf.Ln(10)
		return
	}
	line(pdf, "Max skin dose (8 hours)", fmt.Sprintf("%.2f %s", p.SkinMaxDose, p.DoseUnits))
	line(pdf, "Max eye dose (8 hours)", fmt.Sprintf("%.2f %s", p.EyeMaxDose, p.DoseUnits))
	line(pdf, "Hours to skin TLV", fmt.Sprintf("%s (weighted %s)", hours(p.Unweighted.Skin), hours(p.Weighted.Skin)))
	line(pdf, "Hours to eye TLV", fmt.Sprintf("%s (weighted %s)", hours(p.Unweighted.Eye), hours(p.Weighted.Eye)))
	pdf.MultiCell(0, 6, p.WeightedCompliance.Notes, "", "L", false)
	for _, w := range p.Weighted.Warnings {
		pdf.MultiCell(0, 6, "Warning: "+w, "", "L", false)
	}
	pdf.Ln(4)
}

func efficacyTable(pdf *gofpdf.Fpdf, e *results.Efficacy) {
	heading(pdf, "Disinfection Efficacy")
	if e == nil {
		pdf.Cell(0, 6, "Not available")
		pdf.Ln(10)
		return
	}
	line(pdf, "Average fluence", fmt.Sprintf("%.3f uW/cm2", e.AvgFluence))

	widths := []float64{70, 25, 25, 30, 30}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Species", "k [cm2/mJ]", "eACH-UV", "CADR [cfm]", "CADR [lps]"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range e.Table.Rows {
		pdf.CellFormat(widths[0], 6, row.Species, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%g", row.K), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.2f", row.EACH), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", row.CADRCFM), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", row.CADRLPS), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func ozoneSection(pdf *gofpdf.Fpdf, o *results.Ozone) {
	heading(pdf, "Indoor Air Chemistry")
	if o == nil {
		pdf.Cell(0, 6, "Not available")
		pdf.Ln(10)
		return
	}
	line(pdf, "Air changes per hour", fmt.Sprintf("%g", o.AirChanges))
	line(pdf, "Ozone decay constant", fmt.Sprintf("%g", o.OzoneDecayConstant))
	increase := fmt.Sprintf("%.2f ppb", o.IncreasePPB)
	if o.Exceeded {
		increase += " (above 5 ppb)"
	}
	line(pdf, "Estimated ozone increase", increase)
	pdf.Ln(4)
}

func hours(h float64) string {
	if math.IsInf(h, 1) {
		return "indefinite"
	}
	return fmt.Sprintf("%.2f", h)
}
