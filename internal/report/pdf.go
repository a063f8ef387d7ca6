// Package report builds the printable PDF snapshot of the dashboard:
// header, active filters, KPI summary and one rasterized image per loaded
// chart, paginated on A4.
package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/rtaverse/dashboard/internal/charts"
	"github.com/rtaverse/dashboard/internal/dashapi"
)

// A4 portrait layout, all in millimetres.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	margin       = 15.0
	contentWidth = pageWidth - 2*margin

	chartTitleHeight = 10.0
	chartSpacing     = 15.0
	// chart images keep the 800x450 raster aspect at full content width
	chartImageHeight = contentWidth * 450.0 / 800.0
)

// Params carries everything the document needs; the caller assembles it
// from the registry and the KPI endpoints so building stays network-free.
type Params struct {
	// FilterSummary is the human-readable active filter line ("None" when
	// unfiltered).
	FilterSummary string
	Overview      *dashapi.KPIData
	Gender        *dashapi.GenderKPIData
	Charts        []*charts.Result
	GeneratedAt   time.Time
	// ReportID tags the document footer so exported copies can be told
	// apart. Build assigns one when the caller leaves it empty.
	ReportID string
}

// Build writes the PDF document to w. Charts with no data are left out
// rather than printed as empty frames.
func Build(w io.Writer, p Params) error {
	if p.ReportID == "" {
		p.ReportID = uuid.NewString()
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(false, margin)
	doc.SetFooterFunc(func() {
		doc.SetY(-margin)
		doc.SetFont("Helvetica", "", 7)
		doc.SetTextColor(128, 128, 128)
		doc.CellFormat(contentWidth, 4, "Report "+p.ReportID, "", 0, "L", false, 0, "")
		doc.SetTextColor(0, 0, 0)
	})
	doc.AddPage()

	writeHeader(doc, p)
	writeKPIs(doc, p)

	for i, res := range p.Charts {
		if res == nil || res.Empty {
			continue
		}
		png, err := renderPNG(res)
		if err != nil {
			return fmt.Errorf("chart %s: %w", res.ID, err)
		}
		if err := placeChart(doc, i, res.Title, png); err != nil {
			return err
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeHeader(doc *fpdf.Fpdf, p Params) {
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(contentWidth, 10, "Road Traffic Accident Report", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	generated := p.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	doc.CellFormat(contentWidth, 6, "Generated "+generated.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(contentWidth, 6, "Active Filters", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	summary := p.FilterSummary
	if summary == "" {
		summary = "None"
	}
	doc.MultiCell(contentWidth, 5, summary, "", "L", false)
	doc.Ln(4)
}

func writeKPIs(doc *fpdf.Fpdf, p Params) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(contentWidth, 6, "Key Figures", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)

	var lines []string
	if k := p.Overview; k != nil {
		lines = append(lines,
			fmt.Sprintf("Total Accidents: %d", k.TotalAccidents),
			fmt.Sprintf("Total Victims: %d", k.TotalVictims),
			fmt.Sprintf("Avg Victims per Accident: %.2f", k.AvgVictimsPerAccident),
			fmt.Sprintf("Alcohol Involvement: %.1f%%", k.AlcoholInvolvementRate),
		)
	}
	if g := p.Gender; g != nil {
		lines = append(lines,
			fmt.Sprintf("Male Victims: %d", g.MaleCount),
			fmt.Sprintf("Female Victims: %d", g.FemaleCount),
			fmt.Sprintf("Unknown Gender: %d", g.UnknownCount),
		)
	}
	if len(lines) == 0 {
		doc.CellFormat(contentWidth, 5, "Not available", "", 1, "L", false, 0, "")
		doc.Ln(4)
		return
	}

	// two columns
	half := contentWidth / 2
	for i := 0; i < len(lines); i += 2 {
		doc.CellFormat(half, 5, lines[i], "", 0, "L", false, 0, "")
		if i+1 < len(lines) {
			doc.CellFormat(half, 5, lines[i+1], "", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(4)
}

func placeChart(doc *fpdf.Fpdf, idx int, title string, png []byte) error {
	needed := chartTitleHeight + chartImageHeight + chartSpacing
	if doc.GetY()+needed > pageHeight-margin {
		doc.AddPage()
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(contentWidth, chartTitleHeight, title, "", 1, "L", false, 0, "")

	name := fmt.Sprintf("chart-%d", idx)
	doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	doc.ImageOptions(name, margin, doc.GetY(), contentWidth, chartImageHeight, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	doc.SetY(doc.GetY() + chartImageHeight + chartSpacing)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("place chart %q: %w", title, err)
	}
	return nil
}
