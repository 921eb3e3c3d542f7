package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/netbeacon/azvnet/inventory"
)

var (
	colorPrimary     = [3]int{0, 78, 140}    // Azure blue
	colorTextDark    = [3]int{44, 62, 80}    // Dark text
	colorTextMuted   = [3]int{127, 140, 141} // Muted text
	colorDanger      = [3]int{231, 76, 60}   // Red
	colorAccent      = [3]int{46, 204, 113}  // Green
	colorTableHeader = [3]int{0, 78, 140}
	colorTableAlt    = [3]int{241, 245, 249}
	colorGridLine    = [3]int{220, 220, 220}
)

const margin = 15.0

// PDFGenerator renders report data as an A4 landscape PDF.
type PDFGenerator struct{}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Generate creates the PDF document.
func (g *PDFGenerator) Generate(data *Data) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	g.writeCoverPage(pdf, tr, data)

	pdf.AddPage()
	g.addPageHeader(pdf, "Insights")
	g.writeInsights(pdf, tr, data)

	for _, sub := range data.Routes {
		pdf.AddPage()
		g.addPageHeader(pdf, "Subnet Routes - "+sub.SubscriptionName)
		g.writeRoutes(pdf, tr, sub)
	}

	if data.HasIssuesSection() {
		pdf.AddPage()
		g.addPageHeader(pdf, "Route Issues")
		g.writeIssues(pdf, tr, data)
	}

	g.addPageNumbers(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output error: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *PDFGenerator) writeCoverPage(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()

	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, pageWidth, 8, "F")

	pdf.SetY(50)
	pdf.SetFont("Arial", "B", 30)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 15, "Azure Network Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 8, "Virtual networks, routes and peerings", "", 1, "C", false, 0, "")

	pdf.SetY(95)
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	summary := fmt.Sprintf("%d subscriptions  |  %d virtual networks  |  %d subnets  |  %d regions",
		len(data.Insights), data.Totals.VNets, data.Totals.Subnets, data.Totals.RegionCount())
	pdf.CellFormat(0, 10, summary, "", 1, "C", false, 0, "")

	if data.HasIssuesSection() {
		pdf.SetFont("Arial", "", 12)
		c := colorAccent
		if len(data.Issues) > 0 {
			c = colorDanger
		}
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.CellFormat(0, 8, fmt.Sprintf("%d route issues against firewall %s", len(data.Issues), data.FirewallIP), "", 1, "C", false, 0, "")
	}

	pdf.SetY(pageHeight - 45)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", data.GeneratedAt.Format("January 2, 2006 at 15:04 MST")), "", 1, "C", false, 0, "")
	if data.SnapshotPath != "" {
		pdf.CellFormat(0, 6, tr("Snapshot: "+data.SnapshotPath), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Report ID: "+data.ID, "", 1, "C", false, 0, "")

	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, pageHeight-8, pageWidth, 8, "F")
}

func (g *PDFGenerator) addPageHeader(pdf *fpdf.Fpdf, section string) {
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetDrawColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetLineWidth(0.5)
	pdf.Line(margin, 12, pageWidth-margin, 12)

	pdf.SetY(14)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 5, "AZURE NETWORK REPORT", "", 1, "L", false, 0, "")

	pdf.SetY(22)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 10, section, "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

// table draws a header row and body rows, repeating the header after page breaks.
func (g *PDFGenerator) table(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	_, pageHeight := pdf.GetPageSize()
	drawHeader := func() {
		pdf.SetFillColor(colorTableHeader[0], colorTableHeader[1], colorTableHeader[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 8)
		for i, h := range header {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	drawHeader()

	pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
	for n, row := range rows {
		pdf.SetFont("Arial", "", 8)
		lines := 1
		for i, cell := range row {
			if c := len(pdf.SplitText(tr(cell), widths[i]-2)); c > lines {
				lines = c
			}
		}
		height := float64(lines) * 5
		if pdf.GetY()+height > pageHeight-25 {
			pdf.AddPage()
			drawHeader()
		}

		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
		style := "D"
		if n%2 == 1 {
			style = "FD"
			pdf.SetFillColor(colorTableAlt[0], colorTableAlt[1], colorTableAlt[2])
		}
		x, y := pdf.GetXY()
		for i, cell := range row {
			pdf.Rect(x, y, widths[i], height, style)
			pdf.SetXY(x, y)
			pdf.MultiCell(widths[i], 5, tr(cell), "", "L", false)
			x += widths[i]
		}
		pdf.SetXY(margin, y+height)
	}
}

func (g *PDFGenerator) writeInsights(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	if len(data.Insights) == 0 {
		g.emptyNote(pdf, "No environment data loaded.")
		return
	}
	header := []string{"Subscription", "VNets", "Subnets", "NSGs", "Route Tables", "BGP Enabled", "Peerings", "VNet Gateways", "ER Circuits", "Regions"}
	widths := []float64{67, 20, 20, 20, 24, 24, 20, 26, 24, 22}
	rows := make([][]string, 0, len(data.Insights)+1)
	for _, in := range append(data.Insights, data.Totals) {
		rows = append(rows, insightRow(in))
	}
	g.table(pdf, tr, widths, header, rows)
}

func insightRow(in inventory.SubscriptionInsight) []string {
	return []string{
		in.SubscriptionName,
		fmt.Sprint(in.VNets),
		fmt.Sprint(in.Subnets),
		fmt.Sprint(in.NSGs),
		fmt.Sprint(in.RouteTables),
		fmt.Sprint(in.BGPEnabledSubnets),
		fmt.Sprint(in.Peerings),
		fmt.Sprint(in.VNetGateways),
		fmt.Sprint(in.ExpressRouteCircuits),
		fmt.Sprint(in.RegionCount()),
	}
}

func (g *PDFGenerator) writeRoutes(pdf *fpdf.Fpdf, tr func(string) string, sub SubscriptionRoutes) {
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 6, "Subscription ID: "+sub.SubscriptionID, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(sub.Rows) == 0 {
		g.emptyNote(pdf, "No subnets in this subscription.")
		return
	}
	header := []string{"VNet", "Subnet", "Route Table", "BGP", "Routes", "NSG"}
	widths := []float64{45, 40, 35, 20, 88, 39}
	rows := make([][]string, 0, len(sub.Rows))
	for _, r := range sub.Rows {
		rows = append(rows, []string{
			r.VNetName + "\n" + r.VNetPrefixes,
			r.SubnetName + "\n" + r.SubnetPrefix,
			r.RouteTableName,
			r.BGPPropagation,
			FormatRoutes(r.Routes),
			r.NSGName,
		})
	}
	g.table(pdf, tr, widths, header, rows)
}

// FormatRoutes renders routes one per line as name, prefix, next hop type and next hop address.
func FormatRoutes(routes []inventory.Route) string {
	if len(routes) == 0 {
		return "No routes"
	}
	lines := make([]string, 0, len(routes))
	for _, r := range routes {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s", r.Name, r.AddressPrefix, r.NextHopType, r.NextHopIP()))
	}
	return strings.Join(lines, "\n")
}

func (g *PDFGenerator) writeIssues(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	scope := "all subscriptions"
	if data.HubSubscriptionID != "" {
		scope = "spokes of hub " + data.HubSubscriptionID
	}
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Expected firewall %s, checked %s", data.FirewallIP, scope)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(data.Issues) == 0 {
		g.emptyNote(pdf, "No issues found.")
		return
	}
	header := []string{"Subscription", "Route Table", "Route", "Description"}
	widths := []float64{70, 50, 50, 97}
	rows := make([][]string, 0, len(data.Issues))
	for _, is := range data.Issues {
		rows = append(rows, []string{is.Subscription, is.RouteTableName, is.RouteName, is.Description})
	}
	g.table(pdf, tr, widths, header, rows)
}

func (g *PDFGenerator) emptyNote(pdf *fpdf.Fpdf, msg string) {
	pdf.SetFont("Arial", "I", 11)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 10, msg, "", 1, "L", false, 0, "")
}

// addPageNumbers stamps every page except the cover.
func (g *PDFGenerator) addPageNumbers(pdf *fpdf.Fpdf) {
	pdf.SetAutoPageBreak(false, 0)
	total := pdf.PageCount()
	for i := 2; i <= total; i++ {
		pdf.SetPage(i)
		pageWidth, pageHeight := pdf.GetPageSize()

		pdf.SetY(pageHeight - 12)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of %d", i-1, total-1), "", 0, "C", false, 0, "")

		pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
		pdf.SetLineWidth(0.3)
		pdf.Line(margin, pageHeight-15, pageWidth-margin, pageHeight-15)
	}
}
