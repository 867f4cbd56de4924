package summary

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sepStyle    = lipgloss.NewStyle().Faint(true)
)

var (
	billion = decimal.NewFromInt(1_000_000_000)
	million = decimal.NewFromInt(1_000_000)
)

// table is a static, column-aligned text table.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(t.title))
	sb.WriteString("\n")

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	// Width includes padding.
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	writeRow := func(style lipgloss.Style, cells []string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(style.Width(widths[i]).Render(cell))
			if i < len(widths)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headerStyle, t.headers)
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	if len(t.rows) == 0 {
		sb.WriteString(cellStyle.Render("(none)"))
		sb.WriteString("\n")
	}
	for _, row := range t.rows {
		writeRow(cellStyle, row)
	}

	return sb.String()
}

// FormatMoney renders d as a short dollar amount: $2.00B, $25.00M, $912.34.
func FormatMoney(d decimal.Decimal) string {
	switch {
	case d.Abs().GreaterThanOrEqual(billion):
		return "$" + d.Div(billion).StringFixed(2) + "B"
	case d.Abs().GreaterThanOrEqual(million):
		return "$" + d.Div(million).StringFixed(2) + "M"
	default:
		return "$" + d.StringFixed(2)
	}
}

// Render writes the KPI block and the tier, sector and detail tables.
func Render(w io.Writer, s Summary) error {
	var sb strings.Builder

	kpi := newTable("Overview", "Metric", "Value")
	kpi.addRow("Total Committed Capital", FormatMoney(s.TotalCapital))
	kpi.addRow("Avg Market Cap", FormatMoney(s.AvgMarketCap))
	kpi.addRow("Companies Tracked", strconv.Itoa(s.Companies))
	sb.WriteString(kpi.render())
	sb.WriteString("\n")

	tiers := newTable("Tier Distribution", "Tier", "Companies")
	for _, tc := range s.ByTier {
		label := tc.Tier.Label()
		if label == "" {
			label = "Unassigned"
		}
		tiers.addRow(label, strconv.Itoa(tc.Count))
	}
	sb.WriteString(tiers.render())
	sb.WriteString("\n")

	sectors := newTable("Capital by Sector", "Sector", "Capital")
	for _, sc := range s.BySector {
		sectors.addRow(sc.Sector, FormatMoney(sc.Capital))
	}
	sb.WriteString(sectors.render())
	sb.WriteString("\n")

	detail := newTable("Companies", "Ticker", "Company", "Tier", "Sector", "Estimated Value", "Market Cap")
	for _, r := range s.Records {
		detail.addRow(r.Ticker, r.Company, r.Tier.Short(), r.Sector, FormatMoney(r.EstimatedValue), FormatMoney(r.MarketCap))
	}
	sb.WriteString(detail.render())

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
