package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
)

const fontName = "Helvetica"

var paymentLabels = map[model.PaymentMethod]string{
	model.PaymentCash:       "Barzahlung",
	model.PaymentCreditCard: "Kreditkarte",
	model.PaymentInvoice:    "Rechnung",
}

type Generator struct {
	issuer string
}

func NewGenerator(issuer string) *Generator {
	return &Generator{issuer: issuer}
}

// Render lays out the Kostenersatz document for one calculation. Core fonts
// are used with a cp1252 translator, which covers umlauts and the euro sign.
func (g *Generator) Render(doc model.CalculationDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontName, "", 8)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Seite %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	calc := doc.Calculation

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, tr("Kostenersatz"), "", 1, "L", false, 0, "")
	if g.issuer != "" {
		pdf.SetFont(fontName, "", 10)
		pdf.CellFormat(0, 5, tr(g.issuer), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, tr("Einsatz"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	start, end := doc.Period()
	lines := []string{
		doc.IncidentName(),
		fmt.Sprintf("Datum: %s", formatDate(doc.IncidentDate())),
		fmt.Sprintf("Zeitraum: %s", formatPeriod(start, end)),
	}
	if desc := doc.IncidentDescription(); desc != "" {
		lines = append(lines, desc)
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(2)

	addRecipientBlock(pdf, tr, calc.Recipient)
	pdf.Ln(4)

	widths := []float64{16, 74, 28, 14, 16, 16, 16}
	drawTableRow(pdf, tr, []string{"Pos.", "Bezeichnung", "Einheit", "Anz.", "Std.", "Preis", "Betrag"}, widths, true)

	rates := pricing.IndexRates(doc.Rates)
	for _, group := range groupItems(calc.Items, rates) {
		pdf.SetFont(fontName, "B", 9)
		pdf.CellFormat(sum(widths), 6, tr(fmt.Sprintf("%d  %s", group.number, group.name)), "1", 1, "L", false, 0, "")
		for _, row := range group.rows {
			drawTableRow(pdf, tr, []string{
				row.rate.ID,
				row.rate.Description,
				row.rate.Unit,
				fmt.Sprintf("%d", row.item.Einheiten),
				formatHours(row.item.AnzahlStunden),
				formatAmount(row.rate.Price),
				formatAmount(row.item.Sum),
			}, widths, false)
		}
		pdf.SetFont(fontName, "I", 9)
		pdf.CellFormat(sum(widths)-widths[6], 6, tr("Zwischensumme"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, tr(formatAmount(calc.Subtotals[group.number])), "1", 1, "R", false, 0, "")
	}

	if len(calc.CustomItems) > 0 {
		pdf.SetFont(fontName, "B", 9)
		pdf.CellFormat(sum(widths), 6, tr("Sonstige Positionen"), "1", 1, "L", false, 0, "")
		for i, item := range calc.CustomItems {
			drawTableRow(pdf, tr, []string{
				fmt.Sprintf("S.%d", i+1),
				item.Description,
				item.Unit,
				item.Quantity.String(),
				"",
				formatAmount(item.PricePerUnit),
				formatAmount(item.Sum),
			}, widths, false)
		}
	}

	pdf.Ln(2)
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Gesamtbetrag: %s", formatAmount(calc.TotalSum))), "", 1, "R", false, 0, "")

	if label, ok := paymentLabels[calc.Recipient.PaymentMethod]; ok {
		pdf.SetFont(fontName, "", 10)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Zahlungsart: %s", label)), "", 1, "L", false, 0, "")
	}
	if strings.TrimSpace(calc.Comment) != "" {
		pdf.Ln(2)
		pdf.SetFont(fontName, "", 9)
		pdf.MultiCell(0, 5, tr(calc.Comment), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Tarifversion: %s", calc.RateVersion)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Unterschrift: ______________________"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type itemRow struct {
	item model.LineItem
	rate model.Rate
}

type itemGroup struct {
	number int
	name   string
	rows   []itemRow
}

// groupItems orders line items by catalog position and groups them by
// category number. Orphaned items are not printed.
func groupItems(items []model.LineItem, rates pricing.RateIndex) []itemGroup {
	rows := make([]itemRow, 0, len(items))
	for _, item := range items {
		rate, ok := rates.Lookup(item.RateID)
		if !ok {
			continue
		}
		rows = append(rows, itemRow{item: item, rate: rate})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].rate.SortOrder < rows[j].rate.SortOrder
	})

	var groups []itemGroup
	for _, row := range rows {
		if n := len(groups); n == 0 || groups[n-1].number != row.rate.CategoryNumber {
			groups = append(groups, itemGroup{number: row.rate.CategoryNumber, name: row.rate.CategoryName})
		}
		last := &groups[len(groups)-1]
		last.rows = append(last.rows, row)
	}
	return groups
}

func addRecipientBlock(pdf *gofpdf.Fpdf, tr func(string) string, recipient model.Recipient) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, tr("Empfänger"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		safeValue(recipient.Name),
		safeValue(recipient.Address),
	}
	if recipient.Phone != "" {
		lines = append(lines, fmt.Sprintf("Telefon: %s", recipient.Phone))
	}
	if recipient.Email != "" {
		lines = append(lines, fmt.Sprintf("E-Mail: %s", recipient.Email))
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i > 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, tr(fitText(pdf, col, widths[i])), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func fitText(pdf *gofpdf.Fpdf, text string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// formatAmount renders an amount the Austrian way, e.g. "1.234,50 €".
func formatAmount(value decimal.Decimal) string {
	fixed := value.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	out := grouped.String() + "," + frac + " €"
	if negative {
		out = "-" + out
	}
	return out
}

func formatHours(value decimal.Decimal) string {
	return strings.Replace(value.String(), ".", ",", 1)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

func formatPeriod(start time.Time, end *time.Time) string {
	if start.IsZero() {
		return "-"
	}
	if end == nil || end.IsZero() {
		return start.Format("02.01.2006 15:04")
	}
	return fmt.Sprintf("%s - %s", start.Format("02.01.2006 15:04"), end.Format("02.01.2006 15:04"))
}
