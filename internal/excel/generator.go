package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
)

const (
	summarySheet = "Übersicht"
	itemsSheet   = "Positionen"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes a workbook with a summary sheet (incident, recipient,
// subtotals per category) and a sheet listing every position.
func (g *Generator) Generate(doc model.CalculationDocument) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := file.NewSheet(itemsSheet); err != nil {
		return nil, err
	}

	rates := pricing.IndexRates(doc.Rates)
	if err := g.writeSummary(file, doc, rates); err != nil {
		return nil, err
	}
	if err := g.writeItems(file, doc, rates); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, doc model.CalculationDocument, rates pricing.RateIndex) error {
	calc := doc.Calculation
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Einsatz")
	set("B1", doc.IncidentName())
	set("A2", "Datum")
	set("B2", formatDate(doc))
	set("A3", "Empfänger")
	set("B3", calc.Recipient.Name)
	set("A4", "Adresse")
	set("B4", calc.Recipient.Address)
	set("A5", "Status")
	set("B5", string(calc.Status))
	set("A6", "Tarifversion")
	set("B6", calc.RateVersion)
	set("A7", "Standardstunden")
	set("B7", calc.DefaultStunden.InexactFloat64())

	tableRow := 9
	set(fmt.Sprintf("A%d", tableRow), "Kategorie")
	set(fmt.Sprintf("B%d", tableRow), "Bezeichnung")
	set(fmt.Sprintf("C%d", tableRow), "Zwischensumme")

	names := categoryNames(rates)
	row := tableRow + 1
	for _, number := range sortedCategories(calc.Subtotals) {
		set(fmt.Sprintf("A%d", row), number)
		set(fmt.Sprintf("B%d", row), names[number])
		set(fmt.Sprintf("C%d", row), calc.Subtotals[number].InexactFloat64())
		row++
	}

	customTotal := pricing.CalculateTotalSum(nil, calc.CustomItems)
	if !customTotal.IsZero() {
		set(fmt.Sprintf("B%d", row), "Sonstige Positionen")
		set(fmt.Sprintf("C%d", row), customTotal.InexactFloat64())
		row++
	}
	set(fmt.Sprintf("B%d", row), "Gesamtbetrag")
	set(fmt.Sprintf("C%d", row), calc.TotalSum.InexactFloat64())

	if err := applyMoneyFormat(file, summarySheet, fmt.Sprintf("C%d", tableRow+1), fmt.Sprintf("C%d", row)); err != nil {
		return err
	}
	_ = file.SetColWidth(summarySheet, "A", "A", 18)
	_ = file.SetColWidth(summarySheet, "B", "B", 40)
	_ = file.SetColWidth(summarySheet, "C", "C", 16)
	return nil
}

func (g *Generator) writeItems(file *excelize.File, doc model.CalculationDocument, rates pricing.RateIndex) error {
	calc := doc.Calculation
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(itemsSheet, cell, value)
	}

	headers := []string{"Pos.", "Kategorie", "Bezeichnung", "Einheit", "Anzahl", "Stunden", "Preis", "Pauschale", "Betrag"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	row := 2
	for _, item := range calc.Items {
		rate, ok := rates.Lookup(item.RateID)
		description := rate.Description
		if !ok {
			description = "Unbekannter Tarif"
		}
		values := []interface{}{
			item.RateID,
			rate.CategoryNumber,
			description,
			rate.Unit,
			item.Einheiten,
			item.AnzahlStunden.InexactFloat64(),
			rate.Price.InexactFloat64(),
			nil,
			item.Sum.InexactFloat64(),
		}
		if rate.PricePauschal.Valid {
			values[7] = rate.PricePauschal.Decimal.InexactFloat64()
		}
		writeRow(file, row, values)
		row++
	}
	for i, item := range calc.CustomItems {
		writeRow(file, row, []interface{}{
			fmt.Sprintf("S.%d", i+1),
			nil,
			item.Description,
			item.Unit,
			item.Quantity.InexactFloat64(),
			nil,
			item.PricePerUnit.InexactFloat64(),
			nil,
			item.Sum.InexactFloat64(),
		})
		row++
	}

	if row > 2 {
		if err := applyMoneyFormat(file, itemsSheet, "G2", fmt.Sprintf("I%d", row-1)); err != nil {
			return err
		}
	}
	_ = file.SetColWidth(itemsSheet, "C", "C", 45)
	_ = file.SetColWidth(itemsSheet, "D", "D", 16)
	return file.AutoFilter(itemsSheet, fmt.Sprintf("A1:I%d", max(row-1, 1)), nil)
}

func writeRow(file *excelize.File, row int, values []interface{}) {
	for i, value := range values {
		if value == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = file.SetCellValue(itemsSheet, cell, value)
	}
}

func applyMoneyFormat(file *excelize.File, sheet, from, to string) error {
	format := "#,##0.00 [$€-C07]"
	style, err := file.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}
	return file.SetCellStyle(sheet, from, to, style)
}
