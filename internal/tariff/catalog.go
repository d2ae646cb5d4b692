package tariff

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/kostenersatz/internal/model"
)

const DefaultVersionID = "default"

// DefaultValidFrom is stamped on every rate of the built-in catalog.
var DefaultValidFrom = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var flatRateFactor = decimal.NewFromInt(5)

type categoryDef struct {
	number int
	class  model.RateCategory
	name   string
}

var categories = []categoryDef{
	{1, model.CategoryPersonnel, "Personal"},
	{2, model.CategoryEquipment, "Kommando- und Kleinfahrzeuge"},
	{3, model.CategoryEquipment, "Tanklöschfahrzeuge"},
	{4, model.CategoryEquipment, "Rüst- und Hubrettungsfahrzeuge"},
	{5, model.CategoryEquipment, "Sonderfahrzeuge und Anhänger"},
	{6, model.CategoryEquipment, "Pumpen und Stromerzeuger"},
	{7, model.CategoryEquipment, "Atemschutz und Messgeräte"},
	{8, model.CategoryEquipment, "Hydraulische Rettungsgeräte"},
	{9, model.CategoryEquipment, "Sonstige Geräte"},
	{10, model.CategoryConsumables, "Löschmittel"},
	{11, model.CategoryConsumables, "Bindemittel und Entsorgung"},
	{12, model.CategoryServices, "Sonstige Leistungen"},
}

type rateDef struct {
	id          string
	category    int
	description string
	unit        string
	price       string
	extendable  bool
	perUnit     bool
}

// Hourly lines carry a flat price of five hours. Consumables are billed per
// unit: a one hour baseline at the unit price, never extended.
var defaultRates = []rateDef{
	{"1.01", 1, "Feuerwehrmitglied", "Person/Stunde", "38.50", true, false},
	{"1.02", 1, "Einsatzleiter", "Person/Stunde", "46.20", true, false},
	{"1.03", 1, "Atemschutzgeräteträger", "Person/Stunde", "42.00", true, false},
	{"2.01", 2, "Kommandofahrzeug (KDO)", "Fahrzeug/Stunde", "21.60", false, false},
	{"2.02", 2, "Mannschaftstransportfahrzeug (MTF)", "Fahrzeug/Stunde", "25.20", false, false},
	{"2.03", 2, "Kleinlöschfahrzeug (KLF)", "Fahrzeug/Stunde", "43.40", false, false},
	{"2.04", 2, "Versorgungsfahrzeug", "Fahrzeug/Stunde", "30.80", false, false},
	{"3.01", 3, "Tanklöschfahrzeug TLF 2000", "Fahrzeug/Stunde", "98.70", true, false},
	{"3.02", 3, "Tanklöschfahrzeug TLF 4000", "Fahrzeug/Stunde", "126.40", true, false},
	{"3.03", 3, "Hilfeleistungslöschfahrzeug HLF", "Fahrzeug/Stunde", "112.30", true, false},
	{"4.01", 4, "Rüstlöschfahrzeug (RLF)", "Fahrzeug/Stunde", "134.60", true, false},
	{"4.02", 4, "Schweres Rüstfahrzeug (SRF)", "Fahrzeug/Stunde", "168.20", true, false},
	{"4.03", 4, "Drehleiter DLK 23-12", "Fahrzeug/Stunde", "185.40", true, false},
	{"4.04", 4, "Teleskopmastbühne", "Fahrzeug/Stunde", "176.90", true, false},
	{"5.01", 5, "Wechselladefahrzeug", "Fahrzeug/Stunde", "92.50", true, false},
	{"5.02", 5, "Abrollbehälter Schadstoff", "Stück/Stunde", "64.30", false, false},
	{"5.03", 5, "Anhänger", "Stück/Stunde", "12.40", false, false},
	{"6.01", 6, "Tragkraftspritze", "Stück/Stunde", "18.90", false, false},
	{"6.02", 6, "Tauchpumpe", "Stück/Stunde", "9.80", false, false},
	{"6.03", 6, "Stromerzeuger bis 10 kVA", "Stück/Stunde", "11.60", false, false},
	{"6.04", 6, "Hochleistungslüfter", "Stück/Stunde", "14.20", false, false},
	{"7.01", 7, "Atemschutzgerät inkl. Flaschenfüllung", "Stück/Stunde", "8.70", false, false},
	{"7.02", 7, "Chemikalienschutzanzug", "Stück/Stunde", "48.00", false, false},
	{"7.03", 7, "Gasmessgerät", "Stück/Stunde", "12.50", false, false},
	{"8.01", 8, "Hydraulisches Rettungsgerät (Schere/Spreizer)", "Satz/Stunde", "24.30", false, false},
	{"8.02", 8, "Hebekissensatz", "Satz/Stunde", "15.60", false, false},
	{"9.01", 9, "Motorkettensäge", "Stück/Stunde", "7.90", false, false},
	{"9.02", 9, "Wärmebildkamera", "Stück/Stunde", "10.40", false, false},
	{"9.03", 9, "Beleuchtungssatz", "Satz/Stunde", "6.20", false, false},
	{"10.01", 10, "Schaummittel", "Liter", "6.80", false, true},
	{"10.02", 10, "Löschpulver", "kg", "5.40", false, true},
	{"10.03", 10, "Kohlendioxid", "kg", "4.90", false, true},
	{"11.01", 11, "Ölbindemittel", "Sack", "24.50", false, true},
	{"11.02", 11, "Entsorgung kontaminierter Bindemittel", "kg", "1.80", false, true},
	{"11.03", 11, "Ölsperre", "Laufmeter", "12.00", false, true},
	{"12.01", 12, "Fahrzeugreinigung nach Schadstoffeinsatz", "Stunde", "42.00", true, false},
	{"12.02", 12, "Brandsicherheitswache", "Person/Stunde", "35.00", true, false},
}

// DefaultCatalog returns the built-in rates stamped with versionID, ordered by
// sortOrder. Every call builds a fresh slice.
func DefaultCatalog(versionID string) []model.Rate {
	byNumber := make(map[int]categoryDef, len(categories))
	for _, c := range categories {
		byNumber[c.number] = c
	}

	rates := make([]model.Rate, 0, len(defaultRates))
	for i, def := range defaultRates {
		category := byNumber[def.category]
		price := decimal.RequireFromString(def.price)

		rate := model.Rate{
			ID:             def.id,
			Version:        versionID,
			Category:       category.class,
			CategoryNumber: category.number,
			CategoryName:   category.name,
			Description:    def.description,
			Unit:           def.unit,
			Price:          price,
			IsExtendable:   def.extendable,
			SortOrder:      i + 1,
			ValidFrom:      DefaultValidFrom,
		}
		if def.perUnit {
			rate.PricePauschal = decimal.NewNullDecimal(price)
			rate.PauschalHours = decimal.NewNullDecimal(decimal.NewFromInt(1))
		} else {
			rate.PricePauschal = decimal.NewNullDecimal(price.Mul(flatRateFactor))
		}
		rates = append(rates, rate)
	}
	return rates
}

// CategoryNames lists the display name of each category number.
func CategoryNames() map[int]string {
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[c.number] = c.name
	}
	return names
}
