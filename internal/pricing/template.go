package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nurpe/kostenersatz/internal/model"
)

type CaptureInput struct {
	Name           string
	Description    string
	Items          []model.LineItem
	DefaultStunden decimal.NullDecimal
	IsShared       bool
}

// CaptureTemplate keeps only rate ids and unit counts of the given items.
// Identity and ownership are left to the caller.
func CaptureTemplate(in CaptureInput) (model.Template, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Template{}, fmt.Errorf("%w: template name is required", ErrInvalidValue)
	}
	if in.DefaultStunden.Valid && !in.DefaultStunden.Decimal.IsPositive() {
		return model.Template{}, fmt.Errorf("%w: default hours must be positive", ErrInvalidValue)
	}

	items := make([]model.TemplateItem, 0, len(in.Items))
	positions := make(map[string]int, len(in.Items))
	for _, item := range in.Items {
		if item.Einheiten <= 0 {
			continue
		}
		if pos, ok := positions[item.RateID]; ok {
			items[pos].Einheiten += item.Einheiten
			continue
		}
		positions[item.RateID] = len(items)
		items = append(items, model.TemplateItem{RateID: item.RateID, Einheiten: item.Einheiten})
	}

	return model.Template{
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		IsShared:       in.IsShared,
		Items:          items,
		DefaultStunden: in.DefaultStunden,
	}, nil
}

// ApplyTemplate replaces every line item of calc with the template's lines.
// Template entries whose rate is not in the catalog are skipped and reported
// back by id. A template default for hours becomes the calculation default,
// and the vehicle selection is cleared since it no longer matches the items.
func ApplyTemplate(tpl model.Template, calc model.Calculation, rates RateIndex) (model.Calculation, []string) {
	hours := calc.DefaultStunden
	if tpl.DefaultStunden.Valid && tpl.DefaultStunden.Decimal.IsPositive() {
		hours = tpl.DefaultStunden.Decimal
	}

	out := calc.Clone()
	out.DefaultStunden = hours
	out.Items = out.Items[:0]
	out.Vehicles = out.Vehicles[:0]

	var skipped []string
	for _, entry := range tpl.Items {
		if _, ok := rates.Lookup(entry.RateID); !ok {
			skipped = append(skipped, entry.RateID)
			continue
		}
		if entry.Einheiten <= 0 {
			continue
		}
		if idx := out.ItemIndex(entry.RateID); idx >= 0 {
			out.Items[idx].Einheiten += entry.Einheiten
			continue
		}
		out.Items = append(out.Items, model.LineItem{
			RateID:        entry.RateID,
			Einheiten:     entry.Einheiten,
			AnzahlStunden: hours,
		})
	}
	return Recompute(out, rates), skipped
}
