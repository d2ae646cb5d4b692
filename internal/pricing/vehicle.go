package pricing

import (
	"fmt"

	"github.com/nurpe/kostenersatz/internal/model"
)

// ToggleVehicle selects or deselects a fleet vehicle on calc and keeps the
// unit count of the vehicle's rate line in step. fleet maps vehicle ids to
// their rate ids and is consulted on deselection: while another selected
// vehicle still bills the same rate the line loses one unit, otherwise the
// line is removed.
func ToggleVehicle(calc model.Calculation, vehicle model.Vehicle, fleet map[string]string, rates RateIndex) (model.Calculation, error) {
	if _, ok := rates.Lookup(vehicle.RateID); !ok {
		return calc, fmt.Errorf("%w: vehicle %s references %s", ErrRateNotFound, vehicle.Name, vehicle.RateID)
	}

	vehicleID := vehicle.ID.String()
	out := calc.Clone()
	idx := out.ItemIndex(vehicle.RateID)

	if !out.HasVehicle(vehicleID) {
		out.Vehicles = append(out.Vehicles, vehicleID)
		if idx >= 0 {
			out.Items[idx].Einheiten++
		} else {
			out.Items = append(out.Items, model.LineItem{
				RateID:        vehicle.RateID,
				Einheiten:     1,
				AnzahlStunden: out.DefaultStunden,
			})
		}
		return Recompute(out, rates), nil
	}

	for i, id := range out.Vehicles {
		if id == vehicleID {
			out.Vehicles = append(out.Vehicles[:i], out.Vehicles[i+1:]...)
			break
		}
	}
	if idx < 0 {
		return Recompute(out, rates), nil
	}

	if sharesRate(out.Vehicles, fleet, vehicle.RateID) && out.Items[idx].Einheiten > 1 {
		out.Items[idx].Einheiten--
	} else {
		out.Items = append(out.Items[:idx], out.Items[idx+1:]...)
	}
	return Recompute(out, rates), nil
}

func sharesRate(selected []string, fleet map[string]string, rateID string) bool {
	for _, id := range selected {
		if fleet[id] == rateID {
			return true
		}
	}
	return false
}

// FleetRates indexes vehicles by id for ToggleVehicle.
func FleetRates(vehicles []model.Vehicle) map[string]string {
	out := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		out[v.ID.String()] = v.RateID
	}
	return out
}
