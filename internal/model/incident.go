package model

import (
	"time"

	"github.com/google/uuid"
)

// Incident is the Einsatz record a calculation belongs to. The table is
// written by the incident service; this module only reads it.
type Incident struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;column:id;type:uuid"`
	Name        string     `json:"name" gorm:"column:name"`
	Description string     `json:"description" gorm:"column:description"`
	Address     string     `json:"address" gorm:"column:address"`
	AlarmedAt   time.Time  `json:"alarmedAt" gorm:"column:alarmed_at"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty" gorm:"column:finished_at"`
}

func (Incident) TableName() string {
	return "incidents"
}

// CalculationDocument is what the renderer and the exporter receive.
type CalculationDocument struct {
	Calculation Calculation
	Rates       []Rate
	Incident    Incident
}

func (d CalculationDocument) IncidentName() string {
	if d.Calculation.NameOverride != nil && *d.Calculation.NameOverride != "" {
		return *d.Calculation.NameOverride
	}
	return d.Incident.Name
}

func (d CalculationDocument) IncidentDate() time.Time {
	if d.Calculation.CallDateOverride != nil {
		return *d.Calculation.CallDateOverride
	}
	return d.Incident.AlarmedAt
}

func (d CalculationDocument) IncidentDescription() string {
	if d.Calculation.DescriptionOverride != nil && *d.Calculation.DescriptionOverride != "" {
		return *d.Calculation.DescriptionOverride
	}
	return d.Incident.Description
}

func (d CalculationDocument) Period() (time.Time, *time.Time) {
	start := d.Incident.AlarmedAt
	if d.Calculation.StartDateOverride != nil {
		start = *d.Calculation.StartDateOverride
	}
	end := d.Incident.FinishedAt
	if d.Calculation.EndDateOverride != nil {
		end = d.Calculation.EndDateOverride
	}
	return start, end
}
