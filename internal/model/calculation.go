package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CalculationStatus string

const (
	StatusDraft     CalculationStatus = "draft"
	StatusCompleted CalculationStatus = "completed"
	StatusSent      CalculationStatus = "sent"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "bar"
	PaymentCreditCard PaymentMethod = "kreditkarte"
	PaymentInvoice    PaymentMethod = "rechnung"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case "", PaymentCash, PaymentCreditCard, PaymentInvoice:
		return true
	default:
		return false
	}
}

// LineItem is one tariff line of a calculation. Einheiten is never zero
// inside a calculation; a line that drops to zero units is removed.
type LineItem struct {
	RateID            string          `json:"rateId"`
	Einheiten         int             `json:"einheiten"`
	AnzahlStunden     decimal.Decimal `json:"anzahlStunden"`
	StundenOverridden bool            `json:"stundenOverridden"`
	Sum               decimal.Decimal `json:"sum"`
}

type CustomItem struct {
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Sum          decimal.Decimal `json:"sum"`
}

type Recipient struct {
	Name          string        `json:"name" gorm:"column:name"`
	Address       string        `json:"address" gorm:"column:address"`
	Phone         string        `json:"phone" gorm:"column:phone"`
	Email         string        `json:"email" gorm:"column:email"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"column:payment_method"`
}

// Subtotals maps a rate category number (1-12) to the summed line items of
// that category.
type Subtotals map[int]decimal.Decimal

type Calculation struct {
	ID                  uuid.UUID                       `json:"id" gorm:"primaryKey;column:id;type:uuid"`
	IncidentID          uuid.UUID                       `json:"incidentId" gorm:"column:incident_id;type:uuid;index"`
	RateVersion         string                          `json:"rateVersion" gorm:"column:rate_version;not null"`
	Status              CalculationStatus               `json:"status" gorm:"column:status;not null"`
	Items               datatypes.JSONSlice[LineItem]   `json:"items" gorm:"column:items"`
	CustomItems         datatypes.JSONSlice[CustomItem] `json:"customItems" gorm:"column:custom_items"`
	Vehicles            datatypes.JSONSlice[string]     `json:"vehicles" gorm:"column:vehicles"`
	Recipient           Recipient                       `json:"recipient" gorm:"embedded;embeddedPrefix:recipient_"`
	DefaultStunden      decimal.Decimal                 `json:"defaultStunden" gorm:"column:default_stunden;type:numeric(6,2);not null"`
	Subtotals           Subtotals                       `json:"subtotals" gorm:"column:subtotals;serializer:json;type:jsonb"`
	TotalSum            decimal.Decimal                 `json:"totalSum" gorm:"column:total_sum;type:numeric(12,2);not null"`
	CallDateOverride    *time.Time                      `json:"callDateOverride,omitempty" gorm:"column:call_date_override"`
	StartDateOverride   *time.Time                      `json:"startDateOverride,omitempty" gorm:"column:start_date_override"`
	EndDateOverride     *time.Time                      `json:"endDateOverride,omitempty" gorm:"column:end_date_override"`
	NameOverride        *string                         `json:"nameOverride,omitempty" gorm:"column:name_override"`
	DescriptionOverride *string                         `json:"descriptionOverride,omitempty" gorm:"column:description_override"`
	Comment             string                          `json:"comment,omitempty" gorm:"column:comment"`
	CreatedBy           uuid.UUID                       `json:"createdBy" gorm:"column:created_by;type:uuid"`
	CreatedAt           time.Time                       `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt           time.Time                       `json:"updatedAt" gorm:"column:updated_at"`
	EmailSentAt         *time.Time                      `json:"emailSentAt,omitempty" gorm:"column:email_sent_at"`
}

func (Calculation) TableName() string {
	return "calculations"
}

// Clone returns a deep copy; edits on the copy never reach the receiver.
func (c Calculation) Clone() Calculation {
	out := c
	out.Items = append(datatypes.JSONSlice[LineItem]{}, c.Items...)
	out.CustomItems = append(datatypes.JSONSlice[CustomItem]{}, c.CustomItems...)
	out.Vehicles = append(datatypes.JSONSlice[string]{}, c.Vehicles...)
	out.Subtotals = make(Subtotals, len(c.Subtotals))
	for k, v := range c.Subtotals {
		out.Subtotals[k] = v
	}
	out.CallDateOverride = cloneTime(c.CallDateOverride)
	out.StartDateOverride = cloneTime(c.StartDateOverride)
	out.EndDateOverride = cloneTime(c.EndDateOverride)
	out.NameOverride = cloneString(c.NameOverride)
	out.DescriptionOverride = cloneString(c.DescriptionOverride)
	out.EmailSentAt = cloneTime(c.EmailSentAt)
	return out
}

func (c Calculation) ItemIndex(rateID string) int {
	for i, item := range c.Items {
		if item.RateID == rateID {
			return i
		}
	}
	return -1
}

func (c Calculation) HasVehicle(vehicleID string) bool {
	for _, id := range c.Vehicles {
		if id == vehicleID {
			return true
		}
	}
	return false
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
