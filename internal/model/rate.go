package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateCategory is the billing class a rate belongs to.
type RateCategory string

const (
	CategoryPersonnel   RateCategory = "A"
	CategoryEquipment   RateCategory = "B"
	CategoryConsumables RateCategory = "C"
	CategoryServices    RateCategory = "D"
)

func (c RateCategory) IsValid() bool {
	switch c {
	case CategoryPersonnel, CategoryEquipment, CategoryConsumables, CategoryServices:
		return true
	default:
		return false
	}
}

type Rate struct {
	ID             string              `json:"id" gorm:"primaryKey;column:id;type:varchar(16)"`
	Version        string              `json:"version" gorm:"primaryKey;column:version;type:varchar(64)"`
	Category       RateCategory        `json:"category" gorm:"column:category;type:varchar(1);not null"`
	CategoryNumber int                 `json:"categoryNumber" gorm:"column:category_number;not null"`
	CategoryName   string              `json:"categoryName" gorm:"column:category_name;not null"`
	Description    string              `json:"description" gorm:"column:description;not null"`
	Unit           string              `json:"unit" gorm:"column:unit;not null"`
	Price          decimal.Decimal     `json:"price" gorm:"column:price;type:numeric(12,2);not null"`
	PricePauschal  decimal.NullDecimal `json:"pricePauschal" gorm:"column:price_pauschal;type:numeric(12,2)"`
	PauschalHours  decimal.NullDecimal `json:"pauschalHours" gorm:"column:pauschal_hours;type:numeric(6,2)"`
	IsExtendable   bool                `json:"isExtendable" gorm:"column:is_extendable;not null"`
	SortOrder      int                 `json:"sortOrder" gorm:"column:sort_order;not null"`
	ValidFrom      time.Time           `json:"validFrom" gorm:"column:valid_from;not null"`
}

func (Rate) TableName() string {
	return "rates"
}

type RateVersion struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	ValidFrom time.Time `json:"validFrom" gorm:"column:valid_from;not null"`
	IsActive  bool      `json:"isActive" gorm:"column:is_active;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	CreatedBy string    `json:"createdBy" gorm:"column:created_by"`
}

func (RateVersion) TableName() string {
	return "rate_versions"
}
