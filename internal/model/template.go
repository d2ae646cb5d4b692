package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TemplateItem struct {
	RateID    string `json:"rateId"`
	Einheiten int    `json:"einheiten"`
}

type Template struct {
	ID             uuid.UUID                         `json:"id" gorm:"primaryKey;column:id;type:uuid"`
	Name           string                            `json:"name" gorm:"column:name;not null"`
	Description    string                            `json:"description,omitempty" gorm:"column:description"`
	IsShared       bool                              `json:"isShared" gorm:"column:is_shared;not null"`
	Items          datatypes.JSONSlice[TemplateItem] `json:"items" gorm:"column:items"`
	DefaultStunden decimal.NullDecimal               `json:"defaultStunden" gorm:"column:default_stunden;type:numeric(6,2)"`
	CreatedBy      uuid.UUID                         `json:"createdBy" gorm:"column:created_by;type:uuid"`
	CreatedAt      time.Time                         `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt      time.Time                         `json:"updatedAt" gorm:"column:updated_at"`
}

func (Template) TableName() string {
	return "calculation_templates"
}
