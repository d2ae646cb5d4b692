package model

import (
	"time"

	"github.com/google/uuid"
)

type Vehicle struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;column:id;type:uuid"`
	Name        string    `json:"name" gorm:"column:name;not null"`
	Description string    `json:"description" gorm:"column:description"`
	RateID      string    `json:"rateId" gorm:"column:rate_id;not null"`
	SortOrder   int       `json:"sortOrder" gorm:"column:sort_order;not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
