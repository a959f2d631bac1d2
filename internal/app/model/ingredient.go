package model

import (
	"time"
)

type Ingredient struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	MeasurementUnit string    `gorm:"type:varchar(50);not null" json:"measurement_unit"`
	CreatedAt       time.Time `json:"-"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
