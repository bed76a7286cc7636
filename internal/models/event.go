package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Title         string    `gorm:"not null"`
	Description   string    `gorm:"not null"`
	Location      string    `gorm:"not null"`
	ImageURL      string
	StartDateTime time.Time `gorm:"not null"`
	EndDateTime   time.Time `gorm:"not null"`
	Price         float64   `gorm:"not null;default:0"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// IsFree reports whether registration requires no payment.
func (event *Event) IsFree() bool {
	return event.Price == 0
}
