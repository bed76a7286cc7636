package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const PaymentStatusCompleted = "completed"

// Registration links one user to one event. EventTitle is a denormalized
// copy of the event's title kept in sync by the event update handler.
// The composite unique index makes duplicate sign-ups fail at the storage
// layer even when two sessions pass the application pre-check at once.
type Registration struct {
	gorm.Model
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_event_user"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_event_user"`
	EventTitle       string    `gorm:"not null"`
	RegistrationDate time.Time `gorm:"not null"`
	PaymentStatus    string    `gorm:"not null;default:'completed'"`
}

func (registration *Registration) BeforeCreate(tx *gorm.DB) (err error) {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	return
}
