package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	Email            string    `gorm:"unique;not null"`
	Password         string    `gorm:"not null" json:"-"`
	FullName         string    `gorm:"not null"`
	EventsRegistered []string  `gorm:"serializer:json"`
	RoleID           uuid.UUID
	Role             Role
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

// AddRegisteredEvent appends an event id to the user's registered list,
// skipping ids already present.
func (user *User) AddRegisteredEvent(eventID string) bool {
	for _, id := range user.EventsRegistered {
		if id == eventID {
			return false
		}
	}
	user.EventsRegistered = append(user.EventsRegistered, eventID)
	return true
}
