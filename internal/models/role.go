package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStaff    = "staff"
	RoleNonStaff = "non-staff"
)

type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (role *Role) BeforeCreate(tx *gorm.DB) (err error) {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	return
}
