package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/magnus-copo/investor-api/internal/permissions"
)

type User struct {
	ID           uint64           `gorm:"primarykey" json:"id"`
	Name         string           `gorm:"type:varchar(255);not null" json:"name"`
	Email        string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string           `gorm:"type:varchar(255);not null" json:"-"`
	Role         permissions.Role `gorm:"type:varchar(20);not null;default:'INVESTOR'" json:"role"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Memberships []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
}
