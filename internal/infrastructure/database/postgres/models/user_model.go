package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Username       string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHashed string    `gorm:"column:password_hash;type:varchar(255);not null"`
	FirstName      string    `gorm:"type:varchar(100);not null;default:''"`
	LastName       string    `gorm:"type:varchar(100);not null;default:''"`
	Phone          *string   `gorm:"type:varchar(20)"`
	Address        *string   `gorm:"type:text"`
	Score          int       `gorm:"not null;default:0"`
	IsAdmin        bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
