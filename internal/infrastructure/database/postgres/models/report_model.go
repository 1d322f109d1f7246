package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportModel represents the database model for Reports
type ReportModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text;not null"`
	Category    string    `gorm:"type:varchar(32);not null;index"`
	Latitude    *float64  `gorm:"type:double precision"`
	Longitude   *float64  `gorm:"type:double precision"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	FileName    *string   `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ReportModel) TableName() string {
	return "reports"
}
