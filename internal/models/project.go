package models

import "time"

type Project struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	ID        string `gorm:"primaryKey;size:128"`
	Name      string `gorm:"not null"`
	Icon      string
	Color     string
	CreatedAt time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// Section rows are keyed inside their project and removed with it.
type Section struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	ProjectID string `gorm:"primaryKey;size:128"`
	ID        string `gorm:"primaryKey;size:128"`
	Name      string `gorm:"not null"`
	Order     int    `gorm:"column:position;not null"`
	CreatedAt time.Time

	// Relationships
	Project Project `gorm:"foreignKey:UserID,ProjectID;references:UserID,ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
