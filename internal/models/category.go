package models

import "time"

// Category ids are generated by the client and unique per user.
type Category struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	ID        string `gorm:"primaryKey;size:128"`
	Name      string `gorm:"not null"`
	Icon      string
	Color     string
	CreatedAt time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
