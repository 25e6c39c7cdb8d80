package models

import "time"

// EarnedRewards is a per-user singleton.
type EarnedRewards struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	Points    int  `gorm:"not null"`
	Minutes   int  `gorm:"not null"`
	Rubles    int  `gorm:"not null"`
	UpdatedAt time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
