package models

import "time"

// ActivityLog is append-only; replays of a known id are ignored.
type ActivityLog struct {
	UserID      uint   `gorm:"primaryKey;autoIncrement:false"`
	ID          string `gorm:"primaryKey;size:128"`
	Action      string `gorm:"not null"`
	Description string
	CreatedAt   time.Time `gorm:"index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
