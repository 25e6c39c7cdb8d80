package models

import "time"

const (
	RewardPoints  = "points"
	RewardMinutes = "minutes"
	RewardRubles  = "rubles"
)

type Task struct {
	UserID        uint   `gorm:"primaryKey;autoIncrement:false"`
	ID            string `gorm:"primaryKey;size:128"`
	Title         string `gorm:"not null"`
	Description   string
	CategoryID    string  `gorm:"size:128;index"`
	ProjectID     string  `gorm:"size:128;index"`
	SectionID     *string `gorm:"size:128"`
	RewardType    string  `gorm:"size:16;not null"`
	RewardAmount  int     `gorm:"not null"`
	Completed     bool    `gorm:"not null"`
	Priority      int     `gorm:"not null"`
	ScheduledDate *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time `gorm:"index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
