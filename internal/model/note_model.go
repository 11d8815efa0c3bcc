package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id         uint      `gorm:"primaryKey;autoIncrement"`
	Title      string    `gorm:"type:varchar(255);not null"`
	Body       string    `gorm:"type:text;not null"`
	Slug       string    `gorm:"type:varchar(255);index"`
	Background string    `gorm:"type:varchar(255);not null;default:'fallback.png'"`
	UserId     uuid.UUID `gorm:"type:varchar(36);not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Note) TableName() string {
	return "notes"
}
