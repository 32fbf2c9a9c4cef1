package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Beat struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Title      string    `gorm:"not null"                 json:"title"`
	BPM        int       `gorm:"not null"                 json:"bpm"`
	Style      string    `gorm:"not null;index"           json:"style"`
	Key        string    `gorm:"not null"                 json:"key"`
	Price      float64   `gorm:"not null"                 json:"price"`
	PreviewURL string    `gorm:"not null"                 json:"previewUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	User       *User     `json:"-"`
	Licenses   []License `gorm:"foreignKey:BeatID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Beat) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type License struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	BeatID     uuid.UUID `gorm:"type:uuid;index;not null" json:"beatId"`
	Name       string    `gorm:"not null"                 json:"name"`
	Price      float64   `gorm:"not null"                 json:"price"`
	RightsText string    `gorm:"not null"                 json:"rightsText"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (l *License) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
