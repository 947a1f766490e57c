package model

import (
	"time"

	"item-catalog/internal/slug"
)

// Item represents a single entry in the catalog.
type Item struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;uniqueIndex;not null" validate:"required,max=255"`
	Description string `gorm:"size:768" validate:"max=768"`
	CategoryID  *uint  `gorm:"index"`
	// Category is only populated by single-item reads.
	Category *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" validate:"-"`
	AddedAt  time.Time `gorm:"<-:create;autoCreateTime;not null"`
}

// TitleURL returns the title as a URL path segment.
func (i Item) TitleURL() string {
	return slug.Encode(i.Title)
}

func (i Item) Validate() error {
	return validate.Struct(i)
}
