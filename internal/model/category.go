package model

import "item-catalog/internal/slug"

// Category groups catalog items (Soccer, Snowboarding, etc.).
// Its items are loaded explicitly through the item repository.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;uniqueIndex;not null" validate:"required,max=50"`
}

// NameURL returns the name as a URL path segment.
func (c Category) NameURL() string {
	return slug.Encode(c.Name)
}

func (c Category) Validate() error {
	return validate.Struct(c)
}
