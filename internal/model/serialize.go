package model

import "time"

// ItemView is the public projection of an Item. The category back-reference
// is left out.
type ItemView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  *uint     `json:"category_id"`
	AddedAt     time.Time `json:"added_at"`
}

// CategoryView is the public projection of a Category and its items.
type CategoryView struct {
	ID    uint       `json:"id"`
	Name  string     `json:"name"`
	Items []ItemView `json:"items"`
}

func (i Item) Serialize() ItemView {
	return ItemView{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		CategoryID:  i.CategoryID,
		AddedAt:     i.AddedAt,
	}
}

// Serialize projects the category with the given items, kept in the order
// they were passed.
func (c Category) Serialize(items []Item) CategoryView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, item.Serialize())
	}
	return CategoryView{
		ID:    c.ID,
		Name:  c.Name,
		Items: views,
	}
}
