package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"item-catalog/internal/model"
)

// ItemRepository handles CRUD for catalog items.
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts the item. Title uniqueness and the category reference are
// left to the store; see IsConstraintViolation.
func (r *ItemRepository) Create(ctx context.Context, item *model.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate item: %w", err)
	}
	if err := r.db.WithContext(ctx).Omit("Category").Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID returns the item with its category loaded.
func (r *ItemRepository) GetByID(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Preload("Category").First(&item, id).Error; err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return &item, nil
}

func (r *ItemRepository) GetByTitle(ctx context.Context, title string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Preload("Category").Where("title = ?", title).First(&item).Error; err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return &item, nil
}

func (r *ItemRepository) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// ListByCategory returns the items of one category in insertion order.
func (r *ItemRepository) ListByCategory(ctx context.Context, categoryID uint) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list category items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) ListUncategorized(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Where("category_id IS NULL").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list uncategorized items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count category items: %w", err)
	}
	return count, nil
}

// Update writes title, description and category. AddedAt is never touched.
func (r *ItemRepository) Update(ctx context.Context, item *model.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate item: %w", err)
	}
	res := r.db.WithContext(ctx).Model(item).
		Select("title", "description", "category_id").
		Updates(item)
	if res.Error != nil {
		return fmt.Errorf("update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
