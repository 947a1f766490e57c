package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"item-catalog/internal/model"
	"item-catalog/internal/repository"
	"item-catalog/internal/slug"
)

// ItemInput represents data required to create or update an item.
// An empty Category leaves the item uncategorized.
type ItemInput struct {
	Title       string
	Description string
	Category    string
}

// ItemService wraps item-related business logic.
type ItemService struct {
	itemRepo     *repository.ItemRepository
	categoryRepo *repository.CategoryRepository
}

func NewItemService(itemRepo *repository.ItemRepository, categoryRepo *repository.CategoryRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo, categoryRepo: categoryRepo}
}

func (s *ItemService) Create(ctx context.Context, input ItemInput) (*model.Item, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	categoryID, err := s.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	item := model.Item{
		Title:       input.Title,
		Description: input.Description,
		CategoryID:  categoryID,
	}
	if err := s.itemRepo.Create(ctx, &item); err != nil {
		return nil, err
	}

	zap.L().Info("item created", zap.Uint("id", item.ID), zap.String("title", item.Title))
	return &item, nil
}

func (s *ItemService) Get(ctx context.Context, id uint) (*model.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// GetBySlug resolves a URL path segment built with Item.TitleURL.
func (s *ItemService) GetBySlug(ctx context.Context, titleURL string) (*model.Item, error) {
	return s.itemRepo.GetByTitle(ctx, slug.Decode(titleURL))
}

func (s *ItemService) Update(ctx context.Context, id uint, input ItemInput) (*model.Item, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	categoryID, err := s.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	item.Title = input.Title
	item.Description = input.Description
	item.CategoryID = categoryID
	item.Category = nil
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, id uint) error {
	return s.itemRepo.Delete(ctx, id)
}

func (s *ItemService) resolveCategory(ctx context.Context, name string) (*uint, error) {
	if name == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.GetOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}
