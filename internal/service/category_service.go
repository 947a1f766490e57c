package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"item-catalog/internal/model"
	"item-catalog/internal/repository"
	"item-catalog/internal/slug"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo     *repository.CategoryRepository
	itemRepo *repository.ItemRepository
}

func NewCategoryService(repo *repository.CategoryRepository, itemRepo *repository.ItemRepository) *CategoryService {
	return &CategoryService{repo: repo, itemRepo: itemRepo}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	category := model.Category{Name: name}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	zap.L().Info("category created", zap.Uint("id", category.ID), zap.String("name", category.Name))
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return s.repo.GetByName(ctx, name)
}

// GetBySlug resolves a URL path segment built with Category.NameURL.
func (s *CategoryService) GetBySlug(ctx context.Context, nameURL string) (*model.Category, error) {
	return s.repo.GetByName(ctx, slug.Decode(nameURL))
}

func (s *CategoryService) Rename(ctx context.Context, id uint, name string) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category; its items stay in the catalog without one.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("category deleted", zap.Uint("id", id))
	return nil
}

func (s *CategoryService) Serialize(ctx context.Context, category model.Category) (model.CategoryView, error) {
	items, err := s.itemRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		return model.CategoryView{}, err
	}
	return category.Serialize(items), nil
}

// Catalog serializes every category with its items.
func (s *CategoryService) Catalog(ctx context.Context) ([]model.CategoryView, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.CategoryView, 0, len(categories))
	for _, category := range categories {
		view, err := s.Serialize(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("serialize category %d: %w", category.ID, err)
		}
		views = append(views, view)
	}
	return views, nil
}
