package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"item-catalog/internal/model"
	"item-catalog/internal/repository"
)

// Snapshot is a full serialized copy of the catalog.
type Snapshot struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	Categories    []model.CategoryView `json:"categories"`
	Uncategorized []model.ItemView     `json:"uncategorized"`
}

// SnapshotService exports the catalog as JSON.
type SnapshotService struct {
	categories *CategoryService
	itemRepo   *repository.ItemRepository
	now        func() time.Time
}

func NewSnapshotService(categories *CategoryService, itemRepo *repository.ItemRepository) *SnapshotService {
	return &SnapshotService{categories: categories, itemRepo: itemRepo, now: time.Now}
}

func (s *SnapshotService) Build(ctx context.Context) (Snapshot, error) {
	categories, err := s.categories.Catalog(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	loose, err := s.itemRepo.ListUncategorized(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	uncategorized := make([]model.ItemView, 0, len(loose))
	for _, item := range loose {
		uncategorized = append(uncategorized, item.Serialize())
	}

	return Snapshot{
		GeneratedAt:   s.now().UTC(),
		Categories:    categories,
		Uncategorized: uncategorized,
	}, nil
}

// Write builds a snapshot and replaces the file at path with it. Readers
// never see a partially written file.
func (s *SnapshotService) Write(ctx context.Context, path string) error {
	snapshot, err := s.Build(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	zap.L().Info("snapshot written",
		zap.String("path", path),
		zap.Int("categories", len(snapshot.Categories)),
		zap.Int("uncategorized", len(snapshot.Uncategorized)),
	)
	return nil
}
