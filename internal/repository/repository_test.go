package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"item-catalog/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "catalog.db"), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func uintPtr(v uint) *uint { return &v }

func TestNewDBIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")

	first, err := NewDB(path, nil)
	require.NoError(t, err)
	require.NoError(t, NewCategoryRepository(first).Create(ctx, &model.Category{Name: "Soccer"}))
	sqlDB, err := first.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	second, err := NewDB(path, nil)
	require.NoError(t, err)
	sqlDB, err = second.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	got, err := NewCategoryRepository(second).GetByName(ctx, "Soccer")
	require.NoError(t, err)
	assert.Equal(t, "Soccer", got.Name)
}

func TestCategoryNameIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.Category{Name: "Hockey"}))
	err := repo.Create(ctx, &model.Category{Name: "Hockey"})

	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
	var sqliteErr sqlite3.Error
	assert.ErrorAs(t, err, &sqliteErr, "store error must stay in the chain")

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestItemTitleIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.Item{Title: "Stick"}))
	err := repo.Create(ctx, &model.Item{Title: "Stick", Description: "another one"})

	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Description)
}

func TestItemCategoryMustExist(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(newTestDB(t))

	err := repo.Create(ctx, &model.Item{Title: "Orphan", CategoryID: uintPtr(999)})

	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
	_, err = repo.GetByTitle(ctx, "Orphan")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemWidthIsValidatedBeforeInsert(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(newTestDB(t))

	err := repo.Create(ctx, &model.Item{Title: strings.Repeat("x", 256)})

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.False(t, IsConstraintViolation(err))
}

func TestItemAddedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(newTestDB(t))

	before := time.Now().Add(-time.Second)
	item := model.Item{Title: "Board", Description: "Freestyle"}
	require.NoError(t, repo.Create(ctx, &item))
	assert.False(t, item.AddedAt.IsZero())
	assert.True(t, item.AddedAt.After(before))

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	addedAt := stored.AddedAt

	stored.Description = "All mountain"
	stored.AddedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, stored))

	reloaded, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "All mountain", reloaded.Description)
	assert.True(t, addedAt.Equal(reloaded.AddedAt), "added_at changed from %v to %v", addedAt, reloaded.AddedAt)
}

func TestItemsByCategory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	items := NewItemRepository(db)

	soccer := model.Category{Name: "Soccer"}
	skating := model.Category{Name: "Skating"}
	require.NoError(t, categories.Create(ctx, &soccer))
	require.NoError(t, categories.Create(ctx, &skating))

	for i, title := range []string{"Jersey", "Cleats", "Ball"} {
		require.NoError(t, items.Create(ctx, &model.Item{Title: title, CategoryID: &soccer.ID}), "item %d", i)
	}
	require.NoError(t, items.Create(ctx, &model.Item{Title: "Skates", CategoryID: &skating.ID}))
	require.NoError(t, items.Create(ctx, &model.Item{Title: "Water bottle"}))

	got, err := items.ListByCategory(ctx, soccer.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Jersey", got[0].Title)
	assert.Equal(t, "Cleats", got[1].Title)
	assert.Equal(t, "Ball", got[2].Title)

	count, err := items.CountByCategory(ctx, soccer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	loose, err := items.ListUncategorized(ctx)
	require.NoError(t, err)
	require.Len(t, loose, 1)
	assert.Equal(t, "Water bottle", loose[0].Title)

	skates, err := items.GetByTitle(ctx, "Skates")
	require.NoError(t, err)
	require.NotNil(t, skates.Category)
	assert.Equal(t, "Skating", skates.Category.Name)
}

func TestDeleteCategoryUncategorizesItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	items := NewItemRepository(db)

	snow := model.Category{Name: "Snowboarding"}
	require.NoError(t, categories.Create(ctx, &snow))
	goggles := model.Item{Title: "Goggles", CategoryID: &snow.ID}
	require.NoError(t, items.Create(ctx, &goggles))

	require.NoError(t, categories.Delete(ctx, snow.ID))

	_, err := categories.GetByID(ctx, snow.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	kept, err := items.GetByID(ctx, goggles.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.CategoryID)
	assert.Nil(t, kept.Category)

	assert.ErrorIs(t, categories.Delete(ctx, snow.ID), ErrCategoryNotFound)
}

func TestCategoryGetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	first, err := repo.GetOrCreate(ctx, "Frisbee")
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, "Frisbee")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	none, err := repo.GetOrCreate(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUpdateAndDeleteMissingRecords(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	items := NewItemRepository(db)

	assert.ErrorIs(t, categories.Update(ctx, &model.Category{ID: 42, Name: "Ghost"}), ErrCategoryNotFound)
	assert.ErrorIs(t, items.Update(ctx, &model.Item{ID: 42, Title: "Ghost"}), ErrItemNotFound)
	assert.ErrorIs(t, items.Delete(ctx, 42), ErrItemNotFound)
	_, err := items.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRenameCategoryToTakenName(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.Category{Name: "Baseball"}))
	basketball := model.Category{Name: "Basketball"}
	require.NoError(t, repo.Create(ctx, &basketball))

	basketball.Name = "Baseball"
	err := repo.Update(ctx, &basketball)
	assert.True(t, IsConstraintViolation(err))
}

func TestIsConstraintViolation(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "not found", err: gorm.ErrRecordNotFound, want: false},
		{name: "gorm duplicated key", err: fmt.Errorf("create item: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "gorm foreign key", err: gorm.ErrForeignKeyViolated, want: true},
		{name: "sqlite constraint", err: fmt.Errorf("create item: %w", sqlite3.Error{Code: sqlite3.ErrConstraint}), want: true},
		{name: "sqlite busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: false},
		{name: "postgres unique", err: fmt.Errorf("create item: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "postgres syntax", err: &pgconn.PgError{Code: "42601"}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsConstraintViolation(tc.err))
		})
	}
}

func TestDSNHelpers(t *testing.T) {
	assert.True(t, isPostgresDSN("postgres://catalog@localhost/catalog"))
	assert.True(t, isPostgresDSN("host=localhost user=catalog dbname=catalog"))
	assert.False(t, isPostgresDSN("catalog.db"))

	assert.Equal(t, "catalog.db?_foreign_keys=1", withForeignKeys("catalog.db"))
	assert.Equal(t, "file:catalog.db?cache=shared&_foreign_keys=1", withForeignKeys("file:catalog.db?cache=shared"))
	assert.Equal(t, "catalog.db?_fk=0", withForeignKeys("catalog.db?_fk=0"))
}
