package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"item-catalog/internal/config"
	"item-catalog/internal/repository"
	"item-catalog/internal/service"
	"item-catalog/internal/slug"
)

const usage = `usage: catalog <command> [arguments]

commands:
  init                                   create the schema if it is missing
  add-category NAME                      create a category
  rename-category NAME NEW_NAME          rename a category
  delete-category NAME                   delete a category, keeping its items
  add-item [-category NAME] [-description TEXT] TITLE
                                         create an item
  delete-item SLUG                       delete an item
  show-category SLUG                     print a category with its items
  show-item SLUG                         print an item
  dump                                   print the whole catalog
  snapshot                               write SNAPSHOT_PATH, then keep it fresh
                                         on SNAPSHOT_INTERVAL / SNAPSHOT_AT
  slug encode|decode TEXT                print the URL form of TEXT or its inverse
`

var errUsage = errors.New("usage")

type app struct {
	cfg        config.Config
	out        io.Writer
	categories *service.CategoryService
	items      *service.ItemService
	snapshots  *service.SnapshotService
}

func newApp(db *gorm.DB, cfg config.Config, out io.Writer) *app {
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	categories := service.NewCategoryService(categoryRepo, itemRepo)

	return &app{
		cfg:        cfg,
		out:        out,
		categories: categories,
		items:      service.NewItemService(itemRepo, categoryRepo),
		snapshots:  service.NewSnapshotService(categories, itemRepo),
	}
}

func (a *app) run(ctx context.Context, name string, args []string) error {
	switch name {
	case "init":
		// NewDB already created the schema.
		zap.L().Info("schema ready", zap.String("database", a.cfg.DatabaseURL))
		return nil
	case "add-category":
		return a.addCategory(ctx, args)
	case "rename-category":
		return a.renameCategory(ctx, args)
	case "delete-category":
		return a.deleteCategory(ctx, args)
	case "add-item":
		return a.addItem(ctx, args)
	case "delete-item":
		return a.deleteItem(ctx, args)
	case "show-category":
		return a.showCategory(ctx, args)
	case "show-item":
		return a.showItem(ctx, args)
	case "dump":
		snapshot, err := a.snapshots.Build(ctx)
		if err != nil {
			return err
		}
		return a.print(snapshot)
	case "snapshot":
		return a.snapshot(ctx)
	case "slug":
		return runSlug(a.out, args)
	default:
		return errUsage
	}
}

func (a *app) addCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	category, err := a.categories.Create(ctx, args[0])
	if err != nil {
		return err
	}
	return a.print(category.Serialize(nil))
}

func (a *app) renameCategory(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	category, err := a.categories.GetByName(ctx, args[0])
	if err != nil {
		return err
	}
	if _, err := a.categories.Rename(ctx, category.ID, args[1]); err != nil {
		return err
	}
	return nil
}

func (a *app) deleteCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	category, err := a.categories.GetByName(ctx, args[0])
	if err != nil {
		return err
	}
	return a.categories.Delete(ctx, category.ID)
}

func (a *app) addItem(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-item", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	category := fs.String("category", "", "category name")
	description := fs.String("description", "", "item description")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}

	item, err := a.items.Create(ctx, service.ItemInput{
		Title:       fs.Arg(0),
		Description: *description,
		Category:    *category,
	})
	if err != nil {
		return err
	}
	return a.print(item.Serialize())
}

func (a *app) deleteItem(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	item, err := a.items.GetBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	return a.items.Delete(ctx, item.ID)
}

func (a *app) showCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	category, err := a.categories.GetBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	view, err := a.categories.Serialize(ctx, *category)
	if err != nil {
		return err
	}
	return a.print(view)
}

func (a *app) showItem(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	item, err := a.items.GetBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	return a.print(item.Serialize())
}

// snapshot writes the snapshot once and, when a schedule is configured,
// keeps rewriting it until ctx is cancelled.
func (a *app) snapshot(ctx context.Context) error {
	path := a.cfg.SnapshotPath
	write := func(ctx context.Context) error {
		return a.snapshots.Write(ctx, path)
	}
	if err := write(ctx); err != nil {
		return err
	}

	scheduler := service.NewSchedulerService(time.Local, 30*time.Second)
	if a.cfg.SnapshotInterval > 0 {
		if _, err := scheduler.Every(a.cfg.SnapshotInterval, "snapshot", write); err != nil {
			return fmt.Errorf("schedule snapshot: %w", err)
		}
	}
	if a.cfg.SnapshotAt != "" {
		if _, err := scheduler.Daily(a.cfg.SnapshotAt, "snapshot", write); err != nil {
			return fmt.Errorf("schedule snapshot: %w", err)
		}
	}
	if scheduler.Len() == 0 {
		return nil
	}

	scheduler.Start()
	zap.L().Info("snapshot scheduler started",
		zap.Duration("interval", a.cfg.SnapshotInterval),
		zap.String("at", a.cfg.SnapshotAt),
	)
	<-ctx.Done()
	scheduler.Stop()
	zap.L().Info("snapshot scheduler stopped")
	return nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSlug(out io.Writer, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	switch args[0] {
	case "encode":
		_, err := fmt.Fprintln(out, slug.Encode(args[1]))
		return err
	case "decode":
		_, err := fmt.Fprintln(out, slug.Decode(args[1]))
		return err
	default:
		return errUsage
	}
}
