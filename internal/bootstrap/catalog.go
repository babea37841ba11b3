package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/CaseBot_Go/internal/catalog"
	"github.com/osse101/CaseBot_Go/internal/config"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// SyncCatalog loads the JSON catalog, validates it against the bundled
// schema and upserts it into repo. With CATALOG_SYNC off the stored catalog
// is used as-is.
func SyncCatalog(ctx context.Context, cfg *config.Config, repo repository.Catalog) error {
	if !cfg.CatalogSync {
		slog.Info(LogMsgCatalogSyncOff)
		return nil
	}

	slog.Info(LogMsgSyncingCatalog, "path", cfg.CatalogPath)
	loader := catalog.NewLoader()

	catalogCfg, err := loader.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	if err := loader.Validate(catalogCfg); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidCatalog, err)
	}

	result, err := loader.SyncToStore(ctx, catalogCfg, repo)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSyncCatalog, err)
	}

	if !result.Changed() {
		slog.Info(LogMsgCatalogUnchanged, "version", catalogCfg.Version)
		return nil
	}
	slog.Info(LogMsgCatalogSynced,
		"version", catalogCfg.Version,
		"items_inserted", result.ItemsInserted,
		"items_updated", result.ItemsUpdated,
		"cases_inserted", result.CasesInserted,
		"cases_updated", result.CasesUpdated)
	return nil
}
