package catalog

import "time"

// Config file locations, relative to the module root
const (
	DefaultConfigPath = "configs/catalog.json"
	SchemaPath        = "configs/schemas/catalog.schema.json"
)

// Cache defaults
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 5 * time.Minute
)

// ==================== Error Messages ====================

const (
	ErrMsgReadConfigFileFailed = "failed to read catalog config file: %w"
	ErrMsgParseConfigFailed    = "failed to parse catalog config: %w"
	ErrMsgSchemaFailed         = "schema validation failed for %s: %w"
	ErrMsgListItemsFailed      = "failed to list existing items: %w"
	ErrMsgListCasesFailed      = "failed to list existing cases: %w"
	ErrMsgUpsertItemFailed     = "failed to upsert item '%s': %w"
	ErrMsgUpsertCaseFailed     = "failed to upsert case '%s': %w"
)

// Validation error fragments, always wrapped with domain.ErrCatalogValidation
const (
	ErrMsgConfigNil      = "config is nil"
	ErrMsgNoItemsDefined = "no items defined"
	ErrMsgNoCasesDefined = "no cases defined"

	ErrFmtItemAtIndexEmpty     = "%w: item at index %d has empty name"
	ErrFmtCaseAtIndexEmpty     = "%w: case at index %d has empty name"
	ErrFmtDuplicateItem        = "%w: duplicate item name '%s'"
	ErrFmtDuplicateCase        = "%w: duplicate case name '%s'"
	ErrFmtItemUnknownRarity    = "%w: item '%s' has unknown rarity '%s'"
	ErrFmtItemUnknownCategory  = "%w: item '%s' has unknown category '%s'"
	ErrFmtItemNegativePrice    = "%w: item '%s' has a negative price"
	ErrFmtItemSellAbovePrice   = "%w: item '%s' sells for %d but costs %d"
	ErrFmtCaseNegativePrice    = "%w: case '%s' has a negative price"
	ErrFmtCaseBadDistribution  = "%w: case '%s': %w"
	ErrFmtCaseUnpopulatedTiers = "case '%s' weights tiers with no items: %v"
)

// ==================== Log Messages ====================

const (
	LogMsgSyncCompleted    = "Catalog sync completed"
	LogMsgInsertedItem     = "Inserted item"
	LogMsgUpdatedItem      = "Updated item"
	LogMsgInsertedCase     = "Inserted case"
	LogMsgUpdatedCase      = "Updated case"
	LogMsgUnpopulatedTiers = "Case can draw a rarity tier that has no items"
	LogMsgCachePurged      = "Catalog cache purged"
)
