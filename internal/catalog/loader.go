// Package catalog loads the item and case definitions from JSON, syncs them
// into the store and serves them to the economy through a read-through cache.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/repository"
	"github.com/osse101/CaseBot_Go/internal/validation"
)

// Config represents the JSON catalog file
type Config struct {
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Items       []ItemDef `json:"items"`
	Cases       []CaseDef `json:"cases"`
}

// ItemDef is a single item definition in the JSON
type ItemDef struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Rarity      string `json:"rarity"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	SellPrice   int64  `json:"sell_price"`
	Description string `json:"description"`
	TextureURL  string `json:"texture_url"`
}

// CaseDef is a single case definition in the JSON. Cases are active unless
// is_active is explicitly false.
type CaseDef struct {
	Name        string           `json:"name"`
	Icon        string           `json:"icon"`
	Description string           `json:"description"`
	Price       int64            `json:"price"`
	Weights     map[string]int64 `json:"rarity_weights"`
	TextureURL  string           `json:"texture_url"`
	Active      *bool            `json:"is_active,omitempty"`
}

// ToItem converts the definition to a domain item without an ID
func (d ItemDef) ToItem() domain.Item {
	return domain.Item{
		Name:        d.Name,
		Icon:        d.Icon,
		Rarity:      domain.Rarity(d.Rarity),
		Category:    d.Category,
		Price:       d.Price,
		SellPrice:   d.SellPrice,
		Description: d.Description,
		TextureURL:  d.TextureURL,
	}
}

// ToCase converts the definition to a domain case without an ID
func (d CaseDef) ToCase() domain.Case {
	weights := make(domain.RarityWeights, len(d.Weights))
	for tier, w := range d.Weights {
		weights[domain.Rarity(tier)] = w
	}
	return domain.Case{
		Name:        d.Name,
		Icon:        d.Icon,
		Description: d.Description,
		Price:       d.Price,
		Weights:     weights,
		TextureURL:  d.TextureURL,
		Active:      d.Active == nil || *d.Active,
	}
}

// Loader handles loading, validating and syncing the catalog
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
	SyncToStore(ctx context.Context, config *Config, repo repository.Catalog) (*SyncResult, error)
}

// SyncResult counts what a sync changed
type SyncResult struct {
	ItemsInserted int
	ItemsUpdated  int
	ItemsSkipped  int
	CasesInserted int
	CasesUpdated  int
	CasesSkipped  int
}

// Changed reports whether the sync wrote anything
func (r *SyncResult) Changed() bool {
	return r.ItemsInserted+r.ItemsUpdated+r.CasesInserted+r.CasesUpdated > 0
}

type catalogLoader struct {
	schemaValidator validation.SchemaValidator
	schemaPath      string
}

// NewLoader creates a Loader validating against the bundled schema
func NewLoader() Loader {
	return &catalogLoader{
		schemaValidator: validation.NewSchemaValidator(),
		schemaPath:      SchemaPath,
	}
}

// Load reads, schema-checks and parses a catalog file
func (l *catalogLoader) Load(path string) (*Config, error) {
	resolved, err := validation.ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}

	if err := l.schemaValidator.ValidateBytes(data, l.schemaPath); err != nil {
		return nil, fmt.Errorf("%w: "+ErrMsgSchemaFailed, domain.ErrCatalogValidation, path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}
	return &config, nil
}

// Validate performs the semantic checks the schema cannot express
func (l *catalogLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: %s", domain.ErrCatalogValidation, ErrMsgConfigNil)
	}
	if len(config.Items) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCatalogValidation, ErrMsgNoItemsDefined)
	}
	if len(config.Cases) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCatalogValidation, ErrMsgNoCasesDefined)
	}

	names := make(map[string]bool, len(config.Items))
	for i := range config.Items {
		if err := validateItemDef(i, &config.Items[i], names); err != nil {
			return err
		}
	}

	names = make(map[string]bool, len(config.Cases))
	for i := range config.Cases {
		if err := validateCaseDef(i, &config.Cases[i], names); err != nil {
			return err
		}
	}
	return nil
}

func validateItemDef(index int, def *ItemDef, names map[string]bool) error {
	if def.Name == "" {
		return fmt.Errorf(ErrFmtItemAtIndexEmpty, domain.ErrCatalogValidation, index)
	}
	if names[def.Name] {
		return fmt.Errorf(ErrFmtDuplicateItem, domain.ErrCatalogValidation, def.Name)
	}
	names[def.Name] = true

	if !domain.Rarity(def.Rarity).Valid() {
		return fmt.Errorf(ErrFmtItemUnknownRarity, domain.ErrCatalogValidation, def.Name, def.Rarity)
	}
	if !domain.ValidCategories[def.Category] {
		return fmt.Errorf(ErrFmtItemUnknownCategory, domain.ErrCatalogValidation, def.Name, def.Category)
	}
	if def.Price < 0 || def.SellPrice < 0 {
		return fmt.Errorf(ErrFmtItemNegativePrice, domain.ErrCatalogValidation, def.Name)
	}
	if def.SellPrice > def.Price {
		return fmt.Errorf(ErrFmtItemSellAbovePrice, domain.ErrCatalogValidation, def.Name, def.SellPrice, def.Price)
	}
	return nil
}

func validateCaseDef(index int, def *CaseDef, names map[string]bool) error {
	if def.Name == "" {
		return fmt.Errorf(ErrFmtCaseAtIndexEmpty, domain.ErrCatalogValidation, index)
	}
	if names[def.Name] {
		return fmt.Errorf(ErrFmtDuplicateCase, domain.ErrCatalogValidation, def.Name)
	}
	names[def.Name] = true

	if def.Price < 0 {
		return fmt.Errorf(ErrFmtCaseNegativePrice, domain.ErrCatalogValidation, def.Name)
	}
	c := def.ToCase()
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf(ErrFmtCaseBadDistribution, domain.ErrCatalogValidation, def.Name, err)
	}
	return nil
}

// UnpopulatedTiers returns, per case name, the tiers with positive weight
// that no item belongs to. Opening such a case can fail with
// domain.ErrEmptyRarityPool, so these are reported as warnings.
func UnpopulatedTiers(config *Config) map[string][]domain.Rarity {
	populated := make(map[domain.Rarity]bool)
	for _, def := range config.Items {
		populated[domain.Rarity(def.Rarity)] = true
	}

	out := make(map[string][]domain.Rarity)
	for _, def := range config.Cases {
		var missing []domain.Rarity
		for tier, w := range def.Weights {
			if w > 0 && !populated[domain.Rarity(tier)] {
				missing = append(missing, domain.Rarity(tier))
			}
		}
		if len(missing) > 0 {
			sort.Slice(missing, func(i, j int) bool { return missing[i].Rank() < missing[j].Rank() })
			out[def.Name] = missing
		}
	}
	return out
}

// SyncToStore upserts every item and case by name. Rows already matching
// the definition are counted as skipped and not rewritten.
func (l *catalogLoader) SyncToStore(ctx context.Context, config *Config, repo repository.Catalog) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	for name, tiers := range UnpopulatedTiers(config) {
		log.Warn(LogMsgUnpopulatedTiers, "case", name, "tiers", tiers)
	}

	existingItems, err := repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListItemsFailed, err)
	}
	itemsByName := make(map[string]domain.Item, len(existingItems))
	for _, it := range existingItems {
		itemsByName[it.Name] = it
	}

	result := &SyncResult{}
	for _, def := range config.Items {
		item := def.ToItem()
		existing, ok := itemsByName[def.Name]
		if ok {
			item.ID = existing.ID
			if existing == item {
				result.ItemsSkipped++
				continue
			}
		}
		if err := repo.UpsertItem(ctx, &item); err != nil {
			return nil, fmt.Errorf(ErrMsgUpsertItemFailed, def.Name, err)
		}
		if ok {
			result.ItemsUpdated++
			log.Info(LogMsgUpdatedItem, "name", def.Name, "id", item.ID)
		} else {
			result.ItemsInserted++
			log.Debug(LogMsgInsertedItem, "name", def.Name, "id", item.ID)
		}
	}

	casesByName, err := l.existingCases(ctx, repo)
	if err != nil {
		return nil, err
	}
	for _, def := range config.Cases {
		c := def.ToCase()
		existing, ok := casesByName[def.Name]
		if ok {
			c.ID = existing.ID
			if sameCase(existing, c) {
				result.CasesSkipped++
				continue
			}
		}
		if err := repo.UpsertCase(ctx, &c); err != nil {
			return nil, fmt.Errorf(ErrMsgUpsertCaseFailed, def.Name, err)
		}
		if ok {
			result.CasesUpdated++
			log.Info(LogMsgUpdatedCase, "name", def.Name, "id", c.ID)
		} else {
			result.CasesInserted++
			log.Debug(LogMsgInsertedCase, "name", def.Name, "id", c.ID)
		}
	}

	log.Info(LogMsgSyncCompleted,
		"items_inserted", result.ItemsInserted,
		"items_updated", result.ItemsUpdated,
		"items_skipped", result.ItemsSkipped,
		"cases_inserted", result.CasesInserted,
		"cases_updated", result.CasesUpdated,
		"cases_skipped", result.CasesSkipped)
	return result, nil
}

func (l *catalogLoader) existingCases(ctx context.Context, repo repository.Catalog) (map[string]domain.Case, error) {
	cases, err := repo.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListCasesFailed, err)
	}
	out := make(map[string]domain.Case, len(cases))
	for _, c := range cases {
		out[c.Name] = c
	}
	return out, nil
}

func sameCase(a, b domain.Case) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Icon != b.Icon || a.Description != b.Description ||
		a.Price != b.Price || a.TextureURL != b.TextureURL || a.Active != b.Active {
		return false
	}
	for _, tier := range domain.Rarities {
		if a.Weights[tier] != b.Weights[tier] {
			return false
		}
	}
	return true
}
