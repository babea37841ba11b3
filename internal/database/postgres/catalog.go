package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

const itemColumns = `item_id, name, icon, rarity, category, price, sell_price, description, texture_url`

const caseColumns = `case_id, name, icon, description, price, rarity_weights, texture_url, is_active`

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	var rarity string
	if err := row.Scan(&item.ID, &item.Name, &item.Icon, &rarity, &item.Category,
		&item.Price, &item.SellPrice, &item.Description, &item.TextureURL); err != nil {
		return nil, err
	}
	item.Rarity = domain.Rarity(rarity)
	return &item, nil
}

func scanCase(row pgx.Row) (*domain.Case, error) {
	var c domain.Case
	var weights []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &c.Price,
		&weights, &c.TextureURL, &c.Active); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(weights, &c.Weights); err != nil {
		return nil, fmt.Errorf("%w: case %d has unreadable weights: %w", domain.ErrInvalidDistribution, c.ID, err)
	}
	return &c, nil
}

// GetCase returns the case or nil when it does not exist
func (s *Store) GetCase(ctx context.Context, caseID int64) (*domain.Case, error) {
	c, err := scanCase(s.db.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE case_id = $1`, caseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if errors.Is(err, domain.ErrInvalidDistribution) {
			return nil, err
		}
		return nil, storageErr("get case", err)
	}
	return c, nil
}

// ListActiveCases returns active cases ordered by id
func (s *Store) ListActiveCases(ctx context.Context) ([]domain.Case, error) {
	return s.listCases(ctx, `SELECT `+caseColumns+` FROM cases WHERE is_active ORDER BY case_id`)
}

// ListCases returns every case ordered by id
func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	return s.listCases(ctx, `SELECT `+caseColumns+` FROM cases ORDER BY case_id`)
}

func (s *Store) listCases(ctx context.Context, query string) ([]domain.Case, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, storageErr("list cases", err)
	}
	defer rows.Close()

	var out []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, storageErr("scan case", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list cases", err)
	}
	return out, nil
}

// GetItem returns the item or nil when it does not exist
func (s *Store) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := scanItem(s.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = $1`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get item", err)
	}
	return item, nil
}

// ListItems returns every catalog item ordered by id
func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_id`)
	if err != nil {
		return nil, storageErr("list items", err)
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("scan item", err)
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list items", err)
	}
	return out, nil
}

// UpsertItem inserts or updates an item keyed by name
func (s *Store) UpsertItem(ctx context.Context, item *domain.Item) error {
	if item.SellPrice > item.Price {
		return fmt.Errorf("%w: item %q sells above its price", domain.ErrCatalogValidation, item.Name)
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO items (name, icon, rarity, category, price, sell_price, description, texture_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			icon = EXCLUDED.icon,
			rarity = EXCLUDED.rarity,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			sell_price = EXCLUDED.sell_price,
			description = EXCLUDED.description,
			texture_url = EXCLUDED.texture_url
		RETURNING item_id`,
		item.Name, item.Icon, string(item.Rarity), item.Category, item.Price, item.SellPrice, item.Description, item.TextureURL,
	).Scan(&item.ID)
	if err != nil {
		return storageErr("upsert item", err)
	}
	return nil
}

// UpsertCase inserts or updates a case keyed by name
func (s *Store) UpsertCase(ctx context.Context, c *domain.Case) error {
	weights, err := json.Marshal(c.Weights)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidDistribution, err)
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO cases (name, icon, description, price, rarity_weights, texture_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			icon = EXCLUDED.icon,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			rarity_weights = EXCLUDED.rarity_weights,
			texture_url = EXCLUDED.texture_url,
			is_active = EXCLUDED.is_active
		RETURNING case_id`,
		c.Name, c.Icon, c.Description, c.Price, json.RawMessage(weights), c.TextureURL, c.Active,
	).Scan(&c.ID)
	if err != nil {
		return storageErr("upsert case", err)
	}
	return nil
}
