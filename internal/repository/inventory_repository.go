package repository

import (
	"context"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/fallback"
)

// InventoryRepository lists stock parts.
type InventoryRepository interface {
	ListParts(ctx context.Context) []domain.Part
}

type inventoryRepository struct {
	db *Resilient
}

// NewInventoryRepository returns a storage-backed implementation.
func NewInventoryRepository(db *Resilient) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListParts(ctx context.Context) []domain.Part {
	const query = `
        SELECT id, part_number, name, category, quantity_available, unit_cost, location
        FROM inventory ORDER BY id`
	rows := r.db.ReadMany(ctx, "inventory.list", fallback.Inventory(), query)
	parts := make([]domain.Part, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, partFromRow(row))
	}
	return parts
}
