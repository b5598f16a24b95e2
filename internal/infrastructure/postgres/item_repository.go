package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ItemRepository = (*ItemRepo)(nil)
	_ repository.UnitRepository = (*UnitRepo)(nil)
)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para insumos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, name, unit_id, purchase_unit_id, conversion_factor, category_id, supplier_id,
	min_stock, max_stock, cost, active, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(&it.ID, &it.Name, &it.UnitID, &it.PurchaseUnitID, &it.ConversionFactor,
		&it.CategoryID, &it.SupplierID, &it.MinStock, &it.MaxStock, &it.Cost, &it.Active,
		&it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un nuevo insumo. Cost inicia en 0.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.UnitID, item.PurchaseUnitID, item.ConversionFactor, item.CategoryID, item.SupplierID,
		item.MinStock, item.MaxStock, item.Cost, item.Active, item.CreatedAt, item.UpdatedAt,
	)
	return wrapErr("insert item", err)
}

// GetByID obtiene un insumo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el insumo y bloquea su fila.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) get(ctx context.Context, query, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get item", err)
	}
	return it, nil
}

// UpdateCost actualiza solo el costo promedio global.
func (r *ItemRepo) UpdateCost(ctx context.Context, itemID string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET cost = $2, updated_at = now() WHERE id = $1`, itemID, cost)
	if err != nil {
		return wrapErr("update item cost", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista insumos ordenados por nombre.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrapErr("list items", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr("scan item", err)
		}
		list = append(list, it)
	}
	return list, wrapErr("list items", rows.Err())
}

// UnitRepo implementación de UnitRepository sobre PostgreSQL.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de unidades.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create persiste una unidad de medida.
func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	query := `
		INSERT INTO units (id, name, abbreviation, is_base, base_factor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Abbreviation, u.IsBase, u.BaseFactor, u.CreatedAt, u.UpdatedAt)
	return wrapErr("insert unit", err)
}

// GetByID obtiene una unidad por ID.
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	query := `SELECT id, name, abbreviation, is_base, base_factor, created_at, updated_at FROM units WHERE id = $1`
	var u entity.Unit
	err := r.q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Abbreviation, &u.IsBase, &u.BaseFactor, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get unit", err)
	}
	return &u, nil
}

// List lista unidades ordenadas por nombre.
func (r *UnitRepo) List(ctx context.Context) ([]*entity.Unit, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, abbreviation, is_base, base_factor, created_at, updated_at FROM units ORDER BY name`)
	if err != nil {
		return nil, wrapErr("list units", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation, &u.IsBase, &u.BaseFactor, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, wrapErr("scan unit", err)
		}
		list = append(list, &u)
	}
	return list, wrapErr("list units", rows.Err())
}
