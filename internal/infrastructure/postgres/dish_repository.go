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

var _ repository.DishRepository = (*DishRepo)(nil)

// DishRepo platos y líneas de receta sobre PostgreSQL.
type DishRepo struct {
	q Querier
}

// NewDishRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDishRepository(q Querier) *DishRepo {
	return &DishRepo{q: q}
}

// Create persiste el plato y sus líneas.
func (r *DishRepo) Create(ctx context.Context, d *entity.Dish) error {
	query := `
		INSERT INTO dishes (id, name, description, sale_price, category, active, recipe_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query, d.ID, d.Name, d.Description, d.SalePrice, d.Category,
		d.Active, d.RecipeCost, d.CreatedAt, d.UpdatedAt); err != nil {
		return wrapErr("insert dish", err)
	}
	return r.insertLines(ctx, d.ID, d.Lines)
}

func (r *DishRepo) insertLines(ctx context.Context, dishID string, lines []entity.RecipeLine) error {
	query := `INSERT INTO recipe_lines (dish_id, item_id, quantity) VALUES ($1, $2, $3)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, query, dishID, l.ItemID, l.Quantity); err != nil {
			return wrapErr("insert recipe line", err)
		}
	}
	return nil
}

// GetByID devuelve el plato con sus líneas.
func (r *DishRepo) GetByID(ctx context.Context, id string) (*entity.Dish, error) {
	query := `
		SELECT id, name, description, sale_price, category, active, recipe_cost, created_at, updated_at
		FROM dishes WHERE id = $1`
	var d entity.Dish
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Description, &d.SalePrice,
		&d.Category, &d.Active, &d.RecipeCost, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get dish", err)
	}

	rows, err := r.q.Query(ctx, `SELECT item_id, quantity FROM recipe_lines WHERE dish_id = $1 ORDER BY item_id`, id)
	if err != nil {
		return nil, wrapErr("get recipe lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.RecipeLine
		if err := rows.Scan(&l.ItemID, &l.Quantity); err != nil {
			return nil, wrapErr("scan recipe line", err)
		}
		d.Lines = append(d.Lines, l)
	}
	return &d, wrapErr("get recipe lines", rows.Err())
}

// ReplaceLines borra e inserta las líneas de la receta.
func (r *DishRepo) ReplaceLines(ctx context.Context, dishID string, lines []entity.RecipeLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM recipe_lines WHERE dish_id = $1`, dishID); err != nil {
		return wrapErr("delete recipe lines", err)
	}
	if _, err := r.q.Exec(ctx, `UPDATE dishes SET updated_at = now() WHERE id = $1`, dishID); err != nil {
		return wrapErr("touch dish", err)
	}
	return r.insertLines(ctx, dishID, lines)
}

// UpdateHeader actualiza los datos del plato sin tocar receta ni costo.
func (r *DishRepo) UpdateHeader(ctx context.Context, d *entity.Dish) error {
	query := `
		UPDATE dishes SET name = $2, description = $3, sale_price = $4, category = $5, active = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.Name, d.Description, d.SalePrice, d.Category, d.Active, d.UpdatedAt)
	if err != nil {
		return wrapErr("update dish", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateRecipeCost guarda el costo de receta calculado.
func (r *DishRepo) UpdateRecipeCost(ctx context.Context, dishID string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE dishes SET recipe_cost = $2, updated_at = now() WHERE id = $1`, dishID, cost)
	if err != nil {
		return wrapErr("update recipe cost", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByItem ids de platos cuya receta usa el insumo.
func (r *DishRepo) ListByItem(ctx context.Context, itemID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT dish_id FROM recipe_lines WHERE item_id = $1 ORDER BY dish_id`, itemID)
	if err != nil {
		return nil, wrapErr("list dishes by item", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr("scan dish id", err)
		}
		ids = append(ids, id)
	}
	return ids, wrapErr("list dishes by item", rows.Err())
}
