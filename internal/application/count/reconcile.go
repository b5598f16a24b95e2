// Package count concilia conteos físicos contra el stock del sistema y maneja su ciclo de aprobación.
package count

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/application/ports"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	countdomain "github.com/jhoicas/Inventario-costeo/internal/domain/count"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AdjustmentReason motivo estándar de los ajustes generados por un conteo.
const AdjustmentReason = "ajuste_por_conteo_fisico"

// Reconciler motor de conciliación: snapshot de cantidades de sistema, diferencias,
// clasificación por tolerancia y, opcionalmente, ajustes correctivos.
type Reconciler struct {
	txRunner ports.TxRunner
	recorder *inventory.MovementRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewReconciler construye el motor de conciliación.
func NewReconciler(txRunner ports.TxRunner, recorder *inventory.MovementRecorder, log zerolog.Logger) *Reconciler {
	return &Reconciler{txRunner: txRunner, recorder: recorder, log: log, now: time.Now}
}

// Result resultado de una conciliación.
type Result struct {
	Count       *entity.PhysicalCount
	Adjustments []*entity.InventoryMovement
}

// Reconcile ejecuta la conciliación en una transacción.
// Con applyAdjustments el conteo debe estar cerrado; los ajustes se registran para cada
// línea fuera de tolerancia con diferencia distinta de cero y el conteo pasa a adjusted.
func (r *Reconciler) Reconcile(ctx context.Context, countID string, applyAdjustments bool, actorID string) (*Result, error) {
	var res *Result
	err := r.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		c, err := tx.Counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		res, err = r.ReconcileInTx(ctx, tx, c, applyAdjustments, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.log.Info().
		Str("count_id", countID).
		Bool("apply_adjustments", applyAdjustments).
		Int("adjustments", len(res.Adjustments)).
		Str("actor_id", actorID).
		Msg("conteo conciliado")
	return res, nil
}

// ReconcileInTx concilia un conteo ya bloqueado por el caller.
func (r *Reconciler) ReconcileInTx(
	ctx context.Context,
	tx ports.TxRepos,
	c *entity.PhysicalCount,
	applyAdjustments bool,
	actorID string,
) (*Result, error) {
	state := countdomain.State(c.State)
	if applyAdjustments && state != countdomain.Closed {
		return nil, domain.ErrNotClosed
	}
	if countdomain.IsTerminal(state) {
		return nil, domain.ErrInvalidState
	}

	if err := r.snapshotInTx(ctx, tx, c, applyAdjustments); err != nil {
		return nil, err
	}
	res := &Result{Count: c}
	if !applyAdjustments {
		return res, nil
	}

	txID := uuid.New().String()
	for _, l := range c.Lines {
		if l.WithinTolerance || l.Difference == nil || l.Difference.IsZero() {
			continue
		}
		mov, err := r.recorder.RecordAdjustmentInTx(ctx, tx, inventory.AdjustmentInput{
			ItemID:      l.ItemID,
			WarehouseID: c.WarehouseID,
			Quantity:    *l.Difference,
			Meta: inventory.MovementMeta{
				UserID:    actorID,
				Reason:    AdjustmentReason,
				Reference: c.Reference(),
			},
		}, txID)
		if err != nil {
			return nil, err
		}
		res.Adjustments = append(res.Adjustments, mov)
	}

	if err := countdomain.Transition(state, countdomain.Adjusted); err != nil {
		return nil, err
	}
	now := r.now()
	c.State = string(countdomain.Adjusted)
	c.AdjustedAt = &now
	c.UpdatedAt = now
	if err := tx.Counts.UpdateHeader(ctx, c); err != nil {
		return nil, err
	}
	return res, nil
}

// snapshotInTx guarda cantidad de sistema, diferencia y tolerancia en cada línea.
// Con lock=true bloquea las filas de stock (orden por insumo) antes de leerlas, para que
// los ajustes posteriores partan del mismo valor que se fotografió.
func (r *Reconciler) snapshotInTx(ctx context.Context, tx ports.TxRepos, c *entity.PhysicalCount, lock bool) error {
	sort.Slice(c.Lines, func(i, j int) bool { return c.Lines[i].ItemID < c.Lines[j].ItemID })
	tol := countdomain.Tolerance{Percent: c.TolerancePercent, Units: c.ToleranceUnits}

	for i := range c.Lines {
		l := &c.Lines[i]
		var (
			stock *entity.Stock
			err   error
		)
		if lock {
			stock, err = tx.Stock.GetForUpdate(ctx, l.ItemID, c.WarehouseID)
		} else {
			stock, err = tx.Stock.Get(ctx, l.ItemID, c.WarehouseID)
		}
		if err != nil {
			return err
		}
		system := decimal.Zero
		if stock != nil {
			system = stock.Quantity
		}
		diff, within := tol.Evaluate(system, l.CountedQuantity)
		l.SystemQuantity = &system
		l.Difference = &diff
		l.WithinTolerance = within
		if err := tx.Counts.SaveSnapshot(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
