package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-costeo/internal/application/ports"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MovementRecorder es el único camino por el que cambian Stock.Quantity, Stock.UnitCost e Item.Cost.
// Cada operación corre en una transacción (TxRunner) con bloqueo de fila (SELECT FOR UPDATE)
// sobre los registros de stock que toca, y hace Commit o Rollback completo.
//
// Orden de bloqueo: documento/conteo → stock (ordenado por insumo, almacén) → insumo → lote.
type MovementRecorder struct {
	txRunner      ports.TxRunner
	warehouseRepo repository.WarehouseRepository
	log           zerolog.Logger
	now           func() time.Time
	costObserver  ItemCostObserver
}

// ItemCostObserver recibe el insumo cuyo costo cambió, después del commit.
type ItemCostObserver interface {
	RecomputeForItem(ctx context.Context, itemID string) (int, error)
}

// WithCostObserver registra quién recalcula los costos dependientes (p. ej. recetas).
func (uc *MovementRecorder) WithCostObserver(o ItemCostObserver) *MovementRecorder {
	uc.costObserver = o
	return uc
}

// notifyCostChange avisa fuera de la transacción; un fallo se registra y no revierte el movimiento.
func (uc *MovementRecorder) notifyCostChange(ctx context.Context, itemID string) {
	if uc.costObserver == nil {
		return
	}
	if _, err := uc.costObserver.RecomputeForItem(ctx, itemID); err != nil {
		uc.log.Error().Err(err).Str("item_id", itemID).Msg("no se pudo recalcular el costo de recetas")
	}
}

// NewMovementRecorder construye el caso de uso.
func NewMovementRecorder(
	txRunner ports.TxRunner,
	warehouseRepo repository.WarehouseRepository,
	log zerolog.Logger,
) *MovementRecorder {
	return &MovementRecorder{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		log:           log,
		now:           time.Now,
	}
}

// MovementMeta datos de auditoría comunes a todos los movimientos.
type MovementMeta struct {
	UserID    string
	Reason    string
	Reference string
	Date      *time.Time // fecha efectiva; nil = ahora
}

// PurchaseInput entrada para una entrada por compra. UnitCost viene en unidad de compra
// si el insumo la tiene configurada.
type PurchaseInput struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	LotNumber   string
	ExpiryDate  *time.Time
	Meta        MovementMeta
}

// AdjustmentInput entrada para un ajuste. El signo de Quantity define entrada o salida.
// Kind es opcional (adjustment_in / adjustment_out) y debe coincidir con el signo.
type AdjustmentInput struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	Kind        string
	Meta        MovementMeta
}

// TransferInput entrada para un traspaso entre almacenes.
type TransferInput struct {
	ItemID          string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Meta            MovementMeta
}

// ConsumptionInput entrada para el consumo de insumos por producción de un plato.
type ConsumptionInput struct {
	DishID        string
	WarehouseID   string
	UnitsProduced decimal.Decimal
	Meta          MovementMeta
}

// WasteInput entrada para una merma. Quantity debe ser negativa.
type WasteInput struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	Meta        MovementMeta
}

// RecordPurchase registra una entrada por compra con costo promedio ponderado.
func (uc *MovementRecorder) RecordPurchase(ctx context.Context, in PurchaseInput) (*entity.InventoryMovement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if !in.UnitCost.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidCost
	}
	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		var err error
		mov, err = uc.RecordPurchaseInTx(ctx, tx, in, uuid.New().String())
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logMovement(mov)
	uc.notifyCostChange(ctx, in.ItemID)
	return mov, nil
}

// RecordPurchaseInTx ejecuta la entrada por compra con los repositorios del caller (misma transacción).
//  1. convierte el costo de unidad de compra a unidad de consumo;
//  2. bloquea (o crea) el stock y recalcula su costo promedio ponderado;
//  3. recalcula el costo global del insumo;
//  4. registra el movimiento y actualiza el lote si se indicó número o vencimiento.
func (uc *MovementRecorder) RecordPurchaseInTx(
	ctx context.Context,
	tx ports.TxRepos,
	in PurchaseInput,
	txID string,
) (*entity.InventoryMovement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	item, err := tx.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	// El promedio se calcula con el costo convertido sin redondear; solo se redondea lo persistido.
	entryCost := item.PurchaseCostToConsumption(in.UnitCost)
	if !entryCost.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidCost
	}
	unitCost := inventory.Round4(entryCost)

	now := uc.now()
	stock, err := tx.Stock.GetOrCreateForUpdate(ctx, in.ItemID, in.WarehouseID, decimal.Zero)
	if err != nil {
		return nil, err
	}
	stock.UnitCost = inventory.CostCalculator(stock.Quantity, stock.UnitCost, in.Quantity, entryCost)
	stock.Quantity = stock.Quantity.Add(in.Quantity)
	stock.UpdatedAt = now
	if err := tx.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}
	if _, err := uc.RecalculateItemCost(ctx, tx, in.ItemID); err != nil {
		return nil, err
	}

	mov := entity.NewMovement(
		uuid.New().String(), txID, in.ItemID, in.WarehouseID, entity.MovementPurchaseIn,
		in.Quantity, &unitCost, effectiveDate(in.Meta, now),
		strings.TrimSpace(in.Meta.Reason), in.Meta.Reference, in.Meta.UserID, now,
	)
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	if in.LotNumber != "" || in.ExpiryDate != nil {
		if err := uc.upsertLot(ctx, tx, in, unitCost, now); err != nil {
			return nil, err
		}
	}
	return mov, nil
}

// upsertLot suma la cantidad al lote y deja como costo el último registrado (no pondera).
func (uc *MovementRecorder) upsertLot(
	ctx context.Context,
	tx ports.TxRepos,
	in PurchaseInput,
	unitCost decimal.Decimal,
	now time.Time,
) error {
	var expiry *time.Time
	if in.ExpiryDate != nil {
		d := entity.DateOnly(*in.ExpiryDate)
		expiry = &d
	}
	key := entity.LotKey{ItemID: in.ItemID, WarehouseID: in.WarehouseID, LotNumber: in.LotNumber, ExpiryDate: expiry}
	lot, err := tx.Lots.GetForUpdate(ctx, key)
	if err != nil {
		return err
	}
	if lot == nil {
		lot = &entity.Lot{
			ID:          uuid.New().String(),
			ItemID:      in.ItemID,
			WarehouseID: in.WarehouseID,
			LotNumber:   in.LotNumber,
			ExpiryDate:  expiry,
			Quantity:    decimal.Zero,
			Active:      true,
			CreatedAt:   now,
		}
	}
	lot.Quantity = lot.Quantity.Add(in.Quantity)
	lot.UnitCost = unitCost
	lot.UpdatedAt = now
	return tx.Lots.Upsert(ctx, lot)
}

// RecordAdjustment registra un ajuste positivo o negativo. No modifica costos.
func (uc *MovementRecorder) RecordAdjustment(ctx context.Context, in AdjustmentInput) (*entity.InventoryMovement, error) {
	if err := validateAdjustment(in); err != nil {
		return nil, err
	}
	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		var err error
		mov, err = uc.RecordAdjustmentInTx(ctx, tx, in, uuid.New().String())
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logMovement(mov)
	return mov, nil
}

func validateAdjustment(in AdjustmentInput) error {
	if in.Quantity.IsZero() {
		return domain.ErrEmptyQuantity
	}
	if strings.TrimSpace(in.Meta.Reason) == "" {
		return domain.ErrEmptyReason
	}
	switch in.Kind {
	case "":
	case entity.MovementAdjustmentIn:
		if in.Quantity.IsNegative() {
			return domain.ErrInvalidInput
		}
	case entity.MovementAdjustmentOut:
		if in.Quantity.IsPositive() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// RecordAdjustmentInTx ejecuta el ajuste con los repositorios del caller (misma transacción).
// El movimiento lleva el costo unitario actual del stock solo como referencia contable.
func (uc *MovementRecorder) RecordAdjustmentInTx(
	ctx context.Context,
	tx ports.TxRepos,
	in AdjustmentInput,
	txID string,
) (*entity.InventoryMovement, error) {
	if err := validateAdjustment(in); err != nil {
		return nil, err
	}
	item, err := tx.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	stock, err := tx.Stock.GetForUpdate(ctx, in.ItemID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		if in.Quantity.IsNegative() {
			return nil, domain.ErrNoStock
		}
		// Ajuste positivo sin stock previo: el registro nace con el costo global del insumo.
		stock, err = tx.Stock.GetOrCreateForUpdate(ctx, in.ItemID, in.WarehouseID, item.Cost)
		if err != nil {
			return nil, err
		}
	}

	newQty := stock.Quantity.Add(in.Quantity)
	if newQty.IsNegative() {
		return nil, domain.ErrNegativeStockResult
	}
	stock.Quantity = newQty
	stock.UpdatedAt = now
	if err := tx.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	kind := in.Kind
	if kind == "" {
		kind = entity.MovementAdjustmentIn
		if in.Quantity.IsNegative() {
			kind = entity.MovementAdjustmentOut
		}
	}
	var unitCost *decimal.Decimal
	if !stock.UnitCost.IsZero() {
		c := stock.UnitCost
		unitCost = &c
	}
	mov := entity.NewMovement(
		uuid.New().String(), txID, in.ItemID, in.WarehouseID, kind,
		in.Quantity, unitCost, effectiveDate(in.Meta, now),
		strings.TrimSpace(in.Meta.Reason), in.Meta.Reference, in.Meta.UserID, now,
	)
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordTransfer mueve stock entre almacenes. El destino recibe al costo promedio del
// origen y pondera su propio costo; el valor total del insumo no cambia.
func (uc *MovementRecorder) RecordTransfer(ctx context.Context, in TransferInput) (out, inMov *entity.InventoryMovement, err error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidQuantity
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, nil, domain.ErrSameWarehouse
	}
	fromWh, err := uc.warehouseRepo.GetByID(ctx, in.FromWarehouseID)
	if err != nil {
		return nil, nil, err
	}
	toWh, err := uc.warehouseRepo.GetByID(ctx, in.ToWarehouseID)
	if err != nil {
		return nil, nil, err
	}
	if fromWh == nil || toWh == nil {
		return nil, nil, domain.ErrNotFound
	}

	txID := uuid.New().String()
	err = uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		var err error
		out, inMov, err = uc.doTransfer(ctx, tx, in, fromWh, toWh, txID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	uc.logMovement(out)
	uc.logMovement(inMov)
	uc.notifyCostChange(ctx, in.ItemID)
	return out, inMov, nil
}

func (uc *MovementRecorder) doTransfer(
	ctx context.Context,
	tx ports.TxRepos,
	in TransferInput,
	fromWh, toWh *entity.Warehouse,
	txID string,
) (*entity.InventoryMovement, *entity.InventoryMovement, error) {
	now := uc.now()

	// Bloquea ambas filas en orden estable para evitar deadlocks entre traspasos cruzados.
	var origin, dest *entity.Stock
	lockOrigin := func() error {
		var err error
		origin, err = tx.Stock.GetForUpdate(ctx, in.ItemID, in.FromWarehouseID)
		return err
	}
	lockDest := func() error {
		var err error
		dest, err = tx.Stock.GetOrCreateForUpdate(ctx, in.ItemID, in.ToWarehouseID, decimal.Zero)
		return err
	}
	first, second := lockOrigin, lockDest
	if in.ToWarehouseID < in.FromWarehouseID {
		first, second = lockDest, lockOrigin
	}
	if err := first(); err != nil {
		return nil, nil, err
	}
	if err := second(); err != nil {
		return nil, nil, err
	}

	if origin == nil {
		return nil, nil, domain.ErrNoStock
	}
	if origin.Quantity.LessThan(in.Quantity) {
		return nil, nil, domain.NewInsufficientStock(in.ItemID, in.Quantity, origin.Quantity)
	}
	originCost := origin.UnitCost

	origin.Quantity = origin.Quantity.Sub(in.Quantity)
	origin.UpdatedAt = now
	dest.UnitCost = inventory.CostCalculator(dest.Quantity, dest.UnitCost, in.Quantity, originCost)
	dest.Quantity = dest.Quantity.Add(in.Quantity)
	dest.UpdatedAt = now
	if err := tx.Stock.Upsert(ctx, origin); err != nil {
		return nil, nil, err
	}
	if err := tx.Stock.Upsert(ctx, dest); err != nil {
		return nil, nil, err
	}
	if _, err := uc.RecalculateItemCost(ctx, tx, in.ItemID); err != nil {
		return nil, nil, err
	}

	date := effectiveDate(in.Meta, now)
	reason := strings.TrimSpace(in.Meta.Reason)
	outReason, inReason := reason, reason
	if reason == "" {
		outReason = "Traspaso a almacén " + toWh.Name
		inReason = "Traspaso desde almacén " + fromWh.Name
	}
	outMov := entity.NewMovement(
		uuid.New().String(), txID, in.ItemID, in.FromWarehouseID, entity.MovementTransferOut,
		in.Quantity.Neg(), &originCost, date, outReason, in.Meta.Reference, in.Meta.UserID, now,
	)
	if err := tx.Movements.Create(ctx, outMov); err != nil {
		return nil, nil, err
	}
	inMov := entity.NewMovement(
		uuid.New().String(), txID, in.ItemID, in.ToWarehouseID, entity.MovementTransferIn,
		in.Quantity, &originCost, date, inReason, in.Meta.Reference, in.Meta.UserID, now,
	)
	if err := tx.Movements.Create(ctx, inMov); err != nil {
		return nil, nil, err
	}
	return outMov, inMov, nil
}

// RecordRecipeConsumption descuenta los insumos de la receta por las unidades producidas.
// Valida todas las líneas antes de mutar: o se aplican todas o ninguna.
func (uc *MovementRecorder) RecordRecipeConsumption(ctx context.Context, in ConsumptionInput) ([]*entity.InventoryMovement, error) {
	if !in.UnitsProduced.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	var movs []*entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		var err error
		movs, err = uc.doConsumption(ctx, tx, in, uuid.New().String())
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, m := range movs {
		uc.logMovement(m)
	}
	return movs, nil
}

func (uc *MovementRecorder) doConsumption(
	ctx context.Context,
	tx ports.TxRepos,
	in ConsumptionInput,
	txID string,
) ([]*entity.InventoryMovement, error) {
	dish, err := tx.Dishes.GetByID(ctx, in.DishID)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, domain.ErrNotFound
	}
	if !dish.Active {
		return nil, domain.ErrInactiveDish
	}
	lines := dish.PositiveLines()
	if len(lines) == 0 {
		return nil, domain.ErrEmptyRecipe
	}

	// Bloquea todas las filas (orden por insumo) antes de validar.
	lockOrder := make([]string, 0, len(lines))
	for _, l := range lines {
		lockOrder = append(lockOrder, l.ItemID)
	}
	sort.Strings(lockOrder)
	stocks := make(map[string]*entity.Stock, len(lines))
	for _, itemID := range lockOrder {
		if _, ok := stocks[itemID]; ok {
			continue
		}
		s, err := tx.Stock.GetForUpdate(ctx, itemID, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		stocks[itemID] = s
	}

	required := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		required[l.ItemID] = required[l.ItemID].Add(l.Quantity.Mul(in.UnitsProduced))
	}
	for _, l := range lines {
		available := decimal.Zero
		if s := stocks[l.ItemID]; s != nil {
			available = s.Quantity
		}
		if available.LessThan(required[l.ItemID]) {
			return nil, domain.NewInsufficientStock(l.ItemID, required[l.ItemID], available)
		}
	}

	now := uc.now()
	date := effectiveDate(in.Meta, now)
	reason := strings.TrimSpace(in.Meta.Reason)
	if reason == "" {
		reason = fmt.Sprintf("Consumo por receta %s x%s", dish.Name, in.UnitsProduced.String())
	}
	movs := make([]*entity.InventoryMovement, 0, len(lines))
	for _, l := range lines {
		s := stocks[l.ItemID]
		req, pending := required[l.ItemID]
		if !pending {
			continue
		}
		delete(required, l.ItemID)

		s.Quantity = s.Quantity.Sub(req)
		s.UpdatedAt = now
		if err := tx.Stock.Upsert(ctx, s); err != nil {
			return nil, err
		}
		cost := s.UnitCost
		mov := entity.NewMovement(
			uuid.New().String(), txID, l.ItemID, in.WarehouseID, entity.MovementConsumptionOut,
			req.Neg(), &cost, date, reason, in.Meta.Reference, in.Meta.UserID, now,
		)
		if err := tx.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
		movs = append(movs, mov)
	}
	return movs, nil
}

// RecordWaste registra una merma (cantidad negativa). No modifica costos.
func (uc *MovementRecorder) RecordWaste(ctx context.Context, in WasteInput) (*entity.InventoryMovement, error) {
	if !in.Quantity.IsNegative() {
		return nil, domain.ErrNonNegativeQuantity
	}
	if strings.TrimSpace(in.Meta.Reason) == "" {
		return nil, domain.ErrEmptyReason
	}
	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		now := uc.now()
		stock, err := tx.Stock.GetForUpdate(ctx, in.ItemID, in.WarehouseID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrNoStock
		}
		newQty := stock.Quantity.Add(in.Quantity)
		if newQty.IsNegative() {
			return domain.NewInsufficientStock(in.ItemID, in.Quantity.Neg(), stock.Quantity)
		}
		stock.Quantity = newQty
		stock.UpdatedAt = now
		if err := tx.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		cost := stock.UnitCost
		mov = entity.NewMovement(
			uuid.New().String(), uuid.New().String(), in.ItemID, in.WarehouseID, entity.MovementWasteOut,
			in.Quantity, &cost, effectiveDate(in.Meta, now),
			strings.TrimSpace(in.Meta.Reason), in.Meta.Reference, in.Meta.UserID, now,
		)
		return tx.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	uc.logMovement(mov)
	return mov, nil
}

// RecalculateItemCost recalcula y persiste el costo promedio global del insumo:
// Σ(qty·costo) / Σ(qty) sobre todos los almacenes, 0 si no hay stock.
// Debe ejecutarse en la misma transacción que la mutación que lo invalidó; bloquea
// la fila del insumo para que los recálculos concurrentes del mismo insumo se serialicen.
func (uc *MovementRecorder) RecalculateItemCost(ctx context.Context, tx ports.TxRepos, itemID string) (decimal.Decimal, error) {
	item, err := tx.Items.GetForUpdate(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	stocks, err := tx.Stock.ListByItem(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	values := make([]inventory.StockValue, 0, len(stocks))
	for _, s := range stocks {
		values = append(values, inventory.StockValue{Quantity: s.Quantity, UnitCost: s.UnitCost})
	}
	cost := inventory.AggregateCost(values)
	if err := tx.Items.UpdateCost(ctx, itemID, cost); err != nil {
		return decimal.Zero, err
	}
	return cost, nil
}

func effectiveDate(meta MovementMeta, now time.Time) time.Time {
	if meta.Date != nil {
		return *meta.Date
	}
	return now
}

func (uc *MovementRecorder) logMovement(m *entity.InventoryMovement) {
	if m == nil {
		return
	}
	ev := uc.log.Info().
		Str("movement_id", m.ID).
		Str("transaction_id", m.TransactionID).
		Str("type", m.Type).
		Str("item_id", m.ItemID).
		Str("warehouse_id", m.WarehouseID).
		Str("quantity", m.Quantity.String())
	if m.UnitCost != nil {
		ev = ev.Str("unit_cost", m.UnitCost.String())
	}
	ev.Msg("movimiento de inventario registrado")
}

// IsRetryable indica si el error de una operación del motor es una falla transitoria
// de almacenamiento que el caller puede reintentar tras revalidar.
func IsRetryable(err error) bool {
	return domain.IsTransient(err)
}
