package count

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/application/ports"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	countdomain "github.com/jhoicas/Inventario-costeo/internal/domain/count"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Workflow ciclo de vida del conteo alrededor del motor de conciliación.
// Aquí (y no en el motor) se consulta el Authorizer.
type Workflow struct {
	txRunner   ports.TxRunner
	countRepo  repository.PhysicalCountRepository
	reconciler *Reconciler
	authz      auth.Authorizer
	log        zerolog.Logger
	now        func() time.Time
}

// NewWorkflow construye el flujo de conteos.
func NewWorkflow(
	txRunner ports.TxRunner,
	countRepo repository.PhysicalCountRepository,
	reconciler *Reconciler,
	authz auth.Authorizer,
	log zerolog.Logger,
) *Workflow {
	return &Workflow{
		txRunner:   txRunner,
		countRepo:  countRepo,
		reconciler: reconciler,
		authz:      authz,
		log:        log,
		now:        time.Now,
	}
}

// Create abre un conteo en borrador. El usuario queda como responsable.
func (w *Workflow) Create(ctx context.Context, p auth.Principal, in dto.CreateCountRequest) (*entity.PhysicalCount, error) {
	if in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !auth.CanSeeWarehouse(w.authz, p, in.WarehouseID) {
		return nil, domain.ErrForbidden
	}
	if (in.TolerancePercent != nil && in.TolerancePercent.IsNegative()) ||
		(in.ToleranceUnits != nil && in.ToleranceUnits.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	now := w.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	c := &entity.PhysicalCount{
		ID:               uuid.New().String(),
		Date:             entity.DateOnly(date),
		WarehouseID:      in.WarehouseID,
		ResponsibleID:    p.UserID,
		TolerancePercent: in.TolerancePercent,
		ToleranceUnits:   in.ToleranceUnits,
		State:            string(countdomain.Draft),
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := w.countRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get devuelve el conteo con sus líneas si el usuario ve su almacén.
func (w *Workflow) Get(ctx context.Context, p auth.Principal, countID string) (*entity.PhysicalCount, error) {
	c, err := w.countRepo.GetByID(ctx, countID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !auth.CanSeeWarehouse(w.authz, p, c.WarehouseID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// SetLine registra (o corrige) la cantidad contada de un insumo. Solo en borrador.
func (w *Workflow) SetLine(ctx context.Context, p auth.Principal, countID, itemID string, counted decimal.Decimal) error {
	if itemID == "" {
		return domain.ErrInvalidInput
	}
	if counted.IsNegative() {
		return domain.ErrInvalidQuantity
	}
	return w.withDraft(ctx, p, countID, func(tx ports.TxRepos, c *entity.PhysicalCount) error {
		return upsertLine(ctx, tx, c, itemID, counted)
	})
}

// RemoveLine quita la línea del insumo. Solo en borrador.
func (w *Workflow) RemoveLine(ctx context.Context, p auth.Principal, countID, itemID string) error {
	return w.withDraft(ctx, p, countID, func(tx ports.TxRepos, c *entity.PhysicalCount) error {
		return tx.Counts.DeleteLine(ctx, countID, itemID)
	})
}

// Close concilia (solo snapshot) y cierra el borrador.
// Con líneas fuera de tolerancia: un supervisor cierra y queda como aprobador;
// cualquier otro usuario deja el conteo pendiente de aprobación.
func (w *Workflow) Close(ctx context.Context, p auth.Principal, countID string) (*entity.PhysicalCount, error) {
	if !w.authz.CanCloseCounts(p) {
		return nil, domain.ErrForbidden
	}
	return w.transition(ctx, p, countID, func(tx ports.TxRepos, c *entity.PhysicalCount) error {
		if countdomain.State(c.State) != countdomain.Draft {
			return domain.ErrInvalidState
		}
		if err := w.reconciler.snapshotInTx(ctx, tx, c, false); err != nil {
			return err
		}
		now := w.now()
		if c.HasCriticalLines() && !w.authz.IsSupervisor(p) {
			return setState(c, countdomain.PendingApproval, now)
		}
		if err := setState(c, countdomain.Closed, now); err != nil {
			return err
		}
		c.ClosedBy, c.ClosedAt = &p.UserID, &now
		if c.HasCriticalLines() {
			c.ApprovedBy, c.ApprovedAt = &p.UserID, &now
		}
		return nil
	})
}

// SubmitForApproval concilia el borrador y lo envía a aprobación de un supervisor.
func (w *Workflow) SubmitForApproval(ctx context.Context, p auth.Principal, countID string) (*entity.PhysicalCount, error) {
	if !w.authz.CanCloseCounts(p) {
		return nil, domain.ErrForbidden
	}
	return w.transition(ctx, p, countID, func(tx ports.TxRepos, c *entity.PhysicalCount) error {
		if err := countdomain.Transition(countdomain.State(c.State), countdomain.PendingApproval); err != nil {
			return err
		}
		if err := w.reconciler.snapshotInTx(ctx, tx, c, false); err != nil {
			return err
		}
		return setState(c, countdomain.PendingApproval, w.now())
	})
}

// Approve cierra un conteo pendiente y registra al supervisor que aprobó.
func (w *Workflow) Approve(ctx context.Context, p auth.Principal, countID string) (*entity.PhysicalCount, error) {
	if !w.authz.IsSupervisor(p) {
		return nil, domain.ErrForbidden
	}
	return w.transition(ctx, p, countID, func(_ ports.TxRepos, c *entity.PhysicalCount) error {
		if countdomain.State(c.State) != countdomain.PendingApproval {
			return domain.ErrInvalidState
		}
		now := w.now()
		if err := setState(c, countdomain.Closed, now); err != nil {
			return err
		}
		c.ApprovedBy, c.ApprovedAt = &p.UserID, &now
		c.ClosedBy, c.ClosedAt = &p.UserID, &now
		return nil
	})
}

// Reject devuelve un conteo pendiente a borrador para recontar.
func (w *Workflow) Reject(ctx context.Context, p auth.Principal, countID string) (*entity.PhysicalCount, error) {
	if !w.authz.IsSupervisor(p) {
		return nil, domain.ErrForbidden
	}
	return w.transition(ctx, p, countID, func(_ ports.TxRepos, c *entity.PhysicalCount) error {
		if countdomain.State(c.State) != countdomain.PendingApproval {
			return domain.ErrInvalidState
		}
		return setState(c, countdomain.Draft, w.now())
	})
}

// ApplyAdjustments concilia un conteo cerrado registrando los ajustes correctivos.
func (w *Workflow) ApplyAdjustments(ctx context.Context, p auth.Principal, countID string) (*Result, error) {
	if !w.authz.CanApplyAdjustments(p) {
		return nil, domain.ErrForbidden
	}
	if _, err := w.Get(ctx, p, countID); err != nil {
		return nil, err
	}
	return w.reconciler.Reconcile(ctx, countID, true, p.UserID)
}

// Preview concilia sin ajustar: refresca el snapshot de cantidades de sistema y diferencias.
func (w *Workflow) Preview(ctx context.Context, p auth.Principal, countID string) (*Result, error) {
	if _, err := w.Get(ctx, p, countID); err != nil {
		return nil, err
	}
	return w.reconciler.Reconcile(ctx, countID, false, p.UserID)
}

// ChangeState cambio de estado genérico. adjusted no se puede forzar: solo se alcanza
// aplicando ajustes.
func (w *Workflow) ChangeState(ctx context.Context, p auth.Principal, countID, target string) (*entity.PhysicalCount, error) {
	to, err := countdomain.Parse(target)
	if err != nil {
		return nil, err
	}
	if to == countdomain.Adjusted {
		return nil, domain.ErrInvalidState
	}
	c, err := w.Get(ctx, p, countID)
	if err != nil {
		return nil, err
	}
	from := countdomain.State(c.State)
	if err := countdomain.Transition(from, to); err != nil {
		return nil, err
	}
	switch {
	case from == countdomain.Draft && to == countdomain.Closed:
		return w.Close(ctx, p, countID)
	case from == countdomain.Draft && to == countdomain.PendingApproval:
		return w.SubmitForApproval(ctx, p, countID)
	case from == countdomain.PendingApproval && to == countdomain.Closed:
		return w.Approve(ctx, p, countID)
	case from == countdomain.PendingApproval && to == countdomain.Draft:
		return w.Reject(ctx, p, countID)
	}
	return nil, domain.ErrInvalidState
}

// withDraft bloquea el conteo y ejecuta fn solo si está en borrador.
func (w *Workflow) withDraft(ctx context.Context, p auth.Principal, countID string, fn func(tx ports.TxRepos, c *entity.PhysicalCount) error) error {
	return w.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		c, err := w.lock(ctx, tx, p, countID)
		if err != nil {
			return err
		}
		if !countdomain.LinesEditable(countdomain.State(c.State)) {
			return domain.ErrInvalidState
		}
		return fn(tx, c)
	})
}

// transition bloquea el conteo, aplica fn y persiste la cabecera.
func (w *Workflow) transition(ctx context.Context, p auth.Principal, countID string, fn func(tx ports.TxRepos, c *entity.PhysicalCount) error) (*entity.PhysicalCount, error) {
	var (
		out  *entity.PhysicalCount
		from string
	)
	err := w.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		c, err := w.lock(ctx, tx, p, countID)
		if err != nil {
			return err
		}
		from = c.State
		if err := fn(tx, c); err != nil {
			return err
		}
		if err := tx.Counts.UpdateHeader(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.log.Info().
		Str("count_id", out.ID).
		Str("from", from).
		Str("to", out.State).
		Str("actor_id", p.UserID).
		Msg("estado de conteo actualizado")
	return out, nil
}

func (w *Workflow) lock(ctx context.Context, tx ports.TxRepos, p auth.Principal, countID string) (*entity.PhysicalCount, error) {
	c, err := tx.Counts.GetForUpdate(ctx, countID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !auth.CanSeeWarehouse(w.authz, p, c.WarehouseID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func setState(c *entity.PhysicalCount, to countdomain.State, now time.Time) error {
	if err := countdomain.Transition(countdomain.State(c.State), to); err != nil {
		return err
	}
	c.State = string(to)
	c.UpdatedAt = now
	return nil
}

func upsertLine(ctx context.Context, tx ports.TxRepos, c *entity.PhysicalCount, itemID string, counted decimal.Decimal) error {
	line := &entity.PhysicalCountLine{
		ID:              uuid.New().String(),
		CountID:         c.ID,
		ItemID:          itemID,
		CountedQuantity: counted,
	}
	for _, l := range c.Lines {
		if l.ItemID == itemID {
			line.ID = l.ID
			break
		}
	}
	return tx.Counts.UpsertLine(ctx, line)
}
