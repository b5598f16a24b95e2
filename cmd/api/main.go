package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/catalog"
	"github.com/jhoicas/Inventario-costeo/internal/application/count"
	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/application/planning"
	"github.com/jhoicas/Inventario-costeo/internal/application/ports"
	"github.com/jhoicas/Inventario-costeo/internal/application/recipe"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-costeo/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/Inventario-costeo/internal/interfaces/http"
	"github.com/jhoicas/Inventario-costeo/pkg/config"
	"github.com/jhoicas/Inventario-costeo/pkg/logger"
)

// backend repositorios fuera de transacción + TxRunner de un mismo almacenamiento.
type backend struct {
	txRunner   ports.TxRunner
	units      repository.UnitRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	items      repository.ItemRepository
	warehouses repository.WarehouseRepository
	stock      repository.StockRepository
	movements  repository.InventoryMovementRepository
	lots       repository.LotRepository
	dishes     repository.DishRepository
	counts     repository.PhysicalCountRepository
	reports    repository.ReportRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		App:   cfg.App.Name,
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Inventory.Store).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer be.close()

	authz := auth.NewRoleAuthorizer()
	tokens := auth.NewTokenService(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	recorder := inventory.NewMovementRecorder(be.txRunner, be.warehouses, log.Component("inventory"))
	costing := recipe.NewCostingUseCase(be.dishes, be.items, log.Component("recipe"))
	recorder.WithCostObserver(costing)
	reconciler := count.NewReconciler(be.txRunner, recorder, log.Component("count"))
	workflow := count.NewWorkflow(be.txRunner, be.counts, reconciler, authz, log.Component("count"))
	sheetUC := count.NewSheetUseCase(be.txRunner, workflow, be.items, be.warehouses,
		sheets.NewParser(), infrapdf.NewCountSheetGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024, // planillas de conteo
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Tokens:     tokens,
		Authorizer: authz,
		Warehouses: catalog.NewWarehouseUseCase(be.warehouses),
		Items:      catalog.NewItemUseCase(be.items, be.units, be.categories, be.suppliers),
		Suppliers:  catalog.NewSupplierUseCase(be.suppliers),
		Dishes:     catalog.NewDishUseCase(be.txRunner, be.dishes, be.items, costing),
		Recorder:   recorder,
		Ledger:     inventory.NewLedgerQueryUseCase(be.stock, be.movements),
		Purchases:  inventory.NewPurchaseDocumentProcessor(be.txRunner, recorder, log.Component("purchases")),
		Lots:       inventory.NewLotTracker(be.lots),
		Alerts:     inventory.NewStockAlertsUseCase(be.reports),
		Counts:     workflow,
		Sheets:     sheetUC,
		Planning:   planning.NewRequirementsUseCase(be.dishes, be.items, be.stock),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openBackend arma PostgreSQL (por defecto) o el almacenamiento en memoria (INVENTORY_STORE=memory).
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Inventory.Store == "memory" {
		store := memory.NewStore()
		r := store.Repos()
		return &backend{
			txRunner:   memory.NewTxRunner(store),
			units:      r.Units,
			categories: r.Categories,
			suppliers:  r.Suppliers,
			items:      r.Items,
			warehouses: r.Warehouses,
			stock:      r.Stock,
			movements:  r.Movements,
			lots:       r.Lots,
			dishes:     r.Dishes,
			counts:     r.Counts,
			reports:    r.Reports,
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		return nil, err
	}
	return &backend{
		txRunner:   postgres.NewTxRunner(pool, cfg.Inventory.LockTimeout()),
		units:      postgres.NewUnitRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		items:      postgres.NewItemRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		stock:      postgres.NewStockRepository(pool),
		movements:  postgres.NewInventoryMovementRepository(pool),
		lots:       postgres.NewLotRepository(pool),
		dishes:     postgres.NewDishRepository(pool),
		counts:     postgres.NewPhysicalCountRepository(pool),
		reports:    postgres.NewReportRepository(pool),
		close:      pool.Close,
	}, nil
}
