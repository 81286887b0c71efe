package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cvallejo/planta-api/internal/application/audit"
	"github.com/cvallejo/planta-api/internal/application/auth"
	"github.com/cvallejo/planta-api/internal/application/inventory"
	"github.com/cvallejo/planta-api/internal/application/procurement"
	"github.com/cvallejo/planta-api/internal/application/production"
	"github.com/cvallejo/planta-api/internal/application/sales"
	"github.com/cvallejo/planta-api/internal/application/stock"
	"github.com/cvallejo/planta-api/internal/application/usecase"
	infrapdf "github.com/cvallejo/planta-api/internal/infrastructure/pdf"
	"github.com/cvallejo/planta-api/internal/infrastructure/postgres"
	"github.com/cvallejo/planta-api/internal/infrastructure/webhook"
	httpRouter "github.com/cvallejo/planta-api/internal/interfaces/http"
	"github.com/cvallejo/planta-api/pkg/config"
	"github.com/cvallejo/planta-api/pkg/logger"
)

// quotationSweepInterval frecuencia del barrido de cotizaciones vencidas.
const quotationSweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (los TxRunner crean los atados a tx)
	userRepo := postgres.NewUserRepository(pool)
	rawMaterialRepo := postgres.NewRawMaterialRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	formulaRepo := postgres.NewFormulaRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	quotationRepo := postgres.NewSupplierQuotationRepository(pool)
	purchaseOrderRepo := postgres.NewPurchaseOrderRepository(pool)
	productionOrderRepo := postgres.NewProductionOrderRepository(pool)
	salesOrderRepo := postgres.NewSalesOrderRepository(pool)
	auditRepo := postgres.NewAuditEventRepository(pool)

	// Notificador de auditoría (best-effort, después del commit)
	var notifier audit.Notifier = audit.NopNotifier{}
	if cfg.Audit.WebhookURL != "" {
		notifier = webhook.NewRestyNotifier(cfg.Audit.WebhookURL, cfg.Audit.TimeoutSeconds, log)
	}

	// Casos de uso
	ledgerUC := inventory.NewLedgerUseCase(postgres.NewInventoryTxRunner(pool), movementRepo, notifier)
	checkerUC := stock.NewCheckerUseCase(salesOrderRepo, formulaRepo, movementRepo)

	procurementTx := postgres.NewProcurementTxRunner(pool)
	quotationUC := procurement.NewQuotationUseCase(procurementTx, quotationRepo, supplierRepo, rawMaterialRepo, notifier)
	purchaseOrderUC := procurement.NewPurchaseOrderUseCase(
		procurementTx, purchaseOrderRepo, quotationRepo, rawMaterialRepo, supplierRepo,
		ledgerUC, notifier, infrapdf.NewMarotoPDFGenerator(),
	)

	productionUC := production.NewProductionOrderUseCase(
		postgres.NewProductionTxRunner(pool), checkerUC,
		productionOrderRepo, salesOrderRepo, productRepo, rawMaterialRepo,
		ledgerUC, notifier,
	)

	salesOrderUC := sales.NewSalesOrderUseCase(
		postgres.NewSalesTxRunner(pool), salesOrderRepo, clientRepo, productRepo, notifier,
	)

	rawMaterialUC := usecase.NewRawMaterialUseCase(rawMaterialRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	formulaUC := usecase.NewFormulaUseCase(formulaRepo, productRepo, rawMaterialRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	auditUC := audit.NewListUseCase(auditRepo)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Barrido periódico de cotizaciones PENDING vencidas (además del chequeo
	// perezoso en Approve/Reject)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(quotationSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case now := <-ticker.C:
				n, err := quotationUC.ExpireDue(sweepCtx, now)
				if err != nil {
					log.Error().Err(err).Msg("barrido de cotizaciones vencidas")
					continue
				}
				if n > 0 {
					log.Info().Int("expired", n).Msg("cotizaciones marcadas EXPIRED")
				}
			}
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Planta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		RawMaterialUC:   rawMaterialUC,
		ProductUC:       productUC,
		FormulaUC:       formulaUC,
		SupplierUC:      supplierUC,
		ClientUC:        clientUC,
		LedgerUC:        ledgerUC,
		CheckerUC:       checkerUC,
		QuotationUC:     quotationUC,
		PurchaseOrderUC: purchaseOrderUC,
		ProductionUC:    productionUC,
		SalesOrderUC:    salesOrderUC,
		AuditUC:         auditUC,
		JWTSecret:       cfg.JWT.Secret,
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
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
