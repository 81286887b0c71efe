package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cvallejo/planta-api/internal/application/audit"
	"github.com/cvallejo/planta-api/internal/application/auth"
	"github.com/cvallejo/planta-api/internal/application/inventory"
	"github.com/cvallejo/planta-api/internal/application/procurement"
	"github.com/cvallejo/planta-api/internal/application/production"
	"github.com/cvallejo/planta-api/internal/application/sales"
	"github.com/cvallejo/planta-api/internal/application/stock"
	"github.com/cvallejo/planta-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	RawMaterialUC   *usecase.RawMaterialUseCase
	ProductUC       *usecase.ProductUseCase
	FormulaUC       *usecase.FormulaUseCase
	SupplierUC      *usecase.SupplierUseCase
	ClientUC        *usecase.ClientUseCase
	LedgerUC        *inventory.LedgerUseCase
	CheckerUC       *stock.CheckerUseCase
	QuotationUC     *procurement.QuotationUseCase
	PurchaseOrderUC *procurement.PurchaseOrderUseCase
	ProductionUC    *production.ProductionOrderUseCase
	SalesOrderUC    *sales.SalesOrderUseCase
	AuditUC         *audit.ListUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: materias primas
	rawMaterials := protected.Group("/raw-materials")
	rawMaterialHandler := NewRawMaterialHandler(deps.RawMaterialUC)
	rawMaterials.Post("/", rawMaterialHandler.Create)
	rawMaterials.Get("/", rawMaterialHandler.List)
	rawMaterials.Get("/:id", rawMaterialHandler.GetByID)
	rawMaterials.Put("/:id", rawMaterialHandler.Update)
	rawMaterials.Delete("/:id", rawMaterialHandler.Delete)

	// Catálogo: productos terminados
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Fórmulas (bill of materials)
	formulas := protected.Group("/formulas")
	formulaHandler := NewFormulaHandler(deps.FormulaUC)
	formulas.Post("/", formulaHandler.Create)
	formulas.Get("/", formulaHandler.List)
	formulas.Get("/product/:product_id", formulaHandler.GetByProductID)
	formulas.Put("/:id", formulaHandler.Update)
	formulas.Delete("/:id", formulaHandler.Delete)

	// Proveedores y clientes
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Libro de inventario
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements/:kind/:id", inventoryHandler.ListMovements)
	invGroup.Get("/stock/:kind/:id", inventoryHandler.GetStock)

	// Cotizaciones de proveedor
	quotations := protected.Group("/quotations")
	quotationHandler := NewQuotationHandler(deps.QuotationUC)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/", quotationHandler.List)
	quotations.Get("/:id", quotationHandler.GetByID)
	quotations.Post("/:id/approve", quotationHandler.Approve)
	quotations.Post("/:id/reject", quotationHandler.Reject)
	quotations.Delete("/:id", quotationHandler.Delete)

	// Órdenes de compra
	purchaseOrders := protected.Group("/purchase-orders")
	purchaseOrderHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	purchaseOrders.Post("/", purchaseOrderHandler.Create)
	purchaseOrders.Get("/", purchaseOrderHandler.List)
	purchaseOrders.Get("/:id", purchaseOrderHandler.GetByID)
	purchaseOrders.Put("/:id", purchaseOrderHandler.Update)
	purchaseOrders.Delete("/:id", purchaseOrderHandler.Delete)
	purchaseOrders.Post("/:id/receipts", purchaseOrderHandler.Receive)
	purchaseOrders.Get("/:id/pdf", purchaseOrderHandler.GetPDF)

	// Órdenes de producción
	productionOrders := protected.Group("/production-orders")
	productionHandler := NewProductionHandler(deps.ProductionUC, deps.CheckerUC)
	productionOrders.Post("/", productionHandler.Create)
	productionOrders.Get("/", productionHandler.List)
	productionOrders.Get("/stock-check/:sales_order_id", productionHandler.CheckStock)
	productionOrders.Get("/:id", productionHandler.GetByID)
	productionOrders.Post("/:id/finish", productionHandler.Finish)

	// Pedidos
	salesOrders := protected.Group("/sales-orders")
	salesOrderHandler := NewSalesOrderHandler(deps.SalesOrderUC)
	salesOrders.Post("/", salesOrderHandler.Create)
	salesOrders.Get("/", salesOrderHandler.List)
	salesOrders.Get("/:id", salesOrderHandler.GetByID)
	salesOrders.Put("/:id", salesOrderHandler.Edit)
	salesOrders.Delete("/:id", salesOrderHandler.Delete)
	salesOrders.Post("/:id/cancel", salesOrderHandler.Cancel)
	salesOrders.Post("/:id/advance", salesOrderHandler.Advance)

	// Auditoría
	auditGroup := protected.Group("/audit-events")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.List)
}
