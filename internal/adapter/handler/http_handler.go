package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/core/service"
	"github.com/rl1809/product-inventory/internal/port"
)

type HTTPHandler struct {
	products     *service.ProductService
	warehouses   *service.WarehouseService
	transactions *service.TransactionService
	sites        port.SiteRepository
	logger       *zap.Logger
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Errors []domain.FieldError `json:"errors"`
}

func NewHTTPHandler(products *service.ProductService, warehouses *service.WarehouseService, transactions *service.TransactionService, sites port.SiteRepository, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{
		products:     products,
		warehouses:   warehouses,
		transactions: transactions,
		sites:        sites,
		logger:       logger,
	}
}

func (h *HTTPHandler) Register(router fiber.Router) {
	router.Get("/", h.Banner)
	router.Get("/health", h.HealthCheck)
	router.Get("/swagger.json", h.SwaggerJSON)
	router.Get("/api-docs", h.APIDocs)

	api := router.Group("/api")
	api.Get("/siteinfo/:id", h.GetSite)

	products := api.Group("/products")
	products.Get("/", h.ListProducts)
	products.Post("/", h.CreateProduct)
	products.Put("/", h.ReplaceProduct)
	products.Get("/:id", h.GetProduct)
	products.Put("/:id", h.ReplaceProduct)
	products.Delete("/:id", h.DeleteProduct)
	products.Get("/:id/warehouses", h.ListWarehousesByProduct)
	products.Post("/:id/warehouses/sync", h.MaterializeWarehouses)

	warehouses := api.Group("/warehouses")
	warehouses.Get("/", h.ListWarehouses)
	warehouses.Post("/", h.CreateWarehouse)
	warehouses.Put("/", h.ReplaceWarehouse)
	warehouses.Post("/transactions", h.ApplyTransaction)
	warehouses.Get("/:id", h.GetWarehouse)
	warehouses.Put("/:id", h.ReplaceWarehouse)
	warehouses.Delete("/:id", h.DeleteWarehouse)
}

func (h *HTTPHandler) Banner(c *fiber.Ctx) error {
	return c.SendString("Product Management API")
}

func (h *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *HTTPHandler) GetSite(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.writeError(c, err)
	}
	site, err := h.sites.GetByID(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(site)
}

func (h *HTTPHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.products.ListProducts(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(products)
}

func (h *HTTPHandler) GetProduct(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.writeError(c, err)
	}
	product, err := h.products.GetProduct(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(product)
}

func (h *HTTPHandler) CreateProduct(c *fiber.Ctx) error {
	var product domain.Product
	if err := c.BodyParser(&product); err != nil {
		return h.writeBadBody(c, err)
	}
	created, err := h.products.CreateProduct(c.UserContext(), product)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *HTTPHandler) ReplaceProduct(c *fiber.Ctx) error {
	var product domain.Product
	if err := c.BodyParser(&product); err != nil {
		return h.writeBadBody(c, err)
	}
	if err := bindPathID(c, &product.ProductID, "productId"); err != nil {
		return h.writeError(c, err)
	}
	updated, err := h.products.ReplaceProduct(c.UserContext(), product)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *HTTPHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.writeError(c, err)
	}
	deleted, err := h.products.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(deleted)
}

func (h *HTTPHandler) ListWarehousesByProduct(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.writeError(c, err)
	}
	warehouses, err := h.warehouses.ListWarehousesByProduct(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(warehouses)
}

func (h *HTTPHandler) MaterializeWarehouses(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.writeError(c, err)
	}
	product, err := h.products.MaterializeWarehouses(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(product)
}

func (h *HTTPHandler) ListWarehouses(c *fiber.Ctx) error {
	warehouses, err := h.warehouses.ListWarehouses(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(warehouses)
}

func (h *HTTPHandler) GetWarehouse(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.writeError(c, err)
	}
	warehouse, err := h.warehouses.GetWarehouse(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(warehouse)
}

func (h *HTTPHandler) CreateWarehouse(c *fiber.Ctx) error {
	var warehouse domain.Warehouse
	if err := c.BodyParser(&warehouse); err != nil {
		return h.writeBadBody(c, err)
	}
	created, err := h.warehouses.CreateWarehouse(c.UserContext(), warehouse)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *HTTPHandler) ReplaceWarehouse(c *fiber.Ctx) error {
	var warehouse domain.Warehouse
	if err := c.BodyParser(&warehouse); err != nil {
		return h.writeBadBody(c, err)
	}
	if err := bindPathID(c, &warehouse.WarehouseID, "warehouseId"); err != nil {
		return h.writeError(c, err)
	}
	updated, err := h.warehouses.ReplaceWarehouse(c.UserContext(), warehouse)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *HTTPHandler) DeleteWarehouse(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.writeError(c, err)
	}
	deleted, err := h.warehouses.DeleteWarehouse(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(deleted)
}

func (h *HTTPHandler) ApplyTransaction(c *fiber.Ctx) error {
	var tx domain.InventoryTransaction
	if err := c.BodyParser(&tx); err != nil {
		return h.writeBadBody(c, err)
	}
	applied, err := h.transactions.ApplyTransaction(c.UserContext(), tx)
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Errors: []domain.FieldError{{
			Value:    nf.ID,
			Msg:      nf.Entity + " doesn't exist",
			Param:    nf.Entity + "Id",
			Location: "body",
		}}})
	}
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(applied)
}

func (h *HTTPHandler) writeError(c *fiber.Ctx, err error) error {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Errors: ve.Errors})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Errors: []domain.FieldError{{
			Value:    nf.ID,
			Msg:      nf.Error(),
			Param:    nf.Entity + "Id",
			Location: "params",
		}}})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Errors: []domain.FieldError{{
			Msg:      err.Error(),
			Location: "body",
		}}})
	default:
		h.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Errors: []domain.FieldError{{
			Msg: "internal error",
		}}})
	}
}

func (h *HTTPHandler) writeBadBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Errors: []domain.FieldError{{
		Msg:      "invalid request body: " + err.Error(),
		Location: "body",
	}}})
}

func pathID(c *fiber.Ctx) (int, error) {
	raw := c.Params("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(domain.FieldError{
			Value:    raw,
			Msg:      "id must be an integer",
			Param:    "id",
			Location: "params",
		})
	}
	return id, nil
}

// bindPathID fills an unset body ID from the path and rejects a mismatch.
// Routes without :id leave the body untouched.
func bindPathID(c *fiber.Ctx, bodyID *int, param string) error {
	if c.Params("id") == "" {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if *bodyID == 0 {
		*bodyID = id
		return nil
	}
	if *bodyID != id {
		return domain.NewValidationError(domain.FieldError{
			Value: *bodyID,
			Msg:   "body ID does not match the path",
			Param: param,
		})
	}
	return nil
}
