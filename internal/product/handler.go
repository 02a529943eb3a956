package product

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	service    *Service
	log        *zap.Logger
	allowReset bool
}

func NewHandler(service *Service, log *zap.Logger, allowReset bool) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log, allowReset: allowReset}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/products", h.getProducts)
	// registered before /:id so the literal segment wins
	app.Get("/api/products/low-stock", h.getLowStock)
	app.Get("/api/products/:id", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/products", h.createProduct)
	app.Put("/api/products/:id", h.updateProduct)
	app.Delete("/api/products/:id", h.deleteProduct)

	// dev-only endpoint to reset products, enabled by ALLOW_RESET_PRODUCTS
	app.Post("/dev/reset-products", h.resetProducts)
}

// Response is the JSON shape of a product.
type Response struct {
	ProductID     int         `json:"productId"`
	Name          string      `json:"name"`
	CostPrice     json.Number `json:"costPrice"`
	SellingPrice  json.Number `json:"sellingPrice"`
	StockQuantity int         `json:"stockQuantity"`
	ReorderLevel  int         `json:"reorderLevel"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toResponse(p Product) Response {
	return Response{
		ProductID:     p.ID,
		Name:          p.Name,
		CostPrice:     amount(p.CostPrice),
		SellingPrice:  amount(p.SellingPrice),
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toResponses(products []Product) []Response {
	out := make([]Response, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	return out
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "An error occurred while retrieving products."})
	}
	return c.JSON(toResponses(products))
}

func (h *Handler) getLowStock(c *fiber.Ctx) error {
	products, err := h.service.ListBelowReorderLevel(c.UserContext())
	if err != nil {
		h.log.Error("list low stock products failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "An error occurred while retrieving products."})
	}
	return c.JSON(toResponses(products))
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, id, err)
	}
	return c.JSON(toResponse(p))
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload := new(Payload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// validate payload and return all validation errors together
	if ves := validatePayload(payload); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	created, err := h.service.Create(c.UserContext(), payload.Product())
	if err != nil {
		h.log.Error("create product failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "An error occurred while creating the product."})
	}
	c.Location("/api/products/" + strconv.Itoa(created.ID))
	return c.Status(fiber.StatusCreated).JSON(toResponse(created))
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	payload := new(Payload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if ves := validatePayload(payload); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	updated, err := h.service.Update(c.UserContext(), id, payload.Product())
	if err != nil {
		return h.fail(c, id, err)
	}
	return c.JSON(toResponse(updated))
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, id, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// resetProducts replaces the catalogue with the posted list, or with the
// default sample products when the body is not a product list.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if !h.allowReset {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "reset not allowed"})
	}

	var payloads []Payload
	products := DefaultProducts(time.Time{})
	// an empty array is honoured and clears the table without re-seeding
	if err := c.BodyParser(&payloads); err == nil {
		products = make([]Product, 0, len(payloads))
		for i := range payloads {
			if ves := validatePayload(&payloads[i]); len(ves) > 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"index": i, "errors": ves})
			}
			products = append(products, payloads[i].Product())
		}
	}

	if err := h.service.ResetProducts(c.UserContext(), products); err != nil {
		h.log.Error("reset products failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	reset, err := h.service.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(toResponses(reset))
}

func (h *Handler) fail(c *fiber.Ctx, id int, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product with ID " + strconv.Itoa(id) + " not found."})
	}
	h.log.Error("product request failed", zap.Int("product_id", id), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "An error occurred while processing the product."})
}
