package pricehistory

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/products/:id/price-history", h.getHistory)
}

type entryResponse struct {
	ID        int         `json:"priceHistoryId"`
	ProductID int         `json:"productId"`
	OldPrice  json.Number `json:"oldPrice"`
	NewPrice  json.Number `json:"newPrice"`
	Reason    string      `json:"reason"`
	ChangedAt time.Time   `json:"changedAt"`
}

func (h *Handler) getHistory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	entries, err := h.service.ListByProduct(c.UserContext(), id)
	if err != nil {
		h.log.Error("list price history failed", zap.Int("product_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "An error occurred while retrieving price history."})
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:        e.ID,
			ProductID: e.ProductID,
			OldPrice:  json.Number(e.OldPrice.StringFixed(2)),
			NewPrice:  json.Number(e.NewPrice.StringFixed(2)),
			Reason:    e.Reason,
			ChangedAt: e.ChangedAt,
		})
	}
	return c.JSON(out)
}
