package inventorylog

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: s, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/inventory-logs", h.getLogs)
}

type entryResponse struct {
	ID            int       `json:"inventoryLogId"`
	ProductID     int       `json:"productId"`
	ProductName   string    `json:"productName"`
	StockQuantity int       `json:"stockQuantity"`
	ReorderLevel  int       `json:"reorderLevel"`
	Message       string    `json:"message"`
	LoggedAt      time.Time `json:"loggedAt"`
}

// getLogs supports ?limit=50 and ?productId=1,2,3
func (h *Handler) getLogs(c *fiber.Ctx) error {
	limit := DefaultLimit
	if l := c.Query("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "limit must be a positive integer"})
		}
		limit = v
	}

	var ids []int
	if raw := c.Query("productId"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId " + part})
			}
			ids = append(ids, id)
		}
	}

	entries, err := h.service.List(c.UserContext(), ids, limit)
	if err != nil {
		h.log.Error("list inventory logs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "An error occurred while retrieving inventory logs."})
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse(e))
	}
	return c.JSON(out)
}
