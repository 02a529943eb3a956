package pricing

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	engine *Engine
	log    *zap.Logger
}

func NewHandler(engine *Engine, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{engine: engine, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/pricing/recommend/:productId", h.getRecommendation)
}

type recommendationResponse struct {
	ProductID        int         `json:"productId"`
	CurrentPrice     json.Number `json:"currentPrice"`
	RecommendedPrice json.Number `json:"recommendedPrice"`
	Reasons          []string    `json:"reasons"`
}

func toResponse(rec Recommendation) recommendationResponse {
	reasons := rec.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return recommendationResponse{
		ProductID:        rec.ProductID,
		CurrentPrice:     json.Number(rec.CurrentPrice.StringFixed(2)),
		RecommendedPrice: json.Number(rec.RecommendedPrice.StringFixed(2)),
		Reasons:          reasons,
	}
}

func (h *Handler) getRecommendation(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	rec, err := h.engine.GetRecommendation(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			h.log.Warn("price recommendation requested for unknown product", zap.Int("product_id", id))
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product with ID " + strconv.Itoa(id) + " not found."})
		}
		h.log.Error("price recommendation failed", zap.Int("product_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "An error occurred while generating price recommendation."})
	}
	return c.JSON(toResponse(rec))
}
