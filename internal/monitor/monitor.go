// Package monitor runs the periodic inventory check: it logs products that
// fell below their reorder level and warms the price recommendation cache.
package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/smart-inventory-backend/internal/inventorylog"
	"github.com/wichananm65/smart-inventory-backend/internal/pricing"
	"github.com/wichananm65/smart-inventory-backend/internal/product"
)

const (
	PhaseListLowStock = "list_low_stock"
	PhaseLog          = "inventory_log"
	PhaseListAll      = "list_products"
	PhaseRecommend    = "recommend"
)

type ProductLister interface {
	List(ctx context.Context) ([]product.Product, error)
	ListBelowReorderLevel(ctx context.Context) ([]product.Product, error)
}

type Recommender interface {
	Refresh(ctx context.Context, productID int) (pricing.Recommendation, error)
}

type LogRecorder interface {
	Record(ctx context.Context, p product.Product) (inventorylog.Entry, error)
}

// Failure is one isolated error inside a cycle. ProductID is zero for
// failures that are not tied to a single product.
type Failure struct {
	ProductID int
	Phase     string
	Err       error
}

// Report summarises a single monitoring cycle.
type Report struct {
	CycleID  uuid.UUID
	LowStock int
	Logged   int
	Warmed   int
	Failures []Failure
}

type Monitor struct {
	products ProductLister
	engine   Recommender
	logs     LogRecorder
	interval time.Duration
	log      *zap.Logger
}

func New(products ProductLister, engine Recommender, logs LogRecorder, interval time.Duration, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Monitor{
		products: products,
		engine:   engine,
		logs:     logs,
		interval: interval,
		log:      log,
	}
}

// Run executes a cycle immediately and then once per interval until ctx is
// cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.log.Info("inventory monitor started", zap.Duration("interval", m.interval))
	defer m.log.Info("inventory monitor stopped")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.RunCycle(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunCycle performs one check. A failure for one product never stops the
// remaining products from being processed.
func (m *Monitor) RunCycle(ctx context.Context) Report {
	report := Report{CycleID: uuid.New()}
	log := m.log.With(zap.String("cycle_id", report.CycleID.String()))
	start := time.Now()

	m.checkStock(ctx, log, &report)
	m.warmRecommendations(ctx, log, &report)

	log.Info("inventory check completed",
		zap.Int("low_stock", report.LowStock),
		zap.Int("logged", report.Logged),
		zap.Int("warmed", report.Warmed),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("took", time.Since(start)),
	)
	return report
}

func (m *Monitor) checkStock(ctx context.Context, log *zap.Logger, report *Report) {
	low, err := m.products.ListBelowReorderLevel(ctx)
	if err != nil {
		log.Error("list low stock products failed", zap.Error(err))
		report.Failures = append(report.Failures, Failure{Phase: PhaseListLowStock, Err: err})
		return
	}
	report.LowStock = len(low)

	for _, p := range low {
		log.Warn("low stock alert",
			zap.Int("product_id", p.ID),
			zap.String("name", p.Name),
			zap.Int("stock_quantity", p.StockQuantity),
			zap.Int("reorder_level", p.ReorderLevel),
		)
		if _, err := m.logs.Record(ctx, p); err != nil {
			log.Error("write inventory log failed", zap.Int("product_id", p.ID), zap.Error(err))
			report.Failures = append(report.Failures, Failure{ProductID: p.ID, Phase: PhaseLog, Err: err})
			continue
		}
		report.Logged++
	}
}

func (m *Monitor) warmRecommendations(ctx context.Context, log *zap.Logger, report *Report) {
	all, err := m.products.List(ctx)
	if err != nil {
		log.Error("list products failed", zap.Error(err))
		report.Failures = append(report.Failures, Failure{Phase: PhaseListAll, Err: err})
		return
	}

	for _, p := range all {
		if ctx.Err() != nil {
			report.Failures = append(report.Failures, Failure{ProductID: p.ID, Phase: PhaseRecommend, Err: ctx.Err()})
			return
		}
		if _, err := m.engine.Refresh(ctx, p.ID); err != nil {
			log.Error("warm price recommendation failed", zap.Int("product_id", p.ID), zap.Error(err))
			report.Failures = append(report.Failures, Failure{ProductID: p.ID, Phase: PhaseRecommend, Err: err})
			continue
		}
		report.Warmed++
	}
}
