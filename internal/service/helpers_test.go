package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/coupon"
	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/memory"
	"github.com/castell/luxora/internal/pricing"
	"github.com/castell/luxora/internal/shipping"
	"github.com/castell/luxora/internal/tax"
	"github.com/castell/luxora/internal/telemetry"
)

// testMetrics is shared across the package; promauto registers collectors
// in the process-global registry, so NewMetrics must run exactly once.
var testMetrics = telemetry.NewMetrics("luxora_test")

// captureEmitter records emitted subjects for assertions.
type captureEmitter struct {
	mu       sync.Mutex
	subjects []string
}

func (c *captureEmitter) Emit(ctx context.Context, subject string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects = append(c.subjects, subject)
}

func (c *captureEmitter) Subjects() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.subjects))
	copy(out, c.subjects)
	return out
}

// fixture bundles the in-memory collaborators every service test needs.
type fixture struct {
	carts   *memory.CartStore
	orders  *memory.OrderStore
	catalog *memory.Catalog
	coupons *coupon.StaticTable
	calc    *pricing.Calculator
	emitter *captureEmitter

	widgetID   uuid.UUID // active, $10.00, stock 10
	gadgetID   uuid.UUID // active, $250.00, stock 3
	archivedID uuid.UUID // archived
	scarceID   uuid.UUID // active, stock 2
}

// newFixture seeds the standard storefront setup: 8% tax, $15 flat shipping
// free above $100, and the default promotion table.
func newFixture() *fixture {
	f := &fixture{
		carts:      memory.NewCartStore(),
		orders:     memory.NewOrderStore(),
		coupons:    coupon.DefaultTable(),
		emitter:    &captureEmitter{},
		widgetID:   uuid.New(),
		gadgetID:   uuid.New(),
		archivedID: uuid.New(),
		scarceID:   uuid.New(),
	}

	f.catalog = memory.NewCatalog([]domain.Product{
		{ID: f.widgetID, Name: "Widget", SKU: "WID-1", PriceCents: 1000, Status: domain.ProductActive, StockQuantity: 10},
		{ID: f.gadgetID, Name: "Gadget", SKU: "GAD-1", PriceCents: 25000, Status: domain.ProductActive, StockQuantity: 3},
		{ID: f.archivedID, Name: "Retired", SKU: "RET-1", PriceCents: 500, Status: domain.ProductArchived, StockQuantity: 5},
		{ID: f.scarceID, Name: "Scarce", SKU: "SCR-1", PriceCents: 2000, Status: domain.ProductActive, StockQuantity: 2},
	})

	f.calc = pricing.NewCalculator(
		tax.NewPercentageCalculator(0.08),
		shipping.NewFlatRateQuoter(1500, 10000, "standard"),
	)

	return f
}
