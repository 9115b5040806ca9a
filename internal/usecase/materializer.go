package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/domain/repository"
)

// generatedNotesPrefix marks materialized orders so staff can tell them from
// manually entered ones when reading the order itself.
const generatedNotesPrefix = "Auto-generated from standing order."

// Materializer turns one due date of a standing order into a persisted order
// without ever creating duplicates for the same (standing order, date) pair.
type Materializer struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
}

// NewMaterializer constructs Materializer.
func NewMaterializer(orders repository.OrderRepository, customers repository.CustomerRepository, products repository.ProductRepository) *Materializer {
	return &Materializer{orders: orders, customers: customers, products: products}
}

// Materialize creates the order for a due date, or returns the existing one
// when the date was already generated. Safe to call repeatedly for the same
// date: the storage layer enforces uniqueness of (standing_order_id,
// delivery_date), so a concurrent duplicate insert degrades to a no-op.
func (m *Materializer) Materialize(ctx context.Context, so *model.StandingOrder, date time.Time) (*model.Order, bool, error) {
	date = model.Midnight(date)

	existing, err := m.orders.GetGenerated(ctx, so.ID, date)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, false, err
	}

	if _, err := m.customers.GetByID(ctx, so.CustomerID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, false, &domainErrors.ReferentialIntegrityError{Kind: "customer", ID: so.CustomerID}
		}
		return nil, false, err
	}

	ids := make([]int64, 0, len(so.Items))
	for _, item := range so.Items {
		ids = append(ids, item.ProductID)
	}
	missing, err := m.products.MissingIDs(ctx, ids)
	if err != nil {
		return nil, false, err
	}
	if len(missing) > 0 {
		return nil, false, &domainErrors.ReferentialIntegrityError{Kind: "product", ID: missing[0]}
	}

	return m.orders.CreateGenerated(ctx, buildOrder(so, date))
}

func buildOrder(so *model.StandingOrder, date time.Time) *model.Order {
	items := make([]model.OrderItem, len(so.Items))
	var total float64
	for i, item := range so.Items {
		item.Subtotal = item.Price * float64(item.Quantity)
		items[i] = item
		total += item.Subtotal
	}

	standingOrderID := so.ID
	return &model.Order{
		Number:          newOrderNumber(),
		CustomerID:      so.CustomerID,
		Items:           items,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   model.PaymentMethodWallet,
		DeliveryDate:    date,
		Notes:           strings.TrimSpace(generatedNotesPrefix + " " + so.Notes),
		StandingOrderID: &standingOrderID,
	}
}

func newOrderNumber() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
