package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
)

// StandingOrderRepositoryStub stores standing orders in-memory for tests.
type StandingOrderRepositoryStub struct {
	mu   sync.Mutex
	ByID map[int64]*model.StandingOrder
	Next int64
	Err  error
}

// NewStandingOrderRepositoryStub constructs stub repository with initialized maps.
func NewStandingOrderRepositoryStub() *StandingOrderRepositoryStub {
	return &StandingOrderRepositoryStub{ByID: make(map[int64]*model.StandingOrder), Next: 1}
}

func (s *StandingOrderRepositoryStub) Create(ctx context.Context, so *model.StandingOrder) (*model.StandingOrder, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *so
	stored.ID = s.Next
	stored.CreatedAt = time.Now()
	s.Next++
	s.ByID[stored.ID] = &stored
	return &stored, nil
}

func (s *StandingOrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.StandingOrder, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if so, ok := s.ByID[id]; ok {
		copied := *so
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *StandingOrderRepositoryStub) List(ctx context.Context, status *model.StandingOrderStatus) ([]model.StandingOrder, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.StandingOrder
	for _, so := range s.ByID {
		if status == nil || so.Status == *status {
			result = append(result, *so)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *StandingOrderRepositoryStub) SetStatus(ctx context.Context, id int64, from, to model.StandingOrderStatus) (*model.StandingOrder, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	so, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if so.Status != from {
		return nil, domainErrors.ErrConflict
	}
	so.Status = to
	copied := *so
	return &copied, nil
}

func (s *StandingOrderRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ByID[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.ByID, id)
	return nil
}

// OrderRepositoryStub stores generated orders in-memory. It mirrors the
// storage layer's guarantees: uniqueness of (standing_order_id,
// delivery_date) and the active-standing-order guard on inserts when wired
// to a StandingOrderRepositoryStub.
type OrderRepositoryStub struct {
	mu             sync.Mutex
	ByID           map[int64]*model.Order
	Next           int64
	StandingOrders *StandingOrderRepositoryStub
	Err            error
	CreateErr      error
}

// NewOrderRepositoryStub constructs stub with initialized maps.
func NewOrderRepositoryStub(standing *StandingOrderRepositoryStub) *OrderRepositoryStub {
	return &OrderRepositoryStub{ByID: make(map[int64]*model.Order), Next: 1, StandingOrders: standing}
}

func (s *OrderRepositoryStub) CreateGenerated(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	if s.CreateErr != nil {
		return nil, false, s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findLocked(*order.StandingOrderID, order.DeliveryDate); existing != nil {
		copied := *existing
		return &copied, false, nil
	}

	if s.StandingOrders != nil {
		s.StandingOrders.mu.Lock()
		so, ok := s.StandingOrders.ByID[*order.StandingOrderID]
		var status model.StandingOrderStatus
		if ok {
			status = so.Status
		}
		s.StandingOrders.mu.Unlock()
		if !ok {
			return nil, false, domainErrors.ErrNotFound
		}
		if status != model.StandingOrderActive {
			return nil, false, domainErrors.ErrConflict
		}
	}

	stored := *order
	stored.ID = s.Next
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Next++
	s.ByID[stored.ID] = &stored
	copied := stored
	return &copied, true, nil
}

func (s *OrderRepositoryStub) GetGenerated(ctx context.Context, standingOrderID int64, deliveryDate time.Time) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order := s.findLocked(standingOrderID, deliveryDate); order != nil {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListGenerated(ctx context.Context, standingOrderID int64) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.ByID {
		if order.StandingOrderID != nil && *order.StandingOrderID == standingOrderID {
			result = append(result, *order)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DeliveryDate.Before(result[j].DeliveryDate) })
	return result, nil
}

func (s *OrderRepositoryStub) DeleteGenerated(ctx context.Context, standingOrderID, orderID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.ByID[orderID]
	if !ok || order.StandingOrderID == nil || *order.StandingOrderID != standingOrderID {
		return domainErrors.ErrNotFound
	}
	delete(s.ByID, orderID)
	return nil
}

func (s *OrderRepositoryStub) DeletePending(ctx context.Context, standingOrderID int64) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, order := range s.ByID {
		if order.StandingOrderID != nil && *order.StandingOrderID == standingOrderID && order.Status == model.OrderStatusPending {
			delete(s.ByID, id)
			removed++
		}
	}
	return removed, nil
}

// SetStatus adjusts a stored order's status, for lifecycle tests.
func (s *OrderRepositoryStub) SetStatus(orderID int64, status model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.ByID[orderID]; ok {
		order.Status = status
	}
}

// Count reports how many orders the stub holds.
func (s *OrderRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ByID)
}

func (s *OrderRepositoryStub) findLocked(standingOrderID int64, deliveryDate time.Time) *model.Order {
	for _, order := range s.ByID {
		if order.StandingOrderID != nil && *order.StandingOrderID == standingOrderID && model.SameDate(order.DeliveryDate, deliveryDate) {
			return order
		}
	}
	return nil
}

// CustomerRepositoryStub stores customers in-memory.
type CustomerRepositoryStub struct {
	ByID map[int64]*model.Customer
	Err  error
}

// NewCustomerRepositoryStub constructs stub with one default customer.
func NewCustomerRepositoryStub(customers ...*model.Customer) *CustomerRepositoryStub {
	stub := &CustomerRepositoryStub{ByID: make(map[int64]*model.Customer)}
	for _, c := range customers {
		stub.ByID[c.ID] = c
	}
	return stub
}

func (s *CustomerRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if c, ok := s.ByID[id]; ok {
		return c, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProductRepositoryStub answers catalog existence checks from a fixed set.
type ProductRepositoryStub struct {
	Known map[int64]bool
	Err   error
}

// NewProductRepositoryStub constructs stub knowing the provided product ids.
func NewProductRepositoryStub(ids ...int64) *ProductRepositoryStub {
	stub := &ProductRepositoryStub{Known: make(map[int64]bool)}
	for _, id := range ids {
		stub.Known[id] = true
	}
	return stub
}

func (s *ProductRepositoryStub) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var missing []int64
	for _, id := range ids {
		if !s.Known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Forget removes a product from the stub catalog.
func (s *ProductRepositoryStub) Forget(id int64) {
	delete(s.Known, id)
}
