package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage layer uses. Tests swap
// in a pgxmock pool through newPgxPool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type standingOrderRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) StandingOrders() repository.StandingOrderRepository {
	return &standingOrderRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            available BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS standing_orders (
            id SERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            customer_name TEXT NOT NULL,
            items JSONB NOT NULL,
            recurrence_type TEXT NOT NULL,
            weekly_days INT[],
            interval_days INT NOT NULL DEFAULT 0,
            start_date DATE NOT NULL,
            duration_type TEXT NOT NULL,
            end_date DATE,
            status TEXT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            created_by TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            customer_id BIGINT NOT NULL,
            items JSONB NOT NULL,
            total_amount DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            payment_status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            delivery_date DATE NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            standing_order_id BIGINT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_standing_orders_status ON standing_orders(status)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_standing_delivery
            ON orders(standing_order_id, delivery_date)
            WHERE standing_order_id IS NOT NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func encodeItems(items []model.OrderItem) ([]byte, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return data, nil
}

func decodeItems(data []byte) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func weekdaysToInts(days []time.Weekday) []int32 {
	if days == nil {
		return nil
	}
	result := make([]int32, len(days))
	for i, d := range days {
		result[i] = int32(d)
	}
	return result
}

func intsToWeekdays(values []int32) []time.Weekday {
	if values == nil {
		return nil
	}
	result := make([]time.Weekday, len(values))
	for i, v := range values {
		result[i] = time.Weekday(v)
	}
	return result
}

// --- StandingOrderRepository implementation ---

const standingOrderColumns = `id, customer_id, customer_name, items, recurrence_type, weekly_days,
                   interval_days, start_date, duration_type, end_date, status, notes, created_by, created_at`

func (r *standingOrderRepository) Create(ctx context.Context, so *model.StandingOrder) (*model.StandingOrder, error) {
	const query = `INSERT INTO standing_orders
                   (customer_id, customer_name, items, recurrence_type, weekly_days, interval_days,
                    start_date, duration_type, end_date, status, notes, created_by)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING id, created_at`

	items, err := encodeItems(so.Items)
	if err != nil {
		return nil, err
	}

	stored := *so
	err = r.storage.pool.QueryRow(ctx, query,
		so.CustomerID, so.CustomerName, items,
		so.Schedule.Type, weekdaysToInts(so.Schedule.WeeklyDays), so.Schedule.IntervalDays,
		so.Schedule.StartDate, so.Schedule.Duration, so.Schedule.EndDate,
		so.Status, so.Notes, so.CreatedBy,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, &domainErrors.ReferentialIntegrityError{Kind: "customer", ID: so.CustomerID}
		}
		return nil, err
	}
	return &stored, nil
}

func scanStandingOrder(row pgx.Row) (*model.StandingOrder, error) {
	var (
		so       model.StandingOrder
		items    []byte
		weekdays []int32
	)
	err := row.Scan(&so.ID, &so.CustomerID, &so.CustomerName, &items,
		&so.Schedule.Type, &weekdays, &so.Schedule.IntervalDays,
		&so.Schedule.StartDate, &so.Schedule.Duration, &so.Schedule.EndDate,
		&so.Status, &so.Notes, &so.CreatedBy, &so.CreatedAt)
	if err != nil {
		return nil, err
	}
	so.Items, err = decodeItems(items)
	if err != nil {
		return nil, err
	}
	so.Schedule.WeeklyDays = intsToWeekdays(weekdays)
	so.Schedule.StartDate = model.Midnight(so.Schedule.StartDate)
	if so.Schedule.EndDate != nil {
		end := model.Midnight(*so.Schedule.EndDate)
		so.Schedule.EndDate = &end
	}
	return &so, nil
}

func (r *standingOrderRepository) GetByID(ctx context.Context, id int64) (*model.StandingOrder, error) {
	query := `SELECT ` + standingOrderColumns + ` FROM standing_orders WHERE id=$1`
	so, err := scanStandingOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return so, nil
}

func (r *standingOrderRepository) List(ctx context.Context, status *model.StandingOrderStatus) ([]model.StandingOrder, error) {
	query := `SELECT ` + standingOrderColumns + ` FROM standing_orders ORDER BY id`
	args := []any{}
	if status != nil {
		query = `SELECT ` + standingOrderColumns + ` FROM standing_orders WHERE status=$1 ORDER BY id`
		args = append(args, *status)
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StandingOrder
	for rows.Next() {
		so, err := scanStandingOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *so)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *standingOrderRepository) SetStatus(ctx context.Context, id int64, from, to model.StandingOrderStatus) (*model.StandingOrder, error) {
	updateQuery := `UPDATE standing_orders SET status=$1 WHERE id=$2 AND status=$3
                   RETURNING ` + standingOrderColumns
	so, err := scanStandingOrder(r.storage.pool.QueryRow(ctx, updateQuery, to, id, from))
	if err == nil {
		return so, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No row matched: either the id is unknown or the status moved on.
	const statusQuery = `SELECT status FROM standing_orders WHERE id=$1`
	var current model.StandingOrderStatus
	if err := r.storage.pool.QueryRow(ctx, statusQuery, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return nil, domainErrors.ErrConflict
}

func (r *standingOrderRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM standing_orders WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, number, customer_id, items, total_amount, status, payment_status,
                   payment_method, delivery_date, notes, standing_order_id, created_at, updated_at`

func (r *orderRepository) CreateGenerated(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	// The insert races with cancel and delete: the WHERE EXISTS guard keeps
	// a cancelled or deleted standing order from growing new orders, and the
	// partial unique index makes retried dates land on DO NOTHING.
	const query = `INSERT INTO orders
                   (number, customer_id, items, total_amount, status, payment_status,
                    payment_method, delivery_date, notes, standing_order_id)
                   SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
                   WHERE EXISTS (SELECT 1 FROM standing_orders WHERE id=$10 AND status='active')
                   ON CONFLICT (standing_order_id, delivery_date) WHERE standing_order_id IS NOT NULL
                   DO NOTHING
                   RETURNING id, created_at, updated_at`

	items, err := encodeItems(order.Items)
	if err != nil {
		return nil, false, err
	}

	stored := *order
	err = r.storage.pool.QueryRow(ctx, query,
		order.Number, order.CustomerID, items, order.TotalAmount,
		order.Status, order.PaymentStatus, order.PaymentMethod,
		order.DeliveryDate, order.Notes, order.StandingOrderID,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err == nil {
		return &stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Nothing inserted: a duplicate for this date, or the guard rejected it.
	existing, err := r.GetGenerated(ctx, *order.StandingOrderID, order.DeliveryDate)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, false, err
	}

	const statusQuery = `SELECT status FROM standing_orders WHERE id=$1`
	var status model.StandingOrderStatus
	if err := r.storage.pool.QueryRow(ctx, statusQuery, *order.StandingOrderID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, domainErrors.ErrNotFound
		}
		return nil, false, err
	}
	return nil, false, domainErrors.ErrConflict
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o     model.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &items, &o.TotalAmount,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.DeliveryDate,
		&o.Notes, &o.StandingOrderID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Items, err = decodeItems(items)
	if err != nil {
		return nil, err
	}
	o.DeliveryDate = model.Midnight(o.DeliveryDate)
	return &o, nil
}

func (r *orderRepository) GetGenerated(ctx context.Context, standingOrderID int64, deliveryDate time.Time) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE standing_order_id=$1 AND delivery_date=$2`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, standingOrderID, deliveryDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListGenerated(ctx context.Context, standingOrderID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE standing_order_id=$1 ORDER BY delivery_date`
	rows, err := r.storage.pool.Query(ctx, query, standingOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) DeleteGenerated(ctx context.Context, standingOrderID, orderID int64) error {
	const query = `DELETE FROM orders WHERE id=$1 AND standing_order_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, standingOrderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeletePending(ctx context.Context, standingOrderID int64) (int64, error) {
	const query = `DELETE FROM orders WHERE standing_order_id=$1 AND status=$2`
	tag, err := r.storage.pool.Exec(ctx, query, standingOrderID, model.OrderStatusPending)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// --- CustomerRepository implementation ---

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	const query = `SELECT id, name, active, created_at FROM customers WHERE id=$1`
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `SELECT id FROM products WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
