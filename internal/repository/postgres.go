package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/tribemart/tribemart-orders-service/internal/apperrors"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// PostgresOrderRepository persists orders and their items in PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *slog.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db, logger: logger}
}

// Create inserts the order and all of its items in one transaction. Either
// every row exists afterwards or none do.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewUpstreamError("begin order tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, status, total,
			ship_name, ship_phone, ship_address, ship_city, ship_state, ship_zip, ship_country,
			payment_method, payment_status, gateway_order_id, gateway_payment_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		order.ID, order.UserID, order.Status, order.Total,
		order.ShippingAddress.Name, order.ShippingAddress.Phone, order.ShippingAddress.Address,
		order.ShippingAddress.City, order.ShippingAddress.State, order.ShippingAddress.ZipCode,
		order.ShippingAddress.Country,
		order.PaymentMethod, order.PaymentStatus,
		nullable(order.GatewayOrderID), nullable(order.GatewayPaymentID),
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert order", "order_id", order.ID, "error", err)
		return apperrors.NewUpstreamError("insert order", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			r.logger.Error("failed to insert order item",
				"order_id", order.ID, "product_id", item.ProductID, "error", err)
			return apperrors.NewUpstreamError("insert order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewUpstreamError("commit order tx", err)
	}

	r.logger.Info("order persisted",
		"order_id", order.ID, "user_id", order.UserID,
		"items", len(order.Items), "total", order.Total)
	return nil
}

// GetByID retrieves an order with its items, scoped to the owning user.
// Orders belonging to other users are reported as not found.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id, userID string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, selectOrderColumns+`
		FROM orders WHERE id = $1 AND user_id = $2`, id, userID)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch order", "order_id", id, "error", err)
		return nil, apperrors.NewUpstreamError("select order", err)
	}

	if err := r.loadItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// List retrieves the caller's orders with an optional status filter,
// newest first, paginated. Returns the page and the total matching count.
func (r *PostgresOrderRepository) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	where := ` FROM orders WHERE user_id = $1`
	args := []any{filter.UserID}

	if filter.Status != nil {
		where += ` AND status = $2`
		args = append(args, *filter.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewUpstreamError("count orders", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := selectOrderColumns + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewUpstreamError("select orders", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, apperrors.NewUpstreamError("scan order", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewUpstreamError("iterate orders", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus overwrites the status of an order and returns the updated
// order with its items plus the status it replaced. Not owner-scoped;
// callers gate this behind the admin role.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, models.OrderStatus, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", apperrors.NewUpstreamError("begin status tx", err)
	}
	defer tx.Rollback()

	var previous models.OrderStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
	if err == sql.ErrNoRows {
		return nil, "", apperrors.ErrNotFound
	}
	if err != nil {
		return nil, "", apperrors.NewUpstreamError("lock order", err)
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE orders SET status = $2, updated_at = $3
		WHERE id = $1 `+returningOrderColumns,
		id, status, time.Now())

	order, err := scanOrder(row)
	if err != nil {
		r.logger.Error("failed to update order status", "order_id", id, "error", err)
		return nil, "", apperrors.NewUpstreamError("update order status", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", apperrors.NewUpstreamError("commit status tx", err)
	}

	if err := r.loadItems(ctx, []*models.Order{order}); err != nil {
		return nil, "", err
	}

	r.logger.Info("order status updated",
		"order_id", id, "previous", previous, "status", status)
	return order, previous, nil
}

const selectOrderColumns = `
	SELECT id, user_id, status, total,
	       ship_name, ship_phone, ship_address, ship_city, ship_state, ship_zip, ship_country,
	       payment_method, payment_status, gateway_order_id, gateway_payment_id,
	       created_at, updated_at`

const returningOrderColumns = `
	RETURNING id, user_id, status, total,
	          ship_name, ship_phone, ship_address, ship_city, ship_state, ship_zip, ship_country,
	          payment_method, payment_status, gateway_order_id, gateway_payment_id,
	          created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var gatewayOrderID, gatewayPaymentID sql.NullString

	err := row.Scan(
		&order.ID, &order.UserID, &order.Status, &order.Total,
		&order.ShippingAddress.Name, &order.ShippingAddress.Phone,
		&order.ShippingAddress.Address, &order.ShippingAddress.City,
		&order.ShippingAddress.State, &order.ShippingAddress.ZipCode,
		&order.ShippingAddress.Country,
		&order.PaymentMethod, &order.PaymentStatus,
		&gatewayOrderID, &gatewayPaymentID,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.GatewayOrderID = gatewayOrderID.String
	order.GatewayPaymentID = gatewayPaymentID.String
	order.Items = make([]models.OrderItem, 0)
	return &order, nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*models.Order, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		byID[order.ID] = order
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`,
		pq.Array(ids))
	if err != nil {
		return apperrors.NewUpstreamError("select order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.Price); err != nil {
			return apperrors.NewUpstreamError("scan order item", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
