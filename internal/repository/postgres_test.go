package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tribemart/tribemart-orders-service/internal/logging"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

func TestPostgresOrderRepository_Create(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestPostgresOrderRepository_GetByID(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestPostgresOrderRepository_List(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestPostgresOrderRepository_UpdateStatus(t *testing.T) {
	t.Skip("Integration test - requires database")
}

// rollbackDriver is a minimal sql driver that accepts the order INSERT and
// refuses the item INSERT, recording what happened to the transaction.
type rollbackDriver struct {
	conn *rollbackConn
}

func (d *rollbackDriver) Open(name string) (driver.Conn, error) { return d.conn, nil }

type rollbackConn struct {
	orderInserts int
	itemInserts  int
	committed    bool
	rolledBack   bool
}

func (c *rollbackConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *rollbackConn) Close() error { return nil }

func (c *rollbackConn) Begin() (driver.Tx, error) { return &rollbackTx{conn: c}, nil }

func (c *rollbackConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if strings.Contains(query, "INSERT INTO orders") {
		c.orderInserts++
		return driver.RowsAffected(1), nil
	}
	return nil, fmt.Errorf("unexpected exec: %s", query)
}

func (c *rollbackConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if strings.Contains(query, "INSERT INTO order_items") {
		c.itemInserts++
		return nil, errors.New("item insert refused")
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

type rollbackTx struct {
	conn *rollbackConn
}

func (t *rollbackTx) Commit() error {
	t.conn.committed = true
	return nil
}

func (t *rollbackTx) Rollback() error {
	t.conn.rolledBack = true
	return nil
}

var (
	rollbackTestConn     = &rollbackConn{}
	registerRollbackOnce sync.Once
)

func TestPostgresOrderRepository_CreateRollsBackOnItemFailure(t *testing.T) {
	registerRollbackOnce.Do(func() {
		sql.Register("orders-rollback-test", &rollbackDriver{conn: rollbackTestConn})
	})

	db, err := sql.Open("orders-rollback-test", "")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresOrderRepository(db, logging.New("test"))
	now := time.Now()
	order := &models.Order{
		ID:            "ord_rollback",
		UserID:        "user_1",
		Status:        models.OrderStatusPending,
		Total:         5000,
		PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusPending,
		ShippingAddress: models.ShippingAddress{
			Name: "Asha", Phone: "9876543210", Address: "12 Weaver Lane",
			City: "Jaipur", State: "Rajasthan", ZipCode: "302001", Country: "India",
		},
		Items: []models.OrderItem{
			{ProductID: "p1", ProductName: "Block Print Stole", Quantity: 2, Price: 2500},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repo.Create(context.Background(), order); err == nil {
		t.Fatal("expected create to fail when an item insert fails")
	}

	if rollbackTestConn.orderInserts != 1 {
		t.Errorf("order insert attempted %d times, expected 1", rollbackTestConn.orderInserts)
	}
	if rollbackTestConn.itemInserts != 1 {
		t.Errorf("item insert attempted %d times, expected 1", rollbackTestConn.itemInserts)
	}
	if rollbackTestConn.committed {
		t.Error("transaction must not commit after a failed item insert")
	}
	if !rollbackTestConn.rolledBack {
		t.Error("transaction must roll back after a failed item insert")
	}
}

func TestNullable(t *testing.T) {
	if v := nullable(""); v.Valid {
		t.Error("empty string must map to NULL")
	}
	if v := nullable("gw_pay_1"); !v.Valid || v.String != "gw_pay_1" {
		t.Errorf("unexpected NullString %+v", v)
	}
}
