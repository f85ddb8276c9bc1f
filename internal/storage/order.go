package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/switch-merchant/internal/domain/models"
)

const orderColumns = "id, item_id, quantity, amount, currency, authorized, instrument_id, created_at"

// orderRepository - реализация OrderStorage поверх PostgreSQL.
type orderRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db, now: time.Now}
}

// CreateOrder вставляет новый заказ в таблицу orders.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (uuid.UUID, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now().UTC()
	}

	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.ItemID, order.Quantity, order.Amount, order.Currency,
		order.Authorized, nullString(order.InstrumentID), order.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	return scanOrder(row)
}

// UpdateOrder блокирует строку заказа (FOR UPDATE) на время изменения.
func (r *orderRepository) UpdateOrder(ctx context.Context, id uuid.UUID, mutate func(order *models.Order) error) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// после Commit откат вернёт sql.ErrTxDone, это ожидаемо
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	if err := mutate(order); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET quantity = $1, amount = $2, currency = $3, authorized = $4, instrument_id = $5
		 WHERE id = $6`,
		order.Quantity, order.Amount, order.Currency, order.Authorized, nullString(order.InstrumentID), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	order.ID = id
	return order, nil
}

// ListOrders возвращает все заказы, старые первыми.
func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*models.Order, error) {
	order := &models.Order{}
	var instrumentID sql.NullString
	err := row.Scan(&order.ID, &order.ItemID, &order.Quantity, &order.Amount, &order.Currency,
		&order.Authorized, &instrumentID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	order.InstrumentID = instrumentID.String
	return order, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
