package postgres

import (
	"context"
	"fmt"

	"github.com/manya112233/canteen/internal/domain"
	"github.com/manya112233/canteen/internal/interfaces"
)

// orderStore is the Postgres-backed order store. Save mirrors the flat-file
// semantics: the whole table is rewritten transactionally on every call, so
// both drivers behave the same under the scheduler.
//
// Expected schema:
//
//	CREATE TABLE orders (
//	    seq BIGSERIAL PRIMARY KEY, -- order ids may repeat, see PlaceOrder
//	    id TEXT NOT NULL, customer_id TEXT NOT NULL, status TEXT NOT NULL,
//	    total_amount DOUBLE PRECISION NOT NULL, created_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE order_lines (
//	    order_seq BIGINT NOT NULL REFERENCES orders(seq) ON DELETE CASCADE,
//	    item_id TEXT NOT NULL, name TEXT NOT NULL,
//	    price DOUBLE PRECISION NOT NULL, category TEXT NOT NULL,
//	    quantity INT NOT NULL, special_request TEXT NOT NULL
//	);
type orderStore struct {
	db DB
}

func NewOrderStore(db DB) interfaces.OrderStore {
	return &orderStore{db: db}
}

func (s *orderStore) Save(history interfaces.History) error {
	ctx := context.Background()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}

	for _, orders := range history {
		for _, order := range orders {
			var seq int64
			err := tx.QueryRow(ctx, `
				INSERT INTO orders (id, customer_id, status, total_amount, created_at)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING seq
			`, order.ID, order.CustomerID, string(order.Status), order.TotalAmount, order.CreatedAt).Scan(&seq)
			if err != nil {
				return fmt.Errorf("failed to insert order: %w", err)
			}

			for _, line := range order.Lines {
				_, err := tx.Exec(ctx, `
					INSERT INTO order_lines (order_seq, item_id, name, price, category, quantity, special_request)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
				`, seq, line.Item.ID, line.Item.Name, line.Item.Price, line.Item.Category, line.Quantity, line.SpecialRequest)
				if err != nil {
					return fmt.Errorf("failed to insert order line: %w", err)
				}
			}
		}
	}

	return tx.Commit(ctx)
}

func (s *orderStore) Load() (interfaces.History, error) {
	ctx := context.Background()

	rows, err := s.db.Query(ctx, `
		SELECT seq, id, customer_id, status, total_amount, created_at
		FROM orders
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	defer rows.Close()

	history := interfaces.History{}
	seqs := make(map[int64]*domain.Order)
	for rows.Next() {
		var seq int64
		var status string
		order := &domain.Order{Lines: make(map[string]domain.OrderLine)}
		if err := rows.Scan(&seq, &order.ID, &order.CustomerID, &status, &order.TotalAmount, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Status = domain.ParseStatus(status)
		history[order.CustomerID] = append(history[order.CustomerID], order)
		seqs[seq] = order
	}

	lineRows, err := s.db.Query(ctx, `
		SELECT order_seq, item_id, name, price, category, quantity, special_request
		FROM order_lines
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var seq int64
		var line domain.OrderLine
		if err := lineRows.Scan(&seq, &line.Item.ID, &line.Item.Name, &line.Item.Price,
			&line.Item.Category, &line.Quantity, &line.SpecialRequest); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		line.Item.Available = true
		if order, ok := seqs[seq]; ok {
			order.Lines[line.Item.ID] = line
		}
	}

	return history, nil
}
