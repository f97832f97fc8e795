package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
)

// MySQLMovementRepository appends and reads movement events. The table is
// insert-only; there is no update or delete path.
type MySQLMovementRepository struct {
	db *sql.DB
}

func NewMySQLMovementRepository(db *sql.DB) *MySQLMovementRepository {
	return &MySQLMovementRepository{db: db}
}

func (r *MySQLMovementRepository) Insert(ctx context.Context, tx *sql.Tx, event domain.MovementEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	query := `
		INSERT INTO movement_events (id, product_id, company_id, location_id, quantity, reason, order_id, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		event.ID, event.ProductID, event.CompanyID, event.LocationID,
		event.Quantity, string(event.Reason), event.OrderID, event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("inserting movement event: %w", err)
	}

	return nil
}

// ListByProduct returns movements for a product, newest first.
func (r *MySQLMovementRepository) ListByProduct(ctx context.Context, productID int, from, to *time.Time, limit, offset int) ([]domain.MovementEvent, error) {
	query := `
		SELECT id, product_id, company_id, location_id, quantity, reason, order_id, occurred_at
		FROM movement_events
		WHERE product_id = ?
	`
	args := []any{productID}
	if from != nil {
		query += " AND occurred_at >= ?"
		args = append(args, *from)
	}
	if to != nil {
		query += " AND occurred_at <= ?"
		args = append(args, *to)
	}
	query += " ORDER BY occurred_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing movement events: %w", err)
	}
	defer rows.Close()

	var events []domain.MovementEvent
	for rows.Next() {
		var event domain.MovementEvent
		var reason string
		err := rows.Scan(
			&event.ID, &event.ProductID, &event.CompanyID, &event.LocationID,
			&event.Quantity, &reason, &event.OrderID, &event.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning movement event row: %w", err)
		}
		event.Reason = domain.MovementReason(reason)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movement event rows: %w", err)
	}

	return events, nil
}

// SumConsumptionSince returns the total consumed quantity (as a positive
// number) for a product since the given time. Feeds the velocity estimator.
func (r *MySQLMovementRepository) SumConsumptionSince(ctx context.Context, productID int, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(-quantity), 0)
		FROM movement_events
		WHERE product_id = ? AND quantity < 0 AND occurred_at >= ?
	`

	var consumed int
	if err := r.db.QueryRowContext(ctx, query, productID, since).Scan(&consumed); err != nil {
		return 0, fmt.Errorf("summing consumption: %w", err)
	}

	return consumed, nil
}
