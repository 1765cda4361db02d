package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{pool: pool}
}

const orderColumns = `
	id, order_number, buyer_id, seller_id, gig_id,
	package_tier, pkg_title, pkg_price, pkg_delivery_days, pkg_revisions,
	subtotal, total, currency, platform_fee, seller_earnings,
	status, ordered_at, accepted_at, due_at, delivered_at, completed_at, cancelled_at,
	revisions_used, requirements, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	o := &model.Order{}
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.BuyerID, &o.SellerID, &o.GigID,
		&o.PackageTier, &o.Package.Title, &o.Package.Price, &o.Package.DeliveryDays, &o.Package.Revisions,
		&o.Subtotal, &o.Total, &o.Currency, &o.PlatformFee, &o.SellerEarnings,
		&o.Status, &o.Dates.Ordered, &o.Dates.Accepted, &o.Dates.Due, &o.Dates.Delivered, &o.Dates.Completed, &o.Dates.Cancelled,
		&o.RevisionsUsed, &o.Requirements, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (
				id, order_number, buyer_id, seller_id, gig_id,
				package_tier, pkg_title, pkg_price, pkg_delivery_days, pkg_revisions,
				subtotal, total, currency, status, ordered_at,
				revisions_used, requirements, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18, $19
			)
		`

		_, err := tx.Exec(ctx, query,
			order.ID, order.OrderNumber, order.BuyerID, order.SellerID, order.GigID,
			order.PackageTier, order.Package.Title, order.Package.Price, order.Package.DeliveryDays, order.Package.Revisions,
			order.Subtotal, order.Total, order.Currency, order.Status, order.Dates.Ordered,
			order.RevisionsUsed, order.Requirements, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		history := `
			INSERT INTO order_status_history (id, order_id, from_status, to_status, changed_by, changed_at)
			VALUES ($1, $2, NULL, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, history,
			uuid.New(), order.ID, order.Status, order.BuyerID, order.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to create order status history: %w", err)
		}

		return nil
	})
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// =====================================================
// APPLY TRANSITION
// =====================================================

// ApplyTransition performs the conditional status update and all side-effect
// inserts in one transaction. The WHERE clause re-checks the expected status
// against the stored row, so a racing transition makes this a zero-row
// update instead of an illegal edge.
func (r *postgresOrderRepository) ApplyTransition(ctx context.Context, update TransitionUpdate) (*model.Order, error) {
	var updated *model.Order

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE orders SET
				status = $3,
				accepted_at = COALESCE(accepted_at, $4),
				due_at = COALESCE(due_at, $5),
				delivered_at = COALESCE($6, delivered_at),
				completed_at = COALESCE(completed_at, $7),
				cancelled_at = COALESCE(cancelled_at, $8),
				platform_fee = COALESCE(platform_fee, $9),
				seller_earnings = COALESCE(seller_earnings, $10),
				revisions_used = revisions_used + $11,
				updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING ` + orderColumns

		increment := 0
		if update.IncrementRevisions {
			increment = 1
		}

		var scanErr error
		updated, scanErr = scanOrder(tx.QueryRow(ctx, query,
			update.OrderID, update.From, update.To,
			update.AcceptedAt, update.DueAt, update.DeliveredAt,
			update.CompletedAt, update.CancelledAt,
			update.PlatformFee, update.SellerEarnings,
			increment,
		))
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				// Either the order is gone or another writer moved it first.
				// Re-read to report the accurate failure.
				current, readErr := r.GetByID(ctx, update.OrderID)
				if readErr != nil {
					return readErr
				}
				return model.NewInvalidTransitionError(current.Status, update.To)
			}
			return fmt.Errorf("failed to apply transition: %w", scanErr)
		}

		for _, d := range update.Deliverables {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_deliverables (id, order_id, file_name, file_url, message, delivered_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, d.ID, d.OrderID, d.FileName, d.FileURL, d.Message, d.DeliveredAt); err != nil {
				return fmt.Errorf("failed to append deliverable: %w", err)
			}
		}

		if update.MarkRevisionsDelivered {
			if _, err := tx.Exec(ctx, `
				UPDATE order_revisions SET status = $2 WHERE order_id = $1 AND status = $3
			`, update.OrderID, model.RevisionStatusDelivered, model.RevisionStatusPending); err != nil {
				return fmt.Errorf("failed to resolve revision requests: %w", err)
			}
		}

		if rev := update.Revision; rev != nil {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_revisions (id, order_id, requested_by, reason, details, status, requested_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, rev.ID, rev.OrderID, rev.RequestedBy, rev.Reason, rev.Details, rev.Status, rev.RequestedAt); err != nil {
				return fmt.Errorf("failed to append revision request: %w", err)
			}
		}

		if c := update.Cancellation; c != nil {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_cancellations (order_id, requested_by, reason, requested_at)
				VALUES ($1, $2, $3, $4)
			`, c.OrderID, c.RequestedBy, c.Reason, c.RequestedAt); err != nil {
				return fmt.Errorf("failed to record cancellation: %w", err)
			}
		}

		if d := update.Dispute; d != nil {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_disputes (order_id, initiated_by, reason, details, opened_at)
				VALUES ($1, $2, $3, $4, $5)
			`, d.OrderID, d.InitiatedBy, d.Reason, d.Details, d.OpenedAt); err != nil {
				return fmt.Errorf("failed to record dispute: %w", err)
			}
		}

		if res := update.Resolution; res != nil {
			if _, err := tx.Exec(ctx, `
				UPDATE order_disputes
				SET resolved_by = $2, outcome = $3, note = $4, resolved_at = $5
				WHERE order_id = $1
			`, update.OrderID, res.ResolvedBy, res.Outcome, res.Note, res.ResolvedAt); err != nil {
				return fmt.Errorf("failed to record dispute resolution: %w", err)
			}
		}

		history := `
			INSERT INTO order_status_history (id, order_id, from_status, to_status, changed_by, notes, changed_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
		`
		if _, err := tx.Exec(ctx, history,
			uuid.New(), update.OrderID, string(update.From), string(update.To), update.ChangedBy, update.Notes,
		); err != nil {
			return fmt.Errorf("failed to create order status history: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

// =====================================================
// LISTS
// =====================================================

func (r *postgresOrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, status *string, page, limit int) ([]*model.Order, int, error) {
	return r.listByParty(ctx, "buyer_id", buyerID, status, page, limit)
}

func (r *postgresOrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, status *string, page, limit int) ([]*model.Order, int, error) {
	return r.listByParty(ctx, "seller_id", sellerID, status, page, limit)
}

func (r *postgresOrderRepository) listByParty(ctx context.Context, column string, partyID uuid.UUID, status *string, page, limit int) ([]*model.Order, int, error) {
	where := fmt.Sprintf("WHERE %s = $1", column)
	args := []any{partyID}
	if status != nil {
		where += " AND status = $2"
		args = append(args, *status)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM orders " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	listQuery := fmt.Sprintf(
		"SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, total, nil
}

// =====================================================
// SUB-RECORDS
// =====================================================

func (r *postgresOrderRepository) ListDeliverables(ctx context.Context, orderID uuid.UUID) ([]model.Deliverable, error) {
	query := `
		SELECT id, order_id, file_name, file_url, message, delivered_at
		FROM order_deliverables
		WHERE order_id = $1
		ORDER BY delivered_at ASC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliverables: %w", err)
	}
	defer rows.Close()

	var deliverables []model.Deliverable
	for rows.Next() {
		var d model.Deliverable
		if err := rows.Scan(&d.ID, &d.OrderID, &d.FileName, &d.FileURL, &d.Message, &d.DeliveredAt); err != nil {
			return nil, fmt.Errorf("failed to scan deliverable: %w", err)
		}
		deliverables = append(deliverables, d)
	}
	return deliverables, rows.Err()
}

func (r *postgresOrderRepository) ListRevisions(ctx context.Context, orderID uuid.UUID) ([]model.RevisionRequest, error) {
	query := `
		SELECT id, order_id, requested_by, reason, details, status, requested_at
		FROM order_revisions
		WHERE order_id = $1
		ORDER BY requested_at ASC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []model.RevisionRequest
	for rows.Next() {
		var rev model.RevisionRequest
		if err := rows.Scan(&rev.ID, &rev.OrderID, &rev.RequestedBy, &rev.Reason, &rev.Details, &rev.Status, &rev.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

func (r *postgresOrderRepository) GetCancellation(ctx context.Context, orderID uuid.UUID) (*model.Cancellation, error) {
	query := `
		SELECT order_id, requested_by, reason, requested_at
		FROM order_cancellations
		WHERE order_id = $1
	`

	c := &model.Cancellation{}
	err := r.pool.QueryRow(ctx, query, orderID).Scan(&c.OrderID, &c.RequestedBy, &c.Reason, &c.RequestedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cancellation: %w", err)
	}
	return c, nil
}

func (r *postgresOrderRepository) GetDispute(ctx context.Context, orderID uuid.UUID) (*model.Dispute, error) {
	query := `
		SELECT order_id, initiated_by, reason, details, opened_at, resolved_by, outcome, resolved_at, note
		FROM order_disputes
		WHERE order_id = $1
	`

	d := &model.Dispute{}
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&d.OrderID, &d.InitiatedBy, &d.Reason, &d.Details, &d.OpenedAt,
		&d.ResolvedBy, &d.Outcome, &d.ResolvedAt, &d.Note,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dispute: %w", err)
	}
	return d, nil
}

func (r *postgresOrderRepository) ListStatusHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error) {
	query := `
		SELECT id, order_id, from_status, to_status, changed_by, notes, changed_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY changed_at ASC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	var history []model.OrderStatusHistory
	for rows.Next() {
		var h model.OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.FromStatus, &h.ToStatus, &h.ChangedBy, &h.Notes, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// =====================================================
// AUTO-COMPLETE SWEEP
// =====================================================

func (r *postgresOrderRepository) ListAutoCompletable(ctx context.Context, deliveredBefore time.Time, limit int) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE status IN ($1, $2) AND delivered_at < $3
		ORDER BY delivered_at ASC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query,
		model.StatusDelivered, model.StatusRevisionDelivered, deliveredBefore, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-completable orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// =====================================================
// EARNINGS
// =====================================================

func (r *postgresOrderRepository) EarningsSummary(ctx context.Context, sellerID uuid.UUID) (*model.EarningsSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(seller_earnings) FILTER (WHERE status = 'completed'), 0),
			COALESCE(SUM(platform_fee) FILTER (WHERE status = 'completed'), 0),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status NOT IN ('completed', 'cancelled', 'refunded'))
		FROM orders
		WHERE seller_id = $1
	`

	summary := &model.EarningsSummary{}
	err := r.pool.QueryRow(ctx, query, sellerID).Scan(
		&summary.TotalEarnings, &summary.TotalFees,
		&summary.CompletedOrders, &summary.ActiveOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get earnings summary: %w", err)
	}
	return summary, nil
}

func (r *postgresOrderRepository) ListCompletedBySeller(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE seller_id = $1 AND status = 'completed' AND completed_at >= $2 AND completed_at < $3
		ORDER BY completed_at ASC
	`

	rows, err := r.pool.Query(ctx, query, sellerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
