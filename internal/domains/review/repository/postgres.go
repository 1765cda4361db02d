package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gigmarket-backend/internal/domains/review/model"
	"gigmarket-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const uniqueViolationCode = "23505"

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

const reviewColumns = `
	id, order_id, gig_id, buyer_id, seller_id,
	rating_overall, rating_communication, rating_quality, rating_delivery,
	comment, status, helpful_count, helpful_voters, flag_count,
	seller_response, seller_responded_at, created_at, updated_at
`

func scanReview(row pgx.Row) (*model.Review, error) {
	r := &model.Review{}
	err := row.Scan(
		&r.ID, &r.OrderID, &r.GigID, &r.BuyerID, &r.SellerID,
		&r.Rating.Overall, &r.Rating.Communication, &r.Rating.Quality, &r.Rating.Delivery,
		&r.Comment, &r.Status, &r.HelpfulCount, &r.HelpfulVoters, &r.FlagCount,
		&r.SellerResponse, &r.SellerRespondedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, order_id, gig_id, buyer_id, seller_id,
			rating_overall, rating_communication, rating_quality, rating_delivery,
			comment, status, helpful_count, helpful_voters, flag_count,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, '{}', 0, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID, review.OrderID, review.GigID, review.BuyerID, review.SellerID,
		review.Rating.Overall, review.Rating.Communication, review.Rating.Quality, review.Rating.Delivery,
		review.Comment, review.Status, review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// =====================================================
// READS
// =====================================================

func (r *postgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func (r *postgresReviewRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE order_id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func (r *postgresReviewRepository) ListByGig(ctx context.Context, gigID uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	return r.listPublished(ctx, "gig_id", gigID, page, limit)
}

func (r *postgresReviewRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	return r.listPublished(ctx, "seller_id", sellerID, page, limit)
}

func (r *postgresReviewRepository) listPublished(ctx context.Context, column string, id uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM reviews WHERE %s = $1 AND status = $2`, column)
	if err := r.pool.QueryRow(ctx, countQuery, id, model.ReviewStatusPublished).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM reviews WHERE %s = $1 AND status = $2
		 ORDER BY helpful_count DESC, created_at DESC LIMIT $3 OFFSET $4`,
		reviewColumns, column,
	)

	rows, err := r.pool.Query(ctx, listQuery, id, model.ReviewStatusPublished, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, total, rows.Err()
}

// =====================================================
// STATUS / MODERATION
// =====================================================

func (r *postgresReviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE reviews SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

// =====================================================
// HELPFUL VOTES
// =====================================================

func (r *postgresReviewRepository) MarkHelpful(ctx context.Context, reviewID, voterID uuid.UUID) (bool, error) {
	query := `
		UPDATE reviews
		SET helpful_voters = array_append(helpful_voters, $2),
		    helpful_count = helpful_count + 1,
		    updated_at = NOW()
		WHERE id = $1 AND NOT (helpful_voters @> ARRAY[$2]::uuid[])
	`

	tag, err := r.pool.Exec(ctx, query, reviewID, voterID)
	if err != nil {
		return false, fmt.Errorf("failed to mark review helpful: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// No row changed: either a repeat vote or a missing review
	if _, err := r.GetByID(ctx, reviewID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *postgresReviewRepository) UnmarkHelpful(ctx context.Context, reviewID, voterID uuid.UUID) (bool, error) {
	query := `
		UPDATE reviews
		SET helpful_voters = array_remove(helpful_voters, $2),
		    helpful_count = helpful_count - 1,
		    updated_at = NOW()
		WHERE id = $1 AND helpful_voters @> ARRAY[$2]::uuid[]
	`

	tag, err := r.pool.Exec(ctx, query, reviewID, voterID)
	if err != nil {
		return false, fmt.Errorf("failed to unmark review helpful: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	if _, err := r.GetByID(ctx, reviewID); err != nil {
		return false, err
	}
	return false, nil
}

// =====================================================
// FLAGS
// =====================================================

func (r *postgresReviewRepository) AddFlag(ctx context.Context, flag *model.ReviewFlag) (int, bool, error) {
	var flagCount int
	var escalated bool

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO review_flags (id, review_id, user_id, reason, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (review_id, user_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, insert,
			flag.ID, flag.ReviewID, flag.UserID, flag.Reason, flag.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert flag: %w", err)
		}

		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM review_flags WHERE review_id = $1`, flag.ReviewID,
		).Scan(&flagCount); err != nil {
			return fmt.Errorf("failed to count flags: %w", err)
		}

		status := ""
		if err := tx.QueryRow(ctx,
			`UPDATE reviews SET flag_count = $2, updated_at = NOW() WHERE id = $1 RETURNING status`,
			flag.ReviewID, flagCount,
		).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrReviewNotFound
			}
			return fmt.Errorf("failed to update flag count: %w", err)
		}

		// three distinct flags force the flagged status no matter what
		// moderation state the review was in
		if flagCount >= model.FlagThreshold && status != model.ReviewStatusFlagged {
			if _, err := tx.Exec(ctx,
				`UPDATE reviews SET status = $2, updated_at = NOW() WHERE id = $1`,
				flag.ReviewID, model.ReviewStatusFlagged,
			); err != nil {
				return fmt.Errorf("failed to escalate review: %w", err)
			}
			escalated = true
		}
		return nil
	})

	if err != nil {
		return 0, false, err
	}
	return flagCount, escalated, nil
}

// =====================================================
// SELLER RESPONSE
// =====================================================

func (r *postgresReviewRepository) SetSellerResponse(ctx context.Context, reviewID uuid.UUID, response string, respondedAt time.Time) error {
	query := `
		UPDATE reviews
		SET seller_response = $2, seller_responded_at = $3, updated_at = NOW()
		WHERE id = $1 AND seller_response IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, reviewID, response, respondedAt)
	if err != nil {
		return fmt.Errorf("failed to set seller response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, reviewID); err != nil {
			return err
		}
		return model.ErrAlreadyResponded
	}
	return nil
}

// =====================================================
// RATING AGGREGATES
// =====================================================

func (r *postgresReviewRepository) GigRatingStats(ctx context.Context, gigID uuid.UUID) (*RatingStats, error) {
	return r.ratingStats(ctx, "gig_id", gigID)
}

func (r *postgresReviewRepository) SellerRatingStats(ctx context.Context, sellerID uuid.UUID) (*RatingStats, error) {
	return r.ratingStats(ctx, "seller_id", sellerID)
}

func (r *postgresReviewRepository) ratingStats(ctx context.Context, column string, id uuid.UUID) (*RatingStats, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(ROUND(AVG(rating_overall)::numeric, 1), 0), COUNT(*)
		FROM reviews
		WHERE %s = $1 AND status = $2
	`, column)

	stats := &RatingStats{}
	err := r.pool.QueryRow(ctx, query, id, model.ReviewStatusPublished).Scan(&stats.Average, &stats.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating stats: %w", err)
	}
	return stats, nil
}

func (r *postgresReviewRepository) ListRecentlyReviewed(ctx context.Context, since time.Time, limit int) ([]ReviewedTarget, error) {
	query := `
		SELECT DISTINCT gig_id, seller_id
		FROM reviews
		WHERE updated_at >= $1
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recently reviewed targets: %w", err)
	}
	defer rows.Close()

	var targets []ReviewedTarget
	for rows.Next() {
		var t ReviewedTarget
		if err := rows.Scan(&t.GigID, &t.SellerID); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}
