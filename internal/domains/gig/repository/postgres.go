package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const uniqueViolationCode = "23505"

type postgresGigRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresGigRepository(pool *pgxpool.Pool) GigRepository {
	return &postgresGigRepository{pool: pool}
}

const gigColumns = `
	g.id, g.seller_id, g.title, g.slug, g.description, g.category, g.tags,
	g.cover_image_url, g.thumbnail_url, g.status,
	g.rating, g.total_reviews,
	(SELECT COUNT(*) FROM orders o WHERE o.gig_id = g.id),
	g.created_at, g.updated_at
`

func scanGig(row pgx.Row) (*model.Gig, error) {
	g := &model.Gig{}
	err := row.Scan(
		&g.ID, &g.SellerID, &g.Title, &g.Slug, &g.Description, &g.Category, &g.Tags,
		&g.CoverImageURL, &g.ThumbnailURL, &g.Status,
		&g.Stats.Rating, &g.Stats.TotalReviews,
		&g.Stats.TotalOrders,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// =====================================================
// CREATE / UPDATE
// =====================================================

func (r *postgresGigRepository) Create(ctx context.Context, gig *model.Gig) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO gigs (
				id, seller_id, title, slug, description, category, tags,
				cover_image_url, thumbnail_url, status, rating, total_reviews,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`

		_, err := tx.Exec(ctx, query,
			gig.ID, gig.SellerID, gig.Title, gig.Slug, gig.Description, gig.Category, gig.Tags,
			gig.CoverImageURL, gig.ThumbnailURL, gig.Status, gig.Stats.Rating, gig.Stats.TotalReviews,
			gig.CreatedAt, gig.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return model.ErrDuplicateSlug
			}
			return fmt.Errorf("failed to create gig: %w", err)
		}

		return insertPackages(ctx, tx, gig.ID, gig.Packages)
	})
}

func (r *postgresGigRepository) Update(ctx context.Context, gig *model.Gig) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE gigs SET
				title = $2, description = $3, category = $4, tags = $5,
				cover_image_url = $6, thumbnail_url = $7, status = $8,
				updated_at = NOW()
			WHERE id = $1
		`

		tag, err := tx.Exec(ctx, query,
			gig.ID, gig.Title, gig.Description, gig.Category, gig.Tags,
			gig.CoverImageURL, gig.ThumbnailURL, gig.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to update gig: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrGigNotFound
		}

		if gig.Packages != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM gig_packages WHERE gig_id = $1`, gig.ID); err != nil {
				return fmt.Errorf("failed to replace packages: %w", err)
			}
			return insertPackages(ctx, tx, gig.ID, gig.Packages)
		}
		return nil
	})
}

func insertPackages(ctx context.Context, tx pgx.Tx, gigID uuid.UUID, packages []model.Package) error {
	query := `
		INSERT INTO gig_packages (gig_id, tier, title, description, price, delivery_days, revisions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, p := range packages {
		if _, err := tx.Exec(ctx, query,
			gigID, p.Tier, p.Title, p.Description, p.Price, p.DeliveryDays, p.Revisions,
		); err != nil {
			return fmt.Errorf("failed to insert package %s: %w", p.Tier, err)
		}
	}
	return nil
}

// =====================================================
// READS
// =====================================================

func (r *postgresGigRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs g WHERE g.id = $1`
	return r.getOne(ctx, query, id)
}

func (r *postgresGigRepository) GetBySlug(ctx context.Context, slug string) (*model.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs g WHERE g.slug = $1`
	return r.getOne(ctx, query, slug)
}

func (r *postgresGigRepository) getOne(ctx context.Context, query string, arg any) (*model.Gig, error) {
	gig, err := scanGig(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrGigNotFound
		}
		return nil, fmt.Errorf("failed to get gig: %w", err)
	}

	if err := r.loadPackages(ctx, gig); err != nil {
		return nil, err
	}
	return gig, nil
}

func (r *postgresGigRepository) loadPackages(ctx context.Context, gig *model.Gig) error {
	query := `
		SELECT tier, title, description, price, delivery_days, revisions
		FROM gig_packages
		WHERE gig_id = $1
		ORDER BY price ASC
	`

	rows, err := r.pool.Query(ctx, query, gig.ID)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Package
		if err := rows.Scan(&p.Tier, &p.Title, &p.Description, &p.Price, &p.DeliveryDays, &p.Revisions); err != nil {
			return fmt.Errorf("failed to scan package: %w", err)
		}
		gig.Packages = append(gig.Packages, p)
	}
	return rows.Err()
}

// =====================================================
// LIST
// =====================================================

func (r *postgresGigRepository) List(ctx context.Context, req *model.ListGigsRequest) ([]*model.Gig, int, error) {
	where := "WHERE g.status = 'active'"
	args := []any{}

	if req.Category != nil {
		args = append(args, *req.Category)
		where += fmt.Sprintf(" AND g.category = $%d", len(args))
	}
	if req.SellerID != nil {
		args = append(args, *req.SellerID)
		where += fmt.Sprintf(" AND g.seller_id = $%d", len(args))
	}
	if req.Search != nil {
		args = append(args, "%"+*req.Search+"%")
		where += fmt.Sprintf(" AND (g.title ILIKE $%d OR g.description ILIKE $%d)", len(args), len(args))
	}
	if req.MinRating != nil {
		args = append(args, *req.MinRating)
		where += fmt.Sprintf(" AND g.rating >= $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM gigs g " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count gigs: %w", err)
	}

	args = append(args, req.Limit, (req.Page-1)*req.Limit)
	listQuery := fmt.Sprintf(
		"SELECT %s FROM gigs g %s ORDER BY g.rating DESC, g.created_at DESC LIMIT $%d OFFSET $%d",
		gigColumns, where, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list gigs: %w", err)
	}
	defer rows.Close()

	var gigs []*model.Gig
	for rows.Next() {
		gig, err := scanGig(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan gig: %w", err)
		}
		gigs = append(gigs, gig)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate gigs: %w", err)
	}

	for _, gig := range gigs {
		if err := r.loadPackages(ctx, gig); err != nil {
			return nil, 0, err
		}
	}
	return gigs, total, nil
}

// =====================================================
// STATS
// =====================================================

func (r *postgresGigRepository) UpdateStats(ctx context.Context, gigID uuid.UUID, rating decimal.Decimal, totalReviews int) error {
	query := `
		UPDATE gigs SET rating = $2, total_reviews = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, gigID, rating, totalReviews)
	if err != nil {
		return fmt.Errorf("failed to update gig stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGigNotFound
	}
	return nil
}

func (r *postgresGigRepository) ListIDsBySeller(ctx context.Context, sellerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM gigs WHERE seller_id = $1`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller gigs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan gig id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
