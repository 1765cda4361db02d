package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gigmodel "gigmarket-backend/internal/domains/gig/model"
	reviewmodel "gigmarket-backend/internal/domains/review/model"
	reviewrepo "gigmarket-backend/internal/domains/review/repository"
)

// =====================================================
// STUBS
// =====================================================

// stubReviewRepository holds raw reviews and derives the aggregates the
// way the real repository does: average of published overall scores,
// rounded to one decimal place, zero when nothing is published.
type stubReviewRepository struct {
	reviews []*reviewmodel.Review
}

func (s *stubReviewRepository) stats(match func(*reviewmodel.Review) bool) *reviewrepo.RatingStats {
	sum := decimal.Zero
	count := 0
	for _, r := range s.reviews {
		if !match(r) || !r.IsPublished() {
			continue
		}
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating.Overall)))
		count++
	}
	if count == 0 {
		return &reviewrepo.RatingStats{Average: decimal.Zero}
	}
	return &reviewrepo.RatingStats{
		Average: sum.Div(decimal.NewFromInt(int64(count))).Round(1),
		Count:   count,
	}
}

func (s *stubReviewRepository) GigRatingStats(_ context.Context, gigID uuid.UUID) (*reviewrepo.RatingStats, error) {
	return s.stats(func(r *reviewmodel.Review) bool { return r.GigID == gigID }), nil
}

func (s *stubReviewRepository) SellerRatingStats(_ context.Context, sellerID uuid.UUID) (*reviewrepo.RatingStats, error) {
	return s.stats(func(r *reviewmodel.Review) bool { return r.SellerID == sellerID }), nil
}

func (s *stubReviewRepository) ListRecentlyReviewed(_ context.Context, since time.Time, limit int) ([]reviewrepo.ReviewedTarget, error) {
	seen := make(map[reviewrepo.ReviewedTarget]bool)
	var out []reviewrepo.ReviewedTarget
	for _, r := range s.reviews {
		if len(out) == limit {
			break
		}
		if r.UpdatedAt.Before(since) {
			continue
		}
		target := reviewrepo.ReviewedTarget{GigID: r.GigID, SellerID: r.SellerID}
		if !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
	}
	return out, nil
}

func (s *stubReviewRepository) Create(context.Context, *reviewmodel.Review) error {
	panic("not implemented")
}

func (s *stubReviewRepository) GetByID(context.Context, uuid.UUID) (*reviewmodel.Review, error) {
	panic("not implemented")
}

func (s *stubReviewRepository) GetByOrderID(context.Context, uuid.UUID) (*reviewmodel.Review, error) {
	panic("not implemented")
}

func (s *stubReviewRepository) ListByGig(context.Context, uuid.UUID, int, int) ([]*reviewmodel.Review, int, error) {
	panic("not implemented")
}

func (s *stubReviewRepository) ListBySeller(context.Context, uuid.UUID, int, int) ([]*reviewmodel.Review, int, error) {
	panic("not implemented")
}

func (s *stubReviewRepository) UpdateStatus(context.Context, uuid.UUID, string) error {
	panic("not implemented")
}

func (s *stubReviewRepository) MarkHelpful(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	panic("not implemented")
}

func (s *stubReviewRepository) UnmarkHelpful(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	panic("not implemented")
}

func (s *stubReviewRepository) AddFlag(context.Context, *reviewmodel.ReviewFlag) (int, bool, error) {
	panic("not implemented")
}

func (s *stubReviewRepository) SetSellerResponse(context.Context, uuid.UUID, string, time.Time) error {
	panic("not implemented")
}

// stubGigRepository records UpdateStats calls
type stubGigRepository struct {
	ratings map[uuid.UUID]decimal.Decimal
	counts  map[uuid.UUID]int
	calls   int
}

func newStubGigRepository() *stubGigRepository {
	return &stubGigRepository{
		ratings: make(map[uuid.UUID]decimal.Decimal),
		counts:  make(map[uuid.UUID]int),
	}
}

func (s *stubGigRepository) UpdateStats(_ context.Context, gigID uuid.UUID, rating decimal.Decimal, totalReviews int) error {
	s.ratings[gigID] = rating
	s.counts[gigID] = totalReviews
	s.calls++
	return nil
}

func (s *stubGigRepository) Create(context.Context, *gigmodel.Gig) error { panic("not implemented") }

func (s *stubGigRepository) GetByID(context.Context, uuid.UUID) (*gigmodel.Gig, error) {
	panic("not implemented")
}

func (s *stubGigRepository) GetBySlug(context.Context, string) (*gigmodel.Gig, error) {
	panic("not implemented")
}

func (s *stubGigRepository) Update(context.Context, *gigmodel.Gig) error { panic("not implemented") }

func (s *stubGigRepository) List(context.Context, *gigmodel.ListGigsRequest) ([]*gigmodel.Gig, int, error) {
	panic("not implemented")
}

func (s *stubGigRepository) ListIDsBySeller(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	panic("not implemented")
}

// stubSellerWriter records seller rating updates
type stubSellerWriter struct {
	ratings map[uuid.UUID]decimal.Decimal
	counts  map[uuid.UUID]int
}

func newStubSellerWriter() *stubSellerWriter {
	return &stubSellerWriter{
		ratings: make(map[uuid.UUID]decimal.Decimal),
		counts:  make(map[uuid.UUID]int),
	}
}

func (s *stubSellerWriter) UpdateSellerRating(_ context.Context, sellerID uuid.UUID, rating decimal.Decimal, totalReviews int) error {
	s.ratings[sellerID] = rating
	s.counts[sellerID] = totalReviews
	return nil
}

// =====================================================
// TEST SETUP
// =====================================================

func review(gigID, sellerID uuid.UUID, overall int, status string) *reviewmodel.Review {
	return &reviewmodel.Review{
		ID:        uuid.New(),
		OrderID:   uuid.New(),
		GigID:     gigID,
		SellerID:  sellerID,
		Rating:    reviewmodel.Rating{Overall: overall},
		Status:    status,
		UpdatedAt: time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC),
	}
}

// =====================================================
// RECOMPUTE
// =====================================================

func TestRecomputeGigRating(t *testing.T) {
	gigID := uuid.New()
	sellerID := uuid.New()

	reviews := &stubReviewRepository{reviews: []*reviewmodel.Review{
		review(gigID, sellerID, 5, reviewmodel.ReviewStatusPublished),
		review(gigID, sellerID, 3, reviewmodel.ReviewStatusPublished),
	}}
	gigs := newStubGigRepository()
	sellers := newStubSellerWriter()
	svc := NewRatingService(reviews, gigs, sellers)
	ctx := context.Background()

	require.NoError(t, svc.RecomputeGigRating(ctx, gigID))
	assert.Equal(t, "4.0", gigs.ratings[gigID].StringFixed(1))
	assert.Equal(t, 2, gigs.counts[gigID])

	// a third score keeps the average at 4.0
	reviews.reviews = append(reviews.reviews, review(gigID, sellerID, 4, reviewmodel.ReviewStatusPublished))
	require.NoError(t, svc.RecomputeGigRating(ctx, gigID))
	assert.Equal(t, "4.0", gigs.ratings[gigID].StringFixed(1))
	assert.Equal(t, 3, gigs.counts[gigID])

	// hiding the lowest score lifts the average to 4.5
	reviews.reviews[1].Status = reviewmodel.ReviewStatusHidden
	require.NoError(t, svc.RecomputeGigRating(ctx, gigID))
	assert.Equal(t, "4.5", gigs.ratings[gigID].StringFixed(1))
	assert.Equal(t, 2, gigs.counts[gigID])
}

func TestRecomputeIsIdempotent(t *testing.T) {
	gigID := uuid.New()
	sellerID := uuid.New()

	reviews := &stubReviewRepository{reviews: []*reviewmodel.Review{
		review(gigID, sellerID, 5, reviewmodel.ReviewStatusPublished),
		review(gigID, sellerID, 2, reviewmodel.ReviewStatusPublished),
	}}
	gigs := newStubGigRepository()
	svc := NewRatingService(reviews, gigs, newStubSellerWriter())
	ctx := context.Background()

	require.NoError(t, svc.RecomputeGigRating(ctx, gigID))
	first := gigs.ratings[gigID]

	require.NoError(t, svc.RecomputeGigRating(ctx, gigID))
	assert.True(t, gigs.ratings[gigID].Equal(first))
	assert.Equal(t, 2, gigs.counts[gigID])
}

func TestRecomputeWithNoPublishedReviews(t *testing.T) {
	gigID := uuid.New()
	sellerID := uuid.New()

	reviews := &stubReviewRepository{reviews: []*reviewmodel.Review{
		review(gigID, sellerID, 1, reviewmodel.ReviewStatusHidden),
	}}
	gigs := newStubGigRepository()
	svc := NewRatingService(reviews, gigs, newStubSellerWriter())

	require.NoError(t, svc.RecomputeGigRating(context.Background(), gigID))
	assert.True(t, gigs.ratings[gigID].IsZero())
	assert.Equal(t, 0, gigs.counts[gigID])
}

func TestRecomputeSellerRatingSpansGigs(t *testing.T) {
	sellerID := uuid.New()

	reviews := &stubReviewRepository{reviews: []*reviewmodel.Review{
		review(uuid.New(), sellerID, 5, reviewmodel.ReviewStatusPublished),
		review(uuid.New(), sellerID, 4, reviewmodel.ReviewStatusPublished),
		review(uuid.New(), uuid.New(), 1, reviewmodel.ReviewStatusPublished),
	}}
	sellers := newStubSellerWriter()
	svc := NewRatingService(reviews, newStubGigRepository(), sellers)

	require.NoError(t, svc.RecomputeSellerRating(context.Background(), sellerID))
	assert.Equal(t, "4.5", sellers.ratings[sellerID].StringFixed(1))
	assert.Equal(t, 2, sellers.counts[sellerID])
}

// =====================================================
// REPAIR SWEEP
// =====================================================

func TestRepairRecent(t *testing.T) {
	sellerID := uuid.New()
	gigA := uuid.New()
	gigB := uuid.New()

	reviews := &stubReviewRepository{reviews: []*reviewmodel.Review{
		review(gigA, sellerID, 5, reviewmodel.ReviewStatusPublished),
		review(gigB, sellerID, 3, reviewmodel.ReviewStatusPublished),
	}}
	gigs := newStubGigRepository()
	sellers := newStubSellerWriter()

	svc := NewRatingService(reviews, gigs, sellers).(*ratingService)
	svc.now = func() time.Time { return time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC) }

	repaired, err := svc.RepairRecent(context.Background(), 25*time.Hour, 100)
	require.NoError(t, err)

	assert.Equal(t, 2, repaired)
	assert.Equal(t, "5.0", gigs.ratings[gigA].StringFixed(1))
	assert.Equal(t, "3.0", gigs.ratings[gigB].StringFixed(1))
	// the shared seller is recomputed once across both gigs
	assert.Equal(t, "4.0", sellers.ratings[sellerID].StringFixed(1))
}

func TestRepairRecentSkipsOldReviews(t *testing.T) {
	sellerID := uuid.New()
	gigID := uuid.New()

	stale := review(gigID, sellerID, 5, reviewmodel.ReviewStatusPublished)
	stale.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	reviews := &stubReviewRepository{reviews: []*reviewmodel.Review{stale}}
	gigs := newStubGigRepository()

	svc := NewRatingService(reviews, gigs, newStubSellerWriter()).(*ratingService)
	svc.now = func() time.Time { return time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC) }

	repaired, err := svc.RepairRecent(context.Background(), 25*time.Hour, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)
	assert.Equal(t, 0, gigs.calls)
}
