package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gigmodel "gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/domains/order/repository"
	"gigmarket-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

// fakeOrderRepository mirrors the conditional-write semantics of the
// real repository: a transition only applies when the stored status
// still matches From, and set-once fields never change twice.
type fakeOrderRepository struct {
	mu           sync.Mutex
	orders       map[uuid.UUID]*model.Order
	deliverables map[uuid.UUID][]model.Deliverable
	revisions    map[uuid.UUID][]model.RevisionRequest
	history      map[uuid.UUID][]model.OrderStatusHistory
	cancellation map[uuid.UUID]*model.Cancellation
	dispute      map[uuid.UUID]*model.Dispute
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{
		orders:       make(map[uuid.UUID]*model.Order),
		deliverables: make(map[uuid.UUID][]model.Deliverable),
		revisions:    make(map[uuid.UUID][]model.RevisionRequest),
		history:      make(map[uuid.UUID][]model.OrderStatusHistory),
		cancellation: make(map[uuid.UUID]*model.Cancellation),
		dispute:      make(map[uuid.UUID]*model.Dispute),
	}
}

func (f *fakeOrderRepository) Create(_ context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepository) ApplyTransition(_ context.Context, update repository.TransitionUpdate) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[update.OrderID]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	if order.Status != update.From {
		return nil, model.NewInvalidTransitionError(order.Status, update.To)
	}

	order.Status = update.To
	if update.AcceptedAt != nil && order.Dates.Accepted == nil {
		order.Dates.Accepted = update.AcceptedAt
	}
	if update.DueAt != nil && order.Dates.Due == nil {
		order.Dates.Due = update.DueAt
	}
	if update.DeliveredAt != nil {
		order.Dates.Delivered = update.DeliveredAt
	}
	if update.CompletedAt != nil && order.Dates.Completed == nil {
		order.Dates.Completed = update.CompletedAt
	}
	if update.CancelledAt != nil && order.Dates.Cancelled == nil {
		order.Dates.Cancelled = update.CancelledAt
	}
	if update.PlatformFee != nil && order.PlatformFee == nil {
		order.PlatformFee = update.PlatformFee
	}
	if update.SellerEarnings != nil && order.SellerEarnings == nil {
		order.SellerEarnings = update.SellerEarnings
	}
	if update.IncrementRevisions {
		order.RevisionsUsed++
	}
	if update.MarkRevisionsDelivered {
		for i := range f.revisions[order.ID] {
			if f.revisions[order.ID][i].Status == model.RevisionStatusPending {
				f.revisions[order.ID][i].Status = model.RevisionStatusDelivered
			}
		}
	}

	f.deliverables[order.ID] = append(f.deliverables[order.ID], update.Deliverables...)
	if update.Revision != nil {
		f.revisions[order.ID] = append(f.revisions[order.ID], *update.Revision)
	}
	if update.Cancellation != nil {
		f.cancellation[order.ID] = update.Cancellation
	}
	if update.Dispute != nil {
		f.dispute[order.ID] = update.Dispute
	}

	toStatus := string(update.To)
	f.history[order.ID] = append(f.history[order.ID], model.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  toStatus,
		ChangedBy: update.ChangedBy,
		Notes:     update.Notes,
	})

	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID, status *string, _, _ int) ([]*model.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Order
	for _, o := range f.orders {
		if o.BuyerID != buyerID {
			continue
		}
		if status != nil && string(o.Status) != *status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepository) ListBySeller(_ context.Context, sellerID uuid.UUID, status *string, _, _ int) ([]*model.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Order
	for _, o := range f.orders {
		if o.SellerID != sellerID {
			continue
		}
		if status != nil && string(o.Status) != *status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepository) ListDeliverables(_ context.Context, orderID uuid.UUID) ([]model.Deliverable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Deliverable(nil), f.deliverables[orderID]...), nil
}

func (f *fakeOrderRepository) ListRevisions(_ context.Context, orderID uuid.UUID) ([]model.RevisionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.RevisionRequest(nil), f.revisions[orderID]...), nil
}

func (f *fakeOrderRepository) GetCancellation(_ context.Context, orderID uuid.UUID) (*model.Cancellation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancellation[orderID], nil
}

func (f *fakeOrderRepository) GetDispute(_ context.Context, orderID uuid.UUID) (*model.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dispute[orderID], nil
}

func (f *fakeOrderRepository) ListStatusHistory(_ context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.OrderStatusHistory(nil), f.history[orderID]...), nil
}

func (f *fakeOrderRepository) ListAutoCompletable(_ context.Context, deliveredBefore time.Time, limit int) ([]*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Order
	for _, o := range f.orders {
		if len(out) == limit {
			break
		}
		if o.Status != model.StatusDelivered && o.Status != model.StatusRevisionDelivered {
			continue
		}
		if o.Dates.Delivered == nil || !o.Dates.Delivered.Before(deliveredBefore) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeOrderRepository) EarningsSummary(_ context.Context, sellerID uuid.UUID) (*model.EarningsSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := &model.EarningsSummary{
		TotalEarnings: decimal.Zero,
		TotalFees:     decimal.Zero,
	}
	for _, o := range f.orders {
		if o.SellerID != sellerID {
			continue
		}
		if o.Status == model.StatusCompleted {
			summary.CompletedOrders++
			if o.SellerEarnings != nil {
				summary.TotalEarnings = summary.TotalEarnings.Add(*o.SellerEarnings)
			}
			if o.PlatformFee != nil {
				summary.TotalFees = summary.TotalFees.Add(*o.PlatformFee)
			}
		} else if !o.Status.IsTerminal() {
			summary.ActiveOrders++
		}
	}
	return summary, nil
}

func (f *fakeOrderRepository) ListCompletedBySeller(_ context.Context, sellerID uuid.UUID, from, to time.Time) ([]*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Order
	for _, o := range f.orders {
		if o.SellerID != sellerID || o.Status != model.StatusCompleted {
			continue
		}
		if o.Dates.Completed == nil || o.Dates.Completed.Before(from) || !o.Dates.Completed.Before(to) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

type fakeGigReader struct {
	gigs map[uuid.UUID]*gigmodel.Gig
}

func (f *fakeGigReader) GetByID(_ context.Context, id uuid.UUID) (*gigmodel.Gig, error) {
	gig, ok := f.gigs[id]
	if !ok {
		return nil, errors.New("gig not found")
	}
	return gig, nil
}

// =====================================================
// TEST SETUP
// =====================================================

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testGig(sellerID uuid.UUID) *gigmodel.Gig {
	return &gigmodel.Gig{
		ID:       uuid.New(),
		SellerID: sellerID,
		Title:    "Logo design",
		Status:   gigmodel.GigStatusActive,
		Packages: []gigmodel.Package{
			{
				Tier:         model.PackageTierBasic,
				Title:        "Basic logo",
				Price:        decimal.RequireFromString("100.00"),
				DeliveryDays: 3,
				Revisions:    1,
			},
			{
				Tier:         model.PackageTierPremium,
				Title:        "Full brand kit",
				Price:        decimal.RequireFromString("450.00"),
				DeliveryDays: 7,
				Revisions:    3,
			},
		},
	}
}

type testEnv struct {
	svc    *orderService
	repo   *fakeOrderRepository
	gig    *gigmodel.Gig
	buyer  shared.Actor
	seller shared.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	buyer := shared.Actor{ID: uuid.New(), Role: shared.RoleBuyer}
	seller := shared.Actor{ID: uuid.New(), Role: shared.RoleSeller}
	gig := testGig(seller.ID)

	repo := newFakeOrderRepository()
	gigs := &fakeGigReader{gigs: map[uuid.UUID]*gigmodel.Gig{gig.ID: gig}}

	svc := NewOrderService(repo, gigs, 3*24*time.Hour).(*orderService)
	svc.now = func() time.Time { return testNow }

	return &testEnv{svc: svc, repo: repo, gig: gig, buyer: buyer, seller: seller}
}

func (e *testEnv) createOrder(t *testing.T) *model.OrderResponse {
	t.Helper()
	order, err := e.svc.Create(context.Background(), e.buyer, &model.CreateOrderRequest{
		GigID:       e.gig.ID,
		PackageTier: model.PackageTierBasic,
	})
	require.NoError(t, err)
	return order
}

// deliverOrder walks the order through the happy path up to delivered
func (e *testEnv) deliverOrder(t *testing.T) *model.OrderResponse {
	t.Helper()
	ctx := context.Background()

	order := e.createOrder(t)
	_, err := e.svc.Accept(ctx, e.seller, order.ID)
	require.NoError(t, err)
	_, err = e.svc.Start(ctx, e.seller, order.ID)
	require.NoError(t, err)

	delivered, err := e.svc.Deliver(ctx, e.seller, order.ID, &model.DeliverRequest{
		Deliverables: []model.DeliverableInput{
			{FileName: "logo-final.png", FileURL: "https://files.example.com/logo-final.png"},
		},
	})
	require.NoError(t, err)
	return delivered
}

// =====================================================
// CREATE
// =====================================================

func TestCreateOrderSnapshotsPackage(t *testing.T) {
	env := newTestEnv(t)

	order := env.createOrder(t)

	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, env.buyer.ID, order.BuyerID)
	assert.Equal(t, env.seller.ID, order.SellerID)
	assert.Equal(t, "Basic logo", order.Package.Title)
	assert.Equal(t, 3, order.Package.DeliveryDays)
	assert.Equal(t, 1, order.Package.Revisions)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("100.00")))
	assert.NotEmpty(t, order.OrderNumber)
	assert.Nil(t, order.PlatformFee)
	assert.Nil(t, order.SellerEarnings)

	// mutating the gig package after ordering must not touch the snapshot
	env.gig.Packages[0].Price = decimal.RequireFromString("999.00")
	stored, err := env.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Subtotal.Equal(decimal.RequireFromString("100.00")))
}

func TestCreateOrderRejectsOwnGig(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), env.seller, &model.CreateOrderRequest{
		GigID:       env.gig.ID,
		PackageTier: model.PackageTierBasic,
	})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestCreateOrderRejectsInactiveGig(t *testing.T) {
	env := newTestEnv(t)
	env.gig.Status = gigmodel.GigStatusPaused

	_, err := env.svc.Create(context.Background(), env.buyer, &model.CreateOrderRequest{
		GigID:       env.gig.ID,
		PackageTier: model.PackageTierBasic,
	})
	assert.ErrorIs(t, err, gigmodel.ErrGigNotOrderable)
}

func TestCreateOrderRejectsMissingTier(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), env.buyer, &model.CreateOrderRequest{
		GigID:       env.gig.ID,
		PackageTier: model.PackageTierStandard,
	})
	assert.ErrorIs(t, err, model.ErrInvalidPackageTier)
}

// =====================================================
// LIFECYCLE
// =====================================================

func TestAcceptSetsDueDate(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(t)

	accepted, err := env.svc.Accept(context.Background(), env.seller, order.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.Dates.Accepted)
	require.NotNil(t, accepted.Dates.Due)
	assert.Equal(t, testNow, *accepted.Dates.Accepted)
	assert.Equal(t, testNow.Add(3*24*time.Hour), *accepted.Dates.Due)
}

func TestAcceptRequiresSeller(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(t)

	_, err := env.svc.Accept(context.Background(), env.buyer, order.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestDeliverRequiresActiveOrder(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(t)

	_, err := env.svc.Deliver(context.Background(), env.seller, order.ID, &model.DeliverRequest{
		Deliverables: []model.DeliverableInput{
			{FileName: "draft.png", FileURL: "https://files.example.com/draft.png"},
		},
	})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCompleteSplitsEarnings(t *testing.T) {
	env := newTestEnv(t)
	delivered := env.deliverOrder(t)

	completed, err := env.svc.Complete(context.Background(), env.buyer, delivered.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, completed.Status)
	require.NotNil(t, completed.PlatformFee)
	require.NotNil(t, completed.SellerEarnings)
	assert.Equal(t, "10.00", completed.PlatformFee.StringFixed(2))
	assert.Equal(t, "90.00", completed.SellerEarnings.StringFixed(2))
	require.NotNil(t, completed.Dates.Completed)
}

func TestCompleteRequiresBuyer(t *testing.T) {
	env := newTestEnv(t)
	delivered := env.deliverOrder(t)

	_, err := env.svc.Complete(context.Background(), env.seller, delivered.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestTerminalOrderRejectsFurtherTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	delivered := env.deliverOrder(t)

	_, err := env.svc.Complete(ctx, env.buyer, delivered.ID)
	require.NoError(t, err)

	_, err = env.svc.Complete(ctx, env.buyer, delivered.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = env.svc.Cancel(ctx, env.buyer, delivered.ID, &model.CancelOrderRequest{Reason: "changed my mind"})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCancelRejectedAfterDelivery(t *testing.T) {
	env := newTestEnv(t)
	delivered := env.deliverOrder(t)

	_, err := env.svc.Cancel(context.Background(), env.buyer, delivered.ID, &model.CancelOrderRequest{
		Reason: "no longer needed",
	})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

// =====================================================
// REVISION LOOP
// =====================================================

func TestRevisionLoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	delivered := env.deliverOrder(t)

	revised, err := env.svc.RequestRevision(ctx, env.buyer, delivered.ID, &model.RequestRevisionRequest{
		Reason: "please use a darker blue",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRevisionRequested, revised.Status)
	assert.Equal(t, 1, revised.RevisionsUsed)

	// asking again right away reports the exhausted allowance, not the status
	_, err = env.svc.RequestRevision(ctx, env.buyer, delivered.ID, &model.RequestRevisionRequest{
		Reason: "and a lighter font",
	})
	assert.ErrorIs(t, err, model.ErrRevisionLimitExceeded)

	// redelivery lands in revision_delivered and closes the pending request
	redelivered, err := env.svc.Deliver(ctx, env.seller, delivered.ID, &model.DeliverRequest{
		Deliverables: []model.DeliverableInput{
			{FileName: "logo-v2.png", FileURL: "https://files.example.com/logo-v2.png"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRevisionDelivered, redelivered.Status)

	revisions, err := env.repo.ListRevisions(ctx, delivered.ID)
	require.NoError(t, err)
	require.Len(t, revisions, 1)
	assert.Equal(t, model.RevisionStatusDelivered, revisions[0].Status)

	// the basic package allows one revision
	_, err = env.svc.RequestRevision(ctx, env.buyer, delivered.ID, &model.RequestRevisionRequest{
		Reason: "one more tweak please",
	})
	assert.ErrorIs(t, err, model.ErrRevisionLimitExceeded)

	// the buyer can still approve
	completed, err := env.svc.Complete(ctx, env.buyer, delivered.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
}

func TestRequestRevisionRequiresBuyer(t *testing.T) {
	env := newTestEnv(t)
	delivered := env.deliverOrder(t)

	_, err := env.svc.RequestRevision(context.Background(), env.seller, delivered.ID, &model.RequestRevisionRequest{
		Reason: "self-requested revision",
	})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

// =====================================================
// DISPUTES
// =====================================================

func TestDisputeResolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	delivered := env.deliverOrder(t)

	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}

	_, err := env.svc.Dispute(ctx, env.buyer, delivered.ID, &model.DisputeOrderRequest{
		Reason: "deliverable does not match the brief",
	})
	require.NoError(t, err)

	// only an admin may resolve
	_, err = env.svc.ResolveDispute(ctx, env.buyer, delivered.ID, &model.ResolveDisputeRequest{
		Outcome: model.DisputeOutcomeRefunded,
	})
	assert.ErrorIs(t, err, model.ErrForbidden)

	resolved, err := env.svc.ResolveDispute(ctx, admin, delivered.ID, &model.ResolveDisputeRequest{
		Outcome: model.DisputeOutcomeCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, resolved.Status)
	require.NotNil(t, resolved.SellerEarnings)
	assert.Equal(t, "90.00", resolved.SellerEarnings.StringFixed(2))
}

func TestDisputeResolvedAsRefund(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	delivered := env.deliverOrder(t)

	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}

	_, err := env.svc.Dispute(ctx, env.seller, delivered.ID, &model.DisputeOrderRequest{
		Reason: "buyer is unresponsive after delivery",
	})
	require.NoError(t, err)

	resolved, err := env.svc.ResolveDispute(ctx, admin, delivered.ID, &model.ResolveDisputeRequest{
		Outcome: model.DisputeOutcomeRefunded,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRefunded, resolved.Status)
	assert.Nil(t, resolved.SellerEarnings)
	require.NotNil(t, resolved.Dates.Cancelled)
}

// =====================================================
// AUTO-COMPLETE SWEEP
// =====================================================

func TestAutoCompleteDelivered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stale := env.deliverOrder(t)
	fresh := env.deliverOrder(t)

	// backdate the stale delivery past the approval window
	old := testNow.Add(-4 * 24 * time.Hour)
	env.repo.mu.Lock()
	env.repo.orders[stale.ID].Dates.Delivered = &old
	env.repo.mu.Unlock()

	count, err := env.svc.AutoCompleteDelivered(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	completed, err := env.repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	require.NotNil(t, completed.SellerEarnings)
	assert.Equal(t, "90.00", completed.SellerEarnings.StringFixed(2))

	// the system actor leaves no changed_by on the history row
	history, err := env.repo.ListStatusHistory(ctx, stale.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Nil(t, history[len(history)-1].ChangedBy)

	untouched, err := env.repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, untouched.Status)
}

func TestAutoCompleteSkipsLostRaces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := env.deliverOrder(t)
	old := testNow.Add(-4 * 24 * time.Hour)
	env.repo.mu.Lock()
	env.repo.orders[order.ID].Dates.Delivered = &old
	env.repo.mu.Unlock()

	// buyer requests a revision between the sweep's read and write
	raced := newRacingRepository(env.repo, order.ID)
	env.svc.orderRepo = raced

	count, err := env.svc.AutoCompleteDelivered(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// racingRepository flips the order into the revision loop after the
// sweep has already listed it, simulating a concurrent buyer action.
type racingRepository struct {
	*fakeOrderRepository
	raceOn uuid.UUID
}

func newRacingRepository(inner *fakeOrderRepository, raceOn uuid.UUID) *racingRepository {
	return &racingRepository{fakeOrderRepository: inner, raceOn: raceOn}
}

func (r *racingRepository) ListAutoCompletable(ctx context.Context, deliveredBefore time.Time, limit int) ([]*model.Order, error) {
	orders, err := r.fakeOrderRepository.ListAutoCompletable(ctx, deliveredBefore, limit)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.orders[r.raceOn].Status = model.StatusRevisionRequested
	r.mu.Unlock()
	return orders, nil
}

// =====================================================
// EARNINGS
// =====================================================

func TestEarningsVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	delivered := env.deliverOrder(t)
	_, err := env.svc.Complete(ctx, env.buyer, delivered.ID)
	require.NoError(t, err)

	_, err = env.svc.Earnings(ctx, env.buyer, env.seller.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	summary, err := env.svc.Earnings(ctx, env.seller, env.seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CompletedOrders)
	assert.Equal(t, "90.00", summary.TotalEarnings.StringFixed(2))
	assert.Equal(t, "10.00", summary.TotalFees.StringFixed(2))
}
