package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	gigmodel "gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/domains/order/repository"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/internal/shared/utils"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type orderService struct {
	orderRepo repository.OrderRepository
	gigs      GigReader

	autoCompleteAfter time.Duration
	now               func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, gigs GigReader, autoCompleteAfter time.Duration) OrderService {
	return &orderService{
		orderRepo:         orderRepo,
		gigs:              gigs,
		autoCompleteAfter: autoCompleteAfter,
		now:               time.Now,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *orderService) Create(ctx context.Context, actor shared.Actor, req *model.CreateOrderRequest) (*model.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, err.Error(), err)
	}

	gig, err := s.gigs.GetByID(ctx, req.GigID)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeGigNotFound, "gig not found", model.ErrGigNotFound)
	}
	if gig.SellerID == actor.ID {
		return nil, model.NewForbiddenError("sellers cannot order their own gig")
	}
	if !gig.IsOrderable() {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "gig is not accepting orders", gigmodel.ErrGigNotOrderable)
	}

	pkg, ok := gig.PackageFor(req.PackageTier)
	if !ok {
		return nil, model.NewOrderError(model.ErrCodeInvalidPackageTier, "gig does not offer this package tier", model.ErrInvalidPackageTier)
	}

	now := s.now()
	order := &model.Order{
		ID:          uuid.New(),
		OrderNumber: utils.GenerateOrderNumber(now),
		BuyerID:     actor.ID,
		SellerID:    gig.SellerID,
		GigID:       gig.ID,
		PackageTier: pkg.Tier,
		Package: model.PackageSnapshot{
			Title:        pkg.Title,
			Price:        pkg.Price,
			DeliveryDays: pkg.DeliveryDays,
			Revisions:    pkg.Revisions,
		},
		Subtotal:     pkg.Price,
		Total:        pkg.Price,
		Currency:     model.DefaultCurrency,
		Status:       model.StatusPending,
		Dates:        model.OrderDates{Ordered: now},
		Requirements: req.Requirements,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		logger.Error("failed to create order", err)
		return nil, err
	}

	logger.Info("order created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"gig_id":       order.GigID,
		"buyer_id":     order.BuyerID,
	})

	resp := order.ToResponse()
	return &resp, nil
}

// =====================================================
// READS
// =====================================================

func (s *orderService) Get(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.OrderDetailResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(actor, order); err != nil {
		return nil, err
	}

	deliverables, err := s.orderRepo.ListDeliverables(ctx, orderID)
	if err != nil {
		return nil, err
	}
	revisions, err := s.orderRepo.ListRevisions(ctx, orderID)
	if err != nil {
		return nil, err
	}
	cancellation, err := s.orderRepo.GetCancellation(ctx, orderID)
	if err != nil {
		return nil, err
	}
	dispute, err := s.orderRepo.GetDispute(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &model.OrderDetailResponse{
		OrderResponse: order.ToResponse(),
		Deliverables:  deliverables,
		Revisions:     revisions,
		Cancellation:  cancellation,
		Dispute:       dispute,
	}, nil
}

func (s *orderService) ListForBuyer(ctx context.Context, actor shared.Actor, req *model.ListOrdersRequest) ([]model.OrderResponse, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewOrderError(model.ErrCodeInvalidOrder, err.Error(), err)
	}
	orders, total, err := s.orderRepo.ListByBuyer(ctx, actor.ID, req.Status, req.Page, req.Limit)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(orders), total, nil
}

func (s *orderService) ListForSeller(ctx context.Context, actor shared.Actor, req *model.ListOrdersRequest) ([]model.OrderResponse, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewOrderError(model.ErrCodeInvalidOrder, err.Error(), err)
	}
	orders, total, err := s.orderRepo.ListBySeller(ctx, actor.ID, req.Status, req.Page, req.Limit)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(orders), total, nil
}

func (s *orderService) StatusHistory(ctx context.Context, actor shared.Actor, orderID uuid.UUID) ([]model.OrderStatusHistory, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(actor, order); err != nil {
		return nil, err
	}
	return s.orderRepo.ListStatusHistory(ctx, orderID)
}

// =====================================================
// LIFECYCLE TRANSITIONS
// =====================================================

func (s *orderService) Accept(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != actor.ID {
		return nil, model.NewForbiddenError("only the seller can accept an order")
	}
	if !order.CanTransitionTo(model.StatusAccepted) {
		return nil, model.NewInvalidTransitionError(order.Status, model.StatusAccepted)
	}

	now := s.now()
	due := order.DueDateFor(now)

	return s.apply(ctx, repository.TransitionUpdate{
		OrderID:    order.ID,
		From:       order.Status,
		To:         model.StatusAccepted,
		ChangedBy:  changedBy(actor),
		AcceptedAt: &now,
		DueAt:      &due,
	})
}

func (s *orderService) Start(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != actor.ID {
		return nil, model.NewForbiddenError("only the seller can start work on an order")
	}
	if !order.CanTransitionTo(model.StatusInProgress) {
		return nil, model.NewInvalidTransitionError(order.Status, model.StatusInProgress)
	}

	return s.apply(ctx, repository.TransitionUpdate{
		OrderID:   order.ID,
		From:      order.Status,
		To:        model.StatusInProgress,
		ChangedBy: changedBy(actor),
	})
}

func (s *orderService) Deliver(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.DeliverRequest) (*model.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, err.Error(), err)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != actor.ID {
		return nil, model.NewForbiddenError("only the seller can deliver an order")
	}

	// A delivery from the revision loop lands in revision_delivered,
	// everything else in delivered.
	target := model.StatusDelivered
	redelivery := order.Status == model.StatusRevisionRequested
	if redelivery {
		target = model.StatusRevisionDelivered
	}
	if !order.CanTransitionTo(target) {
		return nil, model.NewInvalidTransitionError(order.Status, target)
	}

	now := s.now()
	deliverables := make([]model.Deliverable, 0, len(req.Deliverables))
	for _, d := range req.Deliverables {
		message := d.Message
		if message == nil {
			message = req.Message
		}
		deliverables = append(deliverables, model.Deliverable{
			ID:          uuid.New(),
			OrderID:     order.ID,
			FileName:    d.FileName,
			FileURL:     d.FileURL,
			Message:     message,
			DeliveredAt: now,
		})
	}

	return s.apply(ctx, repository.TransitionUpdate{
		OrderID:                order.ID,
		From:                   order.Status,
		To:                     target,
		ChangedBy:              changedBy(actor),
		Notes:                  req.Message,
		DeliveredAt:            &now,
		Deliverables:           deliverables,
		MarkRevisionsDelivered: redelivery,
	})
}

func (s *orderService) RequestRevision(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.RequestRevisionRequest) (*model.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, err.Error(), err)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.ID {
		return nil, model.NewForbiddenError("only the buyer can request a revision")
	}
	// exhausted allowance wins over the transition check so a repeat
	// request reports the limit, not the current status
	if !order.HasRevisionsLeft() {
		return nil, model.NewRevisionLimitError(order.RevisionsUsed+1, order.Package.Revisions)
	}
	if !order.CanTransitionTo(model.StatusRevisionRequested) {
		return nil, model.NewInvalidTransitionError(order.Status, model.StatusRevisionRequested)
	}

	now := s.now()
	revision := &model.RevisionRequest{
		ID:          uuid.New(),
		OrderID:     order.ID,
		RequestedBy: actor.ID,
		Reason:      req.Reason,
		Details:     req.Details,
		Status:      model.RevisionStatusPending,
		RequestedAt: now,
	}

	return s.apply(ctx, repository.TransitionUpdate{
		OrderID:            order.ID,
		From:               order.Status,
		To:                 model.StatusRevisionRequested,
		ChangedBy:          changedBy(actor),
		Notes:              &req.Reason,
		IncrementRevisions: true,
		Revision:           revision,
	})
}

func (s *orderService) Complete(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.ID && !actor.IsSystem() {
		return nil, model.NewForbiddenError("only the buyer can approve a delivery")
	}
	return s.complete(ctx, actor, order, nil)
}

func (s *orderService) complete(ctx context.Context, actor shared.Actor, order *model.Order, notes *string) (*model.OrderResponse, error) {
	if !order.CanTransitionTo(model.StatusCompleted) {
		return nil, model.NewInvalidTransitionError(order.Status, model.StatusCompleted)
	}

	now := s.now()
	fee, earnings := model.ComputeEarnings(order.Subtotal)

	return s.apply(ctx, repository.TransitionUpdate{
		OrderID:        order.ID,
		From:           order.Status,
		To:             model.StatusCompleted,
		ChangedBy:      changedBy(actor),
		Notes:          notes,
		CompletedAt:    &now,
		PlatformFee:    &fee,
		SellerEarnings: &earnings,
	})
}

func (s *orderService) Cancel(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, err.Error(), err)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(actor, order, "only the buyer or seller can cancel an order"); err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(model.StatusCancelled) {
		return nil, model.NewInvalidTransitionError(order.Status, model.StatusCancelled)
	}

	now := s.now()
	return s.apply(ctx, repository.TransitionUpdate{
		OrderID:     order.ID,
		From:        order.Status,
		To:          model.StatusCancelled,
		ChangedBy:   changedBy(actor),
		Notes:       &req.Reason,
		CancelledAt: &now,
		Cancellation: &model.Cancellation{
			OrderID:     order.ID,
			RequestedBy: actor.ID,
			Reason:      req.Reason,
			RequestedAt: now,
		},
	})
}

func (s *orderService) Dispute(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.DisputeOrderRequest) (*model.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, err.Error(), err)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(actor, order, "only the buyer or seller can open a dispute"); err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(model.StatusDisputed) {
		return nil, model.NewInvalidTransitionError(order.Status, model.StatusDisputed)
	}

	now := s.now()
	return s.apply(ctx, repository.TransitionUpdate{
		OrderID:   order.ID,
		From:      order.Status,
		To:        model.StatusDisputed,
		ChangedBy: changedBy(actor),
		Notes:     &req.Reason,
		Dispute: &model.Dispute{
			OrderID:     order.ID,
			InitiatedBy: actor.ID,
			Reason:      req.Reason,
			Details:     req.Details,
			OpenedAt:    now,
		},
	})
}

func (s *orderService) ResolveDispute(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.ResolveDisputeRequest) (*model.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, err.Error(), err)
	}
	if !actor.IsAdmin() {
		return nil, model.NewForbiddenError("only an admin can resolve a dispute")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	target := model.Status(req.Outcome)
	if !order.CanTransitionTo(target) {
		return nil, model.NewInvalidTransitionError(order.Status, target)
	}

	now := s.now()
	update := repository.TransitionUpdate{
		OrderID:   order.ID,
		From:      order.Status,
		To:        target,
		ChangedBy: changedBy(actor),
		Notes:     req.Note,
		Resolution: &repository.DisputeResolution{
			ResolvedBy: actor.ID,
			Outcome:    req.Outcome,
			Note:       req.Note,
			ResolvedAt: now,
		},
	}

	switch target {
	case model.StatusCompleted:
		fee, earnings := model.ComputeEarnings(order.Subtotal)
		update.CompletedAt = &now
		update.PlatformFee = &fee
		update.SellerEarnings = &earnings
	case model.StatusCancelled, model.StatusRefunded:
		update.CancelledAt = &now
	}

	return s.apply(ctx, update)
}

// =====================================================
// EARNINGS
// =====================================================

func (s *orderService) Earnings(ctx context.Context, actor shared.Actor, sellerID uuid.UUID) (*model.EarningsSummary, error) {
	if actor.ID != sellerID && !actor.IsAdmin() {
		return nil, model.NewForbiddenError("earnings are only visible to the seller")
	}
	return s.orderRepo.EarningsSummary(ctx, sellerID)
}

// =====================================================
// AUTO-COMPLETE SWEEP
// =====================================================

func (s *orderService) AutoCompleteDelivered(ctx context.Context, limit int) (int, error) {
	cutoff := s.now().Add(-s.autoCompleteAfter)

	orders, err := s.orderRepo.ListAutoCompletable(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	note := "auto-approved after the review window elapsed"
	completed := 0
	for _, order := range orders {
		if _, err := s.complete(ctx, shared.SystemActor(), order, &note); err != nil {
			// Losing the race to a buyer action is expected; anything
			// else is logged and the sweep moves on.
			logger.Warn("auto-complete skipped order", map[string]interface{}{
				"order_id": order.ID,
				"error":    err.Error(),
			})
			continue
		}
		completed++
	}

	if completed > 0 {
		logger.Info("auto-completed delivered orders", map[string]interface{}{
			"count": completed,
		})
	}
	return completed, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *orderService) apply(ctx context.Context, update repository.TransitionUpdate) (*model.OrderResponse, error) {
	order, err := s.orderRepo.ApplyTransition(ctx, update)
	if err != nil {
		return nil, err
	}

	logger.Info("order transitioned", map[string]interface{}{
		"order_id": order.ID,
		"from":     string(update.From),
		"to":       string(update.To),
	})

	resp := order.ToResponse()
	return &resp, nil
}

func requireParticipant(actor shared.Actor, order *model.Order) error {
	if actor.ID == order.BuyerID || actor.ID == order.SellerID || actor.IsAdmin() || actor.IsSystem() {
		return nil
	}
	return model.NewForbiddenError("order is only visible to its participants")
}

func requireParty(actor shared.Actor, order *model.Order, message string) error {
	if actor.ID == order.BuyerID || actor.ID == order.SellerID {
		return nil
	}
	return model.NewForbiddenError(message)
}

func changedBy(actor shared.Actor) *uuid.UUID {
	if actor.IsSystem() {
		return nil
	}
	id := actor.ID
	return &id
}

func toResponses(orders []*model.Order) []model.OrderResponse {
	responses := make([]model.OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, o.ToResponse())
	}
	return responses
}
