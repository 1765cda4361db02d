package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gigmarket-backend/internal/domains/message/model"
	"gigmarket-backend/internal/domains/message/repository"
	ordermodel "gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/shared"
)

// =====================================================
// MESSAGE SERVICE
// =====================================================

// OrderReader resolves the conversation's participants
type OrderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)
}

type MessageService interface {
	Send(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.SendMessageRequest) (*model.Message, error)
	List(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.ListMessagesRequest) ([]*model.Message, int, error)
	MarkRead(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (int, error)
	UnreadCount(ctx context.Context, actor shared.Actor) (int, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	orders      OrderReader
	now         func() time.Time
}

func NewMessageService(messageRepo repository.MessageRepository, orders OrderReader) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		orders:      orders,
		now:         time.Now,
	}
}

func (s *messageService) Send(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.SendMessageRequest) (*model.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var recipient uuid.UUID
	switch actor.ID {
	case order.BuyerID:
		recipient = order.SellerID
	case order.SellerID:
		recipient = order.BuyerID
	default:
		return nil, model.ErrMessageForbidden
	}

	message := &model.Message{
		ID:          uuid.New(),
		OrderID:     orderID,
		SenderID:    actor.ID,
		RecipientID: recipient,
		Body:        req.Body,
		CreatedAt:   s.now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) List(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.ListMessagesRequest) ([]*model.Message, int, error) {
	req.Normalize()

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, 0, err
	}
	if actor.ID != order.BuyerID && actor.ID != order.SellerID && !actor.IsAdmin() {
		return nil, 0, model.ErrMessageForbidden
	}

	return s.messageRepo.ListByOrder(ctx, orderID, req.Page, req.Limit)
}

func (s *messageService) MarkRead(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (int, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if actor.ID != order.BuyerID && actor.ID != order.SellerID {
		return 0, model.ErrMessageForbidden
	}

	return s.messageRepo.MarkRead(ctx, orderID, actor.ID, s.now())
}

func (s *messageService) UnreadCount(ctx context.Context, actor shared.Actor) (int, error) {
	return s.messageRepo.CountUnread(ctx, actor.ID)
}
