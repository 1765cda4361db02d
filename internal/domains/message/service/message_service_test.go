package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket-backend/internal/domains/message/model"
	ordermodel "gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

type fakeMessageRepository struct {
	messages []*model.Message
}

func (f *fakeMessageRepository) Create(_ context.Context, message *model.Message) error {
	cp := *message
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessageRepository) ListByOrder(_ context.Context, orderID uuid.UUID, _, _ int) ([]*model.Message, int, error) {
	var out []*model.Message
	for _, m := range f.messages {
		if m.OrderID == orderID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeMessageRepository) MarkRead(_ context.Context, orderID, recipientID uuid.UUID, readAt time.Time) (int, error) {
	marked := 0
	for _, m := range f.messages {
		if m.OrderID == orderID && m.RecipientID == recipientID && m.ReadAt == nil {
			at := readAt
			m.ReadAt = &at
			marked++
		}
	}
	return marked, nil
}

func (f *fakeMessageRepository) CountUnread(_ context.Context, recipientID uuid.UUID) (int, error) {
	count := 0
	for _, m := range f.messages {
		if m.RecipientID == recipientID && m.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

type stubOrderReader struct {
	order *ordermodel.Order
}

func (s *stubOrderReader) GetByID(_ context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, ordermodel.ErrOrderNotFound
	}
	return s.order, nil
}

// =====================================================
// TESTS
// =====================================================

func newMessageTestEnv() (MessageService, *fakeMessageRepository, *ordermodel.Order, shared.Actor, shared.Actor) {
	buyer := shared.Actor{ID: uuid.New(), Role: shared.RoleBuyer}
	seller := shared.Actor{ID: uuid.New(), Role: shared.RoleSeller}

	order := &ordermodel.Order{
		ID:       uuid.New(),
		BuyerID:  buyer.ID,
		SellerID: seller.ID,
		Status:   ordermodel.StatusInProgress,
	}

	repo := &fakeMessageRepository{}
	svc := NewMessageService(repo, &stubOrderReader{order: order})
	return svc, repo, order, buyer, seller
}

func TestSendRoutesToOtherParty(t *testing.T) {
	svc, _, order, buyer, seller := newMessageTestEnv()
	ctx := context.Background()

	fromBuyer, err := svc.Send(ctx, buyer, order.ID, &model.SendMessageRequest{Body: "how is it going?"})
	require.NoError(t, err)
	assert.Equal(t, seller.ID, fromBuyer.RecipientID)

	fromSeller, err := svc.Send(ctx, seller, order.ID, &model.SendMessageRequest{Body: "first draft tomorrow"})
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, fromSeller.RecipientID)
}

func TestSendRejectsOutsiders(t *testing.T) {
	svc, _, order, _, _ := newMessageTestEnv()

	outsider := shared.Actor{ID: uuid.New(), Role: shared.RoleBuyer}
	_, err := svc.Send(context.Background(), outsider, order.ID, &model.SendMessageRequest{Body: "let me in"})
	assert.ErrorIs(t, err, model.ErrMessageForbidden)
}

func TestListVisibleToParticipantsAndAdmin(t *testing.T) {
	svc, _, order, buyer, seller := newMessageTestEnv()
	ctx := context.Background()

	_, err := svc.Send(ctx, buyer, order.ID, &model.SendMessageRequest{Body: "any update on the logo?"})
	require.NoError(t, err)

	messages, total, err := svc.List(ctx, seller, order.ID, &model.ListMessagesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, messages, 1)

	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
	_, _, err = svc.List(ctx, admin, order.ID, &model.ListMessagesRequest{})
	require.NoError(t, err)

	outsider := shared.Actor{ID: uuid.New(), Role: shared.RoleBuyer}
	_, _, err = svc.List(ctx, outsider, order.ID, &model.ListMessagesRequest{})
	assert.ErrorIs(t, err, model.ErrMessageForbidden)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	svc, _, order, buyer, seller := newMessageTestEnv()
	ctx := context.Background()

	_, err := svc.Send(ctx, buyer, order.ID, &model.SendMessageRequest{Body: "question about colors"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, buyer, order.ID, &model.SendMessageRequest{Body: "and one about fonts"})
	require.NoError(t, err)

	unread, err := svc.UnreadCount(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	marked, err := svc.MarkRead(ctx, seller, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	unread, err = svc.UnreadCount(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	// marking again is a no-op
	marked, err = svc.MarkRead(ctx, seller, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)
}
