package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to accepted", StatusPending, StatusAccepted, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"accepted to in_progress", StatusAccepted, StatusInProgress, true},
		{"accepted to delivered", StatusAccepted, StatusDelivered, true},
		{"in_progress to delivered", StatusInProgress, StatusDelivered, true},
		{"in_progress to completed", StatusInProgress, StatusCompleted, false},
		{"delivered to revision_requested", StatusDelivered, StatusRevisionRequested, true},
		{"delivered to completed", StatusDelivered, StatusCompleted, true},
		{"delivered to cancelled", StatusDelivered, StatusCancelled, false},
		{"revision_requested to revision_delivered", StatusRevisionRequested, StatusRevisionDelivered, true},
		{"revision_requested to cancelled", StatusRevisionRequested, StatusCancelled, true},
		{"revision_delivered to revision_requested", StatusRevisionDelivered, StatusRevisionRequested, true},
		{"revision_delivered to completed", StatusRevisionDelivered, StatusCompleted, true},
		{"disputed to completed", StatusDisputed, StatusCompleted, true},
		{"disputed to refunded", StatusDisputed, StatusRefunded, true},
		{"disputed to delivered", StatusDisputed, StatusDelivered, false},
		{"completed is terminal", StatusCompleted, StatusDisputed, false},
		{"cancelled is terminal", StatusCancelled, StatusAccepted, false},
		{"refunded is terminal", StatusRefunded, StatusCompleted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := &Order{Status: tc.from}
			assert.Equal(t, tc.allowed, order.CanTransitionTo(tc.to))
		})
	}
}

func TestDisputeReachableFromAllNonTerminalStates(t *testing.T) {
	nonTerminal := []Status{
		StatusPending, StatusAccepted, StatusInProgress, StatusDelivered,
		StatusRevisionRequested, StatusRevisionDelivered,
	}
	for _, from := range nonTerminal {
		order := &Order{Status: from}
		assert.True(t, order.CanTransitionTo(StatusDisputed), "dispute should be allowed from %s", from)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusDisputed.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
}

func TestComputeEarnings(t *testing.T) {
	cases := []struct {
		subtotal string
		fee      string
		earnings string
	}{
		{"100.00", "10.00", "90.00"},
		{"49.99", "5.00", "44.99"},
		{"0.05", "0.01", "0.04"},
		{"1234.55", "123.46", "1111.09"},
	}

	for _, tc := range cases {
		subtotal := decimal.RequireFromString(tc.subtotal)
		fee, earnings := ComputeEarnings(subtotal)

		assert.Equal(t, tc.fee, fee.StringFixed(2), "fee for %s", tc.subtotal)
		assert.Equal(t, tc.earnings, earnings.StringFixed(2), "earnings for %s", tc.subtotal)
		assert.True(t, fee.Add(earnings).Equal(subtotal), "split of %s must be exact", tc.subtotal)
	}
}

func TestHasRevisionsLeft(t *testing.T) {
	order := &Order{Package: PackageSnapshot{Revisions: 1}}

	assert.True(t, order.HasRevisionsLeft())
	order.RevisionsUsed = 1
	assert.False(t, order.HasRevisionsLeft())
}

func TestDueDateFor(t *testing.T) {
	accepted := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	order := &Order{Package: PackageSnapshot{DeliveryDays: 3}}

	due := order.DueDateFor(accepted)
	assert.Equal(t, time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC), due)
}
