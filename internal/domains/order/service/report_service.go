package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/domains/order/repository"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// EARNINGS REPORT SERVICE
// =====================================================

// ReportService builds downloadable earnings statements for sellers
type ReportService interface {
	ExportEarnings(ctx context.Context, actor shared.Actor, sellerID uuid.UUID, from, to time.Time) ([]byte, string, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

const earningsSheet = "Earnings"

// ExportEarnings renders the seller's completed orders in a period as an
// xlsx statement with a totals row.
func (s *reportService) ExportEarnings(ctx context.Context, actor shared.Actor, sellerID uuid.UUID, from, to time.Time) ([]byte, string, error) {
	if actor.ID != sellerID && !actor.IsAdmin() {
		return nil, "", model.NewForbiddenError("earnings are only visible to the seller")
	}

	orders, err := s.orderRepo.ListCompletedBySeller(ctx, sellerID, from, to)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(earningsSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Order Number", "Completed At", "Subtotal", "Platform Fee", "Earnings", "Currency"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(earningsSheet, cell, header)
	}

	totalFees := decimal.Zero
	totalEarnings := decimal.Zero

	for row, order := range orders {
		completedAt := ""
		if order.Dates.Completed != nil {
			completedAt = order.Dates.Completed.Format("2006-01-02")
		}

		values := []interface{}{
			order.OrderNumber,
			completedAt,
			order.Subtotal.StringFixed(2),
			"",
			"",
			order.Currency,
		}
		if order.PlatformFee != nil {
			values[3] = order.PlatformFee.StringFixed(2)
			totalFees = totalFees.Add(*order.PlatformFee)
		}
		if order.SellerEarnings != nil {
			values[4] = order.SellerEarnings.StringFixed(2)
			totalEarnings = totalEarnings.Add(*order.SellerEarnings)
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(earningsSheet, cell, value)
		}
	}

	totalRow := len(orders) + 3
	f.SetCellValue(earningsSheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(earningsSheet, fmt.Sprintf("D%d", totalRow), totalFees.StringFixed(2))
	f.SetCellValue(earningsSheet, fmt.Sprintf("E%d", totalRow), totalEarnings.StringFixed(2))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write report: %w", err)
	}

	filename := fmt.Sprintf("earnings_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))

	logger.Info("earnings report generated", map[string]interface{}{
		"seller_id": sellerID,
		"orders":    len(orders),
	})

	return buf.Bytes(), filename, nil
}
