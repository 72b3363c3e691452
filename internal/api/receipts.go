package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tailor-console/internal/core"

	"github.com/shopspring/decimal"
)

// ReceiptsService covers /receipts/.
type ReceiptsService struct {
	c *Client
}

func (s *ReceiptsService) List(ctx context.Context, query url.Values) ([]core.Receipt, error) {
	return getList[core.Receipt](ctx, s.c, "/receipts/", query)
}

func (s *ReceiptsService) Get(ctx context.Context, id int) (*core.Receipt, error) {
	var r core.Receipt
	if err := s.c.get(ctx, "/receipts/"+strconv.Itoa(id)+"/", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReceiptRequest shapes POST /receipts/.
type CreateReceiptRequest struct {
	ReceiptDate   time.Time       `json:"receipt_date"`
	ReceiptAmount decimal.Decimal `json:"receipt_amount"`
	Remarks       string          `json:"receipt_remarks,omitempty"`
	JobOrder      int             `json:"job_order"`
}

func (s *ReceiptsService) Create(ctx context.Context, req CreateReceiptRequest) (*core.Receipt, error) {
	var r core.Receipt
	if err := s.c.send(ctx, http.MethodPost, "/receipts/", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Today lists receipts recorded today.
func (s *ReceiptsService) Today(ctx context.Context) ([]core.Receipt, error) {
	return getList[core.Receipt](ctx, s.c, "/receipts/today/", nil)
}

// ByJobOrder lists receipts attached to one job order.
func (s *ReceiptsService) ByJobOrder(ctx context.Context, jobOrderID int) ([]core.Receipt, error) {
	return getList[core.Receipt](ctx, s.c, "/receipts/by-job-order/"+strconv.Itoa(jobOrderID)+"/", nil)
}

// Summary returns aggregate receipt figures for a date range.
type ReceiptSummary struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (s *ReceiptsService) Summary(ctx context.Context, from, to time.Time) (*ReceiptSummary, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from_date", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q.Set("to_date", to.Format("2006-01-02"))
	}
	var sum ReceiptSummary
	if err := s.c.get(ctx, "/receipts/summary/", q, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// ToggleStatus flips the receipt's active flag.
func (s *ReceiptsService) ToggleStatus(ctx context.Context, id int) (*core.Receipt, error) {
	var r core.Receipt
	if err := s.c.send(ctx, http.MethodPatch, "/receipts/"+strconv.Itoa(id)+"/toggle_status/", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
