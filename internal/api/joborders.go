package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tailor-console/internal/core"

	"github.com/shopspring/decimal"
)

// BlockedFilter selects rows by their blocked flag.
type BlockedFilter string

const (
	BlockedAll  BlockedFilter = "all"
	BlockedOnly BlockedFilter = "blocked"
	Unblocked   BlockedFilter = "unblocked"
)

// DeliveryFilter shapes the query for GET /job-orders/deliveries/.
// "all" selections are expressed by omitting the parameter, which is
// how the backend skips the filter.
type DeliveryFilter struct {
	Status  core.DeliveryStatus // empty or "all" = every status
	Blocked BlockedFilter       // zero value defaults to Unblocked
	Search  string
	From    time.Time // date-only, inclusive
	To      time.Time // date-only, inclusive
}

func (f DeliveryFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" && f.Status != "all" {
		q.Set("status", string(f.Status))
	}
	blocked := f.Blocked
	if blocked == "" {
		blocked = Unblocked
	}
	switch blocked {
	case BlockedOnly:
		q.Set("is_blocked", "true")
	case Unblocked:
		q.Set("is_blocked", "false")
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if !f.From.IsZero() {
		q.Set("from_date", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		q.Set("to_date", f.To.Format("2006-01-02"))
	}
	return q
}

// JobOrdersService covers /job-orders/ and its delivery actions. All
// mutations are keyed by the backend numeric id, never the display id
// or job order number.
type JobOrdersService struct {
	c *Client
}

// Deliveries lists job orders through the delivery-date filtered view.
func (s *JobOrdersService) Deliveries(ctx context.Context, f DeliveryFilter) ([]core.DeliveryRow, error) {
	return getList[core.DeliveryRow](ctx, s.c, "/job-orders/deliveries/", f.query())
}

// Stats returns the status counts and money totals for the dashboard
// badges.
func (s *JobOrdersService) Stats(ctx context.Context) (*core.Stats, error) {
	var stats core.Stats
	if err := s.c.get(ctx, "/job-orders/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// UpdateDelivery submits the combined received-amount/status update.
// The amount goes on the wire as a JSON number, not a string. The
// backend recomputes the balance; the caller re-fetches rather than
// trusting any local arithmetic.
func (s *JobOrdersService) UpdateDelivery(ctx context.Context, id int, received decimal.Decimal, status core.DeliveryStatus) (*core.DeliveryRow, error) {
	body := map[string]any{
		"received_on_delivery_amount": json.Number(received.String()),
		"status":                      status,
	}
	var row core.DeliveryRow
	if err := s.c.send(ctx, http.MethodPost, s.path(id, "update_delivery/"), body, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateStatus changes only the workflow status.
func (s *JobOrdersService) UpdateStatus(ctx context.Context, id int, status core.DeliveryStatus) (*core.DeliveryRow, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	var row core.DeliveryRow
	if err := s.c.send(ctx, http.MethodPost, s.path(id, "update_status/"), map[string]any{"status": status}, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// ScheduleDelivery patches the delivery timestamp. Callers that edit
// only the date must merge it with the preserved time of day first
// (core.MergeDeliveryDate).
func (s *JobOrdersService) ScheduleDelivery(ctx context.Context, id int, when time.Time) (*core.DeliveryRow, error) {
	body := map[string]any{"delivery_date": when.Format(time.RFC3339)}
	var row core.DeliveryRow
	if err := s.c.send(ctx, http.MethodPatch, s.path(id, ""), body, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// ToggleBlock flips the blocked flag. Each call toggles, so callers
// re-fetch the row instead of flipping locally.
func (s *JobOrdersService) ToggleBlock(ctx context.Context, id int) (*core.DeliveryRow, error) {
	var row core.DeliveryRow
	if err := s.c.send(ctx, http.MethodPost, s.path(id, "toggle_block/"), nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// List fetches job orders through the unfiltered resource endpoint.
func (s *JobOrdersService) List(ctx context.Context, query url.Values) ([]core.JobOrder, error) {
	return getList[core.JobOrder](ctx, s.c, "/job-orders/job-orders/", query)
}

func (s *JobOrdersService) Get(ctx context.Context, id int) (*core.JobOrder, error) {
	var jo core.JobOrder
	if err := s.c.get(ctx, "/job-orders/job-orders/"+strconv.Itoa(id)+"/", nil, &jo); err != nil {
		return nil, err
	}
	return &jo, nil
}

// CreateJobOrderItem is one material line on a new job order.
type CreateJobOrderItem struct {
	MaterialName string      `json:"material_name"`
	Quantity     json.Number `json:"quantity"`
	Fees         json.Number `json:"fees"`
}

// CreateJobOrderRequest shapes POST /job-orders/job-orders/.
type CreateJobOrderRequest struct {
	CustomerID    string               `json:"customer_id"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	DeliveryDate  time.Time            `json:"delivery_date"`
	TotalAmount   json.Number          `json:"total_amount"`
	AdvanceAmount json.Number          `json:"advance_amount"`
	Remarks       string               `json:"remarks,omitempty"`
	Items         []CreateJobOrderItem `json:"job_order_items"`
}

func (s *JobOrdersService) Create(ctx context.Context, req CreateJobOrderRequest) (*core.JobOrder, error) {
	var jo core.JobOrder
	if err := s.c.send(ctx, http.MethodPost, "/job-orders/job-orders/", req, &jo); err != nil {
		return nil, err
	}
	return &jo, nil
}

// Recent returns the most recent job orders for the dashboard.
func (s *JobOrdersService) Recent(ctx context.Context, limit int) ([]core.JobOrder, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return getList[core.JobOrder](ctx, s.c, "/job-orders/recent/", q)
}

func (s *JobOrdersService) path(id int, action string) string {
	return "/job-orders/" + strconv.Itoa(id) + "/" + action
}
