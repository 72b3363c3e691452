package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"tailor-console/internal/core"

	"github.com/shopspring/decimal"
)

// SalesService covers /sales/.
type SalesService struct {
	c *Client
}

func (s *SalesService) List(ctx context.Context, query url.Values) ([]core.Sale, error) {
	return getList[core.Sale](ctx, s.c, "/sales/", query)
}

func (s *SalesService) Get(ctx context.Context, id int) (*core.Sale, error) {
	var sale core.Sale
	if err := s.c.get(ctx, "/sales/"+strconv.Itoa(id)+"/", nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// AddItem appends a line item to an open sale.
func (s *SalesService) AddItem(ctx context.Context, id, item, quantity int, price decimal.Decimal) (*core.Sale, error) {
	body := map[string]any{
		"item":     item,
		"quantity": quantity,
		"price":    json.Number(price.String()),
	}
	var sale core.Sale
	if err := s.c.send(ctx, http.MethodPost, "/sales/"+strconv.Itoa(id)+"/add_item/", body, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *SalesService) MarkCompleted(ctx context.Context, id int) (*core.Sale, error) {
	var sale core.Sale
	if err := s.c.send(ctx, http.MethodPost, "/sales/"+strconv.Itoa(id)+"/mark_completed/", nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *SalesService) MarkCancelled(ctx context.Context, id int) (*core.Sale, error) {
	var sale core.Sale
	if err := s.c.send(ctx, http.MethodPost, "/sales/"+strconv.Itoa(id)+"/mark_cancelled/", nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// ByDateRange lists sales inside an inclusive date range.
func (s *SalesService) ByDateRange(ctx context.Context, start, end string) ([]core.Sale, error) {
	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	return getList[core.Sale](ctx, s.c, "/sales/by_date_range/", q)
}
