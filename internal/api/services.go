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

// ServicesService covers /services/services/.
type ServicesService struct {
	c *Client
}

func (s *ServicesService) List(ctx context.Context, query url.Values) ([]core.Service, error) {
	return getList[core.Service](ctx, s.c, "/services/services/", query)
}

func (s *ServicesService) Get(ctx context.Context, id int) (*core.Service, error) {
	var svc core.Service
	if err := s.c.get(ctx, "/services/services/"+strconv.Itoa(id)+"/", nil, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// UpdatePricing patches a service's price.
func (s *ServicesService) UpdatePricing(ctx context.Context, id int, price decimal.Decimal) (*core.Service, error) {
	body := map[string]any{"price": json.Number(price.String())}
	var svc core.Service
	if err := s.c.send(ctx, http.MethodPatch, "/services/services/"+strconv.Itoa(id)+"/pricing/", body, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}
