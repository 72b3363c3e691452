package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"tailor-console/internal/core"
)

// CustomersService covers /crm/customers/.
type CustomersService struct {
	c *Client
}

func (s *CustomersService) List(ctx context.Context, query url.Values) ([]core.Customer, error) {
	return getList[core.Customer](ctx, s.c, "/crm/customers/", query)
}

// Active lists customers that can take new job orders.
func (s *CustomersService) Active(ctx context.Context) ([]core.Customer, error) {
	return getList[core.Customer](ctx, s.c, "/crm/customers/active/", nil)
}

func (s *CustomersService) Search(ctx context.Context, query string) ([]core.Customer, error) {
	q := url.Values{}
	q.Set("q", query)
	return getList[core.Customer](ctx, s.c, "/crm/customers/search/", q)
}

func (s *CustomersService) Get(ctx context.Context, id int) (*core.Customer, error) {
	var cu core.Customer
	if err := s.c.get(ctx, "/crm/customers/"+strconv.Itoa(id)+"/", nil, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

// CreateCustomerRequest shapes POST /crm/customers/.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (s *CustomersService) Create(ctx context.Context, req CreateCustomerRequest) (*core.Customer, error) {
	var cu core.Customer
	if err := s.c.send(ctx, http.MethodPost, "/crm/customers/", req, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

func (s *CustomersService) Update(ctx context.Context, id int, req CreateCustomerRequest) (*core.Customer, error) {
	var cu core.Customer
	if err := s.c.send(ctx, http.MethodPut, "/crm/customers/"+strconv.Itoa(id)+"/", req, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

func (s *CustomersService) ToggleStatus(ctx context.Context, id int) (*core.Customer, error) {
	var cu core.Customer
	if err := s.c.send(ctx, http.MethodPatch, "/crm/customers/"+strconv.Itoa(id)+"/toggle_status/", nil, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}
