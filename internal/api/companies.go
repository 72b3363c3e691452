package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"tailor-console/internal/core"
)

// CompaniesService covers /master/company-details/. The set_default
// action can fail with a conflict when another company is already the
// default; callers detect that via Error.IsConflict.
type CompaniesService struct {
	c *Client
}

func (s *CompaniesService) List(ctx context.Context, query url.Values) ([]core.Company, error) {
	return getList[core.Company](ctx, s.c, "/master/company-details/", query)
}

func (s *CompaniesService) Get(ctx context.Context, id int) (*core.Company, error) {
	var co core.Company
	if err := s.c.get(ctx, "/master/company-details/"+strconv.Itoa(id)+"/", nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

// Default returns the default company, used for print headers.
func (s *CompaniesService) Default(ctx context.Context) (*core.Company, error) {
	var co core.Company
	if err := s.c.get(ctx, "/master/company-details/default/", nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (s *CompaniesService) SetDefault(ctx context.Context, id int) (*core.Company, error) {
	var co core.Company
	if err := s.c.send(ctx, http.MethodPatch, "/master/company-details/"+strconv.Itoa(id)+"/set_default/", nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (s *CompaniesService) ToggleStatus(ctx context.Context, id int) (*core.Company, error) {
	var co core.Company
	if err := s.c.send(ctx, http.MethodPatch, "/master/company-details/"+strconv.Itoa(id)+"/toggle_status/", nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}
