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

// InventoryService covers /inventory/ items and /materials/ pricing.
type InventoryService struct {
	c *Client
}

func (s *InventoryService) Items(ctx context.Context, query url.Values) ([]core.InventoryItem, error) {
	return getList[core.InventoryItem](ctx, s.c, "/inventory/inventory/", query)
}

func (s *InventoryService) Item(ctx context.Context, id int) (*core.InventoryItem, error) {
	var it core.InventoryItem
	if err := s.c.get(ctx, "/inventory/inventory/"+strconv.Itoa(id)+"/", nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Adjust applies a signed stock adjustment to an item.
func (s *InventoryService) Adjust(ctx context.Context, id int, quantity decimal.Decimal, remarks string) (*core.InventoryItem, error) {
	body := map[string]any{
		"quantity": json.Number(quantity.String()),
		"remarks":  remarks,
	}
	var it core.InventoryItem
	if err := s.c.send(ctx, http.MethodPatch, "/inventory/inventory/"+strconv.Itoa(id)+"/adjust/", body, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *InventoryService) Categories(ctx context.Context) ([]core.Category, error) {
	return getList[core.Category](ctx, s.c, "/inventory/categories/", nil)
}

func (s *InventoryService) Materials(ctx context.Context, query url.Values) ([]core.Material, error) {
	return getList[core.Material](ctx, s.c, "/materials/materials/", query)
}

// UpdateMaterialPrice patches a material's unit price.
func (s *InventoryService) UpdateMaterialPrice(ctx context.Context, id int, price decimal.Decimal) (*core.Material, error) {
	body := map[string]any{"price": json.Number(price.String())}
	var m core.Material
	if err := s.c.send(ctx, http.MethodPatch, "/materials/materials/"+strconv.Itoa(id)+"/update_price/", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
