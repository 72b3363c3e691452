package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tailor-console/internal/api"
	"tailor-console/internal/core"
)

// capture records the last request hitting a canned-response handler.
type capture struct {
	method string
	path   string
	query  url.Values
	body   string
}

func captureServer(t *testing.T, status int, response string) (*api.Client, *capture) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.Query()
		c.body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	client := api.New(api.Config{BaseURL: srv.URL, Store: &api.MemoryTokenStore{}})
	return client, c
}

func TestDeliveryFilterEncoding(t *testing.T) {
	tests := []struct {
		name   string
		filter api.DeliveryFilter
		want   url.Values
	}{
		{
			name:   "zero value defaults to unblocked",
			filter: api.DeliveryFilter{},
			want:   url.Values{"is_blocked": {"false"}},
		},
		{
			name:   "all status omitted",
			filter: api.DeliveryFilter{Status: "all", Blocked: api.BlockedAll},
			want:   url.Values{},
		},
		{
			name: "full filter",
			filter: api.DeliveryFilter{
				Status:  core.StatusPending,
				Blocked: api.BlockedOnly,
				Search:  "sarah",
				From:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				To:      time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			},
			want: url.Values{
				"status":     {"pending"},
				"is_blocked": {"true"},
				"search":     {"sarah"},
				"from_date":  {"2024-03-01"},
				"to_date":    {"2024-03-31"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, c := captureServer(t, http.StatusOK, `[]`)
			if _, err := client.JobOrders.Deliveries(context.Background(), tt.filter); err != nil {
				t.Fatalf("Deliveries: %v", err)
			}
			if c.path != "/job-orders/deliveries/" {
				t.Errorf("path = %q", c.path)
			}
			if len(c.query) != len(tt.want) {
				t.Errorf("query = %v, want %v", c.query, tt.want)
			}
			for k, v := range tt.want {
				if got := c.query.Get(k); got != v[0] {
					t.Errorf("query[%s] = %q, want %q", k, got, v[0])
				}
			}
		})
	}
}

func TestListNormalization(t *testing.T) {
	const row = `{"id":1,"customer_name":"Sarah Johnson","status":"pending"}`

	tests := []struct {
		name     string
		response string
	}{
		{"bare array", `[` + row + `]`},
		{"paginated envelope", `{"count":1,"next":null,"previous":null,"results":[` + row + `]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := captureServer(t, http.StatusOK, tt.response)
			rows, err := client.JobOrders.Deliveries(context.Background(), api.DeliveryFilter{})
			if err != nil {
				t.Fatalf("Deliveries: %v", err)
			}
			if len(rows) != 1 || rows[0].CustomerName != "Sarah Johnson" {
				t.Errorf("rows = %+v", rows)
			}
		})
	}
}

// The received amount must be sent as a JSON number, not a quoted
// decimal string, and under the correctly spelled mutation field name.
func TestUpdateDeliverySendsNumericAmount(t *testing.T) {
	client, c := captureServer(t, http.StatusOK, `{"id":7}`)

	amount := decimal.RequireFromString("150.755")
	if _, err := client.JobOrders.UpdateDelivery(context.Background(), 7, amount, core.StatusCompleted); err != nil {
		t.Fatalf("UpdateDelivery: %v", err)
	}

	if c.method != http.MethodPost || c.path != "/job-orders/7/update_delivery/" {
		t.Errorf("%s %s", c.method, c.path)
	}
	if !strings.Contains(c.body, `"received_on_delivery_amount":150.755`) {
		t.Errorf("body = %s, want unquoted numeric amount", c.body)
	}
	if strings.Contains(c.body, `"150.755"`) {
		t.Errorf("body = %s, amount must not be a string", c.body)
	}
	if !strings.Contains(c.body, `"status":"completed"`) {
		t.Errorf("body = %s, missing status", c.body)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	client, c := captureServer(t, http.StatusOK, `{"id":7}`)

	_, err := client.JobOrders.UpdateStatus(context.Background(), 7, "shipped")
	if err == nil {
		t.Fatal("expected validation error for unknown status")
	}
	if c.method != "" {
		t.Error("invalid status must not produce a request")
	}
}

func TestScheduleDeliverySendsRFC3339(t *testing.T) {
	client, c := captureServer(t, http.StatusOK, `{"id":7}`)

	when := time.Date(2024, 12, 1, 10, 30, 45, 0, time.UTC)
	if _, err := client.JobOrders.ScheduleDelivery(context.Background(), 7, when); err != nil {
		t.Fatalf("ScheduleDelivery: %v", err)
	}
	if c.method != http.MethodPatch || c.path != "/job-orders/7/" {
		t.Errorf("%s %s", c.method, c.path)
	}
	if !strings.Contains(c.body, `"2024-12-01T10:30:45Z"`) {
		t.Errorf("body = %s, want RFC3339 delivery_date", c.body)
	}
}

func TestFieldValidationErrors(t *testing.T) {
	client, _ := captureServer(t, http.StatusBadRequest,
		`{"delivery_date":["must be an ISO datetime"],"job_order":["required"]}`)

	_, err := client.JobOrders.ScheduleDelivery(context.Background(), 7, time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *api.Error", err)
	}
	if !apiErr.IsValidation() {
		t.Errorf("IsValidation() = false: %+v", apiErr)
	}
	if got := apiErr.Fields["delivery_date"]; len(got) != 1 || got[0] != "must be an ISO datetime" {
		t.Errorf("Fields[delivery_date] = %v", got)
	}
}

func TestConflictError(t *testing.T) {
	client, _ := captureServer(t, http.StatusConflict, `{"error":"another company already default","code":"CONFLICT"}`)

	_, err := client.Companies.SetDefault(context.Background(), 2)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || !apiErr.IsConflict() {
		t.Errorf("err = %v, want conflict", err)
	}
}
