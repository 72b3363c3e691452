// Package stub is an in-memory implementation of the backend's
// client-observable wire contract. It backs the client test suite and
// cmd/stubserver for local demos; it does not reproduce the real
// backend's business rules beyond what this client can observe.
package stub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tailor-console/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Options configures the stub backend.
type Options struct {
	// JWTSecret signs the HS256 token pair. Defaults to a fixed dev secret.
	JWTSecret string
	// AccessTTL is the access token lifetime. Tests shrink it to mint
	// tokens that are already inside the client's expiry buffer.
	AccessTTL time.Duration
	// RefreshTTL is the refresh token lifetime.
	RefreshTTL time.Duration
	// Email/Password are the seeded login credentials.
	Email    string
	Password string
	// Quiet disables per-request logging.
	Quiet bool
}

type store struct {
	mu        sync.Mutex
	user      core.User
	orders    map[int]*core.JobOrder
	receipts  map[int]*core.Receipt
	companies map[int]*core.Company
	nextID    int
}

// Handler serves the stub API.
type Handler struct {
	store      *store
	router     chi.Router
	jwtSecret  string
	password   string
	accessTTL  time.Duration
	refreshTTL time.Duration

	refreshCalls atomic.Int64
	failRefresh  atomic.Bool
}

// New builds the stub handler with seeded demo data.
func New(opts Options) *Handler {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "stub-dev-secret"
	}
	if opts.AccessTTL == 0 {
		opts.AccessTTL = time.Hour
	}
	if opts.RefreshTTL == 0 {
		opts.RefreshTTL = 24 * time.Hour
	}
	if opts.Email == "" {
		opts.Email = "admin@tailor.local"
	}
	if opts.Password == "" {
		opts.Password = "admin"
	}

	h := &Handler{
		store:      seed(opts.Email),
		jwtSecret:  opts.JWTSecret,
		password:   opts.Password,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	if !opts.Quiet {
		r.Use(Logger)
	}
	r.Use(Recoverer)

	r.Post("/auth/login/", h.login)
	r.Post("/auth/refresh/", h.refresh)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Get("/auth/me/", h.me)
		r.Post("/auth/logout/", h.logout)

		r.Get("/job-orders/deliveries/", h.deliveries)
		r.Get("/job-orders/stats/", h.stats)
		r.Get("/job-orders/recent/", h.recent)
		r.Post("/job-orders/{id}/update_delivery/", h.updateDelivery)
		r.Post("/job-orders/{id}/update_status/", h.updateStatus)
		r.Post("/job-orders/{id}/toggle_block/", h.toggleBlock)
		r.Patch("/job-orders/{id}/", h.scheduleDelivery)

		r.Get("/receipts/", h.listReceipts)
		r.Get("/receipts/today/", h.todaysReceipts)
		r.Get("/receipts/summary/", h.receiptSummary)
		r.Post("/receipts/", h.createReceipt)

		r.Get("/master/company-details/", h.listCompanies)
		r.Get("/master/company-details/default/", h.defaultCompany)
		r.Patch("/master/company-details/{id}/set_default/", h.setDefaultCompany)
	})

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// RefreshCalls reports how many times /auth/refresh/ was hit.
func (h *Handler) RefreshCalls() int { return int(h.refreshCalls.Load()) }

// FailRefresh makes subsequent refresh attempts return 401.
func (h *Handler) FailRefresh(fail bool) { h.failRefresh.Store(fail) }

func seed(email string) *store {
	s := &store{
		user: core.User{
			ID:       1,
			Email:    email,
			Name:     "Admin",
			Role:     "admin",
			IsActive: true,
		},
		orders:    make(map[int]*core.JobOrder),
		receipts:  make(map[int]*core.Receipt),
		companies: make(map[int]*core.Company),
		nextID:    1,
	}

	now := time.Now()
	today := func(hour int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, 30, 0, 0, time.Local)
	}
	dec := decimal.RequireFromString

	seedOrders := []core.JobOrder{
		{
			JobOrderNumber: "JO-2024-0001",
			CustomerName:   "Sarah Johnson",
			CustomerPhone:  "555-123-4567",
			Status:         core.StatusPending,
			DeliveryDate:   today(10),
			TotalAmount:    dec("450.00"),
			AdvanceAmount:  dec("150.00"),
			BalanceAmount:  dec("300.00"),
			Items: []core.JobOrderItem{
				{ID: 1, MaterialName: "Wedding dress fabric", Quantity: dec("3"), Fees: dec("50"), TotalAmount: dec("450.00")},
			},
		},
		{
			JobOrderNumber: "JO-2024-0002",
			CustomerName:   "Mike Chen",
			CustomerPhone:  "555-234-5678",
			Status:         core.StatusInProgress,
			DeliveryDate:   today(14),
			TotalAmount:    dec("280.50"),
			AdvanceAmount:  dec("100.00"),
			BalanceAmount:  dec("180.50"),
		},
		{
			JobOrderNumber: "JO-2024-0003",
			CustomerName:   "Lisa Rodriguez",
			CustomerPhone:  "555-345-6789",
			Status:         core.StatusCompleted,
			DeliveryDate:   today(16),
			TotalAmount:    dec("120.00"),
			BalanceAmount:  dec("120.00"),
			IsBlocked:      true,
		},
	}
	for i := range seedOrders {
		o := seedOrders[i]
		o.ID = s.nextID
		o.IsActive = true
		o.CreatedAt = now.Add(-time.Duration(len(seedOrders)-i) * 24 * time.Hour)
		o.UpdatedAt = o.CreatedAt
		s.orders[o.ID] = &o
		s.nextID++
	}

	s.companies[1] = &core.Company{
		ID: 1, Name: "Golden Thread Tailoring", Currency: "AED",
		IsActive: true, IsDefault: true,
	}
	s.companies[2] = &core.Company{
		ID: 2, Name: "Silk Road Branch", Currency: "AED", IsActive: true,
	}
	return s
}

// ── Job orders ──────────────────────────────────────────────────────────────

func (h *Handler) deliveries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	rows := make([]core.JobOrder, 0, len(h.store.orders))
	for _, o := range h.store.orders {
		if status := q.Get("status"); status != "" && !strings.EqualFold(status, "all") {
			if string(o.Status) != status {
				continue
			}
		}
		if param := q.Get("is_blocked"); param != "" {
			blocked := param == "true" || param == "1" || param == "yes"
			if o.IsBlocked != blocked {
				continue
			}
		}
		if search := strings.ToLower(q.Get("search")); search != "" {
			if !strings.Contains(strings.ToLower(o.CustomerName), search) &&
				!strings.Contains(strings.ToLower(o.JobOrderNumber), search) {
				continue
			}
		}
		if from := q.Get("from_date"); from != "" {
			if d, err := time.ParseInLocation("2006-01-02", from, o.DeliveryDate.Location()); err == nil {
				if o.DeliveryDate.Before(d) {
					continue
				}
			}
		}
		if to := q.Get("to_date"); to != "" {
			if d, err := time.ParseInLocation("2006-01-02", to, o.DeliveryDate.Location()); err == nil {
				if !o.DeliveryDate.Before(d.AddDate(0, 0, 1)) {
					continue
				}
			}
		}
		rows = append(rows, *o)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	writeJSON(w, rows)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	var stats core.Stats
	for _, o := range h.store.orders {
		stats.TotalOrders++
		switch o.Status {
		case core.StatusPending:
			stats.Pending++
		case core.StatusInProgress:
			stats.InProgress++
		case core.StatusCompleted:
			stats.Completed++
		case core.StatusDelivered:
			stats.Delivered++
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		stats.TotalBalance = stats.TotalBalance.Add(o.BalanceAmount)
	}
	writeJSON(w, stats)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	rows := make([]core.JobOrder, 0, len(h.store.orders))
	for _, o := range h.store.orders {
		rows = append(rows, *o)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	writeJSON(w, rows)
}

func (h *Handler) updateDelivery(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lockOrder(w, r)
	if !ok {
		return
	}
	defer h.store.mu.Unlock()

	// received_on_delivery_amount must arrive as a JSON number; a
	// quoted string fails decoding here, like the real backend.
	var req struct {
		Received json.Number `json:"received_on_delivery_amount"`
		Status   string      `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Received != "" {
		received, err := decimal.NewFromString(req.Received.String())
		if err != nil {
			writeError(w, r, "invalid received amount", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		o.ReceivedAmount = received
		o.BalanceAmount = o.TotalAmount.Sub(o.AdvanceAmount).Sub(received)
	}
	if s := core.DeliveryStatus(req.Status); s.Valid() {
		o.Status = s
	}
	o.UpdatedAt = time.Now()
	writeJSON(w, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lockOrder(w, r)
	if !ok {
		return
	}
	defer h.store.mu.Unlock()

	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s := core.DeliveryStatus(req.Status)
	if !s.Valid() {
		writeError(w, r, "Invalid status", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	o.Status = s
	o.UpdatedAt = time.Now()
	writeJSON(w, o)
}

func (h *Handler) scheduleDelivery(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lockOrder(w, r)
	if !ok {
		return
	}
	defer h.store.mu.Unlock()

	var req struct {
		DeliveryDate string `json:"delivery_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	when, err := time.Parse(time.RFC3339, req.DeliveryDate)
	if err != nil {
		writeFieldErrors(w, map[string][]string{"delivery_date": {"must be an ISO datetime"}})
		return
	}
	o.DeliveryDate = when
	o.UpdatedAt = time.Now()
	writeJSON(w, o)
}

func (h *Handler) toggleBlock(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lockOrder(w, r)
	if !ok {
		return
	}
	defer h.store.mu.Unlock()

	o.IsBlocked = !o.IsBlocked
	o.UpdatedAt = time.Now()
	writeJSON(w, o)
}

// lockOrder resolves {id}, returning the order with the store lock
// held. On failure it writes the error response and leaves the store
// unlocked.
func (h *Handler) lockOrder(w http.ResponseWriter, r *http.Request) (*core.JobOrder, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return nil, false
	}
	h.store.mu.Lock()
	o, ok := h.store.orders[id]
	if !ok {
		h.store.mu.Unlock()
		writeError(w, r, "job order not found", "NOT_FOUND", http.StatusNotFound)
		return nil, false
	}
	return o, true
}

// ── Receipts ────────────────────────────────────────────────────────────────

func (h *Handler) listReceipts(w http.ResponseWriter, r *http.Request) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	rows := make([]core.Receipt, 0, len(h.store.receipts))
	for _, rec := range h.store.receipts {
		rows = append(rows, *rec)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	writeJSON(w, rows)
}

func (h *Handler) todaysReceipts(w http.ResponseWriter, r *http.Request) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	now := time.Now()
	rows := make([]core.Receipt, 0)
	for _, rec := range h.store.receipts {
		y1, m1, d1 := rec.ReceiptDate.Date()
		y2, m2, d2 := now.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			rows = append(rows, *rec)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	writeJSON(w, rows)
}

func (h *Handler) receiptSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	var (
		count int
		total decimal.Decimal
	)
	for _, rec := range h.store.receipts {
		if from := q.Get("from_date"); from != "" {
			if d, err := time.ParseInLocation("2006-01-02", from, rec.ReceiptDate.Location()); err == nil {
				if rec.ReceiptDate.Before(d) {
					continue
				}
			}
		}
		if to := q.Get("to_date"); to != "" {
			if d, err := time.ParseInLocation("2006-01-02", to, rec.ReceiptDate.Location()); err == nil {
				if !rec.ReceiptDate.Before(d.AddDate(0, 0, 1)) {
					continue
				}
			}
		}
		count++
		total = total.Add(rec.ReceiptAmount)
	}
	writeJSON(w, map[string]any{
		"count":        count,
		"total_amount": total,
	})
}

func (h *Handler) createReceipt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReceiptDate   time.Time       `json:"receipt_date"`
		ReceiptAmount decimal.Decimal `json:"receipt_amount"`
		Remarks       string          `json:"receipt_remarks"`
		JobOrder      int             `json:"job_order"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.orders[req.JobOrder]; !ok {
		writeFieldErrors(w, map[string][]string{"job_order": {"job order does not exist"}})
		return
	}

	id := h.store.nextID
	h.store.nextID++
	rec := &core.Receipt{
		ID:            id,
		ReceiptID:     "RCT-" + strconv.Itoa(id),
		ReceiptDate:   req.ReceiptDate,
		ReceiptAmount: req.ReceiptAmount,
		Remarks:       req.Remarks,
		JobOrder:      req.JobOrder,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	h.store.receipts[id] = rec
	writeJSON(w, rec)
}

// ── Companies ───────────────────────────────────────────────────────────────

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	rows := make([]core.Company, 0, len(h.store.companies))
	for _, co := range h.store.companies {
		rows = append(rows, *co)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	writeJSON(w, rows)
}

func (h *Handler) defaultCompany(w http.ResponseWriter, r *http.Request) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	for _, co := range h.store.companies {
		if co.IsDefault {
			writeJSON(w, co)
			return
		}
	}
	writeError(w, r, "no default company", "NOT_FOUND", http.StatusNotFound)
}

func (h *Handler) setDefaultCompany(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	co, ok := h.store.companies[id]
	if !ok {
		writeError(w, r, "company not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	for _, other := range h.store.companies {
		if other.ID != id && other.IsDefault {
			writeError(w, r, "another company already default", "CONFLICT", http.StatusConflict)
			return
		}
	}
	co.IsDefault = true
	writeJSON(w, co)
}
