package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryStatus string

const (
	StatusPending    DeliveryStatus = "pending"
	StatusInProgress DeliveryStatus = "in_progress"
	StatusCompleted  DeliveryStatus = "completed"
	StatusDelivered  DeliveryStatus = "delivered"
)

// AllStatuses is the closed set of job order statuses, in workflow order.
var AllStatuses = []DeliveryStatus{StatusPending, StatusInProgress, StatusCompleted, StatusDelivered}

func (s DeliveryStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// JobOrderItem is a read-only line item on a job order.
type JobOrderItem struct {
	ID           int             `json:"id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Fees         decimal.Decimal `json:"fees"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// JobOrder is the backend's central business record. The wire field
// recived_on_delivery_amount keeps the backend's spelling; renaming it
// here would silently drop the value on decode.
type JobOrder struct {
	ID             int             `json:"id"`
	JobOrderNumber string          `json:"job_order_number"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	Status         DeliveryStatus  `json:"status"`
	DeliveryDate   time.Time       `json:"delivery_date"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AdvanceAmount  decimal.Decimal `json:"advance_amount"`
	BalanceAmount  decimal.Decimal `json:"balance_amount"`
	ReceivedAmount decimal.Decimal `json:"recived_on_delivery_amount"`
	PaymentMethod  string          `json:"payment_method"`
	CashAmount     decimal.Decimal `json:"cash_amount"`
	CardAmount     decimal.Decimal `json:"card_amount"`
	Remarks        string          `json:"remarks"`
	IsActive       bool            `json:"is_active"`
	IsBlocked      bool            `json:"is_blocked"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Items          []JobOrderItem  `json:"job_order_items"`
}

// Stats mirrors GET /job-orders/stats/.
type Stats struct {
	TotalOrders  int             `json:"total_orders"`
	Pending      int             `json:"pending"`
	InProgress   int             `json:"in_progress"`
	Completed    int             `json:"completed"`
	Delivered    int             `json:"delivered"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// User is the authenticated backend account.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type Customer struct {
	ID         int             `json:"id"`
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Balance    decimal.Decimal `json:"balance"`
	Points     int             `json:"points"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Receipt struct {
	ID            int             `json:"id"`
	ReceiptID     string          `json:"receipt_id"`
	ReceiptDate   time.Time       `json:"receipt_date"`
	ReceiptAmount decimal.Decimal `json:"receipt_amount"`
	Remarks       string          `json:"receipt_remarks"`
	JobOrder      int             `json:"job_order"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Company is a company-details master record. At most one record is the
// default; the backend rejects a second default with a conflict error.
type Company struct {
	ID        int    `json:"id"`
	Name      string `json:"company_name"`
	NameAr    string `json:"company_name_ar"`
	Address   string `json:"company_address"`
	Phone     string `json:"company_phone"`
	Email     string `json:"company_email"`
	Website   string `json:"company_website"`
	Currency  string `json:"company_currency"`
	IsActive  bool   `json:"company_is_active"`
	IsDefault bool   `json:"is_default"`
}

type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type InventoryItem struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Description   string `json:"description"`
	Category      int    `json:"category"`
	Unit          string `json:"unit"`
	IsActive      bool   `json:"is_active"`
	IsRawMaterial bool   `json:"is_raw_material"`
}

type Material struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type SaleItem struct {
	ID       int             `json:"id"`
	Item     int             `json:"item"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
}

type Sale struct {
	ID            int             `json:"id"`
	SaleNumber    string          `json:"sale_number"`
	CustomerName  string          `json:"customer_name"`
	Amount        decimal.Decimal `json:"amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	IsActive      bool            `json:"is_active"`
	Items         []SaleItem      `json:"sale_items"`
}

type Service struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
}
