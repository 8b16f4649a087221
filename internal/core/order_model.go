package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order status values shared by sale and purchase orders. Only CONFIRMED and
// FULFILLED orders enter the report on either side.
const (
	StatusDraft     = "DRAFT"
	StatusConfirmed = "CONFIRMED"
	StatusFulfilled = "FULFILLED"
	StatusCancelled = "CANCELLED"
)

// Product type values. Only stock-trackable goods are compared; services and
// consumables carry no meaningful purchase cost per unit.
const (
	ProductTypeGoods      = "goods"
	ProductTypeService    = "service"
	ProductTypeConsumable = "consumable"
)

// SaleOrder is a read-only view of a confirmed customer order. The report job
// never mutates orders; these structs are loaded once per run and discarded.
type SaleOrder struct {
	ID           int
	OrderNumber  string
	CompanyID    int
	CustomerName string
	OrderDate    time.Time
	Currency     string
	Lines        []SaleLine
}

// SaleLine is one line item on a sale order. PurchaseCost is the expected
// unit cost recorded at sale time, the reference side of the comparison.
// PurchaseLines holds the purchase-order lines raised to fulfil this line.
type SaleLine struct {
	ID            int
	ProductCode   string
	ProductName   string
	PurchaseCost  decimal.Decimal
	PurchaseLines []PurchaseLine
}

// PurchaseLine is one line on a supplier order, joined with the fields of its
// order header and product that the eligibility filters inspect.
type PurchaseLine struct {
	ID          int
	OrderNumber string // purchase order number
	OrderStatus string
	Currency    string // purchase order currency
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal

	// Product attributes.
	ProductType       string
	LicenceMonths     int  // > 0 means a licensed/subscription product
	ExcludeFromReport bool // report-routing flag set on the product
}

// OrderStore loads the order graph the comparison runs over. Implementations
// are strictly read-only; data-store errors surface to the caller untouched.
type OrderStore interface {
	// ReportableSaleOrders returns CONFIRMED and FULFILLED sale orders whose
	// order date falls within p, inclusive on both ends, each with its lines
	// and every line's linked purchase lines. Orders, lines and purchase
	// lines keep their natural (insertion) order.
	ReportableSaleOrders(ctx context.Context, p Period) ([]SaleOrder, error)
}

// CurrencyConverter converts an amount between currencies as of a date, in
// the context of one company's rate table.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, companyID int, on time.Time) (decimal.Decimal, error)
}
