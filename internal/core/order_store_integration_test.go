package core_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"pricing-report/internal/core"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid touching the live order database.
	// Run migrations against it first, then set TEST_DATABASE_URL.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE purchase_order_lines, purchase_orders, sale_order_lines, sale_orders,
		               currency_rates, products, customers, companies CASCADE;

		INSERT INTO companies (id, company_code, name, base_currency)
		VALUES (1, '1000', 'Test Company', 'USD');

		INSERT INTO customers (id, company_id, code, name)
		VALUES (1, 1, 'C001', 'Acme Corp');

		INSERT INTO products (id, company_id, code, name, type, licence_months, exclude_from_pricing_report) VALUES
		(1, 1, 'P001', 'Widget A', 'goods', 0, false),
		(2, 1, 'SVC1', 'Install Service', 'service', 0, false),
		(3, 1, 'LIC1', 'Licence 12m', 'goods', 12, false),
		(4, 1, 'XCL1', 'Excluded Widget', 'goods', 0, true);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestOrderStore_ReportableSaleOrders(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	// July 2026 window; orders at both boundaries, outside it, and in
	// non-reportable states.
	_, err := pool.Exec(ctx, `
		INSERT INTO sale_orders (id, company_id, order_number, customer_id, status, order_date, currency) VALUES
		(1, 1, 'S001', 1, 'CONFIRMED', '2026-07-01 00:00:00+00', 'USD'),
		(2, 1, 'S002', 1, 'FULFILLED', '2026-07-31 23:59:59+00', 'USD'),
		(3, 1, 'S003', 1, 'DRAFT',     '2026-07-15 12:00:00+00', 'USD'),
		(4, 1, 'S004', 1, 'CANCELLED', '2026-07-15 12:00:00+00', 'USD'),
		(5, 1, 'S005', 1, 'CONFIRMED', '2026-06-30 23:59:59+00', 'USD'),
		(6, 1, 'S006', 1, 'CONFIRMED', '2026-08-01 00:00:00+00', 'USD');

		INSERT INTO sale_order_lines (id, order_id, product_id, purchase_cost) VALUES
		(1, 1, 1, 100.00),
		(2, 2, 1, 50.00);

		INSERT INTO purchase_orders (id, company_id, order_number, status, currency) VALUES
		(1, 1, 'PO001', 'CONFIRMED', 'EUR');

		INSERT INTO purchase_order_lines (id, order_id, sale_line_id, product_id, unit_price, quantity) VALUES
		(1, 1, 1, 1, 80.00, 2),
		(2, 1, 1, 3, 40.00, 1);
	`)
	if err != nil {
		t.Fatalf("seed orders: %v", err)
	}

	store := core.NewOrderStore(pool)
	period := core.PreviousMonth(time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC))

	orders, err := store.ReportableSaleOrders(ctx, period)
	if err != nil {
		t.Fatalf("ReportableSaleOrders: %v", err)
	}

	if len(orders) != 2 {
		t.Fatalf("expected 2 reportable orders, got %d", len(orders))
	}
	if orders[0].OrderNumber != "S001" || orders[1].OrderNumber != "S002" {
		t.Errorf("orders = %s, %s; want S001, S002", orders[0].OrderNumber, orders[1].OrderNumber)
	}
	if orders[0].CustomerName != "Acme Corp" {
		t.Errorf("CustomerName = %q, want Acme Corp", orders[0].CustomerName)
	}

	if len(orders[0].Lines) != 1 {
		t.Fatalf("S001 lines = %d, want 1", len(orders[0].Lines))
	}
	line := orders[0].Lines[0]
	if line.ProductCode != "P001" || line.ProductName != "Widget A" {
		t.Errorf("line product = %s/%s, want P001/Widget A", line.ProductCode, line.ProductName)
	}
	if !line.PurchaseCost.Equal(d("100")) {
		t.Errorf("PurchaseCost = %s, want 100", line.PurchaseCost)
	}

	if len(line.PurchaseLines) != 2 {
		t.Fatalf("linked purchase lines = %d, want 2", len(line.PurchaseLines))
	}
	pl := line.PurchaseLines[0]
	if pl.OrderNumber != "PO001" || pl.OrderStatus != core.StatusConfirmed || pl.Currency != "EUR" {
		t.Errorf("purchase line header = %s/%s/%s", pl.OrderNumber, pl.OrderStatus, pl.Currency)
	}
	if pl.ProductType != core.ProductTypeGoods || pl.LicenceMonths != 0 || pl.ExcludeFromReport {
		t.Errorf("purchase line product attrs = %s/%d/%v", pl.ProductType, pl.LicenceMonths, pl.ExcludeFromReport)
	}
	if line.PurchaseLines[1].LicenceMonths != 12 {
		t.Errorf("second purchase line licence months = %d, want 12", line.PurchaseLines[1].LicenceMonths)
	}

	// A fulfilled order with a line but no linked purchase lines still loads.
	if len(orders[1].Lines) != 1 || len(orders[1].Lines[0].PurchaseLines) != 0 {
		t.Errorf("S002 should have one line with no purchase lines")
	}
}

func TestRateConverter_Convert(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO currency_rates (company_id, currency, rate_date, rate) VALUES
		(1, 'USD', '2026-01-01', 1.0),
		(1, 'EUR', '2026-01-01', 1.05),
		(1, 'EUR', '2026-07-10', 1.10);
	`)
	if err != nil {
		t.Fatalf("seed rates: %v", err)
	}

	conv := core.NewRateConverter(pool)
	amount := d("80")

	t.Run("uses latest rate on or before date", func(t *testing.T) {
		got, err := conv.Convert(ctx, amount, "EUR", "USD", 1, time.Date(2026, time.July, 14, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		if !got.Equal(d("88")) { // 80 * 1.10
			t.Errorf("Convert = %s, want 88", got)
		}
	})

	t.Run("earlier date picks earlier rate", func(t *testing.T) {
		got, err := conv.Convert(ctx, amount, "EUR", "USD", 1, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		if !got.Equal(d("84")) { // 80 * 1.05
			t.Errorf("Convert = %s, want 84", got)
		}
	})

	t.Run("identity when currencies match", func(t *testing.T) {
		got, err := conv.Convert(ctx, amount, "USD", "USD", 1, time.Now())
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		if !got.Equal(amount) {
			t.Errorf("Convert = %s, want %s", got, amount)
		}
	})

	t.Run("missing rate errors", func(t *testing.T) {
		if _, err := conv.Convert(ctx, amount, "GBP", "USD", 1, time.Now()); err == nil {
			t.Error("expected an error for a currency with no rates")
		}
	})
}
