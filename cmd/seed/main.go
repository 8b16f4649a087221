package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"pricing-report/internal/config"
	"pricing-report/internal/core"
)

// Seeds a demo order set inside the previous calendar month so a local
// `go run ./cmd/report` produces a non-empty report.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("Failed to connect to DB: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	period := core.PreviousMonth(time.Now())
	orderDate := period.Start.AddDate(0, 0, 14)

	if err := seedMasterData(ctx, pool); err != nil {
		fmt.Printf("Seed master data failed: %v\n", err)
		os.Exit(1)
	}
	if err := seedOrders(ctx, pool, orderDate); err != nil {
		fmt.Printf("Seed orders failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded demo orders dated %s.\n", orderDate.Format("2006-01-02"))
}

func seedMasterData(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO companies (id, company_code, name, base_currency)
		VALUES (1, '1000', 'Demo Trading Ltd', 'USD')
		ON CONFLICT (id) DO NOTHING;

		INSERT INTO customers (id, company_id, code, name)
		VALUES (1, 1, 'C001', 'Acme Corp')
		ON CONFLICT (id) DO NOTHING;

		INSERT INTO products (id, company_id, code, name, type, licence_months, exclude_from_pricing_report) VALUES
		(1, 1, 'P001', 'Widget A', 'goods', 0, false),
		(2, 1, 'P002', 'Widget B', 'goods', 0, false),
		(3, 1, 'SVC1', 'Install Service', 'service', 0, false),
		(4, 1, 'LIC1', 'Software Licence 12m', 'goods', 12, false)
		ON CONFLICT (id) DO NOTHING;

		INSERT INTO currency_rates (company_id, currency, rate_date, rate) VALUES
		(1, 'USD', '2000-01-01', 1.0),
		(1, 'EUR', '2000-01-01', 1.08)
		ON CONFLICT DO NOTHING;
	`)
	return err
}

func seedOrders(ctx context.Context, pool *pgxpool.Pool, orderDate time.Time) error {
	// A statement with bind parameters must go alone: pgx switches to the
	// extended protocol when arguments are present, and PostgreSQL rejects
	// multi-command strings there.
	_, err := pool.Exec(ctx, `
		INSERT INTO sale_orders (id, company_id, order_number, customer_id, status, order_date, currency)
		VALUES (1, 1, 'S001', 1, 'CONFIRMED', $1, 'USD')
		ON CONFLICT (id) DO NOTHING`,
		orderDate,
	)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO sale_order_lines (id, order_id, product_id, purchase_cost) VALUES
		(1, 1, 1, 100.00),
		(2, 1, 2, 50.00)
		ON CONFLICT (id) DO NOTHING;

		INSERT INTO purchase_orders (id, company_id, order_number, status, currency) VALUES
		(1, 1, 'PO001', 'CONFIRMED', 'USD'),
		(2, 1, 'PO002', 'CONFIRMED', 'EUR')
		ON CONFLICT (id) DO NOTHING;

		INSERT INTO purchase_order_lines (id, order_id, sale_line_id, product_id, unit_price, quantity) VALUES
		(1, 1, 1, 1, 80.00, 2),
		(2, 2, 2, 2, 40.00, 3)
		ON CONFLICT (id) DO NOTHING;
	`)
	return err
}
