package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type orderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore constructs an OrderStore backed by PostgreSQL.
func NewOrderStore(pool *pgxpool.Pool) OrderStore {
	return &orderStore{pool: pool}
}

func (s *orderStore) ReportableSaleOrders(ctx context.Context, p Period) ([]SaleOrder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT so.id, so.order_number, so.company_id, c.name, so.order_date, so.currency
		FROM sale_orders so
		JOIN customers c ON c.id = so.customer_id
		WHERE so.order_date >= $1 AND so.order_date <= $2
		  AND so.status = ANY($3)
		ORDER BY so.order_date, so.id`,
		p.Start, p.End, []string{StatusConfirmed, StatusFulfilled},
	)
	if err != nil {
		return nil, fmt.Errorf("query sale orders: %w", err)
	}
	defer rows.Close()

	var orders []SaleOrder
	for rows.Next() {
		var o SaleOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CompanyID, &o.CustomerName, &o.OrderDate, &o.Currency); err != nil {
			return nil, fmt.Errorf("scan sale order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale orders: %w", err)
	}

	for i := range orders {
		lines, err := s.saleLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (s *orderStore) saleLines(ctx context.Context, orderID int) ([]SaleLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sl.id, p.code, p.name, sl.purchase_cost
		FROM sale_order_lines sl
		JOIN products p ON p.id = sl.product_id
		WHERE sl.order_id = $1
		ORDER BY sl.id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query lines for sale order %d: %w", orderID, err)
	}
	defer rows.Close()

	var lines []SaleLine
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.ProductCode, &l.ProductName, &l.PurchaseCost); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale lines: %w", err)
	}

	for i := range lines {
		pls, err := s.linkedPurchaseLines(ctx, lines[i].ID)
		if err != nil {
			return nil, err
		}
		lines[i].PurchaseLines = pls
	}
	return lines, nil
}

func (s *orderStore) linkedPurchaseLines(ctx context.Context, saleLineID int) ([]PurchaseLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pl.id, po.order_number, po.status, po.currency, pl.unit_price, pl.quantity,
		       p.type, p.licence_months, p.exclude_from_pricing_report
		FROM purchase_order_lines pl
		JOIN purchase_orders po ON po.id = pl.order_id
		JOIN products p ON p.id = pl.product_id
		WHERE pl.sale_line_id = $1
		ORDER BY pl.id`,
		saleLineID,
	)
	if err != nil {
		return nil, fmt.Errorf("query purchase lines for sale line %d: %w", saleLineID, err)
	}
	defer rows.Close()

	var lines []PurchaseLine
	for rows.Next() {
		var l PurchaseLine
		if err := rows.Scan(&l.ID, &l.OrderNumber, &l.OrderStatus, &l.Currency, &l.UnitPrice, &l.Quantity,
			&l.ProductType, &l.LicenceMonths, &l.ExcludeFromReport); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase lines: %w", err)
	}
	return lines, nil
}
