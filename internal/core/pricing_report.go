package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pricing-report/internal/logger"
)

// reportTitle names the report in the email subject and the attachment.
const reportTitle = "PO vs SO Pricing Report"

// ── Report types ──────────────────────────────────────────────────────────────

// ReportRow is one flagged comparison: a purchase line whose unit price came
// in under the cost recorded on the sale line it fulfils. PurchaseUnitPrice
// is expressed in the sale order's currency; Note is non-empty only when a
// currency conversion was applied to get there.
type ReportRow struct {
	SaleOrder         string
	PurchaseOrder     string
	SaleCost          decimal.Decimal
	PurchaseUnitPrice decimal.Decimal
	Quantity          decimal.Decimal
	PriceDifference   decimal.Decimal
	ProductCode       string
	ProductName       string
	Customer          string
	Note              string
}

// ReportRenderer turns report rows into a binary spreadsheet.
type ReportRenderer interface {
	Render(rows []ReportRow) ([]byte, error)
}

// Notifier delivers the rendered report. Implementations are best-effort:
// Run logs and swallows whatever they return.
type Notifier interface {
	Send(ctx context.Context, subject, periodLabel string, attachment []byte) error
}

// ── Interface ─────────────────────────────────────────────────────────────────

// PricingReportService builds and distributes the monthly PO vs SO report.
type PricingReportService interface {
	// BuildRows compares every eligible (sale line, purchase line) pair in
	// the period and returns the rows with a strictly positive difference,
	// in sale order → line → purchase line order.
	BuildRows(ctx context.Context, p Period) ([]ReportRow, error)

	// Run executes the whole pipeline for the calendar month preceding
	// today: build rows, render the workbook, email it. An empty result is
	// logged and ends the run without an artifact or email. Notification
	// failures are logged, never returned.
	Run(ctx context.Context, today time.Time) error
}

// ── Implementation ────────────────────────────────────────────────────────────

type pricingReportService struct {
	store     OrderStore
	converter CurrencyConverter
	renderer  ReportRenderer
	notifier  Notifier
	log       *logger.Logger
}

// NewPricingReportService wires the pipeline out of its collaborators.
func NewPricingReportService(store OrderStore, converter CurrencyConverter, renderer ReportRenderer, notifier Notifier, log *logger.Logger) PricingReportService {
	return &pricingReportService{
		store:     store,
		converter: converter,
		renderer:  renderer,
		notifier:  notifier,
		log:       log,
	}
}

func (s *pricingReportService) BuildRows(ctx context.Context, p Period) ([]ReportRow, error) {
	orders, err := s.store.ReportableSaleOrders(ctx, p)
	if err != nil {
		return nil, err
	}

	var rows []ReportRow
	for _, order := range orders {
		for _, line := range order.Lines {
			for _, pl := range line.PurchaseLines {
				row, ok, err := s.compare(ctx, order, line, pl)
				if err != nil {
					return nil, err
				}
				if ok {
					rows = append(rows, row)
				}
			}
		}
	}
	return rows, nil
}

// compare applies the eligibility filters to one triple and, when it
// survives, computes the price difference. ok is false for filtered triples
// and for differences that are not strictly positive.
func (s *pricingReportService) compare(ctx context.Context, order SaleOrder, line SaleLine, pl PurchaseLine) (ReportRow, bool, error) {
	if pl.OrderStatus != StatusConfirmed && pl.OrderStatus != StatusFulfilled {
		return ReportRow{}, false, nil
	}
	if pl.ExcludeFromReport {
		return ReportRow{}, false, nil
	}
	if pl.LicenceMonths > 0 {
		return ReportRow{}, false, nil
	}
	if pl.ProductType != ProductTypeGoods {
		return ReportRow{}, false, nil
	}

	unitPrice := pl.UnitPrice
	note := ""
	if pl.Currency != order.Currency {
		converted, err := s.converter.Convert(ctx, unitPrice, pl.Currency, order.Currency, order.CompanyID, order.OrderDate)
		if err != nil {
			return ReportRow{}, false, fmt.Errorf("convert purchase line %d from %s to %s: %w", pl.ID, pl.Currency, order.Currency, err)
		}
		note = fmt.Sprintf("SO currency is %s and PO currency is %s", order.Currency, pl.Currency)
		unitPrice = converted
	}

	diff := line.PurchaseCost.Sub(unitPrice).Mul(pl.Quantity)
	if !diff.IsPositive() {
		return ReportRow{}, false, nil
	}

	return ReportRow{
		SaleOrder:         order.OrderNumber,
		PurchaseOrder:     pl.OrderNumber,
		SaleCost:          line.PurchaseCost,
		PurchaseUnitPrice: unitPrice,
		Quantity:          pl.Quantity,
		PriceDifference:   diff,
		ProductCode:       line.ProductCode,
		ProductName:       line.ProductName,
		Customer:          order.CustomerName,
		Note:              note,
	}, true, nil
}

func (s *pricingReportService) Run(ctx context.Context, today time.Time) error {
	period := PreviousMonth(today)
	s.log.Infow("building pricing report", "period", period.String())

	rows, err := s.BuildRows(ctx, period)
	if err != nil {
		return fmt.Errorf("build report rows: %w", err)
	}
	if len(rows) == 0 {
		s.log.Warnw("no data to report", "period", period.String())
		return nil
	}

	artifact, err := s.renderer.Render(rows)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	subject := fmt.Sprintf("%s (%s)", reportTitle, today.Format("02/01/06"))
	if err := s.notifier.Send(ctx, subject, period.Label(), artifact); err != nil {
		s.log.Errorw("failed to send pricing report email", "error", err, "subject", subject)
		return nil
	}

	s.log.Infow("pricing report sent", "rows", len(rows), "subject", subject)
	return nil
}
