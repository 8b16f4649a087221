package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// currencyMinorUnits is the rounding precision applied after conversion.
// Results round half-even (banker's rounding) to the currency minor unit.
const currencyMinorUnits = 2

type rateConverter struct {
	pool *pgxpool.Pool
}

// NewRateConverter constructs a CurrencyConverter over the company rate
// table. Rates are stored as units of company base currency per unit of the
// quoted currency; the effective rate for a date is the latest one on or
// before it.
func NewRateConverter(pool *pgxpool.Pool) CurrencyConverter {
	return &rateConverter{pool: pool}
}

func (c *rateConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, companyID int, on time.Time) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	fromRate, err := c.rate(ctx, companyID, from, on)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := c.rate(ctx, companyID, to, on)
	if err != nil {
		return decimal.Zero, err
	}
	if toRate.IsZero() {
		return decimal.Zero, fmt.Errorf("zero rate for currency %s", to)
	}

	// from → base → to, then round half-even to the minor unit.
	return amount.Mul(fromRate).Div(toRate).RoundBank(currencyMinorUnits), nil
}

func (c *rateConverter) rate(ctx context.Context, companyID int, currency string, on time.Time) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := c.pool.QueryRow(ctx, `
		SELECT rate FROM currency_rates
		WHERE company_id = $1 AND currency = $2 AND rate_date <= $3
		ORDER BY rate_date DESC
		LIMIT 1`,
		companyID, currency, on,
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("no rate for currency %s on or before %s", currency, on.Format("2006-01-02"))
		}
		return decimal.Zero, fmt.Errorf("look up rate for %s: %w", currency, err)
	}
	return rate, nil
}
