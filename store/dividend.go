// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package store

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/model"
)

// UpsertDividend persists one quarterly or annual dividend row.
func (s *Store) UpsertDividend(ctx context.Context, d model.Dividend) error {
	const sql = `INSERT INTO dividends (
		security_code, year, year_of_dividend, quarter,
		cash_earnings, cash_capital_reserve, cash_total,
		stock_earnings, stock_capital_reserve, stock_total, sum,
		cash_payout_ratio, stock_payout_ratio,
		ex_dividend_date_1, ex_dividend_date_2, payable_date_1, payable_date_2
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	ON CONFLICT (security_code, year, quarter) DO UPDATE SET
		year_of_dividend = EXCLUDED.year_of_dividend,
		cash_earnings = EXCLUDED.cash_earnings, cash_capital_reserve = EXCLUDED.cash_capital_reserve,
		cash_total = EXCLUDED.cash_total, stock_earnings = EXCLUDED.stock_earnings,
		stock_capital_reserve = EXCLUDED.stock_capital_reserve, stock_total = EXCLUDED.stock_total,
		sum = EXCLUDED.sum, cash_payout_ratio = EXCLUDED.cash_payout_ratio,
		stock_payout_ratio = EXCLUDED.stock_payout_ratio,
		ex_dividend_date_1 = EXCLUDED.ex_dividend_date_1, ex_dividend_date_2 = EXCLUDED.ex_dividend_date_2,
		payable_date_1 = EXCLUDED.payable_date_1, payable_date_2 = EXCLUDED.payable_date_2;`

	_, err := s.Pool.Exec(ctx, sql, d.SecurityCode, d.Year, d.YearOfDividend, string(d.Quarter),
		d.CashEarnings, d.CashCapitalReserve, d.CashTotal, d.StockEarnings, d.StockCapitalReserve,
		d.StockTotal, d.Sum, d.CashPayoutRatio, d.StockPayoutRatio,
		d.ExDividendDate1, d.ExDividendDate2, d.PayableDate1, d.PayableDate2)
	if err != nil {
		log.Error().Err(err).Str("symbol", d.SecurityCode).Msg("error upserting dividend")
	}
	return err
}

// RefreshAnnualTotal recomputes the empty-quarter annual-total row for
// (securityCode, yearOfDividend) as the SUM of its quarterly rows. When
// the computed sum is zero, the date fields are set to "-" to signal
// no-action.
func (s *Store) RefreshAnnualTotal(ctx context.Context, securityCode string, yearOfDividend int) error {
	const selectSQL = `SELECT COALESCE(SUM(cash_earnings),0), COALESCE(SUM(cash_capital_reserve),0),
		COALESCE(SUM(cash_total),0), COALESCE(SUM(stock_earnings),0), COALESCE(SUM(stock_capital_reserve),0),
		COALESCE(SUM(stock_total),0), COALESCE(SUM(sum),0)
		FROM dividends WHERE security_code = $1 AND year_of_dividend = $2 AND quarter <> '';`

	var cashEarnings, cashCapital, cashTotal, stockEarnings, stockCapital, stockTotal, sum decimal.Decimal
	row := s.Pool.QueryRow(ctx, selectSQL, securityCode, yearOfDividend)
	if err := row.Scan(&cashEarnings, &cashCapital, &cashTotal, &stockEarnings, &stockCapital, &stockTotal, &sum); err != nil {
		return err
	}

	const dates = "-"

	const upsertSQL = `INSERT INTO dividends (
		security_code, year, year_of_dividend, quarter,
		cash_earnings, cash_capital_reserve, cash_total,
		stock_earnings, stock_capital_reserve, stock_total, sum,
		ex_dividend_date_1, ex_dividend_date_2, payable_date_1, payable_date_2
	) VALUES ($1,$2,$2,'',$3,$4,$5,$6,$7,$8,$9,$10,$10,$10,$10)
	ON CONFLICT (security_code, year, quarter) DO UPDATE SET
		cash_earnings = EXCLUDED.cash_earnings, cash_capital_reserve = EXCLUDED.cash_capital_reserve,
		cash_total = EXCLUDED.cash_total, stock_earnings = EXCLUDED.stock_earnings,
		stock_capital_reserve = EXCLUDED.stock_capital_reserve, stock_total = EXCLUDED.stock_total,
		sum = EXCLUDED.sum;`

	_, err := s.Pool.Exec(ctx, upsertSQL, securityCode, yearOfDividend, cashEarnings, cashCapital, cashTotal,
		stockEarnings, stockCapital, stockTotal, sum, dates)
	return err
}

// NeedingAnnualTotal returns symbols for year Y with no annual-total row
// yet, used by dividend sub-flow A step 1.
func (s *Store) NeedingAnnualTotal(ctx context.Context, yearOfDividend int) ([]string, error) {
	const sql = `SELECT DISTINCT security_code FROM dividends d1
		WHERE d1.year_of_dividend = $1 AND NOT EXISTS (
			SELECT 1 FROM dividends d2
			WHERE d2.security_code = d1.security_code AND d2.year_of_dividend = $1 AND d2.quarter = ''
		);`
	var out []string
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, yearOfDividend); err != nil {
		return nil, err
	}
	return out, nil
}

// MultiQuarterSymbols returns (symbol, dedup keys) for symbols that
// already carry more than one quarterly row for year Y, used by
// sub-flow A step 1's dedup-set construction.
func (s *Store) MultiQuarterSymbols(ctx context.Context, yearOfDividend int) (map[string][]model.DividendKey, error) {
	const sql = `SELECT security_code, quarter FROM dividends
		WHERE year_of_dividend = $1 AND quarter <> ''
		ORDER BY security_code;`

	rows, err := s.Pool.Query(ctx, sql, yearOfDividend)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string][]model.DividendKey)
	for rows.Next() {
		var symbol, quarter string
		if err := rows.Scan(&symbol, &quarter); err != nil {
			return nil, err
		}
		counts[symbol] = append(counts[symbol], model.DividendKey{
			SecurityCode: symbol, YearOfDividend: yearOfDividend, Quarter: model.Quarter(quarter),
		})
	}

	out := make(map[string][]model.DividendKey)
	for symbol, keys := range counts {
		if len(keys) > 1 {
			out[symbol] = keys
		}
	}
	return out, rows.Err()
}

// DividendsNeedingPayout returns every dividend row for yearOfDividend
// whose payout ratio has never been computed (a nonzero distribution
// with a still-zero cash_payout_ratio), used by the 18:30 payout-ratio
// recompute backfill job.
func (s *Store) DividendsNeedingPayout(ctx context.Context, yearOfDividend int) ([]model.Dividend, error) {
	const sql = `SELECT * FROM dividends
		WHERE year_of_dividend = $1 AND cash_total > 0 AND cash_payout_ratio = 0;`
	var out []model.Dividend
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, yearOfDividend); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePayoutRatio applies freshly-recomputed payout ratios to one
// dividend row.
func (s *Store) UpdatePayoutRatio(ctx context.Context, securityCode string, year int, quarter model.Quarter, cashRatio, stockRatio decimal.Decimal) error {
	const sql = `UPDATE dividends SET cash_payout_ratio = $4, stock_payout_ratio = $5
		WHERE security_code = $1 AND year = $2 AND quarter = $3;`
	_, err := s.Pool.Exec(ctx, sql, securityCode, year, string(quarter), cashRatio, stockRatio)
	return err
}

// ExDividendOnDate returns every dividend row whose ex-dividend date
// (cash or stock variant) matches dateStr, used by the 00:00 ex-dividend-
// day reminder.
func (s *Store) ExDividendOnDate(ctx context.Context, dateStr string) ([]model.Dividend, error) {
	const sql = `SELECT * FROM dividends WHERE ex_dividend_date_1 = $1 OR ex_dividend_date_2 = $1;`
	var out []model.Dividend
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, dateStr); err != nil {
		return nil, err
	}
	return out, nil
}

// PayableOnDate returns every dividend row whose payable date (cash or
// stock variant) matches dateStr, used by the 00:00 payable-date
// reminder.
func (s *Store) PayableOnDate(ctx context.Context, dateStr string) ([]model.Dividend, error) {
	const sql = `SELECT * FROM dividends WHERE payable_date_1 = $1 OR payable_date_2 = $1;`
	var out []model.Dividend
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, dateStr); err != nil {
		return nil, err
	}
	return out, nil
}

// UnannouncedRows returns every dividend row for year Y whose date
// fields still carry the "not yet announced" sentinel, used by sub-flow
// B step 1.
func (s *Store) UnannouncedRows(ctx context.Context, year int) ([]model.Dividend, error) {
	const sql = `SELECT * FROM dividends
		WHERE year = $1 AND (
			ex_dividend_date_1 = $2 OR ex_dividend_date_2 = $2 OR
			payable_date_1 = $2 OR payable_date_2 = $2
		);`
	var out []model.Dividend
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, year, model.NotYetAnnounced); err != nil {
		return nil, err
	}
	return out, nil
}
