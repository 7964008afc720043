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
package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/twstock/stockwatch/model"
)

// payoutStore is the subset of *store.Store the payout-ratio recompute
// needs.
type payoutStore interface {
	DividendsNeedingPayout(ctx context.Context, yearOfDividend int) ([]model.Dividend, error)
	StockBySymbol(ctx context.Context, symbol string) (model.Stock, bool, error)
	UpdatePayoutRatio(ctx context.Context, securityCode string, year int, quarter model.Quarter, cashRatio, stockRatio decimal.Decimal) error
}

// PayoutRatio runs the 18:30 daily payout-ratio recompute:
// every dividend row still carrying an un-computed cash payout ratio for
// the current year-of-dividend gets cash_total/stock_total divided
// against the issuing Stock's trailing-four-quarter EPS, the same ratio
// the Dividend invariant in §3 names without specifying the formula.
type PayoutRatio struct {
	Store payoutStore
	Log   zerolog.Logger
}

func (p *PayoutRatio) Name() string { return "payout_ratio_recompute" }

func (p *PayoutRatio) Run(ctx context.Context) error {
	year := time.Now().UTC().Year()

	rows, err := p.Store.DividendsNeedingPayout(ctx, year)
	if err != nil {
		return fmt.Errorf("payout ratio: list rows needing recompute: %w", err)
	}

	var errs *multierror.Error
	for _, row := range rows {
		stock, ok, err := p.Store.StockBySymbol(ctx, row.SecurityCode)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", row.SecurityCode, err))
			continue
		}
		if !ok || stock.EpsLastFourQuarters.IsZero() {
			continue
		}

		cashRatio := row.CashTotal.Div(stock.EpsLastFourQuarters)
		stockRatio := row.StockTotal.Div(stock.EpsLastFourQuarters)

		if err := p.Store.UpdatePayoutRatio(ctx, row.SecurityCode, row.Year, row.Quarter, cashRatio, stockRatio); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", row.SecurityCode, err))
		}
	}
	return errs.ErrorOrNil()
}
