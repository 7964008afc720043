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

// financialStatementSource is the subset of source.FinancialStatementSource
// the financial-statement backfill needs.
type financialStatementSource interface {
	FinancialStatements(ctx context.Context, year int, quarter string) ([]model.FinancialStatement, error)
}

// financialStatementStore is the subset of *store.Store the
// financial-statement backfill needs.
type financialStatementStore interface {
	UpsertFinancialStatement(ctx context.Context, fs model.FinancialStatement) error
	UpdateReturnOnEquity(ctx context.Context, symbol string, roe decimal.Decimal) error
}

// FinancialStatement runs either the 20:00 quarterly backfill or, with
// Annual set, the 21:00 fan-out's annual variant. Both share
// the same upsert-and-mirror-ROE shape; only the requested period
// differs.
type FinancialStatement struct {
	Store  financialStatementStore
	Source financialStatementSource
	Annual bool
	Log    zerolog.Logger
}

func (f *FinancialStatement) Name() string {
	if f.Annual {
		return "annual_financial_statement_backfill"
	}
	return "quarterly_financial_statement_backfill"
}

func (f *FinancialStatement) Run(ctx context.Context) error {
	year, quarter := currentQuarter(time.Now().UTC())
	if f.Annual {
		quarter = ""
	}

	rows, err := f.Source.FinancialStatements(ctx, year, quarter)
	if err != nil {
		return fmt.Errorf("financial statement backfill: fetch: %w", err)
	}

	var errs *multierror.Error
	for _, fs := range rows {
		if err := f.Store.UpsertFinancialStatement(ctx, fs); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", fs.SecurityCode, err))
			continue
		}
		if err := f.Store.UpdateReturnOnEquity(ctx, fs.SecurityCode, fs.ReturnOnEquity); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: roe mirror: %w", fs.SecurityCode, err))
		}
	}
	return errs.ErrorOrNil()
}
