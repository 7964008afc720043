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
)

// annualProfitSource is the subset of source.AnnualProfitSource the
// annual-EPS backfill needs.
type annualProfitSource interface {
	AnnualProfit(ctx context.Context, year int) (map[string]decimal.Decimal, error)
}

// AnnualEps is one of the seven 21:00 parallel backfill jobs:
// the prior calendar year's annual EPS/profit figures are re-fetched
// once audited annual reports are out.
type AnnualEps struct {
	Store  epsStore
	Source annualProfitSource
	Log    zerolog.Logger
}

func (a *AnnualEps) Name() string { return "annual_eps_backfill" }

func (a *AnnualEps) Run(ctx context.Context) error {
	year := time.Now().UTC().Year() - 1

	rows, err := a.Source.AnnualProfit(ctx, year)
	if err != nil {
		return fmt.Errorf("annual eps backfill: fetch: %w", err)
	}

	var errs *multierror.Error
	for symbol, eps := range rows {
		if err := a.Store.UpdateEps(ctx, symbol, eps); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errs.ErrorOrNil()
}
