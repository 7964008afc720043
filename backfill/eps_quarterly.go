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

// epsSource is the subset of source.EpsSource the EPS backfill needs.
type epsSource interface {
	Eps(ctx context.Context, year int, quarter string) (map[string]decimal.Decimal, error)
}

// epsStore is the subset of *store.Store the EPS backfill needs.
type epsStore interface {
	UpdateEps(ctx context.Context, symbol string, eps decimal.Decimal) error
}

// EpsQuarterly runs the 19:00 daily quarterly-EPS backfill.
// Primary is tried first; Secondary is a second, independent publication
// consulted only for symbols Primary's response omitted, mirroring the
// multi-source resilience the quote multiplexer applies to live quotes.
type EpsQuarterly struct {
	Store     epsStore
	Primary   epsSource
	Secondary epsSource
	Log       zerolog.Logger
}

func (e *EpsQuarterly) Name() string { return "eps_quarterly_backfill" }

func (e *EpsQuarterly) Run(ctx context.Context) error {
	year, quarter := currentQuarter(time.Now().UTC())

	merged := make(map[string]decimal.Decimal)
	if e.Primary != nil {
		rows, err := e.Primary.Eps(ctx, year, quarter)
		if err != nil {
			e.Log.Warn().Err(err).Msg("primary eps source failed")
		}
		for symbol, eps := range rows {
			merged[symbol] = eps
		}
	}
	if e.Secondary != nil {
		rows, err := e.Secondary.Eps(ctx, year, quarter)
		if err != nil {
			e.Log.Warn().Err(err).Msg("secondary eps source failed")
		}
		for symbol, eps := range rows {
			if _, ok := merged[symbol]; !ok {
				merged[symbol] = eps
			}
		}
	}

	var errs *multierror.Error
	for symbol, eps := range merged {
		if err := e.Store.UpdateEps(ctx, symbol, eps); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errs.ErrorOrNil()
}

// currentQuarter maps a calendar month to the most recently closed
// fiscal quarter, the one quarterly reports are actually published for.
func currentQuarter(now time.Time) (int, string) {
	year := now.Year()
	switch now.Month() {
	case time.January, time.February, time.March, time.April, time.May:
		return year - 1, "Q4"
	case time.June, time.July, time.August:
		return year, "Q1"
	case time.September, time.October:
		return year, "Q2"
	default:
		return year, "Q3"
	}
}
