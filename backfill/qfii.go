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

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/twstock/stockwatch/cache"
)

// qfiiSource is the subset of source.QfiiSource the QFII backfill needs.
type qfiiSource interface {
	Holdings(ctx context.Context, symbol string) (shares int64, percent decimal.Decimal, err error)
}

// qfiiStore is the subset of *store.Store the QFII backfill needs.
type qfiiStore interface {
	UpdateForeignHolding(ctx context.Context, symbol string, shares int64, percent decimal.Decimal) error
}

// Qfii runs the 14:00 daily qualified-foreign-institutional-investor
// holdings backfill, one fetch per listed, non-suspended
// symbol already known to the reference cache.
type Qfii struct {
	Store  qfiiStore
	Cache  *cache.Reference
	Source qfiiSource
	Log    zerolog.Logger
}

func (q *Qfii) Name() string { return "qfii_holdings_backfill" }

func (q *Qfii) Run(ctx context.Context) error {
	var errs *multierror.Error
	for symbol, stock := range q.Cache.AllStocks() {
		if stock.Suspended {
			continue
		}
		shares, percent, err := q.Source.Holdings(ctx, symbol)
		if err != nil {
			q.Log.Warn().Err(err).Str("symbol", symbol).Msg("qfii holdings fetch failed")
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
			continue
		}
		if err := q.Store.UpdateForeignHolding(ctx, symbol, shares, percent); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errs.ErrorOrNil()
}
