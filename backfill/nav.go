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

// Package backfill holds the cron-triggered idempotent jobs registered
// against the scheduler: one file per job, each a small struct
// implementing scheduler.Job. Grounded on the closing/dividend
// pipelines' own per-symbol-failure-never-aborts-the-batch discipline,
// collected here with hashicorp/go-multierror instead of errgroup since
// these jobs have no cross-goroutine fan-out of their own.
package backfill

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// navSource is the subset of source.NavSource the NAV backfill needs.
type navSource interface {
	NetAssetValue(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// navStore is the subset of *store.Store the NAV backfill and the
// zero-NAV rescan need.
type navStore interface {
	EmergingSymbols(ctx context.Context) ([]string, error)
	ZeroNavSymbols(ctx context.Context) ([]string, error)
	UpdateNav(ctx context.Context, symbol string, nav decimal.Decimal) error
}

// Nav runs the 17:00 daily emerging-market NAV backfill:
// every non-suspended emerging-market symbol gets a fresh
// net-asset-value-per-share from Source.
type Nav struct {
	Store  navStore
	Source navSource
	Log    zerolog.Logger
}

func (n *Nav) Name() string { return "nav_backfill_emerging" }

func (n *Nav) Run(ctx context.Context) error {
	symbols, err := n.Store.EmergingSymbols(ctx)
	if err != nil {
		return fmt.Errorf("nav backfill: list emerging symbols: %w", err)
	}

	var errs *multierror.Error
	for _, symbol := range symbols {
		nav, err := n.Source.NetAssetValue(ctx, symbol)
		if err != nil {
			n.Log.Warn().Err(err).Str("symbol", symbol).Msg("nav fetch failed")
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
			continue
		}
		if err := n.Store.UpdateNav(ctx, symbol, nav); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errs.ErrorOrNil()
}
