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
)

// ZeroNavRescan is one of the seven 21:00 parallel backfill jobs: any
// non-suspended symbol still carrying a zero net-asset-value-per-share
// gets a retry against the same NavSource the 17:00 job uses, ported
// from original_source/src/internal/backfill/net_asset_value_per_share/zero_value.rs.
type ZeroNavRescan struct {
	Store  navStore
	Source navSource
	Log    zerolog.Logger
}

func (z *ZeroNavRescan) Name() string { return "zero_nav_rescan" }

func (z *ZeroNavRescan) Run(ctx context.Context) error {
	symbols, err := z.Store.ZeroNavSymbols(ctx)
	if err != nil {
		return fmt.Errorf("zero nav rescan: list zero-nav symbols: %w", err)
	}

	var errs *multierror.Error
	for _, symbol := range symbols {
		nav, err := z.Source.NetAssetValue(ctx, symbol)
		if err != nil {
			z.Log.Warn().Err(err).Str("symbol", symbol).Msg("zero-nav rescan fetch failed")
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
			continue
		}
		if nav.IsZero() {
			continue
		}
		if err := z.Store.UpdateNav(ctx, symbol, nav); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errs.ErrorOrNil()
}
