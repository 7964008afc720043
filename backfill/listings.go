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

	"github.com/twstock/stockwatch/cache"
	"github.com/twstock/stockwatch/model"
)

// listingsSource is the subset of source.ListingsSource the listings
// refresh needs.
type listingsSource interface {
	List(ctx context.Context, market model.Market) ([]model.Listing, error)
}

// listingsStore is the subset of *store.Store the listings refresh
// needs.
type listingsStore interface {
	UpsertListing(ctx context.Context, symbol, name string, market model.Market, industryID int) error
}

// stockPusher is the subset of *rpcclient.Client the listings refresh
// needs to notify the sibling service of master-row mutations.
type stockPusher interface {
	PushStockUpdate(stock model.Stock)
}

// Listings is one of the seven 21:00 parallel backfill jobs:
// fetches the full listed+OTC+emerging roster and upserts master rows
// for every symbol, registering any industry name the reference cache
// has not seen before. Every successful upsert is also pushed to the
// sibling service over RPC when a client is configured.
type Listings struct {
	Store  listingsStore
	Cache  *cache.Reference
	Source listingsSource
	RPC    stockPusher
	Log    zerolog.Logger
}

func (l *Listings) Name() string { return "listings_refresh_backfill" }

var listingsMarkets = []model.Market{model.MarketListed, model.MarketOverTheCounter, model.MarketEmerging}

func (l *Listings) Run(ctx context.Context) error {
	var errs *multierror.Error
	for _, market := range listingsMarkets {
		rows, err := l.Source.List(ctx, market)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("list %s: %w", market, err))
			continue
		}
		for _, row := range rows {
			industryID := l.Cache.RegisterIndustry(row.Industry)
			if err := l.Store.UpsertListing(ctx, row.Symbol, row.Name, row.Market, industryID); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", row.Symbol, err))
				continue
			}
			if l.RPC != nil {
				l.RPC.PushStockUpdate(model.Stock{StockSymbol: row.Symbol, Name: row.Name, Market: row.Market})
			}
		}
	}
	return errs.ErrorOrNil()
}
