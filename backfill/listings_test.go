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
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twstock/stockwatch/cache"
	"github.com/twstock/stockwatch/model"
)

type fakeListingsSource struct {
	byMarket map[model.Market][]model.Listing
	failFor  map[model.Market]bool
}

func (f *fakeListingsSource) List(ctx context.Context, market model.Market) ([]model.Listing, error) {
	if f.failFor[market] {
		return nil, errors.New("fetch failed")
	}
	return f.byMarket[market], nil
}

type fakeListingsStore struct {
	upserted []string
	industry map[string]int
}

func newFakeListingsStore() *fakeListingsStore {
	return &fakeListingsStore{industry: map[string]int{}}
}

func (f *fakeListingsStore) UpsertListing(ctx context.Context, symbol, name string, market model.Market, industryID int) error {
	f.upserted = append(f.upserted, symbol)
	f.industry[symbol] = industryID
	return nil
}

func TestListingsRegistersNewIndustriesAcrossAllThreeMarkets(t *testing.T) {
	src := &fakeListingsSource{byMarket: map[model.Market][]model.Listing{
		model.MarketListed:         {{Symbol: "2330", Industry: "Semiconductors"}},
		model.MarketOverTheCounter: {{Symbol: "6598", Industry: "Biotech"}},
		model.MarketEmerging:       {{Symbol: "7777", Industry: "Semiconductors"}},
	}}
	st := newFakeListingsStore()
	refCache := cache.New()

	l := &Listings{Store: st, Cache: refCache, Source: src, Log: zerolog.Nop()}
	err := l.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, st.upserted, 3)
	assert.Equal(t, st.industry["2330"], st.industry["7777"], "same industry name must resolve to the same id")
	assert.NotEqual(t, st.industry["2330"], st.industry["6598"])
}

type fakeStockPusher struct {
	pushed []model.Stock
}

func (f *fakeStockPusher) PushStockUpdate(stock model.Stock) {
	f.pushed = append(f.pushed, stock)
}

func TestListingsPushesEverySuccessfulUpsertToRPCClient(t *testing.T) {
	src := &fakeListingsSource{byMarket: map[model.Market][]model.Listing{
		model.MarketListed: {{Symbol: "2330", Name: "TSMC", Industry: "Semiconductors"}},
	}}
	st := newFakeListingsStore()
	refCache := cache.New()
	pusher := &fakeStockPusher{}

	l := &Listings{Store: st, Cache: refCache, Source: src, RPC: pusher, Log: zerolog.Nop()}
	require.NoError(t, l.Run(context.Background()))

	require.Len(t, pusher.pushed, 1)
	assert.Equal(t, "2330", pusher.pushed[0].StockSymbol)
	assert.Equal(t, "TSMC", pusher.pushed[0].Name)
}

func TestListingsToleratesNilRPCClient(t *testing.T) {
	src := &fakeListingsSource{byMarket: map[model.Market][]model.Listing{
		model.MarketListed: {{Symbol: "2330", Industry: "Semiconductors"}},
	}}
	st := newFakeListingsStore()
	refCache := cache.New()

	l := &Listings{Store: st, Cache: refCache, Source: src, Log: zerolog.Nop()}
	require.NoError(t, l.Run(context.Background()))
}

func TestListingsCollectsPerMarketFetchFailures(t *testing.T) {
	src := &fakeListingsSource{failFor: map[model.Market]bool{model.MarketListed: true}}
	st := newFakeListingsStore()
	refCache := cache.New()

	l := &Listings{Store: st, Cache: refCache, Source: src, Log: zerolog.Nop()}
	err := l.Run(context.Background())

	assert.Error(t, err)
}
