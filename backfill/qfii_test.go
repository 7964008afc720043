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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twstock/stockwatch/cache"
	"github.com/twstock/stockwatch/model"
)

type fakeQfiiSource struct {
	shares  map[string]int64
	percent map[string]decimal.Decimal
	failFor map[string]bool
	calls   []string
}

func (f *fakeQfiiSource) Holdings(ctx context.Context, symbol string) (int64, decimal.Decimal, error) {
	f.calls = append(f.calls, symbol)
	if f.failFor[symbol] {
		return 0, decimal.Zero, errors.New("fetch failed")
	}
	return f.shares[symbol], f.percent[symbol], nil
}

type fakeQfiiStore struct {
	updated map[string]int64
}

func newFakeQfiiStore() *fakeQfiiStore { return &fakeQfiiStore{updated: map[string]int64{}} }

func (f *fakeQfiiStore) UpdateForeignHolding(ctx context.Context, symbol string, shares int64, percent decimal.Decimal) error {
	f.updated[symbol] = shares
	return nil
}

func TestQfiiRunSkipsSuspendedSymbols(t *testing.T) {
	refCache := cache.New()
	refCache.SetStock(model.Stock{StockSymbol: "2330"})
	refCache.SetStock(model.Stock{StockSymbol: "9999", Suspended: true})

	src := &fakeQfiiSource{shares: map[string]int64{"2330": 1000}}
	st := newFakeQfiiStore()

	q := &Qfii{Store: st, Cache: refCache, Source: src, Log: zerolog.Nop()}
	require.NoError(t, q.Run(context.Background()))

	assert.Contains(t, st.updated, "2330")
	assert.NotContains(t, st.updated, "9999")
	assert.NotContains(t, src.calls, "9999")
}

func TestQfiiRunCollectsFetchFailures(t *testing.T) {
	refCache := cache.New()
	refCache.SetStock(model.Stock{StockSymbol: "2330"})

	src := &fakeQfiiSource{failFor: map[string]bool{"2330": true}}
	st := newFakeQfiiStore()

	q := &Qfii{Store: st, Cache: refCache, Source: src, Log: zerolog.Nop()}
	err := q.Run(context.Background())

	assert.Error(t, err)
}
