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
package cache

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/twstock/stockwatch/model"
)

func TestSetStockLastPriceMutatesOneEntry(t *testing.T) {
	r := New()
	r.SetLastPrice(model.LastDailyQuote{StockSymbol: "2330", Closing: decimal.NewFromInt(100)})
	r.SetLastPrice(model.LastDailyQuote{StockSymbol: "2317", Closing: decimal.NewFromInt(50)})

	r.SetLastPrice(model.LastDailyQuote{StockSymbol: "2330", Closing: decimal.NewFromInt(101)})

	q, ok := r.LastQuote("2330")
	assert.True(t, ok)
	assert.True(t, q.Closing.Equal(decimal.NewFromInt(101)))

	q2, ok := r.LastQuote("2317")
	assert.True(t, ok)
	assert.True(t, q2.Closing.Equal(decimal.NewFromInt(50)))
}

func TestRevenuesKeepsOnlyTwoMostRecentMonths(t *testing.T) {
	r := New()
	r.SetRevenues("202401", map[string]model.Revenue{"2330": {StockSymbol: "2330", YearMonth: "202401"}})
	r.SetRevenues("202402", map[string]model.Revenue{"2330": {StockSymbol: "2330", YearMonth: "202402"}})
	r.SetRevenues("202403", map[string]model.Revenue{"2330": {StockSymbol: "2330", YearMonth: "202403"}})

	_, ok := r.Revenue("202401", "2330")
	assert.False(t, ok, "oldest month should have been evicted")

	_, ok = r.Revenue("202403", "2330")
	assert.True(t, ok)
}

func TestRegisterIndustryAssignsStableIdsAndGrowsInPlace(t *testing.T) {
	r := New()

	first := r.RegisterIndustry("Semiconductors")
	second := r.RegisterIndustry("Biotech")
	again := r.RegisterIndustry("Semiconductors")

	assert.Equal(t, first, again, "re-registering the same name must return the same id")
	assert.NotEqual(t, first, second)

	name, ok := r.IndustryName(first)
	assert.True(t, ok)
	assert.Equal(t, "Semiconductors", name)

	name, ok = r.IndustryName(second)
	assert.True(t, ok)
	assert.Equal(t, "Biotech", name)
}
