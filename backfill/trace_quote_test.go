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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twstock/stockwatch/cache"
	"github.com/twstock/stockwatch/model"
)

type fakeTraceNotifier struct {
	messages []string
}

func (f *fakeTraceNotifier) Send(msg string) error {
	f.messages = append(f.messages, msg)
	return nil
}

func TestTraceQuoteNotifiesOnlyPastThreshold(t *testing.T) {
	refCache := cache.New()
	refCache.SetStock(model.Stock{StockSymbol: "2330"})
	refCache.SetStock(model.Stock{StockSymbol: "1101"})
	refCache.SetLastPrice(model.LastDailyQuote{StockSymbol: "2330", Closing: decimal.NewFromInt(102)})
	refCache.SetLastPrice(model.LastDailyQuote{StockSymbol: "1101", Closing: decimal.NewFromInt(100)})

	ttl := cache.NewTTL[decimal.Decimal](16, time.Hour)
	ttl.Set("2330", decimal.NewFromInt(100))
	ttl.Set("1101", decimal.NewFromInt(100))

	notifier := &fakeTraceNotifier{}
	tq := &TraceQuote{Cache: refCache, Notify: ttl, Notifier: notifier, Log: zerolog.Nop()}
	require.NoError(t, tq.Run(context.Background()))

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "2330")
	assert.NotContains(t, notifier.messages[0], "1101")
}

func TestTraceQuoteSendsNothingWhenNoSymbolMoved(t *testing.T) {
	refCache := cache.New()
	refCache.SetStock(model.Stock{StockSymbol: "2330"})
	refCache.SetLastPrice(model.LastDailyQuote{StockSymbol: "2330", Closing: decimal.NewFromInt(100)})

	ttl := cache.NewTTL[decimal.Decimal](16, time.Hour)
	ttl.Set("2330", decimal.NewFromInt(100))

	notifier := &fakeTraceNotifier{}
	tq := &TraceQuote{Cache: refCache, Notify: ttl, Notifier: notifier, Log: zerolog.Nop()}
	require.NoError(t, tq.Run(context.Background()))

	assert.Empty(t, notifier.messages)
}

func TestTraceQuoteToleratesNilNotifier(t *testing.T) {
	refCache := cache.New()
	refCache.SetStock(model.Stock{StockSymbol: "2330"})
	refCache.SetLastPrice(model.LastDailyQuote{StockSymbol: "2330", Closing: decimal.NewFromInt(200)})

	ttl := cache.NewTTL[decimal.Decimal](16, time.Hour)

	tq := &TraceQuote{Cache: refCache, Notify: ttl, Log: zerolog.Nop()}
	require.NoError(t, tq.Run(context.Background()))
}
