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

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/twstock/stockwatch/cache"
)

// traceNotifier is the subset of notify.Telegram the trace-quote
// evaluation needs.
type traceNotifier interface {
	Send(msg string) error
}

// traceMoveThreshold is the minimum fractional move away from the
// last-notified price before a symbol is re-notified — the debounce
// contract that backs the trace-quote notifier's debounce state
// without specifying the exact band.
var traceMoveThreshold = decimal.NewFromFloat(0.01)

// TraceQuote runs the 01:00 daily trace-quote evaluation:
// every cached last-day quote that has moved past traceMoveThreshold
// since it was last notified is reported, and the TTL cache is updated
// so the same move isn't reported again until it moves further.
type TraceQuote struct {
	Cache    *cache.Reference
	Notify   *cache.TTL[decimal.Decimal]
	Notifier traceNotifier
	Log      zerolog.Logger
}

func (t *TraceQuote) Name() string { return "trace_quote_evaluation" }

func (t *TraceQuote) Run(ctx context.Context) error {
	var moved []string

	for symbol := range t.Cache.AllStocks() {
		quote, ok := t.Cache.LastQuote(symbol)
		if !ok || quote.Closing.IsZero() {
			continue
		}

		prevPrice, hadPrev := t.Notify.Get(symbol)
		if hadPrev {
			delta := quote.Closing.Sub(prevPrice).Abs().Div(prevPrice)
			if delta.LessThan(traceMoveThreshold) {
				continue
			}
		}

		t.Notify.Set(symbol, quote.Closing)
		moved = append(moved, fmt.Sprintf("%s: %s", symbol, quote.Closing.String()))
	}

	if len(moved) == 0 || t.Notifier == nil {
		return nil
	}

	msg := "trace-quote thresholds crossed:\n"
	for _, line := range moved {
		msg += line + "\n"
	}
	return t.Notifier.Send(msg)
}
