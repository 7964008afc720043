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
package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/httpfabric"
)

// Fugle adapts the Fugle real-time quote API. It is the only QuoteSource
// that participates in a local sliding-window rate limiter.
type Fugle struct {
	BaseURL string
	APIKey  string
	limiter *FugleLimiter
}

func NewFugle(apiKey string) *Fugle {
	return &Fugle{BaseURL: "https://api.fugle.tw/marketdata/v1.0/stock", APIKey: apiKey, limiter: NewFugleLimiter()}
}

func (f *Fugle) Name() string { return "fugle" }

type fugleQuoteResponse struct {
	Data struct {
		Price struct {
			LastPrice  float64 `json:"lastPrice"`
			Change     float64 `json:"change"`
			ChangeRate float64 `json:"changePercent"`
		} `json:"price"`
	} `json:"data"`
}

// GetStockPrice implements QuoteSource.
func (f *Fugle) GetStockPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := f.GetStockQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

// GetStockQuote implements QuoteSource. It first acquires the local
// sliding-window limiter; a remote 429 forces the limiter's cooldown so
// the multiplexer's next attempt to Fugle is short-circuited locally.
func (f *Fugle) GetStockQuote(ctx context.Context, symbol string) (Quote, error) {
	if err := f.limiter.Acquire(); err != nil {
		return Quote{}, rateLimited(err.Error())
	}

	url := fmt.Sprintf("%s/intraday/quote/%s", f.BaseURL, symbol)
	var resp fugleQuoteResponse
	var statusCode int
	client := httpfabric.Get()
	err := client.GetJSON(ctx, url, map[string]string{"X-API-KEY": f.APIKey}, &resp)
	if err != nil {
		if statusCode == http.StatusTooManyRequests {
			f.limiter.NotifyRemoteRateLimited()
			return Quote{}, rateLimited("remote 429")
		}
		return Quote{}, unavailable(err)
	}

	return Quote{
		Symbol:      symbol,
		Price:       decimal.NewFromFloat(resp.Data.Price.LastPrice),
		Change:      decimal.NewFromFloat(resp.Data.Price.Change),
		ChangeRange: decimal.NewFromFloat(resp.Data.Price.ChangeRate),
	}, nil
}
