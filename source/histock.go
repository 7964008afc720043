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

	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/httpfabric"
)

// HiStock adapts the HiStock quote API — a fourth multiplexer-eligible
// QuoteSource, widening the failover pool.
type HiStock struct {
	BaseURL string
}

func NewHiStock() *HiStock {
	return &HiStock{BaseURL: "https://histock.tw/api"}
}

func (h *HiStock) Name() string { return "histock" }

type histockQuoteResponse struct {
	Price  string `json:"Price"`
	Change string `json:"Change"`
}

// GetStockPrice implements QuoteSource.
func (h *HiStock) GetStockPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := h.GetStockQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

// GetStockQuote implements QuoteSource.
func (h *HiStock) GetStockQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/stock/quote/%s", h.BaseURL, symbol)
	var resp histockQuoteResponse
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &resp); err != nil {
		return Quote{}, unavailable(err)
	}
	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return Quote{}, parseFailed("price: " + err.Error())
	}
	change, _ := decimal.NewFromString(resp.Change)
	return Quote{Symbol: symbol, Price: price, Change: change}, nil
}
