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

// CNYES adapts the Anue (cnyes) real-time quote API — a third QuoteSource
// registered in the multiplexer alongside TWSE and TPEx to widen the
// failover pool.
type CNYES struct {
	BaseURL string
}

func NewCNYES() *CNYES {
	return &CNYES{BaseURL: "https://ws.api.cnyes.com/ws/api/v1"}
}

func (c *CNYES) Name() string { return "cnyes" }

type cnyesQuoteResponse struct {
	Data struct {
		Quote struct {
			Price  float64 `json:"1100500"`
			Change float64 `json:"11006"`
		} `json:"quote"`
	} `json:"data"`
}

// GetStockPrice implements QuoteSource.
func (c *CNYES) GetStockPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := c.GetStockQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

// GetStockQuote implements QuoteSource.
func (c *CNYES) GetStockQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/quote/quote/TWS:%s:STOCK", c.BaseURL, symbol)
	var resp cnyesQuoteResponse
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &resp); err != nil {
		return Quote{}, unavailable(err)
	}
	return Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(resp.Data.Quote.Price),
		Change: decimal.NewFromFloat(resp.Data.Quote.Change),
	}, nil
}
