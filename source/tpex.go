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
	"time"

	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/httpfabric"
	"github.com/twstock/stockwatch/model"
)

// TPEx adapts the Taipei Exchange's (over-the-counter market) public
// endpoints. Implements DailyQuoteSource and QuoteSource, built on the
// same httpfabric.GetJSON idiom as TWSE; the closing pipeline fetches
// both separately and merges their rows.
type TPEx struct {
	BaseURL string
}

func NewTPEx() *TPEx {
	return &TPEx{BaseURL: "https://www.tpex.org.tw"}
}

func (t *TPEx) Name() string { return "tpex" }

type tpexClosingRow struct {
	Symbol  string `json:"Code"`
	Closing string `json:"Close"`
}

// FetchClosing implements DailyQuoteSource for the TPEx exchange.
func (t *TPEx) FetchClosing(ctx context.Context, date time.Time) ([]model.DailyQuote, error) {
	url := fmt.Sprintf("%s/web/stock/aftertrading/otc_quotes_no1430/stk_wn1430_result.php?d=%s",
		t.BaseURL, date.Format("2006/01/02"))

	var rows []tpexClosingRow
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}

	quotes := make([]model.DailyQuote, 0, len(rows))
	for _, r := range rows {
		closing, err := decimal.NewFromString(r.Closing)
		if err != nil {
			continue
		}
		quotes = append(quotes, model.DailyQuote{StockSymbol: r.Symbol, Date: date, Closing: closing})
	}
	return quotes, nil
}

// GetStockPrice implements QuoteSource.
func (t *TPEx) GetStockPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := t.GetStockQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

type tpexQuoteResponse struct {
	Price string `json:"Close"`
}

// GetStockQuote implements QuoteSource.
func (t *TPEx) GetStockQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/web/stock/realtime/quote.php?l=zh-tw&c=%s", t.BaseURL, symbol)
	var resp tpexQuoteResponse
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &resp); err != nil {
		return Quote{}, unavailable(err)
	}
	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return Quote{}, parseFailed("price: " + err.Error())
	}
	return Quote{Symbol: symbol, Price: price}, nil
}
