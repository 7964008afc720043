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
	"github.com/twstock/stockwatch/model"
)

// Yahoo adapts Yahoo! Finance Taiwan. It implements QuoteSource and
// DividendSource — the latter used by the dividend pipeline's
// unannounced-date follow-up sub-flow.
type Yahoo struct {
	BaseURL string
}

func NewYahoo() *Yahoo {
	return &Yahoo{BaseURL: "https://tw.stock.yahoo.com"}
}

func (y *Yahoo) Name() string { return "yahoo" }

type yahooQuoteResponse struct {
	Price  float64 `json:"regularMarketPrice"`
	Change float64 `json:"regularMarketChange"`
}

// GetStockPrice implements QuoteSource.
func (y *Yahoo) GetStockPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := y.GetStockQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

// GetStockQuote implements QuoteSource.
func (y *Yahoo) GetStockQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/quote/%s.TW", y.BaseURL, symbol)
	var resp yahooQuoteResponse
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &resp); err != nil {
		return Quote{}, unavailable(err)
	}
	return Quote{Symbol: symbol, Price: decimal.NewFromFloat(resp.Price), Change: decimal.NewFromFloat(resp.Change)}, nil
}

type yahooDividendRow struct {
	Year           int    `json:"year"`
	YearOfDividend int    `json:"yearOfDividend"`
	Quarter        string `json:"quarter"`
	ExDividendDate string `json:"exDividendDate"`
	PayableDate    string `json:"payableDate"`
	CashTotal      string `json:"cashDividend"`
}

// Dividends implements DividendSource against Yahoo's dividend-history
// endpoint, used both by sub-flow A's Yahoo-class fetch and sub-flow B's
// unannounced-date resolution.
func (y *Yahoo) Dividends(ctx context.Context, symbol string) ([]model.DividendDetail, error) {
	url := fmt.Sprintf("%s/quote/%s.TW/dividend", y.BaseURL, symbol)
	var rows []yahooDividendRow
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}

	out := make([]model.DividendDetail, 0, len(rows))
	for _, r := range rows {
		cash, err := decimal.NewFromString(r.CashTotal)
		if err != nil {
			continue
		}
		out = append(out, model.DividendDetail{Dividend: model.Dividend{
			SecurityCode:    symbol,
			Year:            r.Year,
			YearOfDividend:  r.YearOfDividend,
			Quarter:         model.Quarter(r.Quarter),
			CashTotal:       cash,
			Sum:             cash,
			ExDividendDate1: r.ExDividendDate,
			PayableDate1:    r.PayableDate,
		}})
	}
	return out, nil
}

type yahooProfileResponse struct {
	NetAssetValuePerShare string `json:"netAssetValuePerShare"`
}

// NetAssetValue implements NavSource against Yahoo's profile page,
// normalized here to the same JSON shape as the rest of this file (the
// original crawler scraped the "每股淨值" row out of the rendered HTML
// profile table; site markup is schema, not design). Feeds the 17:00
// emerging-market NAV backfill and the 21:00 zero-NAV rescan.
func (y *Yahoo) NetAssetValue(ctx context.Context, symbol string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/quote/%s.TW/profile", y.BaseURL, symbol)
	var resp yahooProfileResponse
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &resp); err != nil {
		return decimal.Zero, unavailable(err)
	}
	nav, err := decimal.NewFromString(resp.NetAssetValuePerShare)
	if err != nil {
		return decimal.Zero, parseFailed("net asset value: " + err.Error())
	}
	return nav, nil
}
