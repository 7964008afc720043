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

// TWSE adapts the Taiwan Stock Exchange's public JSON endpoints. It
// implements DailyQuoteSource, ListingsSource, SuspendListingSource, and
// QuoteSource, built on httpfabric.GetJSON the same way every other
// site adapter in this package is.
type TWSE struct {
	BaseURL string
}

func NewTWSE() *TWSE {
	return &TWSE{BaseURL: "https://www.twse.com.tw"}
}

func (t *TWSE) Name() string { return "twse" }

type twseClosingResponse struct {
	Data [][]string `json:"data9"`
}

// FetchClosing implements DailyQuoteSource for the TWSE exchange.
func (t *TWSE) FetchClosing(ctx context.Context, date time.Time) ([]model.DailyQuote, error) {
	url := fmt.Sprintf("%s/exchangeReport/MI_INDEX?response=json&date=%s&type=ALL",
		t.BaseURL, date.Format("20060102"))

	var resp twseClosingResponse
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, unavailable(err)
	}

	quotes := make([]model.DailyQuote, 0, len(resp.Data))
	for _, row := range resp.Data {
		if len(row) < 9 {
			continue
		}
		dq, err := parseTwseRow(row, date)
		if err != nil {
			continue
		}
		quotes = append(quotes, dq)
	}
	return quotes, nil
}

func parseTwseRow(row []string, date time.Time) (model.DailyQuote, error) {
	closing, err := decimal.NewFromString(row[8])
	if err != nil {
		return model.DailyQuote{}, parseFailed("closing price: " + err.Error())
	}
	return model.DailyQuote{
		StockSymbol: row[0],
		Date:        date,
		Closing:     closing,
	}, nil
}

type twseListingRow struct {
	Symbol   string `json:"Code"`
	Name     string `json:"Name"`
	ISIN     string `json:"ISINCode"`
	Industry string `json:"Industry"`
}

// List implements ListingsSource for the TWSE market.
func (t *TWSE) List(ctx context.Context, market model.Market) ([]model.Listing, error) {
	url := t.BaseURL + "/company/suffix"
	var rows []twseListingRow
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}

	out := make([]model.Listing, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Listing{
			Symbol:   r.Symbol,
			Name:     r.Name,
			ISIN:     r.ISIN,
			Industry: r.Industry,
			Exchange: model.ExchangeTWSE,
			Market:   market,
		})
	}
	return out, nil
}

// SuspendedSymbols implements SuspendListingSource.
func (t *TWSE) SuspendedSymbols(ctx context.Context) (map[string]bool, error) {
	url := t.BaseURL + "/announcement/notice"
	var rows []struct {
		Symbol string `json:"Code"`
	}
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.Symbol] = true
	}
	return out, nil
}

// GetStockPrice implements QuoteSource.
func (t *TWSE) GetStockPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := t.GetStockQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

type twseQuoteResponse struct {
	Price  string `json:"z"`
	Change string `json:"c"`
}

// GetStockQuote implements QuoteSource.
func (t *TWSE) GetStockQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/exchangeReport/STOCK_DAY_AVG?stockNo=%s", t.BaseURL, symbol)
	var resp twseQuoteResponse
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &resp); err != nil {
		return Quote{}, unavailable(err)
	}
	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return Quote{}, parseFailed("price: " + err.Error())
	}
	return Quote{Symbol: symbol, Price: price}, nil
}

func parseTwseDate(s string) (time.Time, error) {
	return time.Parse("2006/01/02", s)
}
