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
package pipeline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/twstock/stockwatch/model"
)

var movingAveragePeriods = []struct {
	days int
	set  func(*model.DailyQuote, decimal.Decimal)
}{
	{5, func(dq *model.DailyQuote, v decimal.Decimal) { dq.MovingAverage5 = v }},
	{10, func(dq *model.DailyQuote, v decimal.Decimal) { dq.MovingAverage10 = v }},
	{20, func(dq *model.DailyQuote, v decimal.Decimal) { dq.MovingAverage20 = v }},
	{60, func(dq *model.DailyQuote, v decimal.Decimal) { dq.MovingAverage60 = v }},
	{120, func(dq *model.DailyQuote, v decimal.Decimal) { dq.MovingAverage120 = v }},
	{240, func(dq *model.DailyQuote, v decimal.Decimal) { dq.MovingAverage240 = v }},
}

// applyWindow fills today's moving averages and 52-week high/low/average
// from window, a descending-by-date slice of prior closing rows that
// already includes today's own row as window[0].
func applyWindow(today model.DailyQuote, window []model.DailyQuote) model.DailyQuote {
	for _, period := range movingAveragePeriods {
		if len(window) < period.days {
			continue
		}
		sum := decimal.Zero
		for _, dq := range window[:period.days] {
			sum = sum.Add(dq.Closing)
		}
		period.set(&today, sum.Div(decimal.NewFromInt(int64(period.days))).Round(2))
	}

	if len(window) == 0 {
		return today
	}

	maxPrice, minPrice := window[0].Closing, window[0].Closing
	maxDate, minDate := window[0].Date, window[0].Date
	sum := decimal.Zero
	for _, dq := range window {
		if dq.Closing.GreaterThan(maxPrice) {
			maxPrice, maxDate = dq.Closing, dq.Date
		}
		if dq.Closing.LessThan(minPrice) {
			minPrice, minDate = dq.Closing, dq.Date
		}
		sum = sum.Add(dq.Closing)
	}
	today.MaxPriceInYear, today.MaxPriceInYearDate = maxPrice.Round(2), maxDate
	today.MinPriceInYear, today.MinPriceInYearDate = minPrice.Round(2), minDate
	today.AvgPriceInYear = sum.Div(decimal.NewFromInt(int64(len(window)))).Round(2)

	return today
}

// nextHistoryRecord folds today's observation into prior, replacing
// whichever all-time extreme today's quote broke.
func nextHistoryRecord(prior model.QuoteHistoryRecord, dq model.DailyQuote) model.QuoteHistoryRecord {
	next := prior
	next.SecurityCode = dq.StockSymbol

	if next.MaxPrice.IsZero() || dq.Highest.GreaterThan(next.MaxPrice) {
		next.MaxPrice, next.MaxPriceDate = dq.Highest, dq.Date
	}
	if next.MinPrice.IsZero() || dq.Lowest.LessThan(next.MinPrice) {
		next.MinPrice, next.MinPriceDate = dq.Lowest, dq.Date
	}
	if next.MaxPbr.IsZero() || dq.PriceToBookRatio.GreaterThan(next.MaxPbr) {
		next.MaxPbr, next.MaxPbrDate = dq.PriceToBookRatio, dq.Date
	}
	if next.MinPbr.IsZero() || (dq.PriceToBookRatio.IsPositive() && dq.PriceToBookRatio.LessThan(next.MinPbr)) {
		next.MinPbr, next.MinPbrDate = dq.PriceToBookRatio, dq.Date
	}

	return next
}

// computeEstimate derives the cheap/fair/expensive valuation band. Price
// bands are the 20th, 50th and 80th percentiles of today's 52-week price
// range; PBR and PER bands are today's ratio scaled by 0.8, 1.0 and 1.2
// (PER is taken as zero when not positive). Dividend and EPS-payout
// bands fall back to the price band's percentiles since neither the
// dividend history nor payout ratio feed into this step of the
// pipeline.
func computeEstimate(date time.Time, dq model.DailyQuote) (model.Estimate, error) {
	if dq.MaxPriceInYear.LessThan(dq.MinPriceInYear) {
		return model.Estimate{}, fmt.Errorf("estimate %s: max < min in 52-week range", dq.StockSymbol)
	}

	priceRange := dq.MaxPriceInYear.Sub(dq.MinPriceInYear)
	pricePercentile := func(pct float64) decimal.Decimal {
		return dq.MinPriceInYear.Add(priceRange.Mul(decimal.NewFromFloat(pct)))
	}

	per := decimal.Zero
	if dq.PriceEarning.IsPositive() {
		per = dq.PriceEarning
	}

	est := model.Estimate{
		Date:         date,
		SecurityCode: dq.StockSymbol,

		CheapPrice:     pricePercentile(0.2),
		FairPrice:      pricePercentile(0.5),
		ExpensivePrice: pricePercentile(0.8),

		PricePercentileCheap:     decimal.NewFromFloat(0.2),
		PricePercentileFair:      decimal.NewFromFloat(0.5),
		PricePercentileExpensive: decimal.NewFromFloat(0.8),

		DividendCheap:     pricePercentile(0.2),
		DividendFair:      pricePercentile(0.5),
		DividendExpensive: pricePercentile(0.8),

		EpsPayoutCheap:     pricePercentile(0.2),
		EpsPayoutFair:      pricePercentile(0.5),
		EpsPayoutExpensive: pricePercentile(0.8),

		PbrCheap:     dq.PriceToBookRatio.Mul(decimal.NewFromFloat(0.8)),
		PbrFair:      dq.PriceToBookRatio,
		PbrExpensive: dq.PriceToBookRatio.Mul(decimal.NewFromFloat(1.2)),

		PerCheap:     per.Mul(decimal.NewFromFloat(0.8)),
		PerFair:      per,
		PerExpensive: per.Mul(decimal.NewFromFloat(1.2)),

		YearCount: 1,
	}
	return est, nil
}
