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
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twstock/stockwatch/model"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestApplyWindowMovingAverages(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	window := make([]model.DailyQuote, 5)
	for i := range window {
		window[i] = model.DailyQuote{
			StockSymbol: "2330",
			Date:        base.AddDate(0, 0, -i),
			Closing:     mustDecimal(t, "100"),
		}
	}
	window[0].Closing = mustDecimal(t, "110")

	today := window[0]
	updated := applyWindow(today, window)

	want := mustDecimal(t, "102") // (110+100+100+100+100)/5
	assert.True(t, updated.MovingAverage5.Equal(want), "got %s", updated.MovingAverage5)
	assert.True(t, updated.MovingAverage10.IsZero(), "MA10 should be unset with only 5 rows in window")
}

func TestApplyWindowMovingAverageRoundsToTwoDecimalPlaces(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	window := make([]model.DailyQuote, 5)
	for i := range window {
		window[i] = model.DailyQuote{
			StockSymbol: "2330",
			Date:        base.AddDate(0, 0, -i),
			Closing:     mustDecimal(t, "100"),
		}
	}
	window[0].Closing = mustDecimal(t, "101")

	updated := applyWindow(window[0], window)

	want := mustDecimal(t, "100.20") // (101+100+100+100+100)/5 = 100.2, must round/format to 2dp
	assert.True(t, updated.MovingAverage5.Equal(want), "got %s", updated.MovingAverage5)
	assert.Equal(t, int32(2), updated.MovingAverage5.Exponent()*-1, "must carry exactly 2 decimal places, not 100.2000...")
}

func TestApplyWindowYearExtremes(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	window := []model.DailyQuote{
		{StockSymbol: "2330", Date: base, Closing: mustDecimal(t, "500")},
		{StockSymbol: "2330", Date: base.AddDate(0, -6, 0), Closing: mustDecimal(t, "700")},
		{StockSymbol: "2330", Date: base.AddDate(0, -11, 0), Closing: mustDecimal(t, "400")},
	}

	updated := applyWindow(window[0], window)

	assert.True(t, updated.MaxPriceInYear.Equal(mustDecimal(t, "700")))
	assert.True(t, updated.MinPriceInYear.Equal(mustDecimal(t, "400")))
}

func TestNextHistoryRecordFirstObservationAlwaysWins(t *testing.T) {
	dq := model.DailyQuote{
		StockSymbol:      "2330",
		Date:             time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Highest:          mustDecimal(t, "600"),
		Lowest:           mustDecimal(t, "590"),
		PriceToBookRatio: mustDecimal(t, "5.5"),
	}

	record := nextHistoryRecord(model.QuoteHistoryRecord{}, dq)

	assert.True(t, record.MaxPrice.Equal(dq.Highest))
	assert.True(t, record.MinPrice.Equal(dq.Lowest))
	assert.True(t, record.MaxPbr.Equal(dq.PriceToBookRatio))
	assert.True(t, record.MinPbr.Equal(dq.PriceToBookRatio))
}

func TestNextHistoryRecordOnlyBreaksAreApplied(t *testing.T) {
	prior := model.QuoteHistoryRecord{
		SecurityCode: "2330",
		MaxPrice:     mustDecimal(t, "700"),
		MinPrice:     mustDecimal(t, "400"),
		MaxPbr:       mustDecimal(t, "6"),
		MinPbr:       mustDecimal(t, "3"),
	}
	dq := model.DailyQuote{
		StockSymbol:      "2330",
		Date:             time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Highest:          mustDecimal(t, "650"), // does not break max
		Lowest:           mustDecimal(t, "350"), // breaks min
		PriceToBookRatio: mustDecimal(t, "4"),   // within range, no break
	}

	record := nextHistoryRecord(prior, dq)

	assert.True(t, record.MaxPrice.Equal(prior.MaxPrice), "max price should not regress")
	assert.True(t, record.MinPrice.Equal(dq.Lowest), "min price should update to the new low")
	assert.True(t, record.MaxPbr.Equal(prior.MaxPbr))
	assert.True(t, record.MinPbr.Equal(prior.MinPbr))
}

func TestComputeEstimateRejectsInvertedRange(t *testing.T) {
	dq := model.DailyQuote{
		StockSymbol:    "2330",
		MaxPriceInYear: mustDecimal(t, "100"),
		MinPriceInYear: mustDecimal(t, "200"),
	}

	_, err := computeEstimate(time.Now().UTC(), dq)
	require.Error(t, err)
}

func TestComputeEstimateBandsOrderedCheapToExpensive(t *testing.T) {
	dq := model.DailyQuote{
		StockSymbol:      "2330",
		MaxPriceInYear:   mustDecimal(t, "700"),
		MinPriceInYear:   mustDecimal(t, "400"),
		PriceToBookRatio: mustDecimal(t, "5"),
		PriceEarning:     mustDecimal(t, "15"),
	}

	est, err := computeEstimate(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), dq)
	require.NoError(t, err)

	assert.True(t, est.CheapPrice.LessThan(est.FairPrice))
	assert.True(t, est.FairPrice.LessThan(est.ExpensivePrice))
	assert.True(t, est.PbrCheap.LessThan(est.PbrFair))
	assert.True(t, est.PbrFair.LessThan(est.PbrExpensive))
	assert.Equal(t, 1, est.YearCount)
}
