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
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twstock/stockwatch/model"
)

type fakeDividendSource struct {
	mu      sync.Mutex
	calls   []string
	details map[string][]model.DividendDetail
	failN   int
}

func (f *fakeDividendSource) Dividends(ctx context.Context, symbol string) ([]model.DividendDetail, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	attempt := len(f.calls)
	f.mu.Unlock()

	if f.failN > 0 && attempt <= f.failN {
		return nil, errors.New("fake source unavailable")
	}
	return f.details[symbol], nil
}

type fakeDedupFlags struct {
	mu  sync.Mutex
	set map[string]bool
}

func newFakeDedupFlags() *fakeDedupFlags {
	return &fakeDedupFlags{set: make(map[string]bool)}
}

func (f *fakeDedupFlags) MarkIfAbsent(ctx context.Context, namespace, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	full := namespace + ":" + key
	if f.set[full] {
		return false, nil
	}
	f.set[full] = true
	return true, nil
}

type fakeDividendStore struct {
	mu          sync.Mutex
	needing     []string
	multi       map[string][]model.DividendKey
	unannounced []model.Dividend

	upserted        []model.Dividend
	annualRefreshed []string
}

func (f *fakeDividendStore) NeedingAnnualTotal(ctx context.Context, yearOfDividend int) ([]string, error) {
	return f.needing, nil
}

func (f *fakeDividendStore) MultiQuarterSymbols(ctx context.Context, yearOfDividend int) (map[string][]model.DividendKey, error) {
	return f.multi, nil
}

func (f *fakeDividendStore) UnannouncedRows(ctx context.Context, year int) ([]model.Dividend, error) {
	return f.unannounced, nil
}

func (f *fakeDividendStore) UpsertDividend(ctx context.Context, d model.Dividend) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, d)
	return nil
}

func (f *fakeDividendStore) RefreshAnnualTotal(ctx context.Context, securityCode string, yearOfDividend int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.annualRefreshed = append(f.annualRefreshed, securityCode)
	return nil
}

func noSleep(time.Duration) {}

func TestUnionSymbolsDeduplicatesAcrossBothQueries(t *testing.T) {
	needing := []string{"2330", "2317"}
	multi := map[string][]model.DividendKey{
		"2317": {{SecurityCode: "2317", YearOfDividend: 2026, Quarter: model.QuarterQ1}},
		"1101": {{SecurityCode: "1101", YearOfDividend: 2026, Quarter: model.QuarterQ1}},
	}

	symbols := unionSymbols(needing, multi)

	assert.ElementsMatch(t, []string{"2330", "2317", "1101"}, symbols)
}

func TestDedupKeySetCollectsAllMultiQuarterKeys(t *testing.T) {
	multi := map[string][]model.DividendKey{
		"2317": {
			{SecurityCode: "2317", YearOfDividend: 2026, Quarter: model.QuarterQ1},
			{SecurityCode: "2317", YearOfDividend: 2026, Quarter: model.QuarterQ2},
		},
	}

	set := dedupKeySet(multi)

	assert.Len(t, set, 2)
	assert.True(t, set[model.DividendKey{SecurityCode: "2317", YearOfDividend: 2026, Quarter: model.QuarterQ1}])
}

// TestDividendSourceFlowSkipsDedupedKeysAndMarksFlagBeforeFetch covers
// Scenario D: a symbol already in the dedup set from MultiQuarterSymbols
// must never be re-upserted by a source flow, and the recently-processed
// flag must be set before the fetch so a failing fetch still throttles.
func TestDividendSourceFlowSkipsDedupedKeysAndMarksFlagBeforeFetch(t *testing.T) {
	dedup := map[model.DividendKey]bool{
		{SecurityCode: "2330", YearOfDividend: 2026, Quarter: model.QuarterQ1}: true,
	}
	src := &fakeDividendSource{details: map[string][]model.DividendDetail{
		"2330": {
			{Dividend: model.Dividend{SecurityCode: "2330", YearOfDividend: 2026, Quarter: model.QuarterQ1}},
			{Dividend: model.Dividend{SecurityCode: "2330", YearOfDividend: 2026, Quarter: model.QuarterQ2}},
		},
	}}
	kvFlags := newFakeDedupFlags()
	st := &fakeDividendStore{}

	d := &Dividend{Store: st, KV: kvFlags, Sleep: noSleep, Rand: rand.New(rand.NewSource(1))}
	d.runSourceFlow(context.Background(), src, "goodinfo:dividend", time.Millisecond, []string{"2330"}, dedup, 2026)

	require.Len(t, st.upserted, 1)
	assert.Equal(t, model.QuarterQ2, st.upserted[0].Quarter)
	assert.Equal(t, []string{"2330"}, st.annualRefreshed)

	proceed, err := kvFlags.MarkIfAbsent(context.Background(), "goodinfo:dividend", "2330", time.Hour)
	require.NoError(t, err)
	assert.False(t, proceed, "flag should already be set after the first pass")
}

func TestDividendSourceFlowSkipsSymbolsOutsideYearWindow(t *testing.T) {
	src := &fakeDividendSource{details: map[string][]model.DividendDetail{
		"2330": {{Dividend: model.Dividend{SecurityCode: "2330", YearOfDividend: 2020, Quarter: model.QuarterQ1}}},
	}}
	st := &fakeDividendStore{}
	d := &Dividend{Store: st, KV: newFakeDedupFlags(), Sleep: noSleep, Rand: rand.New(rand.NewSource(1))}

	d.runSourceFlow(context.Background(), src, "goodinfo:dividend", time.Millisecond, []string{"2330"}, nil, 2026)

	assert.Empty(t, st.upserted, "entries outside {Y, Y-1} must be dropped")
}

func TestDatesChangedDetectsAnyDifference(t *testing.T) {
	a := model.Dividend{ExDividendDate1: model.NotYetAnnounced}
	b := model.Dividend{ExDividendDate1: "2026-07-15"}
	assert.True(t, datesChanged(a, b))
	assert.False(t, datesChanged(a, a))
}

func TestFetchWithBackoffRetriesThenSucceeds(t *testing.T) {
	src := &fakeDividendSource{
		failN:   3,
		details: map[string][]model.DividendDetail{"2330": {{Dividend: model.Dividend{SecurityCode: "2330"}}}},
	}
	d := &Dividend{Yahoo: src, Sleep: noSleep, Rand: rand.New(rand.NewSource(1))}

	details, err := d.fetchWithBackoff(context.Background(), "2330")

	require.NoError(t, err)
	assert.Len(t, details, 1)
	assert.Len(t, src.calls, 4)
}

func TestFetchWithBackoffExhaustsAttempts(t *testing.T) {
	src := &fakeDividendSource{failN: unannouncedAttempts}
	d := &Dividend{Yahoo: src, Sleep: noSleep, Rand: rand.New(rand.NewSource(1))}

	_, err := d.fetchWithBackoff(context.Background(), "2330")

	require.Error(t, err)
	assert.Len(t, src.calls, unannouncedAttempts)
}

func TestJitterStaysWithinBounds(t *testing.T) {
	d := &Dividend{Rand: rand.New(rand.NewSource(42))}
	base := 100 * time.Millisecond

	for i := 0; i < 50; i++ {
		got := d.jitter(base)
		assert.GreaterOrEqual(t, got, time.Duration(float64(base)*0.75))
		assert.LessOrEqual(t, got, time.Duration(float64(base)*1.25))
	}
}
