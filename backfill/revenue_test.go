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
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twstock/stockwatch/model"
)

type fakeRevenueSource struct {
	rows        []model.Revenue
	err         error
	gotYearMonth string
}

func (f *fakeRevenueSource) Revenue(ctx context.Context, yearMonth string) ([]model.Revenue, error) {
	f.gotYearMonth = yearMonth
	return f.rows, f.err
}

type fakeRevenueStore struct {
	upserted []model.Revenue
	failFor  map[string]bool
}

func (f *fakeRevenueStore) UpsertRevenue(ctx context.Context, r model.Revenue) error {
	if f.failFor[r.StockSymbol] {
		return errors.New("upsert failed")
	}
	f.upserted = append(f.upserted, r)
	return nil
}

func TestRevenueTargetsPriorCalendarMonth(t *testing.T) {
	src := &fakeRevenueSource{rows: []model.Revenue{{StockSymbol: "2330"}}}
	st := &fakeRevenueStore{}

	r := &Revenue{Store: st, Source: src, Log: zerolog.Nop()}
	require.NoError(t, r.Run(context.Background()))

	want := time.Now().UTC().AddDate(0, -1, 0).Format("200601")
	assert.Equal(t, want, src.gotYearMonth)
	require.Len(t, st.upserted, 1)
}

func TestRevenueCollectsPerSymbolUpsertFailures(t *testing.T) {
	src := &fakeRevenueSource{rows: []model.Revenue{
		{StockSymbol: "2330"}, {StockSymbol: "1101"},
	}}
	st := &fakeRevenueStore{failFor: map[string]bool{"1101": true}}

	r := &Revenue{Store: st, Source: src, Log: zerolog.Nop()}
	err := r.Run(context.Background())

	require.Error(t, err)
	require.Len(t, st.upserted, 1)
	assert.Equal(t, "2330", st.upserted[0].StockSymbol)
}
