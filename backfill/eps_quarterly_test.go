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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEpsSource struct {
	rows map[string]decimal.Decimal
	err  error
}

func (f *fakeEpsSource) Eps(ctx context.Context, year int, quarter string) (map[string]decimal.Decimal, error) {
	return f.rows, f.err
}

type fakeEpsStore struct {
	updated map[string]decimal.Decimal
}

func newFakeEpsStore() *fakeEpsStore { return &fakeEpsStore{updated: map[string]decimal.Decimal{}} }

func (f *fakeEpsStore) UpdateEps(ctx context.Context, symbol string, eps decimal.Decimal) error {
	f.updated[symbol] = eps
	return nil
}

func TestEpsQuarterlyPrefersPrimaryAndFillsGapsFromSecondary(t *testing.T) {
	primary := &fakeEpsSource{rows: map[string]decimal.Decimal{"2330": decimal.NewFromInt(10)}}
	secondary := &fakeEpsSource{rows: map[string]decimal.Decimal{
		"2330": decimal.NewFromInt(999),
		"1101": decimal.NewFromInt(3),
	}}
	st := newFakeEpsStore()

	e := &EpsQuarterly{Store: st, Primary: primary, Secondary: secondary, Log: zerolog.Nop()}
	err := e.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, st.updated["2330"].Equal(decimal.NewFromInt(10)), "primary wins when both sources report a symbol")
	assert.True(t, st.updated["1101"].Equal(decimal.NewFromInt(3)), "secondary fills symbols primary omitted")
}

func TestEpsQuarterlyFallsBackToSecondaryWhenPrimaryFails(t *testing.T) {
	primary := &fakeEpsSource{err: errors.New("primary down")}
	secondary := &fakeEpsSource{rows: map[string]decimal.Decimal{"2330": decimal.NewFromInt(5)}}
	st := newFakeEpsStore()

	e := &EpsQuarterly{Store: st, Primary: primary, Secondary: secondary, Log: zerolog.Nop()}
	err := e.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, st.updated["2330"].Equal(decimal.NewFromInt(5)))
}

func TestCurrentQuarterMapsCalendarMonthToMostRecentlyClosedQuarter(t *testing.T) {
	cases := []struct {
		month        time.Month
		wantYear     int
		wantQuarter  string
	}{
		{time.February, 2025, "Q4"},
		{time.July, 2026, "Q1"},
		{time.October, 2026, "Q2"},
		{time.December, 2026, "Q3"},
	}

	for _, c := range cases {
		now := time.Date(2026, c.month, 15, 0, 0, 0, 0, time.UTC)
		year, quarter := currentQuarter(now)
		assert.Equal(t, c.wantYear, year, c.month.String())
		assert.Equal(t, c.wantQuarter, quarter, c.month.String())
	}
}
