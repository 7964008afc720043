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

type fakeAnnualProfitSource struct {
	rows     map[string]decimal.Decimal
	err      error
	gotYear  int
}

func (f *fakeAnnualProfitSource) AnnualProfit(ctx context.Context, year int) (map[string]decimal.Decimal, error) {
	f.gotYear = year
	return f.rows, f.err
}

func TestAnnualEpsRequestsPriorCalendarYear(t *testing.T) {
	src := &fakeAnnualProfitSource{rows: map[string]decimal.Decimal{"2330": decimal.NewFromInt(32)}}
	st := newFakeEpsStore()

	a := &AnnualEps{Store: st, Source: src, Log: zerolog.Nop()}
	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, time.Now().UTC().Year()-1, src.gotYear)
	assert.True(t, st.updated["2330"].Equal(decimal.NewFromInt(32)))
}

func TestAnnualEpsReturnsErrorOnFetchFailure(t *testing.T) {
	src := &fakeAnnualProfitSource{err: errors.New("source down")}
	st := newFakeEpsStore()

	a := &AnnualEps{Store: st, Source: src, Log: zerolog.Nop()}
	err := a.Run(context.Background())

	assert.Error(t, err)
}
