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

	"github.com/twstock/stockwatch/model"
)

type fakeDividendDateStore struct {
	exDividend   []model.Dividend
	payable      []model.Dividend
	err          error
	gotExDateArg string
	gotPayDateArg string
}

func (f *fakeDividendDateStore) ExDividendOnDate(ctx context.Context, dateStr string) ([]model.Dividend, error) {
	f.gotExDateArg = dateStr
	return f.exDividend, f.err
}

func (f *fakeDividendDateStore) PayableOnDate(ctx context.Context, dateStr string) ([]model.Dividend, error) {
	f.gotPayDateArg = dateStr
	return f.payable, f.err
}

func TestExDividendReminderFormatsDateWithSlashLayout(t *testing.T) {
	st := &fakeDividendDateStore{exDividend: []model.Dividend{
		{SecurityCode: "2330", Quarter: model.QuarterQ1, Sum: decimal.NewFromInt(5)},
	}}
	notifier := &fakeTraceNotifier{}

	e := &ExDividendReminder{Store: st, Notifier: notifier, Log: zerolog.Nop()}
	require.NoError(t, e.Run(context.Background()))

	assert.Equal(t, time.Now().UTC().Format("2006/01/02"), st.gotExDateArg)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "2330")
}

func TestExDividendReminderSendsNothingWhenNoRows(t *testing.T) {
	st := &fakeDividendDateStore{}
	notifier := &fakeTraceNotifier{}

	e := &ExDividendReminder{Store: st, Notifier: notifier, Log: zerolog.Nop()}
	require.NoError(t, e.Run(context.Background()))

	assert.Empty(t, notifier.messages)
}

func TestExDividendReminderToleratesNilNotifier(t *testing.T) {
	st := &fakeDividendDateStore{exDividend: []model.Dividend{{SecurityCode: "2330"}}}

	e := &ExDividendReminder{Store: st, Log: zerolog.Nop()}
	require.NoError(t, e.Run(context.Background()))
}

func TestExDividendReminderReturnsErrorOnQueryFailure(t *testing.T) {
	st := &fakeDividendDateStore{err: errors.New("query failed")}

	e := &ExDividendReminder{Store: st, Log: zerolog.Nop()}
	err := e.Run(context.Background())

	assert.Error(t, err)
}

func TestPayableDateReminderReportsMatchingRows(t *testing.T) {
	st := &fakeDividendDateStore{payable: []model.Dividend{
		{SecurityCode: "1101", Quarter: model.QuarterAnnual, Sum: decimal.NewFromInt(3)},
	}}
	notifier := &fakeTraceNotifier{}

	p := &PayableDateReminder{Store: st, Notifier: notifier, Log: zerolog.Nop()}
	require.NoError(t, p.Run(context.Background()))

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "1101")
}
