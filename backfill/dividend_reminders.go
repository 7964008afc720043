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
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/twstock/stockwatch/model"
)

// reminderDateLayout matches the slash-separated date convention the
// TWSE-family sources publish (see source.parseTwseDate), the same
// convention dividend date strings are stored in verbatim.
const reminderDateLayout = "2006/01/02"

// dividendDateStore is the subset of *store.Store the ex-dividend and
// payable-date reminders need.
type dividendDateStore interface {
	ExDividendOnDate(ctx context.Context, dateStr string) ([]model.Dividend, error)
	PayableOnDate(ctx context.Context, dateStr string) ([]model.Dividend, error)
}

// ExDividendReminder runs the 00:00 ex-dividend-day reminder: every
// symbol going ex-dividend today is reported in one message.
type ExDividendReminder struct {
	Store    dividendDateStore
	Notifier traceNotifier
	Log      zerolog.Logger
}

func (e *ExDividendReminder) Name() string { return "ex_dividend_day_reminder" }

func (e *ExDividendReminder) Run(ctx context.Context) error {
	rows, err := e.Store.ExDividendOnDate(ctx, time.Now().UTC().Format(reminderDateLayout))
	if err != nil {
		return fmt.Errorf("ex-dividend reminder: query: %w", err)
	}
	if len(rows) == 0 || e.Notifier == nil {
		return nil
	}

	msg := "ex-dividend today:\n"
	for _, row := range rows {
		msg += fmt.Sprintf("%s (%s %s)\n", row.SecurityCode, row.Quarter, row.Sum.String())
	}
	return e.Notifier.Send(msg)
}

// PayableDateReminder runs the 00:00 payable-date reminder:
// every symbol whose dividend becomes payable today is reported in one
// message.
type PayableDateReminder struct {
	Store    dividendDateStore
	Notifier traceNotifier
	Log      zerolog.Logger
}

func (p *PayableDateReminder) Name() string { return "payable_date_reminder" }

func (p *PayableDateReminder) Run(ctx context.Context) error {
	rows, err := p.Store.PayableOnDate(ctx, time.Now().UTC().Format(reminderDateLayout))
	if err != nil {
		return fmt.Errorf("payable date reminder: query: %w", err)
	}
	if len(rows) == 0 || p.Notifier == nil {
		return nil
	}

	msg := "dividend payable today:\n"
	for _, row := range rows {
		msg += fmt.Sprintf("%s (%s %s)\n", row.SecurityCode, row.Quarter, row.Sum.String())
	}
	return p.Notifier.Send(msg)
}
