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
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/twstock/stockwatch/kv"
	"github.com/twstock/stockwatch/model"
	"github.com/twstock/stockwatch/store"
)

const (
	goodInfoNamespace = "goodinfo:dividend"
	yahooNamespace    = "yahoo:dividend"
	dedupFlagTTL      = 3 * 24 * time.Hour

	goodInfoThrottle = 120 * time.Second
	yahooThrottle    = 3 * time.Second

	unannouncedAttempts    = 5
	unannouncedBaseBackoff = 100 * time.Millisecond
)

// dividendSource is the subset of DividendSource the dividend pipeline
// needs.
type dividendSource interface {
	Dividends(ctx context.Context, symbol string) ([]model.DividendDetail, error)
}

// dedupFlags is the subset of kv.Store the dividend pipeline needs.
type dedupFlags interface {
	MarkIfAbsent(ctx context.Context, namespace, key string, ttl time.Duration) (bool, error)
}

// dividendStore is the subset of *store.Store the dividend pipeline needs.
type dividendStore interface {
	NeedingAnnualTotal(ctx context.Context, yearOfDividend int) ([]string, error)
	MultiQuarterSymbols(ctx context.Context, yearOfDividend int) (map[string][]model.DividendKey, error)
	UnannouncedRows(ctx context.Context, year int) ([]model.Dividend, error)
	UpsertDividend(ctx context.Context, d model.Dividend) error
	RefreshAnnualTotal(ctx context.Context, securityCode string, yearOfDividend int) error
}

// Dividend runs the 13:00 UTC dividend pipeline: three concurrent
// sub-flows against the same database — a GoodInfo loop and a Yahoo
// loop over the no-dividend-or-multiple-dividend symbol set, plus a
// Yahoo-only unannounced-date follow-up — joined with errgroup.Group.
type Dividend struct {
	Store dividendStore
	KV    dedupFlags

	GoodInfo dividendSource
	Yahoo    dividendSource

	Sleep func(time.Duration)
	Rand  *rand.Rand

	Log zerolog.Logger
}

// NewDividend wires sensible defaults for Sleep and Rand.
func NewDividend(s *store.Store, kvStore *kv.Store, goodInfo, yahoo dividendSource, log zerolog.Logger) *Dividend {
	return &Dividend{
		Store:    s,
		KV:       kvStore,
		GoodInfo: goodInfo,
		Yahoo:    yahoo,
		Sleep:    time.Sleep,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		Log:      log.With().Str("component", "dividend_pipeline").Logger(),
	}
}

// Name implements scheduler.Job.
func (d *Dividend) Name() string { return "dividend_pipeline" }

// Run implements scheduler.Job.
func (d *Dividend) Run(ctx context.Context) error {
	year := time.Now().UTC().Year()

	needing, err := d.Store.NeedingAnnualTotal(ctx, year)
	if err != nil {
		return err
	}
	multi, err := d.Store.MultiQuarterSymbols(ctx, year)
	if err != nil {
		return err
	}

	symbols := unionSymbols(needing, multi)
	dedup := dedupKeySet(multi)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.runSourceFlow(gctx, d.GoodInfo, goodInfoNamespace, goodInfoThrottle, symbols, dedup, year)
		return nil
	})
	g.Go(func() error {
		d.runSourceFlow(gctx, d.Yahoo, yahooNamespace, yahooThrottle, symbols, dedup, year)
		return nil
	})
	g.Go(func() error {
		d.runUnannouncedFollowUp(gctx, year)
		return nil
	})

	return g.Wait()
}

func unionSymbols(needing []string, multi map[string][]model.DividendKey) []string {
	seen := make(map[string]bool, len(needing)+len(multi))
	var out []string
	for _, symbol := range needing {
		if !seen[symbol] {
			seen[symbol] = true
			out = append(out, symbol)
		}
	}
	for symbol := range multi {
		if !seen[symbol] {
			seen[symbol] = true
			out = append(out, symbol)
		}
	}
	return out
}

func dedupKeySet(multi map[string][]model.DividendKey) map[model.DividendKey]bool {
	out := make(map[model.DividendKey]bool)
	for _, keys := range multi {
		for _, k := range keys {
			out[k] = true
		}
	}
	return out
}

// runSourceFlow implements one throttled pass over the symbol set for
// a single source/namespace combination. GoodInfo and Yahoo each get an
// independent pass over the same symbol set with their own dedup
// namespace and inter-symbol delay; single-symbol failures are logged
// and never abort the loop.
func (d *Dividend) runSourceFlow(ctx context.Context, src dividendSource, namespace string, throttle time.Duration, symbols []string, dedup map[model.DividendKey]bool, year int) {
	if src == nil {
		return
	}

	for i, symbol := range symbols {
		if ctx.Err() != nil {
			return
		}

		proceed, err := d.KV.MarkIfAbsent(ctx, namespace, symbol, dedupFlagTTL)
		if err != nil {
			d.Log.Warn().Err(err).Str("symbol", symbol).Str("namespace", namespace).Msg("dedup check failed")
		} else if proceed {
			d.fetchAndUpsert(ctx, src, symbol, year, dedup)
		}

		if i < len(symbols)-1 {
			d.Sleep(throttle)
		}
	}
}

func (d *Dividend) fetchAndUpsert(ctx context.Context, src dividendSource, symbol string, year int, dedup map[model.DividendKey]bool) {
	details, err := src.Dividends(ctx, symbol)
	if err != nil {
		d.Log.Warn().Err(err).Str("symbol", symbol).Msg("dividend fetch failed")
		return
	}

	for _, detail := range details {
		if detail.YearOfDividend != year && detail.YearOfDividend != year-1 {
			continue
		}
		if dedup[detail.Key()] {
			continue
		}

		if err := d.Store.UpsertDividend(ctx, detail.Dividend); err != nil {
			d.Log.Warn().Err(err).Str("symbol", symbol).Msg("dividend upsert failed")
			continue
		}
		if detail.Quarter != model.QuarterAnnual {
			if err := d.Store.RefreshAnnualTotal(ctx, detail.SecurityCode, detail.YearOfDividend); err != nil {
				d.Log.Warn().Err(err).Str("symbol", symbol).Msg("annual total refresh failed")
			}
		}
	}
}

// runUnannouncedFollowUp re-fetches every row still carrying the
// "not yet announced" sentinel from Yahoo, with exponential backoff,
// jittered, ×5 starting at 100ms.
func (d *Dividend) runUnannouncedFollowUp(ctx context.Context, year int) {
	if d.Yahoo == nil {
		return
	}

	rows, err := d.Store.UnannouncedRows(ctx, year)
	if err != nil {
		d.Log.Warn().Err(err).Msg("unannounced rows query failed")
		return
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			return
		}

		details, err := d.fetchWithBackoff(ctx, row.SecurityCode)
		if err != nil {
			d.Log.Warn().Err(err).Str("symbol", row.SecurityCode).Msg("unannounced follow-up fetch failed")
			continue
		}

		for _, detail := range details {
			if detail.YearOfDividend != row.YearOfDividend || detail.Quarter != row.Quarter {
				continue
			}
			if !datesChanged(row, detail.Dividend) {
				continue
			}
			merged := row
			merged.ExDividendDate1 = detail.ExDividendDate1
			merged.ExDividendDate2 = detail.ExDividendDate2
			merged.PayableDate1 = detail.PayableDate1
			merged.PayableDate2 = detail.PayableDate2

			if err := d.Store.UpsertDividend(ctx, merged); err != nil {
				d.Log.Warn().Err(err).Str("symbol", row.SecurityCode).Msg("unannounced follow-up upsert failed")
			}
		}
	}
}

func datesChanged(a, b model.Dividend) bool {
	return a.ExDividendDate1 != b.ExDividendDate1 || a.ExDividendDate2 != b.ExDividendDate2 ||
		a.PayableDate1 != b.PayableDate1 || a.PayableDate2 != b.PayableDate2
}

// fetchWithBackoff retries src.Dividends up to unannouncedAttempts times,
// doubling the delay from unannouncedBaseBackoff and adding up to ±25%
// jitter between attempts.
func (d *Dividend) fetchWithBackoff(ctx context.Context, symbol string) ([]model.DividendDetail, error) {
	var lastErr error
	delay := unannouncedBaseBackoff

	for attempt := 0; attempt < unannouncedAttempts; attempt++ {
		details, err := d.Yahoo.Dividends(ctx, symbol)
		if err == nil {
			return details, nil
		}
		lastErr = err

		if attempt == unannouncedAttempts-1 {
			break
		}
		d.Sleep(d.jitter(delay))
		delay *= 2
	}
	return nil, lastErr
}

// jitter returns base scaled by a factor in [0.75, 1.25).
func (d *Dividend) jitter(base time.Duration) time.Duration {
	factor := 0.75 + d.Rand.Float64()*0.5
	return time.Duration(float64(base) * factor)
}
