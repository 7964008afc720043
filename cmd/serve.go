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
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/twstock/stockwatch/backfill"
	"github.com/twstock/stockwatch/cache"
	"github.com/twstock/stockwatch/config"
	"github.com/twstock/stockwatch/kv"
	"github.com/twstock/stockwatch/logging"
	"github.com/twstock/stockwatch/model"
	"github.com/twstock/stockwatch/notify"
	"github.com/twstock/stockwatch/pipeline"
	"github.com/twstock/stockwatch/rpcclient"
	"github.com/twstock/stockwatch/rpcserver"
	"github.com/twstock/stockwatch/scheduler"
	"github.com/twstock/stockwatch/source"
	"github.com/twstock/stockwatch/store"
)

// serveCmd starts the long-running daemon: scheduler, RPC server, and
// shared reference cache.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and RPC server as a long-lived daemon",
	Run: func(cmd *cobra.Command, args []string) {
		if err := logging.Init("logs"); err != nil {
			log.Fatal().Err(err).Msg("could not initialize logging")
		}

		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("could not load configuration")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := store.Connect(ctx, cfg.DatabaseURL())
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer db.Close()

		refCache := cache.New()
		if err := loadReferenceCache(ctx, db, refCache); err != nil {
			log.Fatal().Err(err).Msg("could not warm reference cache")
		}

		redis := kv.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

		var telegram *notify.Telegram
		if cfg.TelegramToken != "" {
			telegram, err = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatIDs())
			if err != nil {
				log.Fatal().Err(err).Msg("could not start telegram notifier")
			}
		}

		twse := source.NewTWSE()
		tpex := source.NewTPEx()
		yahoo := source.NewYahoo()
		goodInfo := source.NewGoodInfo()
		cmoney := source.NewCMoney()
		wespai := source.NewWespai()
		fbs := source.NewFBS()
		taifex := source.NewTaifex()
		histock := source.NewHiStock()
		cnyes := source.NewCNYES()

		var fugle *source.Fugle
		if cfg.FugleAPIKey != "" {
			fugle = source.NewFugle(cfg.FugleAPIKey)
		}

		quoteSources := []source.QuoteSource{twse, tpex, histock, cnyes}
		if fugle != nil {
			quoteSources = append(quoteSources, fugle)
		}
		mux := source.NewMultiplexer(quoteSources...)

		var rpcClient *rpcclient.Client
		if cfg.RPCTarget != "" {
			rpcClient, err = rpcclient.Dial(cfg.RPCTarget, cfg.RPCDomain, cfg.RPCCertFile, cfg.RPCKeyFile, log.Logger)
			if err != nil {
				log.Fatal().Err(err).Msg("could not dial sibling rpc service")
			}
			defer rpcClient.Close()
		}

		sched := scheduler.New(log.Logger)
		registerJobs(sched, db, refCache, redis, telegram, rpcClient, twse, tpex, yahoo, goodInfo, cmoney, wespai, fbs, taifex)

		sched.Start()
		defer sched.Stop()

		rpcAddr := fmt.Sprintf(":%d", cfg.GRPCUsePort)
		rpc, err := rpcserver.New(rpcAddr, mux, cfg.SSLCertFile, cfg.SSLKeyFile, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("could not start rpc server")
		}
		go rpc.Serve()
		defer rpc.Close()

		log.Info().Msg("stockwatch daemon running")
		<-ctx.Done()
		log.Info().Msg("shutting down")
		time.Sleep(200 * time.Millisecond)
	},
}

// staticMarkets is the fixed Market-id-to-descriptor dictionary; unlike
// industries (populated ad hoc as the listings refresh encounters new
// names) the market enum is closed and known at compile time.
var staticMarkets = map[int]model.MarketDescriptor{
	int(model.MarketPublic):         {ID: int(model.MarketPublic), Name: model.MarketPublic.String()},
	int(model.MarketListed):         {ID: int(model.MarketListed), Name: model.MarketListed.String()},
	int(model.MarketOverTheCounter): {ID: int(model.MarketOverTheCounter), Name: model.MarketOverTheCounter.String()},
	int(model.MarketEmerging):       {ID: int(model.MarketEmerging), Name: model.MarketEmerging.String()},
}

// loadReferenceCache warms refCache from the store on startup: stocks,
// quote history and recent revenue via Reference.Load, plus the market
// dictionary. The industry dictionary starts empty and is grown in
// place by the listings refresh backfill job as it encounters new
// industry names.
func loadReferenceCache(ctx context.Context, db *store.Store, refCache *cache.Reference) error {
	if err := refCache.Load(ctx, db); err != nil {
		return err
	}

	refCache.LoadDictionaries(map[string]int{}, staticMarkets)
	return nil
}

// registerJobs wires the closing/dividend pipelines and every backfill
// job onto sched's cron table.
func registerJobs(
	sched *scheduler.Scheduler,
	db *store.Store,
	refCache *cache.Reference,
	redis *kv.Store,
	telegram *notify.Telegram,
	rpcClient *rpcclient.Client,
	twse *source.TWSE,
	tpex *source.TPEx,
	yahoo *source.Yahoo,
	goodInfo *source.GoodInfo,
	cmoney *source.CMoney,
	wespai *source.Wespai,
	fbs *source.FBS,
	taifex *source.Taifex,
) {
	quoteDedup := cache.NewTTL[struct{}](4096, 20*time.Hour)
	traceNotify := cache.NewTTL[decimal.Decimal](512, 20*time.Hour)

	// notifier returns telegram as a plain interface value, or a true nil
	// interface when telegram itself is nil — assigning the *notify.Telegram
	// pointer directly would instead produce a non-nil interface wrapping a
	// nil pointer, defeating every job's `if Notifier == nil` guard.
	notifier := func() interface{ Send(msg string) error } {
		if telegram == nil {
			return nil
		}
		return telegram
	}()

	mustAdd := func(expr string, job scheduler.Job) {
		if err := sched.AddJob(expr, job); err != nil {
			log.Fatal().Err(err).Str("job", job.Name()).Msg("could not register job")
		}
	}

	closing := &pipeline.Closing{
		Store:      db,
		Cache:      refCache,
		QuoteDedup: quoteDedup,
		TWSE:       twse,
		TPEx:       tpex,
		Notify:     telegram,
		Log:        log.Logger,
	}
	mustAdd("0 0 7 * * *", closing)

	dividend := pipeline.NewDividend(db, redis, goodInfo, yahoo, log.Logger)
	mustAdd("0 0 13 * * *", dividend)

	mustAdd("0 0 14 * * *", &backfill.Qfii{Store: db, Cache: refCache, Source: cmoney, Log: log.Logger})
	mustAdd("0 0 17 * * *", &backfill.Nav{Store: db, Source: yahoo, Log: log.Logger})
	mustAdd("0 30 18 * * *", &backfill.PayoutRatio{Store: db, Log: log.Logger})
	mustAdd("0 0 19 * * *", &backfill.EpsQuarterly{Store: db, Primary: cmoney, Secondary: wespai, Log: log.Logger})
	mustAdd("0 0 20 * * *", &backfill.FinancialStatement{Store: db, Source: twse, Log: log.Logger})

	mustAdd("0 0 21 * * *", &backfill.AnnualEps{Store: db, Source: fbs, Log: log.Logger})
	mustAdd("0 0 21 * * *", &backfill.FinancialStatement{Store: db, Source: twse, Annual: true, Log: log.Logger})
	mustAdd("0 0 21 * * *", &backfill.ZeroNavRescan{Store: db, Source: yahoo, Log: log.Logger})
	mustAdd("0 0 21 * * *", &backfill.Revenue{Store: db, Source: cmoney, Log: log.Logger})
	// rpcPusher is a true nil interface when rpcClient is nil (GO_GRPC_TARGET
	// unset), same trick as notifier above — backfill.Listings treats a nil
	// RPC field as a no-op push.
	rpcPusher := func() interface{ PushStockUpdate(stock model.Stock) } {
		if rpcClient == nil {
			return nil
		}
		return rpcClient
	}()
	mustAdd("0 0 21 * * *", &backfill.Listings{Store: db, Cache: refCache, Source: twse, RPC: rpcPusher, Log: log.Logger})
	mustAdd("0 0 21 * * *", &backfill.Delisting{Store: db, Source: twse, Log: log.Logger})
	mustAdd("0 0 21 * * *", &backfill.Weights{Store: db, Source: taifex, Log: log.Logger})

	mustAdd("0 * * * * *", &backfill.DDNS{Log: log.Logger})
	mustAdd("0 0 1 * * *", &backfill.TraceQuote{Cache: refCache, Notify: traceNotify, Notifier: notifier, Log: log.Logger})

	mustAdd("0 0 0 * * *", &backfill.ExDividendReminder{Store: db, Notifier: notifier, Log: log.Logger})
	mustAdd("0 0 0 * * *", &backfill.PayableDateReminder{Store: db, Notifier: notifier, Log: log.Logger})
	mustAdd("0 0 0 * * *", &backfill.PublicOfferingReminder{Store: db, Source: twse, Notifier: notifier, Log: log.Logger})
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
