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

// Package store is the persistence layer: a pgxpool-backed connection
// pool, a transaction helper following the begin/defer-rollback/commit
// idiom used throughout this codebase, and one repository file per
// entity family, each upserting into a fixed table name with
// INSERT ... ON CONFLICT DO UPDATE.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Store wraps a pgxpool.Pool configured with: max lifetime 30m, max 20
// / min 2 connections, 10m idle reap. The pool itself sets no acquire
// timeout; AcquireCtx gives a caller a context bounded at 5s.
type Store struct {
	Pool *pgxpool.Pool
}

// Connect opens the pool against databaseURL and tags the application
// name for observability, mirroring library.Library.Connect.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 10 * time.Minute
	cfg.HealthCheckPeriod = 10 * time.Minute
	cfg.ConnConfig.RuntimeParams["application_name"] = "stockwatch"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.Pool.Close()
}

// WithTx runs fn inside a transaction, committing on success and
// rolling back (log-and-ignore pgx.ErrTxClosed) on any error.
func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	conn, err := s.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Error().Err(rbErr).Msg("error rolling back transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// acquireTimeout bounds how long callers of AcquireCtx wait for a pooled
// connection.
const acquireTimeout = 5 * time.Second

// AcquireCtx returns a context bounded by acquireTimeout.
func AcquireCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, acquireTimeout)
}
