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

// Package kv wraps go-redis/redis/v8 with the "recently-processed" flag
// semantics the dividend pipeline needs: set-if-absent under a namespaced
// key with a TTL, adapted from the SET/GET idioms in
// Andrew50-peripheral/services/backend/internal/data/redis_alerts.go.
package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store is a thin wrapper over a redis.Client.
type Store struct {
	client *redis.Client
}

// New connects to a redis instance at addr (host:port).
func New(addr, password string, db int) *Store {
	return &Store{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

// MarkIfAbsent sets namespace:key to "1" with the given TTL iff it is not
// already set, returning true when the flag was newly set (i.e. the
// caller should proceed) and false when it was already present (caller
// should skip). Used by the dividend pipeline's goodinfo:dividend:{symbol}
// / yahoo:dividend:{symbol} recently-processed flags.
func (s *Store) MarkIfAbsent(ctx context.Context, namespace, key string, ttl time.Duration) (bool, error) {
	full := fmt.Sprintf("%s:%s", namespace, key)
	ok, err := s.client.SetNX(ctx, full, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("kv: set if absent %s: %w", full, err)
	}
	return ok, nil
}

// Exists reports whether namespace:key currently carries the flag.
func (s *Store) Exists(ctx context.Context, namespace, key string) (bool, error) {
	full := fmt.Sprintf("%s:%s", namespace, key)
	n, err := s.client.Exists(ctx, full).Result()
	if err != nil {
		return false, fmt.Errorf("kv: exists %s: %w", full, err)
	}
	return n > 0, nil
}
