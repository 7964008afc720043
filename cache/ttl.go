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
package cache

import (
	"time"

	"github.com/alphadose/haxmap"
)

// TTL is a bounded, per-entry-expiring cache built on alphadose/haxmap,
// the same concurrent map used elsewhere in this codebase for
// lock-free lookup singletons. Capacity is advisory here: like the
// original TtlCache it's modeled on, entries are evicted lazily on
// access rather than by a background sweep.
type TTL[V any] struct {
	entries  *haxmap.Map[string, ttlEntry[V]]
	capacity uintptr
	ttl      time.Duration
	now      func() time.Time
}

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewTTL builds a TTL cache with the given capacity hint and per-entry
// lifetime.
func NewTTL[V any](capacity int, ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		entries:  haxmap.New[string, ttlEntry[V]](uintptr(capacity)),
		capacity: uintptr(capacity),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (t *TTL[V]) Get(key string) (V, bool) {
	var zero V
	e, ok := t.entries.Get(key)
	if !ok {
		return zero, false
	}
	if t.now().After(e.expiresAt) {
		t.entries.Del(key)
		return zero, false
	}
	return e.value, true
}

// Set inserts or refreshes a key's value and expiry.
func (t *TTL[V]) Set(key string, value V) {
	t.entries.Set(key, ttlEntry[V]{value: value, expiresAt: t.now().Add(t.ttl)})
}

// Has reports presence without returning the value, used for dedup
// fingerprint checks (quote-dedup, trace-quote notification debounce).
func (t *TTL[V]) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Delete removes a key unconditionally.
func (t *TTL[V]) Delete(key string) {
	t.entries.Del(key)
}

// Clear drops every entry, used by the closing pipeline's step 11
// ("clear TTL cache").
func (t *TTL[V]) Clear() {
	t.entries.ForEach(func(k string, _ ttlEntry[V]) bool {
		t.entries.Del(k)
		return true
	})
}

// Len reports the number of stored entries, including expired ones that
// no Get has removed yet.
func (t *TTL[V]) Len() int {
	return int(t.entries.Len())
}
