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
package source

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

const (
	fugleWindow       = 60 * time.Second
	fugleMaxInWindow  = 60
)

// LocallyRateLimited is returned while the limiter's cooldown is active,
// either from the local window filling up or a remote 429.
type LocallyRateLimited struct {
	RetryAfter time.Duration
}

func (e *LocallyRateLimited) Error() string {
	return fmt.Sprintf("locally rate limited, retry after %s", e.RetryAfter)
}

// LocalLimitReached is returned the instant the sliding window fills up.
type LocalLimitReached struct{}

func (e *LocalLimitReached) Error() string { return "local sliding window limit reached" }

// FugleLimiter is a hand-rolled sliding-window rate limiter (60 req / 60s)
// with a remote-429 cooldown. golang.org/x/time/rate implements a token
// bucket, not a sliding window, so it cannot express this directly — see
// DESIGN.md. The deque of timestamps is a container/list, mirroring the
// original implementation's own deque.
type FugleLimiter struct {
	mu          sync.Mutex
	timestamps  *list.List
	blockedUntil time.Time
	now         func() time.Time
}

// NewFugleLimiter constructs a limiter using time.Now as its clock.
func NewFugleLimiter() *FugleLimiter {
	return &FugleLimiter{timestamps: list.New(), now: time.Now}
}

// Acquire returns LocallyRateLimited while a cooldown is active, and
// LocalLimitReached (starting a cooldown that lasts until the oldest
// timestamp leaves the window) when the sliding window is full;
// otherwise it records the new timestamp and admits the call.
func (l *FugleLimiter) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// 1. drop timestamps older than the window; clear blockedUntil if passed.
	cutoff := now.Add(-fugleWindow)
	for e := l.timestamps.Front(); e != nil; {
		next := e.Next()
		if e.Value.(time.Time).Before(cutoff) {
			l.timestamps.Remove(e)
		}
		e = next
	}
	if !l.blockedUntil.IsZero() && !now.Before(l.blockedUntil) {
		l.blockedUntil = time.Time{}
	}

	// 2. still blocked?
	if !l.blockedUntil.IsZero() {
		return &LocallyRateLimited{RetryAfter: l.blockedUntil.Sub(now)}
	}

	// 3. window full?
	if l.timestamps.Len() >= fugleMaxInWindow {
		oldest := l.timestamps.Front().Value.(time.Time)
		l.blockedUntil = oldest.Add(fugleWindow)
		return &LocalLimitReached{}
	}

	// 4. admit.
	l.timestamps.PushBack(now)
	return nil
}

// NotifyRemoteRateLimited forces a cooldown after an upstream HTTP 429.
func (l *FugleLimiter) NotifyRemoteRateLimited() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blockedUntil = l.now().Add(fugleWindow)
}
