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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario E / invariant 7 — the limiter never admits more than 60
// requests in any 60s window.
func TestFugleLimiterTripsAt61(t *testing.T) {
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := NewFugleLimiter()
	l.now = func() time.Time { return clock }

	for i := 0; i < 60; i++ {
		clock = clock.Add(45 * time.Second / 60)
		require.NoError(t, l.Acquire())
	}

	err := l.Acquire()
	require.Error(t, err)
	var limitReached *LocalLimitReached
	assert.ErrorAs(t, err, &limitReached)

	err2 := l.Acquire()
	var rateLimited *LocallyRateLimited
	require.ErrorAs(t, err2, &rateLimited)
	assert.InDelta(t, 15*time.Second, rateLimited.RetryAfter, float64(2*time.Second))
}

func TestFugleLimiterWindowExpires(t *testing.T) {
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := NewFugleLimiter()
	l.now = func() time.Time { return clock }

	for i := 0; i < 60; i++ {
		require.NoError(t, l.Acquire())
	}
	require.Error(t, l.Acquire())

	clock = clock.Add(61 * time.Second)
	assert.NoError(t, l.Acquire())
}

func TestFugleLimiterRemote429(t *testing.T) {
	l := NewFugleLimiter()
	l.NotifyRemoteRateLimited()
	err := l.Acquire()
	require.Error(t, err)
	var rateLimited *LocallyRateLimited
	assert.ErrorAs(t, err, &rateLimited)
}
