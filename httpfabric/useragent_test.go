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
package httpfabric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomUserAgentNeverEmpty(t *testing.T) {
	for i := 0; i < 200; i++ {
		ua := randomUserAgent()
		assert.NotEmpty(t, ua)
		assert.True(t, strings.HasPrefix(ua, "Mozilla/5.0"))
	}
}

func TestHttpExhaustedUnwraps(t *testing.T) {
	inner := assert.AnError
	err := &HttpExhausted{URL: "http://example.com", Attempts: 3, Last: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "3 attempts")
}
