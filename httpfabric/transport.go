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
	"net"
	"net/http"
	"time"
)

const (
	idleConnsPerHost = 20
	idleConnTimeout  = 90 * time.Second
	keepAliveProbe   = 30 * time.Second
)

// newKeepAliveTransport builds the *http.Transport this package's client
// shares across every request: per-host idle pool capped at 20 sockets
// with a 90s idle reap, TCP keepalive probing every 30s, and an 8s
// connect timeout.
func newKeepAliveTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: keepAliveProbe,
	}
	return &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConnsPerHost: idleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		ForceAttemptHTTP2:   true,
	}
}
