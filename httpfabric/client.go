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

// Package httpfabric is the single process-wide HTTP client: a bounded
// concurrency gate, randomized User-Agents, bounded retries with
// exponential backoff, and BIG5/JSON/form convenience entry points. It is
// a resty client wired with a semaphore gate, the shape used elsewhere
// in this codebase for rate-limited outbound calls, generalized here
// into one process-wide singleton instead of one client per provider.
package httpfabric

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

const (
	maxConcurrent = 5
	maxRetries    = 2
	connectTimeout = 8 * time.Second
	totalTimeout   = 15 * time.Second
	postSendDelay  = 300 * time.Millisecond
)

// Client is the process-wide HTTP fabric. It is read-only after init.
type Client struct {
	rest  *resty.Client
	gate  *semaphore.Weighted
}

var (
	once     sync.Once
	instance *Client
)

// Get returns the lazily-initialized singleton client.
func Get() *Client {
	once.Do(func() {
		instance = newClient()
	})
	return instance
}

func newClient() *Client {
	r := resty.New().
		SetTimeout(totalTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", randomUserAgent())
	r.SetTransport(newKeepAliveTransport())
	return &Client{
		rest: r,
		gate: semaphore.NewWeighted(maxConcurrent),
	}
}

// HttpExhausted is returned when every retry attempt of send() fails.
type HttpExhausted struct {
	URL      string
	Attempts int
	Last     error
}

func (e *HttpExhausted) Error() string {
	return fmt.Sprintf("http fabric exhausted after %d attempts for %s: %v", e.Attempts, e.URL, e.Last)
}

func (e *HttpExhausted) Unwrap() error { return e.Last }

type bodyFunc func(*resty.Request)

// send implements the per-request flow: compose, acquire the global
// permit, send, sleep a post-send courtesy delay, retry with
// exponential backoff on failure.
func (c *Client) send(ctx context.Context, method, url string, headers map[string]string, body bodyFunc) (*resty.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req := c.rest.R().SetContext(ctx).SetHeaders(headers)
		if body != nil {
			body(req)
		}

		if err := c.gate.Acquire(ctx, 1); err != nil {
			return nil, err
		}

		resp, err := req.Execute(method, url)
		time.Sleep(postSendDelay)
		c.gate.Release(1)

		if err == nil {
			return resp, nil
		}

		lastErr = err
		log.Warn().Err(err).Str("url", url).Int("attempt", attempt).Msg("http fabric send failed")
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<attempt) * time.Second)
		}
	}
	return nil, &HttpExhausted{URL: url, Attempts: maxRetries, Last: lastErr}
}

// Get issues a GET request and returns the raw UTF-8 response body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (string, error) {
	resp, err := c.send(ctx, "GET", url, headers, nil)
	if err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}

// GetJSON issues a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	resp, err := c.send(ctx, "GET", url, headers, func(r *resty.Request) {
		r.SetResult(out)
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), url)
	}
	return nil
}

// GetBig5 issues a GET request and force-decodes the response bytes as
// BIG5, returning UTF-8 text. No example repo in the retrieval pack
// imports a Traditional-Chinese decoder; golang.org/x/text is used here
// as the ecosystem-standard choice, named rather than pack-grounded.
func (c *Client) GetBig5(ctx context.Context, url string, headers map[string]string) (string, error) {
	resp, err := c.send(ctx, "GET", url, headers, nil)
	if err != nil {
		return "", err
	}
	reader := transform.NewReader(strings.NewReader(string(resp.Body())), traditionalchinese.Big5.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("big5 decode %s: %w", url, err)
	}
	return string(decoded), nil
}

// PostForm issues a form-encoded POST request.
func (c *Client) PostForm(ctx context.Context, url string, form map[string]string) (string, error) {
	resp, err := c.send(ctx, "POST", url, nil, func(r *resty.Request) {
		r.SetFormData(form)
	})
	if err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}

// PostJSON issues a JSON POST request, encoding reqBody and decoding the
// response into respOut.
func (c *Client) PostJSON(ctx context.Context, url string, reqBody interface{}, respOut interface{}) error {
	resp, err := c.send(ctx, "POST", url, nil, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(reqBody).SetResult(respOut)
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), url)
	}
	return nil
}
