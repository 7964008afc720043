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

// Package rpcclient calls out to the sibling service's Stock RPC
// endpoint, grounded on aristath-sentinel/bridge-go/main.go's Bridge:
// dial, wrap in the msgpackrpc codec, expose typed Call wrappers.
package rpcclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/rpc"

	msgpackrpc "github.com/hashicorp/net-rpc-msgpackrpc"
	"github.com/rs/zerolog"

	"github.com/twstock/stockwatch/model"
)

// Client calls the sibling service's Stock RPC methods.
type Client struct {
	rpc *rpc.Client
	log zerolog.Logger
}

// Dial connects to addr. When certFile is non-empty the connection is
// upgraded to TLS with domain used for server-name verification.
func Dial(addr, domain, certFile, keyFile string, log zerolog.Logger) (*Client, error) {
	var conn net.Conn
	var err error

	if certFile != "" {
		cert, loadErr := tls.LoadX509KeyPair(certFile, keyFile)
		if loadErr != nil {
			return nil, fmt.Errorf("rpcclient: load TLS cert: %w", loadErr)
		}
		conn, err = tls.Dial("tcp", addr, &tls.Config{
			Certificates: []tls.Certificate{cert},
			ServerName:   domain,
		})
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("rpcclient: dial %s: %w", addr, err)
	}

	return &Client{
		rpc: rpc.NewClientWithCodec(msgpackrpc.NewClientCodec(conn)),
		log: log.With().Str("component", "rpcclient").Logger(),
	}, nil
}

// PushStockUpdate notifies the sibling service that symbol's Stock row
// changed. Failures are logged only — the listings update that
// triggered this push must not itself fail.
func (c *Client) PushStockUpdate(stock model.Stock) {
	args := struct {
		Symbol string
		Fields map[string]string
	}{
		Symbol: stock.StockSymbol,
		Fields: map[string]string{
			"name":         stock.Name,
			"market":       stock.Market.String(),
			"suspended":    fmt.Sprintf("%t", stock.Suspended),
			"nav":          stock.NetAssetValuePerShare.String(),
			"index_weight": stock.IndexWeight.String(),
		},
	}
	var reply struct{}

	if err := c.rpc.Call("Stock.UpdateStockInfo", args, &reply); err != nil {
		c.log.Warn().Err(err).Str("symbol", stock.StockSymbol).Msg("push stock update failed")
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}
