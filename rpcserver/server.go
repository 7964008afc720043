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

// Package rpcserver exposes Control and Stock RPC services over
// net/rpc with the hashicorp/net-rpc-msgpackrpc codec, grounded on
// aristath-sentinel/bridge-go/main.go's client-side use of the same
// codec (this package is the listening side of that same wire protocol).
package rpcserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/rpc"

	msgpackrpc "github.com/hashicorp/net-rpc-msgpackrpc"
	"github.com/rs/zerolog"

	"github.com/twstock/stockwatch/source"
)

// ErrUnimplemented is returned by Stock.UpdateStockInfo, which the sibling
// service never actually calls into this process (only client->server in
// the other direction) but is declared for protocol symmetry.
var ErrUnimplemented = errors.New("rpcserver: not implemented")

// Server owns the listener and registered RPC receivers.
type Server struct {
	listener net.Listener
	log      zerolog.Logger
}

// ControlArgs is the empty liveness-check request.
type ControlArgs struct{}

// ControlReply reports process liveness.
type ControlReply struct {
	Code    int
	Message string
}

// Control implements the liveness-check service.
type Control struct{}

func (c *Control) Control(args ControlArgs, reply *ControlReply) error {
	reply.Code = 0
	reply.Message = "ok"
	return nil
}

// StockInfoArgs carries an opaque update payload the sibling service
// pushes; the shape is deliberately untyped since this endpoint never
// does anything with it.
type StockInfoArgs struct {
	Symbol string
	Fields map[string]string
}

// StockInfoReply is unused; UpdateStockInfo always errors.
type StockInfoReply struct{}

// FetchQuotesArgs requests current quotes for a symbol set.
type FetchQuotesArgs struct {
	Symbols []string
}

// QuoteResult is one symbol's fetched price, or a zeroed row if the
// multiplexer could not reach any source for it.
type QuoteResult struct {
	Symbol      string
	Price       string
	Change      string
	ChangeRange string
}

// FetchQuotesReply carries one QuoteResult per requested symbol.
type FetchQuotesReply struct {
	StockPrices []QuoteResult
}

// Stock implements the Stock RPC service: update_stock_info (declared,
// unimplemented) and fetch_current_stock_quotes (fans out via the
// source multiplexer).
type Stock struct {
	Multiplexer *source.Multiplexer
}

func (s *Stock) UpdateStockInfo(args StockInfoArgs, reply *StockInfoReply) error {
	return ErrUnimplemented
}

func (s *Stock) FetchCurrentStockQuotes(args FetchQuotesArgs, reply *FetchQuotesReply) error {
	ctx := context.Background()
	reply.StockPrices = make([]QuoteResult, 0, len(args.Symbols))

	for _, symbol := range args.Symbols {
		q, err := s.Multiplexer.FetchQuote(ctx, symbol)
		if err != nil {
			reply.StockPrices = append(reply.StockPrices, QuoteResult{Symbol: symbol})
			continue
		}
		reply.StockPrices = append(reply.StockPrices, QuoteResult{
			Symbol:      q.Symbol,
			Price:       q.Price.String(),
			Change:      q.Change.String(),
			ChangeRange: q.ChangeRange.String(),
		})
	}
	return nil
}

// New registers the Control and Stock services and binds addr. When
// certFile/keyFile are both non-empty the listener is wrapped in TLS.
func New(addr string, mux *source.Multiplexer, certFile, keyFile string, log zerolog.Logger) (*Server, error) {
	if err := rpc.Register(&Control{}); err != nil {
		return nil, fmt.Errorf("rpcserver: register Control: %w", err)
	}
	if err := rpc.RegisterName("Stock", &Stock{Multiplexer: mux}); err != nil {
		return nil, fmt.Errorf("rpcserver: register Stock: %w", err)
	}

	var listener net.Listener
	var err error
	if certFile != "" && keyFile != "" {
		cert, loadErr := tls.LoadX509KeyPair(certFile, keyFile)
		if loadErr != nil {
			return nil, fmt.Errorf("rpcserver: load TLS cert: %w", loadErr)
		}
		listener, err = tls.Listen("tcp", addr, &tls.Config{Certificates: []tls.Certificate{cert}})
	} else {
		listener, err = net.Listen("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("rpcserver: listen %s: %w", addr, err)
	}

	return &Server{listener: listener, log: log.With().Str("component", "rpcserver").Logger()}, nil
}

// Serve accepts connections until the listener is closed, using the
// msgpackrpc codec on each accepted connection.
func (s *Server) Serve() {
	s.log.Info().Str("addr", s.listener.Addr().String()).Msg("rpc server listening")
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.log.Warn().Err(err).Msg("rpc accept failed, stopping")
			return
		}
		go rpc.ServeCodec(msgpackrpc.NewServerCodec(conn))
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}
