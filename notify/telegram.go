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

// Package notify sends outbound notifications. Telegram delivery is
// grounded on Andrew50-peripheral's bot-init/Send pattern, generalized to
// a config-driven token and an arbitrary set of allowed chat IDs rather
// than a literal chat ID compiled into the binary.
package notify

import (
	"fmt"
	"time"

	"gopkg.in/telebot.v3"
)

// Telegram fans a message out to every configured chat ID.
type Telegram struct {
	bot     *telebot.Bot
	chatIDs []int64
}

// NewTelegram starts a bot with the given token and recipient chat IDs
// (TELEGRAM_ALLOWED from configuration).
func NewTelegram(token string, chatIDs []int64) (*Telegram, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("notify: init telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatIDs: chatIDs}, nil
}

// Send delivers msg to every configured chat, logging nothing itself —
// callers decide whether a partial-delivery failure is fatal.
func (t *Telegram) Send(msg string) error {
	var firstErr error
	for _, id := range t.chatIDs {
		if _, err := t.bot.Send(telebot.ChatID(id), msg); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("notify: send to chat %d: %w", id, err)
		}
	}
	return firstErr
}
