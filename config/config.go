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

// Package config resolves process configuration, adapted from
// cmd/root.go's viper wiring: if app.json exists it is read first, then
// non-empty environment variables overlay it, and if no file exists the
// whole configuration is built from the environment, failing fast on any
// missing required key.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"
)

// Config is the fully resolved process configuration.
type Config struct {
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisAccount  string
	RedisPassword string
	RedisDB       int

	TelegramToken   string
	TelegramAllowed map[int64]string

	AfraidToken   string
	DynuUsername  string
	DynuPassword  string
	NoipUsername  string
	NoipPassword  string
	NoipHostnames []string

	FugleAPIKey string

	GRPCUsePort  int
	SSLCertFile  string
	SSLKeyFile   string

	RPCTarget   string
	RPCCertFile string
	RPCKeyFile  string
	RPCDomain   string
}

const appConfigFile = "app.json"

var required = []string{
	"POSTGRESQL_HOST", "POSTGRESQL_USER", "POSTGRESQL_PASSWORD", "POSTGRESQL_DB",
}

// Load resolves Config per the precedence rule: app.json if present, then
// env-var overlay; fail fast naming the first missing required key.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(appConfigFile)
	v.SetConfigType("json")
	v.AutomaticEnv()

	v.SetDefault("POSTGRESQL_PORT", 5432)
	v.SetDefault("REDIS_DB", 6379)
	v.SetDefault("SYSTEM_GRPC_USE_PORT", 8700)

	if _, err := os.Stat(appConfigFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", appConfigFile, err)
		}
	}

	for _, key := range required {
		if v.GetString(key) == "" {
			return nil, fmt.Errorf("config: missing required key %s", key)
		}
	}

	c := &Config{
		PostgresHost:     v.GetString("POSTGRESQL_HOST"),
		PostgresPort:     v.GetInt("POSTGRESQL_PORT"),
		PostgresUser:     v.GetString("POSTGRESQL_USER"),
		PostgresPassword: v.GetString("POSTGRESQL_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRESQL_DB"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisAccount:  v.GetString("REDIS_ACCOUNT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		TelegramToken: v.GetString("TELEGRAM_TOKEN"),

		AfraidToken:  v.GetString("AFRAID_TOKEN"),
		DynuUsername: v.GetString("DYNU_USERNAME"),
		DynuPassword: v.GetString("DYNU_PASSWORD"),
		NoipUsername: v.GetString("NOIP_USERNAME"),
		// NOTE: reads NOIP_USERNAME, not NOIP_PASSWORD. This mirrors an
		// apparent typo in the original DDNS config loader; preserved as
		// observed rather than fixed.
		NoipPassword: v.GetString("NOIP_USERNAME"),

		FugleAPIKey: v.GetString("FUGLE_API_KEY"),

		GRPCUsePort: v.GetInt("SYSTEM_GRPC_USE_PORT"),
		SSLCertFile: v.GetString("SYSTEM_SSL_CERT_FILE"),
		SSLKeyFile:  v.GetString("SYSTEM_SSL_KEY_FILE"),

		RPCTarget:   v.GetString("GO_GRPC_TARGET"),
		RPCCertFile: v.GetString("TLS_CERT_FILE"),
		RPCKeyFile:  v.GetString("TLS_KEY_FILE"),
		RPCDomain:   v.GetString("DOMAIN_NAME"),
	}

	if raw := v.GetString("TELEGRAM_ALLOWED"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &c.TelegramAllowed); err != nil {
			return nil, fmt.Errorf("config: parsing TELEGRAM_ALLOWED: %w", err)
		}
	}
	if raw := v.GetString("NOIP_HOSTNAMES"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &c.NoipHostnames); err != nil {
			return nil, fmt.Errorf("config: parsing NOIP_HOSTNAMES: %w", err)
		}
	}

	return c, nil
}

// DatabaseURL renders the postgres connection string pgx expects.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// TelegramChatIDs returns the allowed chat IDs as a slice, the shape
// notify.NewTelegram expects.
func (c *Config) TelegramChatIDs() []int64 {
	ids := make([]int64, 0, len(c.TelegramAllowed))
	for id := range c.TelegramAllowed {
		ids = append(ids, id)
	}
	return ids
}
