// Copyright © 2025 pitchireddy1980
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package config loads the per-service YAML file every participant binary
// reads at startup, layered with environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Bus is the message-bus connection surface every participant shares.
type Bus struct {
	Brokers       []string `mapstructure:"brokers"`
	ConsumerGroup string   `mapstructure:"consumer-group"`
}

// Store is the relational store connection surface.
type Store struct {
	DSN string `mapstructure:"dsn"`
}

// Saga carries the saga-wide tunables named in the external interface
// surface: advisory per-event timeout and the handler retry budget.
type Saga struct {
	TimeoutMs  int `mapstructure:"timeout-ms"`
	MaxRetries int `mapstructure:"max-retries"`
}

// Server is the REST listen address, used by the order service only.
type Server struct {
	Port string `mapstructure:"port"`
}

// Payment carries the Payment service's gateway simulator knobs.
type Payment struct {
	GatewayFailureRate float64 `mapstructure:"gateway-failure-rate"`
}

// Notification carries the Notification service's dedup store choice.
type Notification struct {
	DedupStore string `mapstructure:"dedup-store"`
	RedisAddr  string `mapstructure:"redis-addr"`
}

// Config is the full shape any of the four services may populate; a given
// service only reads the sections relevant to it.
type Config struct {
	Bus          Bus          `mapstructure:"bus"`
	Store        Store        `mapstructure:"store"`
	Saga         Saga         `mapstructure:"saga"`
	Server       Server       `mapstructure:"server"`
	Payment      Payment      `mapstructure:"payment"`
	Notification Notification `mapstructure:"notification"`
}

func defaults() Config {
	return Config{
		Bus:          Bus{Brokers: []string{"localhost:9092"}},
		Saga:         Saga{TimeoutMs: 15000, MaxRetries: 3},
		Payment:      Payment{GatewayFailureRate: 0.10},
		Notification: Notification{DedupStore: "memory"},
	}
}

// Load reads "<service>.yaml" from the working directory or ./configs (and,
// failing that, keeps the values from defaults()), then applies environment
// variable overrides prefixed with the service name, e.g.
// ORDERSERVICE_BUS_BROKERS. Overrides apply only to keys the YAML file
// sets; with no file, the defaults are used as they are.
func Load(service string) (Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigName(service)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(fmt.Sprintf("./configs"))
	v.SetEnvPrefix(service)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("config: read %s.yaml: %w", service, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s config: %w", service, err)
	}
	return cfg, nil
}
