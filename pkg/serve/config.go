// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Cache tunes the transport-level response cache. The comparison engine
// itself stays stateless; only serialized HTTP responses are cached.
type Cache struct {
	Enabled     bool  `toml:"enabled"`
	MaxCost     int64 `toml:"max_cost,omitempty"`
	NumCounters int64 `toml:"num_counters,omitempty"`
}

type ServerConfig struct {
	Listen       string   `toml:"listen"`
	ReadTimeout  Duration `toml:"read_timeout,omitempty"`
	WriteTimeout Duration `toml:"write_timeout,omitempty"`
	IdleTimeout  Duration `toml:"idle_timeout,omitempty"`
	// MaxBodySize caps one request body; comparisons hold both inputs in
	// memory.
	MaxBodySize int64 `toml:"max_body_size,omitempty"`
	// AuthSecret enables HS256 bearer-token auth on /api when non-empty.
	AuthSecret string `toml:"auth_secret,omitempty"`
	Cache      Cache  `toml:"cache,omitempty"`
}

const (
	defaultListen      = "127.0.0.1:8427"
	defaultMaxBodySize = 64 << 20
)

func (sc *ServerConfig) setDefaults() {
	if sc.Listen == "" {
		sc.Listen = defaultListen
	}
	if sc.ReadTimeout.Duration == 0 {
		sc.ReadTimeout.Duration = 60 * time.Second
	}
	if sc.WriteTimeout.Duration == 0 {
		sc.WriteTimeout.Duration = 120 * time.Second
	}
	if sc.IdleTimeout.Duration == 0 {
		sc.IdleTimeout.Duration = 90 * time.Second
	}
	if sc.MaxBodySize == 0 {
		sc.MaxBodySize = defaultMaxBodySize
	}
	if sc.Cache.MaxCost == 0 {
		sc.Cache.MaxCost = 256 << 20
	}
	if sc.Cache.NumCounters == 0 {
		sc.Cache.NumCounters = 1 << 20
	}
}

// NewServerConfig loads a TOML config file; an empty path yields defaults.
func NewServerConfig(path string) (*ServerConfig, error) {
	sc := &ServerConfig{}
	if path != "" {
		fd, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open server config: %w", err)
		}
		defer fd.Close()
		if _, err = toml.NewDecoder(fd).Decode(sc); err != nil {
			return nil, fmt.Errorf("decode server config: %w", err)
		}
	}
	sc.setDefaults()
	return sc, nil
}
