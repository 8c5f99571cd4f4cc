/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads service configuration from an optional JSON file
// with environment-variable overrides under the WATEROPS_ prefix.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/waterline-au/waterops/pkg/logger"
	"github.com/waterline-au/waterops/pkg/ops"
)

// EnvPrefix scopes all override variables.
const EnvPrefix = "WATEROPS_"

const (
	defaultListenAddr = ":8090"
	defaultStatePath  = "ops_state.json"
)

// Config is the full service configuration.
type Config struct {
	ListenAddr       string        `json:"listen_addr"`
	StatePath        string        `json:"state_path"`
	Logging          logger.Config `json:"logging"`
	FreshnessSLADays int           `json:"freshness_sla_days"`
	NonCommThreshold int           `json:"noncomm_threshold"`
	DriftAlertPct    float64       `json:"drift_alert_pct"`
}

// OpsOptions maps the tunables onto the ops core's options.
func (c *Config) OpsOptions() ops.Options {
	return ops.Options{
		FreshnessSLADays: c.FreshnessSLADays,
		NonCommThreshold: c.NonCommThreshold,
		DriftAlertPct:    c.DriftAlertPct,
	}
}

// Load reads path when it exists, applies env overrides, then defaults.
// An empty path skips the file stage entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)

		switch {
		case os.IsNotExist(err):
			// fall through to env + defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	if v := os.Getenv(EnvPrefix + "STATE_PATH"); v != "" {
		cfg.StatePath = v
	}

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv(EnvPrefix + "FRESHNESS_SLA_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sFRESHNESS_SLA_DAYS %q: %w", EnvPrefix, v, err)
		}

		cfg.FreshnessSLADays = n
	}

	if v := os.Getenv(EnvPrefix + "NONCOMM_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sNONCOMM_THRESHOLD %q: %w", EnvPrefix, v, err)
		}

		cfg.NonCommThreshold = n
	}

	if v := os.Getenv(EnvPrefix + "DRIFT_ALERT_PCT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sDRIFT_ALERT_PCT %q: %w", EnvPrefix, v, err)
		}

		cfg.DriftAlertPct = f
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath
	}

	if cfg.FreshnessSLADays <= 0 {
		cfg.FreshnessSLADays = ops.DefaultFreshnessSLADays
	}

	if cfg.NonCommThreshold <= 0 {
		cfg.NonCommThreshold = ops.DefaultNonCommThreshold
	}

	if cfg.DriftAlertPct <= 0 {
		cfg.DriftAlertPct = ops.DefaultDriftAlertPct
	}
}
