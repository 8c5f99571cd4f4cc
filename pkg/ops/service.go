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

// Package ops implements the operations core over the tariff dataset:
// the refresh orchestrator, provider health tracking, incident lifecycle,
// run log and scheduler scaffold, all sharing one persisted document.
//
// The service is single-writer by design. Every operation runs one
// load-modify-save cycle against the store; that cycle is the critical
// section. Two processes mutating the same state file race with
// last-write-wins semantics on the whole document.
package ops

import (
	"github.com/waterline-au/waterops/pkg/logger"
	"github.com/waterline-au/waterops/pkg/statestore"
	"github.com/waterline-au/waterops/pkg/tariffs"
)

const (
	// DefaultFreshnessSLADays is how old a provider's last check may be
	// before it is marked STALE.
	DefaultFreshnessSLADays = 30

	// DefaultNonCommThreshold is the consecutive-failure count that
	// escalates a provider to NON_COMMUNICATING.
	DefaultNonCommThreshold = 3

	// DefaultDriftAlertPct is the benchmark-bill swing that raises a
	// drift warning.
	DefaultDriftAlertPct = 15.0
)

// Options are the environment-tunable ops parameters.
type Options struct {
	FreshnessSLADays int
	NonCommThreshold int
	DriftAlertPct    float64
}

func (o *Options) applyDefaults() {
	if o.FreshnessSLADays <= 0 {
		o.FreshnessSLADays = DefaultFreshnessSLADays
	}

	if o.NonCommThreshold <= 0 {
		o.NonCommThreshold = DefaultNonCommThreshold
	}

	if o.DriftAlertPct <= 0 {
		o.DriftAlertPct = DefaultDriftAlertPct
	}
}

// Service is the operations core. All entry points are synchronous and
// complete in-memory plus one file read/write.
type Service struct {
	store   statestore.Store
	dataset tariffs.Dataset
	clock   Clock
	opts    Options
	logger  logger.Logger
}

// NewService wires the ops core. A nil dataset uses the built-in static
// table; a nil logger discards output.
func NewService(store statestore.Store, dataset tariffs.Dataset, opts Options, log logger.Logger) *Service {
	opts.applyDefaults()

	if dataset == nil {
		dataset = tariffs.Static()
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Service{
		store:   store,
		dataset: dataset,
		clock:   realClock{},
		opts:    opts,
		logger:  log,
	}
}

// WithClock swaps the time source; used by tests.
func (s *Service) WithClock(clock Clock) *Service {
	s.clock = clock
	return s
}

// Dataset exposes the tariff table the service quotes against.
func (s *Service) Dataset() tariffs.Dataset {
	return s.dataset
}
