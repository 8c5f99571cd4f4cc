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

package models

import "time"

const defaultIntervalMinutes = 1440 // daily

// Snapshot is the minimal numeric fingerprint of one provider's tariff,
// kept per financial year for run-over-run drift comparison. Est160 is the
// estimated annual bill at the benchmark usage.
type Snapshot struct {
	NetworkCharge  float64  `json:"network_charge"`
	SewerageCharge float64  `json:"sewerage_charge"`
	U1             float64  `json:"u1"`
	U2             *float64 `json:"u2"`
	Est160         float64  `json:"est160"`
}

// Meta carries the dataset-level bookkeeping strings.
type Meta struct {
	FY          string `json:"fy"`
	LastUpdated string `json:"last_updated"`
}

// OpsState is the single persisted ops document. It is loaded wholesale
// and rewritten wholesale on every mutation; there is no partial update
// protocol, and concurrent writers are last-write-wins.
type OpsState struct {
	Scheduler SchedulerState                 `json:"scheduler"`
	Providers map[string]*ProviderHealth     `json:"providers"`
	Incidents []*Incident                    `json:"incidents"`
	Runs      []RunLogEntry                  `json:"runs"`
	Snapshots map[string]map[string]Snapshot `json:"snapshots"`
	Meta      Meta                           `json:"meta"`
}

// NewOpsState returns the default document used when no state file exists
// yet: scheduler disabled at a daily cadence, empty collections.
func NewOpsState() *OpsState {
	return &OpsState{
		Scheduler: SchedulerState{IntervalMinutes: defaultIntervalMinutes},
		Providers: make(map[string]*ProviderHealth),
		Incidents: []*Incident{},
		Runs:      []RunLogEntry{},
		Snapshots: make(map[string]map[string]Snapshot),
		Meta:      Meta{FY: "2025-26"},
	}
}

// Normalize applies defaulting for missing or legacy fields after decode.
// The rest of the core assumes non-nil collections and a sane interval.
func (s *OpsState) Normalize() {
	if s.Providers == nil {
		s.Providers = make(map[string]*ProviderHealth)
	}

	if s.Incidents == nil {
		s.Incidents = []*Incident{}
	}

	if s.Runs == nil {
		s.Runs = []RunLogEntry{}
	}

	if s.Snapshots == nil {
		s.Snapshots = make(map[string]map[string]Snapshot)
	}

	if s.Scheduler.IntervalMinutes <= 0 {
		s.Scheduler.IntervalMinutes = defaultIntervalMinutes
	}

	if s.Meta.FY == "" {
		s.Meta.FY = "2025-26"
	}

	for key, ph := range s.Providers {
		if ph == nil {
			s.Providers[key] = NewProviderHealth()
		}
	}
}

// Health returns the health record for key, creating the default record
// in place on first access.
func (s *OpsState) Health(key string) *ProviderHealth {
	ph, ok := s.Providers[key]
	if !ok || ph == nil {
		ph = NewProviderHealth()
		s.Providers[key] = ph
	}

	return ph
}

// ActiveIncident finds the open or acknowledged incident for
// (providerKey, code), or nil.
func (s *OpsState) ActiveIncident(providerKey string, code IssueCode) *Incident {
	for _, inc := range s.Incidents {
		if inc.ProviderKey == providerKey && inc.Code == code && inc.Status.Active() {
			return inc
		}
	}

	return nil
}

// NextIncidentID allocates the next incident id: max existing + 1, or 1.
func (s *OpsState) NextIncidentID() int {
	maxID := 0

	for _, inc := range s.Incidents {
		if inc.ID > maxID {
			maxID = inc.ID
		}
	}

	return maxID + 1
}

// AppendRun appends one run-log entry and enforces the cap, dropping the
// oldest entries.
func (s *OpsState) AppendRun(ts time.Time, event string, details map[string]interface{}) {
	s.Runs = append(s.Runs, RunLogEntry{TS: ts, Event: event, Details: details})

	if len(s.Runs) > RunLogCap {
		s.Runs = s.Runs[len(s.Runs)-RunLogCap:]
	}
}

// RefreshResult summarizes one refresh pass.
type RefreshResult struct {
	Count           int   `json:"count"`
	Errors          int   `json:"errors"`
	Warns           int   `json:"warns"`
	OpenedIncidents []int `json:"opened_incidents"`
}

// DashboardStatus is the read-only aggregate rendered by the dashboard.
type DashboardStatus struct {
	Counts             map[ProviderStatus]int `json:"counts"`
	TotalProviders     int                    `json:"total_providers"`
	ValidationPassRate float64                `json:"validation_pass_rate"`
	LastRun            *RunLogEntry           `json:"last_run,omitempty"`
	Scheduler          SchedulerState         `json:"scheduler"`
	Meta               Meta                   `json:"meta"`
}
