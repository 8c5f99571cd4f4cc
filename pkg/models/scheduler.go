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

// Run log event vocabulary. Every ops mutation appends exactly one entry
// tagged with one of these.
const (
	EventRefreshStart   = "refresh_start"
	EventRefreshEnd     = "refresh_end"
	EventSchedulerOn    = "scheduler_on"
	EventSchedulerOff   = "scheduler_off"
	EventIncidentOpen   = "incident_open"
	EventIncidentUpdate = "incident_update"
)

// RunLogCap bounds the persisted run log; the oldest entries beyond the
// cap are dropped, not archived.
const RunLogCap = 500

// RunLogEntry is one operational breadcrumb.
type RunLogEntry struct {
	TS      time.Time              `json:"ts"`
	Event   string                 `json:"event"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SchedulerToggle records one enable/disable action.
type SchedulerToggle struct {
	TS              time.Time `json:"ts"`
	Enabled         bool      `json:"enabled"`
	IntervalMinutes int       `json:"interval_minutes"`
}

// SchedulerState is the refresh scheduler scaffold: enabled flag, cadence
// and due-time bookkeeping. NextRunDueAt is nil while disabled.
type SchedulerState struct {
	Enabled         bool              `json:"enabled"`
	IntervalMinutes int               `json:"interval_minutes"`
	LastRunAt       *time.Time        `json:"last_run_at,omitempty"`
	NextRunDueAt    *time.Time        `json:"next_run_due_at,omitempty"`
	History         []SchedulerToggle `json:"history,omitempty"`
}

// Interval returns the configured cadence as a duration.
func (s *SchedulerState) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// Clone returns a deep copy safe to hand to callers.
func (s *SchedulerState) Clone() SchedulerState {
	out := *s

	if s.LastRunAt != nil {
		t := *s.LastRunAt
		out.LastRunAt = &t
	}

	if s.NextRunDueAt != nil {
		t := *s.NextRunDueAt
		out.NextRunDueAt = &t
	}

	out.History = append([]SchedulerToggle(nil), s.History...)

	return out
}
