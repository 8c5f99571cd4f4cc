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

package ops

import (
	"github.com/waterline-au/waterops/pkg/models"
)

// SetSchedulerEnabled toggles the refresh scheduler and optionally
// changes its cadence. intervalMinutes is ignored when nil or
// non-positive. Enabling with no prior run makes the next page-load
// due-check fire immediately.
func (s *Service) SetSchedulerEnabled(enabled bool, intervalMinutes *int) (models.SchedulerState, error) {
	state, err := s.store.Load()
	if err != nil {
		return models.SchedulerState{}, err
	}

	now := s.clock.Now().UTC()
	sch := &state.Scheduler
	sch.Enabled = enabled

	if intervalMinutes != nil && *intervalMinutes > 0 {
		sch.IntervalMinutes = *intervalMinutes
	}

	sch.History = append(sch.History, models.SchedulerToggle{
		TS:              now,
		Enabled:         enabled,
		IntervalMinutes: sch.IntervalMinutes,
	})

	event := models.EventSchedulerOff

	if enabled {
		event = models.EventSchedulerOn

		if sch.LastRunAt != nil {
			next := sch.LastRunAt.Add(sch.Interval())
			sch.NextRunDueAt = &next
		} else {
			sch.NextRunDueAt = &now
		}
	} else {
		sch.NextRunDueAt = nil
	}

	state.AppendRun(now, event, map[string]interface{}{
		"interval_minutes": sch.IntervalMinutes,
	})

	if err := s.store.Save(state); err != nil {
		return models.SchedulerState{}, err
	}

	return sch.Clone(), nil
}

// SchedulerStatus returns a copy of the scheduler state.
func (s *Service) SchedulerStatus() (models.SchedulerState, error) {
	state, err := s.store.Load()
	if err != nil {
		return models.SchedulerState{}, err
	}

	return state.Scheduler.Clone(), nil
}

// MaybeRunScheduledRefresh fires one full refresh when the scheduler is
// enabled and its due time has passed, and returns the result; otherwise
// it is a silent no-op returning nil. Safe to call on every page load:
// the due time only advances after a refresh completes, so at most one
// refresh fires per due window.
func (s *Service) MaybeRunScheduledRefresh() (*models.RefreshResult, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	sch := state.Scheduler

	if !sch.Enabled || sch.NextRunDueAt == nil {
		return nil, nil
	}

	if s.clock.Now().UTC().Before(*sch.NextRunDueAt) {
		return nil, nil
	}

	res, err := s.RefreshAll(nil)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// recomputeNextDue advances the due time from the fresh last run, or
// clears it while the scheduler is disabled.
func (s *Service) recomputeNextDue(sch *models.SchedulerState) {
	if !sch.Enabled || sch.LastRunAt == nil {
		if !sch.Enabled {
			sch.NextRunDueAt = nil
		}

		return
	}

	next := sch.LastRunAt.Add(sch.Interval())
	sch.NextRunDueAt = &next
}
