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
	"fmt"

	"github.com/google/uuid"
	"github.com/waterline-au/waterops/pkg/health"
	"github.com/waterline-au/waterops/pkg/models"
	"github.com/waterline-au/waterops/pkg/validation"
)

// RefreshAll validates every known provider (or the subset in only),
// reclassifies health, opens or updates incidents, refreshes drift
// snapshots, sweeps freshness over all providers and persists the
// document exactly once. The snapshot is overwritten even for failing
// providers so drift is always measured run-over-run.
func (s *Service) RefreshAll(only map[string]bool) (models.RefreshResult, error) {
	state, err := s.store.Load()
	if err != nil {
		return models.RefreshResult{}, err
	}

	now := s.clock.Now().UTC()
	runID := uuid.NewString()

	state.AppendRun(now, models.EventRefreshStart, map[string]interface{}{
		"run_id": runID,
	})

	res := models.RefreshResult{OpenedIncidents: []int{}}

	for _, key := range s.dataset.Keys() {
		if only != nil && !only[key] {
			continue
		}

		tariff, ok := s.dataset.Get(key)
		if !ok {
			continue
		}

		issues := validation.Validate(key, tariff)

		fy := state.Meta.FY
		cur := validation.BuildSnapshot(tariff, s.dataset.Threshold(key))

		var prev *models.Snapshot
		if fySnaps, ok := state.Snapshots[fy]; ok {
			if snap, ok := fySnaps[key]; ok {
				prev = &snap
			}
		}

		if drift := validation.CompareDrift(prev, cur, s.opts.DriftAlertPct); drift != nil {
			drift.ProviderKey = key
			issues = append(issues, *drift)
		}

		next := health.Classify(*state.Health(key), issues, now, s.opts.NonCommThreshold)
		state.Providers[key] = &next

		for _, iss := range issues {
			switch iss.Severity {
			case models.SeverityError:
				res.Errors++

				id, opened := s.openOrUpdateIncident(state, now, key, iss.Code,
					fmt.Sprintf("%s: %s", key, iss.Message), iss.Context)
				if opened {
					res.OpenedIncidents = append(res.OpenedIncidents, id)
				}
			case models.SeverityWarn:
				res.Warns++
			}
		}

		if next.Status == models.StatusNonCommunicating {
			id, opened := s.openOrUpdateIncident(state, now, key, models.CodeNonCommunicating,
				fmt.Sprintf("%s: repeated validation failures (%d)", key, next.FailureCount),
				map[string]interface{}{"failure_count": next.FailureCount})
			if opened {
				res.OpenedIncidents = append(res.OpenedIncidents, id)
			}
		}

		if state.Snapshots[fy] == nil {
			state.Snapshots[fy] = make(map[string]models.Snapshot)
		}

		state.Snapshots[fy][key] = cur
		res.Count++
	}

	stale := health.SweepFreshness(state.Providers, now, s.opts.FreshnessSLADays)

	state.Scheduler.LastRunAt = &now
	s.recomputeNextDue(&state.Scheduler)

	state.AppendRun(now, models.EventRefreshEnd, map[string]interface{}{
		"run_id":           runID,
		"count":            res.Count,
		"errors":           res.Errors,
		"warns":            res.Warns,
		"opened_incidents": res.OpenedIncidents,
	})

	if err := s.store.Save(state); err != nil {
		return models.RefreshResult{}, err
	}

	s.logger.Info().
		Str("run_id", runID).
		Int("count", res.Count).
		Int("errors", res.Errors).
		Int("warns", res.Warns).
		Int("opened_incidents", len(res.OpenedIncidents)).
		Strs("stale", stale).
		Msg("Refresh complete")

	return res, nil
}
