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
	"math"

	"github.com/waterline-au/waterops/pkg/models"
)

// DashboardStatus aggregates per-status counts, validation pass rate and
// the latest completed run for the dashboard tiles. Providers the
// refresh has never touched count as UNKNOWN.
func (s *Service) DashboardStatus() (*models.DashboardStatus, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	keys := s.dataset.Keys()
	counts := make(map[models.ProviderStatus]int)

	for _, key := range keys {
		status := models.StatusUnknown

		if ph, ok := state.Providers[key]; ok && ph != nil {
			status = ph.Status
		}

		counts[status]++
	}

	passRate := 0.0
	if len(keys) > 0 {
		passRate = math.Round(float64(counts[models.StatusOK])/float64(len(keys))*1000) / 10
	}

	var lastRun *models.RunLogEntry

	for i := len(state.Runs) - 1; i >= 0; i-- {
		if state.Runs[i].Event == models.EventRefreshEnd {
			entry := state.Runs[i]
			lastRun = &entry

			break
		}
	}

	return &models.DashboardStatus{
		Counts:             counts,
		TotalProviders:     len(keys),
		ValidationPassRate: passRate,
		LastRun:            lastRun,
		Scheduler:          state.Scheduler.Clone(),
		Meta:               state.Meta,
	}, nil
}

// RunLogs returns up to limit run-log entries, newest first. A
// non-positive limit returns everything.
func (s *Service) RunLogs(limit int) ([]models.RunLogEntry, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	runs := state.Runs

	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}

	out := make([]models.RunLogEntry, 0, len(runs))

	for i := len(runs) - 1; i >= 0; i-- {
		out = append(out, runs[i])
	}

	return out, nil
}

// ProviderHealth returns the health record for key, or the default
// UNKNOWN record for a provider that has never been checked. The lazy
// default is not persisted by a read.
func (s *Service) ProviderHealth(key string) (*models.ProviderHealth, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	if ph, ok := state.Providers[key]; ok && ph != nil {
		return ph.Clone(), nil
	}

	return models.NewProviderHealth(), nil
}

// MarkProviderChecked records a manual verification of one provider's
// tariff against its source. Success resets the failure streak and
// clears machine-set reasons; failure increments it, subject to the
// non-communication override. An optional note is kept as an operator
// annotation.
func (s *Service) MarkProviderChecked(key string, success bool, note string) (*models.ProviderHealth, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	ph := state.Health(key)
	ph.LastChecked = &now

	if success {
		ph.Status = models.StatusOK
		ph.LastSuccess = &now
		ph.FailureCount = 0
		ph.Reasons = nil
	} else {
		ph.FailureCount++
		ph.Status = models.StatusError

		if ph.FailureCount >= s.opts.NonCommThreshold {
			ph.Status = models.StatusNonCommunicating
		}
	}

	if note != "" {
		ph.Annotations = append(ph.Annotations, note)
	}

	if err := s.store.Save(state); err != nil {
		return nil, err
	}

	return ph.Clone(), nil
}

// UpdateMeta sets the financial year and/or last-updated strings; nil
// leaves a field unchanged.
func (s *Service) UpdateMeta(fy, lastUpdated *string) (models.Meta, error) {
	state, err := s.store.Load()
	if err != nil {
		return models.Meta{}, err
	}

	if fy != nil && *fy != "" {
		state.Meta.FY = *fy
	}

	if lastUpdated != nil && *lastUpdated != "" {
		state.Meta.LastUpdated = *lastUpdated
	}

	if err := s.store.Save(state); err != nil {
		return models.Meta{}, err
	}

	return state.Meta, nil
}
