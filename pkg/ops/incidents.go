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
	"time"

	"github.com/waterline-au/waterops/pkg/models"
)

// openOrUpdateIncident deduplicates on (providerKey, code) among open and
// acknowledged incidents. A repeat merges details (new keys win) and
// bumps updated_at; otherwise a new incident is created, even when a
// resolved one exists for the same pair. Returns the incident id and
// whether a new incident was created.
func (s *Service) openOrUpdateIncident(state *models.OpsState, now time.Time, providerKey string, code models.IssueCode, summary string, details map[string]interface{}) (int, bool) {
	if existing := state.ActiveIncident(providerKey, code); existing != nil {
		if existing.Details == nil {
			existing.Details = make(map[string]interface{}, len(details))
		}

		for k, v := range details {
			existing.Details[k] = v
		}

		existing.UpdatedAt = now

		state.AppendRun(now, models.EventIncidentUpdate, map[string]interface{}{
			"id":           existing.ID,
			"provider_key": providerKey,
			"code":         string(code),
		})

		return existing.ID, false
	}

	inc := &models.Incident{
		ID:          state.NextIncidentID(),
		ProviderKey: providerKey,
		Code:        code,
		Status:      models.IncidentOpen,
		Summary:     summary,
		Details:     details,
		OpenedAt:    now,
		UpdatedAt:   now,
	}

	state.Incidents = append(state.Incidents, inc)

	state.AppendRun(now, models.EventIncidentOpen, map[string]interface{}{
		"id":           inc.ID,
		"provider_key": providerKey,
		"code":         string(code),
	})

	return inc.ID, true
}

// UpdateIncident moves an incident to the supplied status and merges an
// optional note into its details. Returns false when no incident has
// that id; an unknown id is a boolean failure, never an error, and no
// incident is created. Transition legality is left to the UI.
func (s *Service) UpdateIncident(id int, status models.IncidentStatus, note string) (bool, error) {
	state, err := s.store.Load()
	if err != nil {
		return false, err
	}

	var target *models.Incident

	for _, inc := range state.Incidents {
		if inc.ID == id {
			target = inc
			break
		}
	}

	if target == nil {
		return false, nil
	}

	now := s.clock.Now().UTC()
	target.Status = status
	target.UpdatedAt = now

	if note != "" {
		if target.Details == nil {
			target.Details = make(map[string]interface{})
		}

		target.Details["note"] = note
	}

	state.AppendRun(now, models.EventIncidentUpdate, map[string]interface{}{
		"id":     id,
		"status": string(status),
	})

	if err := s.store.Save(state); err != nil {
		return false, err
	}

	return true, nil
}

// ListIncidents returns incidents, optionally filtered by status.
// Callers get clones; mutating them does not touch stored state.
func (s *Service) ListIncidents(status models.IncidentStatus) ([]*models.Incident, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	out := make([]*models.Incident, 0, len(state.Incidents))

	for _, inc := range state.Incidents {
		if status != "" && inc.Status != status {
			continue
		}

		out = append(out, inc.Clone())
	}

	return out, nil
}
