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

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

const (
	IncidentOpen         IncidentStatus = "open"
	IncidentAcknowledged IncidentStatus = "acknowledged"
	IncidentResolved     IncidentStatus = "resolved"
)

// Active reports whether the incident still needs attention.
func (s IncidentStatus) Active() bool {
	return s == IncidentOpen || s == IncidentAcknowledged
}

// Incident is one tracked operational problem, deduplicated on
// (provider key, code) while open or acknowledged.
type Incident struct {
	ID          int                    `json:"id"`
	ProviderKey string                 `json:"provider_key"`
	Code        IssueCode              `json:"code"`
	Status      IncidentStatus         `json:"status"`
	Summary     string                 `json:"summary"`
	Details     map[string]interface{} `json:"details,omitempty"`
	OpenedAt    time.Time              `json:"opened_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Clone returns a deep copy with its own details map.
func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}

	out := *i
	out.Details = make(map[string]interface{}, len(i.Details))

	for k, v := range i.Details {
		out.Details[k] = v
	}

	return &out
}
