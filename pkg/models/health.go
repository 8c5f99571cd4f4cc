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

import (
	"encoding/json"
	"time"
)

// ProviderStatus is the operational status of one provider's tariff data.
type ProviderStatus string

const (
	StatusOK               ProviderStatus = "OK"
	StatusStale            ProviderStatus = "STALE"
	StatusIncomplete       ProviderStatus = "INCOMPLETE"
	StatusError            ProviderStatus = "ERROR"
	StatusNonCommunicating ProviderStatus = "NON_COMMUNICATING"
	StatusUnknown          ProviderStatus = "UNKNOWN"
)

// ProviderHealth tracks the data-quality status of one provider. Reasons
// holds machine-set status explanations and is cleared on a clean pass;
// Annotations holds operator notes and is never cleared automatically.
type ProviderHealth struct {
	Status       ProviderStatus `json:"status"`
	LastChecked  *time.Time     `json:"last_checked,omitempty"`
	LastSuccess  *time.Time     `json:"last_success,omitempty"`
	FailureCount int            `json:"failure_count"`
	Reasons      []string       `json:"reasons,omitempty"`
	Annotations  []string       `json:"annotations,omitempty"`
}

// NewProviderHealth returns the lazily-created default health record.
func NewProviderHealth() *ProviderHealth {
	return &ProviderHealth{Status: StatusUnknown}
}

// providerHealthAlias avoids recursing into UnmarshalJSON.
type providerHealthAlias ProviderHealth

type providerHealthWire struct {
	providerHealthAlias

	// Legacy documents carried a single mixed "notes" list.
	LegacyNotes []string `json:"notes,omitempty"`
}

// UnmarshalJSON decodes a health record, folding the legacy "notes" field
// into Reasons when no split fields are present.
func (p *ProviderHealth) UnmarshalJSON(data []byte) error {
	var wire providerHealthWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*p = ProviderHealth(wire.providerHealthAlias)

	if len(p.Reasons) == 0 && len(wire.LegacyNotes) > 0 {
		p.Reasons = wire.LegacyNotes
	}

	if p.Status == "" {
		p.Status = StatusUnknown
	}

	return nil
}

// Clone returns a deep copy safe to hand to callers.
func (p *ProviderHealth) Clone() *ProviderHealth {
	if p == nil {
		return nil
	}

	out := *p
	if p.LastChecked != nil {
		t := *p.LastChecked
		out.LastChecked = &t
	}

	if p.LastSuccess != nil {
		t := *p.LastSuccess
		out.LastSuccess = &t
	}

	out.Reasons = append([]string(nil), p.Reasons...)
	out.Annotations = append([]string(nil), p.Annotations...)

	return &out
}
