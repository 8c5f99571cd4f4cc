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

// Package models defines the shared types for the waterops service: tariff
// reference data, provider health, incidents, scheduler state and the
// persisted ops document.
package models

// Tariff is the annual charging structure for one water utility. Fixed
// charges are dollars per year; usage rates are dollars per kilolitre.
// UsageRate2 is nil for flat-rate providers and set for block tariffs,
// where it applies to consumption above the block threshold.
type Tariff struct {
	NetworkCharge  float64  `json:"network_charge"`
	SewerageCharge float64  `json:"sewerage_charge"`
	UsageRate1     float64  `json:"usage_rate_1"`
	UsageRate2     *float64 `json:"usage_rate_2,omitempty"`
	Name           string   `json:"name"`
	Region         string   `json:"region"`
	Notes          string   `json:"notes,omitempty"`
}

// FixedTotal returns the combined annual fixed charges.
func (t *Tariff) FixedTotal() float64 {
	return t.NetworkCharge + t.SewerageCharge
}
