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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIncidentID(t *testing.T) {
	state := NewOpsState()
	assert.Equal(t, 1, state.NextIncidentID())

	state.Incidents = append(state.Incidents,
		&Incident{ID: 3}, &Incident{ID: 7}, &Incident{ID: 2})

	assert.Equal(t, 8, state.NextIncidentID())
}

func TestActiveIncident(t *testing.T) {
	state := NewOpsState()
	state.Incidents = append(state.Incidents,
		&Incident{ID: 1, ProviderKey: "ICON", Code: CodeDrift, Status: IncidentResolved},
		&Incident{ID: 2, ProviderKey: "ICON", Code: CodeDrift, Status: IncidentAcknowledged},
		&Incident{ID: 3, ProviderKey: "YVW", Code: CodeDrift, Status: IncidentOpen},
	)

	found := state.ActiveIncident("ICON", CodeDrift)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.ID)

	assert.Nil(t, state.ActiveIncident("ICON", CodePlaceholder))
	assert.Nil(t, state.ActiveIncident("SEW", CodeDrift))
}

func TestNormalizeFillsCollections(t *testing.T) {
	var state OpsState
	state.Normalize()

	assert.NotNil(t, state.Providers)
	assert.NotNil(t, state.Incidents)
	assert.NotNil(t, state.Runs)
	assert.NotNil(t, state.Snapshots)
	assert.Equal(t, 1440, state.Scheduler.IntervalMinutes)
	assert.Equal(t, "2025-26", state.Meta.FY)
}

func TestProviderHealthLegacyDecode(t *testing.T) {
	t.Run("legacy notes become reasons", func(t *testing.T) {
		var ph ProviderHealth
		require.NoError(t, json.Unmarshal([]byte(`{"status":"ERROR","notes":["old note"]}`), &ph))

		assert.Equal(t, []string{"old note"}, ph.Reasons)
	})

	t.Run("split fields win over legacy", func(t *testing.T) {
		var ph ProviderHealth
		doc := `{"status":"OK","notes":["old"],"reasons":["new"],"annotations":["human"]}`
		require.NoError(t, json.Unmarshal([]byte(doc), &ph))

		assert.Equal(t, []string{"new"}, ph.Reasons)
		assert.Equal(t, []string{"human"}, ph.Annotations)
	})

	t.Run("missing status defaults to unknown", func(t *testing.T) {
		var ph ProviderHealth
		require.NoError(t, json.Unmarshal([]byte(`{}`), &ph))

		assert.Equal(t, StatusUnknown, ph.Status)
	})
}
