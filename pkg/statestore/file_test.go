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

package statestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterline-au/waterops/pkg/logger"
	"github.com/waterline-au/waterops/pkg/models"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ops_state.json")

	return NewFileStore(path, logger.NewTestLogger()), path
}

func TestFileStoreMissingFileYieldsDefault(t *testing.T) {
	store, _ := newTestStore(t)

	state, err := store.Load()
	require.NoError(t, err)

	assert.False(t, state.Scheduler.Enabled)
	assert.Equal(t, 1440, state.Scheduler.IntervalMinutes)
	assert.Empty(t, state.Incidents)
	assert.Empty(t, state.Runs)
	assert.NotNil(t, state.Providers)
	assert.NotNil(t, state.Snapshots)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, path := newTestStore(t)

	state := models.NewOpsState()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ph := models.NewProviderHealth()
	ph.Status = models.StatusOK
	ph.LastChecked = &now
	state.Providers["ICON"] = ph
	state.AppendRun(now, models.EventRefreshStart, map[string]interface{}{"run_id": "abc"})
	state.Incidents = append(state.Incidents, &models.Incident{
		ID:          1,
		ProviderKey: "ICON",
		Code:        models.CodeDrift,
		Status:      models.IncidentOpen,
		OpenedAt:    now,
		UpdatedAt:   now,
	})

	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)

	require.Contains(t, loaded.Providers, "ICON")
	assert.Equal(t, models.StatusOK, loaded.Providers["ICON"].Status)
	require.Len(t, loaded.Incidents, 1)
	assert.Equal(t, models.CodeDrift, loaded.Incidents[0].Code)
	require.Len(t, loaded.Runs, 1)
	assert.Equal(t, models.EventRefreshStart, loaded.Runs[0].Event)

	// No temp files left behind by the atomic write.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreCorruptFileBackedUpAndReinitialized(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Incidents)

	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	backup, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	// Original path is gone until the next save.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreLegacyNotesFoldedIntoReasons(t *testing.T) {
	store, path := newTestStore(t)

	doc := `{"providers":{"ICON":{"status":"ERROR","failure_count":1,"notes":["bad rate"]}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	state, err := store.Load()
	require.NoError(t, err)

	require.Contains(t, state.Providers, "ICON")
	assert.Equal(t, []string{"bad rate"}, state.Providers["ICON"].Reasons)
}

func TestMemStoreIsolation(t *testing.T) {
	store := NewMemStore(nil)

	first, err := store.Load()
	require.NoError(t, err)

	first.Meta.FY = "2026-27"
	first.Providers["ICON"] = models.NewProviderHealth()

	// Without a save, mutations on the loaded copy must not leak back.
	second, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "2025-26", second.Meta.FY)
	assert.NotContains(t, second.Providers, "ICON")

	require.NoError(t, store.Save(first))

	third, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "2026-27", third.Meta.FY)
	assert.Contains(t, third.Providers, "ICON")
}
