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
	"encoding/json"
	"fmt"

	"github.com/waterline-au/waterops/pkg/models"
)

// MemStore holds the ops document in memory. Load and Save deep-copy via
// a JSON round trip so callers observe the same aliasing rules as the
// file-backed store. Intended for tests and embedded use.
type MemStore struct {
	state *models.OpsState
}

// NewMemStore creates an in-memory store, starting from initial or the
// default document when initial is nil.
func NewMemStore(initial *models.OpsState) *MemStore {
	if initial == nil {
		initial = models.NewOpsState()
	}

	return &MemStore{state: initial}
}

func (m *MemStore) Load() (*models.OpsState, error) {
	copied, err := deepCopy(m.state)
	if err != nil {
		return nil, err
	}

	copied.Normalize()

	return copied, nil
}

func (m *MemStore) Save(state *models.OpsState) error {
	copied, err := deepCopy(state)
	if err != nil {
		return err
	}

	m.state = copied

	return nil
}

func deepCopy(state *models.OpsState) (*models.OpsState, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to copy state: %w", err)
	}

	var out models.OpsState

	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to copy state: %w", err)
	}

	return &out, nil
}
