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

// Package statestore persists the single ops document. The file-backed
// store treats every load-modify-save cycle as the caller's critical
// section; concurrent processes are last-write-wins on the whole
// document, and anything stronger needs an external lock or a
// transactional store.
package statestore

import "github.com/waterline-au/waterops/pkg/models"

// Store loads and saves the whole ops document. Load never fails on a
// missing or corrupt file; both degrade to a fresh default document.
type Store interface {
	Load() (*models.OpsState, error)
	Save(state *models.OpsState) error
}
