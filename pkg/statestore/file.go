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
	"os"
	"path/filepath"
	"time"

	"github.com/waterline-au/waterops/pkg/logger"
	"github.com/waterline-au/waterops/pkg/models"
)

const stateFileMode = 0o600

// FileStore keeps the ops document in one JSON file on disk.
type FileStore struct {
	path   string
	logger logger.Logger
}

// NewFileStore creates a store backed by path. The file is created on
// first save.
func NewFileStore(path string, log logger.Logger) *FileStore {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &FileStore{path: path, logger: log}
}

// Load reads the state file. A missing file yields the default document.
// A file that cannot be parsed is renamed aside as a backup and replaced
// with a fresh default; corruption is recoverable, not fatal.
func (f *FileStore) Load() (*models.OpsState, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return models.NewOpsState(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read state file %q: %w", f.path, err)
	}

	var state models.OpsState

	if err := json.Unmarshal(data, &state); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", f.path, time.Now().Unix())

		if renameErr := os.Rename(f.path, backup); renameErr != nil {
			f.logger.Error().Err(renameErr).Str("path", f.path).Msg("Failed to move corrupt state file aside")
		} else {
			f.logger.Warn().Err(err).Str("backup", backup).Msg("State file unparseable; backed up and reinitialized")
		}

		return models.NewOpsState(), nil
	}

	state.Normalize()

	return &state, nil
}

// Save writes the document atomically: marshal to a temp file in the
// same directory, then rename over the target. An interrupted write
// never leaves a partial document behind.
func (f *FileStore) Save(state *models.OpsState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(f.path)

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("failed to write temp state file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Chmod(tmpName, stateFileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set state file mode: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
