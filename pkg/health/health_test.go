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

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterline-au/waterops/pkg/models"
)

const nonCommThreshold = 3

func issue(code models.IssueCode, sev models.Severity) models.ValidationIssue {
	return models.ValidationIssue{ProviderKey: "TEST", Code: code, Severity: sev}
}

func TestClassifyStampsLastChecked(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	next := Classify(models.ProviderHealth{Status: models.StatusUnknown}, nil, now, nonCommThreshold)

	require.NotNil(t, next.LastChecked)
	assert.Equal(t, now, *next.LastChecked)
}

func TestClassifyPlaceholder(t *testing.T) {
	now := time.Now().UTC()
	prev := models.ProviderHealth{
		Status:  models.StatusOK,
		Reasons: []string{"stale reason"},
	}

	issues := []models.ValidationIssue{
		issue(models.CodePlaceholder, models.SeverityError),
	}

	next := Classify(prev, issues, now, nonCommThreshold)

	assert.Equal(t, models.StatusIncomplete, next.Status)
	assert.Equal(t, 1, next.FailureCount)
	assert.Equal(t, []string{"Placeholder tariffs; needs curation."}, next.Reasons)
}

func TestClassifyError(t *testing.T) {
	now := time.Now().UTC()

	issues := []models.ValidationIssue{
		issue(models.CodeNegativeRate, models.SeverityError),
		issue(models.CodeOutlierRate, models.SeverityWarn),
	}

	next := Classify(models.ProviderHealth{FailureCount: 1}, issues, now, nonCommThreshold)

	assert.Equal(t, models.StatusError, next.Status)
	assert.Equal(t, 2, next.FailureCount)
	assert.Nil(t, next.LastSuccess)
}

func TestClassifyCleanSuccessResets(t *testing.T) {
	now := time.Now().UTC()
	prev := models.ProviderHealth{
		Status:       models.StatusError,
		FailureCount: 2,
		Reasons:      []string{"NEGATIVE_RATE: negative usage rate"},
		Annotations:  []string{"verified against 2025-26 PDF"},
	}

	next := Classify(prev, nil, now, nonCommThreshold)

	assert.Equal(t, models.StatusOK, next.Status)
	assert.Zero(t, next.FailureCount)
	assert.Empty(t, next.Reasons)
	require.NotNil(t, next.LastSuccess)
	assert.Equal(t, now, *next.LastSuccess)

	// Operator annotations survive a clean pass.
	assert.Equal(t, prev.Annotations, next.Annotations)
}

func TestClassifyWarningsDoNotFail(t *testing.T) {
	now := time.Now().UTC()

	issues := []models.ValidationIssue{
		issue(models.CodeMonotonicity, models.SeverityWarn),
		issue(models.CodeDrift, models.SeverityWarn),
	}

	next := Classify(models.ProviderHealth{FailureCount: 2}, issues, now, nonCommThreshold)

	assert.Equal(t, models.StatusOK, next.Status)
	assert.Zero(t, next.FailureCount)
}

func TestClassifyNonCommunicatingOverride(t *testing.T) {
	now := time.Now().UTC()

	issues := []models.ValidationIssue{
		issue(models.CodeNegativeFixed, models.SeverityError),
	}

	next := Classify(models.ProviderHealth{FailureCount: 2}, issues, now, nonCommThreshold)

	assert.Equal(t, models.StatusNonCommunicating, next.Status)
	assert.Equal(t, 3, next.FailureCount)
}

func TestSweepFreshness(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	fresh := now.Add(-1 * time.Hour)
	old := now.Add(-31 * 24 * time.Hour)

	providers := map[string]*models.ProviderHealth{
		"OK_FRESH":  {Status: models.StatusOK, LastChecked: &fresh},
		"OK_OLD":    {Status: models.StatusOK, LastChecked: &old},
		"UNK_OLD":   {Status: models.StatusUnknown, LastChecked: &old},
		"ERR_OLD":   {Status: models.StatusError, LastChecked: &old},
		"NEVER":     {Status: models.StatusUnknown},
		"NONCOMM":   {Status: models.StatusNonCommunicating, LastChecked: &old},
		"INC_OLD":   {Status: models.StatusIncomplete, LastChecked: &old},
		"STALE_OLD": {Status: models.StatusStale, LastChecked: &old},
	}

	stale := SweepFreshness(providers, now, 30)

	assert.ElementsMatch(t, []string{"OK_OLD", "UNK_OLD"}, stale)
	assert.Equal(t, models.StatusOK, providers["OK_FRESH"].Status)
	assert.Equal(t, models.StatusStale, providers["OK_OLD"].Status)
	assert.Equal(t, models.StatusStale, providers["UNK_OLD"].Status)
	assert.Equal(t, models.StatusError, providers["ERR_OLD"].Status)
	assert.Equal(t, models.StatusUnknown, providers["NEVER"].Status)
	assert.Equal(t, models.StatusNonCommunicating, providers["NONCOMM"].Status)
	assert.Equal(t, models.StatusIncomplete, providers["INC_OLD"].Status)
}
