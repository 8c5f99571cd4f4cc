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

// Package health classifies provider status from the current pass's
// validation issues. The classifier is stateless: it takes the previous
// health record and returns the next one, so status is re-derived on
// every refresh rather than walked through a forward-only automaton.
package health

import (
	"time"

	"github.com/waterline-au/waterops/pkg/models"
)

const hoursPerDay = 24

// Classify derives the next health record for one provider from the
// issues found this pass. LastChecked is stamped unconditionally before
// classification. A failure count at or past nonCommThreshold forces
// NON_COMMUNICATING regardless of the milder status computed first.
func Classify(prev models.ProviderHealth, issues []models.ValidationIssue, now time.Time, nonCommThreshold int) models.ProviderHealth {
	next := *prev.Clone()
	next.LastChecked = &now

	switch {
	case hasCode(issues, models.CodePlaceholder):
		next.Status = models.StatusIncomplete
		next.FailureCount++
		next.Reasons = []string{"Placeholder tariffs; needs curation."}
	case hasSeverity(issues, models.SeverityError):
		next.Status = models.StatusError
		next.FailureCount++
		next.Reasons = errorMessages(issues)
	default:
		next.Status = models.StatusOK
		next.LastSuccess = &now
		next.FailureCount = 0
		next.Reasons = nil
	}

	if nonCommThreshold > 0 && next.FailureCount >= nonCommThreshold {
		next.Status = models.StatusNonCommunicating
	}

	return next
}

// SweepFreshness downgrades providers whose last check is older than
// slaDays to STALE and returns the keys it touched. Only OK and UNKNOWN
// providers are eligible; harder failure states are never overwritten.
// Providers never checked at all stay UNKNOWN.
func SweepFreshness(providers map[string]*models.ProviderHealth, now time.Time, slaDays int) []string {
	var stale []string

	cutoff := now.Add(-time.Duration(slaDays) * hoursPerDay * time.Hour)

	for key, ph := range providers {
		if ph == nil || ph.LastChecked == nil {
			continue
		}

		if ph.Status != models.StatusOK && ph.Status != models.StatusUnknown {
			continue
		}

		if ph.LastChecked.Before(cutoff) {
			ph.Status = models.StatusStale
			stale = append(stale, key)
		}
	}

	return stale
}

func hasCode(issues []models.ValidationIssue, code models.IssueCode) bool {
	for _, iss := range issues {
		if iss.Code == code {
			return true
		}
	}

	return false
}

func hasSeverity(issues []models.ValidationIssue, sev models.Severity) bool {
	for _, iss := range issues {
		if iss.Severity == sev {
			return true
		}
	}

	return false
}

func errorMessages(issues []models.ValidationIssue) []string {
	var msgs []string

	for _, iss := range issues {
		if iss.Severity == models.SeverityError {
			msgs = append(msgs, string(iss.Code)+": "+iss.Message)
		}
	}

	return msgs
}
