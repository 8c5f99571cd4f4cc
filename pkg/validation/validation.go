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

// Package validation holds the pure data-quality checks over one
// provider's tariff record, plus the drift snapshot comparison. Nothing
// in this package performs I/O or mutates shared state.
package validation

import (
	"fmt"

	"github.com/waterline-au/waterops/pkg/models"
)

const (
	// Rates above these are treated as suspicious transcription errors,
	// dollars per kilolitre.
	outlierRate1Max = 20.0
	outlierRate2Max = 25.0
)

// Validate checks one tariff record and returns every issue found.
// An all-zero record short-circuits to a single PLACEHOLDER error; the
// remaining checks accumulate independently.
func Validate(providerKey string, t models.Tariff) []models.ValidationIssue {
	if isPlaceholder(t) {
		return []models.ValidationIssue{{
			ProviderKey: providerKey,
			Code:        models.CodePlaceholder,
			Message:     "all monetary fields are zero; tariff looks like an uncurated placeholder",
			Severity:    models.SeverityError,
		}}
	}

	var issues []models.ValidationIssue

	if t.NetworkCharge < 0 || t.SewerageCharge < 0 {
		issues = append(issues, models.ValidationIssue{
			ProviderKey: providerKey,
			Code:        models.CodeNegativeFixed,
			Message:     "negative fixed charge",
			Severity:    models.SeverityError,
			Context: map[string]interface{}{
				"network_charge":  t.NetworkCharge,
				"sewerage_charge": t.SewerageCharge,
			},
		})
	}

	if t.UsageRate1 < 0 || (t.UsageRate2 != nil && *t.UsageRate2 < 0) {
		issues = append(issues, models.ValidationIssue{
			ProviderKey: providerKey,
			Code:        models.CodeNegativeRate,
			Message:     "negative usage rate",
			Severity:    models.SeverityError,
			Context:     rateContext(t),
		})
	}

	if t.UsageRate2 != nil && *t.UsageRate2 < t.UsageRate1 {
		issues = append(issues, models.ValidationIssue{
			ProviderKey: providerKey,
			Code:        models.CodeMonotonicity,
			Message:     "second block rate is below the first block rate; unusual but not rejected",
			Severity:    models.SeverityWarn,
			Context:     rateContext(t),
		})
	}

	if t.UsageRate1 > outlierRate1Max || (t.UsageRate2 != nil && *t.UsageRate2 > outlierRate2Max) {
		issues = append(issues, models.ValidationIssue{
			ProviderKey: providerKey,
			Code:        models.CodeOutlierRate,
			Message:     fmt.Sprintf("usage rate beyond plausible range ($%.0f/$%.0f per kL)", outlierRate1Max, outlierRate2Max),
			Severity:    models.SeverityWarn,
			Context:     rateContext(t),
		})
	}

	return issues
}

func isPlaceholder(t models.Tariff) bool {
	if t.NetworkCharge != 0 || t.SewerageCharge != 0 || t.UsageRate1 != 0 {
		return false
	}

	return t.UsageRate2 == nil || *t.UsageRate2 == 0
}

func rateContext(t models.Tariff) map[string]interface{} {
	ctx := map[string]interface{}{"usage_rate_1": t.UsageRate1}

	if t.UsageRate2 != nil {
		ctx["usage_rate_2"] = *t.UsageRate2
	}

	return ctx
}
