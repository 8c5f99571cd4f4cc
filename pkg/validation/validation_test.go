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

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterline-au/waterops/pkg/models"
)

func rate(v float64) *float64 { return &v }

func codes(issues []models.ValidationIssue) []models.IssueCode {
	out := make([]models.IssueCode, 0, len(issues))
	for _, iss := range issues {
		out = append(out, iss.Code)
	}

	return out
}

func TestValidatePlaceholderShortCircuits(t *testing.T) {
	tests := []struct {
		name   string
		tariff models.Tariff
	}{
		{"all zero flat", models.Tariff{}},
		{"all zero block", models.Tariff{UsageRate2: rate(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate("TEST", tt.tariff)

			require.Len(t, issues, 1)
			assert.Equal(t, models.CodePlaceholder, issues[0].Code)
			assert.Equal(t, models.SeverityError, issues[0].Severity)
		})
	}
}

func TestValidateRedlandIsNotPlaceholder(t *testing.T) {
	// Zero fixed charges with a real usage rate is a legitimate tariff
	// shape (charges embedded in the volumetric price), not a placeholder.
	issues := Validate("REDLAND", models.Tariff{UsageRate1: 4.337})
	assert.Empty(t, issues)
}

func TestValidateNegativeChargesCoOccur(t *testing.T) {
	tariff := models.Tariff{
		NetworkCharge:  -100,
		SewerageCharge: 50,
		UsageRate1:     -2.5,
	}

	issues := Validate("TEST", tariff)

	assert.Contains(t, codes(issues), models.CodeNegativeFixed)
	assert.Contains(t, codes(issues), models.CodeNegativeRate)

	for _, iss := range issues {
		assert.Equal(t, models.SeverityError, iss.Severity)
	}
}

func TestValidateMonotonicityWarn(t *testing.T) {
	tariff := models.Tariff{
		NetworkCharge: 100,
		UsageRate1:    3.0,
		UsageRate2:    rate(2.0),
	}

	issues := Validate("TEST", tariff)

	require.Len(t, issues, 1)
	assert.Equal(t, models.CodeMonotonicity, issues[0].Code)
	assert.Equal(t, models.SeverityWarn, issues[0].Severity)
}

func TestValidateOutlierRates(t *testing.T) {
	tests := []struct {
		name   string
		tariff models.Tariff
		want   bool
	}{
		{"tier1 above cap", models.Tariff{NetworkCharge: 1, UsageRate1: 21}, true},
		{"tier2 above cap", models.Tariff{NetworkCharge: 1, UsageRate1: 3, UsageRate2: rate(26)}, true},
		{"plausible block", models.Tariff{NetworkCharge: 1, UsageRate1: 3, UsageRate2: rate(5)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate("TEST", tt.tariff)

			if tt.want {
				assert.Contains(t, codes(issues), models.CodeOutlierRate)
			} else {
				assert.NotContains(t, codes(issues), models.CodeOutlierRate)
			}
		})
	}
}

func TestValidateWarningsAccumulate(t *testing.T) {
	// Non-monotonic AND outlier tiers: both warnings must surface.
	tariff := models.Tariff{
		NetworkCharge: 100,
		UsageRate1:    22,
		UsageRate2:    rate(2),
	}

	issues := Validate("TEST", tariff)

	assert.Contains(t, codes(issues), models.CodeMonotonicity)
	assert.Contains(t, codes(issues), models.CodeOutlierRate)
}
