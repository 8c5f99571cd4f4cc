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
	"fmt"
	"math"

	"github.com/waterline-au/waterops/pkg/models"
	"github.com/waterline-au/waterops/pkg/tariffs"
)

// BuildSnapshot fingerprints a tariff for drift comparison: the raw
// charges plus the estimated bill at the benchmark usage.
func BuildSnapshot(t models.Tariff, thresholdKL float64) models.Snapshot {
	snap := models.Snapshot{
		NetworkCharge:  t.NetworkCharge,
		SewerageCharge: t.SewerageCharge,
		U1:             t.UsageRate1,
		Est160:         tariffs.CalculateBill(t, tariffs.BenchmarkUsageKL, thresholdKL),
	}

	if t.UsageRate2 != nil {
		u2 := *t.UsageRate2
		snap.U2 = &u2
	}

	return snap
}

// CompareDrift compares the benchmark-usage bill between the prior and
// current snapshot. It returns nil when there is no baseline, when the
// prior estimate cannot anchor a percentage, or when the swing stays
// under alertPct; a malformed snapshot is a missing drift signal, never
// a refresh failure.
func CompareDrift(prev *models.Snapshot, cur models.Snapshot, alertPct float64) *models.ValidationIssue {
	if prev == nil {
		return nil
	}

	if prev.Est160 == 0 || math.IsNaN(prev.Est160) || math.IsInf(prev.Est160, 0) {
		return nil
	}

	pct := (cur.Est160 - prev.Est160) / prev.Est160 * 100

	if math.Abs(pct) < alertPct {
		return nil
	}

	return &models.ValidationIssue{
		Code:     models.CodeDrift,
		Message:  fmt.Sprintf("benchmark bill moved %.1f%% since last refresh", pct),
		Severity: models.SeverityWarn,
		Context: map[string]interface{}{
			"prev": prev.Est160,
			"cur":  cur.Est160,
			"pct":  math.Round(pct*10) / 10,
		},
	}
}
