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

package tariffs

import (
	"fmt"
	"math"

	"github.com/waterline-au/waterops/pkg/models"
)

// CalculateBill estimates the annual charge for annualKL of usage.
// Flat-rate tariffs price all consumption at UsageRate1; block tariffs
// split consumption at thresholdKL. A non-positive thresholdKL falls back
// to the default block threshold.
func CalculateBill(t models.Tariff, annualKL, thresholdKL float64) float64 {
	if thresholdKL <= 0 {
		thresholdKL = DefaultBlockThresholdKL
	}

	usageTotal := annualKL * t.UsageRate1

	if t.UsageRate2 != nil {
		base := math.Min(annualKL, thresholdKL)
		excess := math.Max(annualKL-thresholdKL, 0)
		usageTotal = base*t.UsageRate1 + excess**t.UsageRate2
	}

	return t.FixedTotal() + usageTotal
}

// BillLineItem is one row of an explained bill.
type BillLineItem struct {
	Label      string  `json:"label"`
	QuantityKL float64 `json:"quantity_kl,omitempty"`
	Rate       float64 `json:"rate,omitempty"`
	Amount     float64 `json:"amount"`
}

// BillBreakdown is the line-item explanation behind one estimate.
type BillBreakdown struct {
	ProviderKey     string         `json:"provider_key"`
	ProviderName    string         `json:"provider_name"`
	Region          string         `json:"region"`
	FY              string         `json:"fy"`
	LastDataUpdated string         `json:"last_data_updated"`
	ThresholdKL     float64        `json:"threshold_kl"`
	Notes           string         `json:"notes,omitempty"`
	Items           []BillLineItem `json:"items"`
	Total           float64        `json:"total"`
	EffectivePerKL  float64        `json:"effective_per_kl"`
}

// ExplainBill builds the line-item breakdown for one provider at the
// given usage, with dataset meta attached for freshness context.
func ExplainBill(key string, t models.Tariff, annualKL, thresholdKL float64, meta models.Meta) BillBreakdown {
	if thresholdKL <= 0 {
		thresholdKL = DefaultBlockThresholdKL
	}

	items := []BillLineItem{
		{Label: "Network charge", Amount: round2(t.NetworkCharge)},
		{Label: "Sewerage charge", Amount: round2(t.SewerageCharge)},
	}

	if t.UsageRate2 == nil {
		items = append(items, BillLineItem{
			Label:      "Usage (flat rate)",
			QuantityKL: annualKL,
			Rate:       t.UsageRate1,
			Amount:     round2(annualKL * t.UsageRate1),
		})
	} else {
		base := math.Min(annualKL, thresholdKL)
		excess := math.Max(annualKL-thresholdKL, 0)

		items = append(items, BillLineItem{
			Label:      fmt.Sprintf("Usage block 1 (to %.3f kL)", thresholdKL),
			QuantityKL: base,
			Rate:       t.UsageRate1,
			Amount:     round2(base * t.UsageRate1),
		})

		if excess > 0 {
			items = append(items, BillLineItem{
				Label:      "Usage block 2",
				QuantityKL: excess,
				Rate:       *t.UsageRate2,
				Amount:     round2(excess * *t.UsageRate2),
			})
		}
	}

	total := CalculateBill(t, annualKL, thresholdKL)

	effective := 0.0
	if annualKL > 0 {
		effective = total / annualKL
	}

	return BillBreakdown{
		ProviderKey:     key,
		ProviderName:    t.Name,
		Region:          t.Region,
		FY:              meta.FY,
		LastDataUpdated: meta.LastUpdated,
		ThresholdKL:     thresholdKL,
		Notes:           t.Notes,
		Items:           items,
		Total:           round2(total),
		EffectivePerKL:  round4(effective),
	}
}

// Quote is the cheapest-provider answer for one postcode.
type Quote struct {
	ProviderKey  string        `json:"provider_key"`
	ProviderName string        `json:"provider_name"`
	Region       string        `json:"region"`
	Total        float64       `json:"total"`
	Explain      BillBreakdown `json:"explain"`
}

// CheapestForPostcode quotes every provider mapped to the postcode and
// returns the cheapest, or nil when the postcode is unmapped.
func CheapestForPostcode(ds Dataset, postcode string, annualKL float64, meta models.Meta) *Quote {
	var best *Quote

	for _, key := range ds.ProvidersForPostcode(postcode) {
		t, ok := ds.Get(key)
		if !ok {
			continue
		}

		threshold := ds.Threshold(key)
		total := CalculateBill(t, annualKL, threshold)

		if best == nil || total < best.Total {
			best = &Quote{
				ProviderKey:  key,
				ProviderName: t.Name,
				Region:       t.Region,
				Total:        round2(total),
				Explain:      ExplainBill(key, t, annualKL, threshold, meta),
			}
		}
	}

	return best
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
