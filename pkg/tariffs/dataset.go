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

// Package tariffs holds the hand-curated Australian water tariff dataset
// and the bill arithmetic over it. The dataset is immutable reference
// data for the process lifetime; refreshing it means editing this file
// against the published 2025-26 pricing schedules.
package tariffs

import (
	"sort"

	"github.com/waterline-au/waterops/pkg/models"
)

const (
	// DefaultBlockThresholdKL approximates the common Victorian first
	// block limit of 440 L/day.
	DefaultBlockThresholdKL = 160.066

	// BenchmarkUsageKL is the fixed usage drift snapshots are priced at,
	// roughly a typical household year.
	BenchmarkUsageKL = 160.0
)

func rate(v float64) *float64 { return &v }

// providers is the curated tariff table, annual dollars. Quarterly
// charges from provider schedules are multiplied out to annual figures.
var providers = map[string]models.Tariff{
	"SYDNEY": {
		NetworkCharge:  16.90*4 + 22.23*4, // water + stormwater (house)
		SewerageCharge: 155.89 * 4,
		UsageRate1:     2.67,
		Name:           "Sydney Water",
		Region:         "standard",
		Notes:          "Stormwater charge assumes a single-dwelling house; usage rate rises to $3.61/kL if dam levels fall below 60%.",
	},
	"YVW": {
		NetworkCharge:  312.98,
		SewerageCharge: 607.57,
		UsageRate1:     3.1702,
		Name:           "Yarra Valley Water",
		Region:         "standard",
		Notes:          "Single usage rate; sewerage disposal and recycled water charges not included.",
	},
	"GWW_CENTRAL": {
		NetworkCharge:  224.26,
		SewerageCharge: 298.00,
		UsageRate1:     3.6413,
		UsageRate2:     rate(4.1629),
		Name:           "Greater Western Water",
		Region:         "central",
		Notes:          "Two-step tariff: 440 L/day threshold.",
	},
	"GWW_WESTERN": {
		NetworkCharge:  224.23,
		SewerageCharge: 525.83,
		UsageRate1:     2.6453,
		UsageRate2:     rate(3.4059),
		Name:           "Greater Western Water",
		Region:         "western",
		Notes:          "Two-step tariff: 440 L/day threshold; higher sewerage fee due to infrastructure costs.",
	},
	"SEW": {
		NetworkCharge:  87.90,
		SewerageCharge: 401.65,
		UsageRate1:     3.0084,
		UsageRate2:     rate(3.8383),
		Name:           "South East Water",
		Region:         "standard",
		Notes:          "Two-step water-only tariff; combined water and sewerage usage rates are slightly higher.",
	},
	"TASWATER": {
		NetworkCharge:  407.33,
		SewerageCharge: 469.01,
		UsageRate1:     1.2612,
		Name:           "TasWater",
		Region:         "state-wide",
		Notes:          "Usage rate is for drinking-quality water; limited-quality water is cheaper.",
	},
	"WACORP": {
		NetworkCharge:  296.89,
		SewerageCharge: 0.0, // sewerage depends on property value, not included
		UsageRate1:     2.052,
		UsageRate2:     rate(2.734),
		Name:           "Water Corporation WA",
		Region:         "Perth metropolitan",
		Notes:          "Tiered usage: over 500 kL is billed at $5.115/kL, omitted here; sewerage charges vary by property value.",
	},
	"ICON": {
		NetworkCharge:  243.47,
		SewerageCharge: 617.21,
		UsageRate1:     2.78,
		UsageRate2:     rate(5.58),
		Name:           "Icon Water",
		Region:         "ACT",
		Notes:          "Block threshold is 50,000 L/quarter (~200 kL/year); second rate applies above this.",
	},
	"REDLAND": {
		NetworkCharge:  0.0,
		SewerageCharge: 0.0,
		UsageRate1:     4.337,
		Name:           "Redland City Council",
		Region:         "Redlands/Straddie",
		Notes:          "Combined water charge (bulk + local); network charges are embedded in the volumetric price.",
	},
}

// postcodeProviders maps sample postcodes to provider keys. A few
// postcodes straddle supplier boundaries and map to more than one key.
var postcodeProviders = map[string][]string{
	"2000": {"SYDNEY"},
	"2006": {"SYDNEY"},
	"2020": {"SYDNEY"},
	"3000": {"GWW_CENTRAL"},
	"3004": {"GWW_CENTRAL", "YVW"},
	"3108": {"YVW"},
	"3155": {"YVW"},
	"3152": {"SEW"},
	"3199": {"SEW"},
	"3337": {"GWW_WESTERN"},
	"7000": {"TASWATER"},
	"6000": {"WACORP"},
	"6150": {"WACORP"},
	"2600": {"ICON"},
	"4165": {"REDLAND"},
	"4183": {"REDLAND"},
}

// thresholdOverrides lists provider-specific block thresholds. Icon Water
// bills 50,000 L/quarter, ~200 kL/year.
var thresholdOverrides = map[string]float64{
	"ICON": 200.0,
}

// Dataset is the read-only tariff table consumed by the ops core.
type Dataset interface {
	Keys() []string
	Get(key string) (models.Tariff, bool)
	Threshold(key string) float64
	ProvidersForPostcode(postcode string) []string
}

type staticDataset struct{}

// Static returns the built-in curated dataset.
func Static() Dataset {
	return staticDataset{}
}

func (staticDataset) Keys() []string {
	keys := make([]string, 0, len(providers))
	for key := range providers {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func (staticDataset) Get(key string) (models.Tariff, bool) {
	t, ok := providers[key]
	return t, ok
}

func (staticDataset) Threshold(key string) float64 {
	if t, ok := thresholdOverrides[key]; ok {
		return t
	}

	return DefaultBlockThresholdKL
}

func (staticDataset) ProvidersForPostcode(postcode string) []string {
	return append([]string(nil), postcodeProviders[postcode]...)
}
