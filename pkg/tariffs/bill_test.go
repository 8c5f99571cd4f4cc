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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterline-au/waterops/pkg/models"
)

func TestCalculateBillFlatRate(t *testing.T) {
	tariff := models.Tariff{
		NetworkCharge:  100,
		SewerageCharge: 50,
		UsageRate1:     2.0,
	}

	// Flat rate ignores the threshold entirely.
	assert.InDelta(t, 150+200*2.0, CalculateBill(tariff, 200, DefaultBlockThresholdKL), 1e-9)
	assert.InDelta(t, 150.0, CalculateBill(tariff, 0, DefaultBlockThresholdKL), 1e-9)
}

func TestCalculateBillBlockTariff(t *testing.T) {
	ds := Static()

	icon, ok := ds.Get("ICON")
	require.True(t, ok)
	require.InDelta(t, 200.0, ds.Threshold("ICON"), 1e-9)

	// 250 kL at Icon Water: 200 kL in block 1, 50 kL in block 2.
	want := icon.FixedTotal() + 200*2.78 + 50*5.58
	assert.InDelta(t, want, CalculateBill(icon, 250, ds.Threshold("ICON")), 1e-9)

	// Below the threshold only block 1 applies.
	wantLow := icon.FixedTotal() + 160*2.78
	assert.InDelta(t, wantLow, CalculateBill(icon, 160, ds.Threshold("ICON")), 1e-9)
}

func TestCalculateBillDefaultsThreshold(t *testing.T) {
	second := 4.0
	tariff := models.Tariff{UsageRate1: 2.0, UsageRate2: &second}

	got := CalculateBill(tariff, 200, 0)
	want := DefaultBlockThresholdKL*2.0 + (200-DefaultBlockThresholdKL)*4.0
	assert.InDelta(t, want, got, 1e-9)
}

func TestExplainBill(t *testing.T) {
	ds := Static()
	meta := models.Meta{FY: "2025-26", LastUpdated: "2026-08-01"}

	icon, ok := ds.Get("ICON")
	require.True(t, ok)

	breakdown := ExplainBill("ICON", icon, 250, ds.Threshold("ICON"), meta)

	assert.Equal(t, "ICON", breakdown.ProviderKey)
	assert.Equal(t, "Icon Water", breakdown.ProviderName)
	assert.Equal(t, "2025-26", breakdown.FY)
	assert.Len(t, breakdown.Items, 4) // two fixed charges + two usage blocks
	assert.InDelta(t, 1695.68, breakdown.Total, 0.01)
	assert.Greater(t, breakdown.EffectivePerKL, 0.0)

	var sum float64
	for _, item := range breakdown.Items {
		sum += item.Amount
	}

	assert.InDelta(t, breakdown.Total, sum, 0.05)
}

func TestExplainBillFlatRateHasSingleUsageItem(t *testing.T) {
	ds := Static()

	yvw, ok := ds.Get("YVW")
	require.True(t, ok)

	breakdown := ExplainBill("YVW", yvw, 160, ds.Threshold("YVW"), models.Meta{})
	assert.Len(t, breakdown.Items, 3)
}

func TestCheapestForPostcode(t *testing.T) {
	ds := Static()

	t.Run("unmapped postcode", func(t *testing.T) {
		assert.Nil(t, CheapestForPostcode(ds, "0000", 160, models.Meta{}))
	})

	t.Run("single provider", func(t *testing.T) {
		quote := CheapestForPostcode(ds, "2600", 160, models.Meta{})
		require.NotNil(t, quote)
		assert.Equal(t, "ICON", quote.ProviderKey)
	})

	t.Run("boundary postcode picks the cheaper provider", func(t *testing.T) {
		quote := CheapestForPostcode(ds, "3004", 160, models.Meta{})
		require.NotNil(t, quote)

		gww, _ := ds.Get("GWW_CENTRAL")
		yvw, _ := ds.Get("YVW")
		gwwTotal := CalculateBill(gww, 160, ds.Threshold("GWW_CENTRAL"))
		yvwTotal := CalculateBill(yvw, 160, ds.Threshold("YVW"))

		if gwwTotal <= yvwTotal {
			assert.Equal(t, "GWW_CENTRAL", quote.ProviderKey)
		} else {
			assert.Equal(t, "YVW", quote.ProviderKey)
		}
	})
}

func TestDatasetKeysSortedAndComplete(t *testing.T) {
	ds := Static()
	keys := ds.Keys()

	assert.Len(t, keys, 9)
	assert.IsIncreasing(t, keys)

	for _, key := range keys {
		_, ok := ds.Get(key)
		assert.True(t, ok, key)
	}
}
