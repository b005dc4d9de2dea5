package carrier_test

import (
	"testing"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/stretchr/testify/assert"
)

func TestUnitsFor(t *testing.T) {
	tests := []struct {
		name          string
		homeCountry   string
		originCountry string
		wantWeight    carrier.WeightUnit
		wantDimension carrier.DimensionUnit
	}{
		{"domestic origin uses imperial", "US", "US", carrier.WeightLB, carrier.DimensionIN},
		{"foreign origin uses metric", "US", "DE", carrier.WeightKG, carrier.DimensionCM},
		{"canadian home, canadian origin", "CA", "CA", carrier.WeightLB, carrier.DimensionIN},
		{"canadian home, us origin", "CA", "US", carrier.WeightKG, carrier.DimensionCM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shipment := &carrier.Shipment{
				From: carrier.Address{CountryCode: tt.originCountry},
			}
			weight, dimension := carrier.UnitsFor(tt.homeCountry, shipment)
			assert.Equal(t, tt.wantWeight, weight)
			assert.Equal(t, tt.wantDimension, dimension)
		})
	}
}

func TestUnitsFor_NilShipment(t *testing.T) {
	weight, dimension := carrier.UnitsFor("US", nil)
	assert.Equal(t, carrier.WeightKG, weight)
	assert.Equal(t, carrier.DimensionCM, dimension)
}

func TestServiceCodeTable_Resolve(t *testing.T) {
	table := carrier.ServiceCodeTable{
		"US": {"01": "Next Day"},
		carrier.RegionInternational: {"07": "Worldwide Express"},
	}

	name, ok := table.Resolve("US", "01")
	assert.True(t, ok)
	assert.Equal(t, "Next Day", name)

	// Unlisted origins fall back to the international table.
	name, ok = table.Resolve("JP", "07")
	assert.True(t, ok)
	assert.Equal(t, "Worldwide Express", name)

	_, ok = table.Resolve("US", "99")
	assert.False(t, ok)

	var empty carrier.ServiceCodeTable
	_, ok = empty.Resolve("US", "01")
	assert.False(t, ok)
}
