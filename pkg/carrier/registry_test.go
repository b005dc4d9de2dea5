package carrier_test

import (
	"context"
	"testing"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShipment() *carrier.Shipment {
	return &carrier.Shipment{
		From:     carrier.Address{City: "Springfield", CountryCode: "US", PostalCode: "62701"},
		To:       carrier.Address{City: "Toronto", CountryCode: "CA", PostalCode: "M5V1A1"},
		Packages: []carrier.Package{{Length: 10, Width: 10, Height: 10, Weight: 2}},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := carrier.NewRegistry()
	registry.Register(mock.New("alpha"))
	registry.Register(mock.New("beta"))

	assert.Equal(t, 2, registry.Count())
	assert.ElementsMatch(t, []string{"alpha", "beta"}, registry.Names())

	c, err := registry.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", c.Name())

	_, err = registry.Get("missing")
	assert.ErrorIs(t, err, carrier.ErrCarrierNotFound)
}

func TestRegistry_GetAllRates(t *testing.T) {
	registry := carrier.NewRegistry()
	registry.Register(mock.New("alpha"))
	registry.Register(mock.New("beta"))

	results, errs := registry.GetAllRates(context.Background(), testShipment())

	assert.Empty(t, errs)
	require.Len(t, results, 2)
	for _, resp := range results {
		assert.Len(t, resp.Rates, 2)
	}
}

func TestRegistry_GetAllRates_PartialFailure(t *testing.T) {
	failing := mock.New("failing")
	failing.FailRates = true

	registry := carrier.NewRegistry()
	registry.Register(mock.New("healthy"))
	registry.Register(failing)

	results, errs := registry.GetAllRates(context.Background(), testShipment())

	// One carrier failing never hides the other's rates.
	require.Len(t, results, 1)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "failing")
}

func TestRegistry_GetAllRates_Empty(t *testing.T) {
	registry := carrier.NewRegistry()

	results, errs := registry.GetAllRates(context.Background(), testShipment())

	assert.Empty(t, results)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], carrier.ErrCarrierNotFound)
}
