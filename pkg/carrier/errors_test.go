package carrier_test

import (
	"errors"
	"testing"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireCredentials(t *testing.T) {
	err := carrier.RequireCredentials("ups",
		carrier.CredentialField{Name: "clientId", Value: "id"},
		carrier.CredentialField{Name: "clientSecret", Value: "secret"},
	)
	assert.NoError(t, err)

	err = carrier.RequireCredentials("ups",
		carrier.CredentialField{Name: "clientId", Value: ""},
		carrier.CredentialField{Name: "clientSecret", Value: "secret"},
		carrier.CredentialField{Name: "accountNumber", Value: ""},
	)
	require.Error(t, err)

	var cfgErr *carrier.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "ups", cfgErr.Carrier)
	assert.Equal(t, []string{"clientId", "accountNumber"}, cfgErr.Fields)
	assert.True(t, errors.Is(err, carrier.ErrMissingCredentials))
	assert.Contains(t, err.Error(), "clientId")
	assert.Contains(t, err.Error(), "accountNumber")
}

func TestDispatchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &carrier.DispatchError{
		Carrier:  "canadapost",
		Endpoint: "/rs/ship/price",
		Cause:    cause,
	}

	assert.True(t, errors.Is(err, carrier.ErrDispatchFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "canadapost")
	assert.Contains(t, err.Error(), "/rs/ship/price")
}

func TestDispatchError_Status(t *testing.T) {
	err := &carrier.DispatchError{
		Carrier:    "ups",
		Endpoint:   "api/rating/v1/Shop",
		StatusCode: 401,
		Message:    "invalid token",
	}

	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid token")
	assert.Nil(t, errors.Unwrap(err))
}

func TestShipment_Validate(t *testing.T) {
	valid := &carrier.Shipment{
		From:     carrier.Address{CountryCode: "US"},
		To:       carrier.Address{CountryCode: "CA"},
		Packages: []carrier.Package{{Length: 10, Width: 10, Height: 10, Weight: 1}},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name     string
		shipment *carrier.Shipment
	}{
		{"nil shipment", nil},
		{
			"no packages",
			&carrier.Shipment{
				From: carrier.Address{CountryCode: "US"},
				To:   carrier.Address{CountryCode: "CA"},
			},
		},
		{
			"missing origin country",
			&carrier.Shipment{
				To:       carrier.Address{CountryCode: "CA"},
				Packages: []carrier.Package{{Weight: 1}},
			},
		},
		{
			"negative weight",
			&carrier.Shipment{
				From:     carrier.Address{CountryCode: "US"},
				To:       carrier.Address{CountryCode: "CA"},
				Packages: []carrier.Package{{Weight: -1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.shipment.Validate(), carrier.ErrShipmentInvalid)
		})
	}
}
