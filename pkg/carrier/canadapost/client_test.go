package canadapost_test

import (
	"context"
	"errors"
	"testing"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/canadapost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(cfg canadapost.Config, mockClient *canadapost.MockAPIClient) *canadapost.Client {
	if cfg.APIKey == "" {
		cfg.APIKey = "test-api-key"
	}
	if cfg.APISecret == "" {
		cfg.APISecret = "test-api-secret"
	}
	logger := otelzap.New(zap.NewNop())
	return canadapost.NewWithAPIClient(cfg, mockClient, logger, nil)
}

func domesticShipment() *carrier.Shipment {
	return &carrier.Shipment{
		From: carrier.Address{
			Name:          "Sender",
			Street1:       "123 Main St",
			City:          "Toronto",
			StateProvince: "ON",
			PostalCode:    "M5V 1A1",
			CountryCode:   "CA",
		},
		To: carrier.Address{
			Name:          "Receiver",
			Street1:       "456 Oak Ave",
			City:          "Vancouver",
			StateProvince: "BC",
			PostalCode:    "V6B 2W2",
			CountryCode:   "CA",
		},
		Packages: []carrier.Package{
			{Length: 30, Width: 20, Height: 10, Weight: 2.5},
		},
		Currency: "CAD",
	}
}

func TestClient_GetRates_Success(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	client := newTestClient(canadapost.Config{}, mockAPI)

	resp, err := client.GetRates(context.Background(), domesticShipment())

	require.NoError(t, err)
	require.Len(t, resp.Rates, 3)
	assert.NotNil(t, resp.Raw)

	assert.Equal(t, "DOM.RP", resp.Rates[0].ServiceCode)
	assert.Equal(t, "Regular Parcel", resp.Rates[0].ServiceName)
	require.NotNil(t, resp.Rates[0].Rate)
	// The tax-inclusive total is preferred over the base amount.
	assert.InDelta(t, 12.65, *resp.Rates[0].Rate, 0.001)
	assert.Equal(t, "CAD", resp.Rates[0].Currency)
	assert.Equal(t, 5, resp.Rates[0].DeliveryDays)
	assert.False(t, resp.Rates[0].DeliveryDateGuaranteed)

	assert.Equal(t, "Xpresspost", resp.Rates[1].ServiceName)
	assert.True(t, resp.Rates[1].DeliveryDateGuaranteed)
}

func TestClient_GetRates_MissingCredentials(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.OnRates = func(ctx context.Context, scenario *canadapost.MailingScenario) (*canadapost.PriceQuotes, error) {
		t.Fatal("API must not be called when credentials are missing")
		return nil, nil
	}

	logger := otelzap.New(zap.NewNop())
	client := canadapost.NewWithAPIClient(canadapost.Config{}, mockAPI, logger, nil)

	_, err := client.GetRates(context.Background(), domesticShipment())

	require.Error(t, err)
	assert.True(t, errors.Is(err, carrier.ErrMissingCredentials))

	var cfgErr *carrier.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "canadapost", cfgErr.Carrier)
	assert.ElementsMatch(t, []string{"apiKey", "apiSecret"}, cfgErr.Fields)
}

func TestClient_GetRates_PostalCodesNormalized(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()

	var captured *canadapost.MailingScenario
	mockAPI.OnRates = func(ctx context.Context, scenario *canadapost.MailingScenario) (*canadapost.PriceQuotes, error) {
		captured = scenario
		return &canadapost.PriceQuotes{}, nil
	}
	client := newTestClient(canadapost.Config{}, mockAPI)

	shipment := domesticShipment()
	shipment.From.PostalCode = "m5v 1a1"
	shipment.To.PostalCode = "v6b 2w2"

	_, err := client.GetRates(context.Background(), shipment)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "M5V1A1", captured.OriginPostalCode)
	require.NotNil(t, captured.Destination.Domestic)
	assert.Equal(t, "V6B2W2", captured.Destination.Domestic.PostalCode)
}

func TestClient_GetRates_DestinationKinds(t *testing.T) {
	tests := []struct {
		name        string
		countryCode string
		check       func(t *testing.T, d canadapost.Destination)
	}{
		{
			name:        "domestic",
			countryCode: "CA",
			check: func(t *testing.T, d canadapost.Destination) {
				assert.NotNil(t, d.Domestic)
				assert.Nil(t, d.UnitedStates)
				assert.Nil(t, d.International)
			},
		},
		{
			name:        "united states",
			countryCode: "US",
			check: func(t *testing.T, d canadapost.Destination) {
				assert.Nil(t, d.Domestic)
				assert.NotNil(t, d.UnitedStates)
				assert.Nil(t, d.International)
			},
		},
		{
			name:        "international",
			countryCode: "JP",
			check: func(t *testing.T, d canadapost.Destination) {
				assert.Nil(t, d.Domestic)
				assert.Nil(t, d.UnitedStates)
				require.NotNil(t, d.International)
				assert.Equal(t, "JP", d.International.CountryCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := canadapost.NewMockAPIClient()
			var captured *canadapost.MailingScenario
			mockAPI.OnRates = func(ctx context.Context, scenario *canadapost.MailingScenario) (*canadapost.PriceQuotes, error) {
				captured = scenario
				return &canadapost.PriceQuotes{}, nil
			}
			client := newTestClient(canadapost.Config{}, mockAPI)

			shipment := domesticShipment()
			shipment.To.CountryCode = tt.countryCode

			_, err := client.GetRates(context.Background(), shipment)

			require.NoError(t, err)
			require.NotNil(t, captured)
			tt.check(t, captured.Destination)
		})
	}
}

func TestClient_GetRates_MultiPackageWeightSummed(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	var captured *canadapost.MailingScenario
	mockAPI.OnRates = func(ctx context.Context, scenario *canadapost.MailingScenario) (*canadapost.PriceQuotes, error) {
		captured = scenario
		return &canadapost.PriceQuotes{}, nil
	}
	client := newTestClient(canadapost.Config{}, mockAPI)

	shipment := domesticShipment()
	shipment.Packages = []carrier.Package{
		{Length: 30, Width: 20, Height: 10, Weight: 2.5},
		{Length: 15, Width: 15, Height: 15, Weight: 1.5},
	}

	_, err := client.GetRates(context.Background(), shipment)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.InDelta(t, 4.0, captured.ParcelCharacter.Weight, 0.001)
	require.NotNil(t, captured.ParcelCharacter.Dimensions)
	assert.InDelta(t, 30, captured.ParcelCharacter.Dimensions.Length, 0.001)
}

func TestClient_GetRates_APIError(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(canadapost.Config{}, mockAPI)

	_, err := client.GetRates(context.Background(), domesticShipment())

	require.Error(t, err)
	assert.True(t, errors.Is(err, carrier.ErrDispatchFailed))
}

func TestClient_GetLabels_Success(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	client := newTestClient(canadapost.Config{CustomerNumber: "0001234567"}, mockAPI)

	rate := &carrier.Rate{ServiceCode: "DOM.XP", ServiceName: "Xpresspost"}
	resp, err := client.GetLabels(context.Background(), domesticShipment(), rate, carrier.LabelOptions{})

	require.NoError(t, err)
	require.Len(t, resp.Labels, 1)
	assert.NotEmpty(t, resp.Labels[0].LabelID)
	assert.NotEmpty(t, resp.Labels[0].TrackingNumber)
	assert.Equal(t, "application/pdf", resp.Labels[0].LabelMIME)
	assert.NotEmpty(t, resp.Labels[0].LabelData)
}

func TestClient_GetLabels_MissingCustomerNumber(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.OnCreateShipment = func(ctx context.Context, shipment *canadapost.ShipmentInfo) (*canadapost.ShipmentReceipt, error) {
		t.Fatal("API must not be called when the customer number is missing")
		return nil, nil
	}
	client := newTestClient(canadapost.Config{}, mockAPI)

	rate := &carrier.Rate{ServiceCode: "DOM.XP"}
	_, err := client.GetLabels(context.Background(), domesticShipment(), rate, carrier.LabelOptions{})

	var cfgErr *carrier.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Fields, "customerNumber")
}

func TestClient_GetLabels_NoShipmentID(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.OnCreateShipment = func(ctx context.Context, shipment *canadapost.ShipmentInfo) (*canadapost.ShipmentReceipt, error) {
		return &canadapost.ShipmentReceipt{}, nil
	}
	client := newTestClient(canadapost.Config{CustomerNumber: "0001234567"}, mockAPI)

	rate := &carrier.Rate{ServiceCode: "DOM.XP"}
	resp, err := client.GetLabels(context.Background(), domesticShipment(), rate, carrier.LabelOptions{})

	require.NoError(t, err)
	assert.Empty(t, resp.Labels)
}

func TestClient_GetTrackingStatus_Success(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	client := newTestClient(canadapost.Config{}, mockAPI)

	resp, err := client.GetTrackingStatus(context.Background(), []string{"1234 5678 9012"}, carrier.TrackingOptions{})

	require.NoError(t, err)
	require.Len(t, resp.Tracking, 1)

	track := resp.Tracking[0]
	assert.Equal(t, "123456789012", track.TrackingNumber)
	assert.Equal(t, carrier.StatusInTransit, track.Status)
	assert.Equal(t, "Item in transit", track.StatusDetail)
	assert.NotEmpty(t, track.EstimatedDelivery)
	require.Len(t, track.Details, 2)
	assert.Equal(t, "MISSISSAUGA, ON", track.Details[0].Location)
}

func TestClient_GetTrackingStatus_ChangedExpectedDatePreferred(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.OnTrack = func(ctx context.Context, pin string) (*canadapost.TrackingDetail, error) {
		return &canadapost.TrackingDetail{
			PIN:                  pin,
			ExpectedDeliveryDate: "2024-01-10",
			ChangedExpectedDate:  "2024-01-12",
			SignificantEvents: canadapost.SignificantEvents{Occurrence: []canadapost.Occurrence{
				{EventIdentifier: "1496", EventDescription: "Item successfully delivered", SignatoryName: "J SMITH"},
				{EventIdentifier: "0174", EventDescription: "Item in transit"},
			}},
		}, nil
	}
	client := newTestClient(canadapost.Config{}, mockAPI)

	resp, err := client.GetTrackingStatus(context.Background(), []string{"123456789012"}, carrier.TrackingOptions{})

	require.NoError(t, err)
	require.Len(t, resp.Tracking, 1)

	track := resp.Tracking[0]
	assert.Equal(t, "2024-01-12", track.EstimatedDelivery)
	assert.Equal(t, carrier.StatusDelivered, track.Status)
	assert.Equal(t, "J SMITH", track.SignedBy)
}

func TestClient_GetTrackingStatus_UnknownEventIdentifier(t *testing.T) {
	mockAPI := canadapost.NewMockAPIClient()
	mockAPI.OnTrack = func(ctx context.Context, pin string) (*canadapost.TrackingDetail, error) {
		return &canadapost.TrackingDetail{
			PIN: pin,
			SignificantEvents: canadapost.SignificantEvents{Occurrence: []canadapost.Occurrence{
				{EventIdentifier: "9999", EventDescription: "Mystery scan"},
			}},
		}, nil
	}
	client := newTestClient(canadapost.Config{}, mockAPI)

	resp, err := client.GetTrackingStatus(context.Background(), []string{"123456789012"}, carrier.TrackingOptions{})

	require.NoError(t, err)
	require.Len(t, resp.Tracking, 1)
	assert.Equal(t, carrier.StatusUnknown, resp.Tracking[0].Status)
}

func TestClient_Units(t *testing.T) {
	client := newTestClient(canadapost.Config{}, canadapost.NewMockAPIClient())

	domestic := domesticShipment()
	assert.Equal(t, carrier.WeightLB, client.WeightUnit(domestic))
	assert.Equal(t, carrier.DimensionIN, client.DimensionUnit(domestic))

	foreign := domesticShipment()
	foreign.From.CountryCode = "US"
	assert.Equal(t, carrier.WeightKG, client.WeightUnit(foreign))
	assert.Equal(t, carrier.DimensionCM, client.DimensionUnit(foreign))
}

func TestClient_TrackingURL(t *testing.T) {
	client := newTestClient(canadapost.Config{}, canadapost.NewMockAPIClient())
	assert.Equal(t,
		"https://www.canadapost-postescanada.ca/track-reperage/en#/search?searchFor=123456789012",
		client.TrackingURL("123456789012"),
	)
}
