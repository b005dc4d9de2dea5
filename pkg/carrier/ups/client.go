// Package ups provides integration with the UPS shipping API: rating,
// label purchase, and tracking, normalized into the shared carrier
// contract.
package ups

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "ups"

// homeCountry is the UPS home market; domestic-origin shipments use
// imperial units, all other origins metric.
const homeCountry = "US"

// Config holds UPS configuration. Credentials are set once at
// construction and treated as read-only during request processing.
type Config struct {
	ClientID         string
	ClientSecret     string
	AccountNumber    string // required for labels; enables negotiated rates
	PickupType       string // defaults to "01" (Daily Pickup)
	AddDeclaredValue bool
	BaseURL          string
	Version          string
	UseMock          bool
}

// Client is the UPS carrier adapter.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new UPS client. If cfg.UseMock is true it uses a mock
// API client; otherwise the real OAuth2/HTTP client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if cfg.PickupType == "" {
		cfg.PickupType = "01"
	}

	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:      cfg.BaseURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Version:      cfg.Version,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new UPS client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if cfg.PickupType == "" {
		cfg.PickupType = "01"
	}
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// TrackingURL returns the UPS public tracking page for a tracking number.
func (c *Client) TrackingURL(trackingNumber string) string {
	return "https://wwwapps.ups.com/WebTracking/track?track=yes&trackNums=" + trackingNumber
}

// WeightUnit returns "lb" for US-origin shipments, "kg" otherwise.
func (c *Client) WeightUnit(shipment *carrier.Shipment) carrier.WeightUnit {
	weight, _ := carrier.UnitsFor(homeCountry, shipment)
	return weight
}

// DimensionUnit returns "in" for US-origin shipments, "cm" otherwise.
func (c *Client) DimensionUnit(shipment *carrier.Shipment) carrier.DimensionUnit {
	_, dimension := carrier.UnitsFor(homeCountry, shipment)
	return dimension
}

// ServiceCodes returns the UPS service code tables keyed by origin region.
func (c *Client) ServiceCodes() carrier.ServiceCodeTable {
	return carrier.ServiceCodeTable{
		"US": {
			"01": "UPS Next Day Air",
			"02": "UPS 2nd Day Air",
			"03": "UPS Ground",
			"07": "UPS Worldwide Express",
			"08": "UPS Worldwide Expedited",
			"11": "UPS Standard",
			"12": "UPS 3 Day Select",
			"13": "UPS Next Day Air Saver",
			"14": "UPS Next Day Air Early",
			"54": "UPS Worldwide Express Plus",
			"59": "UPS 2nd Day Air A.M.",
			"65": "UPS Worldwide Saver",
			"75": "UPS Heavy Goods",
		},
		"CA": {
			"01": "UPS Express",
			"02": "UPS Expedited",
			"07": "UPS Worldwide Express",
			"08": "UPS Worldwide Expedited",
			"11": "UPS Standard",
			"12": "UPS 3 Day Select",
			"13": "UPS Express Saver",
			"14": "UPS Express Early",
			"54": "UPS Worldwide Express Plus",
			"65": "UPS Express Saver",
			"70": "UPS Access Point Economy",
		},
		"EU": {
			"07": "UPS Express",
			"08": "UPS Expedited",
			"11": "UPS Standard",
			"54": "UPS Worldwide Express Plus",
			"65": "UPS Worldwide Saver",
			"70": "UPS Access Point Economy",
			"82": "UPS Today Standard",
			"83": "UPS Today Dedicated Courier",
			"84": "UPS Today Intercity",
			"85": "UPS Today Express",
			"86": "UPS Today Express Saver",
			"01": "UPS Next Day Air",
			"02": "UPS 2nd Day Air",
			"03": "UPS Ground",
			"14": "UPS Next Day Air Early",
		},
		"PR": {
			"01": "UPS Next Day Air",
			"02": "UPS 2nd Day Air",
			"03": "UPS Ground",
			"07": "UPS Worldwide Express",
			"08": "UPS Worldwide Expedited",
			"14": "UPS Next Day Air Early",
			"54": "UPS Worldwide Express Plus",
			"65": "UPS Worldwide Saver",
		},
		"MX": {
			"07": "UPS Express",
			"08": "UPS Expedited",
			"11": "UPS Standard",
			"54": "UPS Worldwide Express Plus",
			"65": "UPS Worldwide Saver",
		},
		carrier.RegionInternational: {
			"07": "UPS Worldwide Express",
			"08": "UPS Worldwide Expedited",
			"11": "UPS Standard",
			"54": "UPS Worldwide Express Plus",
			"65": "UPS Worldwide Saver",
		},
	}
}

// euCountries are the origins that resolve against the "EU" service
// code table instead of a per-country one.
var euCountries = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true,
	"CZ": true, "DK": true, "EE": true, "FI": true, "FR": true,
	"DE": true, "GR": true, "HU": true, "IE": true, "IT": true,
	"LV": true, "LT": true, "LU": true, "MT": true, "NL": true,
	"PL": true, "PT": true, "RO": true, "SK": true, "SI": true,
	"ES": true, "SE": true,
}

func serviceRegion(originCountry string) string {
	if euCountries[originCountry] {
		return "EU"
	}
	return originCountry
}

// PickupTypes returns the UPS pickup type codes.
func PickupTypes() map[string]string {
	return map[string]string{
		"01": "Daily Pickup",
		"03": "Customer Counter",
		"06": "One Time Pickup",
		"07": "On Call Air",
		"19": "Letter Center",
		"20": "Air Service Center",
	}
}

// GetRates returns rate quotes from the UPS rating API.
func (c *Client) GetRates(ctx context.Context, shipment *carrier.Shipment) (*carrier.RateResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "clientId", Value: c.config.ClientID},
		carrier.CredentialField{Name: "clientSecret", Value: c.config.ClientSecret},
	); err != nil {
		return nil, err
	}

	c.logger.Info("Getting UPS rates",
		zap.String("origin_country", shipment.From.CountryCode),
		zap.String("destination_country", shipment.To.CountryCode),
		zap.Int("package_count", len(shipment.Packages)),
	)

	payload := c.buildRatePayload(shipment)

	data, err := c.apiClient.Rates(ctx, payload)
	if err != nil {
		c.logger.Error("UPS API error", zap.Error(err))
		return nil, err
	}

	rates := make([]carrier.Rate, 0)
	region := c.ServiceCodes().Region(serviceRegion(shipment.From.CountryCode))

	for _, shippingRate := range data.GetSlice("RateResponse.RatedShipment") {
		// Negotiated rates differ from list rates; tax-inclusive
		// figures are preferred when present.
		rate := shippingRate.FirstFloat(
			"NegotiatedRateCharges.TotalChargesWithTaxes.MonetaryValue",
			"NegotiatedRateCharges.TotalCharge.MonetaryValue",
			"TotalChargesWithTaxes.MonetaryValue",
			"TotalCharges.MonetaryValue",
		)

		serviceCode := shippingRate.GetString("Service.Code")
		serviceName := region[serviceCode]

		if serviceCode == "" || serviceName == "" {
			c.logger.Warn("UPS rate skipped: unresolved service code",
				zap.String("service_code", serviceCode),
				zap.String("origin_country", shipment.From.CountryCode),
			)
			continue
		}

		rates = append(rates, carrier.Rate{
			Carrier:                c,
			Raw:                    shippingRate,
			ServiceName:            serviceName,
			ServiceCode:            serviceCode,
			Rate:                   rate,
			Currency:               shippingRate.GetString("TotalCharges.CurrencyCode"),
			DeliveryDays:           shippingRate.GetInt("GuaranteedDelivery.BusinessDaysInTransit"),
			DeliveryDateGuaranteed: shippingRate.Has("GuaranteedDelivery"),
		})
	}

	return &carrier.RateResponse{Rates: rates, Raw: data}, nil
}

// GetLabels purchases a label through the UPS shipping API. An account
// number is required in addition to the API credentials.
func (c *Client) GetLabels(ctx context.Context, shipment *carrier.Shipment, rate *carrier.Rate, opts carrier.LabelOptions) (*carrier.LabelResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "clientId", Value: c.config.ClientID},
		carrier.CredentialField{Name: "clientSecret", Value: c.config.ClientSecret},
		carrier.CredentialField{Name: "accountNumber", Value: c.config.AccountNumber},
	); err != nil {
		return nil, err
	}

	c.logger.Info("Purchasing UPS label",
		zap.String("service_code", rate.ServiceCode),
		zap.String("destination_country", shipment.To.CountryCode),
	)

	imageFormat := opts.ImageFormat
	if imageFormat == "" {
		imageFormat = "GIF"
	}

	payload := c.buildShipPayload(shipment, rate, imageFormat)

	data, err := c.apiClient.Ship(ctx, payload)
	if err != nil {
		c.logger.Error("UPS API error", zap.Error(err))
		return nil, err
	}

	shipmentID := data.GetString("ShipmentResponse.ShipmentResults.ShipmentIdentificationNumber")

	labels := make([]carrier.Label, 0, 1)

	// A label is only emitted when the carrier returned a shipment id;
	// zero labels is not an error.
	if shipmentID != "" {
		var labelData []byte
		if graphic := data.GetString("ShipmentResponse.ShipmentResults.PackageResults.ShippingLabel.GraphicImage"); graphic != "" {
			if decoded, err := base64.StdEncoding.DecodeString(graphic); err == nil {
				labelData = decoded
			} else {
				c.logger.Warn("UPS label image not decodable", zap.Error(err))
			}
		}

		labels = append(labels, carrier.Label{
			Carrier:        c,
			Raw:            data,
			Rate:           rate,
			TrackingNumber: data.GetString("ShipmentResponse.ShipmentResults.PackageResults.TrackingNumber"),
			LabelID:        shipmentID,
			LabelData:      labelData,
			LabelMIME:      labelMIME(imageFormat),
		})
	}

	return &carrier.LabelResponse{Labels: labels, Raw: data}, nil
}

// GetTrackingStatus fetches tracking details, one API call per tracking
// number, issued sequentially.
func (c *Client) GetTrackingStatus(ctx context.Context, trackingNumbers []string, opts carrier.TrackingOptions) (*carrier.TrackingResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "clientId", Value: c.config.ClientID},
		carrier.CredentialField{Name: "clientSecret", Value: c.config.ClientSecret},
	); err != nil {
		return nil, err
	}

	tracking := make([]carrier.Tracking, 0, len(trackingNumbers))
	var data carrier.Payload

	for _, trackingNumber := range trackingNumbers {
		trackingNumber = strings.ReplaceAll(trackingNumber, " ", "")

		var err error
		data, err = c.apiClient.Track(ctx, trackingNumber)
		if err != nil {
			c.logger.Error("UPS API error", zap.Error(err), zap.String("tracking_number", trackingNumber))
			return nil, err
		}

		for _, shipment := range data.GetSlice("trackResponse.shipment") {
			for _, pkg := range shipment.GetSlice("package") {
				tracking = append(tracking, c.normalizePackageTracking(pkg, data, trackingNumber))
			}
		}
	}

	return &carrier.TrackingResponse{Tracking: tracking, Raw: data}, nil
}

func (c *Client) normalizePackageTracking(pkg carrier.Payload, raw carrier.Payload, requested string) carrier.Tracking {
	// The deliveryDate array is scheduling history (SDD scheduled,
	// RDD rescheduled, DEL delivered); the last entry is the most
	// current date, since UPS appends corrections rather than
	// replacing.
	estimatedDelivery := ""
	if deliveryDates := pkg.GetSlice("deliveryDate"); len(deliveryDates) > 0 {
		estimatedDelivery = deliveryDates[len(deliveryDates)-1].GetString("date")
	}

	activities := pkg.GetSlice("activity")

	// Current status derives from the latest (first) activity.
	status := carrier.StatusUnknown
	statusDetail := ""
	if len(activities) > 0 {
		status = mapTrackingStatus(activities[0].GetString("status.type"))
		statusDetail = activities[0].GetString("status.description")
	}

	details := make([]carrier.TrackingDetail, 0, len(activities))
	for _, activity := range activities {
		location := carrier.JoinParts(
			activity.GetString("location.address.city"),
			activity.GetString("location.address.stateProvince"),
			activity.GetString("location.address.countryCode"),
		)

		details = append(details, carrier.TrackingDetail{
			Location:     location,
			Description:  activity.GetString("status.description"),
			Date:         formatActivityTime(activity.GetString("date"), activity.GetString("time")),
			Status:       mapTrackingStatus(activity.GetString("status.type")),
			StatusDetail: activity.GetString("status.description"),
		})
	}

	trackingNumber := pkg.GetString("trackingNumber")
	if trackingNumber == "" {
		trackingNumber = requested
	}

	return carrier.Tracking{
		Carrier:           c,
		Raw:               raw,
		TrackingNumber:    trackingNumber,
		Status:            status,
		StatusDetail:      statusDetail,
		EstimatedDelivery: estimatedDelivery,
		Details:           details,
		SignedBy:          pkg.GetString("deliveryInformation.receivedBy"),
		Weight:            pkg.GetFloat("weight.weight"),
		WeightUnit:        pkg.GetString("weight.unitOfMeasurement"),
	}
}

// ============================================================================
// Payload construction (pure; inputs are never mutated)
// ============================================================================

func (c *Client) buildRatePayload(shipment *carrier.Shipment) carrier.Payload {
	shipmentPayload := map[string]any{
		"Shipper":                c.contactPayload(shipment.From),
		"ShipFrom":               c.contactPayload(shipment.From),
		"ShipTo":                 c.contactPayload(shipment.To),
		"NumOfPieces":            len(shipment.Packages),
		"Package":                c.packagesPayload(shipment, "PackagingType"),
		"TaxInformationIndicator": "Y",
	}

	// Negotiated rates require an account number but are not compulsory.
	if c.config.AccountNumber != "" {
		shipper := shipmentPayload["Shipper"].(map[string]any)
		shipper["ShipperNumber"] = c.config.AccountNumber

		shipmentPayload["ShipmentRatingOptions"] = map[string]any{
			"NegotiatedRatesIndicator": "Y",
		}
		shipmentPayload["PaymentDetails"] = map[string]any{
			"ShipmentCharge": map[string]any{
				"Type": "01",
				"BillShipper": map[string]any{
					"AccountNumber": c.config.AccountNumber,
				},
			},
		}
	}

	return carrier.Payload{
		"RateRequest": map[string]any{
			"PickupType": map[string]any{
				"Code": c.config.PickupType,
			},
			"Shipment": shipmentPayload,
		},
	}
}

func (c *Client) buildShipPayload(shipment *carrier.Shipment, rate *carrier.Rate, imageFormat string) carrier.Payload {
	shipper := c.contactPayload(shipment.From)
	shipper["ShipperNumber"] = c.config.AccountNumber

	return carrier.Payload{
		"ShipmentRequest": map[string]any{
			"Shipment": map[string]any{
				"Shipper":     shipper,
				"ShipFrom":    c.contactPayload(shipment.From),
				"ShipTo":      c.contactPayload(shipment.To),
				"NumOfPieces": len(shipment.Packages),
				// Rating uses `PackagingType`, shipping uses `Packaging`.
				"Package": c.packagesPayload(shipment, "Packaging"),
				"Service": map[string]any{
					"Code": rate.ServiceCode,
				},
				"PaymentInformation": map[string]any{
					"ShipmentCharge": map[string]any{
						"Type": "01",
						"BillShipper": map[string]any{
							"AccountNumber": c.config.AccountNumber,
						},
					},
				},
			},
			"LabelSpecification": map[string]any{
				"LabelImageFormat": map[string]any{
					"Code": imageFormat,
				},
			},
		},
	}
}

func (c *Client) addressPayload(address carrier.Address) map[string]any {
	object := map[string]any{
		"AddressLine":       address.StreetLines(),
		"City":              address.City,
		"StateProvinceCode": address.StateProvince,
		"PostalCode":        address.PostalCode,
		"CountryCode":       address.CountryCode,
	}

	if address.Residential {
		object["ResidentialAddressIndicator"] = true
	}

	return object
}

func (c *Client) contactPayload(address carrier.Address) map[string]any {
	contact := map[string]any{
		"Name":          address.Name,
		"AttentionName": address.Name,
		"Address":       c.addressPayload(address),
	}

	if address.Phone != "" {
		contact["Phone"] = map[string]any{"Number": address.Phone}
	}
	if address.Email != "" {
		contact["EMailAddress"] = address.Email
	}

	return contact
}

func (c *Client) packagesPayload(shipment *carrier.Shipment, packagingKey string) []map[string]any {
	weightUnit, dimensionUnit := carrier.UnitsFor(homeCountry, shipment)

	packages := make([]map[string]any, 0, len(shipment.Packages))
	for _, pkg := range shipment.Packages {
		providerPackage := map[string]any{
			packagingKey: map[string]any{
				"Code": "02",
			},
			"Dimensions": map[string]any{
				"UnitOfMeasurement": map[string]any{
					"Code": wireDimensionUnit(dimensionUnit),
				},
				"Length": pkg.Length,
				"Width":  pkg.Width,
				"Height": pkg.Height,
			},
			"PackageWeight": map[string]any{
				"UnitOfMeasurement": map[string]any{
					"Code": wireWeightUnit(weightUnit),
				},
				"Weight": pkg.Weight,
			},
		}

		if c.config.AddDeclaredValue {
			providerPackage["PackageServiceOptions"] = map[string]any{
				"DeclaredValue": map[string]any{
					"CurrencyCode":  shipment.Currency,
					"MonetaryValue": pkg.Price,
				},
			}
		}

		packages = append(packages, providerPackage)
	}

	return packages
}

// ============================================================================
// Mapping helpers
// ============================================================================

func mapTrackingStatus(statusType string) carrier.TrackingStatus {
	switch statusType {
	case "I", "P", "M":
		return carrier.StatusInTransit
	case "D":
		return carrier.StatusDelivered
	case "X":
		return carrier.StatusError
	default:
		return carrier.StatusUnknown
	}
}

func wireWeightUnit(unit carrier.WeightUnit) string {
	if unit == carrier.WeightLB {
		return "LBS"
	}
	return "KGS"
}

func wireDimensionUnit(unit carrier.DimensionUnit) string {
	if unit == carrier.DimensionIN {
		return "IN"
	}
	return "CM"
}

func labelMIME(imageFormat string) string {
	switch strings.ToUpper(imageFormat) {
	case "GIF":
		return "image/gif"
	case "PNG":
		return "image/png"
	case "PDF":
		return "application/pdf"
	case "ZPL":
		return "application/zpl"
	default:
		return "image/gif"
	}
}

// formatActivityTime converts UPS YYYYMMDD and HHMMSS fields into a
// readable "2006-01-02 15:04:05" timestamp. Either part may be absent.
func formatActivityTime(date, clock string) string {
	if date == "" || clock == "" {
		return ""
	}
	d, err := time.Parse("20060102", date)
	if err != nil {
		return ""
	}
	t, err := time.Parse("150405", clock)
	if err != nil {
		return ""
	}
	return d.Format("2006-01-02") + " " + t.Format("15:04:05")
}

var _ carrier.Carrier = (*Client)(nil)
