package auspost

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "auspost"

const homeCountry = "AU"

// Config holds Australia Post configuration.
type Config struct {
	APIKey        string
	AccountNumber string // required for labels; rates work without it
	BaseURL       string
	UseMock       bool
}

// Client is the Australia Post carrier adapter.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Australia Post client. If cfg.UseMock is true it
// uses a mock API client; otherwise the real HTTP client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:       cfg.BaseURL,
			APIKey:        cfg.APIKey,
			AccountNumber: cfg.AccountNumber,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Australia Post client with a custom
// API client. This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
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

// TrackingURL returns the Australia Post public tracking page for a
// tracking number.
func (c *Client) TrackingURL(trackingNumber string) string {
	return "https://auspost.com.au/mypost/track/#/details/" + trackingNumber
}

// WeightUnit returns "lb" for AU-origin shipments, "kg" otherwise.
func (c *Client) WeightUnit(shipment *carrier.Shipment) carrier.WeightUnit {
	weight, _ := carrier.UnitsFor(homeCountry, shipment)
	return weight
}

// DimensionUnit returns "in" for AU-origin shipments, "cm" otherwise.
func (c *Client) DimensionUnit(shipment *carrier.Shipment) carrier.DimensionUnit {
	_, dimension := carrier.UnitsFor(homeCountry, shipment)
	return dimension
}

// ServiceCodes returns the Australia Post service code tables.
func (c *Client) ServiceCodes() carrier.ServiceCodeTable {
	return carrier.ServiceCodeTable{
		"AU": {
			"AUS_PARCEL_REGULAR":       "Parcel Post",
			"AUS_PARCEL_REGULAR_SATCHEL_500G": "Parcel Post Small Satchel",
			"AUS_PARCEL_REGULAR_SATCHEL_3KG":  "Parcel Post Medium Satchel",
			"AUS_PARCEL_REGULAR_SATCHEL_5KG":  "Parcel Post Large Satchel",
			"AUS_PARCEL_EXPRESS":       "Express Post",
			"AUS_PARCEL_EXPRESS_SATCHEL_500G": "Express Post Small Satchel",
			"AUS_PARCEL_EXPRESS_SATCHEL_3KG":  "Express Post Medium Satchel",
			"AUS_PARCEL_EXPRESS_SATCHEL_5KG":  "Express Post Large Satchel",
			"AUS_PARCEL_COURIER":       "Courier Post",
			"AUS_PARCEL_COURIER_SATCHEL_MEDIUM": "Courier Post Assessed Medium Satchel",
		},
		carrier.RegionInternational: {
			"INT_PARCEL_COR_OWN_PACKAGING": "Courier",
			"INT_PARCEL_EXP_OWN_PACKAGING": "Express",
			"INT_PARCEL_STD_OWN_PACKAGING": "Standard",
			"INT_PARCEL_AIR_OWN_PACKAGING": "Economy Air",
			"INT_PARCEL_SEA_OWN_PACKAGING": "Economy Sea",
		},
	}
}

// GetRates returns rate quotes from the Australia Post postage
// calculator.
func (c *Client) GetRates(ctx context.Context, shipment *carrier.Shipment) (*carrier.RateResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "apiKey", Value: c.config.APIKey},
	); err != nil {
		return nil, err
	}

	c.logger.Info("Getting Australia Post rates",
		zap.String("origin_country", shipment.From.CountryCode),
		zap.String("destination_country", shipment.To.CountryCode),
		zap.Int("package_count", len(shipment.Packages)),
	)

	domestic := shipment.To.CountryCode == "AU"
	query := c.buildRateQuery(shipment, domestic)

	data, err := c.apiClient.Rates(ctx, domestic, query)
	if err != nil {
		c.logger.Error("Australia Post API error", zap.Error(err))
		return nil, err
	}

	region := c.ServiceCodes().Region(shipment.From.CountryCode)
	if !domestic {
		region = c.ServiceCodes()[carrier.RegionInternational]
	}

	rates := make([]carrier.Rate, 0)
	for _, service := range data.GetSlice("services.service") {
		serviceCode := service.GetString("code")
		serviceName := region[serviceCode]

		if serviceCode == "" || serviceName == "" {
			c.logger.Warn("Australia Post rate skipped: unresolved service code",
				zap.String("service_code", serviceCode),
			)
			continue
		}

		rates = append(rates, carrier.Rate{
			Carrier:     c,
			Raw:         service,
			ServiceName: serviceName,
			ServiceCode: serviceCode,
			Rate:        service.GetFloat("price"),
			Currency:    "AUD",
		})
	}

	return &carrier.RateResponse{Rates: rates, Raw: data}, nil
}

// GetLabels creates a shipment through the shipping API and downloads
// its rendered label. An account number is required in addition to the
// API key.
func (c *Client) GetLabels(ctx context.Context, shipment *carrier.Shipment, rate *carrier.Rate, opts carrier.LabelOptions) (*carrier.LabelResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "apiKey", Value: c.config.APIKey},
		carrier.CredentialField{Name: "accountNumber", Value: c.config.AccountNumber},
	); err != nil {
		return nil, err
	}

	c.logger.Info("Purchasing Australia Post label",
		zap.String("service_code", rate.ServiceCode),
		zap.String("destination_country", shipment.To.CountryCode),
	)

	data, err := c.apiClient.CreateShipment(ctx, c.buildShipmentPayload(shipment, rate))
	if err != nil {
		c.logger.Error("Australia Post API error", zap.Error(err))
		return nil, err
	}

	labels := make([]carrier.Label, 0, 1)

	shipments := data.GetSlice("shipments")
	if len(shipments) == 0 {
		return &carrier.LabelResponse{Labels: labels, Raw: data}, nil
	}

	shipmentID := shipments[0].GetString("shipment_id")
	if shipmentID == "" {
		return &carrier.LabelResponse{Labels: labels, Raw: data}, nil
	}

	trackingNumber := ""
	if items := shipments[0].GetSlice("items"); len(items) > 0 {
		trackingNumber = items[0].GetString("tracking_details.article_id")
	}

	label := carrier.Label{
		Carrier:        c,
		Raw:            data,
		Rate:           rate,
		TrackingNumber: trackingNumber,
		LabelID:        shipmentID,
		LabelMIME:      "application/pdf",
	}

	labelData, err := c.fetchLabelData(ctx, shipmentID)
	if err != nil {
		c.logger.Error("Australia Post label fetch failed", zap.Error(err))
		return nil, err
	}
	label.LabelData = labelData

	labels = append(labels, label)

	return &carrier.LabelResponse{Labels: labels, Raw: data}, nil
}

func (c *Client) fetchLabelData(ctx context.Context, shipmentID string) ([]byte, error) {
	labelsResp, err := c.apiClient.Labels(ctx, carrier.Payload{
		"wait_for_label_url": true,
		"shipments": []any{
			map[string]any{"shipment_id": shipmentID},
		},
	})
	if err != nil {
		return nil, err
	}

	generated := labelsResp.GetSlice("labels")
	if len(generated) == 0 {
		return nil, nil
	}

	labelURL := generated[0].GetString("url")
	if labelURL == "" {
		return nil, nil
	}

	return c.apiClient.DownloadLabel(ctx, labelURL)
}

// GetTrackingStatus fetches tracking details, one API call per tracking
// number, issued sequentially.
func (c *Client) GetTrackingStatus(ctx context.Context, trackingNumbers []string, opts carrier.TrackingOptions) (*carrier.TrackingResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "apiKey", Value: c.config.APIKey},
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
			c.logger.Error("Australia Post API error", zap.Error(err), zap.String("tracking_number", trackingNumber))
			return nil, err
		}

		for _, result := range data.GetSlice("tracking_results") {
			tracking = append(tracking, c.normalizeTracking(result, data, trackingNumber))
		}
	}

	return &carrier.TrackingResponse{Tracking: tracking, Raw: data}, nil
}

func (c *Client) normalizeTracking(result carrier.Payload, raw carrier.Payload, requested string) carrier.Tracking {
	details := make([]carrier.TrackingDetail, 0)
	for _, item := range result.GetSlice("trackable_items") {
		for _, event := range item.GetSlice("events") {
			details = append(details, carrier.TrackingDetail{
				Location:     event.GetString("location"),
				Description:  event.GetString("description"),
				Date:         event.GetString("date"),
				Status:       mapTrackingStatus(event.GetString("description")),
				StatusDetail: event.GetString("description"),
			})
		}
	}

	trackingNumber := result.GetString("tracking_id")
	if trackingNumber == "" {
		trackingNumber = requested
	}

	return carrier.Tracking{
		Carrier:        c,
		Raw:            raw,
		TrackingNumber: trackingNumber,
		Status:         mapTrackingStatus(result.GetString("status")),
		StatusDetail:   result.GetString("status"),
		Details:        details,
	}
}

// ============================================================================
// Request construction (pure; inputs are never mutated)
// ============================================================================

func (c *Client) buildRateQuery(shipment *carrier.Shipment, domestic bool) url.Values {
	var weight, length, width, height float64
	for _, pkg := range shipment.Packages {
		weight += pkg.Weight
	}
	if len(shipment.Packages) > 0 {
		length = shipment.Packages[0].Length
		width = shipment.Packages[0].Width
		height = shipment.Packages[0].Height
	}

	query := url.Values{}
	query.Set("weight", formatFloat(weight))

	if domestic {
		query.Set("from_postcode", shipment.From.PostalCode)
		query.Set("to_postcode", shipment.To.PostalCode)
		query.Set("length", formatFloat(length))
		query.Set("width", formatFloat(width))
		query.Set("height", formatFloat(height))
	} else {
		query.Set("country_code", shipment.To.CountryCode)
	}

	return query
}

func (c *Client) buildShipmentPayload(shipment *carrier.Shipment, rate *carrier.Rate) carrier.Payload {
	items := make([]any, 0, len(shipment.Packages))
	for _, pkg := range shipment.Packages {
		items = append(items, map[string]any{
			"product_id": rate.ServiceCode,
			"length":     pkg.Length,
			"width":      pkg.Width,
			"height":     pkg.Height,
			"weight":     pkg.Weight,
		})
	}

	return carrier.Payload{
		"shipments": []any{
			map[string]any{
				"from": shipmentAddress(shipment.From),
				"to":   shipmentAddress(shipment.To),
				"items": items,
			},
		},
	}
}

func shipmentAddress(address carrier.Address) map[string]any {
	return map[string]any{
		"name":     address.Name,
		"lines":    address.StreetLines(),
		"suburb":   address.City,
		"state":    address.StateProvince,
		"postcode": address.PostalCode,
		"country":  address.CountryCode,
		"phone":    address.Phone,
		"email":    address.Email,
	}
}

// ============================================================================
// Mapping helpers
// ============================================================================

func mapTrackingStatus(status string) carrier.TrackingStatus {
	switch strings.ToLower(status) {
	case "delivered":
		return carrier.StatusDelivered
	case "initiated", "in transit", "awaiting collection", "possible delay", "picked up":
		return carrier.StatusInTransit
	case "cancelled", "article damaged", "unsuccessful pickup", "cannot be delivered", "held by courier":
		return carrier.StatusError
	default:
		return carrier.StatusUnknown
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var _ carrier.Carrier = (*Client)(nil)
