package canadapost

import (
	"context"
	"strings"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "canadapost"

const homeCountry = "CA"

// Config holds Canada Post configuration.
type Config struct {
	APIKey         string
	APISecret      string
	CustomerNumber string // required for labels; rates work without it
	ContractID     string
	BaseURL        string
	UseMock        bool
}

// Client is the Canada Post carrier adapter.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Canada Post client. If cfg.UseMock is true it uses
// a mock API client; otherwise the real HTTP/XML client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:        cfg.BaseURL,
			APIKey:         cfg.APIKey,
			APISecret:      cfg.APISecret,
			CustomerNumber: cfg.CustomerNumber,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Canada Post client with a custom API
// client. This is useful for injecting mock clients in tests.
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

// TrackingURL returns the Canada Post public tracking page for a PIN.
func (c *Client) TrackingURL(trackingNumber string) string {
	return "https://www.canadapost-postescanada.ca/track-reperage/en#/search?searchFor=" + trackingNumber
}

// WeightUnit returns "lb" for CA-origin shipments, "kg" otherwise.
func (c *Client) WeightUnit(shipment *carrier.Shipment) carrier.WeightUnit {
	weight, _ := carrier.UnitsFor(homeCountry, shipment)
	return weight
}

// DimensionUnit returns "in" for CA-origin shipments, "cm" otherwise.
func (c *Client) DimensionUnit(shipment *carrier.Shipment) carrier.DimensionUnit {
	_, dimension := carrier.UnitsFor(homeCountry, shipment)
	return dimension
}

// ServiceCodes returns the Canada Post service code tables. All
// shipments originate in Canada, so the CA table doubles as the
// international fallback.
func (c *Client) ServiceCodes() carrier.ServiceCodeTable {
	codes := map[string]string{
		"DOM.RP":      "Regular Parcel",
		"DOM.EP":      "Expedited Parcel",
		"DOM.XP":      "Xpresspost",
		"DOM.XP.CERT": "Xpresspost Certified",
		"DOM.PC":      "Priority",
		"DOM.LIB":     "Library Materials",
		"USA.EP":      "Expedited Parcel USA",
		"USA.PW.ENV":  "Priority Worldwide Envelope USA",
		"USA.PW.PAK":  "Priority Worldwide pak USA",
		"USA.PW.PARCEL": "Priority Worldwide Parcel USA",
		"USA.SP.AIR":  "Small Packet USA Air",
		"USA.TP":      "Tracked Packet USA",
		"USA.TP.LVM":  "Tracked Packet USA (LVM)",
		"USA.XP":      "Xpresspost USA",
		"INT.XP":      "Xpresspost International",
		"INT.IP.AIR":  "International Parcel Air",
		"INT.IP.SURF": "International Parcel Surface",
		"INT.PW.ENV":  "Priority Worldwide Envelope Intl",
		"INT.PW.PAK":  "Priority Worldwide pak Intl",
		"INT.PW.PARCEL": "Priority Worldwide parcel Intl",
		"INT.SP.AIR":  "Small Packet International Air",
		"INT.SP.SURF": "Small Packet International Surface",
		"INT.TP":      "Tracked Packet International",
	}
	return carrier.ServiceCodeTable{
		"CA":                        codes,
		carrier.RegionInternational: codes,
	}
}

// GetRates returns rate quotes from the Canada Post rating API.
func (c *Client) GetRates(ctx context.Context, shipment *carrier.Shipment) (*carrier.RateResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "apiKey", Value: c.config.APIKey},
		carrier.CredentialField{Name: "apiSecret", Value: c.config.APISecret},
	); err != nil {
		return nil, err
	}

	c.logger.Info("Getting Canada Post rates",
		zap.String("origin_country", shipment.From.CountryCode),
		zap.String("destination_country", shipment.To.CountryCode),
		zap.Int("package_count", len(shipment.Packages)),
	)

	scenario := c.buildMailingScenario(shipment)

	quotes, err := c.apiClient.Rates(ctx, scenario)
	if err != nil {
		c.logger.Error("Canada Post API error", zap.Error(err))
		return nil, err
	}

	region := c.ServiceCodes().Region(shipment.From.CountryCode)

	rates := make([]carrier.Rate, 0, len(quotes.PriceQuote))
	for i := range quotes.PriceQuote {
		quote := &quotes.PriceQuote[i]

		serviceName := region[quote.ServiceCode]
		if serviceName == "" {
			// The wire response names services authoritatively;
			// the table only backfills terse responses.
			serviceName = quote.ServiceLink.ServiceName
		}
		if quote.ServiceCode == "" || serviceName == "" {
			c.logger.Warn("Canada Post rate skipped: unresolved service code",
				zap.String("service_code", quote.ServiceCode),
			)
			continue
		}

		rates = append(rates, carrier.Rate{
			Carrier:                c,
			Raw:                    quote,
			ServiceName:            serviceName,
			ServiceCode:            quote.ServiceCode,
			Rate:                   quoteRate(quote),
			Currency:               "CAD",
			DeliveryDays:           quote.ServiceStandard.ExpectedTransitTime,
			DeliveryDateGuaranteed: quote.ServiceStandard.GuaranteedDelivery,
		})
	}

	return &carrier.RateResponse{Rates: rates, Raw: quotes}, nil
}

// GetLabels creates a shipment and downloads its label artifact. A
// customer number is required in addition to the API credentials.
func (c *Client) GetLabels(ctx context.Context, shipment *carrier.Shipment, rate *carrier.Rate, opts carrier.LabelOptions) (*carrier.LabelResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "apiKey", Value: c.config.APIKey},
		carrier.CredentialField{Name: "apiSecret", Value: c.config.APISecret},
		carrier.CredentialField{Name: "customerNumber", Value: c.config.CustomerNumber},
	); err != nil {
		return nil, err
	}

	c.logger.Info("Purchasing Canada Post label",
		zap.String("service_code", rate.ServiceCode),
		zap.String("destination_country", shipment.To.CountryCode),
	)

	encoding := strings.ToUpper(opts.ImageFormat)
	if encoding != "ZPL" {
		encoding = "PDF"
	}

	info := c.buildShipmentInfo(shipment, rate, encoding)

	receipt, err := c.apiClient.CreateShipment(ctx, info)
	if err != nil {
		c.logger.Error("Canada Post API error", zap.Error(err))
		return nil, err
	}

	labels := make([]carrier.Label, 0, 1)

	if receipt.ShipmentID != "" {
		label := carrier.Label{
			Carrier:        c,
			Raw:            receipt,
			Rate:           rate,
			TrackingNumber: receipt.TrackingPIN,
			LabelID:        receipt.ShipmentID,
			LabelMIME:      labelMIME(encoding),
		}

		if href, mediaType := labelLink(receipt); href != "" {
			data, err := c.apiClient.Artifact(ctx, href, mediaType)
			if err != nil {
				c.logger.Error("Canada Post artifact fetch failed", zap.Error(err))
				return nil, err
			}
			label.LabelData = data
			if mediaType != "" {
				label.LabelMIME = mediaType
			}
		}

		labels = append(labels, label)
	}

	return &carrier.LabelResponse{Labels: labels, Raw: receipt}, nil
}

// GetTrackingStatus fetches tracking details, one API call per PIN,
// issued sequentially.
func (c *Client) GetTrackingStatus(ctx context.Context, trackingNumbers []string, opts carrier.TrackingOptions) (*carrier.TrackingResponse, error) {
	if err := carrier.RequireCredentials(carrierName,
		carrier.CredentialField{Name: "apiKey", Value: c.config.APIKey},
		carrier.CredentialField{Name: "apiSecret", Value: c.config.APISecret},
	); err != nil {
		return nil, err
	}

	tracking := make([]carrier.Tracking, 0, len(trackingNumbers))
	var last *TrackingDetail

	for _, pin := range trackingNumbers {
		pin = strings.ReplaceAll(pin, " ", "")

		detail, err := c.apiClient.Track(ctx, pin)
		if err != nil {
			c.logger.Error("Canada Post API error", zap.Error(err), zap.String("tracking_number", pin))
			return nil, err
		}
		last = detail

		tracking = append(tracking, c.normalizeTracking(detail, pin))
	}

	return &carrier.TrackingResponse{Tracking: tracking, Raw: last}, nil
}

func (c *Client) normalizeTracking(detail *TrackingDetail, requested string) carrier.Tracking {
	events := detail.SignificantEvents.Occurrence

	// Occurrences are most recent first; the first drives the status.
	status := carrier.StatusUnknown
	statusDetail := ""
	if len(events) > 0 {
		status = mapEventStatus(events[0].EventIdentifier)
		statusDetail = events[0].EventDescription
	}

	// A rescheduled date supersedes the originally expected one.
	estimatedDelivery := detail.ExpectedDeliveryDate
	if detail.ChangedExpectedDate != "" {
		estimatedDelivery = detail.ChangedExpectedDate
	}

	details := make([]carrier.TrackingDetail, 0, len(events))
	signedBy := detail.SignatoryName
	for i := range events {
		event := &events[i]

		if signedBy == "" && event.SignatoryName != "" {
			signedBy = event.SignatoryName
		}

		details = append(details, carrier.TrackingDetail{
			Location:     carrier.JoinParts(event.EventSite, event.EventProvince),
			Description:  event.EventDescription,
			Date:         strings.TrimSpace(event.EventDate + " " + event.EventTime),
			Status:       mapEventStatus(event.EventIdentifier),
			StatusDetail: event.EventDescription,
		})
	}

	trackingNumber := detail.PIN
	if trackingNumber == "" {
		trackingNumber = requested
	}

	return carrier.Tracking{
		Carrier:           c,
		Raw:               detail,
		TrackingNumber:    trackingNumber,
		Status:            status,
		StatusDetail:      statusDetail,
		EstimatedDelivery: estimatedDelivery,
		Details:           details,
		SignedBy:          signedBy,
	}
}

// ============================================================================
// Request construction (pure; inputs are never mutated)
// ============================================================================

func (c *Client) buildMailingScenario(shipment *carrier.Shipment) *MailingScenario {
	scenario := &MailingScenario{
		Xmlns:            "http://www.canadapost.ca/ws/ship/rate-v4",
		CustomerNumber:   c.config.CustomerNumber,
		ContractID:       c.config.ContractID,
		OriginPostalCode: normalizePostalCode(shipment.From.PostalCode),
		ParcelCharacter:  c.buildParcel(shipment),
	}

	switch shipment.To.CountryCode {
	case "CA":
		scenario.Destination.Domestic = &Domestic{
			PostalCode: normalizePostalCode(shipment.To.PostalCode),
		}
	case "US":
		scenario.Destination.UnitedStates = &UnitedStates{
			ZipCode: normalizePostalCode(shipment.To.PostalCode),
		}
	default:
		scenario.Destination.International = &International{
			CountryCode: shipment.To.CountryCode,
		}
	}

	return scenario
}

func (c *Client) buildShipmentInfo(shipment *carrier.Shipment, rate *carrier.Rate, encoding string) *ShipmentInfo {
	return &ShipmentInfo{
		Xmlns:              "http://www.canadapost.ca/ws/shipment-v8",
		CpcPickupIndicator: true,
		DeliverySpec: DeliverySpec{
			ServiceCode: rate.ServiceCode,
			Sender: SenderInfo{
				Name:           shipment.From.Name,
				Company:        shipment.From.Company,
				ContactPhone:   shipment.From.Phone,
				AddressDetails: addressDetails(shipment.From),
			},
			Destination: DestinationInfo{
				Name:           shipment.To.Name,
				Company:        shipment.To.Company,
				AddressDetails: addressDetails(shipment.To),
			},
			ParcelCharacter: c.buildParcel(shipment),
			PrintPreferences: PrintPreferences{
				OutputFormat: "4x6",
				Encoding:     encoding,
			},
		},
	}
}

// buildParcel flattens a multi-package shipment into one parcel: total
// weight, dimensions of the first package. Canada Post rates one parcel
// per scenario.
func (c *Client) buildParcel(shipment *carrier.Shipment) ParcelCharacteristics {
	parcel := ParcelCharacteristics{}
	for _, pkg := range shipment.Packages {
		parcel.Weight += pkg.Weight
	}
	if len(shipment.Packages) > 0 {
		first := shipment.Packages[0]
		if first.Length > 0 {
			parcel.Dimensions = &Dimensions{
				Length: first.Length,
				Width:  first.Width,
				Height: first.Height,
			}
		}
	}
	return parcel
}

func addressDetails(address carrier.Address) AddressDetails {
	return AddressDetails{
		AddressLine1:  address.Street1,
		AddressLine2:  address.Street2,
		City:          address.City,
		ProvState:     address.StateProvince,
		PostalZipCode: normalizePostalCode(address.PostalCode),
		CountryCode:   address.CountryCode,
	}
}

// ============================================================================
// Mapping helpers
// ============================================================================

// quoteRate prefers the tax-inclusive due amount over the base amount.
// Nil means the quote carried no usable figure.
func quoteRate(quote *PriceQuote) *float64 {
	if quote.PriceDetails.Due > 0 {
		due := quote.PriceDetails.Due
		return &due
	}
	if quote.PriceDetails.Base > 0 {
		base := quote.PriceDetails.Base
		return &base
	}
	return nil
}

func labelLink(receipt *ShipmentReceipt) (href, mediaType string) {
	for _, link := range receipt.Links.Link {
		if link.Rel == "label" {
			return link.Href, link.MediaType
		}
	}
	return "", ""
}

func mapEventStatus(eventIdentifier string) carrier.TrackingStatus {
	switch eventIdentifier {
	case "1496", "1497", "1498", "1499":
		return carrier.StatusDelivered
	case "1404", "1415", "1421", "1426":
		return carrier.StatusError
	case "0100", "0170", "0172", "0174", "0176", "0500", "1441", "2300", "3000":
		return carrier.StatusInTransit
	default:
		return carrier.StatusUnknown
	}
}

func labelMIME(encoding string) string {
	if encoding == "ZPL" {
		return "application/zpl"
	}
	return "application/pdf"
}

// normalizePostalCode uppercases and strips spaces; Canada Post rejects
// the spaced form.
func normalizePostalCode(pc string) string {
	return strings.ReplaceAll(strings.ToUpper(pc), " ", "")
}

var _ carrier.Carrier = (*Client)(nil)
