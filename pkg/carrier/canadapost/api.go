// Package canadapost provides integration with the Canada Post shipping
// API: rating, shipment creation with label artifacts, and tracking,
// normalized into the shared carrier contract.
package canadapost

import (
	"context"
	"encoding/xml"
)

// APIClient defines the interface for Canada Post API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// Rates fetches price quotes for a mailing scenario
	Rates(ctx context.Context, scenario *MailingScenario) (*PriceQuotes, error)

	// CreateShipment creates a shipment and returns its info, including
	// the label artifact link
	CreateShipment(ctx context.Context, shipment *ShipmentInfo) (*ShipmentReceipt, error)

	// Artifact downloads a label artifact by href
	Artifact(ctx context.Context, href, mediaType string) ([]byte, error)

	// Track retrieves the tracking detail for a PIN
	Track(ctx context.Context, pin string) (*TrackingDetail, error)
}

// ============================================================================
// XML Request/Response types (match the Canada Post REST/XML API)
// ============================================================================

// MailingScenario is the rate request body.
type MailingScenario struct {
	XMLName          xml.Name               `xml:"mailing-scenario"`
	Xmlns            string                 `xml:"xmlns,attr"`
	CustomerNumber   string                 `xml:"customer-number,omitempty"`
	ContractID       string                 `xml:"contract-id,omitempty"`
	ParcelCharacter  ParcelCharacteristics  `xml:"parcel-characteristics"`
	OriginPostalCode string                 `xml:"origin-postal-code"`
	Destination      Destination            `xml:"destination"`
}

// ParcelCharacteristics describes a parcel's weight and dimensions.
type ParcelCharacteristics struct {
	Weight     float64     `xml:"weight"`
	Dimensions *Dimensions `xml:"dimensions,omitempty"`
}

// Dimensions are the parcel dimensions.
type Dimensions struct {
	Length float64 `xml:"length"`
	Width  float64 `xml:"width"`
	Height float64 `xml:"height"`
}

// Destination selects exactly one of the three destination kinds.
type Destination struct {
	Domestic      *Domestic      `xml:"domestic,omitempty"`
	UnitedStates  *UnitedStates  `xml:"united-states,omitempty"`
	International *International `xml:"international,omitempty"`
}

// Domestic is a Canadian destination.
type Domestic struct {
	PostalCode string `xml:"postal-code"`
}

// UnitedStates is a US destination.
type UnitedStates struct {
	ZipCode string `xml:"zip-code"`
}

// International is a destination outside Canada and the US.
type International struct {
	CountryCode string `xml:"country-code"`
}

// PriceQuotes is the rate response body.
type PriceQuotes struct {
	XMLName    xml.Name     `xml:"price-quotes"`
	PriceQuote []PriceQuote `xml:"price-quote"`
}

// PriceQuote is a single service quote.
type PriceQuote struct {
	ServiceCode     string          `xml:"service-code"`
	ServiceLink     ServiceLink     `xml:"service-link"`
	PriceDetails    PriceDetails    `xml:"price-details"`
	ServiceStandard ServiceStandard `xml:"service-standard"`
}

// ServiceLink carries the quoted service's name and href.
type ServiceLink struct {
	ServiceName string `xml:"service-name"`
	Href        string `xml:"href,attr"`
}

// PriceDetails breaks down a quote's pricing. Due is the tax-inclusive
// total; Base excludes taxes and adjustments.
type PriceDetails struct {
	Base        float64     `xml:"base"`
	Taxes       PriceTaxes  `xml:"taxes"`
	Due         float64     `xml:"due"`
	Adjustments Adjustments `xml:"adjustments"`
}

// PriceTaxes itemizes the taxes on a quote.
type PriceTaxes struct {
	GST float64 `xml:"gst"`
	PST float64 `xml:"pst"`
	HST float64 `xml:"hst"`
}

// Adjustments wraps the adjustment list.
type Adjustments struct {
	Adjustment []Adjustment `xml:"adjustment"`
}

// Adjustment is a single price adjustment (fuel surcharge etc.).
type Adjustment struct {
	AdjustmentCode string  `xml:"adjustment-code"`
	AdjustmentCost float64 `xml:"adjustment-cost"`
}

// ServiceStandard carries delivery commitments for a quote.
type ServiceStandard struct {
	AMDelivery           bool   `xml:"am-delivery"`
	GuaranteedDelivery   bool   `xml:"guaranteed-delivery"`
	ExpectedTransitTime  int    `xml:"expected-transit-time"`
	ExpectedDeliveryDate string `xml:"expected-delivery-date"`
}

// ShipmentInfo is the shipment creation request body.
type ShipmentInfo struct {
	XMLName            xml.Name     `xml:"shipment"`
	Xmlns              string       `xml:"xmlns,attr"`
	GroupID            string       `xml:"group-id,omitempty"`
	CpcPickupIndicator bool         `xml:"cpc-pickup-indicator"`
	DeliverySpec       DeliverySpec `xml:"delivery-spec"`
}

// DeliverySpec describes what to ship, where, and how to print.
type DeliverySpec struct {
	ServiceCode      string                `xml:"service-code"`
	Sender           SenderInfo            `xml:"sender"`
	Destination      DestinationInfo       `xml:"destination"`
	ParcelCharacter  ParcelCharacteristics `xml:"parcel-characteristics"`
	PrintPreferences PrintPreferences      `xml:"print-preferences"`
}

// SenderInfo is the shipment sender.
type SenderInfo struct {
	Name           string         `xml:"name"`
	Company        string         `xml:"company,omitempty"`
	ContactPhone   string         `xml:"contact-phone"`
	AddressDetails AddressDetails `xml:"address-details"`
}

// DestinationInfo is the shipment recipient.
type DestinationInfo struct {
	Name           string         `xml:"name"`
	Company        string         `xml:"company,omitempty"`
	AddressDetails AddressDetails `xml:"address-details"`
}

// AddressDetails is a postal address.
type AddressDetails struct {
	AddressLine1  string `xml:"address-line-1"`
	AddressLine2  string `xml:"address-line-2,omitempty"`
	City          string `xml:"city"`
	ProvState     string `xml:"prov-state"`
	PostalZipCode string `xml:"postal-zip-code"`
	CountryCode   string `xml:"country-code"`
}

// PrintPreferences selects label layout and encoding.
type PrintPreferences struct {
	OutputFormat string `xml:"output-format"` // "4x6", "8.5x11"
	Encoding     string `xml:"encoding"`      // "PDF", "ZPL"
}

// ShipmentReceipt is the shipment creation response body.
type ShipmentReceipt struct {
	XMLName        xml.Name `xml:"shipment-info"`
	ShipmentID     string   `xml:"shipment-id"`
	ShipmentStatus string   `xml:"shipment-status"`
	TrackingPIN    string   `xml:"tracking-pin"`
	Links          Links    `xml:"links"`
}

// Links wraps the hypermedia link list.
type Links struct {
	Link []Link `xml:"link"`
}

// Link is a hypermedia link in a response.
type Link struct {
	Rel       string `xml:"rel,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// TrackingDetail is the tracking detail response body.
type TrackingDetail struct {
	XMLName              xml.Name          `xml:"tracking-detail"`
	PIN                  string            `xml:"pin"`
	ExpectedDeliveryDate string            `xml:"expected-delivery-date"`
	ChangedExpectedDate  string            `xml:"changed-expected-date"`
	SignatureImageExists bool              `xml:"signature-image-exists"`
	SignatoryName        string            `xml:"signatory-name"`
	SignificantEvents    SignificantEvents `xml:"significant-events"`
}

// SignificantEvents wraps the event occurrence list.
type SignificantEvents struct {
	Occurrence []Occurrence `xml:"occurrence"`
}

// Occurrence is a single tracking event, most recent first.
type Occurrence struct {
	EventIdentifier  string `xml:"event-identifier"`
	EventDate        string `xml:"event-date"`
	EventTime        string `xml:"event-time"`
	EventTimeZone    string `xml:"event-time-zone"`
	EventDescription string `xml:"event-description"`
	SignatoryName    string `xml:"signatory-name"`
	EventSite        string `xml:"event-site"`
	EventProvince    string `xml:"event-province"`
}

// Messages is the XML error response body.
type Messages struct {
	XMLName xml.Name  `xml:"messages"`
	Message []Message `xml:"message"`
}

// Message is a single API error.
type Message struct {
	Code        string `xml:"code"`
	Description string `xml:"description"`
}
