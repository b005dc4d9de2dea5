package carrier

// TrackingStatus is the normalized status of a tracked shipment.
// The set is closed: carrier codes that don't map to one of these
// values are reported as StatusUnknown, never as an error.
type TrackingStatus string

const (
	StatusInTransit TrackingStatus = "in_transit"
	StatusDelivered TrackingStatus = "delivered"
	StatusError     TrackingStatus = "error"
	StatusUnknown   TrackingStatus = "unknown"
)

// WeightUnit represents a weight measurement unit.
type WeightUnit string

const (
	WeightLB WeightUnit = "lb"
	WeightKG WeightUnit = "kg"
)

// DimensionUnit represents a dimension measurement unit.
type DimensionUnit string

const (
	DimensionIN DimensionUnit = "in"
	DimensionCM DimensionUnit = "cm"
)

// Address represents a shipping endpoint.
type Address struct {
	Name          string
	Company       string
	Street1       string
	Street2       string
	Street3       string
	City          string
	StateProvince string
	PostalCode    string
	CountryCode   string // ISO 3166-1 alpha-2, e.g., "US", "CA"
	Phone         string
	Email         string
	Residential   bool
}

// StreetLines returns the non-empty street lines in order.
func (a Address) StreetLines() []string {
	lines := make([]string, 0, 3)
	for _, line := range []string{a.Street1, a.Street2, a.Street3} {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Package represents one physical parcel. Dimensions and weight are
// unitless here; the unit system is resolved per shipment from the
// origin country by the carrier adapter.
type Package struct {
	Length float64
	Width  float64
	Height float64
	Weight float64
	Price  float64 // declared value
}

// Shipment is the unit of a rate, label, or tracking request.
type Shipment struct {
	From     Address
	To       Address
	Packages []Package
	Currency string
}

// Validate checks the shipment invariants shared by all carriers.
func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentInvalid
	}
	if len(s.Packages) == 0 {
		return ErrShipmentInvalid
	}
	if s.From.CountryCode == "" || s.To.CountryCode == "" {
		return ErrShipmentInvalid
	}
	for _, pkg := range s.Packages {
		if pkg.Length < 0 || pkg.Width < 0 || pkg.Height < 0 || pkg.Weight < 0 {
			return ErrShipmentInvalid
		}
	}
	return nil
}

// Rate is one carrier-quoted price/service option.
//
// Rate is nil when the carrier response carried no parseable price;
// callers must treat nil as "unparseable", not zero.
type Rate struct {
	Carrier                Carrier // adapter that produced this rate (read-only reference)
	Raw                    any     // carrier-native payload for this rate
	ServiceName            string
	ServiceCode            string
	Rate                   *float64
	Currency               string
	DeliveryDays           int
	DeliveryDateGuaranteed bool
}

// Label is a purchased shipping label.
// LabelMIME is always set when LabelData is present.
type Label struct {
	Carrier        Carrier
	Raw            any
	Rate           *Rate
	TrackingNumber string
	LabelID        string
	LabelData      []byte
	LabelMIME      string
}

// TrackingDetail is one normalized tracking event.
type TrackingDetail struct {
	Location     string
	Description  string
	Date         string
	Status       TrackingStatus
	StatusDetail string
}

// Tracking is the current and historical status of one tracked package.
type Tracking struct {
	Carrier           Carrier
	Raw               any
	TrackingNumber    string
	Status            TrackingStatus
	StatusDetail      string
	EstimatedDelivery string
	Details           []TrackingDetail
	SignedBy          string
	Weight            *float64
	WeightUnit        string
}

// ============================================================================
// Response envelopes
// ============================================================================

// RateResponse wraps normalized rates with the raw carrier response.
// The raw payload is always preserved for troubleshooting.
type RateResponse struct {
	Rates []Rate
	Raw   any
}

// LabelResponse wraps purchased labels with the raw carrier response.
// An empty Labels list means the carrier produced no label; it is not
// an error condition.
type LabelResponse struct {
	Labels []Label
	Raw    any
}

// TrackingResponse wraps tracking results with the raw carrier response.
type TrackingResponse struct {
	Tracking []Tracking
	Raw      any
}
