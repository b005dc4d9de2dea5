package server

import "github.com/parcelbridge/parcelbridge/pkg/carrier"

// ============================================================================
// Wire types
// ============================================================================

type addressDTO struct {
	Name          string `json:"name"`
	Company       string `json:"company,omitempty"`
	Street1       string `json:"street1"`
	Street2       string `json:"street2,omitempty"`
	Street3       string `json:"street3,omitempty"`
	City          string `json:"city"`
	StateProvince string `json:"stateProvince"`
	PostalCode    string `json:"postalCode"`
	CountryCode   string `json:"countryCode"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Residential   bool   `json:"residential,omitempty"`
}

func (a addressDTO) toModel() carrier.Address {
	return carrier.Address{
		Name:          a.Name,
		Company:       a.Company,
		Street1:       a.Street1,
		Street2:       a.Street2,
		Street3:       a.Street3,
		City:          a.City,
		StateProvince: a.StateProvince,
		PostalCode:    a.PostalCode,
		CountryCode:   a.CountryCode,
		Phone:         a.Phone,
		Email:         a.Email,
		Residential:   a.Residential,
	}
}

type packageDTO struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Price  float64 `json:"price,omitempty"`
}

type shipmentDTO struct {
	From     addressDTO   `json:"from"`
	To       addressDTO   `json:"to"`
	Packages []packageDTO `json:"packages"`
	Currency string       `json:"currency,omitempty"`
}

func (s shipmentDTO) toModel() *carrier.Shipment {
	packages := make([]carrier.Package, 0, len(s.Packages))
	for _, p := range s.Packages {
		packages = append(packages, carrier.Package{
			Length: p.Length,
			Width:  p.Width,
			Height: p.Height,
			Weight: p.Weight,
			Price:  p.Price,
		})
	}
	return &carrier.Shipment{
		From:     s.From.toModel(),
		To:       s.To.toModel(),
		Packages: packages,
		Currency: s.Currency,
	}
}

type ratesRequest struct {
	Carrier  string      `json:"carrier,omitempty"` // empty fans out to all carriers
	Shipment shipmentDTO `json:"shipment"`
}

type rateDTO struct {
	Carrier                string   `json:"carrier"`
	ServiceName            string   `json:"serviceName"`
	ServiceCode            string   `json:"serviceCode"`
	Rate                   *float64 `json:"rate"`
	Currency               string   `json:"currency,omitempty"`
	DeliveryDays           int      `json:"deliveryDays,omitempty"`
	DeliveryDateGuaranteed bool     `json:"deliveryDateGuaranteed,omitempty"`
}

type ratesResponse struct {
	Rates  []rateDTO `json:"rates"`
	Errors []string  `json:"errors,omitempty"`
}

type rateSelectionDTO struct {
	ServiceCode string `json:"serviceCode"`
	ServiceName string `json:"serviceName,omitempty"`
}

type labelsRequest struct {
	Carrier     string           `json:"carrier"`
	Shipment    shipmentDTO      `json:"shipment"`
	Rate        rateSelectionDTO `json:"rate"`
	ImageFormat string           `json:"imageFormat,omitempty"`
}

type labelDTO struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	TrackingURL    string `json:"trackingUrl,omitempty"`
	LabelID        string `json:"labelId"`
	LabelData      string `json:"labelData,omitempty"` // base64
	LabelMIME      string `json:"labelMime,omitempty"`
}

type labelsResponse struct {
	Labels []labelDTO `json:"labels"`
}

type trackingRequest struct {
	Carrier         string   `json:"carrier"`
	TrackingNumbers []string `json:"trackingNumbers"`
	Locale          string   `json:"locale,omitempty"`
}

type trackingDetailDTO struct {
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Status      string `json:"status"`
}

type trackingDTO struct {
	Carrier           string              `json:"carrier"`
	TrackingNumber    string              `json:"trackingNumber"`
	TrackingURL       string              `json:"trackingUrl,omitempty"`
	Status            string              `json:"status"`
	StatusDetail      string              `json:"statusDetail,omitempty"`
	EstimatedDelivery string              `json:"estimatedDelivery,omitempty"`
	SignedBy          string              `json:"signedBy,omitempty"`
	Weight            *float64            `json:"weight,omitempty"`
	WeightUnit        string              `json:"weightUnit,omitempty"`
	Details           []trackingDetailDTO `json:"details,omitempty"`
}

type trackingResponse struct {
	Tracking []trackingDTO `json:"tracking"`
}

type carrierInfo struct {
	Name         string                   `json:"name"`
	ServiceCodes carrier.ServiceCodeTable `json:"serviceCodes"`
}

type carriersResponse struct {
	Carriers []carrierInfo `json:"carriers"`
}

type errorResponse struct {
	Error string `json:"error"`
}
