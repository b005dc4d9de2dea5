package carrier

// UnitsFor selects the weight and dimension units for a shipment from
// its origin country alone: shipments originating in the carrier's home
// country use imperial units, all other origins use metric. The same
// selection feeds payload construction and is exposed through the
// Carrier interface so callers can render units consistently with what
// was sent.
func UnitsFor(homeCountry string, shipment *Shipment) (WeightUnit, DimensionUnit) {
	if shipment != nil && shipment.From.CountryCode == homeCountry {
		return WeightLB, DimensionIN
	}
	return WeightKG, DimensionCM
}
