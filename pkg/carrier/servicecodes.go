package carrier

// RegionInternational is the fallback region key used when a service
// code table has no entry for a shipment's origin country.
const RegionInternational = "international"

// ServiceCodeTable maps region keys (origin country codes, plus the
// "international" fallback) to carrier service code -> human-readable
// name tables.
type ServiceCodeTable map[string]map[string]string

// Region returns the code table for an origin country, falling back to
// the international table when the country has no dedicated entry.
func (t ServiceCodeTable) Region(originCountry string) map[string]string {
	if region, ok := t[originCountry]; ok {
		return region
	}
	return t[RegionInternational]
}

// Resolve looks up a service code for a shipment origin. The second
// return is false when the code is unknown in both the origin region
// and the international fallback; callers skip such rates rather than
// emitting one with an empty name.
func (t ServiceCodeTable) Resolve(originCountry, code string) (string, bool) {
	region := t.Region(originCountry)
	if region == nil {
		return "", false
	}
	name, ok := region[code]
	return name, ok
}
