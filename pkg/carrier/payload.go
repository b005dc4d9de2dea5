package carrier

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Payload is an untyped carrier-native response tree. Normalization
// walks these trees through the path accessors below, which tolerate
// absent fields and wrong types by returning defaults rather than
// raising. This boundary typing is deliberate: carrier APIs evolve
// independently of this module's release cycle.
type Payload map[string]any

// Get resolves a dot-separated path (e.g. "RateResponse.RatedShipment")
// and reports whether the full path exists.
func (p Payload) Get(path string) (any, bool) {
	var current any = map[string]any(p)
	for _, key := range strings.Split(path, ".") {
		m, ok := toMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Has reports whether a path exists in the tree.
func (p Payload) Has(path string) bool {
	_, ok := p.Get(path)
	return ok
}

// GetString returns the string at path, or "" when absent.
// Numeric values are formatted rather than dropped.
func (p Payload) GetString(path string) string {
	v, ok := p.Get(path)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// GetFloat returns the numeric value at path, or nil when the path is
// absent or the value cannot be interpreted as a number. Carriers report
// monetary values inconsistently as JSON numbers or strings; both parse.
func (p Payload) GetFloat(path string) *float64 {
	v, ok := p.Get(path)
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

// GetInt returns the integer value at path, or 0 when absent.
func (p Payload) GetInt(path string) int {
	if f := p.GetFloat(path); f != nil {
		return int(*f)
	}
	return 0
}

// GetBool returns the boolean value at path, or false when absent.
func (p Payload) GetBool(path string) bool {
	v, ok := p.Get(path)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true") || b == "Y" || b == "1"
	}
	return false
}

// GetMap returns the subtree at path, or an empty Payload when absent.
func (p Payload) GetMap(path string) Payload {
	v, ok := p.Get(path)
	if !ok {
		return Payload{}
	}
	if m, ok := toMap(v); ok {
		return Payload(m)
	}
	return Payload{}
}

// GetSlice returns the object list at path. Non-map elements are
// skipped. A lone object is wrapped into a single-element list: several
// carriers collapse one-element arrays into bare objects.
func (p Payload) GetSlice(path string) []Payload {
	v, ok := p.Get(path)
	if !ok || v == nil {
		return nil
	}
	if m, ok := toMap(v); ok {
		return []Payload{Payload(m)}
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]Payload, 0, len(items))
	for _, item := range items {
		if m, ok := toMap(item); ok {
			result = append(result, Payload(m))
		}
	}
	return result
}

// FirstFloat returns the first non-nil numeric value among paths, in
// order. It implements priority chains such as the negotiated/list
// rate selection.
func (p Payload) FirstFloat(paths ...string) *float64 {
	for _, path := range paths {
		if f := p.GetFloat(path); f != nil {
			return f
		}
	}
	return nil
}

// JoinParts assembles a location string from non-empty parts with a
// fixed ", " delimiter, skipping empty parts.
func JoinParts(parts ...string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			filtered = append(filtered, part)
		}
	}
	return strings.Join(filtered, ", ")
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Payload:
		return m, true
	}
	return nil, false
}

// DecodeJSON parses a JSON body into a Payload, preserving number
// precision via json.Number.
func DecodeJSON(body []byte) (Payload, error) {
	var tree map[string]any
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return Payload(tree), nil
}
