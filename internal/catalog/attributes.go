package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sparkle-learn/platform/internal/backend"
)

// Attribute names with special meaning on product detail records.
const (
	AttrDuration       = "Duration"
	AttrMode           = "Mode"
	AttrCurriculum     = "JSON_Curriculum"
	AttrEligibility    = "JSON_Eligibility"
	AttrCareerOutcomes = "JSON_CareerOutcomes"
)

// ParseStatus describes the outcome of a typed attribute lookup.
type ParseStatus int

const (
	ParseOK ParseStatus = iota
	ParseMissing
	ParseInvalid
)

// ParseResult reports how an attribute lookup resolved. Err is set only for ParseInvalid.
type ParseResult struct {
	Name   string
	Status ParseStatus
	Err    error
}

// OK reports whether the destination was populated from the attribute.
func (r ParseResult) OK() bool { return r.Status == ParseOK }

// Attributes is a lookup over a product's name/value attribute bag. The first entry wins on duplicate names.
type Attributes struct {
	values map[string]string
}

// NewAttributes indexes a backend attribute list.
func NewAttributes(list []backend.Attribute) Attributes {
	values := make(map[string]string, len(list))
	for _, a := range list {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		if _, exists := values[name]; !exists {
			values[name] = a.Value
		}
	}
	return Attributes{values: values}
}

// String returns the raw value for name.
func (a Attributes) String(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

// JSON decodes the attribute value into dst. A ParseInvalid result may leave dst partially written.
func (a Attributes) JSON(name string, dst any) ParseResult {
	raw, ok := a.values[name]
	if !ok || strings.TrimSpace(raw) == "" {
		return ParseResult{Name: name, Status: ParseMissing}
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return ParseResult{Name: name, Status: ParseInvalid, Err: fmt.Errorf("attribute %s: %w", name, err)}
	}
	return ParseResult{Name: name, Status: ParseOK}
}
