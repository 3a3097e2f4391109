package check

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// listingSchema describes the shape of a single listing object as served by
// the properties endpoints. Validation against it is advisory and only
// surfaces in verbose output.
const listingSchema = `{
	"type": "object",
	"required": ["title", "price_per_night", "property_type", "location"],
	"properties": {
		"id": {"type": "string"},
		"title": {"type": "string"},
		"description": {"type": "string"},
		"price_per_night": {"type": "number"},
		"property_type": {"type": "string"},
		"location": {
			"type": "object",
			"required": ["city"],
			"properties": {
				"city": {"type": "string"},
				"state": {"type": "string"},
				"area": {"type": "string"},
				"pincode": {"type": "string"}
			}
		},
		"images": {"type": "array", "items": {"type": "string"}},
		"amenities": {"type": "array", "items": {"type": "string"}},
		"max_guests": {"type": "integer"},
		"bedrooms": {"type": "integer"},
		"bathrooms": {"type": "integer"},
		"host_name": {"type": "string"}
	}
}`

// ValidateListing checks a JSON body against the listing schema. When the
// body is an array, the first element is validated. A nil return means the
// document conforms; the returned issues list the schema violations.
func ValidateListing(body []byte) ([]string, error) {
	doc := body
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.IsArray() {
			first := parsed.Get("0")
			if !first.Exists() {
				return nil, nil
			}
			doc = []byte(first.Raw)
		}
	}

	schemaLoader := gojsonschema.NewStringLoader(listingSchema)
	docLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return issues, nil
}
