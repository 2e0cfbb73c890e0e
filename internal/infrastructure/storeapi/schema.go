package storeapi

import (
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/xeipuuv/gojsonschema"
)

// Схемы ответов Store API. Ответ, не прошедший проверку, не декодируется.
const (
	productListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "price"],
    "anyOf": [{"required": ["id"]}, {"required": ["_id"]}],
    "properties": {
      "id":            {"type": ["string", "integer"]},
      "_id":           {"type": "string"},
      "name":          {"type": "string", "minLength": 1},
      "brand":         {"type": "string"},
      "category":      {"type": "string"},
      "price":         {"type": "number", "minimum": 0},
      "originalPrice": {"type": ["number", "null"], "minimum": 0},
      "rating":        {"type": ["number", "null"], "minimum": 0, "maximum": 5},
      "stock":         {"type": ["boolean", "integer", "null"]},
      "image":         {"type": ["string", "null"]}
    }
  }
}`

	orderResponseSchema = `{
  "type": "object",
  "properties": {
    "message": {"type": "string"},
    "orderId": {"type": ["string", "integer"]}
  }
}`
)

var (
	productListLoader   = gojsonschema.NewStringLoader(productListSchema)
	orderResponseLoader = gojsonschema.NewStringLoader(orderResponseSchema)
)

// validateJSONSchema проверяет тело ответа. Нарушения схемы возвращаются как *e.ParseError.
func validateJSONSchema(resource string, schemaLoader gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return e.NewParseError(resource, []string{err.Error()})
	}

	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return e.NewParseError(resource, reasons)
	}

	return nil
}
